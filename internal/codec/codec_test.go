package codec

import (
	"bytes"
	"io"
	"mime"
	"mime/multipart"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inventory-catalog/internal/models"
)

func TestNormalizeDocumentMovesWireID(t *testing.T) {
	doc := Document{"_id": "66b1f0", "name": "Oximeter"}
	got := NormalizeDocument(doc)

	assert.Equal(t, Document{"id": "66b1f0", "name": "Oximeter"}, got)
	_, hasWire := got["_id"]
	assert.False(t, hasWire)
	assert.Equal(t, "66b1f0", doc["_id"], "input must not be mutated")
}

func TestNormalizeDocumentIsIdempotent(t *testing.T) {
	inputs := []Document{
		{"_id": "a1", "name": "x"},
		{"id": "a1", "name": "x"},
		{"_id": "server", "id": "client-tmp", "name": "x"},
		{"_id": map[string]any{"$oid": "65f0"}, "name": "x"},
		{"id": "", "name": "draft"},
		{"name": "no id"},
	}
	for _, in := range inputs {
		once := NormalizeDocument(in)
		twice := NormalizeDocument(once)
		assert.Equal(t, once, twice)
	}
}

func TestNormalizeDocumentPrefersServerID(t *testing.T) {
	got := NormalizeDocument(Document{"_id": "server", "id": "client-tmp"})
	assert.Equal(t, "server", got["id"])
}

func TestNormalizeProduct(t *testing.T) {
	docs, err := DecodeList([]byte(`{"message":"ok","total":1,"products":[
		{"_id":"p1","name":"Pulse oximeter","productModel":"PX-1","productOrigin":"JP",
		 "price":1200.50,"quantity":"7","description":"d","image":"https://cdn/x.jpg",
		 "createdAt":"2025-08-01T10:00:00Z","__v":0}]}`))
	require.NoError(t, err)
	require.Len(t, docs, 1)

	p, err := Normalize[models.Product](docs[0])
	require.NoError(t, err)
	assert.Equal(t, "p1", p.ID)
	assert.Equal(t, "Pulse oximeter", p.Name)
	assert.Equal(t, "PX-1", p.Model)
	assert.True(t, p.Price.Equal(decimal.RequireFromString("1200.5")))
	assert.Equal(t, int64(7), p.Quantity)
	assert.True(t, p.Image.IsRemote())
	assert.Equal(t, "https://cdn/x.jpg", p.Image.URL())
	require.NotNil(t, p.CreatedAt)
	assert.True(t, p.CreatedAt.Equal(time.Date(2025, 8, 1, 10, 0, 0, 0, time.UTC)))
}

func TestNormalizeCanonicalEntityIsNoop(t *testing.T) {
	p2 := decimal.RequireFromString("900")
	in := models.PriceListProduct{
		ID:         "pl1",
		Name:       "Oximeter",
		Price1:     decimal.RequireFromString("1200"),
		Price2:     &p2,
		VendorName: "Acme",
	}
	doc, err := ToDocument(in)
	require.NoError(t, err)

	out, err := Normalize[models.PriceListProduct](doc)
	require.NoError(t, err)
	again, err := ToDocument(out)
	require.NoError(t, err)
	assert.Equal(t, doc, again)
	assert.Nil(t, out.Price3)
}

func TestDecodeListShapes(t *testing.T) {
	raw, err := DecodeList([]byte(`[{"_id":"1"},{"_id":"2"}]`))
	require.NoError(t, err)
	assert.Len(t, raw, 2)

	wrapped, err := DecodeList([]byte(`{"products":[{"_id":"1"}]}`))
	require.NoError(t, err)
	assert.Len(t, wrapped, 1)

	viaData, err := DecodeList([]byte(`{"data":[{"_id":"1"},{"_id":"2"}]}`))
	require.NoError(t, err)
	assert.Len(t, viaData, 2)

	empty, err := DecodeList([]byte(`{"products":null}`))
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	_, err = DecodeList([]byte(`[1,2]`))
	assert.Error(t, err)
}

func TestDecodeListRejectsMalformedBodies(t *testing.T) {
	for name, body := range map[string]string{
		"empty":        "",
		"whitespace":   "  \n",
		"bare null":    "null",
		"no list key":  `{"message":"nothing"}`,
		"maintenance":  `{"message":"maintenance","status":503}`,
		"list not arr": `{"products":{"_id":"1"}}`,
	} {
		t.Run(name, func(t *testing.T) {
			docs, err := DecodeList([]byte(body))
			assert.Error(t, err)
			assert.Nil(t, docs)
		})
	}
}

func TestDecodeOneUnwrapsProduct(t *testing.T) {
	doc, err := DecodeOne([]byte(`{"message":"created","product":{"_id":"n1","name":"x"}}`))
	require.NoError(t, err)
	assert.Equal(t, "n1", doc["_id"])
}

func TestEncodeOmitsRemoteImage(t *testing.T) {
	c := New(afero.NewMemMapFs())
	p := models.Product{
		ID:       "p1",
		Name:     "Oximeter",
		Price:    decimal.RequireFromString("10.5"),
		Quantity: 2,
		Image:    models.RemoteImage("https://cdn/x.jpg"),
	}
	payload, err := c.Encode(p)
	require.NoError(t, err)
	assert.Equal(t, ContentTypeJSON, payload.ContentType)

	var body map[string]any
	require.NoError(t, JSON.Unmarshal(payload.Body, &body))
	_, hasImage := body["image"]
	assert.False(t, hasImage)
	_, hasID := body["id"]
	assert.False(t, hasID)
	assert.Equal(t, "No description provided", body["description"])
	assert.Equal(t, "10.5", body["price"].(interface{ String() string }).String())
}

func TestEncodeAbsentImageIsJSON(t *testing.T) {
	payload, err := New(afero.NewMemMapFs()).Encode(models.Product{Name: "x"})
	require.NoError(t, err)
	assert.False(t, payload.IsMultipart())
}

func TestEncodeLocalImageIsMultipart(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/cache/picked.png", []byte("png-bytes"), 0o644))
	c := New(fs)

	p := models.Product{
		Name:     "Thermometer",
		Model:    "T-2",
		Price:    decimal.RequireFromString("99"),
		Quantity: 4,
		Image:    models.NewLocalImage("file:///cache/picked.png", "", ""),
	}
	payload, err := c.Encode(&p)
	require.NoError(t, err)
	require.True(t, payload.IsMultipart())

	_, params, err := mime.ParseMediaType(payload.ContentType)
	require.NoError(t, err)
	r := multipart.NewReader(bytes.NewReader(payload.Body), params["boundary"])

	fields := map[string]string{}
	var imagePart struct{ filename, typ, data string }
	for {
		part, err := r.NextPart()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		data, err := io.ReadAll(part)
		require.NoError(t, err)
		if part.FormName() == ImageField {
			imagePart.filename = part.FileName()
			imagePart.typ = part.Header.Get("Content-Type")
			imagePart.data = string(data)
			continue
		}
		fields[part.FormName()] = string(data)
	}

	assert.Equal(t, "Thermometer", fields["name"])
	assert.Equal(t, "T-2", fields["productModel"])
	assert.Equal(t, "99", fields["price"])
	assert.Equal(t, "4", fields["quantity"])
	assert.Equal(t, "picked.png", imagePart.filename)
	assert.Equal(t, "image/png", imagePart.typ)
	assert.Equal(t, "png-bytes", imagePart.data)
}

func TestEncodeLocalImageMissingFile(t *testing.T) {
	c := New(afero.NewMemMapFs())
	_, err := c.Encode(models.Product{Name: "x", Image: models.NewLocalImage("/nope.jpg", "", "")})
	assert.Error(t, err)
}

func TestEncodeLocalPathStartingWithHTTPIsUploaded(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "httpcache/photo.png", []byte("png-bytes"), 0o644))

	p := models.Product{Name: "Mask", Image: models.NewLocalImage("httpcache/photo.png", "", "")}
	require.True(t, p.Image.IsLocal())
	payload, err := New(fs).Encode(p)
	require.NoError(t, err)
	assert.True(t, payload.IsMultipart())
}

func TestEncodePriceListOmitsAbsentTiers(t *testing.T) {
	payload, err := New(nil).Encode(models.PriceListProduct{
		Name:       "Oximeter",
		Price1:     decimal.RequireFromString("1200"),
		VendorName: "Acme",
	})
	require.NoError(t, err)
	var body map[string]any
	require.NoError(t, JSON.Unmarshal(payload.Body, &body))
	assert.Contains(t, body, "price1")
	assert.NotContains(t, body, "price2")
	assert.NotContains(t, body, "price3")
	assert.Equal(t, "Acme", body["vendorName"])
}

func TestParseDecimalIsLocaleIndependent(t *testing.T) {
	d, err := ParseDecimal(" 12.50 ")
	require.NoError(t, err)
	assert.Equal(t, "12.5", d.String())

	for _, bad := range []string{"", "12,5", "abc", "1.2.3"} {
		_, err := ParseDecimal(bad)
		assert.Error(t, err, bad)
	}
}

func TestParseQuantity(t *testing.T) {
	n, err := ParseQuantity("42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), n)

	_, err = ParseQuantity("4.2")
	assert.Error(t, err)
}

func TestMIMEFromFilename(t *testing.T) {
	assert.Equal(t, "image/png", MIMEFromFilename("a.PNG", nil))
	assert.Equal(t, "image/jpeg", MIMEFromFilename("a.jpg", nil))
	assert.Equal(t, DefaultImageType, MIMEFromFilename("noext", []byte("plain text")))
	assert.Equal(t, DefaultImageType, MIMEFromFilename("a.unknownext", nil))
}
