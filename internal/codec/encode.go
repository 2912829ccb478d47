package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/afero"

	"inventory-catalog/internal/models"
)

const (
	ContentTypeJSON = "application/json"

	// ImageField is the multipart part name carrying a local image.
	ImageField = "image"

	noDescription = "No description provided"
)

// Payload is an encoded request body.
type Payload struct {
	ContentType string
	Body        []byte
}

// Reader returns a fresh reader over the body.
func (p Payload) Reader() io.Reader {
	return bytes.NewReader(p.Body)
}

// IsMultipart reports whether the payload carries a file part.
func (p Payload) IsMultipart() bool {
	return strings.HasPrefix(p.ContentType, "multipart/")
}

// Codec encodes entities for the wire. Local images are read through fs.
type Codec struct {
	fs afero.Fs
}

// New returns a Codec reading local files from fs, or the OS filesystem when nil.
func New(fs afero.Fs) *Codec {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Codec{fs: fs}
}

type field struct {
	name  string
	value string
}

// Encode builds the request body for e. Only a local image makes the body
// multipart; absent and remote images are left out entirely.
func (c *Codec) Encode(e models.Entity) (Payload, error) {
	switch v := e.(type) {
	case models.Product:
		return c.encodeProduct(v)
	case *models.Product:
		return c.encodeProduct(*v)
	case models.PriceListProduct:
		return encodePriceList(v)
	case *models.PriceListProduct:
		return encodePriceList(*v)
	case models.SoldProduct:
		return encodeSold(v)
	case *models.SoldProduct:
		return encodeSold(*v)
	}
	return Payload{}, fmt.Errorf("codec: unsupported entity %T", e)
}

func productFields(p models.Product) []field {
	desc := strings.TrimSpace(p.Description)
	if desc == "" {
		desc = noDescription
	}
	fields := []field{{"name", p.Name}}
	if p.Brand != "" {
		fields = append(fields, field{"productBrand", p.Brand})
	}
	return append(fields,
		field{"productModel", p.Model},
		field{"productOrigin", p.Origin},
		field{"price", p.Price.String()},
		field{"quantity", strconv.FormatInt(p.Quantity, 10)},
		field{"description", desc},
	)
}

func (c *Codec) encodeProduct(p models.Product) (Payload, error) {
	fields := productFields(p)
	local, ok := p.Image.Local()
	if !ok {
		doc := make(map[string]any, len(fields))
		for _, f := range fields {
			doc[f.name] = f.value
		}
		doc["price"] = json.Number(p.Price.String())
		doc["quantity"] = p.Quantity
		return jsonPayload(doc)
	}

	data, err := afero.ReadFile(c.fs, localPath(local.URI))
	if err != nil {
		return Payload{}, errors.Wrapf(err, "read image %s", local.URI)
	}
	typ := local.Type
	if typ == "" {
		typ = MIMEFromFilename(local.Name, data)
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, f := range fields {
		if err := w.WriteField(f.name, f.value); err != nil {
			return Payload{}, err
		}
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, ImageField, local.Name))
	h.Set("Content-Type", typ)
	part, err := w.CreatePart(h)
	if err != nil {
		return Payload{}, err
	}
	if _, err := part.Write(data); err != nil {
		return Payload{}, err
	}
	if err := w.Close(); err != nil {
		return Payload{}, err
	}
	return Payload{ContentType: w.FormDataContentType(), Body: buf.Bytes()}, nil
}

func encodePriceList(p models.PriceListProduct) (Payload, error) {
	doc := map[string]any{
		"name":       p.Name,
		"price1":     json.Number(p.Price1.String()),
		"vendorName": p.VendorName,
	}
	if p.Price2 != nil {
		doc["price2"] = json.Number(p.Price2.String())
		if p.Vendor2Name != "" {
			doc["vendor2Name"] = p.Vendor2Name
		}
	}
	if p.Price3 != nil {
		doc["price3"] = json.Number(p.Price3.String())
		if p.Vendor3Name != "" {
			doc["vendor3Name"] = p.Vendor3Name
		}
	}
	return jsonPayload(doc)
}

func encodeSold(p models.SoldProduct) (Payload, error) {
	doc := map[string]any{
		"name":            p.Name,
		"productModel":    p.Model,
		"price":           json.Number(p.Price.String()),
		"customerName":    p.CustomerName,
		"customerContact": p.CustomerContact,
	}
	if p.Serial != "" {
		doc["serialNumber"] = p.Serial
	}
	if p.Note != "" {
		doc["note"] = p.Note
	}
	if p.CustomerAddress != "" {
		doc["customerAddress"] = p.CustomerAddress
	}
	if !p.SoldAt.IsZero() {
		doc["soldAt"] = p.SoldAt.UTC().Format(time.RFC3339)
	}
	return jsonPayload(doc)
}

// EncodeJSON marshals an arbitrary body, used for requests that are not entities.
func EncodeJSON(v any) (Payload, error) {
	return jsonPayload(v)
}

func jsonPayload(v any) (Payload, error) {
	b, err := JSON.Marshal(v)
	if err != nil {
		return Payload{}, errors.Wrap(err, "encode json body")
	}
	return Payload{ContentType: ContentTypeJSON, Body: b}, nil
}

func localPath(uri string) string {
	return strings.TrimPrefix(uri, "file://")
}
