package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"inventory-catalog/internal/apperrors"
	"inventory-catalog/internal/auth"
	"inventory-catalog/internal/cache"
	"inventory-catalog/internal/codec"
	"inventory-catalog/internal/form"
	"inventory-catalog/internal/gateway"
	"inventory-catalog/internal/handlers"
	"inventory-catalog/internal/models"
	"inventory-catalog/internal/repository"
	"inventory-catalog/internal/store"
)

const (
	adminEmail    = "admin@example.com"
	adminPassword = "s3cret-pass"
)

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 64)...)

type harness struct {
	srv     *httptest.Server
	client  *gateway.Client
	session *auth.Session
	uploads afero.Fs
	device  afero.Fs
}

func setup(t *testing.T) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.MinCost)
	require.NoError(t, err)

	h := &harness{uploads: afero.NewMemMapFs(), device: afero.NewMemMapFs()}
	c := cache.New(time.Minute, 0)
	t.Cleanup(c.Close)

	router := NewRouter(Dependencies{
		Products:     repository.NewMemoryRepository(),
		PriceList:    repository.NewMemoryRepository(),
		SoldProducts: repository.NewMemoryRepository(),
		Cache:        c,
		Uploads:      &handlers.Uploads{FS: h.uploads, Dir: "/srv/uploads"},
		Auth:         handlers.NewAuthHandler("test-secret", adminEmail, string(hash)),
	})
	h.srv = httptest.NewServer(router)
	t.Cleanup(h.srv.Close)

	h.session = auth.NewSession()
	h.client = gateway.NewClient(h.srv.URL, h.session,
		gateway.WithHTTPClient(h.srv.Client()),
		gateway.WithCodec(codec.New(h.device)),
	)
	return h
}

func (h *harness) login(t *testing.T) {
	t.Helper()
	res, err := h.client.Login(context.Background(), adminEmail, adminPassword)
	require.NoError(t, err)
	h.session.SignIn(res.Token, res.User)
}

func TestLoginRejectsBadPassword(t *testing.T) {
	h := setup(t)
	_, err := h.client.Login(context.Background(), adminEmail, "wrong")

	var re *apperrors.RemoteError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, http.StatusUnauthorized, re.Status)
	assert.Equal(t, "invalid email or password", re.Error())
}

func TestCatalogRequiresToken(t *testing.T) {
	h := setup(t)

	resp, err := h.srv.Client().Get(h.srv.URL + "/api/products")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	bogus := gateway.NewClient(h.srv.URL, auth.StaticToken("not-a-jwt"), gateway.WithHTTPClient(h.srv.Client()))
	_, err = bogus.Products().List(context.Background())
	var re *apperrors.RemoteError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, http.StatusUnauthorized, re.Status)
}

func TestProductLifecycleWithImageUpload(t *testing.T) {
	h := setup(t)
	h.login(t)
	ctx := context.Background()
	require.NoError(t, afero.WriteFile(h.device, "/dcim/shot.png", pngBytes, 0o644))

	products := store.New[models.Product](h.client.Products())
	require.NoError(t, products.Refresh(ctx))
	assert.Equal(t, 0, products.Len())

	created, err := products.CommitCreate(ctx, models.Product{
		Name:     "Pulse Oximeter",
		Model:    "PX-1",
		Price:    decimal.RequireFromString("1200.50"),
		Quantity: 3,
		Image:    models.NewLocalImage("file:///dcim/shot.png", "", ""),
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.True(t, created.Image.IsRemote(), "server should answer with a hosted image")
	assert.True(t, strings.HasPrefix(created.Image.URL(), h.srv.URL+"/uploads/"))
	assert.True(t, created.Price.Equal(decimal.RequireFromString("1200.5")))
	assert.Equal(t, "No description provided", created.Description)
	require.NotNil(t, created.CreatedAt)

	resp, err := h.srv.Client().Get(created.Image.URL())
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, pngBytes, body)

	edited := created
	edited.Quantity = 9
	updated, err := products.CommitUpdate(ctx, edited)
	require.NoError(t, err)
	assert.Equal(t, int64(9), updated.Quantity)
	assert.Equal(t, created.Image.URL(), updated.Image.URL(), "image kept when not re-sent")

	require.NoError(t, products.Refresh(ctx))
	require.Equal(t, 1, products.Len())
	got, ok := products.Get(created.ID)
	require.True(t, ok)
	assert.Equal(t, int64(9), got.Quantity)

	require.NoError(t, products.CommitDelete(ctx, created.ID))
	require.NoError(t, products.Refresh(ctx))
	assert.Equal(t, 0, products.Len())
}

func TestPriceListThroughFormSession(t *testing.T) {
	h := setup(t)
	h.login(t)
	ctx := context.Background()

	priceList := store.New[models.PriceListProduct](h.client.PriceList())
	s := form.NewSession[models.PriceListProduct](form.PriceListSchema{}, priceList, nil)
	require.NoError(t, s.Set(form.FieldName, "Oximeter"))
	require.NoError(t, s.Set(form.FieldPrice1, "1200"))
	require.NoError(t, s.Set(form.FieldVendorName, "Acme"))
	_, err := s.Submit(ctx)
	require.NoError(t, err)

	resp, err := doAuthed(h, http.MethodGet, "/api/price-list")
	require.NoError(t, err)
	raw, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.True(t, strings.HasPrefix(strings.TrimSpace(string(raw)), "["), "price list is a bare array")
	assert.Contains(t, string(raw), `"_id"`)

	fresh := store.New[models.PriceListProduct](h.client.PriceList())
	require.NoError(t, fresh.Refresh(ctx))
	items := fresh.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "Oximeter", items[0].Name)
	assert.True(t, items[0].Price1.Equal(decimal.NewFromInt(1200)))
	assert.Nil(t, items[0].Price2)
}

func TestServerValidationSurfacesAsRemoteError(t *testing.T) {
	h := setup(t)
	h.login(t)

	_, err := h.client.SoldProducts().Create(context.Background(), models.SoldProduct{
		Name: "Scale", Model: "S-1", Price: decimal.NewFromInt(10),
		CustomerName: "Rahim", CustomerContact: "123", SoldAt: time.Now(),
	})
	var re *apperrors.RemoteError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, http.StatusBadRequest, re.Status)
	assert.Equal(t, "Contact must be at least 6 digits.", re.Error())
}

func TestSoldProductsRoundTrip(t *testing.T) {
	h := setup(t)
	h.login(t)
	ctx := context.Background()
	soldAt := time.Date(2025, 7, 1, 9, 30, 0, 0, time.UTC)

	created, err := h.client.SoldProducts().Create(ctx, models.SoldProduct{
		Name: "Scale", Model: "S-1", Price: decimal.NewFromInt(80),
		CustomerName: "Rahim", CustomerContact: "01711000000", SoldAt: soldAt,
	})
	require.NoError(t, err)

	list, err := h.client.SoldProducts().List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)
	assert.True(t, list[0].SoldAt.Equal(soldAt))
}

func TestUnknownIDs(t *testing.T) {
	h := setup(t)
	h.login(t)

	err := h.client.Products().Delete(context.Background(), "nope")
	var re *apperrors.RemoteError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, http.StatusBadRequest, re.Status)

	err = h.client.Products().Delete(context.Background(), "65f000000000000000000000")
	require.ErrorAs(t, err, &re)
	assert.Equal(t, http.StatusNotFound, re.Status)
	assert.Equal(t, "product not found", re.Error())
}

func doAuthed(h *harness, method, path string) (*http.Response, error) {
	req, err := http.NewRequest(method, h.srv.URL+path, nil)
	if err != nil {
		return nil, err
	}
	token, err := h.session.Token(context.Background())
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return h.srv.Client().Do(req)
}

func TestLoginIsRateLimited(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c := cache.New(time.Minute, 0)
	t.Cleanup(c.Close)
	router := NewRouter(Dependencies{
		Products:      repository.NewMemoryRepository(),
		PriceList:     repository.NewMemoryRepository(),
		SoldProducts:  repository.NewMemoryRepository(),
		Cache:         c,
		Auth:          handlers.NewAuthHandler("s", adminEmail, ""),
		LoginAttempts: 2,
	})

	statuses := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"email":"a@b.c","password":"x"}`))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)
		statuses = append(statuses, w.Code)
		if i == 2 {
			assert.NotEmpty(t, w.Header().Get("Retry-After"))
		}
	}
	assert.Equal(t, []int{http.StatusServiceUnavailable, http.StatusServiceUnavailable, http.StatusTooManyRequests}, statuses)
}

func TestCORSPreflight(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := NewRouter(Dependencies{
		Products:     repository.NewMemoryRepository(),
		PriceList:    repository.NewMemoryRepository(),
		SoldProducts: repository.NewMemoryRepository(),
		Auth:         handlers.NewAuthHandler("s", adminEmail, ""),
		CORSOrigins:  []string{"http://localhost:3000"},
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/api/products", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}
