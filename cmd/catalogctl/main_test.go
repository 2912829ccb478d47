package main

import (
	"bytes"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"inventory-catalog/internal/apperrors"
	"inventory-catalog/internal/cache"
	"inventory-catalog/internal/handlers"
	"inventory-catalog/internal/repository"
	"inventory-catalog/internal/routes"
)

type env struct {
	api string
	fs  afero.Fs
}

func newEnv(t *testing.T) *env {
	t.Helper()
	gin.SetMode(gin.TestMode)
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter22"), bcrypt.MinCost)
	require.NoError(t, err)

	c := cache.New(time.Minute, 0)
	t.Cleanup(c.Close)
	srv := httptest.NewServer(routes.NewRouter(routes.Dependencies{
		Products:     repository.NewMemoryRepository(),
		PriceList:    repository.NewMemoryRepository(),
		SoldProducts: repository.NewMemoryRepository(),
		Cache:        c,
		Uploads:      &handlers.Uploads{FS: afero.NewMemMapFs(), Dir: "/uploads"},
		Auth:         handlers.NewAuthHandler("cli-test", "admin@example.com", string(hash)),
	}))
	t.Cleanup(srv.Close)

	t.Setenv("CATALOG_TOKEN", "")
	t.Setenv("LOG_LEVEL", "error")
	return &env{api: srv.URL, fs: afero.NewMemMapFs()}
}

func (e *env) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRoot(e.fs, &out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(append([]string{"--api", e.api, "--token-file", "/cfg/token"}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestLoginSavesToken(t *testing.T) {
	e := newEnv(t)

	_, err := e.run(t, "login", "--email", "admin@example.com", "--password", "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid email or password")

	out, err := e.run(t, "login", "--email", "admin@example.com", "--password", "hunter22")
	require.NoError(t, err)
	assert.Contains(t, out, "signed in as Administrator")

	saved, err := afero.ReadFile(e.fs, "/cfg/token")
	require.NoError(t, err)
	assert.NotEmpty(t, strings.TrimSpace(string(saved)))

	_, err = e.run(t, "logout")
	require.NoError(t, err)
	exists, _ := afero.Exists(e.fs, "/cfg/token")
	assert.False(t, exists)
}

func TestCommandsNeedLogin(t *testing.T) {
	e := newEnv(t)
	_, err := e.run(t, "products", "list")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
}

func TestProductWorkflow(t *testing.T) {
	e := newEnv(t)
	_, err := e.run(t, "login", "--email", "admin@example.com", "--password", "hunter22")
	require.NoError(t, err)

	_, err = e.run(t, "products", "add", "--name", "  ", "--price", "1")
	require.Error(t, err)
	assert.Equal(t, "Please enter a product name.", err.Error())

	out, err := e.run(t, "products", "add", "--name", "Pulse Oximeter", "--productModel", "PX-1", "--price", "1200.50", "--quantity", "4")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "created "))
	id := strings.Fields(out)[1]

	_, err = e.run(t, "products", "add", "--name", "Thermometer", "--price", "300", "--quantity", "10")
	require.NoError(t, err)

	out, err = e.run(t, "products", "list", "--search", "oxi")
	require.NoError(t, err)
	assert.Contains(t, out, "Pulse Oximeter")
	assert.NotContains(t, out, "Thermometer")

	out, err = e.run(t, "products", "stock", id, "out", "5")
	require.Error(t, err)
	assert.Equal(t, "Not enough stock to remove.", err.Error())

	out, err = e.run(t, "products", "stock", id, "out", "3")
	require.NoError(t, err)
	assert.Equal(t, "Pulse Oximeter: 4 -> 1\n", out)

	out, err = e.run(t, "products", "edit", id, "--description", "fingertip")
	require.NoError(t, err)
	assert.Contains(t, out, "updated "+id)

	out, err = e.run(t, "products", "value")
	require.NoError(t, err)
	assert.Equal(t, "2 products, total value 4200.50\n", out)

	_, err = e.run(t, "products", "export", "--out", "/exports/products.csv")
	require.NoError(t, err)
	csv, err := afero.ReadFile(e.fs, "/exports/products.csv")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(csv)), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, string(csv), "fingertip")

	_, err = e.run(t, "products", "delete", id)
	require.NoError(t, err)
	out, err = e.run(t, "products", "list")
	require.NoError(t, err)
	assert.NotContains(t, out, "Pulse Oximeter")
}

func TestPriceListAndSales(t *testing.T) {
	e := newEnv(t)
	_, err := e.run(t, "login", "--email", "admin@example.com", "--password", "hunter22")
	require.NoError(t, err)

	_, err = e.run(t, "price-list", "add", "--name", "Oximeter", "--price1", "1200", "--vendorName", "Acme", "--price2", "1150", "--vendor2Name", "Globex")
	require.NoError(t, err)
	out, err := e.run(t, "price-list", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Acme")
	assert.Contains(t, out, "Globex")

	_, err = e.run(t, "sold", "add", "--name", "Scale", "--productModel", "S-1", "--price", "80",
		"--customerName", "Rahim", "--customerContact", "01711000000", "--soldAt", "2025-07-01 10:00")
	require.NoError(t, err)
	out, err = e.run(t, "sold", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Rahim")
	assert.Contains(t, out, "01711000000")
}
