package store_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inventory-catalog/internal/auth"
	"inventory-catalog/internal/gateway"
	"inventory-catalog/internal/models"
	"inventory-catalog/internal/store"
)

func TestRefreshWithMalformedListBodyKeepsCollection(t *testing.T) {
	var body atomic.Value
	body.Store(`{"products":[{"_id":"a","name":"A","price":1,"quantity":1},{"_id":"b","name":"B","price":2,"quantity":2}]}`)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body.Load().(string)))
	}))
	t.Cleanup(srv.Close)

	client := gateway.NewClient(srv.URL, auth.StaticToken("tok-1"), gateway.WithHTTPClient(srv.Client()))
	s := store.New[models.Product](client.Products())
	require.NoError(t, s.Refresh(context.Background()))
	require.Equal(t, 2, s.Len())
	before := s.Items()
	last := s.LastFetch()

	for _, bad := range []string{"", `{"message":"maintenance"}`} {
		body.Store(bad)
		assert.Error(t, s.Refresh(context.Background()), "body %q", bad)
		assert.Equal(t, before, s.Items())
		assert.Equal(t, last, s.LastFetch())
		assert.False(t, s.Loading())
	}

	body.Store(`{"products":null}`)
	require.NoError(t, s.Refresh(context.Background()))
	assert.Equal(t, 0, s.Len())
}
