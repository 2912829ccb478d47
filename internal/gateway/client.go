// Package gateway performs the typed CRUD calls against the remote catalog service.
// Calls are single shot: no retries and no cancellation beyond the caller's context.
package gateway

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"inventory-catalog/internal/apperrors"
	"inventory-catalog/internal/auth"
	"inventory-catalog/internal/codec"
	"inventory-catalog/internal/models"
)

const defaultTimeout = 10 * time.Second

// Client talks to one catalog service.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  auth.TokenProvider
	codec   *codec.Codec
}

type Option func(*Client)

// WithHTTPClient replaces the transport, e.g. with an httptest client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithCodec sets the codec used to encode request bodies.
func WithCodec(cd *codec.Codec) Option {
	return func(c *Client) { c.codec = cd }
}

// WithTimeout sets the transport timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

func NewClient(baseURL string, tokens auth.TokenProvider, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
		tokens:  tokens,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.codec == nil {
		c.codec = codec.New(nil)
	}
	return c
}

// Products returns the product resource.
func (c *Client) Products() *Resource[models.Product] {
	return &Resource[models.Product]{client: c, kind: models.KindProduct}
}

// PriceList returns the price list resource.
func (c *Client) PriceList() *Resource[models.PriceListProduct] {
	return &Resource[models.PriceListProduct]{client: c, kind: models.KindPriceList}
}

// SoldProducts returns the sold product resource.
func (c *Client) SoldProducts() *Resource[models.SoldProduct] {
	return &Resource[models.SoldProduct]{client: c, kind: models.KindSold}
}

// do sends one request. With authenticated set, a missing token fails before any I/O.
func (c *Client) do(ctx context.Context, method, path string, payload *codec.Payload, authenticated bool) ([]byte, error) {
	var token string
	if authenticated {
		if c.tokens == nil {
			return nil, apperrors.ErrUnauthenticated
		}
		t, err := c.tokens.Token(ctx)
		if err != nil {
			return nil, err
		}
		token = t
	}

	var body io.Reader
	if payload != nil {
		body = payload.Reader()
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, errors.Wrapf(err, "build %s %s", method, path)
	}
	reqID := uuid.NewString()
	req.Header.Set("X-Request-Id", reqID)
	req.Header.Set("Accept", codec.ContentTypeJSON)
	if payload != nil {
		req.Header.Set("Content-Type", payload.ContentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		zap.S().Warnw("catalog_request_failed",
			"method", method,
			"path", path,
			"request_id", reqID,
			"error", err,
		)
		return nil, errors.Wrapf(err, "%s %s", method, path)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	zap.S().Debugw("catalog_request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"bytes", len(respBody),
		"latency_ms", float64(time.Since(start).Microseconds())/1000.0,
		"request_id", reqID,
	)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s %s", method, path)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &apperrors.RemoteError{Status: resp.StatusCode, Message: serverMessage(respBody)}
	}
	return respBody, nil
}

// serverMessage extracts {"message": ...} or {"error": ...} from an error body.
func serverMessage(body []byte) string {
	var m map[string]any
	if err := codec.JSON.Unmarshal(body, &m); err != nil {
		return ""
	}
	for _, key := range []string{"message", "error"} {
		if s, ok := m[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}
