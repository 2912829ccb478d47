package gateway

import (
	"context"
	"net/http"
	"net/url"

	"github.com/pkg/errors"

	"inventory-catalog/internal/apperrors"
	"inventory-catalog/internal/codec"
	"inventory-catalog/internal/models"
)

// Resource is the CRUD surface of one entity kind.
type Resource[T models.Entity] struct {
	client *Client
	kind   models.Kind
}

func (r *Resource[T]) Kind() models.Kind { return r.kind }

func (r *Resource[T]) collectionPath() string {
	return "/api/" + string(r.kind)
}

func (r *Resource[T]) itemPath(id string) string {
	return r.collectionPath() + "/" + url.PathEscape(id)
}

// List fetches the whole collection, normalized.
func (r *Resource[T]) List(ctx context.Context) ([]T, error) {
	body, err := r.client.do(ctx, http.MethodGet, r.collectionPath(), nil, true)
	if err != nil {
		return nil, err
	}
	docs, err := codec.DecodeList(body)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(docs))
	for _, doc := range docs {
		e, err := codec.Normalize[T](doc)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// Create posts a new entity and returns the server's version of it.
func (r *Resource[T]) Create(ctx context.Context, e T) (T, error) {
	return r.send(ctx, http.MethodPost, r.collectionPath(), e)
}

// Update replaces the entity with the same identifier.
func (r *Resource[T]) Update(ctx context.Context, e T) (T, error) {
	if e.Identifier() == "" {
		var zero T
		return zero, apperrors.ErrMissingIdentifier
	}
	return r.send(ctx, http.MethodPut, r.itemPath(e.Identifier()), e)
}

// Delete removes the entity with id.
func (r *Resource[T]) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.ErrMissingIdentifier
	}
	_, err := r.client.do(ctx, http.MethodDelete, r.itemPath(id), nil, true)
	return err
}

func (r *Resource[T]) send(ctx context.Context, method, path string, e T) (T, error) {
	var zero T
	payload, err := r.client.codec.Encode(e)
	if err != nil {
		return zero, errors.Wrapf(err, "encode %s", r.kind)
	}
	body, err := r.client.do(ctx, method, path, &payload, true)
	if err != nil {
		return zero, err
	}
	doc, err := codec.DecodeOne(body)
	if err != nil {
		return zero, err
	}
	return codec.Normalize[T](doc)
}
