// Package repository stores catalog documents for the reference API. Documents
// are keyed by Mongo ObjectID and soft deleted.
package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
)

var (
	ErrNotFound  = errors.New("document not found")
	ErrInvalidID = errors.New("invalid document ID")
)

// Document field names shared by every backend.
const (
	FieldID        = "_id"
	FieldCreatedAt = "createdAt"
	FieldUpdatedAt = "updatedAt"
	FieldDeleted   = "is_deleted"
	FieldName      = "name"
)

// ListQuery narrows FindAll. A zero PageSize returns every match.
type ListQuery struct {
	Search   string
	Page     int
	PageSize int
}

// Repository is one collection of documents.
type Repository interface {
	Create(ctx context.Context, doc bson.M) (bson.M, error)
	FindByID(ctx context.Context, id string) (bson.M, error)
	// FindAll returns live documents, newest first, and the total match count.
	FindAll(ctx context.Context, q ListQuery) ([]bson.M, int64, error)
	// Replace swaps the whole document, keeping its identifier and creation time.
	Replace(ctx context.Context, id string, doc bson.M) (bson.M, error)
	SoftDelete(ctx context.Context, id string) error
}

// Public strips storage-only fields from doc.
func Public(doc bson.M) bson.M {
	out := make(bson.M, len(doc))
	for k, v := range doc {
		if k == FieldDeleted {
			continue
		}
		out[k] = v
	}
	return out
}

func stripManaged(doc bson.M) bson.M {
	out := make(bson.M, len(doc))
	for k, v := range doc {
		switch k {
		case FieldID, "id", FieldCreatedAt, FieldUpdatedAt, FieldDeleted:
			continue
		}
		out[k] = v
	}
	return out
}
