// Package models defines the catalog entities held by the client and served by
// the reference API.
package models

// Kind names an entity kind. The value doubles as the REST collection segment.
type Kind string

const (
	KindProduct   Kind = "products"
	KindPriceList Kind = "price-list"
	KindSold      Kind = "sold-products"
)

// Entity is implemented by every catalog entity kind.
type Entity interface {
	// Identifier returns the canonical identifier, empty until the server assigns one.
	Identifier() string
	// DisplayName is the field search filters on.
	DisplayName() string
	EntityKind() Kind
}
