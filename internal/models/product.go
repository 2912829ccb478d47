package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a stocked item. CreatedAt is set by the server only.
type Product struct {
	ID          string          `json:"id,omitempty"`
	Name        string          `json:"name"`
	Brand       string          `json:"productBrand,omitempty"`
	Model       string          `json:"productModel,omitempty"`
	Origin      string          `json:"productOrigin,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int64           `json:"quantity"`
	Description string          `json:"description,omitempty"`
	Image       Image           `json:"image"`
	CreatedAt   *time.Time      `json:"createdAt,omitempty"`
}

func (p Product) Identifier() string  { return p.ID }
func (p Product) DisplayName() string { return p.Name }
func (p Product) EntityKind() Kind    { return KindProduct }

// StockValue is quantity times unit price.
func (p Product) StockValue() decimal.Decimal {
	return p.Price.Mul(decimal.NewFromInt(p.Quantity))
}
