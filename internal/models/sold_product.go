package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SoldProduct records a sale: a reduced product plus the customer.
type SoldProduct struct {
	ID              string          `json:"id,omitempty"`
	Name            string          `json:"name"`
	Model           string          `json:"productModel"`
	Serial          string          `json:"serialNumber,omitempty"`
	Price           decimal.Decimal `json:"price"`
	Note            string          `json:"note,omitempty"`
	CustomerName    string          `json:"customerName"`
	CustomerContact string          `json:"customerContact"`
	CustomerAddress string          `json:"customerAddress,omitempty"`
	SoldAt          time.Time       `json:"soldAt"`
}

func (p SoldProduct) Identifier() string  { return p.ID }
func (p SoldProduct) DisplayName() string { return p.Name }
func (p SoldProduct) EntityKind() Kind    { return KindSold }
