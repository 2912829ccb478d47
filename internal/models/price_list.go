package models

import "github.com/shopspring/decimal"

// PriceListProduct is a catalog entry with up to three price tiers. A nil tier
// means "no such price", which is distinct from a price of zero.
type PriceListProduct struct {
	ID          string           `json:"id,omitempty"`
	Name        string           `json:"name"`
	Price1      decimal.Decimal  `json:"price1"`
	Price2      *decimal.Decimal `json:"price2,omitempty"`
	Price3      *decimal.Decimal `json:"price3,omitempty"`
	VendorName  string           `json:"vendorName"`
	Vendor2Name string           `json:"vendor2Name,omitempty"`
	Vendor3Name string           `json:"vendor3Name,omitempty"`
}

func (p PriceListProduct) Identifier() string  { return p.ID }
func (p PriceListProduct) DisplayName() string { return p.Name }
func (p PriceListProduct) EntityKind() Kind    { return KindPriceList }

// Tier describes one price tier with its vendor.
type Tier struct {
	Price  decimal.Decimal
	Vendor string
}

// Tiers lists the tiers that are present, primary first.
func (p PriceListProduct) Tiers() []Tier {
	tiers := []Tier{{Price: p.Price1, Vendor: p.VendorName}}
	if p.Price2 != nil {
		tiers = append(tiers, Tier{Price: *p.Price2, Vendor: p.Vendor2Name})
	}
	if p.Price3 != nil {
		tiers = append(tiers, Tier{Price: *p.Price3, Vendor: p.Vendor3Name})
	}
	return tiers
}
