// Package export writes catalog snapshots as CSV.
package export

import (
	"io"
	"time"

	"github.com/gocarina/gocsv"

	"inventory-catalog/internal/models"
)

type productRow struct {
	ID          string `csv:"id"`
	Name        string `csv:"name"`
	Brand       string `csv:"brand"`
	Model       string `csv:"model"`
	Origin      string `csv:"origin"`
	Price       string `csv:"price"`
	Quantity    int64  `csv:"quantity"`
	StockValue  string `csv:"stock_value"`
	Description string `csv:"description"`
	Image       string `csv:"image"`
	CreatedAt   string `csv:"created_at"`
}

type priceListRow struct {
	ID          string `csv:"id"`
	Name        string `csv:"name"`
	Price1      string `csv:"price1"`
	VendorName  string `csv:"vendor"`
	Price2      string `csv:"price2"`
	Vendor2Name string `csv:"vendor2"`
	Price3      string `csv:"price3"`
	Vendor3Name string `csv:"vendor3"`
}

type soldRow struct {
	ID              string `csv:"id"`
	Name            string `csv:"name"`
	Model           string `csv:"model"`
	Serial          string `csv:"serial"`
	Price           string `csv:"price"`
	CustomerName    string `csv:"customer"`
	CustomerContact string `csv:"contact"`
	CustomerAddress string `csv:"address"`
	Note            string `csv:"note"`
	SoldAt          string `csv:"sold_at"`
}

func Products(w io.Writer, items []models.Product) error {
	rows := make([]*productRow, 0, len(items))
	for _, p := range items {
		row := &productRow{
			ID:          p.ID,
			Name:        p.Name,
			Brand:       p.Brand,
			Model:       p.Model,
			Origin:      p.Origin,
			Price:       p.Price.StringFixed(2),
			Quantity:    p.Quantity,
			StockValue:  p.StockValue().StringFixed(2),
			Description: p.Description,
			Image:       p.Image.URL(),
		}
		if p.CreatedAt != nil {
			row.CreatedAt = p.CreatedAt.UTC().Format(time.RFC3339)
		}
		rows = append(rows, row)
	}
	return gocsv.Marshal(rows, w)
}

func PriceList(w io.Writer, items []models.PriceListProduct) error {
	rows := make([]*priceListRow, 0, len(items))
	for _, p := range items {
		row := &priceListRow{
			ID:          p.ID,
			Name:        p.Name,
			Price1:      p.Price1.StringFixed(2),
			VendorName:  p.VendorName,
			Vendor2Name: p.Vendor2Name,
			Vendor3Name: p.Vendor3Name,
		}
		// absent tiers stay empty cells
		if p.Price2 != nil {
			row.Price2 = p.Price2.StringFixed(2)
		}
		if p.Price3 != nil {
			row.Price3 = p.Price3.StringFixed(2)
		}
		rows = append(rows, row)
	}
	return gocsv.Marshal(rows, w)
}

func SoldProducts(w io.Writer, items []models.SoldProduct) error {
	rows := make([]*soldRow, 0, len(items))
	for _, p := range items {
		rows = append(rows, &soldRow{
			ID:              p.ID,
			Name:            p.Name,
			Model:           p.Model,
			Serial:          p.Serial,
			Price:           p.Price.StringFixed(2),
			CustomerName:    p.CustomerName,
			CustomerContact: p.CustomerContact,
			CustomerAddress: p.CustomerAddress,
			Note:            p.Note,
			SoldAt:          p.SoldAt.UTC().Format(time.RFC3339),
		})
	}
	return gocsv.Marshal(rows, w)
}
