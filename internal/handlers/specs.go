package handlers

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"inventory-catalog/internal/apperrors"
	"inventory-catalog/internal/models"
)

var digitsOnly = regexp.MustCompile(`^\d{6,}$`)

func badRequest(msg string) error { return apperrors.Invalid("body", msg) }

// decimal128 stores d without going through float64.
func decimal128(d decimal.Decimal) primitive.Decimal128 {
	v, err := primitive.ParseDecimal128(d.String())
	if err != nil {
		return primitive.NewDecimal128(0, 0)
	}
	return v
}

func setIf(doc bson.M, key, value string) {
	if value != "" {
		doc[key] = value
	}
}

func ProductSpec() Spec[models.Product] {
	return Spec[models.Product]{
		Noun:    "product",
		ListKey: "products",
		ItemKey: "product",
		Validate: func(p models.Product) error {
			switch {
			case strings.TrimSpace(p.Name) == "":
				return apperrors.Invalid("name", "name is required")
			case p.Price.IsNegative():
				return apperrors.Invalid("price", "price cannot be negative")
			case p.Quantity < 0:
				return apperrors.Invalid("quantity", "quantity cannot be negative")
			}
			return nil
		},
		ToDoc: func(p models.Product) bson.M {
			doc := bson.M{
				"name":     strings.TrimSpace(p.Name),
				"price":    decimal128(p.Price),
				"quantity": p.Quantity,
			}
			setIf(doc, "productBrand", p.Brand)
			setIf(doc, "productModel", p.Model)
			setIf(doc, "productOrigin", p.Origin)
			setIf(doc, "description", p.Description)
			if p.Image.IsRemote() {
				doc["image"] = p.Image.URL()
			}
			return doc
		},
	}
}

func PriceListSpec() Spec[models.PriceListProduct] {
	return Spec[models.PriceListProduct]{
		Noun: "price list product",
		Validate: func(p models.PriceListProduct) error {
			if strings.TrimSpace(p.Name) == "" || strings.TrimSpace(p.VendorName) == "" {
				return apperrors.Invalid("name", "Name, Vendor, and Price1 are required")
			}
			for _, t := range p.Tiers() {
				if t.Price.IsNegative() {
					return apperrors.Invalid("price", "prices cannot be negative")
				}
			}
			return nil
		},
		ToDoc: func(p models.PriceListProduct) bson.M {
			doc := bson.M{
				"name":       strings.TrimSpace(p.Name),
				"price1":     decimal128(p.Price1),
				"vendorName": strings.TrimSpace(p.VendorName),
			}
			if p.Price2 != nil {
				doc["price2"] = decimal128(*p.Price2)
			}
			if p.Price3 != nil {
				doc["price3"] = decimal128(*p.Price3)
			}
			setIf(doc, "vendor2Name", p.Vendor2Name)
			setIf(doc, "vendor3Name", p.Vendor3Name)
			return doc
		},
	}
}

func SoldProductSpec() Spec[models.SoldProduct] {
	return Spec[models.SoldProduct]{
		Noun:    "sold product",
		ListKey: "data",
		Validate: func(p models.SoldProduct) error {
			switch {
			case p.Name == "" || p.Model == "" || p.CustomerName == "" || p.CustomerContact == "":
				return apperrors.Invalid("name", "Please fill all required fields.")
			case !p.Price.IsPositive():
				return apperrors.Invalid("price", "Price should be a positive number.")
			case !digitsOnly.MatchString(p.CustomerContact):
				return apperrors.Invalid("customerContact", "Contact must be at least 6 digits.")
			case p.SoldAt.IsZero():
				return apperrors.Invalid("soldAt", "soldAt is required")
			}
			return nil
		},
		ToDoc: func(p models.SoldProduct) bson.M {
			doc := bson.M{
				"name":            p.Name,
				"productModel":    p.Model,
				"price":           decimal128(p.Price),
				"customerName":    p.CustomerName,
				"customerContact": p.CustomerContact,
				"soldAt":          primitive.NewDateTimeFromTime(p.SoldAt),
			}
			setIf(doc, "serialNumber", p.Serial)
			setIf(doc, "note", p.Note)
			setIf(doc, "customerAddress", p.CustomerAddress)
			return doc
		},
	}
}
