package form

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/shopspring/decimal"

	"inventory-catalog/internal/apperrors"
	"inventory-catalog/internal/codec"
	"inventory-catalog/internal/models"
)

// Field keys match the wire names.
const (
	FieldName        = "name"
	FieldBrand       = "productBrand"
	FieldModel       = "productModel"
	FieldOrigin      = "productOrigin"
	FieldPrice       = "price"
	FieldQuantity    = "quantity"
	FieldDescription = "description"

	FieldPrice1      = "price1"
	FieldPrice2      = "price2"
	FieldPrice3      = "price3"
	FieldVendorName  = "vendorName"
	FieldVendor2Name = "vendor2Name"
	FieldVendor3Name = "vendor3Name"

	FieldSerial          = "serialNumber"
	FieldNote            = "note"
	FieldCustomerName    = "customerName"
	FieldCustomerContact = "customerContact"
	FieldCustomerAddress = "customerAddress"
	FieldSoldAt          = "soldAt"
)

var contactPattern = regexp.MustCompile(`^\d{6,}$`)

func trimmed(d Draft, field string) string { return strings.TrimSpace(d.get(field)) }

func nonNegativeDecimal(raw, field, message string) (decimal.Decimal, error) {
	v, err := codec.ParseDecimal(raw)
	if err != nil || v.IsNegative() {
		return decimal.Decimal{}, apperrors.Invalid(field, message)
	}
	return v, nil
}

func optionalTier(raw, field, message string) (*decimal.Decimal, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	v, err := nonNegativeDecimal(raw, field, message)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// ProductSchema edits stocked products.
type ProductSchema struct{}

func (ProductSchema) Fields() []string {
	return []string{FieldName, FieldBrand, FieldModel, FieldOrigin, FieldPrice, FieldQuantity, FieldDescription}
}

func (ProductSchema) Seed(p models.Product) Draft {
	return Draft{
		Values: map[string]string{
			FieldName:        p.Name,
			FieldBrand:       p.Brand,
			FieldModel:       p.Model,
			FieldOrigin:      p.Origin,
			FieldPrice:       p.Price.String(),
			FieldQuantity:    strconv.FormatInt(p.Quantity, 10),
			FieldDescription: p.Description,
		},
		Image: p.Image,
	}
}

func (ProductSchema) Build(d Draft, seed models.Product) (models.Product, error) {
	name := trimmed(d, FieldName)
	if name == "" {
		return models.Product{}, apperrors.Invalid(FieldName, "Please enter a product name.")
	}
	price, err := nonNegativeDecimal(d.get(FieldPrice), FieldPrice, "Please enter a valid non-negative price.")
	if err != nil {
		return models.Product{}, err
	}
	qty, err := codec.ParseQuantity(d.get(FieldQuantity))
	if err != nil || qty < 0 {
		return models.Product{}, apperrors.Invalid(FieldQuantity, "Please enter a valid non-negative stock.")
	}
	return models.Product{
		ID:          seed.ID,
		Name:        name,
		Brand:       trimmed(d, FieldBrand),
		Model:       trimmed(d, FieldModel),
		Origin:      trimmed(d, FieldOrigin),
		Price:       price,
		Quantity:    qty,
		Description: trimmed(d, FieldDescription),
		Image:       d.Image,
		CreatedAt:   seed.CreatedAt,
	}, nil
}

// PriceListSchema edits price list entries. Tiers 2 and 3 are optional; a
// blank tier stays absent rather than zero.
type PriceListSchema struct{}

func (PriceListSchema) Fields() []string {
	return []string{FieldName, FieldPrice1, FieldVendorName, FieldPrice2, FieldVendor2Name, FieldPrice3, FieldVendor3Name}
}

func (PriceListSchema) Seed(p models.PriceListProduct) Draft {
	v := map[string]string{
		FieldName:        p.Name,
		FieldPrice1:      p.Price1.String(),
		FieldVendorName:  p.VendorName,
		FieldVendor2Name: p.Vendor2Name,
		FieldVendor3Name: p.Vendor3Name,
	}
	if p.Price2 != nil {
		v[FieldPrice2] = p.Price2.String()
	}
	if p.Price3 != nil {
		v[FieldPrice3] = p.Price3.String()
	}
	return Draft{Values: v}
}

func (PriceListSchema) Build(d Draft, seed models.PriceListProduct) (models.PriceListProduct, error) {
	var zero models.PriceListProduct
	name := trimmed(d, FieldName)
	if name == "" {
		return zero, apperrors.Invalid(FieldName, "Product name is required.")
	}
	if trimmed(d, FieldPrice1) == "" {
		return zero, apperrors.Invalid(FieldPrice1, "Price 1 is required.")
	}
	price1, err := nonNegativeDecimal(d.get(FieldPrice1), FieldPrice1, "Price 1 must be a valid non-negative number.")
	if err != nil {
		return zero, err
	}
	vendor := trimmed(d, FieldVendorName)
	if vendor == "" {
		return zero, apperrors.Invalid(FieldVendorName, "Vendor name is required.")
	}
	price2, err := optionalTier(d.get(FieldPrice2), FieldPrice2, "Price 2 must be a valid non-negative number.")
	if err != nil {
		return zero, err
	}
	price3, err := optionalTier(d.get(FieldPrice3), FieldPrice3, "Price 3 must be a valid non-negative number.")
	if err != nil {
		return zero, err
	}
	return models.PriceListProduct{
		ID:          seed.ID,
		Name:        name,
		Price1:      price1,
		Price2:      price2,
		Price3:      price3,
		VendorName:  vendor,
		Vendor2Name: trimmed(d, FieldVendor2Name),
		Vendor3Name: trimmed(d, FieldVendor3Name),
	}, nil
}

// SoldProductSchema records sales. Now supplies the sale time when the date
// field is left blank.
type SoldProductSchema struct {
	Now func() time.Time
}

func (SoldProductSchema) Fields() []string {
	return []string{FieldName, FieldModel, FieldSerial, FieldPrice, FieldCustomerName, FieldCustomerContact, FieldCustomerAddress, FieldNote, FieldSoldAt}
}

func (SoldProductSchema) Seed(p models.SoldProduct) Draft {
	v := map[string]string{
		FieldName:            p.Name,
		FieldModel:           p.Model,
		FieldSerial:          p.Serial,
		FieldPrice:           p.Price.String(),
		FieldNote:            p.Note,
		FieldCustomerName:    p.CustomerName,
		FieldCustomerContact: p.CustomerContact,
		FieldCustomerAddress: p.CustomerAddress,
	}
	if !p.SoldAt.IsZero() {
		v[FieldSoldAt] = p.SoldAt.Format(time.RFC3339)
	}
	return Draft{Values: v}
}

func (s SoldProductSchema) Build(d Draft, seed models.SoldProduct) (models.SoldProduct, error) {
	var zero models.SoldProduct
	for _, f := range []string{FieldName, FieldModel, FieldPrice, FieldCustomerName, FieldCustomerContact} {
		if trimmed(d, f) == "" {
			return zero, apperrors.Invalid(f, "Please fill all required fields.")
		}
	}
	price, err := codec.ParseDecimal(d.get(FieldPrice))
	if err != nil || !price.IsPositive() {
		return zero, apperrors.Invalid(FieldPrice, "Price should be a positive number.")
	}
	contact := trimmed(d, FieldCustomerContact)
	if !contactPattern.MatchString(contact) {
		return zero, apperrors.Invalid(FieldCustomerContact, "Contact must be at least 6 digits.")
	}

	soldAt := seed.SoldAt
	if raw := trimmed(d, FieldSoldAt); raw != "" {
		soldAt, err = dateparse.ParseAny(raw)
		if err != nil {
			return zero, apperrors.Invalid(FieldSoldAt, "Please enter a valid sale date.")
		}
	}
	if soldAt.IsZero() {
		now := time.Now
		if s.Now != nil {
			now = s.Now
		}
		soldAt = now()
	}

	return models.SoldProduct{
		ID:              seed.ID,
		Name:            trimmed(d, FieldName),
		Model:           trimmed(d, FieldModel),
		Serial:          trimmed(d, FieldSerial),
		Price:           price,
		Note:            trimmed(d, FieldNote),
		CustomerName:    trimmed(d, FieldCustomerName),
		CustomerContact: contact,
		CustomerAddress: trimmed(d, FieldCustomerAddress),
		SoldAt:          soldAt,
	}, nil
}
