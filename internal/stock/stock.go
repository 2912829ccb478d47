// Package stock adjusts product quantities and values the inventory.
package stock

import (
	"context"
	"math"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"inventory-catalog/internal/apperrors"
	"inventory-catalog/internal/codec"
	"inventory-catalog/internal/models"
)

type Direction string

const (
	In  Direction = "in"
	Out Direction = "out"
)

func ParseDirection(s string) (Direction, error) {
	switch Direction(strings.ToLower(strings.TrimSpace(s))) {
	case In:
		return In, nil
	case Out:
		return Out, nil
	}
	return "", apperrors.Invalid("direction", "Choose stock in or stock out.")
}

// ParseAmount reads a typed adjustment; it must be a positive integer.
func ParseAmount(raw string) (int64, error) {
	n, err := codec.ParseQuantity(raw)
	if err != nil || n <= 0 {
		return 0, apperrors.Invalid("quantity", "Please enter a valid quantity.")
	}
	return n, nil
}

// Updater commits a full replacement of a product.
type Updater interface {
	CommitUpdate(ctx context.Context, p models.Product) (models.Product, error)
}

// Adjust moves qty units of p in or out and commits the new quantity. Stock
// never goes below zero.
func Adjust(ctx context.Context, u Updater, p models.Product, dir Direction, qty int64) (models.Product, error) {
	if qty <= 0 {
		return models.Product{}, apperrors.Invalid("quantity", "Please enter a valid quantity.")
	}
	if p.ID == "" {
		return models.Product{}, apperrors.ErrMissingIdentifier
	}

	next := p
	switch dir {
	case In:
		if qty > math.MaxInt64-p.Quantity {
			return models.Product{}, apperrors.Invalid("quantity", "Please enter a valid quantity.")
		}
		next.Quantity += qty
	case Out:
		if qty > p.Quantity {
			return models.Product{}, apperrors.Invalid("quantity", "Not enough stock to remove.")
		}
		next.Quantity -= qty
	default:
		return models.Product{}, apperrors.Invalid("direction", "Choose stock in or stock out.")
	}
	// stock changes never upload an image
	if next.Image.IsLocal() {
		next.Image = models.NoImage()
	}

	updated, err := u.CommitUpdate(ctx, next)
	if err != nil {
		return models.Product{}, err
	}
	zap.S().Infow("stock_adjusted", "id", p.ID, "direction", dir, "qty", qty, "from", p.Quantity, "to", updated.Quantity)
	return updated, nil
}

// TotalValue sums quantity times price over items.
func TotalValue(items []models.Product) decimal.Decimal {
	total := decimal.Zero
	for _, p := range items {
		total = total.Add(p.StockValue())
	}
	return total
}
