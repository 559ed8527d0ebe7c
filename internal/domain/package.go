package domain

import (
	"context"
	"fmt"
	"time"
)

// Package duration constants
const (
	DurationOneMonth   = "one_month"
	DurationThreeMonth = "three_month"
	DurationSixMonth   = "six_month"
	DurationLifetime   = "lifetime"
)

// Package represents a purchasable duration/price variant of a Product
type Package struct {
	ID              string    `bson:"_id,omitempty" json:"id"`
	ProductID       string    `bson:"product_id" json:"product_id"`
	Duration        string    `bson:"duration" json:"duration"`
	Price           int64     `bson:"price" json:"price"` // Price in BDT (smallest unit)
	OriginalPrice   int64     `bson:"original_price,omitempty" json:"original_price,omitempty"`
	DiscountPercent int       `bson:"discount_percent,omitempty" json:"discount_percent,omitempty"`
	CreatedAt       time.Time `bson:"created_at,omitempty" json:"created_at"`
	UpdatedAt       time.Time `bson:"updated_at,omitempty" json:"updated_at"`
}

// Validate checks duration and the price/original-price invariant.
// A package may carry an original (strikethrough) price; the selling price
// must never exceed it.
func (p *Package) Validate() error {
	if !ValidDuration(p.Duration) {
		return fmt.Errorf("invalid duration %q", p.Duration)
	}
	if p.Price < 0 {
		return fmt.Errorf("price must not be negative")
	}
	if p.OriginalPrice > 0 && p.Price > p.OriginalPrice {
		return fmt.Errorf("price %d exceeds original price %d", p.Price, p.OriginalPrice)
	}
	return nil
}

// ValidDuration reports whether d is one of the known package durations.
func ValidDuration(d string) bool {
	switch d {
	case DurationOneMonth, DurationThreeMonth, DurationSixMonth, DurationLifetime:
		return true
	}
	return false
}

// DurationMonths returns the subscription length in months, 0 for lifetime.
func DurationMonths(d string) int {
	switch d {
	case DurationOneMonth:
		return 1
	case DurationThreeMonth:
		return 3
	case DurationSixMonth:
		return 6
	default:
		return 0
	}
}

// DurationLabel returns the customer-facing label for a duration.
func DurationLabel(d string) string {
	switch d {
	case DurationOneMonth:
		return "1 Month"
	case DurationThreeMonth:
		return "3 Months"
	case DurationSixMonth:
		return "6 Months"
	case DurationLifetime:
		return "Lifetime"
	default:
		return d
	}
}

// PackageRepository defines operations for managing packages
type PackageRepository interface {
	Create(ctx context.Context, pkg *Package) error
	GetByID(ctx context.Context, id string) (*Package, error)
	GetByProductID(ctx context.Context, productID string) ([]*Package, error)
	GetAll(ctx context.Context) ([]*Package, error)
	Update(ctx context.Context, pkg *Package) error
	Delete(ctx context.Context, id string) error
	DeleteByProductID(ctx context.Context, productID string) error
}
