package domain

import (
	"context"
	"errors"
	"time"
)

// Promo discount type constants
const (
	PromoTypePercentage = "percentage"
	PromoTypeFixed      = "fixed"
)

// Promo rejection reasons. Handlers map these to customer-facing messages;
// anything else coming out of validation is treated as a generic failure.
var (
	ErrPromoInvalid       = errors.New("promo code is invalid or inactive")
	ErrPromoBelowMinimum  = errors.New("order amount is below the promo minimum")
	ErrPromoUsageExceeded = errors.New("promo code usage limit reached")
)

// PromoCode represents a shopper-entered discount token. Codes are stored
// uppercase; lookups must normalize before querying.
type PromoCode struct {
	ID             string     `bson:"_id,omitempty" json:"id"`
	Code           string     `bson:"code" json:"code"`
	Type           string     `bson:"type" json:"type"` // percentage, fixed
	Value          int64      `bson:"value" json:"value"`
	MinOrderAmount int64      `bson:"min_order_amount,omitempty" json:"min_order_amount"`
	MaxUses        int        `bson:"max_uses,omitempty" json:"max_uses"` // 0 = unlimited
	UsedCount      int        `bson:"used_count" json:"used_count"`
	IsActive       bool       `bson:"is_active" json:"is_active"`
	ExpiresAt      *time.Time `bson:"expires_at,omitempty" json:"expires_at,omitempty"`
	CreatedAt      time.Time  `bson:"created_at,omitempty" json:"created_at"`
	UpdatedAt      time.Time  `bson:"updated_at,omitempty" json:"updated_at"`
}

// Discount computes the discount amount for the given order amount.
// A fixed discount is returned as-is even when it exceeds the order amount;
// the checkout clamps the final payable total to a floor of zero.
func (p *PromoCode) Discount(orderAmount int64) int64 {
	if p.Type == PromoTypePercentage {
		return orderAmount * p.Value / 100
	}
	return p.Value
}

// Check validates the promo against an order amount at the given instant.
// The stored rule data is the source of truth for active flag, expiry,
// minimum order and usage limits.
func (p *PromoCode) Check(orderAmount int64, now time.Time) error {
	if !p.IsActive {
		return ErrPromoInvalid
	}
	if p.ExpiresAt != nil && p.ExpiresAt.Before(now) {
		return ErrPromoInvalid
	}
	if orderAmount < p.MinOrderAmount {
		return ErrPromoBelowMinimum
	}
	if p.MaxUses > 0 && p.UsedCount >= p.MaxUses {
		return ErrPromoUsageExceeded
	}
	return nil
}

// AppliedPromo is the ephemeral result of a successful validation. It lives
// in the checkout request only and is never persisted.
type AppliedPromo struct {
	Code           string `json:"code"`
	DiscountAmount int64  `json:"discount_amount"`
}

// PromoRepository defines operations for managing promo codes
type PromoRepository interface {
	Create(ctx context.Context, promo *PromoCode) error
	GetByCode(ctx context.Context, code string) (*PromoCode, error)
	GetAll(ctx context.Context) ([]*PromoCode, error)
	Update(ctx context.Context, promo *PromoCode) error
	Delete(ctx context.Context, id string) error
	IncrementUsage(ctx context.Context, code string) error
}
