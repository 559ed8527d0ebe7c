package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/rahatul-dev/subbazar/internal/domain"
)

// ErrPromoUnavailable covers every infrastructure failure during promo
// validation. The shopper sees one generic message; the cause is logged.
var ErrPromoUnavailable = errors.New("promo validation failed, try again")

// PromoService validates shopper-entered codes against the stored rules
// and computes the discount for a given order amount.
type PromoService struct {
	promoRepo domain.PromoRepository
}

// NewPromoService creates a new promo service
func NewPromoService(promoRepo domain.PromoRepository) *PromoService {
	return &PromoService{
		promoRepo: promoRepo,
	}
}

// Validate checks the code against the stored promo rules and returns the
// applied promo (normalized code + discount amount). Rejections come back
// as domain.ErrPromoInvalid, domain.ErrPromoBelowMinimum or
// domain.ErrPromoUsageExceeded; anything else is ErrPromoUnavailable.
// Single attempt, no retry — this runs on a user gesture.
func (s *PromoService) Validate(ctx context.Context, code string, orderAmount int64) (*domain.AppliedPromo, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if normalized == "" {
		return nil, domain.ErrPromoInvalid
	}

	promo, err := s.promoRepo.GetByCode(ctx, normalized)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrPromoInvalid
		}
		log.Printf("[Promo] lookup failed for %s: %v", normalized, err)
		return nil, ErrPromoUnavailable
	}

	if err := promo.Check(orderAmount, time.Now().UTC()); err != nil {
		return nil, err
	}

	return &domain.AppliedPromo{
		Code:           normalized,
		DiscountAmount: promo.Discount(orderAmount),
	}, nil
}
