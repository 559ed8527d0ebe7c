package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rahatul-dev/subbazar/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromoServiceValidate(t *testing.T) {
	repo := newFakePromoRepo(
		&domain.PromoCode{Code: "SAVE10", Type: domain.PromoTypePercentage, Value: 10, IsActive: true},
		&domain.PromoCode{Code: "EID50", Type: domain.PromoTypeFixed, Value: 50, MinOrderAmount: 500, IsActive: true},
		&domain.PromoCode{Code: "DEAD", Type: domain.PromoTypeFixed, Value: 50, IsActive: false},
	)
	svc := NewPromoService(repo)
	ctx := context.Background()

	t.Run("percentage discount", func(t *testing.T) {
		applied, err := svc.Validate(ctx, "SAVE10", 700)
		require.NoError(t, err)
		assert.Equal(t, "SAVE10", applied.Code)
		assert.Equal(t, int64(70), applied.DiscountAmount)
	})

	t.Run("code is normalized before lookup", func(t *testing.T) {
		applied, err := svc.Validate(ctx, "  save10 ", 700)
		require.NoError(t, err)
		assert.Equal(t, "SAVE10", applied.Code)
	})

	t.Run("unknown code", func(t *testing.T) {
		_, err := svc.Validate(ctx, "NOPE", 700)
		assert.ErrorIs(t, err, domain.ErrPromoInvalid)
	})

	t.Run("empty code", func(t *testing.T) {
		_, err := svc.Validate(ctx, "   ", 700)
		assert.ErrorIs(t, err, domain.ErrPromoInvalid)
	})

	t.Run("inactive code", func(t *testing.T) {
		_, err := svc.Validate(ctx, "DEAD", 700)
		assert.ErrorIs(t, err, domain.ErrPromoInvalid)
	})

	t.Run("below minimum order", func(t *testing.T) {
		_, err := svc.Validate(ctx, "EID50", 499)
		assert.ErrorIs(t, err, domain.ErrPromoBelowMinimum)
	})

	t.Run("fixed discount at minimum", func(t *testing.T) {
		applied, err := svc.Validate(ctx, "EID50", 500)
		require.NoError(t, err)
		assert.Equal(t, int64(50), applied.DiscountAmount)
	})
}

func TestPromoServiceValidateUsageLimit(t *testing.T) {
	repo := newFakePromoRepo(
		&domain.PromoCode{Code: "LIMITED", Type: domain.PromoTypeFixed, Value: 25, IsActive: true, MaxUses: 2, UsedCount: 2},
	)
	svc := NewPromoService(repo)

	_, err := svc.Validate(context.Background(), "LIMITED", 700)
	assert.ErrorIs(t, err, domain.ErrPromoUsageExceeded)
}

func TestPromoServiceValidateExpired(t *testing.T) {
	past := time.Now().UTC().Add(-time.Hour)
	repo := newFakePromoRepo(
		&domain.PromoCode{Code: "OLD", Type: domain.PromoTypeFixed, Value: 25, IsActive: true, ExpiresAt: &past},
	)
	svc := NewPromoService(repo)

	_, err := svc.Validate(context.Background(), "OLD", 700)
	assert.ErrorIs(t, err, domain.ErrPromoInvalid)
}

func TestPromoServiceLookupFailure(t *testing.T) {
	repo := newFakePromoRepo()
	repo.lookupErr = errors.New("connection reset")
	svc := NewPromoService(repo)

	// Infrastructure failure must not masquerade as "invalid code".
	_, err := svc.Validate(context.Background(), "SAVE10", 700)
	assert.ErrorIs(t, err, ErrPromoUnavailable)
	assert.NotErrorIs(t, err, domain.ErrPromoInvalid)
}
