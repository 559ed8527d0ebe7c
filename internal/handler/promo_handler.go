package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rahatul-dev/subbazar/internal/domain"
	"github.com/rahatul-dev/subbazar/internal/middleware"
	"github.com/rahatul-dev/subbazar/internal/service"
)

// PromoHandler validates promo codes against the shopper's current cart
type PromoHandler struct {
	promoService *service.PromoService
	cartService  *service.CartService
}

// NewPromoHandler creates a new promo handler
func NewPromoHandler(promoService *service.PromoService, cartService *service.CartService) *PromoHandler {
	return &PromoHandler{
		promoService: promoService,
		cartService:  cartService,
	}
}

// ValidatePromoRequest is the request body for promo validation
type ValidatePromoRequest struct {
	Code string `json:"code"`
}

// Validate handles POST /v1/me/promos/validate.
// The order amount is the current cart subtotal; the shopper keeps the
// returned discount client-side and re-submits the code at checkout.
// Removing an applied promo is purely a client concern.
func (h *PromoHandler) Validate(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var req ValidatePromoRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "invalid request body",
		})
	}

	ctx := c.UserContext()
	subtotal, err := h.cartService.CartTotal(ctx, userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "failed to compute cart total",
		})
	}

	applied, err := h.promoService.Validate(ctx, req.Code, subtotal)
	if err != nil {
		return c.Status(promoStatus(err)).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"code":            applied.Code,
			"discount_amount": applied.DiscountAmount,
			"final_total":     service.FinalTotal(subtotal, applied.DiscountAmount),
		},
	})
}

// promoStatus maps promo rejections to HTTP statuses
func promoStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrPromoInvalid):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrPromoBelowMinimum),
		errors.Is(err, domain.ErrPromoUsageExceeded):
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusInternalServerError
	}
}
