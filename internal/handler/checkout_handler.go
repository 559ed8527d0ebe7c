package handler

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/rahatul-dev/subbazar/internal/domain"
	"github.com/rahatul-dev/subbazar/internal/middleware"
	"github.com/rahatul-dev/subbazar/internal/service"
)

// CheckoutHandler handles order submission
type CheckoutHandler struct {
	checkoutService *service.CheckoutService
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(checkoutService *service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
	}
}

// CheckoutBody is the request body for POST /v1/me/checkout
type CheckoutBody struct {
	CustomerName   string `json:"customer_name"`
	CustomerPhone  string `json:"customer_phone"`
	CustomerEmail  string `json:"customer_email"`
	PaymentMethod  string `json:"payment_method"` // bKash, Nagad, Rocket
	TransactionRef string `json:"transaction_ref"`
	PromoCode      string `json:"promo_code"`
}

// Checkout handles POST /v1/me/checkout
func (h *CheckoutHandler) Checkout(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var req CheckoutBody
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "invalid request body",
		})
	}

	if req.CustomerName == "" || req.CustomerPhone == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "customer_name and customer_phone are required",
		})
	}

	validMethods := map[string]bool{"bKash": true, "Nagad": true, "Rocket": true}
	if !validMethods[req.PaymentMethod] {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "invalid payment_method, must be bKash, Nagad, or Rocket",
		})
	}

	if req.TransactionRef == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "transaction_ref is required",
		})
	}

	order, err := h.checkoutService.PlaceOrder(c.UserContext(), userID, service.CheckoutRequest{
		CustomerName:   req.CustomerName,
		CustomerPhone:  req.CustomerPhone,
		CustomerEmail:  req.CustomerEmail,
		PaymentMethod:  req.PaymentMethod,
		TransactionRef: req.TransactionRef,
		PromoCode:      req.PromoCode,
	})
	if err != nil {
		if errors.Is(err, domain.ErrEmptyCart) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"success": false,
				"error":   "cart is empty",
			})
		}
		if errors.Is(err, domain.ErrPromoInvalid) ||
			errors.Is(err, domain.ErrPromoBelowMinimum) ||
			errors.Is(err, domain.ErrPromoUsageExceeded) {
			return c.Status(promoStatus(err)).JSON(fiber.Map{
				"success": false,
				"error":   err.Error(),
			})
		}
		log.Printf("[Checkout] failed for user %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "failed to place order",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    order,
	})
}
