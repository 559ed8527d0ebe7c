package handler

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/rahatul-dev/subbazar/internal/domain"
	"github.com/rahatul-dev/subbazar/internal/middleware"
)

// OrderHandler serves the shopper's own orders and subscriptions
type OrderHandler struct {
	orderRepo domain.OrderRepository
	subRepo   domain.SubscriptionRepository
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderRepo domain.OrderRepository, subRepo domain.SubscriptionRepository) *OrderHandler {
	return &OrderHandler{
		orderRepo: orderRepo,
		subRepo:   subRepo,
	}
}

// ListMyOrders handles GET /v1/me/orders
func (h *OrderHandler) ListMyOrders(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	orders, err := h.orderRepo.GetByUserID(c.UserContext(), userID)
	if err != nil {
		log.Printf("[Orders] list failed for user %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "failed to list orders",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    orders,
	})
}

// GetMyOrder handles GET /v1/me/orders/:id
func (h *OrderHandler) GetMyOrder(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	orderID := c.Params("id")
	ctx := c.UserContext()

	order, err := h.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"error":   "order not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "failed to get order",
		})
	}

	if order.UserID != userID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"success": false,
			"error":   domain.ErrForbidden.Error(),
		})
	}

	items, err := h.orderRepo.GetItems(ctx, orderID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "failed to get order items",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"order": order,
			"items": items,
		},
	})
}

// ListMySubscriptions handles GET /v1/me/subscriptions
func (h *OrderHandler) ListMySubscriptions(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	subs, err := h.subRepo.GetByUserID(c.UserContext(), userID)
	if err != nil {
		log.Printf("[Subscriptions] list failed for user %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "failed to list subscriptions",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    subs,
	})
}
