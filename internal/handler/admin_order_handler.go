package handler

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rahatul-dev/subbazar/internal/domain"
)

// AdminOrderHandler handles the back-office order workflow and promo
// code management.
type AdminOrderHandler struct {
	orderRepo domain.OrderRepository
	promoRepo domain.PromoRepository
}

// NewAdminOrderHandler creates a new admin order handler
func NewAdminOrderHandler(orderRepo domain.OrderRepository, promoRepo domain.PromoRepository) *AdminOrderHandler {
	return &AdminOrderHandler{
		orderRepo: orderRepo,
		promoRepo: promoRepo,
	}
}

// ListOrders handles GET /v1/admin/orders
func (h *AdminOrderHandler) ListOrders(c *fiber.Ctx) error {
	orders, err := h.orderRepo.GetAll(c.UserContext())
	if err != nil {
		log.Printf("[Admin] list orders failed: %v", err)
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

// GetOrder handles GET /v1/admin/orders/:id
func (h *AdminOrderHandler) GetOrder(c *fiber.Ctx) error {
	ctx := c.UserContext()
	order, err := h.orderRepo.GetByID(ctx, c.Params("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return notFound(c, "order not found")
		}
		log.Printf("[Admin] get order failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "failed to fetch order",
		})
	}

	items, err := h.orderRepo.GetItems(ctx, order.ID)
	if err != nil {
		log.Printf("[Admin] get order items failed for %s: %v", order.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "failed to fetch order items",
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

// UpdateOrderStatusRequest is the request body for a status transition
type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

// UpdateOrderStatus handles PATCH /v1/admin/orders/:id/status.
// Only forward moves allowed by the order status machine are accepted.
func (h *AdminOrderHandler) UpdateOrderStatus(c *fiber.Ctx) error {
	var req UpdateOrderStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	ctx := c.UserContext()
	order, err := h.orderRepo.GetByID(ctx, c.Params("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return notFound(c, "order not found")
		}
		log.Printf("[Admin] get order failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "failed to fetch order",
		})
	}

	if !domain.CanTransition(order.Status, req.Status) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"success": false,
			"error":   "cannot move order from " + order.Status + " to " + req.Status,
		})
	}

	if err := h.orderRepo.UpdateStatus(ctx, order.ID, req.Status); err != nil {
		log.Printf("[Admin] update order status failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "failed to update order status",
		})
	}

	order.Status = req.Status
	return c.JSON(fiber.Map{
		"success": true,
		"data":    order,
	})
}

// PromoRequest is the request body for promo code create/update
type PromoRequest struct {
	Code           string     `json:"code"`
	Type           string     `json:"type"`
	Value          int64      `json:"value"`
	MinOrderAmount int64      `json:"min_order_amount"`
	MaxUses        int        `json:"max_uses"`
	IsActive       bool       `json:"is_active"`
	ExpiresAt      *time.Time `json:"expires_at"`
}

// ListPromos handles GET /v1/admin/promos
func (h *AdminOrderHandler) ListPromos(c *fiber.Ctx) error {
	promos, err := h.promoRepo.GetAll(c.UserContext())
	if err != nil {
		log.Printf("[Admin] list promos failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "failed to list promo codes",
		})
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    promos,
	})
}

// CreatePromo handles POST /v1/admin/promos
func (h *AdminOrderHandler) CreatePromo(c *fiber.Ctx) error {
	var req PromoRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if req.Code == "" {
		return badRequest(c, "code is required")
	}
	if req.Type != domain.PromoTypePercentage && req.Type != domain.PromoTypeFixed {
		return badRequest(c, "type must be percentage or fixed")
	}
	if req.Value <= 0 {
		return badRequest(c, "value must be positive")
	}

	promo := &domain.PromoCode{
		Code:           req.Code,
		Type:           req.Type,
		Value:          req.Value,
		MinOrderAmount: req.MinOrderAmount,
		MaxUses:        req.MaxUses,
		IsActive:       req.IsActive,
		ExpiresAt:      req.ExpiresAt,
	}

	if err := h.promoRepo.Create(c.UserContext(), promo); err != nil {
		log.Printf("[Admin] create promo failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "failed to create promo code",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    promo,
	})
}

// UpdatePromo handles PUT /v1/admin/promos/:id
func (h *AdminOrderHandler) UpdatePromo(c *fiber.Ctx) error {
	var req PromoRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if req.Type != domain.PromoTypePercentage && req.Type != domain.PromoTypeFixed {
		return badRequest(c, "type must be percentage or fixed")
	}

	promo := &domain.PromoCode{
		ID:             c.Params("id"),
		Code:           req.Code,
		Type:           req.Type,
		Value:          req.Value,
		MinOrderAmount: req.MinOrderAmount,
		MaxUses:        req.MaxUses,
		IsActive:       req.IsActive,
		ExpiresAt:      req.ExpiresAt,
	}

	if err := h.promoRepo.Update(c.UserContext(), promo); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return notFound(c, "promo code not found")
		}
		log.Printf("[Admin] update promo failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "failed to update promo code",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    promo,
	})
}

// DeletePromo handles DELETE /v1/admin/promos/:id
func (h *AdminOrderHandler) DeletePromo(c *fiber.Ctx) error {
	if err := h.promoRepo.Delete(c.UserContext(), c.Params("id")); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return notFound(c, "promo code not found")
		}
		log.Printf("[Admin] delete promo failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "failed to delete promo code",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
	})
}
