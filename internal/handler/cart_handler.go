package handler

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/rahatul-dev/subbazar/internal/middleware"
	"github.com/rahatul-dev/subbazar/internal/service"
)

// CartHandler handles the shopper's cart API
type CartHandler struct {
	cartService *service.CartService
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cartService *service.CartService) *CartHandler {
	return &CartHandler{
		cartService: cartService,
	}
}

// CartLineRequest identifies one cart line
type CartLineRequest struct {
	ProductID string `json:"product_id"`
	PackageID string `json:"package_id"`
	Quantity  int    `json:"quantity,omitempty"`
}

// GetCart handles GET /v1/me/cart
func (h *CartHandler) GetCart(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	ctx := c.UserContext()

	lines, err := h.cartService.Lines(ctx, userID)
	if err != nil {
		log.Printf("[Cart] load failed for user %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "failed to load cart",
		})
	}

	total, err := h.cartService.CartTotal(ctx, userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "failed to compute cart total",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"lines":       lines,
			"total":       total,
			"items_count": lines.Count(),
		},
	})
}

// AddItem handles POST /v1/me/cart/items
func (h *CartHandler) AddItem(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var req CartLineRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "invalid request body",
		})
	}
	if req.ProductID == "" || req.PackageID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "product_id and package_id are required",
		})
	}

	if err := h.cartService.AddToCart(c.UserContext(), userID, req.ProductID, req.PackageID); err != nil {
		log.Printf("[Cart] add failed for user %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "failed to add to cart",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
	})
}

// UpdateItem handles PATCH /v1/me/cart/items
func (h *CartHandler) UpdateItem(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var req CartLineRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "invalid request body",
		})
	}
	if req.ProductID == "" || req.PackageID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "product_id and package_id are required",
		})
	}

	if err := h.cartService.UpdateQuantity(c.UserContext(), userID, req.ProductID, req.PackageID, req.Quantity); err != nil {
		log.Printf("[Cart] quantity update failed for user %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "failed to update cart",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
	})
}

// RemoveItem handles DELETE /v1/me/cart/items
func (h *CartHandler) RemoveItem(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var req CartLineRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "invalid request body",
		})
	}

	if err := h.cartService.RemoveFromCart(c.UserContext(), userID, req.ProductID, req.PackageID); err != nil {
		log.Printf("[Cart] remove failed for user %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "failed to remove from cart",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
	})
}

// ClearCart handles DELETE /v1/me/cart
func (h *CartHandler) ClearCart(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	if err := h.cartService.ClearCart(c.UserContext(), userID); err != nil {
		log.Printf("[Cart] clear failed for user %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "failed to clear cart",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
	})
}
