package handler

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/rahatul-dev/subbazar/internal/service"
)

// CatalogHandler serves the public storefront listing
type CatalogHandler struct {
	catalog *service.CatalogService
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalog *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{
		catalog: catalog,
	}
}

// ListProducts handles GET /v1/catalog
func (h *CatalogHandler) ListProducts(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success": true,
		"data":    h.catalog.ActiveProducts(),
	})
}

// RefreshCatalog handles POST /v1/admin/catalog/refresh.
// Admin mutations call Refresh internally; this endpoint exists for
// out-of-band fixes (direct DB edits).
func (h *CatalogHandler) RefreshCatalog(c *fiber.Ctx) error {
	if err := h.catalog.Refresh(c.UserContext()); err != nil {
		log.Printf("[Catalog] refresh failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "failed to refresh catalog",
		})
	}
	return c.JSON(fiber.Map{
		"success": true,
	})
}
