package handler

import (
	"errors"
	"fmt"
	"io"
	"log"
	"path/filepath"

	"github.com/gofiber/fiber/v2"
	"github.com/oklog/ulid/v2"
	"github.com/rahatul-dev/subbazar/internal/domain"
	"github.com/rahatul-dev/subbazar/internal/service"
)

// AdminCatalogHandler handles the back-office product and package CRUD.
// Every successful mutation refreshes the catalog snapshot so storefront
// pricing follows immediately.
type AdminCatalogHandler struct {
	productRepo domain.ProductRepository
	packageRepo domain.PackageRepository
	fileRepo    domain.FileRepository
	catalog     *service.CatalogService
}

// NewAdminCatalogHandler creates a new admin catalog handler
func NewAdminCatalogHandler(
	productRepo domain.ProductRepository,
	packageRepo domain.PackageRepository,
	fileRepo domain.FileRepository,
	catalog *service.CatalogService,
) *AdminCatalogHandler {
	return &AdminCatalogHandler{
		productRepo: productRepo,
		packageRepo: packageRepo,
		fileRepo:    fileRepo,
		catalog:     catalog,
	}
}

// ProductRequest is the request body for product create/update
type ProductRequest struct {
	Name        string   `json:"name"`
	NameBN      string   `json:"name_bn"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	ImageURL    string   `json:"image_url"`
	Features    []string `json:"features"`
	IsActive    bool     `json:"is_active"`
}

// PackageRequest is the request body for package create/update
type PackageRequest struct {
	ProductID       string `json:"product_id"`
	Duration        string `json:"duration"`
	Price           int64  `json:"price"`
	OriginalPrice   int64  `json:"original_price"`
	DiscountPercent int    `json:"discount_percent"`
}

// ListProducts handles GET /v1/admin/products (includes inactive)
func (h *AdminCatalogHandler) ListProducts(c *fiber.Ctx) error {
	products, err := h.productRepo.GetAll(c.UserContext())
	if err != nil {
		log.Printf("[Admin] list products failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "failed to list products",
		})
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    products,
	})
}

// CreateProduct handles POST /v1/admin/products
func (h *AdminCatalogHandler) CreateProduct(c *fiber.Ctx) error {
	var req ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if req.Name == "" {
		return badRequest(c, "name is required")
	}
	if !domain.ValidCategory(req.Category) {
		return badRequest(c, "category must be web, mobile, or tutorial")
	}

	product := &domain.Product{
		Name:        req.Name,
		NameBN:      req.NameBN,
		Description: req.Description,
		Category:    req.Category,
		ImageURL:    req.ImageURL,
		Features:    req.Features,
		IsActive:    req.IsActive,
	}

	ctx := c.UserContext()
	if err := h.productRepo.Create(ctx, product); err != nil {
		log.Printf("[Admin] create product failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "failed to create product",
		})
	}

	h.refreshCatalog(c)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    product,
	})
}

// UpdateProduct handles PUT /v1/admin/products/:id
func (h *AdminCatalogHandler) UpdateProduct(c *fiber.Ctx) error {
	var req ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if !domain.ValidCategory(req.Category) {
		return badRequest(c, "category must be web, mobile, or tutorial")
	}

	product := &domain.Product{
		ID:          c.Params("id"),
		Name:        req.Name,
		NameBN:      req.NameBN,
		Description: req.Description,
		Category:    req.Category,
		ImageURL:    req.ImageURL,
		Features:    req.Features,
		IsActive:    req.IsActive,
	}

	if err := h.productRepo.Update(c.UserContext(), product); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return notFound(c, "product not found")
		}
		log.Printf("[Admin] update product failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "failed to update product",
		})
	}

	h.refreshCatalog(c)
	return c.JSON(fiber.Map{
		"success": true,
		"data":    product,
	})
}

// DeleteProduct handles DELETE /v1/admin/products/:id.
// The product's packages go with it; existing order items keep their
// snapshots and stay intact.
func (h *AdminCatalogHandler) DeleteProduct(c *fiber.Ctx) error {
	id := c.Params("id")
	ctx := c.UserContext()

	if err := h.productRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return notFound(c, "product not found")
		}
		log.Printf("[Admin] delete product failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "failed to delete product",
		})
	}

	if err := h.packageRepo.DeleteByProductID(ctx, id); err != nil {
		log.Printf("[Admin] failed to delete packages of product %s: %v", id, err)
	}

	h.refreshCatalog(c)
	return c.JSON(fiber.Map{
		"success": true,
	})
}

// ListPackages handles GET /v1/admin/products/:id/packages
func (h *AdminCatalogHandler) ListPackages(c *fiber.Ctx) error {
	packages, err := h.packageRepo.GetByProductID(c.UserContext(), c.Params("id"))
	if err != nil {
		log.Printf("[Admin] list packages failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "failed to list packages",
		})
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    packages,
	})
}

// CreatePackage handles POST /v1/admin/packages
func (h *AdminCatalogHandler) CreatePackage(c *fiber.Ctx) error {
	var req PackageRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if req.ProductID == "" {
		return badRequest(c, "product_id is required")
	}

	ctx := c.UserContext()
	if _, err := h.productRepo.GetByID(ctx, req.ProductID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return notFound(c, "product not found")
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "failed to fetch product",
		})
	}

	pkg := &domain.Package{
		ProductID:       req.ProductID,
		Duration:        req.Duration,
		Price:           req.Price,
		OriginalPrice:   req.OriginalPrice,
		DiscountPercent: req.DiscountPercent,
	}

	if err := h.packageRepo.Create(ctx, pkg); err != nil {
		// Validation errors (bad duration, price above original) land here
		return badRequest(c, err.Error())
	}

	h.refreshCatalog(c)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    pkg,
	})
}

// UpdatePackage handles PUT /v1/admin/packages/:id
func (h *AdminCatalogHandler) UpdatePackage(c *fiber.Ctx) error {
	var req PackageRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	pkg := &domain.Package{
		ID:              c.Params("id"),
		ProductID:       req.ProductID,
		Duration:        req.Duration,
		Price:           req.Price,
		OriginalPrice:   req.OriginalPrice,
		DiscountPercent: req.DiscountPercent,
	}

	if err := h.packageRepo.Update(c.UserContext(), pkg); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return notFound(c, "package not found")
		}
		return badRequest(c, err.Error())
	}

	h.refreshCatalog(c)
	return c.JSON(fiber.Map{
		"success": true,
		"data":    pkg,
	})
}

// DeletePackage handles DELETE /v1/admin/packages/:id
func (h *AdminCatalogHandler) DeletePackage(c *fiber.Ctx) error {
	if err := h.packageRepo.Delete(c.UserContext(), c.Params("id")); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return notFound(c, "package not found")
		}
		log.Printf("[Admin] delete package failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "failed to delete package",
		})
	}

	h.refreshCatalog(c)
	return c.JSON(fiber.Map{
		"success": true,
	})
}

// UploadImage handles POST /v1/admin/products/images (multipart form,
// field "image"). Returns the public URL to store on the product.
func (h *AdminCatalogHandler) UploadImage(c *fiber.Ctx) error {
	if h.fileRepo == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"success": false,
			"error":   "image storage is not configured",
		})
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return badRequest(c, "image file is required")
	}

	f, err := fileHeader.Open()
	if err != nil {
		return badRequest(c, "failed to open uploaded file")
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "failed to read uploaded file",
		})
	}

	filename := fmt.Sprintf("%s%s", ulid.Make().String(), filepath.Ext(fileHeader.Filename))
	contentType := fileHeader.Header.Get("Content-Type")

	url, err := h.fileRepo.Upload(c.UserContext(), data, filename, contentType)
	if err != nil {
		log.Printf("[Admin] image upload failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "failed to upload image",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"url": url,
		},
	})
}

func (h *AdminCatalogHandler) refreshCatalog(c *fiber.Ctx) {
	if err := h.catalog.Refresh(c.UserContext()); err != nil {
		log.Printf("[Admin] catalog refresh failed: %v", err)
	}
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"error":   msg,
	})
}

func notFound(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"success": false,
		"error":   msg,
	})
}
