package service

import (
	"context"
	"fmt"
	"log"

	"github.com/rahatul-dev/subbazar/internal/domain"
)

// CartService maintains the authoritative line set for each shopper and
// derives totals by joining lines against the catalog snapshot. Every
// mutation persists the full line set; every read restores it.
type CartService struct {
	cartRepo domain.CartRepository
	catalog  *CatalogService
}

// NewCartService creates a new cart service
func NewCartService(cartRepo domain.CartRepository, catalog *CatalogService) *CartService {
	return &CartService{
		cartRepo: cartRepo,
		catalog:  catalog,
	}
}

// AddToCart adds one unit of the package to the user's cart. A reference
// that does not resolve against the catalog is logged and ignored — the
// storefront treats it as a stale button, not an error.
func (s *CartService) AddToCart(ctx context.Context, userID, productID, packageID string) error {
	if _, _, ok := s.catalog.Resolve(productID, packageID); !ok {
		log.Printf("[Cart] add ignored: unknown product/package %s/%s (user %s)", productID, packageID, userID)
		return nil
	}

	lines, err := s.cartRepo.Load(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load cart: %w", err)
	}

	lines = lines.Add(productID, packageID)
	return s.cartRepo.Save(ctx, userID, lines)
}

// RemoveFromCart deletes the matching line; absent keys are a no-op.
func (s *CartService) RemoveFromCart(ctx context.Context, userID, productID, packageID string) error {
	lines, err := s.cartRepo.Load(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load cart: %w", err)
	}

	lines = lines.Remove(productID, packageID)
	return s.cartRepo.Save(ctx, userID, lines)
}

// UpdateQuantity sets the line's quantity; zero or negative removes it.
func (s *CartService) UpdateQuantity(ctx context.Context, userID, productID, packageID string, quantity int) error {
	lines, err := s.cartRepo.Load(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load cart: %w", err)
	}

	lines = lines.SetQuantity(productID, packageID, quantity)
	return s.cartRepo.Save(ctx, userID, lines)
}

// ClearCart empties the cart. Called after successful order submission.
func (s *CartService) ClearCart(ctx context.Context, userID string) error {
	return s.cartRepo.Delete(ctx, userID)
}

// Lines returns the current line set.
func (s *CartService) Lines(ctx context.Context, userID string) (domain.CartLines, error) {
	return s.cartRepo.Load(ctx, userID)
}

// CartTotal sums resolved price × quantity over all lines. Lines whose
// product or package no longer resolves contribute 0; they are logged so a
// stale cart is observable, but never surface as an error.
func (s *CartService) CartTotal(ctx context.Context, userID string) (int64, error) {
	lines, err := s.cartRepo.Load(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to load cart: %w", err)
	}
	return s.total(userID, lines), nil
}

// ItemsCount returns the sum of quantities across all lines.
func (s *CartService) ItemsCount(ctx context.Context, userID string) (int, error) {
	lines, err := s.cartRepo.Load(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to load cart: %w", err)
	}
	return lines.Count(), nil
}

func (s *CartService) total(userID string, lines domain.CartLines) int64 {
	var total int64
	for _, line := range lines {
		_, pkg, ok := s.catalog.Resolve(line.ProductID, line.PackageID)
		if !ok {
			log.Printf("[Cart] unresolved line %s/%s priced as 0 (user %s)", line.ProductID, line.PackageID, userID)
			continue
		}
		total += pkg.Price * int64(line.Quantity)
	}
	return total
}
