package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/rahatul-dev/subbazar/internal/domain"
	"golang.org/x/sync/singleflight"
)

// ProductWithPackages bundles a product with its purchasable packages for
// the storefront listing.
type ProductWithPackages struct {
	Product  *domain.Product   `json:"product"`
	Packages []*domain.Package `json:"packages"`
}

// CatalogService holds an in-memory snapshot of active products and their
// packages. Cart pricing resolves (productID, packageID) pairs against this
// snapshot rather than hitting MongoDB per line. Refresh swaps the whole
// snapshot under a write lock; concurrent refreshes collapse to one fetch.
type CatalogService struct {
	productRepo domain.ProductRepository
	packageRepo domain.PackageRepository

	mu       sync.RWMutex
	products map[string]*domain.Product
	packages map[string]*domain.Package

	sfg singleflight.Group
}

// NewCatalogService creates a catalog service with an empty snapshot.
// Call Refresh before serving traffic.
func NewCatalogService(productRepo domain.ProductRepository, packageRepo domain.PackageRepository) *CatalogService {
	return &CatalogService{
		productRepo: productRepo,
		packageRepo: packageRepo,
		products:    make(map[string]*domain.Product),
		packages:    make(map[string]*domain.Package),
	}
}

// Refresh reloads the snapshot from the repositories. Only active products
// and their packages are cached; everything else resolves as a miss.
func (s *CatalogService) Refresh(ctx context.Context) error {
	_, err, _ := s.sfg.Do("refresh", func() (interface{}, error) {
		products, err := s.productRepo.GetActive(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load products: %w", err)
		}

		packages, err := s.packageRepo.GetAll(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load packages: %w", err)
		}

		productMap := make(map[string]*domain.Product, len(products))
		for _, p := range products {
			productMap[p.ID] = p
		}

		packageMap := make(map[string]*domain.Package, len(packages))
		for _, pkg := range packages {
			if _, ok := productMap[pkg.ProductID]; !ok {
				continue // package of an inactive or deleted product
			}
			packageMap[pkg.ID] = pkg
		}

		s.mu.Lock()
		s.products = productMap
		s.packages = packageMap
		s.mu.Unlock()

		return nil, nil
	})
	return err
}

// Resolve looks up a (productID, packageID) pair in the snapshot. The
// package must belong to the product; a mismatched pair is a miss.
func (s *CatalogService) Resolve(productID, packageID string) (*domain.Product, *domain.Package, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	product, ok := s.products[productID]
	if !ok {
		return nil, nil, false
	}
	pkg, ok := s.packages[packageID]
	if !ok || pkg.ProductID != productID {
		return nil, nil, false
	}
	return product, pkg, true
}

// ActiveProducts returns the cached storefront listing, grouped by product.
func (s *CatalogService) ActiveProducts() []ProductWithPackages {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byProduct := make(map[string][]*domain.Package)
	for _, pkg := range s.packages {
		byProduct[pkg.ProductID] = append(byProduct[pkg.ProductID], pkg)
	}

	result := make([]ProductWithPackages, 0, len(s.products))
	for id, product := range s.products {
		result = append(result, ProductWithPackages{
			Product:  product,
			Packages: byProduct[id],
		})
	}
	return result
}
