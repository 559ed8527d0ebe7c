package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/rahatul-dev/subbazar/internal/domain"
	"golang.org/x/sync/singleflight"
)

// CheckoutRequest carries the customer-supplied fields of a submission.
// The payment is a manual mobile-banking transfer; TransactionRef is the
// shopper's transfer reference and is mandatory.
type CheckoutRequest struct {
	CustomerName   string
	CustomerPhone  string
	CustomerEmail  string
	PaymentMethod  string
	TransactionRef string
	PromoCode      string
}

// CheckoutService composes cart state, catalog prices and promo validation
// into a submitted order. Concurrent submissions for the same user collapse
// into a single order via singleflight, so a double click cannot create two.
type CheckoutService struct {
	cart    *CartService
	catalog *CatalogService
	promo   *PromoService

	orderRepo domain.OrderRepository
	promoRepo domain.PromoRepository
	subRepo   domain.SubscriptionRepository

	sfg singleflight.Group
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(
	cart *CartService,
	catalog *CatalogService,
	promo *PromoService,
	orderRepo domain.OrderRepository,
	promoRepo domain.PromoRepository,
	subRepo domain.SubscriptionRepository,
) *CheckoutService {
	return &CheckoutService{
		cart:      cart,
		catalog:   catalog,
		promo:     promo,
		orderRepo: orderRepo,
		promoRepo: promoRepo,
		subRepo:   subRepo,
	}
}

// FinalTotal is the payable amount: subtotal minus discount, floored at 0.
// A fixed promo may nominally exceed the subtotal; the floor absorbs it.
func FinalTotal(subtotal, discount int64) int64 {
	total := subtotal - discount
	if total < 0 {
		return 0
	}
	return total
}

// PlaceOrder validates preconditions, snapshots the cart into an order and
// submits it. On full success the promo usage is incremented, subscriptions
// are provisioned and the cart is cleared.
//
// The order header and its items are written in two steps without a
// transaction. If the items insert fails the header stays behind in
// "pending" with no items; this mirrors the storefront it replaces and is
// logged loudly so operators can reconcile.
func (s *CheckoutService) PlaceOrder(ctx context.Context, userID string, req CheckoutRequest) (*domain.Order, error) {
	v, err, _ := s.sfg.Do(userID, func() (interface{}, error) {
		return s.placeOrder(ctx, userID, req)
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.Order), nil
}

func (s *CheckoutService) placeOrder(ctx context.Context, userID string, req CheckoutRequest) (*domain.Order, error) {
	lines, err := s.cart.Lines(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if len(lines) == 0 {
		return nil, domain.ErrEmptyCart
	}

	// Point-in-time snapshot: prices, names and durations are captured now,
	// later catalog edits never change this order.
	var subtotal int64
	items := make([]*domain.OrderItem, 0, len(lines))
	for _, line := range lines {
		product, pkg, ok := s.catalog.Resolve(line.ProductID, line.PackageID)
		if !ok {
			log.Printf("[Checkout] dropping unresolved line %s/%s (user %s)", line.ProductID, line.PackageID, userID)
			continue
		}
		subtotal += pkg.Price * int64(line.Quantity)
		items = append(items, &domain.OrderItem{
			ProductID:     line.ProductID,
			PackageID:     line.PackageID,
			ProductName:   product.Name,
			DurationLabel: domain.DurationLabel(pkg.Duration),
			UnitPrice:     pkg.Price,
			Quantity:      line.Quantity,
		})
	}
	if len(items) == 0 {
		return nil, domain.ErrEmptyCart
	}

	var applied *domain.AppliedPromo
	if req.PromoCode != "" {
		applied, err = s.promo.Validate(ctx, req.PromoCode, subtotal)
		if err != nil {
			return nil, err
		}
	}

	order := &domain.Order{
		UserID:         userID,
		CustomerName:   req.CustomerName,
		CustomerPhone:  req.CustomerPhone,
		CustomerEmail:  req.CustomerEmail,
		Subtotal:       subtotal,
		PaymentMethod:  req.PaymentMethod,
		TransactionRef: req.TransactionRef,
		Status:         domain.OrderStatusPending,
	}
	if applied != nil {
		order.PromoCode = applied.Code
		order.DiscountAmount = applied.DiscountAmount
	}
	order.TotalAmount = FinalTotal(subtotal, order.DiscountAmount)

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	for _, item := range items {
		item.OrderID = order.ID
	}
	if err := s.orderRepo.CreateItems(ctx, items); err != nil {
		// Known gap: the header above is not rolled back
		log.Printf("[Checkout] ORDER %s LEFT WITHOUT ITEMS: item insert failed: %v", order.ID, err)
		return nil, fmt.Errorf("failed to create order items: %w", err)
	}

	if applied != nil {
		if err := s.promoRepo.IncrementUsage(ctx, applied.Code); err != nil {
			log.Printf("[Checkout] failed to increment usage of promo %s: %v", applied.Code, err)
		}
	}

	s.provisionSubscriptions(ctx, order, items)

	if err := s.cart.ClearCart(ctx, userID); err != nil {
		log.Printf("[Checkout] failed to clear cart for user %s: %v", userID, err)
	}

	return order, nil
}

// provisionSubscriptions creates one subscription per order item, stacking
// on an existing active subscription for the same product where one exists.
// Provisioning failures are logged, not fatal: the order already stands and
// admins can re-provision.
func (s *CheckoutService) provisionSubscriptions(ctx context.Context, order *domain.Order, items []*domain.OrderItem) {
	now := time.Now().UTC()
	for _, item := range items {
		_, pkg, ok := s.catalog.Resolve(item.ProductID, item.PackageID)
		if !ok {
			continue
		}

		var currentEnd *time.Time
		if existing, err := s.subRepo.GetActiveByUserAndProduct(ctx, order.UserID, item.ProductID); err == nil {
			currentEnd = existing.EndDate
		}

		sub := &domain.Subscription{
			UserID:    order.UserID,
			OrderID:   order.ID,
			ProductID: item.ProductID,
			PackageID: item.PackageID,
			StartDate: now,
			EndDate:   domain.CalculateEndDate(currentEnd, pkg.Duration, now),
		}
		if err := s.subRepo.Create(ctx, sub); err != nil {
			log.Printf("[Checkout] failed to provision subscription for order %s item %s: %v", order.ID, item.ID, err)
		}
	}
}
