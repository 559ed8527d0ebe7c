package service

import (
	"context"
	"errors"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/rahatul-dev/subbazar/internal/domain"
)

// In-memory repository fakes shared by the service tests.

type fakeProductRepo struct {
	products map[string]*domain.Product
}

func newFakeProductRepo(products ...*domain.Product) *fakeProductRepo {
	m := make(map[string]*domain.Product)
	for _, p := range products {
		m[p.ID] = p
	}
	return &fakeProductRepo{products: m}
}

func (r *fakeProductRepo) Create(ctx context.Context, p *domain.Product) error {
	if p.ID == "" {
		p.ID = ulid.Make().String()
	}
	r.products[p.ID] = p
	return nil
}

func (r *fakeProductRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func (r *fakeProductRepo) GetActive(ctx context.Context) ([]*domain.Product, error) {
	var out []*domain.Product
	for _, p := range r.products {
		if p.IsActive {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) GetAll(ctx context.Context) ([]*domain.Product, error) {
	var out []*domain.Product
	for _, p := range r.products {
		out = append(out, p)
	}
	return out, nil
}

func (r *fakeProductRepo) Update(ctx context.Context, p *domain.Product) error {
	if _, ok := r.products[p.ID]; !ok {
		return domain.ErrNotFound
	}
	r.products[p.ID] = p
	return nil
}

func (r *fakeProductRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.products[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.products, id)
	return nil
}

type fakePackageRepo struct {
	packages map[string]*domain.Package
}

func newFakePackageRepo(packages ...*domain.Package) *fakePackageRepo {
	m := make(map[string]*domain.Package)
	for _, p := range packages {
		m[p.ID] = p
	}
	return &fakePackageRepo{packages: m}
}

func (r *fakePackageRepo) Create(ctx context.Context, p *domain.Package) error {
	if p.ID == "" {
		p.ID = ulid.Make().String()
	}
	r.packages[p.ID] = p
	return nil
}

func (r *fakePackageRepo) GetByID(ctx context.Context, id string) (*domain.Package, error) {
	p, ok := r.packages[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func (r *fakePackageRepo) GetByProductID(ctx context.Context, productID string) ([]*domain.Package, error) {
	var out []*domain.Package
	for _, p := range r.packages {
		if p.ProductID == productID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakePackageRepo) GetAll(ctx context.Context) ([]*domain.Package, error) {
	var out []*domain.Package
	for _, p := range r.packages {
		out = append(out, p)
	}
	return out, nil
}

func (r *fakePackageRepo) Update(ctx context.Context, p *domain.Package) error {
	if _, ok := r.packages[p.ID]; !ok {
		return domain.ErrNotFound
	}
	r.packages[p.ID] = p
	return nil
}

func (r *fakePackageRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.packages[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.packages, id)
	return nil
}

func (r *fakePackageRepo) DeleteByProductID(ctx context.Context, productID string) error {
	for id, p := range r.packages {
		if p.ProductID == productID {
			delete(r.packages, id)
		}
	}
	return nil
}

type fakeCartRepo struct {
	carts   map[string]domain.CartLines
	loadErr error
}

func newFakeCartRepo() *fakeCartRepo {
	return &fakeCartRepo{carts: make(map[string]domain.CartLines)}
}

func (r *fakeCartRepo) Load(ctx context.Context, userID string) (domain.CartLines, error) {
	if r.loadErr != nil {
		return nil, r.loadErr
	}
	return r.carts[userID], nil
}

func (r *fakeCartRepo) Save(ctx context.Context, userID string, lines domain.CartLines) error {
	r.carts[userID] = lines
	return nil
}

func (r *fakeCartRepo) Delete(ctx context.Context, userID string) error {
	delete(r.carts, userID)
	return nil
}

type fakePromoRepo struct {
	promos    map[string]*domain.PromoCode
	lookupErr error
	usage     map[string]int
}

func newFakePromoRepo(promos ...*domain.PromoCode) *fakePromoRepo {
	m := make(map[string]*domain.PromoCode)
	for _, p := range promos {
		m[p.Code] = p
	}
	return &fakePromoRepo{promos: m, usage: make(map[string]int)}
}

func (r *fakePromoRepo) Create(ctx context.Context, p *domain.PromoCode) error {
	r.promos[p.Code] = p
	return nil
}

func (r *fakePromoRepo) GetByCode(ctx context.Context, code string) (*domain.PromoCode, error) {
	if r.lookupErr != nil {
		return nil, r.lookupErr
	}
	p, ok := r.promos[code]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func (r *fakePromoRepo) GetAll(ctx context.Context) ([]*domain.PromoCode, error) {
	var out []*domain.PromoCode
	for _, p := range r.promos {
		out = append(out, p)
	}
	return out, nil
}

func (r *fakePromoRepo) Update(ctx context.Context, p *domain.PromoCode) error {
	r.promos[p.Code] = p
	return nil
}

func (r *fakePromoRepo) Delete(ctx context.Context, id string) error {
	for code, p := range r.promos {
		if p.ID == id {
			delete(r.promos, code)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *fakePromoRepo) IncrementUsage(ctx context.Context, code string) error {
	r.usage[code]++
	if p, ok := r.promos[code]; ok {
		p.UsedCount++
	}
	return nil
}

type fakeOrderRepo struct {
	orders       []*domain.Order
	items        []*domain.OrderItem
	failItems    bool
	createCalled int
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{}
}

func (r *fakeOrderRepo) Create(ctx context.Context, order *domain.Order) error {
	r.createCalled++
	order.ID = ulid.Make().String()
	r.orders = append(r.orders, order)
	return nil
}

func (r *fakeOrderRepo) CreateItems(ctx context.Context, items []*domain.OrderItem) error {
	if r.failItems {
		return errors.New("items insert failed")
	}
	r.items = append(r.items, items...)
	return nil
}

func (r *fakeOrderRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	for _, o := range r.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeOrderRepo) GetItems(ctx context.Context, orderID string) ([]*domain.OrderItem, error) {
	var out []*domain.OrderItem
	for _, item := range r.items {
		if item.OrderID == orderID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) GetByUserID(ctx context.Context, userID string) ([]*domain.Order, error) {
	var out []*domain.Order
	for _, o := range r.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) GetAll(ctx context.Context) ([]*domain.Order, error) {
	return r.orders, nil
}

func (r *fakeOrderRepo) UpdateStatus(ctx context.Context, id string, status string) error {
	for _, o := range r.orders {
		if o.ID == id {
			o.Status = status
			return nil
		}
	}
	return domain.ErrNotFound
}

type fakeSubscriptionRepo struct {
	subs []*domain.Subscription
}

func newFakeSubscriptionRepo() *fakeSubscriptionRepo {
	return &fakeSubscriptionRepo{}
}

func (r *fakeSubscriptionRepo) Create(ctx context.Context, sub *domain.Subscription) error {
	sub.ID = ulid.Make().String()
	r.subs = append(r.subs, sub)
	return nil
}

func (r *fakeSubscriptionRepo) GetByUserID(ctx context.Context, userID string) ([]*domain.Subscription, error) {
	var out []*domain.Subscription
	for _, s := range r.subs {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeSubscriptionRepo) GetActiveByUserAndProduct(ctx context.Context, userID, productID string) (*domain.Subscription, error) {
	for _, s := range r.subs {
		if s.UserID == userID && s.ProductID == productID {
			return s, nil
		}
	}
	return nil, domain.ErrNotFound
}

// newTestCatalog builds a refreshed catalog service over the given products
// and packages.
func newTestCatalog(t *testing.T, products []*domain.Product, packages []*domain.Package) *CatalogService {
	t.Helper()
	catalog := NewCatalogService(newFakeProductRepo(products...), newFakePackageRepo(packages...))
	if err := catalog.Refresh(context.Background()); err != nil {
		t.Fatalf("catalog refresh: %v", err)
	}
	return catalog
}
