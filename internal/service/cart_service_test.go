package service

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/rahatul-dev/subbazar/internal/domain"
	"github.com/rahatul-dev/subbazar/internal/repository"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalogFixture(t *testing.T) *CatalogService {
	t.Helper()
	return newTestCatalog(t,
		[]*domain.Product{
			{ID: "prod-netflix", Name: "Netflix Premium", Category: domain.CategoryWeb, IsActive: true},
			{ID: "prod-spotify", Name: "Spotify Premium", Category: domain.CategoryMobile, IsActive: true},
		},
		[]*domain.Package{
			{ID: "pkg-netflix-1m", ProductID: "prod-netflix", Duration: domain.DurationOneMonth, Price: 350},
			{ID: "pkg-netflix-6m", ProductID: "prod-netflix", Duration: domain.DurationSixMonth, Price: 1800},
			{ID: "pkg-spotify-1m", ProductID: "prod-spotify", Duration: domain.DurationOneMonth, Price: 150},
		},
	)
}

func newCartServiceWithRedis(t *testing.T) *CartService {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewCartService(repository.NewRedisCartRepository(client), testCatalogFixture(t))
}

func TestCartServiceAddAndTotal(t *testing.T) {
	svc := newCartServiceWithRedis(t)
	ctx := context.Background()

	require.NoError(t, svc.AddToCart(ctx, "user-1", "prod-netflix", "pkg-netflix-1m"))
	require.NoError(t, svc.AddToCart(ctx, "user-1", "prod-netflix", "pkg-netflix-1m"))

	lines, err := svc.Lines(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)

	total, err := svc.CartTotal(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(700), total)

	count, err := svc.ItemsCount(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestCartServiceUnknownReferenceIgnored(t *testing.T) {
	svc := newCartServiceWithRedis(t)
	ctx := context.Background()

	// Stale storefront button: the add is dropped, not an error.
	require.NoError(t, svc.AddToCart(ctx, "user-1", "prod-gone", "pkg-gone"))

	lines, err := svc.Lines(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestCartServiceMismatchedPairIgnored(t *testing.T) {
	svc := newCartServiceWithRedis(t)
	ctx := context.Background()

	// Both IDs exist but the package belongs to another product.
	require.NoError(t, svc.AddToCart(ctx, "user-1", "prod-spotify", "pkg-netflix-1m"))

	lines, err := svc.Lines(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestCartServiceUpdateQuantity(t *testing.T) {
	svc := newCartServiceWithRedis(t)
	ctx := context.Background()

	require.NoError(t, svc.AddToCart(ctx, "user-1", "prod-netflix", "pkg-netflix-1m"))
	require.NoError(t, svc.UpdateQuantity(ctx, "user-1", "prod-netflix", "pkg-netflix-1m", 4))

	total, err := svc.CartTotal(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1400), total)

	// Zero quantity removes the line.
	require.NoError(t, svc.UpdateQuantity(ctx, "user-1", "prod-netflix", "pkg-netflix-1m", 0))
	lines, err := svc.Lines(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestCartServiceRemoveAndClear(t *testing.T) {
	svc := newCartServiceWithRedis(t)
	ctx := context.Background()

	require.NoError(t, svc.AddToCart(ctx, "user-1", "prod-netflix", "pkg-netflix-1m"))
	require.NoError(t, svc.AddToCart(ctx, "user-1", "prod-spotify", "pkg-spotify-1m"))

	require.NoError(t, svc.RemoveFromCart(ctx, "user-1", "prod-netflix", "pkg-netflix-1m"))
	lines, err := svc.Lines(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "prod-spotify", lines[0].ProductID)

	require.NoError(t, svc.ClearCart(ctx, "user-1"))
	lines, err = svc.Lines(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestCartServiceStaleLinePricedAsZero(t *testing.T) {
	cartRepo := newFakeCartRepo()
	svc := NewCartService(cartRepo, testCatalogFixture(t))
	ctx := context.Background()

	// A line persisted before its product was deactivated.
	cartRepo.carts["user-1"] = domain.CartLines{
		{ProductID: "prod-netflix", PackageID: "pkg-netflix-1m", Quantity: 1},
		{ProductID: "prod-retired", PackageID: "pkg-retired", Quantity: 3},
	}

	total, err := svc.CartTotal(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(350), total)
}

func TestCartServiceMalformedStoredCart(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	// Corrupt payload under the user's cart key.
	require.NoError(t, mr.Set("cart:user-1", "{not-json"))

	svc := NewCartService(repository.NewRedisCartRepository(client), testCatalogFixture(t))

	lines, err := svc.Lines(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Empty(t, lines, "malformed stored cart should read as empty, not error")
}
