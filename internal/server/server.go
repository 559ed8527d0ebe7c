package server

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rahatul-dev/subbazar/internal/config"
	"github.com/rahatul-dev/subbazar/internal/domain"
	"github.com/rahatul-dev/subbazar/internal/handler"
	"github.com/rahatul-dev/subbazar/internal/middleware"
	"github.com/rahatul-dev/subbazar/internal/repository"
	"github.com/rahatul-dev/subbazar/internal/service"
	"github.com/rahatul-dev/subbazar/internal/telemetry"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

// AppDependencies holds the dependencies required to start the application
type AppDependencies struct {
	Config      *config.Config
	MongoDB     *mongo.Database
	RedisClient *redis.Client
	AuthClient  service.FirebaseAuthClient
}

// NewApp creates and configures the Fiber application with the given dependencies
func NewApp(deps AppDependencies) *fiber.App {
	// Initialize repositories
	productRepo := repository.NewMongoProductRepository(deps.MongoDB)
	packageRepo := repository.NewMongoPackageRepository(deps.MongoDB)
	promoRepo := repository.NewMongoPromoRepository(deps.MongoDB)
	orderRepo := repository.NewMongoOrderRepository(deps.MongoDB)
	userRepo := repository.NewMongoUserRepository(deps.MongoDB)
	subRepo := repository.NewMongoSubscriptionRepository(deps.MongoDB)
	cartRepo := repository.NewRedisCartRepository(deps.RedisClient)

	var fileRepo domain.FileRepository
	if deps.Config.S3.Endpoint != "" {
		s3Repo, err := repository.NewS3ImageRepository(context.Background(), deps.Config.S3)
		if err != nil {
			log.Printf("Warning: Failed to initialize S3 repository: %v", err)
		} else {
			fileRepo = s3Repo
		}
	}

	// Initialize services
	catalogService := service.NewCatalogService(productRepo, packageRepo)
	// Warm the catalog snapshot so the first storefront request does not
	// serve an empty listing. Admin mutations refresh it afterwards.
	if err := catalogService.Refresh(context.Background()); err != nil {
		log.Printf("Warning: initial catalog load failed: %v", err)
	}
	cartService := service.NewCartService(cartRepo, catalogService)
	promoService := service.NewPromoService(promoRepo)
	checkoutService := service.NewCheckoutService(cartService, catalogService, promoService, orderRepo, promoRepo, subRepo)
	authService := service.NewAuthService(userRepo, deps.AuthClient, deps.Config.JWT)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	catalogHandler := handler.NewCatalogHandler(catalogService)
	cartHandler := handler.NewCartHandler(cartService)
	promoHandler := handler.NewPromoHandler(promoService, cartService)
	checkoutHandler := handler.NewCheckoutHandler(checkoutService)
	orderHandler := handler.NewOrderHandler(orderRepo, subRepo)
	adminCatalogHandler := handler.NewAdminCatalogHandler(productRepo, packageRepo, fileRepo, catalogService)
	adminOrderHandler := handler.NewAdminOrderHandler(orderRepo, promoRepo)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "SubBazar API",
		BodyLimit:    int(deps.Config.Server.MaxUploadSizeMB * 1024 * 1024),
		ErrorHandler: customErrorHandler,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Correlation-ID",
		AllowMethods: "GET, POST, PUT, PATCH, DELETE, OPTIONS",
	}))
	if deps.Config.OTEL.Enabled {
		app.Use(telemetry.FiberMiddleware())
	}

	// Health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"service": "subbazar",
		})
	})

	// API v1 routes
	v1 := app.Group("/v1")

	// Auth endpoints (public)
	auth := v1.Group("/auth")
	auth.Post("/login", authHandler.LoginOrRegister)

	// Storefront catalog (public)
	v1.Get("/catalog", catalogHandler.ListProducts)

	// ===========================================
	// CUSTOMER API - /v1/me/* (requires 'customer' role)
	// ===========================================
	me := v1.Group("/me")
	me.Use(middleware.VerifySubBazarToken(deps.Config.JWT.Secret))
	me.Use(middleware.AuthorizeRole(domain.RoleCustomer))

	meCart := me.Group("/cart")
	meCart.Get("/", cartHandler.GetCart)
	meCart.Post("/items", cartHandler.AddItem)
	meCart.Patch("/items", cartHandler.UpdateItem)
	meCart.Delete("/items", cartHandler.RemoveItem)
	meCart.Delete("/", cartHandler.ClearCart)

	me.Post("/promos/validate", promoHandler.Validate)

	// Duplicate submissions replay the cached response instead of creating
	// a second order.
	me.Post("/checkout",
		middleware.IdempotencyMiddleware(deps.RedisClient, 24*time.Hour),
		checkoutHandler.Checkout,
	)

	me.Get("/orders", orderHandler.ListMyOrders)
	me.Get("/orders/:id", orderHandler.GetMyOrder)
	me.Get("/subscriptions", orderHandler.ListMySubscriptions)

	// ===========================================
	// ADMIN API - /v1/admin/* (requires 'admin' role)
	// ===========================================
	admin := v1.Group("/admin")
	admin.Use(middleware.VerifySubBazarToken(deps.Config.JWT.Secret))
	admin.Use(middleware.AuthorizeRole(domain.RoleAdmin))

	admin.Post("/catalog/refresh", catalogHandler.RefreshCatalog)

	adminProducts := admin.Group("/products")
	adminProducts.Get("/", adminCatalogHandler.ListProducts)
	adminProducts.Post("/", adminCatalogHandler.CreateProduct)
	adminProducts.Post("/images", adminCatalogHandler.UploadImage)
	adminProducts.Put("/:id", adminCatalogHandler.UpdateProduct)
	adminProducts.Delete("/:id", adminCatalogHandler.DeleteProduct)
	adminProducts.Get("/:id/packages", adminCatalogHandler.ListPackages)

	adminPackages := admin.Group("/packages")
	adminPackages.Post("/", adminCatalogHandler.CreatePackage)
	adminPackages.Put("/:id", adminCatalogHandler.UpdatePackage)
	adminPackages.Delete("/:id", adminCatalogHandler.DeletePackage)

	adminOrders := admin.Group("/orders")
	adminOrders.Get("/", adminOrderHandler.ListOrders)
	adminOrders.Get("/:id", adminOrderHandler.GetOrder)
	adminOrders.Patch("/:id/status", adminOrderHandler.UpdateOrderStatus)

	adminPromos := admin.Group("/promos")
	adminPromos.Get("/", adminOrderHandler.ListPromos)
	adminPromos.Post("/", adminOrderHandler.CreatePromo)
	adminPromos.Put("/:id", adminOrderHandler.UpdatePromo)
	adminPromos.Delete("/:id", adminOrderHandler.DeletePromo)

	return app
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}
	log.Printf("Error: %v", err)
	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
	})
}
