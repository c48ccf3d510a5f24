package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/storelane/storelane-api/internal/cache"
	"github.com/storelane/storelane-api/internal/config"
	"github.com/storelane/storelane-api/internal/crypto"
	"github.com/storelane/storelane-api/internal/database"
	"github.com/storelane/storelane-api/internal/email"
	"github.com/storelane/storelane-api/internal/handler"
	"github.com/storelane/storelane-api/internal/middleware"
	"github.com/storelane/storelane-api/internal/repository"
	"github.com/storelane/storelane-api/internal/service"
	"github.com/storelane/storelane-api/internal/utils"
	"github.com/storelane/storelane-api/internal/worker"
	"github.com/storelane/storelane-api/pkg/paystack"
)

const jwtTTL = 24 * time.Hour

// main is the application entrypoint for the Storelane API.
func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Setup logger
	setupLogger(cfg.Env)
	log.Info().Str("env", cfg.Env).Msg("starting storelane api")

	// 3. Connect database
	db, err := database.Connect(&cfg.DB)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		fmt.Fprintf(os.Stderr, "database connection failed: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	// 3a. Run migrations
	if err := runMigrations(db.DB); err != nil {
		log.Error().Err(err).Msg("migration failed")
		fmt.Fprintf(os.Stderr, "migration failed: %v\n", err)
		os.Exit(1)
	}
	log.Info().Msg("migrations completed successfully")

	// 3b. Connect to Redis
	redisClient, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		log.Error().Err(err).Msg("redis connection failed")
		fmt.Fprintf(os.Stderr, "redis connection failed: %v\n", err)
		os.Exit(1)
	}
	defer redisClient.Close()
	log.Info().Msg("redis connected successfully")

	tokenCache := cache.NewTokenCache(redisClient)

	// 4. Initialize platform clients and shared helpers
	encryptor, err := crypto.NewEncryptor(cfg.MasterKey)
	if err != nil {
		log.Error().Err(err).Msg("encryptor initialization failed")
		os.Exit(1)
	}
	jwtManager := utils.NewJWTManager(cfg.JWTSecret, jwtTTL)
	mailer := email.NewService(&cfg.SMTP)
	platformGateway := paystack.NewClient(cfg.Paystack.SecretKey)
	gatewayFactory := func(secretKey string) service.Gateway {
		return paystack.NewClient(secretKey)
	}

	// 5. Initialize repositories
	userRepo := repository.NewUserRepository(db)
	storeRepo := repository.NewStoreRepository(db)
	productRepo := repository.NewProductRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	billboardRepo := repository.NewBillboardRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	domainRepo := repository.NewDomainRepository(db)
	billingRepo := repository.NewBillingRepository(db)

	// 6. Initialize services
	storeSvc := service.NewStoreService(storeRepo)
	authSvc := service.NewAuthService(userRepo, storeRepo, tokenCache, mailer, jwtManager, log.Logger)
	synthesizer := service.NewVariantSynthesizer()
	productSvc := service.NewProductService(productRepo, synthesizer)
	categorySvc := service.NewCategoryService(categoryRepo)
	billboardSvc := service.NewBillboardService(billboardRepo)
	customerSvc := service.NewCustomerService(customerRepo)
	orderSvc := service.NewOrderService(orderRepo, customerRepo, log.Logger)
	exportSvc := service.NewExportService(productRepo, categoryRepo, billboardRepo)
	domainSvc := service.NewDomainService(domainRepo, service.NetResolver(), cfg.CNAMETarget, log.Logger)
	paymentSvc := service.NewPaymentService(billingRepo, customerRepo, orderRepo, platformGateway,
		gatewayFactory, encryptor, log.Logger)

	// 7. Initialize handlers
	handlers := &Handlers{
		Health:    handler.NewHealthHandler(db, redisClient),
		Auth:      handler.NewAuthHandler(authSvc),
		Store:     handler.NewStoreHandler(storeSvc, authSvc, userRepo),
		Product:   handler.NewProductHandler(productSvc),
		Category:  handler.NewCategoryHandler(categorySvc),
		Billboard: handler.NewBillboardHandler(billboardSvc),
		Customer:  handler.NewCustomerHandler(customerSvc),
		Order:     handler.NewOrderHandler(orderSvc),
		Export:    handler.NewExportHandler(exportSvc),
		Domain:    handler.NewDomainHandler(domainSvc),
		Billing:   handler.NewBillingHandler(paymentSvc, userRepo),
		Webhook:   handler.NewWebhookHandler(paymentSvc, cfg.Paystack.WebhookSecret),
	}

	// 8. Initialize middleware
	jwtMw := middleware.NewJWTMiddleware(jwtManager)
	storeMw := middleware.NewStoreMiddleware(storeSvc)

	// 9. Setup router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.LoggingMiddleware())
	setupRoutes(router, handlers, jwtMw, storeMw)

	// 10. Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 11. Start workers
	go worker.NewSubscriptionReconcileWorker(paymentSvc, cfg.Worker.SubscriptionReconcileInterval).Start(ctx)

	// 12. Start HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// 13. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// 14. Cancel context to stop workers
	cancel()

	// 15. Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}

// Handlers groups all HTTP handlers used by the server.
type Handlers struct {
	Health    *handler.HealthHandler
	Auth      *handler.AuthHandler
	Store     *handler.StoreHandler
	Product   *handler.ProductHandler
	Category  *handler.CategoryHandler
	Billboard *handler.BillboardHandler
	Customer  *handler.CustomerHandler
	Order     *handler.OrderHandler
	Export    *handler.ExportHandler
	Domain    *handler.DomainHandler
	Billing   *handler.BillingHandler
	Webhook   *handler.WebhookHandler
}

// setupRoutes registers all routes.
func setupRoutes(router *gin.Engine, handlers *Handlers, jwtMw *middleware.JWTMiddleware, storeMw *middleware.StoreMiddleware) {
	// Gateway webhook deliveries authenticate by signature, not session.
	router.POST("/webhook/paystack", handlers.Webhook.HandlePaystack)

	router.GET("/v1/health", handlers.Health.GetHealth)

	// Account routes (public)
	auth := router.Group("/v1/auth")
	{
		auth.POST("/register", handlers.Auth.Register)
		auth.POST("/login", handlers.Auth.Login)
		auth.POST("/login/2fa", handlers.Auth.CompleteTwoFactor)
		auth.POST("/verify-email", handlers.Auth.VerifyEmail)
		auth.POST("/forgot-password", handlers.Auth.ForgotPassword)
		auth.POST("/reset-password", handlers.Auth.ResetPassword)
	}

	// Plan catalog (public)
	router.GET("/v1/plans", handlers.Billing.ListPlans)

	// Session routes
	session := router.Group("/v1")
	session.Use(jwtMw.Handle())
	{
		session.POST("/stores", handlers.Store.CreateStore)
		session.GET("/stores", handlers.Store.ListStores)
		session.POST("/invites/accept", handlers.Store.AcceptInvite)
	}

	// Store-scoped routes: session plus membership check
	store := router.Group("/v1/stores/:storeId")
	store.Use(jwtMw.Handle(), storeMw.Handle())
	{
		store.GET("", handlers.Store.GetStore)
		store.PUT("", handlers.Store.UpdateStore)
		store.DELETE("", handlers.Store.DeleteStore)

		store.GET("/members", handlers.Store.ListMembers)
		store.POST("/members/invite", handlers.Store.InviteMember)
		store.DELETE("/members/:userId", handlers.Store.RemoveMember)

		store.GET("/products", handlers.Product.ListProducts)
		store.POST("/products", handlers.Product.CreateProduct)
		store.GET("/products/:productId", handlers.Product.GetProduct)
		store.PUT("/products/:productId", handlers.Product.UpdateProduct)
		store.DELETE("/products/:productId", handlers.Product.DeleteProduct)

		store.GET("/categories", handlers.Category.ListCategories)
		store.POST("/categories", handlers.Category.CreateCategory)
		store.GET("/categories/:categoryId", handlers.Category.GetCategory)
		store.PUT("/categories/:categoryId", handlers.Category.UpdateCategory)
		store.DELETE("/categories/:categoryId", handlers.Category.DeleteCategory)

		store.GET("/billboards", handlers.Billboard.ListBillboards)
		store.POST("/billboards", handlers.Billboard.CreateBillboard)
		store.GET("/billboards/:billboardId", handlers.Billboard.GetBillboard)
		store.PUT("/billboards/:billboardId", handlers.Billboard.UpdateBillboard)
		store.DELETE("/billboards/:billboardId", handlers.Billboard.DeleteBillboard)

		store.GET("/customers", handlers.Customer.ListCustomers)
		store.GET("/customers/:customerId", handlers.Customer.GetCustomer)

		store.GET("/orders", handlers.Order.ListOrders)
		store.GET("/orders/:orderId", handlers.Order.GetOrder)
		store.PUT("/orders/:orderId/status", handlers.Order.UpdateOrderStatus)

		store.GET("/export/products", handlers.Export.ExportProducts)
		store.GET("/export/categories", handlers.Export.ExportCategories)
		store.GET("/export/billboards", handlers.Export.ExportBillboards)

		store.GET("/domains", handlers.Domain.ListDomains)
		store.POST("/domains", handlers.Domain.RegisterDomain)
		store.POST("/domains/:domainId/verify", handlers.Domain.VerifyDomain)
		store.DELETE("/domains/:domainId", handlers.Domain.DeleteDomain)

		store.POST("/subscribe", handlers.Billing.Subscribe)
		store.GET("/subscription", handlers.Billing.GetSubscription)
		store.DELETE("/subscription", handlers.Billing.CancelSubscription)

		store.PUT("/payment-config", handlers.Billing.SavePaymentConfig)
		store.GET("/payment-config", handlers.Billing.GetPaymentConfig)

		store.POST("/checkout", handlers.Billing.Checkout)
		store.GET("/checkout/:reference/verify", handlers.Billing.VerifyCheckout)
	}
}

// runMigrations runs database migrations using golang-migrate.
func runMigrations(db *sql.DB) error {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres", driver)
	if err != nil {
		return fmt.Errorf("could not create migration instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

func setupLogger(env string) {
	if env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}
