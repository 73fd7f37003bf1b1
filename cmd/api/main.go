package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/openshophq/openshop-backend/api/routes"
	"github.com/openshophq/openshop-backend/internal/assets"
	"github.com/openshophq/openshop-backend/internal/auth"
	"github.com/openshophq/openshop-backend/internal/businesses"
	cartsvc "github.com/openshophq/openshop-backend/internal/cart"
	checkoutsvc "github.com/openshophq/openshop-backend/internal/checkout"
	couponsvc "github.com/openshophq/openshop-backend/internal/coupons"
	marketingsvc "github.com/openshophq/openshop-backend/internal/marketing"
	productsvc "github.com/openshophq/openshop-backend/internal/products"
	"github.com/openshophq/openshop-backend/internal/users"
	"github.com/openshophq/openshop-backend/internal/webhooks"
	"github.com/openshophq/openshop-backend/pkg/commerce"
	"github.com/openshophq/openshop-backend/pkg/config"
	"github.com/openshophq/openshop-backend/pkg/db"
	"github.com/openshophq/openshop-backend/pkg/imagehost"
	"github.com/openshophq/openshop-backend/pkg/logger"
	"github.com/openshophq/openshop-backend/pkg/metrics"
	"github.com/openshophq/openshop-backend/pkg/migrate"
	"github.com/openshophq/openshop-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), dbClient, logg, cfg.FeatureFlags.AutoMigrate, migrate.DefaultDir); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	commerceClient, err := commerce.NewClient(cfg.Commerce)
	if err != nil {
		logg.Error(context.Background(), "failed to create payment provider client", err)
		os.Exit(1)
	}

	imageClient, err := imagehost.NewClient(cfg.ImageHost)
	if err != nil {
		logg.Error(context.Background(), "failed to create image host client", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(registry)
	webhookMetrics := metrics.NewWebhookMetrics(registry)

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       users.NewRepository(dbClient.DB()),
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	businessRepo := businesses.NewRepository(dbClient.DB())
	businessService, err := businesses.NewService(businessRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create business service", err)
		os.Exit(1)
	}

	productService, err := productsvc.NewService(productsvc.NewRepository(dbClient.DB()), dbClient, businessRepo, imageClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create product service", err)
		os.Exit(1)
	}

	cartService, err := cartsvc.NewService(cartsvc.NewRepository(dbClient.DB()), dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	checkoutService, err := checkoutsvc.NewService(cartService, commerceClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	couponService, err := couponsvc.NewService(couponsvc.NewRepository(dbClient.DB()), dbClient, businessRepo, assets.NewQRGenerator(), imageClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create coupon service", err)
		os.Exit(1)
	}

	marketingService, err := marketingsvc.NewService(logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create marketing service", err)
		os.Exit(1)
	}

	paymentService, err := webhooks.NewPaymentService(commerceClient, redisClient, logg, webhookMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create payment webhook service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	handler := routes.NewRouter(cfg, logg, dbClient, redisClient, httpMetrics, registry, routes.Services{
		Auth:       authService,
		Businesses: businessService,
		Products:   productService,
		Cart:       cartService,
		Checkout:   checkoutService,
		Coupons:    couponService,
		Marketing:  marketingService,
		Payments:   paymentService,
	})

	server := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-shutdownCtx.Done():
		logg.Info(ctx, "shutdown signal received")
		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(timeoutCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
			os.Exit(1)
		}
	}

	logg.Info(ctx, "api server stopped")
}
