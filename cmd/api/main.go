package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/shoplivedeals/livedeals-backend/api/routes"
	checkoutsvc "github.com/shoplivedeals/livedeals-backend/internal/checkout"
	"github.com/shoplivedeals/livedeals-backend/internal/orders"
	product "github.com/shoplivedeals/livedeals-backend/internal/products"
	"github.com/shoplivedeals/livedeals-backend/internal/vendors"
	paymentwebhook "github.com/shoplivedeals/livedeals-backend/internal/webhooks/payment"
	"github.com/shoplivedeals/livedeals-backend/pkg/config"
	"github.com/shoplivedeals/livedeals-backend/pkg/db"
	"github.com/shoplivedeals/livedeals-backend/pkg/logger"
	"github.com/shoplivedeals/livedeals-backend/pkg/migrate"
	"github.com/shoplivedeals/livedeals-backend/pkg/redis"
)

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

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
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

	ordersRepo := orders.NewRepository(dbClient.DB())
	vendorsRepo := vendors.NewRepository(dbClient.DB())
	productRepo := product.NewRepository(dbClient.DB())

	checkoutService, err := checkoutsvc.NewService(dbClient, ordersRepo, vendorsRepo, checkoutsvc.Config{
		Currency:              cfg.Gateway.Currency,
		NotifyURL:             cfg.Gateway.NotifyURL,
		DefaultCommissionRate: decimal.NewFromFloat(cfg.Checkout.DefaultCommissionRate),
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	productService, err := product.NewService(productRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create product service", err)
		os.Exit(1)
	}

	ordersService, err := orders.NewService(ordersRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	webhookService, err := paymentwebhook.NewService(paymentwebhook.ServiceParams{
		OrdersRepo:        ordersRepo,
		TransactionRunner: dbClient,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create webhook service", err)
		os.Exit(1)
	}

	webhookVerifier, err := paymentwebhook.NewVerifier(cfg.Gateway.WebhookSecret, cfg.Gateway.AllowSimulationBypass)
	if err != nil {
		logg.Error(context.Background(), "failed to create webhook verifier", err)
		os.Exit(1)
	}

	webhookGuard, err := paymentwebhook.NewIdempotencyGuard(redisClient, 7*24*time.Hour, "payment-webhook")
	if err != nil {
		logg.Error(context.Background(), "failed to create webhook guard", err)
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

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:        cfg,
			Logger:        logg,
			DB:            dbClient,
			Redis:         redisClient,
			CheckoutSvc:   checkoutService,
			ProductSvc:    productService,
			OrdersSvc:     ordersService,
			VendorsRepo:   vendorsRepo,
			WebhookSvc:    webhookService,
			WebhookVerify: webhookVerifier,
			WebhookGuard:  webhookGuard,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
