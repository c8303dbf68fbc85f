package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/gasana-dev/isoko-backend/api/controllers"
	"github.com/gasana-dev/isoko-backend/api/routes"
	"github.com/gasana-dev/isoko-backend/internal/cart"
	"github.com/gasana-dev/isoko-backend/internal/inventory"
	"github.com/gasana-dev/isoko-backend/internal/listings"
	"github.com/gasana-dev/isoko-backend/internal/orders"
	"github.com/gasana-dev/isoko-backend/internal/payments"
	"github.com/gasana-dev/isoko-backend/internal/storage"
	"github.com/gasana-dev/isoko-backend/internal/tracking"
	"github.com/gasana-dev/isoko-backend/internal/transport"
	"github.com/gasana-dev/isoko-backend/pkg/config"
	"github.com/gasana-dev/isoko-backend/pkg/db"
	"github.com/gasana-dev/isoko-backend/pkg/idgen"
	"github.com/gasana-dev/isoko-backend/pkg/logger"
	"github.com/gasana-dev/isoko-backend/pkg/momo"
	"github.com/gasana-dev/isoko-backend/pkg/outbox"
	"github.com/gasana-dev/isoko-backend/pkg/redis"
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

	momoClient, err := momo.NewClient(cfg.Momo)
	if err != nil {
		logg.Error(context.Background(), "failed to create momo client", err)
		os.Exit(1)
	}

	ids := idgen.New()
	outboxSvc := outbox.NewService(outbox.NewRepository(dbClient.DB()), logg)

	inventorySvc, err := inventory.NewService(inventory.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create inventory service", err)
		os.Exit(1)
	}
	listingsSvc, err := listings.NewService(listings.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create listings service", err)
		os.Exit(1)
	}
	transportSvc, err := transport.NewService(transport.NewRepository(dbClient.DB()), dbClient, outboxSvc, cfg.Transport)
	if err != nil {
		logg.Error(context.Background(), "failed to create transport service", err)
		os.Exit(1)
	}
	ordersSvc, err := orders.NewService(orders.NewRepository(dbClient.DB()), dbClient, outboxSvc, transportSvc, ids, cfg.Fulfillment)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}
	cartSvc, err := cart.NewService(cart.NewRepository(dbClient.DB()), dbClient, outboxSvc)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}
	storageSvc, err := storage.NewService(storage.NewRepository(dbClient.DB()), dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create storage service", err)
		os.Exit(1)
	}
	paymentsSvc, err := payments.NewService(payments.NewRepository(dbClient.DB()), dbClient, outboxSvc, momoClient, ids, cfg.Momo, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create payments service", err)
		os.Exit(1)
	}
	trackingSvc, err := tracking.NewService(tracking.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create tracking service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	id := os.Getenv("DYNO")
	if id == "" {
		id = "local"
	}
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": id,
	})
	logg.Info(ctx, "starting api server")

	health := map[string]controllers.Pinger{
		"database": dbClient,
		"redis":    redisClient,
	}
	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, redisClient, health, routes.Services{
			Inventory: inventorySvc,
			Listings:  listingsSvc,
			Orders:    ordersSvc,
			Cart:      cartSvc,
			Transport: transportSvc,
			Storage:   storageSvc,
			Payments:  paymentsSvc,
			Tracking:  trackingSvc,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
