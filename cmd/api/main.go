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
	"go.uber.org/multierr"

	"github.com/citycartapp/citycart-backend/api/routes"
	"github.com/citycartapp/citycart-backend/internal/coupons"
	"github.com/citycartapp/citycart-backend/internal/delivery"
	"github.com/citycartapp/citycart-backend/internal/pricing"
	"github.com/citycartapp/citycart-backend/internal/search"
	"github.com/citycartapp/citycart-backend/internal/stores"
	"github.com/citycartapp/citycart-backend/pkg/config"
	"github.com/citycartapp/citycart-backend/pkg/db"
	"github.com/citycartapp/citycart-backend/pkg/logger"
	"github.com/citycartapp/citycart-backend/pkg/migrate"
	"github.com/citycartapp/citycart-backend/pkg/redis"
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

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	// Redis only backs the geo cache, so a broken instance degrades to
	// uncached queries instead of stopping the process.
	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Warn(logg.WithField(context.Background(), "error", err.Error()),
			"redis unavailable, geo cache disabled")
		redisClient = nil
	}

	deliveryResolver, err := delivery.NewResolver(delivery.NewRepository(dbClient.DB()), logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create delivery resolver", err)
		os.Exit(1)
	}
	couponResolver, err := coupons.NewResolver(coupons.NewRepository(dbClient.DB()), logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create coupon resolver", err)
		os.Exit(1)
	}
	pricingService, err := pricing.NewService(pricing.NewRepository(dbClient.DB()), deliveryResolver, couponResolver, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create pricing service", err)
		os.Exit(1)
	}

	storeRepo := stores.NewRepository(dbClient.DB())
	var storeService stores.Service
	if redisClient != nil {
		storeService, err = stores.NewService(storeRepo, deliveryResolver, couponResolver, redisClient, cfg.Discovery, logg)
	} else {
		storeService, err = stores.NewService(storeRepo, deliveryResolver, couponResolver, nil, cfg.Discovery, logg)
	}
	if err != nil {
		logg.Error(context.Background(), "failed to create store service", err)
		os.Exit(1)
	}

	searchRepo := search.NewRepository(dbClient.DB())
	searchService, err := search.NewService(searchRepo, searchRepo, storeService, pricingService, cfg.Discovery, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create search service", err)
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

	deps := routes.RouterDeps{
		Config:         cfg,
		Logger:         logg,
		DBPinger:       dbClient,
		StoreService:   storeService,
		SearchService:  searchService,
		PricingService: pricingService,
		Registry:       prometheus.NewRegistry(),
	}
	if redisClient != nil {
		deps.RedisPinger = redisClient
	}

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(deps),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-stop:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}

	var closeErr error
	if redisClient != nil {
		closeErr = multierr.Append(closeErr, redisClient.Close())
	}
	closeErr = multierr.Append(closeErr, dbClient.Close())
	if closeErr != nil {
		logg.Error(ctx, "error closing clients", closeErr)
		os.Exit(1)
	}
}
