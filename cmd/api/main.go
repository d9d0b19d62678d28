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
	"go.uber.org/multierr"

	"github.com/tillpointhq/tillpoint-backend/api/routes"
	authsvc "github.com/tillpointhq/tillpoint-backend/internal/auth"
	"github.com/tillpointhq/tillpoint-backend/internal/cart"
	checkoutsvc "github.com/tillpointhq/tillpoint-backend/internal/checkout"
	ordersvc "github.com/tillpointhq/tillpoint-backend/internal/orders"
	productsvc "github.com/tillpointhq/tillpoint-backend/internal/products"
	"github.com/tillpointhq/tillpoint-backend/pkg/backend"
	"github.com/tillpointhq/tillpoint-backend/pkg/config"
	"github.com/tillpointhq/tillpoint-backend/pkg/logger"
	"github.com/tillpointhq/tillpoint-backend/pkg/metrics"
	"github.com/tillpointhq/tillpoint-backend/pkg/redis"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "tillpoint"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "tillpoint",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	backendClient, err := backend.NewClient(context.Background(), cfg.Backend, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap backend client", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}

	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	apiMetrics := metrics.NewAPIMetrics(promRegistry)

	productsService, err := productsvc.NewService(backendClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create products service", err)
		os.Exit(1)
	}
	checkoutService, err := checkoutsvc.NewService(backendClient, cfg.Tax.Rate, apiMetrics, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}
	ordersService, err := ordersvc.NewService(backendClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}
	authService, err := authsvc.NewService(backendClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	registry := cart.NewRegistry(cfg.Cart.SessionTTL)

	runCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go registry.Run(runCtx, cfg.Cart.SweepInterval, logg)

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
			Config:       cfg,
			Logger:       logg,
			Redis:        redisClient,
			Backend:      backendClient,
			CartRegistry: registry,
			APIMetrics:   apiMetrics,
			Registry:     promRegistry,
			Products:     productsService,
			Checkout:     checkoutService,
			Orders:       ordersService,
			Auth:         authService,
		}),
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-runCtx.Done():
		logg.Info(ctx, "shutting down api server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		var closeErr error
		closeErr = multierr.Append(closeErr, server.Shutdown(shutdownCtx))
		closeErr = multierr.Append(closeErr, redisClient.Close())
		if closeErr != nil {
			logg.Error(ctx, "error during shutdown", closeErr)
			os.Exit(1)
		}
	}

	logg.Info(ctx, "api server stopped")
}
