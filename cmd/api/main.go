package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/losol/eventuras-sub004/internal/app"
	"github.com/losol/eventuras-sub004/internal/clock"
	"github.com/losol/eventuras-sub004/internal/config"
	"github.com/losol/eventuras-sub004/internal/lock"
	"github.com/losol/eventuras-sub004/internal/metrics"
	"github.com/losol/eventuras-sub004/internal/storage/postgres"
	transporthttp "github.com/losol/eventuras-sub004/internal/transport/http"
	"github.com/losol/eventuras-sub004/migrations"
)

const shutdownTimeout = 10 * time.Second

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}))
	slog.SetDefault(logger)

	startupCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := pgxpool.New(startupCtx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("connect to db", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := pool.Ping(startupCtx); err != nil {
		logger.Error("db ping", "error", err)
		os.Exit(1)
	}
	if err := migrations.Apply(startupCtx, pool); err != nil {
		logger.Error("apply migrations", "error", err)
		os.Exit(1)
	}

	var locker lock.Locker = lock.Noop{}
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(startupCtx).Err(); err != nil {
			logger.Error("redis ping", "addr", cfg.RedisAddr, "error", err)
			os.Exit(1)
		}
		defer func() { _ = client.Close() }()
		locker = lock.NewRedisLocker(client)
		logger.Info("distributed reconcile lock enabled", "addr", cfg.RedisAddr)
	}

	clk := clock.NewSystem()
	policy := app.NewAccessPolicy(clk)
	m := metrics.New()

	regRepo := postgres.NewRegistrationRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	adminRepo := postgres.NewAdminRepository(pool)

	reconcileSvc := app.NewReconcileService(regRepo, productRepo, policy, clk,
		app.WithLocker(locker),
		app.WithLogger(logger),
		app.WithMetrics(m),
	)
	registrationSvc := app.NewRegistrationService(regRepo, policy)
	adminSvc := app.NewAdminService(adminRepo, policy)

	router := transporthttp.NewRouter(transporthttp.RouterConfig{
		Reconciler:    reconcileSvc,
		Registrations: registrationSvc,
		Orders:        registrationSvc,
		Admin:         adminSvc,
		Metrics:       promhttp.Handler(),
		Logger:        logger,
	})

	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: transporthttp.CORS(cfg.CORSOrigins, router),
	}

	logger.Info("api listening", "addr", cfg.HTTPAddr)

	srvErr := make(chan error, 1)
	go func() {
		srvErr <- server.ListenAndServe()
	}()

	stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
		}
	case <-stopCtx.Done():
		logger.Info("shutdown signal received, stopping server")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server shutdown error", "error", err)
	}
	logger.Info("server stopped")
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
