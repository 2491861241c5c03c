package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rl1809/bookstore/internal/adapter/client"
	"github.com/rl1809/bookstore/internal/adapter/handler"
	"github.com/rl1809/bookstore/internal/adapter/storage"
	"github.com/rl1809/bookstore/internal/config"
	"github.com/rl1809/bookstore/internal/core/service"
	"github.com/rl1809/bookstore/internal/observability"
	"github.com/rl1809/bookstore/internal/port"
)

const serviceName = "order"

func main() {
	if err := run(); err != nil {
		slog.Error("Order service failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	config.SetupLogger(cfg.Log.Level)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.SetupTracing(ctx, serviceName, cfg.Otel)
	if err != nil {
		return err
	}
	defer shutdownTracing(context.Background())

	audit, closeAudit, err := openAuditStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeAudit()

	catalog, closeCatalog, err := newCatalogClient(cfg)
	if err != nil {
		return err
	}
	defer closeCatalog()

	orders := service.NewOrderService(catalog, audit,
		service.WithFallback(cfg.Order.Fallback.Enabled),
		service.WithAuditTimeout(cfg.Order.AuditTimeout),
	)

	router := handler.NewRouter(serviceName, cfg.Server.HTTP.CORS)
	handler.NewOrderHandler(orders).RegisterRoutes(router)
	httpServer := handler.NewHTTPServer(cfg.Order.HTTP.Port, router, cfg.Server.HTTP)

	err = handler.RunHTTPServer(ctx, httpServer, cfg.Server.HTTP.ShutdownTimeout)
	slog.Info("Order service stopped")
	return err
}

func openAuditStore(ctx context.Context, cfg *config.Config) (port.AuditRepository, func(), error) {
	if cfg.Order.Audit.Driver == "memory" {
		slog.Warn("Using in-memory audit log, entries are lost on restart")
		return storage.NewMemoryAuditAdapter(), func() {}, nil
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.Postgres.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if cfg.Postgres.MaxConns > 0 {
		poolCfg.MaxConns = cfg.Postgres.MaxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("create postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("ping postgres: %w", err)
	}
	if err := storage.MigratePostgres(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, err
	}

	slog.Info("Connected to Postgres")
	return storage.NewPostgresAuditAdapter(pool), pool.Close, nil
}

func newCatalogClient(cfg *config.Config) (port.CatalogClient, func(), error) {
	if cfg.Catalog.Transport == "grpc" {
		c, err := client.NewGRPCCatalogClient(cfg.Catalog.GRPCAddr, cfg.Catalog.Timeout)
		if err != nil {
			return nil, nil, err
		}
		slog.Info("Catalog client over gRPC", "addr", cfg.Catalog.GRPCAddr)
		return c, func() { c.Close() }, nil
	}

	c := client.NewHTTPCatalogClient(client.HTTPCatalogConfig{
		BaseURL:                    cfg.Catalog.BaseURL,
		Timeout:                    cfg.Catalog.Timeout,
		ReserveUnavailableStatuses: cfg.Catalog.ReserveUnavailableStatuses,
	}, &http.Client{})
	slog.Info("Catalog client over HTTP", "base_url", cfg.Catalog.BaseURL,
		"reserve_unavailable_statuses", cfg.Catalog.ReserveUnavailableStatuses)
	return c, func() {}, nil
}
