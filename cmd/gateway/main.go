package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rl1809/bookstore/internal/adapter/handler"
	"github.com/rl1809/bookstore/internal/config"
	"github.com/rl1809/bookstore/internal/observability"
)

const serviceName = "gateway"

func main() {
	if err := run(); err != nil {
		slog.Error("Gateway failed", "error", err)
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

	gw, err := handler.NewGatewayHandler(cfg.Catalog.BaseURL, cfg.Order.BaseURL, cfg.Order.Timeout)
	if err != nil {
		return err
	}
	slog.Info("Gateway upstreams", "catalog", cfg.Catalog.BaseURL, "order", cfg.Order.BaseURL)

	router := handler.NewRouter(serviceName, cfg.Server.HTTP.CORS)
	gw.RegisterRoutes(router)
	httpServer := handler.NewHTTPServer(cfg.Gateway.HTTP.Port, router, cfg.Server.HTTP)

	err = handler.RunHTTPServer(ctx, httpServer, cfg.Server.HTTP.ShutdownTimeout)
	slog.Info("Gateway stopped")
	return err
}
