package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"github.com/rl1809/bookstore/internal/adapter/handler"
	"github.com/rl1809/bookstore/internal/adapter/handler/pb"
	"github.com/rl1809/bookstore/internal/adapter/storage"
	"github.com/rl1809/bookstore/internal/config"
	"github.com/rl1809/bookstore/internal/core/service"
	"github.com/rl1809/bookstore/internal/observability"
	"github.com/rl1809/bookstore/internal/port"
)

const serviceName = "catalog"

func main() {
	if err := run(); err != nil {
		slog.Error("Catalog service failed", "error", err)
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

	repo, closeStore, err := openInventoryStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	inventory := service.NewInventoryService(repo, service.WithReservation(cfg.Catalog.Reserve.Enabled))
	if !cfg.Catalog.Reserve.Enabled {
		slog.Warn("Reservation primitive disabled, clients will fall back to adjust")
	}

	// gRPC
	grpcServer := grpc.NewServer(grpc.UnaryInterceptor(observability.UnaryServerInterceptor(serviceName)))
	pb.RegisterInventoryServiceServer(grpcServer, handler.NewGRPCHandler(inventory))
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.Catalog.GRPC.Port))
	if err != nil {
		return fmt.Errorf("listen grpc: %w", err)
	}

	// HTTP
	router := handler.NewRouter(serviceName, cfg.Server.HTTP.CORS)
	handler.NewCatalogHandler(inventory).RegisterRoutes(router)
	httpServer := handler.NewHTTPServer(cfg.Catalog.HTTP.Port, router, cfg.Server.HTTP)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return handler.RunHTTPServer(gctx, httpServer, cfg.Server.HTTP.ShutdownTimeout)
	})
	g.Go(func() error {
		return handler.RunGRPCServer(gctx, grpcServer, lis, cfg.Server.HTTP.ShutdownTimeout)
	})

	err = g.Wait()
	slog.Info("Catalog service stopped")
	return err
}

func openInventoryStore(ctx context.Context, cfg *config.Config) (port.InventoryRepository, func(), error) {
	switch cfg.Catalog.Store.Driver {
	case "mysql":
		db, err := sql.Open("mysql", cfg.MySQL.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("open mysql: %w", err)
		}
		db.SetMaxOpenConns(cfg.MySQL.MaxOpenConns)
		db.SetMaxIdleConns(cfg.MySQL.MaxIdleConns)
		db.SetConnMaxLifetime(cfg.MySQL.ConnMaxLifetime)

		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("ping mysql: %w", err)
		}
		if err := storage.MigrateMySQL(ctx, db); err != nil {
			db.Close()
			return nil, nil, err
		}
		slog.Info("Connected to MySQL")
		return storage.NewMySQLAdapter(db), func() { db.Close() }, nil

	case "redis":
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			PoolSize: cfg.Redis.PoolSize,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			rdb.Close()
			return nil, nil, fmt.Errorf("ping redis: %w", err)
		}
		slog.Info("Connected to Redis", "addr", cfg.Redis.Addr)

		store := storage.NewRedisAdapter(rdb)
		if cfg.Catalog.Store.Seed {
			if err := storage.SeedItems(ctx, store, storage.DefaultItems()); err != nil {
				rdb.Close()
				return nil, nil, err
			}
			slog.Info("Seeded Redis catalog")
		}
		return store, func() { rdb.Close() }, nil

	default:
		slog.Warn("Using in-memory inventory store, data is lost on restart")
		return storage.NewMemoryInventoryAdapter(storage.DefaultItems()...), func() {}, nil
	}
}
