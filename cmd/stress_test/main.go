package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/rl1809/bookstore/internal/adapter/client"
	"github.com/rl1809/bookstore/internal/adapter/storage"
	"github.com/rl1809/bookstore/internal/core/domain"
	"github.com/rl1809/bookstore/internal/core/service"
)

const itemID = 9999

func main() {
	redisAddr := flag.String("redis", "localhost:6379", "redis address")
	initialStock := flag.Int64("stock", 20, "initial quantity of the item")
	totalRequests := flag.Int("requests", 50, "concurrent purchase attempts")
	reserve := flag.Bool("reserve", true, "use the atomic reservation primitive; false exercises the adjust fallback")
	flag.Parse()

	ctx := context.Background()

	rdb := redis.NewClient(&redis.Options{Addr: *redisAddr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatalf("failed to connect redis: %v", err)
	}
	defer rdb.Close()

	store := storage.NewRedisAdapter(rdb)
	err := store.SetItem(ctx, domain.Item{
		ID:       itemID,
		Title:    "Stress Test Book",
		Topic:    domain.TopicDistributedSystems,
		Price:    10,
		Quantity: *initialStock,
	})
	if err != nil {
		log.Fatalf("failed to seed item: %v", err)
	}

	inventory := service.NewInventoryService(store, service.WithReservation(*reserve))
	audit := storage.NewMemoryAuditAdapter()
	orders := service.NewOrderService(client.NewLocalCatalogClient(inventory), audit)

	var successCount, failCount, errorCount atomic.Int64

	start := time.Now()
	var g errgroup.Group
	for i := 0; i < *totalRequests; i++ {
		g.Go(func() error {
			_, err := orders.Purchase(ctx, itemID)
			switch {
			case err == nil:
				successCount.Add(1)
			case errors.Is(err, domain.ErrOutOfStock), errors.Is(err, domain.ErrStockConflict):
				failCount.Add(1)
			default:
				errorCount.Add(1)
			}
			return nil
		})
	}
	_ = g.Wait()
	elapsed := time.Since(start)

	success := successCount.Load()
	fail := failCount.Load()
	expectedSuccess := min(*initialStock, int64(*totalRequests))

	fmt.Println("========== STRESS TEST RESULTS ==========")
	fmt.Printf("Initial Stock:    %d\n", *initialStock)
	fmt.Printf("Total Requests:   %d\n", *totalRequests)
	fmt.Printf("Reservation:      %v\n", *reserve)
	fmt.Printf("Successful:       %d\n", success)
	fmt.Printf("Failed:           %d\n", fail)
	fmt.Printf("Errors:           %d\n", errorCount.Load())
	fmt.Printf("Duration:         %v\n", elapsed)
	fmt.Println("==========================================")

	if success == expectedSuccess && fail == int64(*totalRequests)-expectedSuccess {
		fmt.Printf("PASS: Exactly %d orders succeeded, %d failed\n", success, fail)
	} else {
		fmt.Printf("FAIL: Expected %d success/%d fail, got %d/%d\n",
			expectedSuccess, int64(*totalRequests)-expectedSuccess, success, fail)
	}

	item, err := store.GetItem(ctx, itemID)
	if err != nil {
		log.Fatalf("failed to read final stock: %v", err)
	}
	fmt.Printf("Final Redis Stock: %d\n", item.Quantity)
	if item.Quantity == *initialStock-expectedSuccess {
		fmt.Println("PASS: Stock never went below zero")
	} else {
		fmt.Printf("FAIL: Expected stock %d, got %d\n", *initialStock-expectedSuccess, item.Quantity)
	}

	entries, _ := audit.List(ctx)
	recorded := map[domain.OrderStatus]int64{}
	for _, e := range entries {
		recorded[e.Status]++
	}
	fmt.Printf("Audit entries:    %d (SUCCESS=%d FAILED=%d)\n",
		len(entries), recorded[domain.OrderStatusSuccess], recorded[domain.OrderStatusFailed])
	if recorded[domain.OrderStatusSuccess] == success && len(entries) == *totalRequests {
		fmt.Println("PASS: One audit entry per attempt")
	} else {
		fmt.Println("FAIL: Audit log does not match attempts")
	}
}
