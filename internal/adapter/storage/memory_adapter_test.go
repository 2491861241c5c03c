package storage

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rl1809/bookstore/internal/core/domain"
	"github.com/rl1809/bookstore/internal/port"
)

var (
	_ port.InventoryRepository = (*MemoryInventoryAdapter)(nil)
	_ port.InventoryRepository = (*MySQLAdapter)(nil)
	_ port.InventoryRepository = (*RedisAdapter)(nil)
	_ port.AuditRepository     = (*MemoryAuditAdapter)(nil)
	_ port.AuditRepository     = (*PostgresAuditAdapter)(nil)
)

func TestMemoryInventory_ReserveNeverNegative(t *testing.T) {
	adapter := NewMemoryInventoryAdapter(domain.Item{ID: 1, Title: "RPCs for Noobs", Topic: domain.TopicDistributedSystems, Quantity: 5})
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = adapter.ReserveItem(ctx, 1)
		}()
	}
	wg.Wait()

	item, err := adapter.GetItem(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(0), item.Quantity)

	_, err = adapter.ReserveItem(ctx, 1)
	assert.ErrorIs(t, err, domain.ErrOutOfStock)
}

func TestMemoryInventory_AdjustConflict(t *testing.T) {
	adapter := NewMemoryInventoryAdapter(domain.Item{ID: 1, Quantity: 2})

	_, err := adapter.AdjustStock(context.Background(), 1, -3)
	assert.ErrorIs(t, err, domain.ErrStockConflict)

	item, _ := adapter.GetItem(context.Background(), 1)
	assert.Equal(t, int64(2), item.Quantity)
}

func TestMemoryAudit_ListNewestFirst(t *testing.T) {
	adapter := NewMemoryAuditAdapter()
	ctx := context.Background()
	snapshot := domain.NewSnapshot(domain.Item{ID: 1, Title: "t", Price: 3})

	for _, s := range []domain.OrderStatus{domain.OrderStatusSuccess, domain.OrderStatusFailed} {
		_, err := adapter.Append(ctx, domain.NewOrderEntry(snapshot, s, time.Now().UTC()))
		require.NoError(t, err)
	}

	entries, err := adapter.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, int64(2), entries[0].ID)
	assert.Equal(t, int64(1), entries[1].ID)

	_, err = adapter.Get(ctx, 3)
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestSeedItems(t *testing.T) {
	adapter := NewMemoryInventoryAdapter(domain.Item{ID: 2, Title: "stale", Quantity: 0})
	ctx := context.Background()

	require.NoError(t, SeedItems(ctx, adapter, DefaultItems()))

	item, err := adapter.GetItem(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "RPCs for Noobs", item.Title)
	assert.Equal(t, int64(5), item.Quantity)

	summaries, err := adapter.SearchByTopic(ctx, domain.TopicUndergraduateSchool)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, int64(3), summaries[0].ID)
	assert.Equal(t, int64(4), summaries[1].ID)
}
