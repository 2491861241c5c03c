package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rl1809/bookstore/internal/core/domain"
)

func TestPostgresAudit_AppendAndGet(t *testing.T) {
	pool := getPostgresPool(t)
	adapter := NewPostgresAuditAdapter(pool)
	ctx := context.Background()

	createdAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	snapshot := domain.NewSnapshot(domain.Item{ID: 1, Title: "How to get a good grade in 677 in 20 minutes a day", Price: 40})

	id, err := adapter.Append(ctx, domain.NewOrderEntry(snapshot, domain.OrderStatusSuccess, createdAt))
	require.NoError(t, err)
	require.Positive(t, id)

	entry, err := adapter.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, entry.ID)
	assert.Equal(t, int64(1), entry.ItemID)
	assert.Equal(t, snapshot.Title(), entry.Title)
	assert.Equal(t, int64(40), entry.Price)
	assert.Equal(t, domain.OrderStatusSuccess, entry.Status)
	assert.True(t, createdAt.Equal(entry.CreatedAt))
}

func TestPostgresAudit_GetNotFound(t *testing.T) {
	pool := getPostgresPool(t)
	adapter := NewPostgresAuditAdapter(pool)

	_, err := adapter.Get(context.Background(), 1<<40)
	assert.True(t, errors.Is(err, domain.ErrOrderNotFound), "got %v", err)
}

func TestPostgresAudit_ListNewestFirst(t *testing.T) {
	pool := getPostgresPool(t)
	adapter := NewPostgresAuditAdapter(pool)
	ctx := context.Background()

	snapshot := domain.NewSnapshot(domain.Item{ID: 2, Title: "RPCs for Noobs", Price: 15})
	first, err := adapter.Append(ctx, domain.NewOrderEntry(snapshot, domain.OrderStatusSuccess, time.Now().UTC()))
	require.NoError(t, err)
	second, err := adapter.Append(ctx, domain.NewOrderEntry(snapshot, domain.OrderStatusFailed, time.Now().UTC()))
	require.NoError(t, err)
	require.Greater(t, second, first)

	entries, err := adapter.List(ctx)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(entries), 2)

	for i := 1; i < len(entries); i++ {
		assert.Greater(t, entries[i-1].ID, entries[i].ID, "entries must be ordered by id descending")
	}
	assert.Equal(t, second, entries[0].ID)
	assert.Equal(t, domain.OrderStatusFailed, entries[0].Status)
}

func TestPostgresAudit_RejectsUnknownStatus(t *testing.T) {
	pool := getPostgresPool(t)
	adapter := NewPostgresAuditAdapter(pool)

	entry := domain.NewOrderEntry(domain.NewSnapshot(domain.Item{ID: 3, Title: "x"}), domain.OrderStatus("PENDING"), time.Now().UTC())
	_, err := adapter.Append(context.Background(), entry)
	assert.Error(t, err)
}
