package port

import (
	"context"

	"github.com/rl1809/bookstore/internal/core/domain"
)

type InventoryRepository interface {
	// GetItem returns domain.ErrItemNotFound when the id is unknown
	GetItem(ctx context.Context, id int64) (*domain.Item, error)

	// ReserveItem atomically decrements quantity by one only if it is positive.
	// The check and the write must not be separable by a concurrent call on the same id.
	ReserveItem(ctx context.Context, id int64) (int64, error)

	// AdjustStock applies quantity += delta, rejecting results below zero with domain.ErrStockConflict
	AdjustStock(ctx context.Context, id int64, delta int64) (int64, error)

	// UpdatePrice overwrites the current price
	UpdatePrice(ctx context.Context, id int64, price int64) error

	// SearchByTopic lists id/title pairs for a topic ordered by id
	SearchByTopic(ctx context.Context, topic domain.Topic) ([]domain.ItemSummary, error)
}
