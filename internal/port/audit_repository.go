package port

import (
	"context"

	"github.com/rl1809/bookstore/internal/core/domain"
)

// AuditRepository is insert-only. There is deliberately no update or delete.
type AuditRepository interface {
	// Append stores the entry and returns the assigned id
	Append(ctx context.Context, entry domain.OrderEntry) (int64, error)

	// List returns every entry, most recent first
	List(ctx context.Context) ([]domain.OrderEntry, error)

	// Get returns domain.ErrOrderNotFound when the id is unknown
	Get(ctx context.Context, id int64) (*domain.OrderEntry, error)
}
