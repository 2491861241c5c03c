package port

import (
	"context"

	"github.com/rl1809/bookstore/internal/core/domain"
)

// CatalogClient is the orchestrator's view of the inventory store. Implementations
// translate their transport failures into the domain error taxonomy; anything they
// cannot classify is returned as *domain.UpstreamError.
type CatalogClient interface {
	Lookup(ctx context.Context, id int64) (*domain.Item, error)

	// Reserve returns domain.ErrReserveUnavailable when the store does not expose the primitive
	Reserve(ctx context.Context, id int64) (int64, error)

	Adjust(ctx context.Context, id int64, delta int64) (int64, error)
}
