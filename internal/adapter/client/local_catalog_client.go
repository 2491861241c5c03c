package client

import (
	"context"

	"github.com/rl1809/bookstore/internal/core/domain"
	"github.com/rl1809/bookstore/internal/core/service"
)

// LocalCatalogClient calls an in-process inventory service. Used when both sides run
// in one binary, as in tests and the stress tool.
type LocalCatalogClient struct {
	inventory *service.InventoryService
}

func NewLocalCatalogClient(inventory *service.InventoryService) *LocalCatalogClient {
	return &LocalCatalogClient{inventory: inventory}
}

func (c *LocalCatalogClient) Lookup(ctx context.Context, id int64) (*domain.Item, error) {
	return c.inventory.Lookup(ctx, id)
}

func (c *LocalCatalogClient) Reserve(ctx context.Context, id int64) (int64, error) {
	return c.inventory.Reserve(ctx, id)
}

func (c *LocalCatalogClient) Adjust(ctx context.Context, id int64, delta int64) (int64, error) {
	return c.inventory.Adjust(ctx, id, delta)
}
