package storage

import (
	"context"
	"fmt"

	"github.com/rl1809/bookstore/internal/core/domain"
)

// DefaultItems is the starter catalog. The MySQL schema migrations insert the same rows.
func DefaultItems() []domain.Item {
	return []domain.Item{
		{ID: 1, Title: "How to get a good grade in DOS in 40 minutes a day", Topic: domain.TopicDistributedSystems, Price: 40, Quantity: 5},
		{ID: 2, Title: "RPCs for Noobs", Topic: domain.TopicDistributedSystems, Price: 50, Quantity: 5},
		{ID: 3, Title: "Xen and the Art of Surviving Undergraduate School", Topic: domain.TopicUndergraduateSchool, Price: 60, Quantity: 5},
		{ID: 4, Title: "Cooking for the Impatient Undergrad", Topic: domain.TopicUndergraduateSchool, Price: 30, Quantity: 5},
	}
}

type itemWriter interface {
	SetItem(ctx context.Context, item domain.Item) error
}

// SeedItems overwrites each item in the store.
func SeedItems(ctx context.Context, store itemWriter, items []domain.Item) error {
	for _, item := range items {
		if err := store.SetItem(ctx, item); err != nil {
			return fmt.Errorf("seed item %d: %w", item.ID, err)
		}
	}
	return nil
}
