package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/rl1809/bookstore/internal/core/domain"
)

// MemoryInventoryAdapter is a process-local inventory store. A single mutex makes
// every operation atomic, which is all the reservation contract asks for.
type MemoryInventoryAdapter struct {
	mu    sync.Mutex
	items map[int64]domain.Item
}

func NewMemoryInventoryAdapter(items ...domain.Item) *MemoryInventoryAdapter {
	m := &MemoryInventoryAdapter{items: make(map[int64]domain.Item, len(items))}
	for _, item := range items {
		m.items[item.ID] = item
	}
	return m
}

func (m *MemoryInventoryAdapter) GetItem(ctx context.Context, id int64) (*domain.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := m.items[id]
	if !ok {
		return nil, domain.ErrItemNotFound
	}
	return &item, nil
}

func (m *MemoryInventoryAdapter) ReserveItem(ctx context.Context, id int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := m.items[id]
	if !ok {
		return 0, domain.ErrItemNotFound
	}
	if item.Quantity <= 0 {
		return 0, domain.ErrOutOfStock
	}
	item.Quantity--
	m.items[id] = item
	return item.Quantity, nil
}

func (m *MemoryInventoryAdapter) AdjustStock(ctx context.Context, id int64, delta int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := m.items[id]
	if !ok {
		return 0, domain.ErrItemNotFound
	}
	if item.Quantity+delta < 0 {
		return item.Quantity, domain.ErrStockConflict
	}
	item.Quantity += delta
	m.items[id] = item
	return item.Quantity, nil
}

func (m *MemoryInventoryAdapter) UpdatePrice(ctx context.Context, id int64, price int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := m.items[id]
	if !ok {
		return domain.ErrItemNotFound
	}
	item.Price = price
	m.items[id] = item
	return nil
}

func (m *MemoryInventoryAdapter) SearchByTopic(ctx context.Context, topic domain.Topic) ([]domain.ItemSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	items := []domain.ItemSummary{}
	for _, item := range m.items {
		if item.Topic == topic {
			items = append(items, domain.ItemSummary{ID: item.ID, Title: item.Title})
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (m *MemoryInventoryAdapter) SetItem(ctx context.Context, item domain.Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[item.ID] = item
	return nil
}

// MemoryAuditAdapter keeps audit entries in a slice, in insertion order.
type MemoryAuditAdapter struct {
	mu      sync.Mutex
	entries []domain.OrderEntry
}

func NewMemoryAuditAdapter() *MemoryAuditAdapter {
	return &MemoryAuditAdapter{}
}

func (m *MemoryAuditAdapter) Append(ctx context.Context, entry domain.OrderEntry) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry.ID = int64(len(m.entries) + 1)
	m.entries = append(m.entries, entry)
	return entry.ID, nil
}

func (m *MemoryAuditAdapter) List(ctx context.Context) ([]domain.OrderEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]domain.OrderEntry, 0, len(m.entries))
	for i := len(m.entries) - 1; i >= 0; i-- {
		out = append(out, m.entries[i])
	}
	return out, nil
}

func (m *MemoryAuditAdapter) Get(ctx context.Context, id int64) (*domain.OrderEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if id <= 0 || id > int64(len(m.entries)) {
		return nil, domain.ErrOrderNotFound
	}
	entry := m.entries[id-1]
	return &entry, nil
}
