package service

import (
	"context"
	"sort"
	"sync"

	"github.com/rl1809/bookstore/internal/core/domain"
)

// Mock InventoryRepository
type mockInventoryRepo struct {
	mu    sync.Mutex
	items map[int64]domain.Item
	err   error
}

func newMockInventoryRepo(items ...domain.Item) *mockInventoryRepo {
	m := &mockInventoryRepo{items: make(map[int64]domain.Item)}
	for _, item := range items {
		m.items[item.ID] = item
	}
	return m
}

func (m *mockInventoryRepo) GetItem(ctx context.Context, id int64) (*domain.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return nil, m.err
	}
	item, ok := m.items[id]
	if !ok {
		return nil, domain.ErrItemNotFound
	}
	return &item, nil
}

func (m *mockInventoryRepo) ReserveItem(ctx context.Context, id int64) (int64, error) {
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

func (m *mockInventoryRepo) AdjustStock(ctx context.Context, id int64, delta int64) (int64, error) {
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

func (m *mockInventoryRepo) UpdatePrice(ctx context.Context, id int64, price int64) error {
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

func (m *mockInventoryRepo) SearchByTopic(ctx context.Context, topic domain.Topic) ([]domain.ItemSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []domain.ItemSummary
	for _, item := range m.items {
		if item.Topic == topic {
			out = append(out, domain.ItemSummary{ID: item.ID, Title: item.Title})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockInventoryRepo) quantity(id int64) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.items[id].Quantity
}

// Mock CatalogClient backed by the in-memory repo. Reservation can be switched off
// and individual calls can be forced to fail.
type mockCatalog struct {
	repo *mockInventoryRepo

	mu                 sync.Mutex
	reserveUnavailable bool
	lookupErr          error
	reserveErr         error
	adjustErr          error
	reserveCalls       int
	adjustCalls        int
	adjustDeltas       []int64
}

func newMockCatalog(items ...domain.Item) *mockCatalog {
	return &mockCatalog{repo: newMockInventoryRepo(items...)}
}

func (m *mockCatalog) Lookup(ctx context.Context, id int64) (*domain.Item, error) {
	m.mu.Lock()
	err := m.lookupErr
	m.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return m.repo.GetItem(ctx, id)
}

func (m *mockCatalog) Reserve(ctx context.Context, id int64) (int64, error) {
	m.mu.Lock()
	m.reserveCalls++
	unavailable, err := m.reserveUnavailable, m.reserveErr
	m.mu.Unlock()

	if unavailable {
		return 0, domain.ErrReserveUnavailable
	}
	if err != nil {
		return 0, err
	}
	return m.repo.ReserveItem(ctx, id)
}

func (m *mockCatalog) Adjust(ctx context.Context, id int64, delta int64) (int64, error) {
	m.mu.Lock()
	m.adjustCalls++
	m.adjustDeltas = append(m.adjustDeltas, delta)
	err := m.adjustErr
	m.mu.Unlock()

	if err != nil {
		return 0, err
	}
	return m.repo.AdjustStock(ctx, id, delta)
}

// Mock AuditRepository
type mockAudit struct {
	mu         sync.Mutex
	entries    []domain.OrderEntry
	appendErr  error
	ctxErrSeen []error
}

func (m *mockAudit) Append(ctx context.Context, entry domain.OrderEntry) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ctxErrSeen = append(m.ctxErrSeen, ctx.Err())
	if m.appendErr != nil {
		return 0, m.appendErr
	}
	entry.ID = int64(len(m.entries) + 1)
	m.entries = append(m.entries, entry)
	return entry.ID, nil
}

func (m *mockAudit) List(ctx context.Context) ([]domain.OrderEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]domain.OrderEntry, 0, len(m.entries))
	for i := len(m.entries) - 1; i >= 0; i-- {
		out = append(out, m.entries[i])
	}
	return out, nil
}

func (m *mockAudit) Get(ctx context.Context, id int64) (*domain.OrderEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, e := range m.entries {
		if e.ID == id {
			return &e, nil
		}
	}
	return nil, domain.ErrOrderNotFound
}

func (m *mockAudit) snapshot() []domain.OrderEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.OrderEntry(nil), m.entries...)
}
