package domain

import (
	"fmt"
	"time"
)

type OrderStatus string

const (
	OrderStatusSuccess OrderStatus = "SUCCESS"
	OrderStatusFailed  OrderStatus = "FAILED"
)

func ParseOrderStatus(s string) (OrderStatus, error) {
	switch OrderStatus(s) {
	case OrderStatusSuccess, OrderStatusFailed:
		return OrderStatus(s), nil
	default:
		return "", fmt.Errorf("unknown order status %q", s)
	}
}

// Snapshot holds the item fields copied at purchase time. Audit entries are built
// from it and never re-read from the live item.
type Snapshot struct {
	itemID int64
	title  string
	price  int64
}

func NewSnapshot(item Item) Snapshot {
	return Snapshot{itemID: item.ID, title: item.Title, price: item.Price}
}

func (s Snapshot) ItemID() int64 { return s.itemID }
func (s Snapshot) Title() string { return s.title }
func (s Snapshot) Price() int64  { return s.price }

// OrderEntry is one row of the audit log. Entries are insert-only.
type OrderEntry struct {
	ID        int64
	ItemID    int64
	Title     string
	Price     int64
	Status    OrderStatus
	CreatedAt time.Time
}

func NewOrderEntry(snapshot Snapshot, status OrderStatus, createdAt time.Time) OrderEntry {
	return OrderEntry{
		ItemID:    snapshot.itemID,
		Title:     snapshot.title,
		Price:     snapshot.price,
		Status:    status,
		CreatedAt: createdAt,
	}
}
