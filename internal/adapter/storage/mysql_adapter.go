package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rl1809/bookstore/internal/core/domain"
)

type MySQLAdapter struct {
	db *sql.DB
}

func NewMySQLAdapter(db *sql.DB) *MySQLAdapter {
	return &MySQLAdapter{db: db}
}

func (m *MySQLAdapter) GetItem(ctx context.Context, id int64) (*domain.Item, error) {
	var item domain.Item
	var topic string
	err := m.db.QueryRowContext(ctx, `
		SELECT id, title, topic, price, quantity
		FROM items WHERE id = ?`, id,
	).Scan(&item.ID, &item.Title, &topic, &item.Price, &item.Quantity)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query item: %w", err)
	}

	item.Topic = domain.Topic(topic)
	return &item, nil
}

// ReserveItem relies on the conditional UPDATE: the row lock it takes makes the
// quantity check and the decrement one step for concurrent callers.
func (m *MySQLAdapter) ReserveItem(ctx context.Context, id int64) (int64, error) {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		UPDATE items
		SET quantity = quantity - 1
		WHERE id = ? AND quantity > 0`, id,
	)
	if err != nil {
		return 0, fmt.Errorf("reserve item: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		found, err := itemExists(ctx, tx, id)
		if err != nil {
			return 0, err
		}
		if !found {
			return 0, domain.ErrItemNotFound
		}
		return 0, domain.ErrOutOfStock
	}

	var remaining int64
	if err := tx.QueryRowContext(ctx, `SELECT quantity FROM items WHERE id = ?`, id).Scan(&remaining); err != nil {
		return 0, fmt.Errorf("read quantity: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return remaining, nil
}

func (m *MySQLAdapter) AdjustStock(ctx context.Context, id int64, delta int64) (int64, error) {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var quantity int64
	err = tx.QueryRowContext(ctx, `SELECT quantity FROM items WHERE id = ? FOR UPDATE`, id).Scan(&quantity)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, domain.ErrItemNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("lock item: %w", err)
	}

	if quantity+delta < 0 {
		return quantity, domain.ErrStockConflict
	}
	if delta == 0 {
		return quantity, nil
	}

	if _, err := tx.ExecContext(ctx, `UPDATE items SET quantity = ? WHERE id = ?`, quantity+delta, id); err != nil {
		return 0, fmt.Errorf("update quantity: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return quantity + delta, nil
}

func (m *MySQLAdapter) UpdatePrice(ctx context.Context, id int64, price int64) error {
	result, err := m.db.ExecContext(ctx, `UPDATE items SET price = ? WHERE id = ?`, price, id)
	if err != nil {
		return fmt.Errorf("update price: %w", err)
	}

	// MySQL reports zero affected rows when the price did not change.
	rows, _ := result.RowsAffected()
	if rows == 0 {
		found, err := itemExists(ctx, m.db, id)
		if err != nil {
			return err
		}
		if !found {
			return domain.ErrItemNotFound
		}
	}

	return nil
}

func (m *MySQLAdapter) SearchByTopic(ctx context.Context, topic domain.Topic) ([]domain.ItemSummary, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT id, title FROM items
		WHERE topic = ?
		ORDER BY id`, topic.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("search items: %w", err)
	}
	defer rows.Close()

	items := []domain.ItemSummary{}
	for rows.Next() {
		var s domain.ItemSummary
		if err := rows.Scan(&s.ID, &s.Title); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate items: %w", err)
	}

	return items, nil
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func itemExists(ctx context.Context, q queryRower, id int64) (bool, error) {
	var found bool
	if err := q.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM items WHERE id = ?)`, id).Scan(&found); err != nil {
		return false, fmt.Errorf("probe item: %w", err)
	}
	return found, nil
}
