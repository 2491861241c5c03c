package storage

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rl1809/bookstore/internal/core/domain"
)

const ordersTable = "orders"

var orderColumns = []string{"id", "item_id", "title", "price", "status", "created_at"}

// PostgresAuditAdapter stores purchase attempts. It only inserts and reads.
type PostgresAuditAdapter struct {
	pool *pgxpool.Pool
}

func NewPostgresAuditAdapter(pool *pgxpool.Pool) *PostgresAuditAdapter {
	return &PostgresAuditAdapter{pool: pool}
}

func (p *PostgresAuditAdapter) Append(ctx context.Context, entry domain.OrderEntry) (int64, error) {
	query, args, err := sq.Insert(ordersTable).
		Columns("item_id", "title", "price", "status", "created_at").
		Values(entry.ItemID, entry.Title, entry.Price, string(entry.Status), entry.CreatedAt).
		Suffix("RETURNING id").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build insert query: %w", err)
	}

	var id int64
	if err := p.pool.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("insert order: %w", err)
	}
	return id, nil
}

func (p *PostgresAuditAdapter) List(ctx context.Context) ([]domain.OrderEntry, error) {
	query, args, err := sq.Select(orderColumns...).
		From(ordersTable).
		OrderBy("id DESC").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select query: %w", err)
	}

	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	entries := []domain.OrderEntry{}
	for rows.Next() {
		entry, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}

	return entries, nil
}

func (p *PostgresAuditAdapter) Get(ctx context.Context, id int64) (*domain.OrderEntry, error) {
	query, args, err := sq.Select(orderColumns...).
		From(ordersTable).
		Where(sq.Eq{"id": id}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select query: %w", err)
	}

	entry, err := scanOrder(p.pool.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrOrderNotFound
	}
	return entry, err
}

func scanOrder(row pgx.Row) (*domain.OrderEntry, error) {
	var entry domain.OrderEntry
	var status string
	err := row.Scan(&entry.ID, &entry.ItemID, &entry.Title, &entry.Price, &status, &entry.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scan order: %w", err)
	}

	entry.Status, err = domain.ParseOrderStatus(status)
	if err != nil {
		return nil, err
	}
	entry.CreatedAt = entry.CreatedAt.UTC()
	return &entry, nil
}
