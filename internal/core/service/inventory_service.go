package service

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/rl1809/bookstore/internal/core/domain"
	"github.com/rl1809/bookstore/internal/port"
)

// InventoryService validates requests against the inventory store. It owns no state;
// every guarantee about quantities comes from the repository.
type InventoryService struct {
	repo           port.InventoryRepository
	logger         *slog.Logger
	tracer         trace.Tracer
	reserveEnabled bool
}

type InventoryOption func(*InventoryService)

// WithReservation turns the atomic reservation primitive on or off. When off, Reserve
// answers domain.ErrReserveUnavailable, which callers treat as "primitive not offered".
func WithReservation(enabled bool) InventoryOption {
	return func(s *InventoryService) {
		s.reserveEnabled = enabled
	}
}

func WithInventoryLogger(logger *slog.Logger) InventoryOption {
	return func(s *InventoryService) {
		s.logger = logger
	}
}

func NewInventoryService(repo port.InventoryRepository, opts ...InventoryOption) *InventoryService {
	s := &InventoryService{
		repo:           repo,
		logger:         slog.Default(),
		tracer:         otel.Tracer("inventory-service"),
		reserveEnabled: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *InventoryService) Lookup(ctx context.Context, id int64) (item *domain.Item, err error) {
	if id <= 0 {
		return nil, domain.ErrInvalidItemID
	}

	ctx, span := s.tracer.Start(ctx, "InventoryService.Lookup",
		trace.WithAttributes(attribute.Int64("item.id", id)))
	defer func() { endSpan(span, err) }()

	return s.repo.GetItem(ctx, id)
}

func (s *InventoryService) Reserve(ctx context.Context, id int64) (remaining int64, err error) {
	if id <= 0 {
		return 0, domain.ErrInvalidItemID
	}
	if !s.reserveEnabled {
		return 0, domain.ErrReserveUnavailable
	}

	ctx, span := s.tracer.Start(ctx, "InventoryService.Reserve",
		trace.WithAttributes(attribute.Int64("item.id", id)))
	defer func() { endSpan(span, err) }()

	remaining, err = s.repo.ReserveItem(ctx, id)
	switch {
	case err == nil:
		s.logger.Info("Item reserved", "item_id", id, "remaining", remaining)
	case errors.Is(err, domain.ErrOutOfStock):
		s.logger.Info("Reservation refused, out of stock", "item_id", id)
	case errors.Is(err, domain.ErrItemNotFound):
	default:
		s.logger.Error("Reservation failed", "item_id", id, "error", err)
	}

	return remaining, err
}

func (s *InventoryService) Adjust(ctx context.Context, id int64, delta int64) (quantity int64, err error) {
	if id <= 0 {
		return 0, domain.ErrInvalidItemID
	}

	ctx, span := s.tracer.Start(ctx, "InventoryService.Adjust",
		trace.WithAttributes(attribute.Int64("item.id", id), attribute.Int64("stock.delta", delta)))
	defer func() { endSpan(span, err) }()

	quantity, err = s.repo.AdjustStock(ctx, id, delta)
	switch {
	case err == nil:
		s.logger.Info("Stock adjusted", "item_id", id, "delta", delta, "quantity", quantity)
	case errors.Is(err, domain.ErrStockConflict):
		s.logger.Info("Stock adjustment refused", "item_id", id, "delta", delta)
	case errors.Is(err, domain.ErrItemNotFound):
	default:
		s.logger.Error("Stock adjustment failed", "item_id", id, "error", err)
	}

	return quantity, err
}

func (s *InventoryService) SetPrice(ctx context.Context, id int64, price int64) (err error) {
	if id <= 0 {
		return domain.ErrInvalidItemID
	}
	if price < 0 {
		return domain.ErrInvalidPrice
	}

	ctx, span := s.tracer.Start(ctx, "InventoryService.SetPrice",
		trace.WithAttributes(attribute.Int64("item.id", id), attribute.Int64("item.price", price)))
	defer func() { endSpan(span, err) }()

	if err = s.repo.UpdatePrice(ctx, id, price); err != nil {
		return err
	}
	s.logger.Info("Price updated", "item_id", id, "price", price)
	return nil
}

func (s *InventoryService) Search(ctx context.Context, rawTopic string) (items []domain.ItemSummary, err error) {
	topic, err := domain.ParseTopic(rawTopic)
	if err != nil {
		return nil, err
	}

	ctx, span := s.tracer.Start(ctx, "InventoryService.Search",
		trace.WithAttributes(attribute.String("item.topic", topic.String())))
	defer func() { endSpan(span, err) }()

	items, err = s.repo.SearchByTopic(ctx, topic)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.ItemSummary{}
	}
	return items, nil
}
