package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/rl1809/bookstore/internal/core/domain"
	"github.com/rl1809/bookstore/internal/port"
)

const defaultAuditTimeout = 5 * time.Second

type PurchaseResult struct {
	OrderID int64
	ItemID  int64
	Title   string
	Price   int64
	Status  domain.OrderStatus
}

// OrderService orchestrates a purchase against the catalog and records the outcome
// in the audit log. It is not idempotent: every call is an independent attempt.
type OrderService struct {
	catalog      port.CatalogClient
	audit        port.AuditRepository
	logger       *slog.Logger
	tracer       trace.Tracer
	fallback     bool
	auditTimeout time.Duration
	now          func() time.Time
}

type OrderOption func(*OrderService)

// WithFallback controls whether an unavailable reservation primitive degrades to the
// non-atomic lookup+adjust path. Enabled by default.
func WithFallback(enabled bool) OrderOption {
	return func(s *OrderService) {
		s.fallback = enabled
	}
}

func WithAuditTimeout(d time.Duration) OrderOption {
	return func(s *OrderService) {
		if d > 0 {
			s.auditTimeout = d
		}
	}
}

func WithOrderLogger(logger *slog.Logger) OrderOption {
	return func(s *OrderService) {
		s.logger = logger
	}
}

func WithClock(now func() time.Time) OrderOption {
	return func(s *OrderService) {
		s.now = now
	}
}

func NewOrderService(catalog port.CatalogClient, audit port.AuditRepository, opts ...OrderOption) *OrderService {
	s := &OrderService{
		catalog:      catalog,
		audit:        audit,
		logger:       slog.Default(),
		tracer:       otel.Tracer("order-service"),
		fallback:     true,
		auditTimeout: defaultAuditTimeout,
		now:          func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Purchase runs one purchase attempt for itemID. Validation and unknown items return
// before anything is written; every other outcome appends exactly one audit entry.
// When the attempt was recorded the result is returned even if err is non-nil, so
// callers can report the order id of a failed attempt.
func (s *OrderService) Purchase(ctx context.Context, itemID int64) (result *PurchaseResult, err error) {
	if itemID <= 0 {
		return nil, domain.ErrInvalidItemID
	}

	attemptID := uuid.NewString()
	ctx, span := s.tracer.Start(ctx, "OrderService.Purchase", trace.WithAttributes(
		attribute.Int64("item.id", itemID),
		attribute.String("purchase.attempt_id", attemptID),
	))
	defer func() { endSpan(span, err) }()

	log := s.logger.With("attempt_id", attemptID, "item_id", itemID)

	item, err := s.catalog.Lookup(ctx, itemID)
	if err != nil {
		if errors.Is(err, domain.ErrItemNotFound) {
			log.Info("Purchase rejected, item not found")
			return nil, err
		}
		log.Error("Catalog lookup failed", "error", err)
		return nil, fmt.Errorf("lookup item %d: %w", itemID, err)
	}
	snapshot := domain.NewSnapshot(*item)

	reserveErr := s.reserve(ctx, log, itemID, item.Quantity)

	status := domain.OrderStatusSuccess
	if reserveErr != nil {
		status = domain.OrderStatusFailed
	}
	span.SetAttributes(attribute.String("purchase.status", string(status)))

	result, err = s.record(ctx, snapshot, status)
	if err != nil {
		log.Error("Audit append failed, stock change is not compensated",
			"status", status, "error", err)
		return nil, err
	}

	if reserveErr != nil {
		log.Info("Purchase failed", "order_id", result.OrderID, "error", reserveErr)
		return result, reserveErr
	}

	log.Info("Purchase succeeded", "order_id", result.OrderID, "price", result.Price)
	return result, nil
}

func (s *OrderService) reserve(ctx context.Context, log *slog.Logger, itemID, observedQuantity int64) error {
	_, err := s.catalog.Reserve(ctx, itemID)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrReserveUnavailable):
		if !s.fallback {
			log.Warn("Reservation primitive unavailable and fallback disabled")
			return err
		}
		log.Warn("Reservation primitive unavailable, falling back to adjust",
			"observed_quantity", observedQuantity)
		return s.fallbackAdjust(ctx, itemID, observedQuantity)
	case errors.Is(err, domain.ErrOutOfStock):
		return err
	default:
		log.Error("Reservation failed", "error", err)
		return err
	}
}

// fallbackAdjust is the degraded path. observedQuantity was read by the lookup and can be
// stale by the time Adjust runs: another attempt on the same item may decrement it in
// between, and both attempts then pass the check below. The store still refuses to go
// below zero, but the decision to adjust is taken on old data.
func (s *OrderService) fallbackAdjust(ctx context.Context, itemID, observedQuantity int64) error {
	if observedQuantity <= 0 {
		return domain.ErrOutOfStock
	}

	_, err := s.catalog.Adjust(ctx, itemID, -1)
	return err
}

// record appends the audit entry on a context detached from the caller, so an attempt
// whose stock change already happened is still recorded if the client goes away.
func (s *OrderService) record(ctx context.Context, snapshot domain.Snapshot, status domain.OrderStatus) (*PurchaseResult, error) {
	auditCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.auditTimeout)
	defer cancel()

	entry := domain.NewOrderEntry(snapshot, status, s.now())
	id, err := s.audit.Append(auditCtx, entry)
	if err != nil {
		return nil, fmt.Errorf("append audit entry: %w", err)
	}

	return &PurchaseResult{
		OrderID: id,
		ItemID:  entry.ItemID,
		Title:   entry.Title,
		Price:   entry.Price,
		Status:  entry.Status,
	}, nil
}

func (s *OrderService) ListOrders(ctx context.Context) ([]domain.OrderEntry, error) {
	orders, err := s.audit.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	if orders == nil {
		orders = []domain.OrderEntry{}
	}
	return orders, nil
}

func (s *OrderService) GetOrder(ctx context.Context, id int64) (*domain.OrderEntry, error) {
	if id <= 0 {
		return nil, domain.ErrInvalidOrderID
	}
	return s.audit.Get(ctx, id)
}
