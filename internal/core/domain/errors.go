package domain

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrValidation     = errors.New("validation failed")
	ErrInvalidItemID  = fmt.Errorf("%w: invalid item id", ErrValidation)
	ErrInvalidOrderID = fmt.Errorf("%w: invalid order id", ErrValidation)
	ErrInvalidPrice   = fmt.Errorf("%w: invalid price", ErrValidation)
	ErrInvalidTopic   = fmt.Errorf("%w: invalid topic", ErrValidation)
	ErrInvalidDelta   = fmt.Errorf("%w: invalid delta", ErrValidation)

	ErrItemNotFound  = errors.New("item not found")
	ErrOrderNotFound = errors.New("order not found")

	ErrOutOfStock    = errors.New("out of stock")
	ErrStockConflict = errors.New("stock would go negative")

	// ErrReserveUnavailable signals that the inventory store does not offer the
	// atomic reservation primitive. It is distinct from ErrOutOfStock.
	ErrReserveUnavailable = errors.New("reservation primitive unavailable")

	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)

// UpstreamError is a downstream call that failed outside the known error taxonomy.
// Status is the HTTP status the upstream answered with, or 0 when no response arrived.
type UpstreamError struct {
	Op     string
	Status int
	Err    error
}

func (e *UpstreamError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: upstream status %d: %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() []error {
	return []error{ErrUpstreamUnavailable, e.Err}
}

// HTTPStatus maps an error from the taxonomy onto the status code a service answers with.
func HTTPStatus(err error) int {
	var upstream *UpstreamError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrItemNotFound), errors.Is(err, ErrOrderNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrOutOfStock), errors.Is(err, ErrStockConflict):
		return http.StatusConflict
	case errors.Is(err, ErrReserveUnavailable):
		return http.StatusNotImplemented
	case errors.As(err, &upstream):
		if upstream.Status != 0 {
			return upstream.Status
		}
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
