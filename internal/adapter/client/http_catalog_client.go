package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/rl1809/bookstore/internal/core/domain"
)

const maxResponseBytes = 1 << 20

type HTTPCatalogConfig struct {
	BaseURL string
	Timeout time.Duration
	// ReserveUnavailableStatuses are the decrement route answers that mean the
	// store does not offer the reservation primitive.
	ReserveUnavailableStatuses []int
}

// HTTPCatalogClient talks to the catalog service's HTTP surface. Every call is
// bounded by the configured timeout on top of the caller's context.
type HTTPCatalogClient struct {
	baseURL     string
	timeout     time.Duration
	unavailable map[int]struct{}
	httpClient  *http.Client
}

func NewHTTPCatalogClient(cfg HTTPCatalogConfig, httpClient *http.Client) *HTTPCatalogClient {
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	unavailable := make(map[int]struct{}, len(cfg.ReserveUnavailableStatuses))
	for _, s := range cfg.ReserveUnavailableStatuses {
		unavailable[s] = struct{}{}
	}

	return &HTTPCatalogClient{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		timeout:     cfg.Timeout,
		unavailable: unavailable,
		httpClient:  httpClient,
	}
}

type itemPayload struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Topic    string `json:"topic"`
	Price    int64  `json:"price"`
	Quantity int64  `json:"quantity"`
}

type stockPayload struct {
	Quantity int64 `json:"quantity"`
}

type errorPayload struct {
	Error string `json:"error"`
}

func (c *HTTPCatalogClient) Lookup(ctx context.Context, id int64) (*domain.Item, error) {
	var out itemPayload
	status, err := c.do(ctx, "lookup", http.MethodGet, "/info/"+strconv.FormatInt(id, 10), nil, &out)
	if err != nil {
		return nil, err
	}

	switch status {
	case http.StatusOK:
		return &domain.Item{
			ID:       out.ID,
			Title:    out.Title,
			Topic:    domain.Topic(out.Topic),
			Price:    out.Price,
			Quantity: out.Quantity,
		}, nil
	case http.StatusNotFound:
		return nil, domain.ErrItemNotFound
	default:
		return nil, c.statusError("lookup", status)
	}
}

func (c *HTTPCatalogClient) Reserve(ctx context.Context, id int64) (int64, error) {
	var out stockPayload
	status, err := c.do(ctx, "reserve", http.MethodPut, "/stock/decrement/"+strconv.FormatInt(id, 10), nil, &out)
	if err != nil {
		return 0, err
	}

	if _, ok := c.unavailable[status]; ok {
		return 0, domain.ErrReserveUnavailable
	}
	switch status {
	case http.StatusOK:
		return out.Quantity, nil
	case http.StatusConflict:
		return 0, domain.ErrOutOfStock
	case http.StatusNotFound:
		return 0, domain.ErrItemNotFound
	default:
		return 0, c.statusError("reserve", status)
	}
}

func (c *HTTPCatalogClient) Adjust(ctx context.Context, id int64, delta int64) (int64, error) {
	body := map[string]int64{"id": id, "delta": delta}

	var out stockPayload
	status, err := c.do(ctx, "adjust", http.MethodPut, "/update/stock", body, &out)
	if err != nil {
		return 0, err
	}

	switch status {
	case http.StatusOK:
		return out.Quantity, nil
	case http.StatusNotFound:
		return 0, domain.ErrItemNotFound
	case http.StatusConflict:
		return 0, domain.ErrStockConflict
	default:
		return 0, c.statusError("adjust", status)
	}
}

func (c *HTTPCatalogClient) statusError(op string, status int) error {
	return &domain.UpstreamError{Op: op, Status: status, Err: errors.New(http.StatusText(status))}
}

// do sends one request. A transport failure is returned as *domain.UpstreamError;
// any HTTP answer is returned as its status with out filled in on 2xx.
func (c *HTTPCatalogClient) do(ctx context.Context, op, method, path string, body, out any) (int, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("%s: encode body: %w", op, err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	requestID := middleware.GetReqID(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	req.Header.Set(middleware.RequestIDHeader, requestID)
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		upstream := &domain.UpstreamError{Op: op, Err: err}
		if errors.Is(err, context.DeadlineExceeded) {
			upstream.Status = http.StatusGatewayTimeout
		}
		return 0, upstream
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return 0, &domain.UpstreamError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("read body: %w", err)}
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 && out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return 0, &domain.UpstreamError{Op: op, Status: http.StatusBadGateway, Err: fmt.Errorf("decode body: %w", err)}
		}
	}

	return resp.StatusCode, nil
}
