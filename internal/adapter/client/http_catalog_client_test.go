package client

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rl1809/bookstore/internal/adapter/handler"
	"github.com/rl1809/bookstore/internal/adapter/storage"
	"github.com/rl1809/bookstore/internal/config"
	"github.com/rl1809/bookstore/internal/core/domain"
	"github.com/rl1809/bookstore/internal/core/service"
)

var defaultUnavailable = []int{http.StatusNotFound, http.StatusMethodNotAllowed, http.StatusNotImplemented}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newCatalogServer(t *testing.T, reserveEnabled bool, items ...domain.Item) (*httptest.Server, *storage.MemoryInventoryAdapter) {
	t.Helper()

	repo := storage.NewMemoryInventoryAdapter(items...)
	inventory := service.NewInventoryService(repo,
		service.WithInventoryLogger(quietLogger()),
		service.WithReservation(reserveEnabled),
	)

	router := handler.NewRouter("catalog-test", config.CORSConfig{AllowedOrigins: []string{"*"}})
	handler.NewCatalogHandler(inventory).RegisterRoutes(router)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv, repo
}

func newHTTPClient(baseURL string, statuses []int) *HTTPCatalogClient {
	return NewHTTPCatalogClient(HTTPCatalogConfig{
		BaseURL:                    baseURL,
		Timeout:                    2 * time.Second,
		ReserveUnavailableStatuses: statuses,
	}, nil)
}

func TestHTTPCatalogClient_AgainstCatalog(t *testing.T) {
	srv, repo := newCatalogServer(t, true,
		domain.Item{ID: 1, Title: "How to get a good grade in 677 in 20 minutes a day", Topic: domain.TopicDistributedSystems, Price: 40, Quantity: 1},
	)
	c := newHTTPClient(srv.URL, defaultUnavailable)
	ctx := context.Background()

	item, err := c.Lookup(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(40), item.Price)
	assert.Equal(t, domain.TopicDistributedSystems, item.Topic)

	_, err = c.Lookup(ctx, 99)
	assert.ErrorIs(t, err, domain.ErrItemNotFound)

	remaining, err := c.Reserve(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(0), remaining)

	_, err = c.Reserve(ctx, 1)
	assert.ErrorIs(t, err, domain.ErrOutOfStock)

	_, err = c.Adjust(ctx, 1, -1)
	assert.ErrorIs(t, err, domain.ErrStockConflict)

	quantity, err := c.Adjust(ctx, 1, 4)
	require.NoError(t, err)
	assert.Equal(t, int64(4), quantity)

	stored, _ := repo.GetItem(ctx, 1)
	assert.Equal(t, int64(4), stored.Quantity)
}

func TestHTTPCatalogClient_ReserveDisabledIsUnavailable(t *testing.T) {
	srv, repo := newCatalogServer(t, false, domain.Item{ID: 1, Title: "t", Topic: domain.TopicDistributedSystems, Quantity: 3})
	c := newHTTPClient(srv.URL, defaultUnavailable)

	_, err := c.Reserve(context.Background(), 1)
	assert.ErrorIs(t, err, domain.ErrReserveUnavailable)

	stored, _ := repo.GetItem(context.Background(), 1)
	assert.Equal(t, int64(3), stored.Quantity)
}

func TestHTTPCatalogClient_ReserveStatusMapping(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		statuses []int
		wantErr  error
		upstream int
	}{
		{name: "not implemented", status: http.StatusNotImplemented, statuses: defaultUnavailable, wantErr: domain.ErrReserveUnavailable},
		{name: "method not allowed", status: http.StatusMethodNotAllowed, statuses: defaultUnavailable, wantErr: domain.ErrReserveUnavailable},
		{name: "404 configured as unavailable", status: http.StatusNotFound, statuses: defaultUnavailable, wantErr: domain.ErrReserveUnavailable},
		{name: "404 not configured", status: http.StatusNotFound, statuses: []int{http.StatusNotImplemented}, wantErr: domain.ErrItemNotFound},
		{name: "conflict", status: http.StatusConflict, statuses: defaultUnavailable, wantErr: domain.ErrOutOfStock},
		{name: "server error", status: http.StatusServiceUnavailable, statuses: defaultUnavailable, wantErr: domain.ErrUpstreamUnavailable, upstream: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := chi.NewRouter()
			r.Put("/stock/decrement/{id}", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			})
			srv := httptest.NewServer(r)
			defer srv.Close()

			_, err := newHTTPClient(srv.URL, tt.statuses).Reserve(context.Background(), 1)
			require.ErrorIs(t, err, tt.wantErr)
			if tt.upstream != 0 {
				assert.Equal(t, tt.upstream, domain.HTTPStatus(err))
			}
		})
	}
}

func TestHTTPCatalogClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c := NewHTTPCatalogClient(HTTPCatalogConfig{BaseURL: srv.URL, Timeout: 50 * time.Millisecond}, nil)

	start := time.Now()
	_, err := c.Lookup(context.Background(), 1)
	require.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
	assert.Equal(t, http.StatusGatewayTimeout, domain.HTTPStatus(err))
	assert.Less(t, time.Since(start), time.Second)
}

func TestHTTPCatalogClient_ForwardsRequestID(t *testing.T) {
	var seen atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen.Store(r.Header.Get("X-Request-Id"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":1,"title":"t","topic":"distributed-systems","price":1,"quantity":1}`))
	}))
	defer srv.Close()

	_, err := newHTTPClient(srv.URL, nil).Lookup(context.Background(), 1)
	require.NoError(t, err)
	assert.NotEmpty(t, seen.Load())
}
