package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/rl1809/bookstore/internal/adapter/client"
	"github.com/rl1809/bookstore/internal/adapter/storage"
	"github.com/rl1809/bookstore/internal/config"
	"github.com/rl1809/bookstore/internal/core/domain"
	"github.com/rl1809/bookstore/internal/core/service"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func seedItems() []domain.Item {
	return []domain.Item{
		{ID: 1, Title: "How to get a good grade in 677 in 20 minutes a day", Topic: domain.TopicDistributedSystems, Price: 40, Quantity: 5},
		{ID: 2, Title: "RPCs for Noobs", Topic: domain.TopicDistributedSystems, Price: 15, Quantity: 0},
		{ID: 3, Title: "Xen and the Art of Surviving Undergraduate School", Topic: domain.TopicUndergraduateSchool, Price: 30, Quantity: 1},
	}
}

type testStack struct {
	router *chi.Mux
	repo   *storage.MemoryInventoryAdapter
	audit  *storage.MemoryAuditAdapter
}

// newCatalogStack serves the catalog routes over an in-memory store.
func newCatalogStack(t *testing.T, opts ...service.InventoryOption) *testStack {
	t.Helper()

	repo := storage.NewMemoryInventoryAdapter(seedItems()...)
	opts = append([]service.InventoryOption{service.WithInventoryLogger(quietLogger())}, opts...)
	inventory := service.NewInventoryService(repo, opts...)

	router := NewRouter("catalog-test", config.CORSConfig{AllowedOrigins: []string{"*"}})
	NewCatalogHandler(inventory).RegisterRoutes(router)
	return &testStack{router: router, repo: repo}
}

// newOrderStack serves the order routes with the catalog linked in-process.
func newOrderStack(t *testing.T, inventoryOpts []service.InventoryOption, orderOpts ...service.OrderOption) *testStack {
	t.Helper()

	repo := storage.NewMemoryInventoryAdapter(seedItems()...)
	inventoryOpts = append([]service.InventoryOption{service.WithInventoryLogger(quietLogger())}, inventoryOpts...)
	inventory := service.NewInventoryService(repo, inventoryOpts...)

	audit := storage.NewMemoryAuditAdapter()
	orderOpts = append([]service.OrderOption{service.WithOrderLogger(quietLogger())}, orderOpts...)
	orders := service.NewOrderService(client.NewLocalCatalogClient(inventory), audit, orderOpts...)

	router := NewRouter("order-test", config.CORSConfig{AllowedOrigins: []string{"*"}})
	NewOrderHandler(orders).RegisterRoutes(router)
	return &testStack{router: router, repo: repo, audit: audit}
}

func doRequest(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}
