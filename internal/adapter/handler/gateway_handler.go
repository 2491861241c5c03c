package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/rl1809/bookstore/internal/core/domain"
)

// GatewayHandler is the public entry point. It validates path ids and forwards
// requests unchanged to the catalog and order services.
type GatewayHandler struct {
	catalogURL *url.URL
	orderURL   *url.URL
	catalog    *httputil.ReverseProxy
	order      *httputil.ReverseProxy
}

func NewGatewayHandler(catalogBaseURL, orderBaseURL string, timeout time.Duration) (*GatewayHandler, error) {
	catalogURL, err := url.Parse(catalogBaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse catalog url: %w", err)
	}
	orderURL, err := url.Parse(orderBaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse order url: %w", err)
	}

	return &GatewayHandler{
		catalogURL: catalogURL,
		orderURL:   orderURL,
		catalog:    newProxy(catalogURL, timeout),
		order:      newProxy(orderURL, timeout),
	}, nil
}

func newProxy(target *url.URL, timeout time.Duration) *httputil.ReverseProxy {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.ResponseHeaderTimeout = timeout

	return &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(target)
			pr.SetXForwarded()
			if id := middleware.GetReqID(pr.In.Context()); id != "" {
				pr.Out.Header.Set(middleware.RequestIDHeader, id)
			}
			otel.GetTextMapPropagator().Inject(pr.In.Context(), propagation.HeaderCarrier(pr.Out.Header))
		},
		Transport: transport,
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			slog.ErrorContext(r.Context(), "Upstream request failed",
				"upstream", target.Host, "path", r.URL.Path, "error", err)
			writeJSON(w, http.StatusBadGateway, errorResponse{Error: "upstream unavailable"})
		},
	}
}

func (h *GatewayHandler) RegisterRoutes(r chi.Router) {
	r.Get("/health", h.Health)
	r.Get("/search/{topic}", h.catalog.ServeHTTP)
	r.Get("/info/{id}", h.withValidID(domain.ErrInvalidItemID, h.catalog))
	r.Post("/purchase/{id}", h.withValidID(domain.ErrInvalidItemID, h.order))
	r.Get("/orders", h.order.ServeHTTP)
	r.Get("/orders/{id}", h.withValidID(domain.ErrInvalidOrderID, h.order))
}

func (h *GatewayHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"catalog": h.catalogURL.String(),
		"order":   h.orderURL.String(),
	})
}

func (h *GatewayHandler) withValidID(invalid error, next http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := pathID(r, "id", invalid); err != nil {
			writeError(w, r, err)
			return
		}
		next.ServeHTTP(w, r)
	}
}
