package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/rl1809/bookstore/internal/config"
	"github.com/rl1809/bookstore/internal/core/domain"
)

// NewRouter builds the chi router shared by every service: request ids, trace
// extraction, access logging, panic recovery and CORS, in that order.
func NewRouter(serviceName string, corsCfg config.CORSConfig) *chi.Mux {
	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(NewTraceMiddleware(serviceName))
	router.Use(NewLoggerMiddleware(slog.Default()))
	router.Use(middleware.Recoverer)

	c := cors.New(cors.Options{
		AllowedOrigins: corsCfg.AllowedOrigins,
		AllowedMethods: corsCfg.AllowedMethods,
		AllowedHeaders: corsCfg.AllowedHeaders,
		MaxAge:         300,
	})
	router.Use(c.Handler)

	return router
}

type errorResponse struct {
	Error   string `json:"error"`
	OrderID *int64 `json:"order_id,omitempty"`
}

func HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	writeErrorWithOrder(w, r, err, nil)
}

func writeErrorWithOrder(w http.ResponseWriter, r *http.Request, err error, orderID *int64) {
	status := domain.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "Request failed",
			"request_id", middleware.GetReqID(r.Context()),
			"status", status,
			"error", err,
		)
	}

	writeJSON(w, status, errorResponse{Error: errorMessage(err, status), OrderID: orderID})
}

// errorMessage keeps internal details out of 5xx bodies.
func errorMessage(err error, status int) string {
	switch {
	case status < http.StatusInternalServerError:
		return err.Error()
	case errors.Is(err, domain.ErrReserveUnavailable):
		return err.Error()
	case errors.Is(err, domain.ErrUpstreamUnavailable):
		return "catalog service unavailable"
	default:
		return "internal error"
	}
}

func pathID(r *http.Request, name string, invalid error) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, invalid
	}
	return id, nil
}

func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errInvalidBody
	}
	return nil
}

var errInvalidBody = fmt.Errorf("%w: invalid request body", domain.ErrValidation)
