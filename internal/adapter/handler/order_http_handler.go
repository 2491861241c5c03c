package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rl1809/bookstore/internal/core/domain"
	"github.com/rl1809/bookstore/internal/core/service"
)

type OrderHandler struct {
	orders *service.OrderService
}

type PurchaseHTTPResponse struct {
	OK      bool   `json:"ok"`
	OrderID int64  `json:"order_id"`
	ItemID  int64  `json:"item_id"`
	Title   string `json:"title"`
	Price   int64  `json:"price"`
	Message string `json:"message"`
}

type OrderHTTPResponse struct {
	ID        int64     `json:"id"`
	ItemID    int64     `json:"item_id"`
	Title     string    `json:"title"`
	Price     int64     `json:"price"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

func NewOrderHandler(orders *service.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

func (h *OrderHandler) RegisterRoutes(r chi.Router) {
	r.Get("/health", HealthCheck)
	r.Post("/purchase/{id}", h.Purchase)
	r.Get("/orders", h.ListOrders)
	r.Get("/orders/{id}", h.GetOrder)
}

func (h *OrderHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	itemID, err := pathID(r, "id", domain.ErrInvalidItemID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	result, err := h.orders.Purchase(r.Context(), itemID)
	if err != nil {
		var orderID *int64
		if result != nil {
			orderID = &result.OrderID
		}
		writeErrorWithOrder(w, r, err, orderID)
		return
	}

	writeJSON(w, http.StatusCreated, PurchaseHTTPResponse{
		OK:      true,
		OrderID: result.OrderID,
		ItemID:  result.ItemID,
		Title:   result.Title,
		Price:   result.Price,
		Message: "purchase successful",
	})
}

func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.ListOrders(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := make([]OrderHTTPResponse, 0, len(orders))
	for _, o := range orders {
		resp = append(resp, toOrderResponse(o))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", domain.ErrInvalidOrderID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	order, err := h.orders.GetOrder(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(*order))
}

func toOrderResponse(o domain.OrderEntry) OrderHTTPResponse {
	return OrderHTTPResponse{
		ID:        o.ID,
		ItemID:    o.ItemID,
		Title:     o.Title,
		Price:     o.Price,
		Status:    string(o.Status),
		CreatedAt: o.CreatedAt,
	}
}
