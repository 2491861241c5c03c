package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rl1809/bookstore/internal/core/domain"
	"github.com/rl1809/bookstore/internal/core/service"
)

type CatalogHandler struct {
	inventory *service.InventoryService
}

type itemResponse struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Topic    string `json:"topic"`
	Price    int64  `json:"price"`
	Quantity int64  `json:"quantity"`
}

type itemSummaryResponse struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

type updatePriceRequest struct {
	ID    *int64 `json:"id"`
	Price *int64 `json:"price"`
}

type updateStockRequest struct {
	ID    *int64 `json:"id"`
	Delta *int64 `json:"delta"`
}

type stockResponse struct {
	OK       bool  `json:"ok"`
	Quantity int64 `json:"quantity"`
}

func NewCatalogHandler(inventory *service.InventoryService) *CatalogHandler {
	return &CatalogHandler{inventory: inventory}
}

func (h *CatalogHandler) RegisterRoutes(r chi.Router) {
	r.Get("/health", HealthCheck)
	r.Get("/search/{topic}", h.Search)
	r.Get("/info/{id}", h.Info)
	r.Put("/update/price", h.UpdatePrice)
	r.Put("/update/stock", h.UpdateStock)
	r.Put("/stock/decrement/{id}", h.Decrement)
}

func (h *CatalogHandler) Search(w http.ResponseWriter, r *http.Request) {
	items, err := h.inventory.Search(r.Context(), chi.URLParam(r, "topic"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := make([]itemSummaryResponse, 0, len(items))
	for _, it := range items {
		resp = append(resp, itemSummaryResponse{ID: it.ID, Title: it.Title})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *CatalogHandler) Info(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", domain.ErrInvalidItemID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	item, err := h.inventory.Lookup(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, itemResponse{
		ID:       item.ID,
		Title:    item.Title,
		Topic:    item.Topic.String(),
		Price:    item.Price,
		Quantity: item.Quantity,
	})
}

func (h *CatalogHandler) UpdatePrice(w http.ResponseWriter, r *http.Request) {
	var req updatePriceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.ID == nil {
		writeError(w, r, domain.ErrInvalidItemID)
		return
	}
	if req.Price == nil {
		writeError(w, r, domain.ErrInvalidPrice)
		return
	}

	if err := h.inventory.SetPrice(r.Context(), *req.ID, *req.Price); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *CatalogHandler) UpdateStock(w http.ResponseWriter, r *http.Request) {
	var req updateStockRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.ID == nil {
		writeError(w, r, domain.ErrInvalidItemID)
		return
	}
	if req.Delta == nil {
		writeError(w, r, domain.ErrInvalidDelta)
		return
	}

	quantity, err := h.inventory.Adjust(r.Context(), *req.ID, *req.Delta)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stockResponse{OK: true, Quantity: quantity})
}

// Decrement exposes the atomic reservation primitive.
func (h *CatalogHandler) Decrement(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", domain.ErrInvalidItemID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	remaining, err := h.inventory.Reserve(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stockResponse{OK: true, Quantity: remaining})
}
