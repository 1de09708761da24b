package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rl1809/canteen/internal/core/domain"
	"github.com/rl1809/canteen/internal/core/service"
)

type PlaceOrderHTTPRequest struct {
	RequestID string `json:"request_id"`
	ItemID    string `json:"item_id"`
}

type VerifyTokenHTTPRequest struct {
	Token string `json:"token"`
}

func (h *HTTPHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req PlaceOrderHTTPRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if req.RequestID == "" {
		req.RequestID = r.Header.Get("Idempotency-Key")
	}
	if req.RequestID == "" || req.ItemID == "" {
		writeBadRequest(w, "missing required fields")
		return
	}

	order, err := h.orderService.PlaceOrder(r.Context(), sessionFrom(r.Context()).AccountID, req.RequestID, req.ItemID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

// GetOrder hides other customers' orders behind a not-found.
func (h *HTTPHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.orderService.GetOrder(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	session := sessionFrom(r.Context())
	if session.Kind == domain.AccountKindCustomer && order.CustomerID != session.AccountID {
		h.writeError(w, r, service.ErrOrderNotFound)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *HTTPHandler) VerifyToken(w http.ResponseWriter, r *http.Request) {
	var req VerifyTokenHTTPRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	order, err := h.orderService.VerifyToken(r.Context(), sessionFrom(r.Context()).AccountID, req.Token)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}
