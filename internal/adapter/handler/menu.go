package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rl1809/canteen/internal/core/domain"
	"github.com/rl1809/canteen/internal/core/service"
)

type ItemHTTPResponse struct {
	domain.MenuItem
	ImageAddress string `json:"image_address"`
	ImageHint    string `json:"image_hint"`
	Orderable    bool   `json:"orderable"`
}

type CountHTTPRequest struct {
	Delta int `json:"delta"`
}

func (h *HTTPHandler) ListMenu(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := service.ListFilter{
		OrderableOnly: query.Get("orderable") == "true",
		Category:      domain.Category(query.Get("category")),
	}
	if filter.Category != "" && !filter.Category.Valid() {
		writeBadRequest(w, "unknown category")
		return
	}

	items := h.menuService.List(r.Context(), filter)
	resp := make([]ItemHTTPResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, h.itemResponse(item))
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *HTTPHandler) GetMenuItem(w http.ResponseWriter, r *http.Request) {
	item, err := h.menuService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.itemResponse(item))
}

func (h *HTTPHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var fields domain.ItemFields
	if err := decodeJSON(r, &fields); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	item, err := h.menuService.Create(r.Context(), sessionFrom(r.Context()).AccountID, fields)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, h.itemResponse(item))
}

func (h *HTTPHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var fields domain.ItemFields
	if err := decodeJSON(r, &fields); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	item := domain.MenuItem{ID: chi.URLParam(r, "id"), ItemFields: fields}
	updated, err := h.menuService.Update(r.Context(), sessionFrom(r.Context()).AccountID, item)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.itemResponse(updated))
}

func (h *HTTPHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	if err := h.menuService.Delete(r.Context(), sessionFrom(r.Context()).AccountID, chi.URLParam(r, "id")); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *HTTPHandler) ToggleAvailability(w http.ResponseWriter, r *http.Request) {
	item, err := h.menuService.ToggleAvailability(r.Context(), sessionFrom(r.Context()).AccountID, chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.itemResponse(item))
}

func (h *HTTPHandler) AdjustCount(w http.ResponseWriter, r *http.Request) {
	var req CountHTTPRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	item, err := h.menuService.AdjustCount(r.Context(), sessionFrom(r.Context()).AccountID, chi.URLParam(r, "id"), req.Delta)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.itemResponse(item))
}

func (h *HTTPHandler) itemResponse(item domain.MenuItem) ItemHTTPResponse {
	return ItemHTTPResponse{
		MenuItem:     item,
		ImageAddress: h.images.Resolve(item.ImageID, item.ImageURL),
		ImageHint:    h.images.Hint(item.ImageID),
		Orderable:    item.Orderable(),
	}
}
