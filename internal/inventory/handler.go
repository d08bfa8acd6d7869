package inventory

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"sebodigital/internal/domain"
	"sebodigital/internal/httpx"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Routes mounts the inventory endpoints.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/{bookID}", h.handleGetRecord)
	r.Get("/{bookID}/shelf", h.handleCurrentShelf)
	r.Get("/{bookID}/transfers", h.handleListTransfers)
	r.Post("/{bookID}/transfers", h.handleTransfer)
	r.Post("/{bookID}/restock", h.handleRestock)
	r.Put("/{bookID}/listing", h.handleSetListed)
	return r
}

func bookID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "bookID"))
	if err != nil {
		return uuid.Nil, &domain.ValidationError{Field: "bookID", Reason: "must be a valid UUID"}
	}
	return id, nil
}

func (h *Handler) handleGetRecord(w http.ResponseWriter, r *http.Request) {
	id, err := bookID(r)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	record, err := h.service.GetRecord(r.Context(), id)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, record)
}

func (h *Handler) handleCurrentShelf(w http.ResponseWriter, r *http.Request) {
	id, err := bookID(r)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	shelf, err := h.service.CurrentShelf(r.Context(), id)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]interface{}{"shelf": shelf})
}

func (h *Handler) handleListTransfers(w http.ResponseWriter, r *http.Request) {
	id, err := bookID(r)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	events, err := h.service.ListTransfers(r.Context(), id)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, events)
}

func (h *Handler) handleTransfer(w http.ResponseWriter, r *http.Request) {
	id, err := bookID(r)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}

	var req struct {
		ToShelfID uuid.UUID `json:"to_shelf_id"`
		Reason    string    `json:"reason"`
		Actor     string    `json:"actor"`
	}
	if err := httpx.Decode(r, &req); err != nil {
		httpx.WriteError(w, err)
		return
	}

	event, err := h.service.Transfer(r.Context(), id, req.ToShelfID, req.Reason, req.Actor)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, event)
}

func (h *Handler) handleRestock(w http.ResponseWriter, r *http.Request) {
	id, err := bookID(r)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := httpx.Decode(r, &req); err != nil {
		httpx.WriteError(w, err)
		return
	}

	if err := h.service.Restock(r.Context(), id, req.Quantity); err != nil {
		httpx.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleSetListed(w http.ResponseWriter, r *http.Request) {
	id, err := bookID(r)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}

	var req struct {
		Listed bool `json:"listed"`
	}
	if err := httpx.Decode(r, &req); err != nil {
		httpx.WriteError(w, err)
		return
	}

	record, err := h.service.SetListed(r.Context(), id, req.Listed)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, record)
}
