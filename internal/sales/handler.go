package sales

import (
	"net/http"
	"time"

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

// Routes mounts the point-of-sale endpoints.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.handleCreateSale)
	r.Get("/", h.handleListSales)
	r.Get("/{id}", h.handleGetSale)
	return r
}

func (h *Handler) handleCreateSale(w http.ResponseWriter, r *http.Request) {
	var req SaleInput
	if err := httpx.Decode(r, &req); err != nil {
		httpx.WriteError(w, err)
		return
	}

	sale, err := h.service.CreateSale(r.Context(), req)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, sale)
}

func (h *Handler) handleGetSale(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteError(w, &domain.ValidationError{Field: "id", Reason: "must be a valid UUID"})
		return
	}

	sale, err := h.service.GetSale(r.Context(), id)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, sale)
}

func (h *Handler) handleListSales(w http.ResponseWriter, r *http.Request) {
	filter := ListFilter{
		PaymentMethod: PaymentMethod(r.URL.Query().Get("payment_method")),
	}
	if v := r.URL.Query().Get("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			httpx.WriteError(w, &domain.ValidationError{Field: "from", Reason: "must be RFC 3339"})
			return
		}
		filter.From = t
	}
	if v := r.URL.Query().Get("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			httpx.WriteError(w, &domain.ValidationError{Field: "to", Reason: "must be RFC 3339"})
			return
		}
		filter.To = t
	}

	list, err := h.service.ListSales(r.Context(), filter)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, list)
}
