// Package server assembles the HTTP API.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"

	"sebodigital/internal/catalog"
	"sebodigital/internal/inventory"
	"sebodigital/internal/orders"
	"sebodigital/internal/sales"
	"sebodigital/internal/settings"
)

// Handlers groups the per-context HTTP handlers mounted on the router.
type Handlers struct {
	Catalog   *catalog.Handler
	Inventory *inventory.Handler
	Sales     *sales.Handler
	Orders    *orders.Handler
	Settings  *settings.Handler
}

// NewRouter builds the chi router with the shared middleware stack.
func NewRouter(h Handlers, limit rate.Limit, burst int) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(RequestLogger)
	r.Use(RateLimit(limit, burst))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/catalog", h.Catalog.Routes())
		r.Mount("/inventory", h.Inventory.Routes())
		r.Mount("/sales", h.Sales.Routes())
		r.Mount("/orders", h.Orders.Routes())
		r.Mount("/settings", h.Settings.Routes())
		r.Mount("/staff", h.Settings.StaffRoutes())
	})

	return r
}
