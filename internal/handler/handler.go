// Package handler exposes the storefront HTTP surface: catalog listing,
// sample-data seeding, checkout, schema documents and store diagnostics.
package handler

import (
	"context"
	"net/http"

	"github.com/xenking/shopfront/internal/domain/catalog"
	"github.com/xenking/shopfront/internal/domain/order"
	"github.com/xenking/shopfront/internal/domain/product"
	"github.com/xenking/shopfront/internal/storage/mongodb"
)

// DiagnosticsChecker probes the document store for the /test endpoint.
type DiagnosticsChecker interface {
	Check(ctx context.Context) mongodb.Report
}

// Handler routes storefront requests to the domain services. All
// dependencies may be nil when the service starts without a configured
// store; affected endpoints then answer with a fixed 500.
type Handler struct {
	products product.Repository
	checkout *order.Service
	seeder   *catalog.Seeder
	diag     DiagnosticsChecker
}

// New constructs a Handler with the given dependencies.
func New(
	products product.Repository,
	checkout *order.Service,
	seeder *catalog.Seeder,
	diag DiagnosticsChecker,
) *Handler {
	return &Handler{
		products: products,
		checkout: checkout,
		seeder:   seeder,
		diag:     diag,
	}
}

// Routes registers all storefront endpoints on the mux.
func (h *Handler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", h.Root)
	mux.HandleFunc("GET /test", h.Diagnostics)
	mux.HandleFunc("POST /seed", h.Seed)
	mux.HandleFunc("GET /products", h.ListProducts)
	mux.HandleFunc("POST /checkout", h.Checkout)
	mux.HandleFunc("GET /schema", h.Schema)
}

// Root answers the liveness message.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Shopping API is running",
	})
}

// Diagnostics reports store connectivity. The shape is free-form and meant
// for humans poking the deployment, not for clients.
func (h *Handler) Diagnostics(w http.ResponseWriter, r *http.Request) {
	if h.diag == nil {
		writeJSON(w, http.StatusOK, mongodb.Report{
			Backend:          "running",
			Database:         "not configured",
			ConnectionStatus: "not connected",
			Collections:      []string{},
		})
		return
	}
	writeJSON(w, http.StatusOK, h.diag.Check(r.Context()))
}
