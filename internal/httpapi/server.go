// Package httpapi exposes the ledger, derived views and preferences as
// a JSON API. It consumes ledger data and never mutates it except
// through the store's defined operations.
package httpapi

import (
	"net/http"

	"kharcha/internal/ledger"
	"kharcha/internal/middleware/trace"
	"kharcha/internal/report"
	"kharcha/internal/settings"
)

// Handlers bundles the collaborators the API serves from.
type Handlers struct {
	Ledger   *ledger.Store
	Reports  *report.Cached
	Settings *settings.Service
}

// NewServer builds the API server on addr. Timeouts are left to the
// caller, which configures the returned http.Server directly.
func NewServer(addr string, h Handlers) *http.Server {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", h.handleHealth)

	mux.HandleFunc("POST /api/transactions", h.handleAddTransaction)
	mux.HandleFunc("GET /api/transactions", h.handleListTransactions)
	mux.HandleFunc("DELETE /api/transactions/{id}", h.handleDeleteTransaction)
	mux.HandleFunc("DELETE /api/transactions", h.handleClearTransactions)

	mux.HandleFunc("GET /api/summary", h.handleSummary)
	mux.HandleFunc("GET /api/summary/categories", h.handleCategories)
	mux.HandleFunc("GET /api/calendar", h.handleCalendar)

	mux.HandleFunc("GET /api/settings", h.handleGetSettings)
	mux.HandleFunc("PUT /api/settings", h.handlePutSettings)

	return &http.Server{
		Addr:    addr,
		Handler: trace.Middleware(mux),
	}
}
