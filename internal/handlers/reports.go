package handlers

import (
	"net/http"

	"github.com/MinhAn2007/fashion-admin-dashboard-sub000/internal/backend"
	"github.com/MinhAn2007/fashion-admin-dashboard-sub000/internal/rollup"
)

// ReportsHandler serves the reporting screens. Both the category table
// and the dashboard charts fold figures through the same rollup, so the
// numbers always agree between screens.
type ReportsHandler struct {
	Backend *backend.Client
}

// Categories handles GET /api/reports/categories: sales by top-level
// category, children folded into their canonical parents.
func (h *ReportsHandler) Categories(w http.ResponseWriter, r *http.Request) {
	records, err := h.Backend.CategorySales(r.Context())
	if err != nil {
		writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"data": rollup.Rollup(records, rollup.CanonicalIDs),
	})
}

// Revenue handles GET /api/reports/revenue.
func (h *ReportsHandler) Revenue(w http.ResponseWriter, r *http.Request) {
	dash, err := h.Backend.RevenueDashboard(r.Context())
	if err != nil {
		writeUpstreamError(w, err)
		return
	}
	dash.ByCategory = rollup.Rollup(dash.ByCategory, rollup.CanonicalIDs)
	writeJSON(w, http.StatusOK, map[string]any{"data": dash})
}

// Orders handles GET /api/reports/orders: the order dashboard, with unit
// counts folded per category.
func (h *ReportsHandler) Orders(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Backend.OrderStats(r.Context())
	if err != nil {
		writeUpstreamError(w, err)
		return
	}
	stats.ByCategory = rollup.RollupQuantity(stats.ByCategory, rollup.CanonicalIDs)
	writeJSON(w, http.StatusOK, map[string]any{"data": stats})
}
