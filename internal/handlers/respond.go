package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/MinhAn2007/fashion-admin-dashboard-sub000/internal/backend"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeUpstreamError maps a store client failure onto the gateway's
// response. A 404 from the store stays a 404; everything else is the
// store's fault as far as the admin UI is concerned.
func writeUpstreamError(w http.ResponseWriter, err error) {
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
		writeError(w, http.StatusNotFound, "order not found")
		return
	}
	slog.Error("Upstream store request failed", "error", err)
	writeError(w, http.StatusBadGateway, "upstream store unavailable")
}
