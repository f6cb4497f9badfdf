package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/MinhAn2007/fashion-admin-dashboard-sub000/internal/backend"
	"github.com/MinhAn2007/fashion-admin-dashboard-sub000/internal/lifecycle"
	"github.com/MinhAn2007/fashion-admin-dashboard-sub000/internal/models"
)

// OrderHandler serves the order-detail screen: the current snapshot plus
// the action set the administrator may take on it.
type OrderHandler struct {
	Backend *backend.Client
}

// OrderView is the detail payload. Label is the display status (a pending
// order with a return request shows as "Return Request"); Actions is
// exactly the set the state machine allows, so the UI never has to guess.
type OrderView struct {
	Order   models.Order       `json:"order"`
	Label   string             `json:"label"`
	Actions []lifecycle.Action `json:"actions"`
}

func orderID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	return id, err == nil && id > 0
}

// Show handles GET /api/orders/{id}.
func (h *OrderHandler) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := orderID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	order, err := h.Backend.Order(r.Context(), id)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}

	state := lifecycle.StateOf(order)
	writeJSON(w, http.StatusOK, OrderView{
		Order:   order,
		Label:   lifecycle.Label(state),
		Actions: lifecycle.Actions(state),
	})
}

type actionRequest struct {
	Action lifecycle.Action `json:"action"`
}

// Act handles POST /api/orders/{id}/actions. The transition is validated
// against the snapshot we just fetched and then forwarded to the store;
// nothing is mutated locally. The store pushes a notification on success
// and every viewer, this one included, converges by re-fetching.
func (h *OrderHandler) Act(w http.ResponseWriter, r *http.Request) {
	id, ok := orderID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	var req actionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Action == "" {
		writeError(w, http.StatusBadRequest, "invalid action payload")
		return
	}

	order, err := h.Backend.Order(r.Context(), id)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}

	effect, err := lifecycle.Apply(lifecycle.StateOf(order), req.Action)
	if err != nil {
		if errors.Is(err, lifecycle.ErrNotAllowed) {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	switch effect.Kind {
	case lifecycle.EffectStatus:
		err = h.Backend.UpdateStatus(r.Context(), id, string(effect.Target))
	case lifecycle.EffectReceipt:
		err = h.Backend.UpdateReceipt(r.Context(), id, effect.IsGet)
	}
	if err != nil {
		writeUpstreamError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
