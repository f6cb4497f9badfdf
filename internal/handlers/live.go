package handlers

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/MinhAn2007/fashion-admin-dashboard-sub000/internal/backend"
	"github.com/MinhAn2007/fashion-admin-dashboard-sub000/internal/lifecycle"
	"github.com/MinhAn2007/fashion-admin-dashboard-sub000/internal/models"
	"github.com/MinhAn2007/fashion-admin-dashboard-sub000/internal/realtime"
)

// LiveHandler streams reconciled order snapshots to a browser viewing the
// order-detail screen. Each browser connection owns one upstream watcher:
// opened when the view mounts, torn down when the socket closes, so no
// listener can outlive its view.
type LiveHandler struct {
	Backend *backend.Client
	PushURL string
	Token   string
	Channel realtime.Config

	upgrader websocket.Upgrader
}

// liveUpdate is one frame sent to the browser.
type liveUpdate struct {
	Order   models.Order       `json:"order"`
	Label   string             `json:"label"`
	Actions []lifecycle.Action `json:"actions"`
}

// Stream handles GET /api/orders/{id}/live.
func (h *LiveHandler) Stream(w http.ResponseWriter, r *http.Request) {
	id, ok := orderID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	ch, err := realtime.Dial(r.Context(), realtime.ChannelConfig{
		URL:    h.PushURL,
		Token:  h.Token,
		UserID: uuid.NewString(),
		Conn:   h.Channel,
	})
	if err != nil {
		slog.Error("Failed to open push channel", "error", err)
		writeError(w, http.StatusBadGateway, "push channel unavailable")
		return
	}
	defer ch.Close()

	watcher, err := realtime.Watch(r.Context(), id, h.Backend, ch, nil)
	if err != nil {
		// No snapshot to display at all: blocking error.
		writeUpstreamError(w, err)
		return
	}
	defer watcher.Close()

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote its own error response.
		slog.Warn("Live view upgrade failed", "order", id, "error", err)
		return
	}
	defer conn.Close()

	updates, unsubscribe := watcher.Subscribe()
	defer unsubscribe()

	if err := writeUpdate(conn, watcher.Snapshot()); err != nil {
		return
	}

	// Browser-side reads are drained only to learn about disconnects.
	clientGone := make(chan struct{})
	go func() {
		defer close(clientGone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-clientGone:
			return
		case <-r.Context().Done():
			return
		case order, ok := <-updates:
			if !ok {
				return
			}
			if err := writeUpdate(conn, order); err != nil {
				return
			}
		}
	}
}

func writeUpdate(conn *websocket.Conn, order models.Order) error {
	state := lifecycle.StateOf(order)
	return conn.WriteJSON(liveUpdate{
		Order:   order,
		Label:   lifecycle.Label(state),
		Actions: lifecycle.Actions(state),
	})
}
