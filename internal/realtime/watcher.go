package realtime

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/MinhAn2007/fashion-admin-dashboard-sub000/internal/models"
)

// OrderFetcher pulls the authoritative order snapshot. *backend.Client
// satisfies it.
type OrderFetcher interface {
	Order(ctx context.Context, id int) (models.Order, error)
}

// Notifier hands out coalesced "order changed" signals. *Channel
// satisfies it.
type Notifier interface {
	Notifications() <-chan struct{}
}

// Watcher owns the displayed snapshot of one order and keeps it converged
// with the store. All snapshot replacement funnels through a single
// reconcile path guarded by a fetch sequence number, so a push-triggered
// re-fetch and a manual refresh can never clobber each other with a stale
// response: whichever fetch was dispatched last is the one that sticks.
type Watcher struct {
	orderID int
	fetch   OrderFetcher
	log     *slog.Logger

	mu       sync.Mutex
	snapshot models.Order
	seq      uint64 // last dispatched fetch
	applied  uint64 // fetch whose result is currently displayed
	subs     map[int]chan models.Order
	nextSub  int
	closed   bool

	cancel context.CancelFunc
	done   chan struct{}
}

// Watch fetches the initial snapshot and starts reconciling against the
// notifier. The initial fetch failing is a blocking error: there is
// nothing to display, so the watcher is not created.
func Watch(ctx context.Context, orderID int, fetch OrderFetcher, n Notifier, log *slog.Logger) (*Watcher, error) {
	if log == nil {
		log = slog.Default()
	}

	initial, err := fetch.Order(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("realtime: initial fetch of order %d: %w", orderID, err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	w := &Watcher{
		orderID:  orderID,
		fetch:    fetch,
		log:      log,
		snapshot: initial,
		seq:      1,
		applied:  1,
		subs:     make(map[int]chan models.Order),
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	go w.run(runCtx, n.Notifications())
	return w, nil
}

// Snapshot returns the currently displayed order.
func (w *Watcher) Snapshot() models.Order {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.snapshot
}

// Subscribe returns a channel carrying each newly reconciled snapshot and
// a cancel function. The channel holds only the latest snapshot: if the
// subscriber lags, older updates are dropped in favour of newer ones.
func (w *Watcher) Subscribe() (<-chan models.Order, func()) {
	w.mu.Lock()
	defer w.mu.Unlock()

	ch := make(chan models.Order, 1)
	if w.closed {
		close(ch)
		return ch, func() {}
	}
	id := w.nextSub
	w.nextSub++
	w.subs[id] = ch

	return ch, func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		if sub, ok := w.subs[id]; ok {
			delete(w.subs, id)
			close(sub)
		}
	}
}

// Refresh re-fetches the order outside the push path, for viewers whose
// channel has degraded to manual updates. It obeys the same staleness
// guard as push-triggered reconciliation.
func (w *Watcher) Refresh(ctx context.Context) error {
	return w.reconcile(ctx)
}

// Close stops reconciliation and closes every subscription. After Close
// returns no subscriber channel receives again.
func (w *Watcher) Close() {
	w.cancel()
	<-w.done

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	w.closed = true
	for id, sub := range w.subs {
		delete(w.subs, id)
		close(sub)
	}
}

func (w *Watcher) run(ctx context.Context, notifications <-chan struct{}) {
	defer close(w.done)
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-notifications:
			if !ok {
				return
			}
			if err := w.reconcile(ctx); err != nil && ctx.Err() == nil {
				// The previous snapshot stays on display; the next
				// notification or a manual refresh will retry.
				w.log.Warn("order reconcile failed", "order", w.orderID, "error", err)
			}
		}
	}
}

// reconcile pulls current truth and replaces the snapshot, unless a fetch
// dispatched later has already landed.
func (w *Watcher) reconcile(ctx context.Context) error {
	w.mu.Lock()
	w.seq++
	seq := w.seq
	w.mu.Unlock()

	order, err := w.fetch.Order(ctx, w.orderID)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed || seq <= w.applied {
		return nil
	}
	w.snapshot = order
	w.applied = seq
	for _, sub := range w.subs {
		select {
		case sub <- order:
		default:
			// Subscriber still holds an older snapshot; swap it out.
			select {
			case <-sub:
			default:
			}
			sub <- order
		}
	}
	return nil
}
