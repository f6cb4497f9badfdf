// Package realtime keeps a locally displayed order consistent with the
// upstream store. A Channel holds the push connection that the store
// signals "order changed" on; a Watcher consumes those signals and
// re-fetches the authoritative snapshot. Payloads on the channel are
// never trusted: every notification, duplicate or not, resolves to the
// same re-fetch-and-replace, so delivery only has to be at-least-once.
package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gorilla/websocket"
)

// ConnState is the push connection lifecycle state.
type ConnState int

const (
	StateDisconnected ConnState = iota
	StateConnecting
	StateConnected
)

func (s ConnState) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	default:
		return "disconnected"
	}
}

// Config bounds the connection and reconnection behaviour.
type Config struct {
	// Reconnection enables automatic reconnection after a drop.
	Reconnection bool
	// ReconnectionAttempts is the retry budget per connection round.
	// Exhausting it leaves the channel disconnected for good.
	ReconnectionAttempts int
	// ReconnectionDelay is the fixed pause between attempts.
	ReconnectionDelay time.Duration
	// Timeout bounds the connect handshake and the register exchange.
	Timeout time.Duration
}

// DefaultConfig mirrors the settings the admin UI has always used.
func DefaultConfig() Config {
	return Config{
		Reconnection:         true,
		ReconnectionAttempts: 5,
		ReconnectionDelay:    time.Second,
		Timeout:              5 * time.Second,
	}
}

// Wire events. The store ignores everything else on the channel.
const (
	eventRegister     = "register"
	eventRegistered   = "registered"
	eventOrderUpdated = "orderUpdated"
)

// frame is the envelope for every message on the push channel.
type frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type registerPayload struct {
	UserID string `json:"userId"`
}

// ErrChannelClosed is returned after Close.
var ErrChannelClosed = errors.New("realtime: channel closed")

// Channel is one push connection scoped to a single viewer. It reconnects
// itself within the configured budget and coalesces inbound "order
// changed" events into Notifications.
type Channel struct {
	url    string
	token  string
	userID string
	cfg    Config
	log    *slog.Logger

	notify chan struct{}

	mu     sync.Mutex
	conn   *websocket.Conn
	state  ConnState
	closed bool

	cancel context.CancelFunc
	done   chan struct{}
}

// ChannelConfig configures Dial. Token is presented as a bearer token on
// the connect handshake; UserID identifies the viewer in the register
// exchange.
type ChannelConfig struct {
	URL    string
	Token  string
	UserID string
	Conn   Config
	Logger *slog.Logger
}

// Dial opens the push channel and starts its run loop. The first connect
// obeys the same attempt budget as reconnects; Dial itself returns
// immediately and the channel converges in the background, so a store
// that is briefly unreachable does not block the caller.
func Dial(ctx context.Context, cfg ChannelConfig) (*Channel, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("realtime: push URL is required")
	}
	if cfg.UserID == "" {
		return nil, fmt.Errorf("realtime: viewer user id is required")
	}
	conn := cfg.Conn
	if conn == (Config{}) {
		conn = DefaultConfig()
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	runCtx, cancel := context.WithCancel(ctx)
	c := &Channel{
		url:    cfg.URL,
		token:  cfg.Token,
		userID: cfg.UserID,
		cfg:    conn,
		log:    log,
		notify: make(chan struct{}, 1),
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go c.run(runCtx)
	return c, nil
}

// Notifications signals "the order changed, re-fetch it". The channel is
// buffered with capacity one: bursts of notifications collapse into a
// single pending signal, which is safe because consumers re-pull current
// truth rather than interpreting the events.
func (c *Channel) Notifications() <-chan struct{} {
	return c.notify
}

// State reports the connection lifecycle state.
func (c *Channel) State() ConnState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Done is closed once the run loop has stopped, either by Close or by
// exhausting the reconnect budget.
func (c *Channel) Done() <-chan struct{} {
	return c.done
}

// Close tears the connection down. No notification is delivered after
// Close returns.
func (c *Channel) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	conn := c.conn
	c.mu.Unlock()

	c.cancel()
	if conn != nil {
		conn.Close()
	}
	<-c.done
	return nil
}

func (c *Channel) setState(s ConnState) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

// run connects, reads until the connection drops, and repeats while the
// reconnect policy allows it.
func (c *Channel) run(ctx context.Context) {
	defer close(c.done)
	defer c.setState(StateDisconnected)

	for {
		if err := c.connectWithRetry(ctx); err != nil {
			if ctx.Err() == nil {
				c.log.Error("push channel gave up reconnecting",
					"url", c.url, "attempts", c.cfg.ReconnectionAttempts, "error", err)
			}
			return
		}

		err := c.readLoop(ctx)
		if ctx.Err() != nil {
			return
		}
		c.setState(StateDisconnected)
		c.log.Warn("push channel disconnected", "url", c.url, "error", err)

		if !c.cfg.Reconnection {
			return
		}
	}
}

// connectWithRetry runs the dial-and-register handshake under the
// bounded constant-interval policy.
func (c *Channel) connectWithRetry(ctx context.Context) error {
	policy := backoff.WithContext(
		backoff.WithMaxRetries(
			backoff.NewConstantBackOff(c.cfg.ReconnectionDelay),
			uint64(c.cfg.ReconnectionAttempts),
		),
		ctx,
	)
	return backoff.Retry(func() error {
		return c.connect(ctx)
	}, policy)
}

// connect performs one dial plus the register exchange. A connection only
// counts as established once the store has acknowledged the registration;
// notifications received before that are not authoritative for anyone.
func (c *Channel) connect(ctx context.Context) error {
	c.setState(StateConnecting)

	dialer := &websocket.Dialer{HandshakeTimeout: c.cfg.Timeout}
	header := http.Header{}
	if c.token != "" {
		header.Set("Authorization", "Bearer "+c.token)
	}

	conn, resp, err := dialer.DialContext(ctx, c.url, header)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		c.setState(StateDisconnected)
		return fmt.Errorf("dial %s: %w", c.url, err)
	}

	if err := c.register(conn); err != nil {
		conn.Close()
		c.setState(StateDisconnected)
		return err
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		conn.Close()
		return backoff.Permanent(ErrChannelClosed)
	}
	c.conn = conn
	c.state = StateConnected
	c.mu.Unlock()

	c.log.Info("push channel connected", "url", c.url, "userId", c.userID)
	return nil
}

// register announces the viewer and waits for the acknowledgement.
func (c *Channel) register(conn *websocket.Conn) error {
	payload, err := json.Marshal(registerPayload{UserID: c.userID})
	if err != nil {
		return fmt.Errorf("encode register: %w", err)
	}

	conn.SetWriteDeadline(time.Now().Add(c.cfg.Timeout))
	if err := conn.WriteJSON(frame{Event: eventRegister, Data: payload}); err != nil {
		return fmt.Errorf("send register: %w", err)
	}

	conn.SetReadDeadline(time.Now().Add(c.cfg.Timeout))
	for {
		var f frame
		if err := conn.ReadJSON(&f); err != nil {
			return fmt.Errorf("await register ack: %w", err)
		}
		if f.Event == eventRegistered {
			break
		}
		// Anything arriving before the ack is not authoritative yet.
	}
	conn.SetReadDeadline(time.Time{})
	conn.SetWriteDeadline(time.Time{})
	return nil
}

// readLoop pumps inbound frames until the connection fails.
func (c *Channel) readLoop(ctx context.Context) error {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return ErrChannelClosed
	}

	for {
		var f frame
		if err := conn.ReadJSON(&f); err != nil {
			return err
		}
		if f.Event != eventOrderUpdated {
			continue
		}
		select {
		case c.notify <- struct{}{}:
		case <-ctx.Done():
			return ctx.Err()
		default:
			// A signal is already pending; this one coalesces into it.
		}
	}
}
