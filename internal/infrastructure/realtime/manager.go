package realtime

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"marketchat/pkg/logger"
)

const (
	reconnectAttempts = 5
	reconnectDelay    = 1000 * time.Millisecond
	writeWait         = 10 * time.Second
)

// Manager owns at most one live realtime connection. It is constructed once
// by the session owner and handed to every component that needs to emit or
// subscribe; nothing else may connect or disconnect.
type Manager struct {
	socketURL     string
	dialer        *websocket.Dialer
	reconnectWait time.Duration

	mu     sync.Mutex
	handle *Handle

	hmu      sync.RWMutex
	handlers map[string][]Handler
}

// Handle identifies one live connection. Two Connect calls without an
// intervening Disconnect yield the same Handle.
type Handle struct {
	UserID string

	manager *Manager
	conn    *websocket.Conn
	poller  *poller

	sendMu  sync.Mutex
	closeMu sync.Mutex
	closed  bool
	done    chan struct{}
}

func NewManager(socketURL string) *Manager {
	return &Manager{
		socketURL:     socketURL,
		dialer:        websocket.DefaultDialer,
		reconnectWait: reconnectDelay,
		handlers:      make(map[string][]Handler),
	}
}

// Connect establishes the realtime connection for userID. Idempotent: while a
// connection exists it is returned unchanged regardless of userID. The
// websocket transport is preferred; when the dial fails the handle falls back
// to HTTP polling against the same endpoint.
func (m *Manager) Connect(userID string) (*Handle, error) {
	m.mu.Lock()
	if m.handle != nil {
		h := m.handle
		m.mu.Unlock()
		return h, nil
	}

	h := &Handle{
		UserID:  userID,
		manager: m,
		done:    make(chan struct{}),
	}

	conn, err := m.dial(userID)
	if err != nil {
		logger.Warn("realtime: websocket dial failed, falling back to polling: %v", err)
		h.poller = newPoller(m, userID, h.done)
		go h.poller.run()
	} else {
		h.conn = conn
		go h.readPump()
	}

	m.handle = h
	m.mu.Unlock()

	m.dispatch(EventConnect, nil)
	logger.Info("realtime: connected user %s", userID)
	return h, nil
}

// Handle returns the current connection, or false when none exists.
func (m *Manager) Handle() (*Handle, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.handle, m.handle != nil
}

func (m *Manager) IsConnected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.handle != nil && !m.handle.isClosed()
}

// Disconnect closes the transport and clears the manager so a subsequent
// Connect starts fresh.
func (m *Manager) Disconnect() {
	m.mu.Lock()
	h := m.handle
	m.handle = nil
	m.mu.Unlock()

	if h == nil {
		return
	}
	h.close()
	m.dispatch(EventDisconnect, mustJSON(map[string]string{"reason": "client disconnect"}))
	logger.Info("realtime: disconnected user %s", h.UserID)
}

// On registers a handler for an event name. Registration is append-only for
// the life of the manager.
func (m *Manager) On(event string, fn Handler) {
	m.hmu.Lock()
	defer m.hmu.Unlock()
	m.handlers[event] = append(m.handlers[event], fn)
}

// Emit announces an event on the live connection.
func (m *Manager) Emit(event string, payload interface{}) error {
	m.mu.Lock()
	h := m.handle
	m.mu.Unlock()

	if h == nil || h.isClosed() {
		return fmt.Errorf("realtime: no live connection")
	}
	return h.emit(event, payload)
}

func (m *Manager) dial(userID string) (*websocket.Conn, error) {
	u, err := url.Parse(m.socketURL)
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("userId", userID)
	u.RawQuery = q.Encode()

	conn, _, err := m.dialer.Dial(u.String(), nil)
	return conn, err
}

func (m *Manager) dispatch(event string, payload json.RawMessage) {
	m.hmu.RLock()
	fns := m.handlers[event]
	m.hmu.RUnlock()
	for _, fn := range fns {
		fn(payload)
	}
}

func (h *Handle) emit(event string, payload interface{}) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	frame := Frame{Event: event, Payload: raw}

	// sendMu also guards the conn pointer itself, which reconnect swaps.
	h.sendMu.Lock()
	defer h.sendMu.Unlock()

	if h.conn == nil {
		// Polling transport cannot push; the REST write already reached the
		// backend, which relays to other participants itself.
		logger.Debug("realtime: emit %q skipped on polling transport", event)
		return nil
	}

	h.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return h.conn.WriteJSON(frame)
}

// readPump delivers inbound frames in transport order and drives the bounded
// reconnect when the stream drops.
func (h *Handle) readPump() {
	for {
		var frame Frame
		err := h.conn.ReadJSON(&frame)
		if err == nil {
			h.manager.dispatch(frame.Event, frame.Payload)
			continue
		}

		if h.isClosed() {
			return
		}

		reason := err.Error()
		if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
			logger.Error("realtime: unexpected close: %v", err)
		}
		h.manager.dispatch(EventDisconnect, mustJSON(map[string]string{"reason": reason}))

		if !h.reconnect() {
			return
		}
	}
}

// reconnect retries the websocket dial a fixed number of times with a fixed
// delay. On exhaustion it reports connect_error, closes the handle and clears
// it from the manager, so IsConnected turns false and the next Connect dials
// fresh instead of returning a dead handle.
func (h *Handle) reconnect() bool {
	for attempt := 1; attempt <= reconnectAttempts; attempt++ {
		select {
		case <-h.done:
			return false
		case <-time.After(h.manager.reconnectWait):
		}

		conn, err := h.manager.dial(h.UserID)
		if err != nil {
			logger.Warn("realtime: reconnect attempt %d/%d failed: %v", attempt, reconnectAttempts, err)
			continue
		}

		h.sendMu.Lock()
		h.conn = conn
		h.sendMu.Unlock()
		h.manager.dispatch(EventConnect, nil)
		logger.Info("realtime: reconnected after %d attempt(s)", attempt)
		return true
	}

	h.manager.dispatch(EventConnectError, mustJSON(map[string]string{
		"message": fmt.Sprintf("gave up after %d reconnect attempts", reconnectAttempts),
	}))
	logger.Error("realtime: gave up reconnecting after %d attempts", reconnectAttempts)
	h.manager.drop(h)
	return false
}

// drop closes a handle whose transport died for good and clears it from the
// manager, so IsConnected turns false and the next Connect dials fresh.
func (m *Manager) drop(h *Handle) {
	m.mu.Lock()
	if m.handle == h {
		m.handle = nil
	}
	m.mu.Unlock()
	h.close()
}

func (h *Handle) close() {
	h.closeMu.Lock()
	defer h.closeMu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	close(h.done)
	h.sendMu.Lock()
	if h.conn != nil {
		h.conn.SetWriteDeadline(time.Now().Add(writeWait))
		h.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		h.conn.Close()
	}
	h.sendMu.Unlock()
}

func (h *Handle) isClosed() bool {
	h.closeMu.Lock()
	defer h.closeMu.Unlock()
	return h.closed
}

// httpPollURL rewrites the websocket endpoint into its polling counterpart.
func httpPollURL(socketURL string) string {
	u := socketURL
	if strings.HasPrefix(u, "wss://") {
		u = "https://" + strings.TrimPrefix(u, "wss://")
	} else if strings.HasPrefix(u, "ws://") {
		u = "http://" + strings.TrimPrefix(u, "ws://")
	}
	return strings.TrimRight(u, "/") + "/poll"
}

func mustJSON(v interface{}) json.RawMessage {
	raw, _ := json.Marshal(v)
	return raw
}
