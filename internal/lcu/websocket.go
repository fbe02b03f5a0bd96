package lcu

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"leaguehelper/internal/logging"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// EventType represents LCU WebSocket event types
type EventType int

const (
	EventTypeSubscribe   EventType = 5
	EventTypeUnsubscribe EventType = 6
	EventTypeEvent       EventType = 8
)

// Events that can change what the reconciler should apply
const (
	EventGameflowPhase = "OnJsonApiEvent_lol-gameflow_v1_gameflow-phase"
	EventChampSelect   = "OnJsonApiEvent_lol-champ-select_v1_session"
)

// EventStream listens to LCU websocket events and turns the relevant ones
// into nudges. A nudge carries no data; receivers re-read client state.
type EventStream struct {
	logger *zap.Logger
	nudges chan struct{}

	mu          sync.Mutex
	conn        *websocket.Conn
	isConnected bool
	done        chan struct{}
}

// NewEventStream creates an unconnected event stream
func NewEventStream(logger *zap.Logger) *EventStream {
	return &EventStream{
		logger: logging.OrNop(logger).Named("lcu"),
		nudges: make(chan struct{}, 1),
	}
}

// Connect establishes WebSocket connection to LCU
func (w *EventStream) Connect(ctx context.Context, creds *Credentials) error {
	header := http.Header{}
	header.Set("Authorization", basicAuth("riot", creds.Password))
	return w.ConnectURL(ctx, fmt.Sprintf("wss://127.0.0.1:%s", creds.Port), header)
}

// ConnectURL dials url directly and subscribes to the reconciler's events
func (w *EventStream) ConnectURL(ctx context.Context, url string, header http.Header) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.isConnected {
		return nil
	}

	dialer := websocket.Dialer{
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: true,
		},
	}

	conn, _, err := dialer.DialContext(ctx, url, header)
	if err != nil {
		return fmt.Errorf("failed to connect to LCU WebSocket: %w", err)
	}

	for _, event := range []string{EventGameflowPhase, EventChampSelect} {
		if err := conn.WriteJSON([]any{EventTypeSubscribe, event}); err != nil {
			conn.Close()
			return fmt.Errorf("failed to subscribe to %s: %w", event, err)
		}
	}

	w.conn = conn
	w.isConnected = true
	w.done = make(chan struct{})

	// Start listening for messages
	go w.listen(conn, w.done)

	return nil
}

// Nudges delivers at most one pending notification that client state changed
func (w *EventStream) Nudges() <-chan struct{} {
	return w.nudges
}

// Done is closed when the connection drops. It is nil before Connect.
func (w *EventStream) Done() <-chan struct{} {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.done
}

// IsConnected returns whether the WebSocket is connected
func (w *EventStream) IsConnected() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.isConnected
}

// Close closes the WebSocket connection and waits for the listener to exit
func (w *EventStream) Close() error {
	w.mu.Lock()
	conn, done := w.conn, w.done
	w.conn = nil
	w.mu.Unlock()

	if conn == nil {
		return nil
	}
	err := conn.Close()
	<-done
	return err
}

// listen reads messages from the WebSocket
func (w *EventStream) listen(conn *websocket.Conn, done chan struct{}) {
	defer func() {
		w.mu.Lock()
		w.isConnected = false
		w.mu.Unlock()
		conn.Close()
		close(done)
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			w.logger.Debug("event stream closed", zap.Error(err))
			return
		}

		w.handleMessage(message)
	}
}

// handleMessage processes incoming WebSocket messages
func (w *EventStream) handleMessage(data []byte) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return
	}

	if len(raw) < 3 {
		return
	}

	var eventType EventType
	if err := json.Unmarshal(raw[0], &eventType); err != nil {
		return
	}

	if eventType != EventTypeEvent {
		return
	}

	var eventName string
	if err := json.Unmarshal(raw[1], &eventName); err != nil {
		return
	}

	if eventName != EventGameflowPhase && eventName != EventChampSelect {
		return
	}

	var payload struct {
		EventType string `json:"eventType"`
		URI       string `json:"uri"`
	}
	if err := json.Unmarshal(raw[2], &payload); err != nil {
		return
	}

	w.logger.Debug("event", zap.String("uri", payload.URI), zap.String("type", payload.EventType))
	w.nudge()
}

func (w *EventStream) nudge() {
	select {
	case w.nudges <- struct{}{}:
	default:
	}
}
