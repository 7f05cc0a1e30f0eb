package dashboard

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/goliatone/go-home-dashboard/components/devices"
	"github.com/gorilla/websocket"
)

// EventKind tags a broadcast Event.
type EventKind string

const (
	EventLayout EventKind = "layout"
	EventDevice EventKind = "device"
	EventToast  EventKind = "toast"
	EventTheme  EventKind = "theme"
)

// Event is the envelope pushed to WebSocket/SSE subscribers.
type Event struct {
	Kind   EventKind        `json:"kind"`
	Layout *LayoutEvent     `json:"layout,omitempty"`
	Device *devices.Message `json:"device,omitempty"`
	Toast  *Toast           `json:"toast,omitempty"`
	Theme  *AppliedTheme    `json:"theme,omitempty"`
}

// BroadcastHook fans out events to in-process subscribers. Slow subscribers
// miss events rather than blocking publishers.
type BroadcastHook struct {
	mu   sync.RWMutex
	subs map[int]chan Event
	next int
}

// NewBroadcastHook creates a broadcast hook.
func NewBroadcastHook() *BroadcastHook {
	return &BroadcastHook{subs: make(map[int]chan Event)}
}

// Publish delivers event to every subscriber with buffer space.
func (h *BroadcastHook) Publish(event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, ch := range h.subs {
		select {
		case ch <- event:
		default:
		}
	}
}

// LayoutUpdated satisfies RefreshHook.
func (h *BroadcastHook) LayoutUpdated(_ context.Context, event LayoutEvent) error {
	h.Publish(Event{Kind: EventLayout, Layout: &event})
	return nil
}

// Notify satisfies Notifier.
func (h *BroadcastHook) Notify(_ context.Context, toast Toast) {
	h.Publish(Event{Kind: EventToast, Toast: &toast})
}

// ThemeApplied relays a theme change.
func (h *BroadcastHook) ThemeApplied(theme AppliedTheme) {
	h.Publish(Event{Kind: EventTheme, Theme: &theme})
}

// FeedListener relays live feed messages.
func (h *BroadcastHook) FeedListener() devices.Listener {
	return func(msg devices.Message) {
		h.Publish(Event{Kind: EventDevice, Device: &msg})
	}
}

// Subscribe returns a channel of events and a cancel func.
func (h *BroadcastHook) Subscribe() (<-chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.next
	h.next++
	ch := make(chan Event, 16)
	h.subs[id] = ch
	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if sub, ok := h.subs[id]; ok {
			delete(h.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

// Subscribers returns the number of live subscriptions.
func (h *BroadcastHook) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWebSocket upgrades the request and streams events as JSON.
func (h *BroadcastHook) ServeWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	events, cancel := h.Subscribe()
	defer cancel()

	// Clients never send data; reading surfaces the close frame.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-closed:
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			if err := conn.WriteJSON(event); err != nil {
				return
			}
		}
	}
}

// ServeSSE provides a Server-Sent Events endpoint.
func (h *BroadcastHook) ServeSSE(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	events, cancel := h.Subscribe()
	defer cancel()

	encoder := json.NewEncoder(w)
	flusher, _ := w.(http.Flusher)
	if flusher != nil {
		flusher.Flush()
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			w.Write([]byte("event: " + string(event.Kind) + "\ndata: "))
			if err := encoder.Encode(event); err != nil {
				return
			}
			w.Write([]byte("\n"))
			if flusher != nil {
				flusher.Flush()
			}
		}
	}
}
