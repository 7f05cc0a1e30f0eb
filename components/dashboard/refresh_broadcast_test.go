package dashboard

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-home-dashboard/components/devices"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroadcastHookSubscribe(t *testing.T) {
	hook := NewBroadcastHook()
	ch, cancel := hook.Subscribe()
	defer cancel()

	event := LayoutEvent{ViewID: DefaultViewID, Reason: "add"}
	if err := hook.LayoutUpdated(context.Background(), event); err != nil {
		t.Fatalf("LayoutUpdated returned error: %v", err)
	}
	select {
	case e := <-ch:
		if e.Kind != EventLayout || e.Layout == nil || e.Layout.Reason != "add" {
			t.Fatalf("unexpected event %+v", e)
		}
	default:
		t.Fatalf("expected event to be delivered")
	}
}

func TestBroadcastHookRelaysEverything(t *testing.T) {
	hook := NewBroadcastHook()
	ch, cancel := hook.Subscribe()

	hook.Notify(context.Background(), Toast{Variant: ToastInfo, Title: "hello"})
	hook.ThemeApplied(AppliedTheme{Requested: "ocean"})
	hook.FeedListener()(devices.Message{Event: "connected"})

	kinds := []EventKind{(<-ch).Kind, (<-ch).Kind, (<-ch).Kind}
	assert.Equal(t, []EventKind{EventToast, EventTheme, EventDevice}, kinds)

	assert.Equal(t, 1, hook.Subscribers())
	cancel()
	cancel()
	assert.Equal(t, 0, hook.Subscribers())
	_, open := <-ch
	assert.False(t, open)
}

func TestBroadcastHookDropsWhenSubscriberIsFull(t *testing.T) {
	hook := NewBroadcastHook()
	ch, cancel := hook.Subscribe()
	defer cancel()
	for i := 0; i < 40; i++ {
		hook.Publish(Event{Kind: EventToast})
	}
	assert.Len(t, ch, cap(ch))
}

func TestBroadcastHookServeSSE(t *testing.T) {
	hook := NewBroadcastHook()
	server := httptest.NewServer(http.HandlerFunc(hook.ServeSSE))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	require.Eventually(t, func() bool { return hook.Subscribers() == 1 }, time.Second, 5*time.Millisecond)
	hook.Notify(context.Background(), Toast{Variant: ToastSuccess, Title: "saved"})

	reader := bufio.NewReader(resp.Body)
	line, err := reader.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "event: toast\n", line)
	line, err = reader.ReadString('\n')
	require.NoError(t, err)
	payload := strings.TrimPrefix(strings.TrimSpace(line), "data: ")
	var event Event
	require.NoError(t, json.Unmarshal([]byte(payload), &event))
	require.NotNil(t, event.Toast)
	assert.Equal(t, "saved", event.Toast.Title)
}

func TestBroadcastHookServeWebSocket(t *testing.T) {
	hook := NewBroadcastHook()
	server := httptest.NewServer(http.HandlerFunc(hook.ServeWebSocket))
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hook.Subscribers() == 1 }, time.Second, 5*time.Millisecond)
	hook.ThemeApplied(AppliedTheme{Requested: "forest"})

	var event Event
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, conn.ReadJSON(&event))
	assert.Equal(t, EventTheme, event.Kind)
	require.NotNil(t, event.Theme)
	assert.Equal(t, "forest", event.Theme.Requested)
}
