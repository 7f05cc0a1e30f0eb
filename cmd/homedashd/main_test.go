package main

import (
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/goliatone/go-home-dashboard/components/dashboard"
	"github.com/goliatone/go-home-dashboard/components/devices"
)

func TestWireFeedAppliesAndRelaysUpdates(t *testing.T) {
	clock := func() time.Time { return time.Unix(1700000000, 0) }
	reg := prometheus.NewRegistry()
	metrics := devices.NewMetrics(reg)
	registry := devices.NewRegistry(devices.RegistryOptions{Clock: clock, Observer: metrics})
	broadcast := dashboard.NewBroadcastHook()
	events, cancel := broadcast.Subscribe()
	defer cancel()

	feed := devices.NewFeed(devices.FeedOptions{
		DeviceIDs: []string{"device-2"},
		Rand:      rand.New(rand.NewSource(1)),
		Clock:     clock,
	})
	wireFeed(feed, registry, broadcast, metrics, zap.NewNop())
	feed.Tick()

	select {
	case event := <-events:
		assert.Equal(t, dashboard.EventDevice, event.Kind)
		require.NotNil(t, event.Device)
		require.NotNil(t, event.Device.Update)
		assert.Equal(t, "device-2", event.Device.Update.DeviceID)
	case <-time.After(time.Second):
		t.Fatal("expected relayed feed message")
	}

	rec := httptest.NewRecorder()
	opsHandler(reg, broadcast).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `device_changes_total{id="device-2",reason="feed"} 1`))
	assert.True(t, strings.Contains(rec.Body.String(), `device_feed_messages_total{event="deviceUpdate"} 1`))
}

func TestOpsHandlerHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	opsHandler(prometheus.NewRegistry(), dashboard.NewBroadcastHook()).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}
