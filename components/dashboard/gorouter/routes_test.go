package gorouter

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/goliatone/go-home-dashboard/components/dashboard"
	"github.com/goliatone/go-home-dashboard/components/dashboard/commands"
	"github.com/goliatone/go-home-dashboard/components/dashboard/httpapi"
	"github.com/goliatone/go-home-dashboard/components/devices"
)

func TestRegisterValidatesConfig(t *testing.T) {
	if err := Register(Config[struct{}]{}); err == nil {
		t.Fatalf("expected error when router/controller missing")
	}
}

func TestDefaultRouteConfigKeepsOverrides(t *testing.T) {
	routes := defaultRouteConfig(RouteConfig{Layout: "/layout.json"})
	if routes.Layout != "/layout.json" {
		t.Fatalf("override lost: %q", routes.Layout)
	}
	if routes.Toggle != "/dashboard/devices/:id/toggle" || routes.WebSocket != "/dashboard/ws" {
		t.Fatalf("unexpected defaults %+v", routes)
	}
}

func TestLayoutHandler(t *testing.T) {
	service := dashboard.NewService(dashboard.Options{})
	h := handlers{controller: dashboard.NewController(dashboard.ControllerOptions{Service: service})}

	ctx := newMockContext()
	if err := h.layout(ctx); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if ctx.status != http.StatusOK {
		t.Fatalf("expected 200, got %d", ctx.status)
	}
	var payload dashboard.LayoutPayload
	if err := json.Unmarshal(ctx.body, &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if payload.Grid.WidgetCount != 6 {
		t.Fatalf("expected 6 widgets, got %d", payload.Grid.WidgetCount)
	}
}

func TestAddWidgetHandler(t *testing.T) {
	api := &stubExecutor{}
	h := handlers{api: api}

	ctx := newMockContext()
	ctx.request = []byte(`{"deviceId":"device-5","type":"light"}`)
	if err := h.addWidget(ctx); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if ctx.status != http.StatusCreated {
		t.Fatalf("expected 201, got %d", ctx.status)
	}
	if api.added.DeviceID != "device-5" || api.added.Type != dashboard.WidgetLight {
		t.Fatalf("unexpected widget %+v", api.added)
	}

	bad := newMockContext()
	bad.request = []byte(`{`)
	if err := h.addWidget(bad); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if bad.status != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", bad.status)
	}
}

func TestHandlersMapNotFound(t *testing.T) {
	h := handlers{api: &stubExecutor{}}

	ctx := newMockContext()
	ctx.params["id"] = "widget-404"
	if err := h.updateWidget(ctx); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if ctx.status != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", ctx.status)
	}

	toggle := newMockContext()
	toggle.params["id"] = "device-404"
	if err := h.toggleDevice(toggle); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if toggle.status != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", toggle.status)
	}
}

func TestRemoveWidgetRequiresID(t *testing.T) {
	h := handlers{api: &stubExecutor{}}
	ctx := newMockContext()
	if err := h.removeWidget(ctx); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if ctx.status != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", ctx.status)
	}
}

func TestEditModeHandlerDecodesBody(t *testing.T) {
	api := &stubExecutor{}
	h := handlers{api: api}
	ctx := newMockContext()
	ctx.request = []byte(`{"toggle":true,"select":"widget-2"}`)
	if err := h.editMode(ctx); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if !api.editMode.Toggle || api.editMode.Select == nil || *api.editMode.Select != "widget-2" {
		t.Fatalf("unexpected input %+v", api.editMode)
	}
}

func TestDragHandlers(t *testing.T) {
	api := &stubExecutor{}
	h := handlers{api: api}

	begin := newMockContext()
	begin.request = []byte(`{"source":{"kind":"widget","id":"widget-2"}}`)
	if err := h.beginDrag(begin); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if begin.status != http.StatusConflict {
		t.Fatalf("expected 409 outside edit mode, got %d", begin.status)
	}
	if api.dragSource.ID != "widget-2" {
		t.Fatalf("unexpected source %+v", api.dragSource)
	}

	end := newMockContext()
	end.request = []byte(`{"targetId":"widget-4"}`)
	if err := h.endDrag(end); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if end.status != http.StatusOK || api.dragTarget != "widget-4" {
		t.Fatalf("unexpected end drag status %d target %q", end.status, api.dragTarget)
	}

	cancel := newMockContext()
	if err := h.cancelDrag(cancel); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if cancel.status != http.StatusOK || !api.cancelled {
		t.Fatalf("expected cancel to reach the executor")
	}
}

// --- Test helpers ---

type mockContext struct {
	ctx     context.Context
	request []byte
	body    []byte
	params  map[string]string
	status  int
}

func newMockContext() *mockContext {
	return &mockContext{
		ctx:    context.Background(),
		params: map[string]string{},
	}
}

func (m *mockContext) Context() context.Context { return m.ctx }

func (m *mockContext) Body() []byte { return m.request }

func (m *mockContext) Param(name string, defaultValue ...string) string {
	if v, ok := m.params[name]; ok {
		return v
	}
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return ""
}

func (m *mockContext) JSON(code int, v any) error {
	m.status = code
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	m.body = data
	return nil
}

// stubExecutor overrides the calls the tests make; anything else panics on
// the nil embedded interface.
type stubExecutor struct {
	httpapi.Executor
	added      dashboard.Widget
	editMode   commands.EditModeInput
	dragSource dashboard.DragSource
	dragTarget string
	cancelled  bool
}

func (s *stubExecutor) BeginDrag(_ context.Context, source dashboard.DragSource) (dashboard.DragState, error) {
	s.dragSource = source
	return dashboard.DragIdle, dashboard.ErrEditModeOff
}

func (s *stubExecutor) EndDrag(_ context.Context, targetID string) (dashboard.DropResult, error) {
	s.dragTarget = targetID
	return dashboard.DropResult{Outcome: dashboard.DropMoved}, nil
}

func (s *stubExecutor) CancelDrag(context.Context) error {
	s.cancelled = true
	return nil
}

func (s *stubExecutor) AddWidget(_ context.Context, w dashboard.Widget) (dashboard.Widget, error) {
	s.added = w
	w.ID = "widget-new"
	return w, nil
}

func (s *stubExecutor) UpdateWidget(context.Context, string, dashboard.WidgetPatch) (dashboard.Widget, error) {
	return dashboard.Widget{}, httpapi.ErrWidgetNotFound
}

func (s *stubExecutor) RemoveWidget(context.Context, string) error { return nil }

func (s *stubExecutor) ToggleDevice(_ context.Context, id string) (devices.Device, error) {
	return devices.Device{}, devices.ErrDeviceNotFound
}

func (s *stubExecutor) EditMode(_ context.Context, input commands.EditModeInput) (dashboard.EditModeState, error) {
	s.editMode = input
	return dashboard.EditModeState{Enabled: true}, nil
}
