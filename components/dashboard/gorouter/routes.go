package gorouter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"

	router "github.com/goliatone/go-router"

	"github.com/goliatone/go-home-dashboard/components/dashboard"
	"github.com/goliatone/go-home-dashboard/components/dashboard/commands"
	"github.com/goliatone/go-home-dashboard/components/dashboard/httpapi"
	"github.com/goliatone/go-home-dashboard/components/dashboard/queries"
	"github.com/goliatone/go-home-dashboard/components/devices"
)

// Config wires go-router with the home dashboard controller, API and hooks.
type Config[T any] struct {
	Router     router.Router[T]
	Controller *dashboard.Controller
	API        httpapi.Executor
	Broadcast  *dashboard.BroadcastHook
	BasePath   string
	Routes     RouteConfig
}

// RouteConfig customizes the relative paths used for dashboard endpoints.
type RouteConfig struct {
	HTML      string
	Layout    string
	Widgets   string
	WidgetID  string
	Duplicate string
	Reorder   string
	Drop      string
	Drag      string
	DragEnd   string
	EditMode  string
	Reset     string
	Theme     string
	Templates string
	Devices   string
	DeviceID  string
	Toggle    string
	Presets   string
	PresetID  string
	Default   string
	WebSocket string
}

// Register mounts dashboard routes (HTML, JSON, REST, WebSocket) on a go-router router.
func Register[T any](cfg Config[T]) error {
	if cfg.Router == nil {
		return errors.New("gorouter: router is required")
	}
	if cfg.Controller == nil {
		return errors.New("gorouter: controller is required")
	}
	routes := defaultRouteConfig(cfg.Routes)
	base := cfg.BasePath
	if base == "" {
		base = "/home"
	}

	group := cfg.Router.Group(base)
	h := handlers{controller: cfg.Controller, api: cfg.API}

	group.Get(routes.HTML, router.WrapHandler(func(ctx router.Context) error {
		var buf bytes.Buffer
		if _, err := cfg.Controller.RenderTemplate(ctx.Context(), &buf); err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		ctx.SetHeader("Content-Type", "text/html; charset=utf-8")
		return ctx.Send(buf.Bytes())
	}))
	group.Get(routes.Layout, router.WrapHandler(func(ctx router.Context) error { return h.layout(ctx) }))

	if cfg.API != nil {
		registerAPI(group, h, routes)
	}
	if cfg.Broadcast != nil {
		registerWebSocket(group, cfg.Broadcast, routes.WebSocket)
	}
	return nil
}

func registerAPI[T any](r router.Router[T], h handlers, routes RouteConfig) {
	r.Post(routes.Widgets, router.WrapHandler(func(ctx router.Context) error { return h.addWidget(ctx) }))
	r.Put(routes.WidgetID, router.WrapHandler(func(ctx router.Context) error { return h.updateWidget(ctx) }))
	r.Delete(routes.WidgetID, router.WrapHandler(func(ctx router.Context) error { return h.removeWidget(ctx) }))
	r.Post(routes.Duplicate, router.WrapHandler(func(ctx router.Context) error { return h.duplicateWidget(ctx) }))
	r.Post(routes.Reorder, router.WrapHandler(func(ctx router.Context) error { return h.reorder(ctx) }))
	r.Post(routes.Drop, router.WrapHandler(func(ctx router.Context) error { return h.drop(ctx) }))
	r.Post(routes.Drag, router.WrapHandler(func(ctx router.Context) error { return h.beginDrag(ctx) }))
	r.Delete(routes.Drag, router.WrapHandler(func(ctx router.Context) error { return h.cancelDrag(ctx) }))
	r.Post(routes.DragEnd, router.WrapHandler(func(ctx router.Context) error { return h.endDrag(ctx) }))
	r.Post(routes.EditMode, router.WrapHandler(func(ctx router.Context) error { return h.editMode(ctx) }))
	r.Post(routes.Reset, router.WrapHandler(func(ctx router.Context) error { return h.reset(ctx) }))

	r.Get(routes.Theme, router.WrapHandler(func(ctx router.Context) error { return h.themes(ctx) }))
	r.Post(routes.Theme, router.WrapHandler(func(ctx router.Context) error { return h.applyTheme(ctx) }))
	r.Get(routes.Templates, router.WrapHandler(func(ctx router.Context) error {
		return h.templates(ctx, ctx.Query("q"))
	}))

	r.Get(routes.Devices, router.WrapHandler(func(ctx router.Context) error {
		return h.devices(ctx, ctx.Query("room"))
	}))
	r.Post(routes.Toggle, router.WrapHandler(func(ctx router.Context) error { return h.toggleDevice(ctx) }))
	r.Put(routes.DeviceID, router.WrapHandler(func(ctx router.Context) error { return h.updateDevice(ctx) }))

	r.Get(routes.Presets, router.WrapHandler(func(ctx router.Context) error { return h.presets(ctx) }))
	r.Post(routes.Presets, router.WrapHandler(func(ctx router.Context) error { return h.createPreset(ctx) }))
	r.Post(routes.Default, router.WrapHandler(func(ctx router.Context) error { return h.saveDefault(ctx) }))
	r.Post(routes.PresetID, router.WrapHandler(func(ctx router.Context) error { return h.applyPreset(ctx) }))
}

func registerWebSocket[T any](r router.Router[T], hook *dashboard.BroadcastHook, path string) {
	cfg := router.DefaultWebSocketConfig()
	r.WebSocket(path, cfg, func(ws router.WebSocketContext) error {
		events, cancel := hook.Subscribe()
		defer cancel()
		for {
			select {
			case event, ok := <-events:
				if !ok {
					return nil
				}
				if err := ws.WriteJSON(event); err != nil {
					return err
				}
			case <-ws.Context().Done():
				return ws.Close()
			}
		}
	})
}

// requestContext is the slice of router.Context the JSON handlers need.
type requestContext interface {
	Context() context.Context
	Body() []byte
	Param(name string, defaultValue ...string) string
	JSON(code int, v any) error
}

type handlers struct {
	controller *dashboard.Controller
	api        httpapi.Executor
}

func (h handlers) layout(ctx requestContext) error {
	payload, err := h.controller.LayoutPayload(ctx.Context())
	if err != nil {
		return respondError(ctx, http.StatusInternalServerError, err)
	}
	return ctx.JSON(http.StatusOK, payload)
}

func (h handlers) addWidget(ctx requestContext) error {
	var payload dashboard.Widget
	if err := decode(ctx, &payload); err != nil {
		return respondError(ctx, http.StatusBadRequest, err)
	}
	widget, err := h.api.AddWidget(ctx.Context(), payload)
	if err != nil {
		return respondError(ctx, httpapi.StatusFor(err), err)
	}
	return ctx.JSON(http.StatusCreated, widget)
}

func (h handlers) updateWidget(ctx requestContext) error {
	var patch dashboard.WidgetPatch
	if err := decode(ctx, &patch); err != nil {
		return respondError(ctx, http.StatusBadRequest, err)
	}
	widget, err := h.api.UpdateWidget(ctx.Context(), ctx.Param("id"), patch)
	if err != nil {
		return respondError(ctx, httpapi.StatusFor(err), err)
	}
	return ctx.JSON(http.StatusOK, widget)
}

func (h handlers) removeWidget(ctx requestContext) error {
	id := ctx.Param("id")
	if id == "" {
		return respondError(ctx, http.StatusBadRequest, errors.New("widget id is required"))
	}
	if err := h.api.RemoveWidget(ctx.Context(), id); err != nil {
		return respondError(ctx, httpapi.StatusFor(err), err)
	}
	return ctx.JSON(http.StatusOK, map[string]string{"status": "removed"})
}

func (h handlers) duplicateWidget(ctx requestContext) error {
	widget, err := h.api.DuplicateWidget(ctx.Context(), ctx.Param("id"))
	if err != nil {
		return respondError(ctx, httpapi.StatusFor(err), err)
	}
	return ctx.JSON(http.StatusCreated, widget)
}

func (h handlers) reorder(ctx requestContext) error {
	var payload commands.ReorderWidgetsInput
	if err := decode(ctx, &payload); err != nil {
		return respondError(ctx, http.StatusBadRequest, err)
	}
	widgets, err := h.api.Reorder(ctx.Context(), payload.WidgetIDs)
	if err != nil {
		return respondError(ctx, httpapi.StatusFor(err), err)
	}
	return ctx.JSON(http.StatusOK, widgets)
}

func (h handlers) drop(ctx requestContext) error {
	var payload commands.DropWidgetInput
	if err := decode(ctx, &payload); err != nil {
		return respondError(ctx, http.StatusBadRequest, err)
	}
	result, err := h.api.Drop(ctx.Context(), payload)
	if err != nil {
		return respondError(ctx, httpapi.StatusFor(err), err)
	}
	return ctx.JSON(http.StatusOK, result)
}

func (h handlers) beginDrag(ctx requestContext) error {
	var payload commands.BeginDragInput
	if err := decode(ctx, &payload); err != nil {
		return respondError(ctx, http.StatusBadRequest, err)
	}
	state, err := h.api.BeginDrag(ctx.Context(), payload.Source)
	if err != nil {
		return respondError(ctx, httpapi.StatusFor(err), err)
	}
	return ctx.JSON(http.StatusOK, map[string]dashboard.DragState{"state": state})
}

func (h handlers) endDrag(ctx requestContext) error {
	var payload commands.EndDragInput
	if err := decode(ctx, &payload); err != nil {
		return respondError(ctx, http.StatusBadRequest, err)
	}
	result, err := h.api.EndDrag(ctx.Context(), payload.TargetID)
	if err != nil {
		return respondError(ctx, httpapi.StatusFor(err), err)
	}
	return ctx.JSON(http.StatusOK, result)
}

func (h handlers) cancelDrag(ctx requestContext) error {
	if err := h.api.CancelDrag(ctx.Context()); err != nil {
		return respondError(ctx, httpapi.StatusFor(err), err)
	}
	return ctx.JSON(http.StatusOK, map[string]dashboard.DragState{"state": dashboard.DragIdle})
}

func (h handlers) editMode(ctx requestContext) error {
	var payload commands.EditModeInput
	if err := decode(ctx, &payload); err != nil {
		return respondError(ctx, http.StatusBadRequest, err)
	}
	state, err := h.api.EditMode(ctx.Context(), payload)
	if err != nil {
		return respondError(ctx, httpapi.StatusFor(err), err)
	}
	return ctx.JSON(http.StatusOK, state)
}

func (h handlers) reset(ctx requestContext) error {
	cfg, err := h.api.Reset(ctx.Context())
	if err != nil {
		return respondError(ctx, httpapi.StatusFor(err), err)
	}
	return ctx.JSON(http.StatusOK, cfg)
}

func (h handlers) themes(ctx requestContext) error {
	catalog, err := h.api.Themes(ctx.Context())
	if err != nil {
		return respondError(ctx, httpapi.StatusFor(err), err)
	}
	return ctx.JSON(http.StatusOK, catalog)
}

func (h handlers) applyTheme(ctx requestContext) error {
	var payload commands.ApplyThemeInput
	if err := decode(ctx, &payload); err != nil {
		return respondError(ctx, http.StatusBadRequest, err)
	}
	applied, err := h.api.ApplyTheme(ctx.Context(), payload.ThemeID)
	if err != nil {
		return respondError(ctx, httpapi.StatusFor(err), err)
	}
	return ctx.JSON(http.StatusOK, applied)
}

func (h handlers) templates(ctx requestContext, search string) error {
	list, err := h.api.Templates(ctx.Context(), search)
	if err != nil {
		return respondError(ctx, httpapi.StatusFor(err), err)
	}
	return ctx.JSON(http.StatusOK, list)
}

func (h handlers) devices(ctx requestContext, room string) error {
	list, err := h.api.Devices(ctx.Context(), queries.DevicesInput{Room: room})
	if err != nil {
		return respondError(ctx, httpapi.StatusFor(err), err)
	}
	return ctx.JSON(http.StatusOK, list)
}

func (h handlers) toggleDevice(ctx requestContext) error {
	device, err := h.api.ToggleDevice(ctx.Context(), ctx.Param("id"))
	if err != nil {
		return respondError(ctx, httpapi.StatusFor(err), err)
	}
	return ctx.JSON(http.StatusOK, device)
}

func (h handlers) updateDevice(ctx requestContext) error {
	var patch devices.DevicePatch
	if err := decode(ctx, &patch); err != nil {
		return respondError(ctx, http.StatusBadRequest, err)
	}
	device, err := h.api.UpdateDevice(ctx.Context(), ctx.Param("id"), patch)
	if err != nil {
		return respondError(ctx, httpapi.StatusFor(err), err)
	}
	return ctx.JSON(http.StatusOK, device)
}

func (h handlers) presets(ctx requestContext) error {
	list, err := h.api.Presets(ctx.Context())
	if err != nil {
		return respondError(ctx, httpapi.StatusFor(err), err)
	}
	return ctx.JSON(http.StatusOK, list)
}

func (h handlers) createPreset(ctx requestContext) error {
	var payload commands.CreatePresetInput
	if err := decode(ctx, &payload); err != nil {
		return respondError(ctx, http.StatusBadRequest, err)
	}
	preset, err := h.api.CreatePreset(ctx.Context(), payload.Name, payload.Description)
	if err != nil {
		return respondError(ctx, httpapi.StatusFor(err), err)
	}
	return ctx.JSON(http.StatusCreated, preset)
}

func (h handlers) applyPreset(ctx requestContext) error {
	preset, err := h.api.ApplyPreset(ctx.Context(), ctx.Param("id"))
	if err != nil {
		return respondError(ctx, httpapi.StatusFor(err), err)
	}
	return ctx.JSON(http.StatusOK, preset)
}

func (h handlers) saveDefault(ctx requestContext) error {
	preset, err := h.api.SaveDefaultPreset(ctx.Context())
	if err != nil {
		return respondError(ctx, httpapi.StatusFor(err), err)
	}
	return ctx.JSON(http.StatusOK, preset)
}

// decode accepts an empty body as the zero value.
func decode(ctx requestContext, v any) error {
	body := ctx.Body()
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	return json.Unmarshal(body, v)
}

type jsonResponder interface {
	JSON(code int, v any) error
}

func respondError(ctx jsonResponder, status int, err error) error {
	return ctx.JSON(status, map[string]string{"error": err.Error()})
}

func defaultRouteConfig(routes RouteConfig) RouteConfig {
	defaults := RouteConfig{
		HTML:      "/dashboard",
		Layout:    "/dashboard/_layout",
		Widgets:   "/dashboard/widgets",
		WidgetID:  "/dashboard/widgets/:id",
		Duplicate: "/dashboard/widgets/:id/duplicate",
		Reorder:   "/dashboard/reorder",
		Drop:      "/dashboard/drop",
		Drag:      "/dashboard/drag",
		DragEnd:   "/dashboard/drag/end",
		EditMode:  "/dashboard/edit-mode",
		Reset:     "/dashboard/reset",
		Theme:     "/dashboard/theme",
		Templates: "/dashboard/templates",
		Devices:   "/dashboard/devices",
		DeviceID:  "/dashboard/devices/:id",
		Toggle:    "/dashboard/devices/:id/toggle",
		Presets:   "/dashboard/presets",
		PresetID:  "/dashboard/presets/:id/apply",
		Default:   "/dashboard/presets/default",
		WebSocket: "/dashboard/ws",
	}
	fill := func(dst *string, def string) {
		if *dst == "" {
			*dst = def
		}
	}
	fill(&routes.HTML, defaults.HTML)
	fill(&routes.Layout, defaults.Layout)
	fill(&routes.Widgets, defaults.Widgets)
	fill(&routes.WidgetID, defaults.WidgetID)
	fill(&routes.Duplicate, defaults.Duplicate)
	fill(&routes.Reorder, defaults.Reorder)
	fill(&routes.Drop, defaults.Drop)
	fill(&routes.Drag, defaults.Drag)
	fill(&routes.DragEnd, defaults.DragEnd)
	fill(&routes.EditMode, defaults.EditMode)
	fill(&routes.Reset, defaults.Reset)
	fill(&routes.Theme, defaults.Theme)
	fill(&routes.Templates, defaults.Templates)
	fill(&routes.Devices, defaults.Devices)
	fill(&routes.DeviceID, defaults.DeviceID)
	fill(&routes.Toggle, defaults.Toggle)
	fill(&routes.Presets, defaults.Presets)
	fill(&routes.PresetID, defaults.PresetID)
	fill(&routes.Default, defaults.Default)
	fill(&routes.WebSocket, defaults.WebSocket)
	return routes
}
