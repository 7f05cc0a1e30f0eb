package httpapi

import (
	"context"
	"errors"
	"net/http"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-home-dashboard/components/dashboard"
	"github.com/goliatone/go-home-dashboard/components/dashboard/commands"
	"github.com/goliatone/go-home-dashboard/components/dashboard/queries"
	"github.com/goliatone/go-home-dashboard/components/devices"
)

// ErrWidgetNotFound is reported when a widget operation targets an unknown id.
// The service itself treats that as a no-op; transports surface it as 404.
var ErrWidgetNotFound = errors.New("httpapi: widget not found")

// Executor is the transport facing API. Every mutation runs a command and
// every read runs a query.
type Executor interface {
	AddWidget(ctx context.Context, w dashboard.Widget) (dashboard.Widget, error)
	UpdateWidget(ctx context.Context, id string, patch dashboard.WidgetPatch) (dashboard.Widget, error)
	RemoveWidget(ctx context.Context, id string) error
	DuplicateWidget(ctx context.Context, id string) (dashboard.Widget, error)
	Reorder(ctx context.Context, ids []string) ([]dashboard.Widget, error)
	Drop(ctx context.Context, input commands.DropWidgetInput) (dashboard.DropResult, error)
	BeginDrag(ctx context.Context, source dashboard.DragSource) (dashboard.DragState, error)
	EndDrag(ctx context.Context, targetID string) (dashboard.DropResult, error)
	CancelDrag(ctx context.Context) error
	EditMode(ctx context.Context, input commands.EditModeInput) (dashboard.EditModeState, error)
	ApplyTheme(ctx context.Context, id string) (dashboard.AppliedTheme, error)
	ToggleDevice(ctx context.Context, id string) (devices.Device, error)
	UpdateDevice(ctx context.Context, id string, patch devices.DevicePatch) (devices.Device, error)
	CreatePreset(ctx context.Context, name, description string) (dashboard.Preset, error)
	ApplyPreset(ctx context.Context, id string) (dashboard.Preset, error)
	SaveDefaultPreset(ctx context.Context) (dashboard.Preset, error)
	Reset(ctx context.Context) (dashboard.Configuration, error)
	Refresh(ctx context.Context, event dashboard.LayoutEvent) error

	Layout(ctx context.Context, input queries.LayoutInput) (dashboard.LayoutPayload, error)
	Devices(ctx context.Context, input queries.DevicesInput) ([]devices.Device, error)
	Presets(ctx context.Context) ([]dashboard.Preset, error)
	Themes(ctx context.Context) (queries.ThemeCatalog, error)
	Templates(ctx context.Context, search string) ([]dashboard.WidgetTemplate, error)
}

// CommandExecutor implements Executor over go-command handlers.
type CommandExecutor struct {
	Add           gocommand.Commander[commands.AddWidgetInput]
	Update        gocommand.Commander[commands.UpdateWidgetInput]
	Remove        gocommand.Commander[commands.RemoveWidgetInput]
	Duplicate     gocommand.Commander[commands.DuplicateWidgetInput]
	ReorderCmd    gocommand.Commander[commands.ReorderWidgetsInput]
	DropCmd       gocommand.Commander[commands.DropWidgetInput]
	DragBegin     gocommand.Commander[commands.BeginDragInput]
	DragEnd       gocommand.Commander[commands.EndDragInput]
	DragCancel    gocommand.Commander[commands.CancelDragInput]
	EditModeCmd   gocommand.Commander[commands.EditModeInput]
	Theme         gocommand.Commander[commands.ApplyThemeInput]
	Toggle        gocommand.Commander[commands.ToggleDeviceInput]
	DeviceUpdate  gocommand.Commander[commands.UpdateDeviceInput]
	PresetCreate  gocommand.Commander[commands.CreatePresetInput]
	PresetApply   gocommand.Commander[commands.ApplyPresetInput]
	PresetDefault gocommand.Commander[commands.SaveDefaultPresetInput]
	ResetCmd      gocommand.Commander[commands.ResetDashboardInput]
	RefreshCmd    gocommand.Commander[commands.RefreshLayoutInput]

	LayoutQuery    gocommand.Querier[queries.LayoutInput, dashboard.LayoutPayload]
	DevicesQuery   gocommand.Querier[queries.DevicesInput, []devices.Device]
	PresetsQuery   gocommand.Querier[queries.PresetsInput, []dashboard.Preset]
	ThemesQuery    gocommand.Querier[queries.ThemesInput, queries.ThemeCatalog]
	TemplatesQuery gocommand.Querier[queries.TemplatesInput, []dashboard.WidgetTemplate]
}

var _ Executor = (*CommandExecutor)(nil)

// NewCommandExecutor wires every command and query against a bootstrapped
// dashboard and the device registry.
func NewCommandExecutor(components *dashboard.Components, registry *devices.Registry, telemetry commands.Telemetry) *CommandExecutor {
	service := components.Service
	return &CommandExecutor{
		Add:           commands.NewAddWidgetCommand(service, telemetry),
		Update:        commands.NewUpdateWidgetCommand(service, telemetry),
		Remove:        commands.NewRemoveWidgetCommand(service, telemetry),
		Duplicate:     commands.NewDuplicateWidgetCommand(service, telemetry),
		ReorderCmd:    commands.NewReorderWidgetsCommand(service, telemetry),
		DropCmd:       commands.NewDropWidgetCommand(service, components.Templates, telemetry),
		DragBegin:     commands.NewBeginDragCommand(service, components.Templates, telemetry),
		DragEnd:       commands.NewEndDragCommand(service, telemetry),
		DragCancel:    commands.NewCancelDragCommand(service, telemetry),
		EditModeCmd:   commands.NewEditModeCommand(components.EditMode, telemetry),
		Theme:         commands.NewApplyThemeCommand(components, telemetry),
		Toggle:        commands.NewToggleDeviceCommand(registry, telemetry),
		DeviceUpdate:  commands.NewUpdateDeviceCommand(registry, telemetry),
		PresetCreate:  commands.NewCreatePresetCommand(service, telemetry),
		PresetApply:   commands.NewApplyPresetCommand(service, telemetry),
		PresetDefault: commands.NewSaveDefaultPresetCommand(service, telemetry),
		ResetCmd:      commands.NewResetDashboardCommand(service, components.EditMode, telemetry),
		RefreshCmd:    commands.NewRefreshLayoutCommand(service, telemetry),

		LayoutQuery:    queries.NewLayoutQuery(components.Controller, service),
		DevicesQuery:   queries.NewDevicesQuery(registry),
		PresetsQuery:   queries.NewPresetsQuery(service),
		ThemesQuery:    queries.NewThemesQuery(components.Themes),
		TemplatesQuery: queries.NewTemplatesQuery(components.Templates),
	}
}

func (e *CommandExecutor) AddWidget(ctx context.Context, w dashboard.Widget) (dashboard.Widget, error) {
	var out dashboard.Widget
	err := e.Add.Execute(ctx, commands.AddWidgetInput{Widget: w, Result: &out})
	return out, err
}

func (e *CommandExecutor) UpdateWidget(ctx context.Context, id string, patch dashboard.WidgetPatch) (dashboard.Widget, error) {
	var out dashboard.Widget
	if err := e.Update.Execute(ctx, commands.UpdateWidgetInput{WidgetID: id, Patch: patch, Result: &out}); err != nil {
		return dashboard.Widget{}, err
	}
	if out.ID == "" {
		return dashboard.Widget{}, ErrWidgetNotFound
	}
	return out, nil
}

func (e *CommandExecutor) RemoveWidget(ctx context.Context, id string) error {
	return e.Remove.Execute(ctx, commands.RemoveWidgetInput{WidgetID: id})
}

func (e *CommandExecutor) DuplicateWidget(ctx context.Context, id string) (dashboard.Widget, error) {
	var out dashboard.Widget
	if err := e.Duplicate.Execute(ctx, commands.DuplicateWidgetInput{WidgetID: id, Result: &out}); err != nil {
		return dashboard.Widget{}, err
	}
	if out.ID == "" {
		return dashboard.Widget{}, ErrWidgetNotFound
	}
	return out, nil
}

func (e *CommandExecutor) Reorder(ctx context.Context, ids []string) ([]dashboard.Widget, error) {
	var out []dashboard.Widget
	err := e.ReorderCmd.Execute(ctx, commands.ReorderWidgetsInput{WidgetIDs: ids, Result: &out})
	return out, err
}

func (e *CommandExecutor) Drop(ctx context.Context, input commands.DropWidgetInput) (dashboard.DropResult, error) {
	var out dashboard.DropResult
	input.Result = &out
	err := e.DropCmd.Execute(ctx, input)
	return out, err
}

func (e *CommandExecutor) BeginDrag(ctx context.Context, source dashboard.DragSource) (dashboard.DragState, error) {
	var out dashboard.DragState
	err := e.DragBegin.Execute(ctx, commands.BeginDragInput{Source: source, Result: &out})
	return out, err
}

func (e *CommandExecutor) EndDrag(ctx context.Context, targetID string) (dashboard.DropResult, error) {
	var out dashboard.DropResult
	err := e.DragEnd.Execute(ctx, commands.EndDragInput{TargetID: targetID, Result: &out})
	return out, err
}

func (e *CommandExecutor) CancelDrag(ctx context.Context) error {
	return e.DragCancel.Execute(ctx, commands.CancelDragInput{})
}

func (e *CommandExecutor) EditMode(ctx context.Context, input commands.EditModeInput) (dashboard.EditModeState, error) {
	var out dashboard.EditModeState
	input.Result = &out
	err := e.EditModeCmd.Execute(ctx, input)
	return out, err
}

func (e *CommandExecutor) ApplyTheme(ctx context.Context, id string) (dashboard.AppliedTheme, error) {
	var out dashboard.AppliedTheme
	err := e.Theme.Execute(ctx, commands.ApplyThemeInput{ThemeID: id, Result: &out})
	return out, err
}

func (e *CommandExecutor) ToggleDevice(ctx context.Context, id string) (devices.Device, error) {
	var out devices.Device
	err := e.Toggle.Execute(ctx, commands.ToggleDeviceInput{DeviceID: id, Result: &out})
	return out, err
}

func (e *CommandExecutor) UpdateDevice(ctx context.Context, id string, patch devices.DevicePatch) (devices.Device, error) {
	var out devices.Device
	err := e.DeviceUpdate.Execute(ctx, commands.UpdateDeviceInput{DeviceID: id, Patch: patch, Result: &out})
	return out, err
}

func (e *CommandExecutor) CreatePreset(ctx context.Context, name, description string) (dashboard.Preset, error) {
	var out dashboard.Preset
	err := e.PresetCreate.Execute(ctx, commands.CreatePresetInput{Name: name, Description: description, Result: &out})
	return out, err
}

func (e *CommandExecutor) ApplyPreset(ctx context.Context, id string) (dashboard.Preset, error) {
	var out dashboard.Preset
	err := e.PresetApply.Execute(ctx, commands.ApplyPresetInput{PresetID: id, Result: &out})
	return out, err
}

func (e *CommandExecutor) SaveDefaultPreset(ctx context.Context) (dashboard.Preset, error) {
	var out dashboard.Preset
	err := e.PresetDefault.Execute(ctx, commands.SaveDefaultPresetInput{Result: &out})
	return out, err
}

func (e *CommandExecutor) Reset(ctx context.Context) (dashboard.Configuration, error) {
	var out dashboard.Configuration
	err := e.ResetCmd.Execute(ctx, commands.ResetDashboardInput{ClearSelection: true, Result: &out})
	return out, err
}

func (e *CommandExecutor) Refresh(ctx context.Context, event dashboard.LayoutEvent) error {
	return e.RefreshCmd.Execute(ctx, commands.RefreshLayoutInput{Event: event})
}

func (e *CommandExecutor) Layout(ctx context.Context, input queries.LayoutInput) (dashboard.LayoutPayload, error) {
	return e.LayoutQuery.Query(ctx, input)
}

func (e *CommandExecutor) Devices(ctx context.Context, input queries.DevicesInput) ([]devices.Device, error) {
	return e.DevicesQuery.Query(ctx, input)
}

func (e *CommandExecutor) Presets(ctx context.Context) ([]dashboard.Preset, error) {
	return e.PresetsQuery.Query(ctx, queries.PresetsInput{})
}

func (e *CommandExecutor) Themes(ctx context.Context) (queries.ThemeCatalog, error) {
	return e.ThemesQuery.Query(ctx, queries.ThemesInput{})
}

func (e *CommandExecutor) Templates(ctx context.Context, search string) ([]dashboard.WidgetTemplate, error) {
	return e.TemplatesQuery.Query(ctx, queries.TemplatesInput{Search: search})
}

// StatusFor maps executor errors onto HTTP status codes.
func StatusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrWidgetNotFound),
		errors.Is(err, devices.ErrDeviceNotFound),
		errors.Is(err, dashboard.ErrPresetNotFound),
		errors.Is(err, dashboard.ErrThemeNotFound):
		return http.StatusNotFound
	case errors.Is(err, dashboard.ErrDragInProgress),
		errors.Is(err, dashboard.ErrNotDragging),
		errors.Is(err, dashboard.ErrEditModeOff):
		return http.StatusConflict
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	}
	return http.StatusBadRequest
}
