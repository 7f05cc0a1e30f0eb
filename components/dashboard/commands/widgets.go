package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/goliatone/go-home-dashboard/components/dashboard"
)

// AddWidgetInput appends a widget to the active view. Result receives the
// stored widget, including a generated id.
type AddWidgetInput struct {
	Widget dashboard.Widget  `json:"widget"`
	Result *dashboard.Widget `json:"-"`
}

type addService interface {
	AddWidget(ctx context.Context, w dashboard.Widget) (dashboard.Widget, error)
}

// AddWidgetCommand wraps Service.AddWidget.
type AddWidgetCommand struct {
	service   addService
	telemetry Telemetry
}

// NewAddWidgetCommand creates a command instance.
func NewAddWidgetCommand(service addService, telemetry Telemetry) *AddWidgetCommand {
	return &AddWidgetCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[AddWidgetInput] = (*AddWidgetCommand)(nil)

// Execute delegates to the dashboard service.
func (c *AddWidgetCommand) Execute(ctx context.Context, msg AddWidgetInput) error {
	if err := requireService("add", c.service == nil); err != nil {
		return err
	}
	added, err := c.service.AddWidget(ctx, msg.Widget)
	if err != nil {
		return err
	}
	if msg.Result != nil {
		*msg.Result = added
	}
	c.telemetry.Record(ctx, "dashboard.command.add", map[string]any{
		"widget_id": added.ID,
		"type":      string(added.Type),
	})
	return nil
}

// UpdateWidgetInput captures a shallow widget patch.
type UpdateWidgetInput struct {
	WidgetID string                `json:"widgetId"`
	Patch    dashboard.WidgetPatch `json:"patch"`
	Result   *dashboard.Widget     `json:"-"`
}

type updateService interface {
	UpdateWidget(ctx context.Context, id string, patch dashboard.WidgetPatch) (dashboard.Widget, bool, error)
}

// UpdateWidgetCommand wraps Service.UpdateWidget. Unknown widget ids are a
// silent no-op.
type UpdateWidgetCommand struct {
	service   updateService
	telemetry Telemetry
}

// NewUpdateWidgetCommand creates the command.
func NewUpdateWidgetCommand(service updateService, telemetry Telemetry) *UpdateWidgetCommand {
	return &UpdateWidgetCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[UpdateWidgetInput] = (*UpdateWidgetCommand)(nil)

// Execute applies the patch.
func (c *UpdateWidgetCommand) Execute(ctx context.Context, msg UpdateWidgetInput) error {
	if err := requireService("update", c.service == nil); err != nil {
		return err
	}
	if msg.WidgetID == "" {
		return errors.New("update command requires widget id")
	}
	updated, ok, err := c.service.UpdateWidget(ctx, msg.WidgetID, msg.Patch)
	if err != nil {
		return err
	}
	if ok && msg.Result != nil {
		*msg.Result = updated
	}
	c.telemetry.Record(ctx, "dashboard.command.update", map[string]any{
		"widget_id": msg.WidgetID,
		"found":     ok,
	})
	return nil
}

// RemoveWidgetInput identifies the widget to delete.
type RemoveWidgetInput struct {
	WidgetID string `json:"widgetId"`
}

type removeService interface {
	RemoveWidget(ctx context.Context, id string) bool
}

// RemoveWidgetCommand wraps Service.RemoveWidget.
type RemoveWidgetCommand struct {
	service   removeService
	telemetry Telemetry
}

// NewRemoveWidgetCommand creates the command.
func NewRemoveWidgetCommand(service removeService, telemetry Telemetry) *RemoveWidgetCommand {
	return &RemoveWidgetCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[RemoveWidgetInput] = (*RemoveWidgetCommand)(nil)

// Execute removes the widget.
func (c *RemoveWidgetCommand) Execute(ctx context.Context, msg RemoveWidgetInput) error {
	if err := requireService("remove", c.service == nil); err != nil {
		return err
	}
	if msg.WidgetID == "" {
		return errors.New("remove command requires widget id")
	}
	removed := c.service.RemoveWidget(ctx, msg.WidgetID)
	c.telemetry.Record(ctx, "dashboard.command.remove", map[string]any{
		"widget_id": msg.WidgetID,
		"found":     removed,
	})
	return nil
}

// DuplicateWidgetInput identifies the widget to copy.
type DuplicateWidgetInput struct {
	WidgetID string            `json:"widgetId"`
	Result   *dashboard.Widget `json:"-"`
}

type duplicateService interface {
	DuplicateWidget(ctx context.Context, id string) (dashboard.Widget, bool)
}

// DuplicateWidgetCommand wraps Service.DuplicateWidget.
type DuplicateWidgetCommand struct {
	service   duplicateService
	telemetry Telemetry
}

// NewDuplicateWidgetCommand creates the command.
func NewDuplicateWidgetCommand(service duplicateService, telemetry Telemetry) *DuplicateWidgetCommand {
	return &DuplicateWidgetCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[DuplicateWidgetInput] = (*DuplicateWidgetCommand)(nil)

// Execute appends a copy of the widget.
func (c *DuplicateWidgetCommand) Execute(ctx context.Context, msg DuplicateWidgetInput) error {
	if err := requireService("duplicate", c.service == nil); err != nil {
		return err
	}
	clone, ok := c.service.DuplicateWidget(ctx, msg.WidgetID)
	if ok && msg.Result != nil {
		*msg.Result = clone
	}
	c.telemetry.Record(ctx, "dashboard.command.duplicate", map[string]any{
		"widget_id": msg.WidgetID,
		"found":     ok,
	})
	return nil
}
