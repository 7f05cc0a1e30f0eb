package commands

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/goliatone/go-home-dashboard/components/dashboard"
)

// ReorderWidgetsInput contains the desired widget order.
type ReorderWidgetsInput struct {
	WidgetIDs []string            `json:"widgetIds"`
	Result    *[]dashboard.Widget `json:"-"`
}

type reorderService interface {
	Reorder(ctx context.Context, ids []string) []dashboard.Widget
}

// ReorderWidgetsCommand wraps Service.Reorder.
type ReorderWidgetsCommand struct {
	service   reorderService
	telemetry Telemetry
}

// NewReorderWidgetsCommand builds the command.
func NewReorderWidgetsCommand(service reorderService, telemetry Telemetry) *ReorderWidgetsCommand {
	return &ReorderWidgetsCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[ReorderWidgetsInput] = (*ReorderWidgetsCommand)(nil)

// Execute applies the new ordering.
func (c *ReorderWidgetsCommand) Execute(ctx context.Context, msg ReorderWidgetsInput) error {
	if err := requireService("reorder", c.service == nil); err != nil {
		return err
	}
	widgets := c.service.Reorder(ctx, msg.WidgetIDs)
	if msg.Result != nil {
		*msg.Result = widgets
	}
	c.telemetry.Record(ctx, "dashboard.command.reorder", map[string]any{
		"count": len(msg.WidgetIDs),
	})
	return nil
}

// DropWidgetInput is a complete drag gesture: what was picked up and where it
// landed. An empty TargetID means outside the grid.
type DropWidgetInput struct {
	Source   dashboard.DragSource  `json:"source"`
	TargetID string                `json:"targetId"`
	Result   *dashboard.DropResult `json:"-"`
}

type dropService interface {
	Drop(ctx context.Context, source dashboard.DragSource, targetID string) (dashboard.DropResult, error)
}

// DropWidgetCommand resolves a drag-and-drop gesture.
type DropWidgetCommand struct {
	service   dropService
	templates *dashboard.TemplateLibrary
	telemetry Telemetry
}

// NewDropWidgetCommand builds the command. When templates is set, template
// sources may carry only the template id.
func NewDropWidgetCommand(service dropService, templates *dashboard.TemplateLibrary, telemetry Telemetry) *DropWidgetCommand {
	return &DropWidgetCommand{service: service, templates: templates, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[DropWidgetInput] = (*DropWidgetCommand)(nil)

// Execute resolves the drop.
func (c *DropWidgetCommand) Execute(ctx context.Context, msg DropWidgetInput) error {
	if err := requireService("drop", c.service == nil); err != nil {
		return err
	}
	source := resolveSource(c.templates, msg.Source)
	result, err := c.service.Drop(ctx, source, msg.TargetID)
	if err != nil {
		return err
	}
	if msg.Result != nil {
		*msg.Result = result
	}
	c.telemetry.Record(ctx, "dashboard.command.drop", map[string]any{
		"kind":    string(source.Kind),
		"outcome": string(result.Outcome),
	})
	return nil
}

// resolveSource fills in the template of a template source given by id only.
func resolveSource(templates *dashboard.TemplateLibrary, source dashboard.DragSource) dashboard.DragSource {
	if source.Kind != dashboard.SourceTemplate || source.Template != nil || templates == nil {
		return source
	}
	if tmpl, ok := templates.Get(source.ID); ok {
		source.Template = &tmpl
	}
	return source
}
