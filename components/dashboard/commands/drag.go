package commands

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/goliatone/go-home-dashboard/components/dashboard"
)

type dragService interface {
	BeginDrag(source dashboard.DragSource) error
	EndDrag(ctx context.Context, targetID string) (dashboard.DropResult, error)
	CancelDrag()
	DragState() dashboard.DragState
}

// BeginDragInput picks up a widget or template.
type BeginDragInput struct {
	Source dashboard.DragSource `json:"source"`
	Result *dashboard.DragState `json:"-"`
}

// BeginDragCommand opens a drag session on the service.
type BeginDragCommand struct {
	service   dragService
	templates *dashboard.TemplateLibrary
	telemetry Telemetry
}

// NewBeginDragCommand builds the command; templates may be nil.
func NewBeginDragCommand(service dragService, templates *dashboard.TemplateLibrary, telemetry Telemetry) *BeginDragCommand {
	return &BeginDragCommand{service: service, templates: templates, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[BeginDragInput] = (*BeginDragCommand)(nil)

// Execute starts the gesture.
func (c *BeginDragCommand) Execute(ctx context.Context, msg BeginDragInput) error {
	if err := requireService("begin drag", c.service == nil); err != nil {
		return err
	}
	source := resolveSource(c.templates, msg.Source)
	if err := c.service.BeginDrag(source); err != nil {
		return err
	}
	if msg.Result != nil {
		*msg.Result = c.service.DragState()
	}
	c.telemetry.Record(ctx, "dashboard.command.drag.begin", map[string]any{"kind": string(source.Kind)})
	return nil
}

// EndDragInput drops the item picked up by BeginDrag. An empty TargetID
// means outside the grid.
type EndDragInput struct {
	TargetID string                `json:"targetId"`
	Result   *dashboard.DropResult `json:"-"`
}

// EndDragCommand completes the open drag session.
type EndDragCommand struct {
	service   dragService
	telemetry Telemetry
}

// NewEndDragCommand builds the command.
func NewEndDragCommand(service dragService, telemetry Telemetry) *EndDragCommand {
	return &EndDragCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[EndDragInput] = (*EndDragCommand)(nil)

// Execute resolves the drop.
func (c *EndDragCommand) Execute(ctx context.Context, msg EndDragInput) error {
	if err := requireService("end drag", c.service == nil); err != nil {
		return err
	}
	result, err := c.service.EndDrag(ctx, msg.TargetID)
	if err != nil {
		return err
	}
	if msg.Result != nil {
		*msg.Result = result
	}
	c.telemetry.Record(ctx, "dashboard.command.drag.end", map[string]any{"outcome": string(result.Outcome)})
	return nil
}

// CancelDragInput abandons the open gesture.
type CancelDragInput struct{}

// CancelDragCommand abandons the open drag session, if any.
type CancelDragCommand struct {
	service   dragService
	telemetry Telemetry
}

// NewCancelDragCommand builds the command.
func NewCancelDragCommand(service dragService, telemetry Telemetry) *CancelDragCommand {
	return &CancelDragCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[CancelDragInput] = (*CancelDragCommand)(nil)

func (c *CancelDragCommand) Execute(ctx context.Context, _ CancelDragInput) error {
	if err := requireService("cancel drag", c.service == nil); err != nil {
		return err
	}
	c.service.CancelDrag()
	c.telemetry.Record(ctx, "dashboard.command.drag.cancel", nil)
	return nil
}
