package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/goliatone/go-home-dashboard/components/dashboard"
)

// LayoutInput selects the view to resolve; empty keeps the active view.
type LayoutInput struct {
	ViewID string `json:"viewId,omitempty"`
}

type layoutService interface {
	LayoutPayload(ctx context.Context) (dashboard.LayoutPayload, error)
}

type viewSelector interface {
	SelectView(ctx context.Context, viewID string) error
}

// LayoutQuery executes read-only layout resolution.
type LayoutQuery struct {
	controller layoutService
	views      viewSelector
}

// NewLayoutQuery builds the query. views may be nil when view switching is
// not exposed.
func NewLayoutQuery(controller layoutService, views viewSelector) *LayoutQuery {
	return &LayoutQuery{controller: controller, views: views}
}

var _ gocommand.Querier[LayoutInput, dashboard.LayoutPayload] = (*LayoutQuery)(nil)

// Query resolves the layout payload.
func (q *LayoutQuery) Query(ctx context.Context, input LayoutInput) (dashboard.LayoutPayload, error) {
	if input.ViewID != "" && q.views != nil {
		if err := q.views.SelectView(ctx, input.ViewID); err != nil {
			return dashboard.LayoutPayload{}, err
		}
	}
	return q.controller.LayoutPayload(ctx)
}
