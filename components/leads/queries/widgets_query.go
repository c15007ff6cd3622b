package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	leads "github.com/goliatone/go-leads/components/leads"
)

type widgetService interface {
	Widgets(ctx context.Context, viewer leads.ViewerContext) ([]leads.ResolvedWidget, error)
	Widget(ctx context.Context, viewer leads.ViewerContext, code string, config map[string]any) (leads.ResolvedWidget, error)
}

// WidgetsQuery resolves every widget the viewer may see.
type WidgetsQuery struct {
	service widgetService
}

// NewWidgetsQuery builds the query.
func NewWidgetsQuery(service widgetService) *WidgetsQuery {
	return &WidgetsQuery{service: service}
}

var _ gocommand.Querier[leads.ViewerContext, []leads.ResolvedWidget] = (*WidgetsQuery)(nil)

// Query resolves the full widget set for the viewer.
func (q *WidgetsQuery) Query(ctx context.Context, viewer leads.ViewerContext) ([]leads.ResolvedWidget, error) {
	return q.service.Widgets(ctx, viewer)
}

// WidgetInput addresses a single widget with optional configuration.
type WidgetInput struct {
	Viewer leads.ViewerContext `json:"viewer"`
	Code   string              `json:"code"`
	Config map[string]any      `json:"config,omitempty"`
}

// WidgetQuery resolves one widget by code.
type WidgetQuery struct {
	service widgetService
}

// NewWidgetQuery builds the query.
func NewWidgetQuery(service widgetService) *WidgetQuery {
	return &WidgetQuery{service: service}
}

var _ gocommand.Querier[WidgetInput, leads.ResolvedWidget] = (*WidgetQuery)(nil)

// Query resolves the addressed widget for the viewer.
func (q *WidgetQuery) Query(ctx context.Context, input WidgetInput) (leads.ResolvedWidget, error) {
	return q.service.Widget(ctx, input.Viewer, input.Code, input.Config)
}
