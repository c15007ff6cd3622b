package leads

import (
	"context"
	"errors"
	"io"
)

// ControllerOptions wires the controller's collaborators.
type ControllerOptions struct {
	Service  *Service
	Renderer Renderer
	Template string
}

// Controller renders the server-side dashboard page and its JSON payloads.
type Controller struct {
	service  *Service
	renderer Renderer
	template string
}

// NewController wires the service into a controller.
func NewController(opts ControllerOptions) *Controller {
	tmpl := opts.Template
	if tmpl == "" {
		tmpl = "dashboard"
	}
	return &Controller{
		service:  opts.Service,
		renderer: opts.Renderer,
		template: tmpl,
	}
}

// DashboardPayload bundles everything the page template needs.
type DashboardPayload struct {
	Viewer   ViewerContext    `json:"viewer"`
	Widgets  []ResolvedWidget `json:"widgets"`
	View     View             `json:"view"`
	Criteria FilterCriteria   `json:"criteria"`
	Sort     SortState        `json:"sort"`
	Page     Pagination       `json:"pagination"`
	Presets  []string         `json:"presets"`
}

// Payload resolves widgets and the table view for the viewer.
func (c *Controller) Payload(ctx context.Context, viewer ViewerContext) (DashboardPayload, error) {
	if c.service == nil {
		return DashboardPayload{}, errors.New("leads: controller requires service")
	}
	widgets, err := c.service.Widgets(ctx, viewer)
	if err != nil {
		return DashboardPayload{}, err
	}
	view, err := c.service.View(ctx)
	if err != nil {
		return DashboardPayload{}, err
	}
	filters := c.service.Filters()
	return DashboardPayload{
		Viewer:   viewer,
		Widgets:  widgets,
		View:     view,
		Criteria: filters.Criteria(),
		Sort:     filters.Sort(),
		Page:     filters.Page(),
		Presets:  filters.Presets(),
	}, nil
}

// RenderTemplate renders the dashboard HTML into out.
func (c *Controller) RenderTemplate(ctx context.Context, viewer ViewerContext, out io.Writer) error {
	if c.renderer == nil {
		return errors.New("leads: controller requires renderer")
	}
	payload, err := c.Payload(ctx, viewer)
	if err != nil {
		return err
	}
	_, err = c.renderer.Render(c.template, payload, out)
	return err
}
