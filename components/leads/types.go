package leads

import (
	"context"
)

// LeadSource abstracts the remote spreadsheet endpoint. pkg/sheets provides
// the HTTP implementation; tests use fixtures.
type LeadSource interface {
	FetchAllLeads(ctx context.Context, pageSize int) (Dataset, error)
	UpdateStatus(ctx context.Context, id, status string) error
	UpdateTags(ctx context.Context, id, tags string) error
}

// Dataset is a fully accumulated lead collection plus the server-computed
// aggregations that accompanied it.
type Dataset struct {
	Leads        []Lead
	Total        int
	Aggregations *Aggregations
}

// Authorizer decides whether a viewer can see a dashboard widget.
type Authorizer interface {
	CanViewWidget(ctx context.Context, viewer ViewerContext, def WidgetDefinition) bool
}

// ProviderRegistry stores widget definitions/providers discoverable via hooks
// or manifests.
type ProviderRegistry interface {
	RegisterDefinition(def WidgetDefinition) error
	RegisterProvider(code string, provider Provider) error
	Definition(code string) (WidgetDefinition, bool)
	Provider(code string) (Provider, bool)
	Definitions() []WidgetDefinition
}

// RefreshHook notifies transports (REST/WebSocket) about dataset changes.
type RefreshHook interface {
	DatasetUpdated(ctx context.Context, event DatasetEvent) error
}

// DatasetEvent describes a change transports might care about: a mutation to a
// lead, a reload of the dataset, or a filter change that invalidated pages.
type DatasetEvent struct {
	Reason string
	LeadID string
	Field  string
}

// ViewerContext captures the active user/locale information needed to render
// the dashboard.
type ViewerContext struct {
	UserID string
	Roles  []string
	Locale string
}

// WidgetDefinition describes a dashboard widget (KPI strip, chart, table).
type WidgetDefinition struct {
	Code                 string            `json:"code" yaml:"code"`
	Name                 string            `json:"name" yaml:"name"`
	NameLocalized        map[string]string `json:"name_localized,omitempty" yaml:"name_localized,omitempty"`
	Description          string            `json:"description,omitempty" yaml:"description,omitempty"`
	DescriptionLocalized map[string]string `json:"description_localized,omitempty" yaml:"description_localized,omitempty"`
	Category             string            `json:"category,omitempty" yaml:"category,omitempty"`
	Schema               map[string]any    `json:"schema,omitempty" yaml:"schema,omitempty"`
}

// WidgetContext contains the metadata providers need to fetch widget payloads.
type WidgetContext struct {
	Definition WidgetDefinition
	Config     map[string]any
	Viewer     ViewerContext
	Dataset    *Dataset
	Filters    *FilterState
}

// WidgetData is an opaque payload passed to templates and JSON transports.
type WidgetData map[string]any

// Provider fetches data required to render a widget.
type Provider interface {
	Fetch(ctx context.Context, meta WidgetContext) (WidgetData, error)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(ctx context.Context, meta WidgetContext) (WidgetData, error)

// Fetch implements Provider.
func (f ProviderFunc) Fetch(ctx context.Context, meta WidgetContext) (WidgetData, error) {
	return f(ctx, meta)
}
