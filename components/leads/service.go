package leads

import (
	"bytes"
	"context"
	"errors"
	"sort"
	"sync"
)

// defaultPageSize is the accumulation page size used against the backend.
const defaultPageSize = 500

var (
	errMissingSource  = errors.New("leads: lead source not configured")
	errMissingLeadID  = errors.New("leads: lead id is required")
	errMissingStatus  = errors.New("leads: status is required")
	errUnknownWidget  = errors.New("leads: unknown widget code")
	errNotAuthorized  = errors.New("leads: viewer is not authorized for widget")
	errMissingFilters = errors.New("leads: filter state not configured")
)

// Options configures the leads Service. Every collaborator is provided via
// interface so applications can swap implementations without importing
// go-leads internals.
type Options struct {
	Source          LeadSource
	Filters         *FilterState
	Storage         StateStorage
	Authorizer      Authorizer
	Providers       ProviderRegistry
	ConfigValidator ConfigValidator
	RefreshHook     RefreshHook
	Telemetry       Telemetry
	Authenticator   Authenticator
	PageSize        int
}

// Service orchestrates the lead dashboard: dataset lifecycle, the table view,
// exports, widgets, and write-backs to the source.
type Service struct {
	opts     Options
	sessions *SessionStore

	mu      sync.RWMutex
	dataset *Dataset
}

// NewService builds a Service instance with safe defaults.
func NewService(opts Options) *Service {
	if opts.Authorizer == nil {
		opts.Authorizer = allowAllAuthorizer{}
	}
	if opts.RefreshHook == nil {
		opts.RefreshHook = noopRefreshHook{}
	}
	if opts.Providers == nil {
		opts.Providers = NewRegistry()
	}
	if opts.ConfigValidator == nil {
		opts.ConfigValidator = NewJSONSchemaValidator()
	}
	opts.Telemetry = normalizeTelemetry(opts.Telemetry)
	if opts.Storage == nil {
		opts.Storage = NewMemoryStateStore()
	}
	if opts.Filters == nil {
		opts.Filters = NewFilterState(opts.Storage)
	}
	if opts.PageSize <= 0 {
		opts.PageSize = defaultPageSize
	}
	return &Service{
		opts:     opts,
		sessions: NewSessionStore(opts.Storage),
	}
}

// Filters exposes the filter state for transports.
func (s *Service) Filters() *FilterState {
	return s.opts.Filters
}

// Sessions exposes the session store for transports.
func (s *Service) Sessions() *SessionStore {
	return s.sessions
}

// LoadDataset returns the accumulated dataset, fetching it from the source on
// first use or when force is set.
func (s *Service) LoadDataset(ctx context.Context, force bool) (Dataset, error) {
	if s.opts.Source == nil {
		return Dataset{}, errMissingSource
	}
	if !force {
		s.mu.RLock()
		cached := s.dataset
		s.mu.RUnlock()
		if cached != nil {
			return *cached, nil
		}
	}
	dataset, err := s.opts.Source.FetchAllLeads(ctx, s.opts.PageSize)
	if err != nil {
		return Dataset{}, err
	}
	s.mu.Lock()
	s.dataset = &dataset
	s.mu.Unlock()
	s.recordTelemetry(ctx, "leads.dataset.load", map[string]any{
		"count": len(dataset.Leads),
		"total": dataset.Total,
		"force": force,
	})
	return dataset, nil
}

// Invalidate drops the cached dataset so the next read refetches.
func (s *Service) Invalidate() {
	s.mu.Lock()
	s.dataset = nil
	s.mu.Unlock()
}

// View computes the table view for the current filter state.
func (s *Service) View(ctx context.Context) (View, error) {
	if s.opts.Filters == nil {
		return View{}, errMissingFilters
	}
	dataset, err := s.LoadDataset(ctx, false)
	if err != nil {
		return View{}, err
	}
	return ComputeView(dataset.Leads, s.opts.Filters.Criteria(), s.opts.Filters.Sort(), s.opts.Filters.Page()), nil
}

// Aggregations returns the backend-computed analytics block for the loaded
// dataset, which may be nil when the backend omitted it.
func (s *Service) Aggregations(ctx context.Context) (*Aggregations, error) {
	dataset, err := s.LoadDataset(ctx, false)
	if err != nil {
		return nil, err
	}
	return dataset.Aggregations, nil
}

// ExportResult carries a rendered CSV document.
type ExportResult struct {
	Filename string
	Content  []byte
	Rows     int
}

// Export renders the CSV for the requested range over the table's current
// filtered-and-sorted collection, independent of pagination. Every active
// filter applies; the export range then narrows the survivors further.
func (s *Service) Export(ctx context.Context, from, to string) (ExportResult, error) {
	dataset, err := s.LoadDataset(ctx, false)
	if err != nil {
		return ExportResult{}, err
	}
	view := ComputeView(dataset.Leads, s.opts.Filters.Criteria(), s.opts.Filters.Sort(), Pagination{Limit: len(dataset.Leads)})
	rows, err := ComputeExportRows(view.Sorted, from, to)
	if err != nil {
		return ExportResult{}, err
	}
	var buf bytes.Buffer
	if err := WriteCSV(&buf, rows); err != nil {
		return ExportResult{}, err
	}
	result := ExportResult{
		Filename: ExportFilename(from, to),
		Content:  buf.Bytes(),
		Rows:     len(rows),
	}
	s.recordTelemetry(ctx, "leads.export", map[string]any{
		"from": from,
		"to":   to,
		"rows": len(rows),
	})
	return result, nil
}

// UpdateStatus writes a lead status back to the source and invalidates the
// cached dataset.
func (s *Service) UpdateStatus(ctx context.Context, id, status string) error {
	if s.opts.Source == nil {
		return errMissingSource
	}
	if id == "" {
		return errMissingLeadID
	}
	if status == "" {
		return errMissingStatus
	}
	if err := s.opts.Source.UpdateStatus(ctx, id, status); err != nil {
		return err
	}
	s.Invalidate()
	if err := s.opts.RefreshHook.DatasetUpdated(ctx, DatasetEvent{
		Reason: "status",
		LeadID: id,
		Field:  "lead_status",
	}); err != nil {
		return err
	}
	s.recordTelemetry(ctx, "leads.lead.status", map[string]any{
		"lead_id": id,
		"status":  status,
	})
	return nil
}

// UpdateTags writes the tags string back to the source and invalidates the
// cached dataset. An empty tags value clears the field.
func (s *Service) UpdateTags(ctx context.Context, id, tags string) error {
	if s.opts.Source == nil {
		return errMissingSource
	}
	if id == "" {
		return errMissingLeadID
	}
	if err := s.opts.Source.UpdateTags(ctx, id, tags); err != nil {
		return err
	}
	s.Invalidate()
	if err := s.opts.RefreshHook.DatasetUpdated(ctx, DatasetEvent{
		Reason: "tags",
		LeadID: id,
		Field:  "tags",
	}); err != nil {
		return err
	}
	s.recordTelemetry(ctx, "leads.lead.tags", map[string]any{
		"lead_id": id,
	})
	return nil
}

// ApplyFilters merges a filter patch and notifies transports that derived
// views changed.
func (s *Service) ApplyFilters(ctx context.Context, patch FilterPatch) (FilterCriteria, error) {
	if s.opts.Filters == nil {
		return FilterCriteria{}, errMissingFilters
	}
	criteria := s.opts.Filters.SetFilters(patch)
	if err := s.opts.RefreshHook.DatasetUpdated(ctx, DatasetEvent{Reason: "filters"}); err != nil {
		return criteria, err
	}
	s.recordTelemetry(ctx, "leads.filters.apply", map[string]any{
		"period": criteria.Period,
	})
	return criteria, nil
}

// ResolvedWidget is a widget definition plus its fetched payload.
type ResolvedWidget struct {
	Definition WidgetDefinition
	Name       string
	Data       WidgetData
}

// Widget resolves a single widget for the viewer.
func (s *Service) Widget(ctx context.Context, viewer ViewerContext, code string, config map[string]any) (ResolvedWidget, error) {
	def, ok := s.opts.Providers.Definition(code)
	if !ok {
		return ResolvedWidget{}, errUnknownWidget
	}
	if !s.opts.Authorizer.CanViewWidget(ctx, viewer, def) {
		return ResolvedWidget{}, errNotAuthorized
	}
	if err := s.opts.ConfigValidator.Validate(def, config); err != nil {
		return ResolvedWidget{}, err
	}
	provider, ok := s.opts.Providers.Provider(code)
	if !ok || provider == nil {
		return ResolvedWidget{}, errUnknownWidget
	}
	dataset, err := s.LoadDataset(ctx, false)
	if err != nil {
		return ResolvedWidget{}, err
	}
	data, err := provider.Fetch(ctx, WidgetContext{
		Definition: def,
		Config:     config,
		Viewer:     viewer,
		Dataset:    &dataset,
		Filters:    s.opts.Filters,
	})
	if err != nil {
		s.recordTelemetry(ctx, "leads.widget.provider_error", map[string]any{
			"code":  code,
			"error": err.Error(),
		})
		return ResolvedWidget{}, err
	}
	return ResolvedWidget{
		Definition: def,
		Name:       def.NameForLocale(viewer.Locale),
		Data:       data,
	}, nil
}

// Widgets resolves every widget the viewer is authorized for, ordered by
// widget code for stable rendering.
func (s *Service) Widgets(ctx context.Context, viewer ViewerContext) ([]ResolvedWidget, error) {
	defs := s.opts.Providers.Definitions()
	sort.Slice(defs, func(i, j int) bool { return defs[i].Code < defs[j].Code })
	var resolved []ResolvedWidget
	for _, def := range defs {
		widget, err := s.Widget(ctx, viewer, def.Code, nil)
		if err != nil {
			if errors.Is(err, errNotAuthorized) || errors.Is(err, errUnknownWidget) {
				continue
			}
			return nil, err
		}
		resolved = append(resolved, widget)
	}
	s.recordTelemetry(ctx, "leads.widgets.resolve", map[string]any{
		"viewer": viewer.UserID,
		"count":  len(resolved),
	})
	return resolved, nil
}

// Login authenticates the viewer and persists the session.
func (s *Service) Login(ctx context.Context, email, password string) (Session, error) {
	if s.opts.Authenticator == nil {
		return Session{}, errors.New("leads: authenticator not configured")
	}
	session, err := s.opts.Authenticator.Login(ctx, email, password)
	if err != nil {
		return Session{}, err
	}
	if err := s.sessions.Save(session); err != nil {
		return Session{}, err
	}
	s.recordTelemetry(ctx, "leads.auth.login", map[string]any{"user": session.User})
	return session, nil
}

// Logout clears the persisted session.
func (s *Service) Logout(ctx context.Context) error {
	if err := s.sessions.Clear(); err != nil {
		return err
	}
	s.recordTelemetry(ctx, "leads.auth.logout", nil)
	return nil
}

// NotifyDatasetUpdated exposes refresh hook invocation for commands/transports.
func (s *Service) NotifyDatasetUpdated(ctx context.Context, event DatasetEvent) error {
	if err := s.opts.RefreshHook.DatasetUpdated(ctx, event); err != nil {
		return err
	}
	s.recordTelemetry(ctx, "leads.dataset.event", map[string]any{
		"reason":  event.Reason,
		"lead_id": event.LeadID,
	})
	return nil
}

func (s *Service) recordTelemetry(ctx context.Context, event string, payload map[string]any) {
	s.opts.Telemetry.Record(ctx, event, payload)
}

type allowAllAuthorizer struct{}

func (allowAllAuthorizer) CanViewWidget(context.Context, ViewerContext, WidgetDefinition) bool {
	return true
}

type noopRefreshHook struct{}

func (noopRefreshHook) DatasetUpdated(context.Context, DatasetEvent) error {
	return nil
}
