package leads

import (
	"encoding/json"
	"errors"
	"sync"
	"time"
)

// Period shortcuts for the date-range filter.
const (
	PeriodToday  = "today"
	Period7Days  = "7d"
	Period30Days = "30d"
	PeriodCustom = "custom"
)

// PageSizes are the page sizes the table offers.
var PageSizes = []int{10, 25, 50}

// ErrPresetNameRequired is reported when saving a preset without a name.
var ErrPresetNameRequired = errors.New("leads: preset name is required")

// DefaultCriteria returns the documented filter defaults.
func DefaultCriteria() FilterCriteria {
	return FilterCriteria{
		Quality: FilterAll,
		Model:   FilterAll,
		Source:  FilterAll,
		Status:  FilterAll,
		Period:  Period30Days,
	}
}

// FilterPatch is a partial criteria update; nil fields are left unchanged.
type FilterPatch struct {
	Search  *string `json:"search,omitempty"`
	Quality *string `json:"quality,omitempty"`
	From    *string `json:"from,omitempty"`
	To      *string `json:"to,omitempty"`
	Model   *string `json:"model,omitempty"`
	Source  *string `json:"source,omitempty"`
	Status  *string `json:"status,omitempty"`
	Tags    *string `json:"tags,omitempty"`
	Period  *string `json:"period,omitempty"`
}

// FilterState owns the canonical filter/sort/pagination values, applies the
// period-to-date-range derivation rule, and mirrors every change to durable
// storage so a later session can restore it.
type FilterState struct {
	mu       sync.Mutex
	criteria FilterCriteria
	sort     SortState
	page     Pagination
	presets  map[string]FilterCriteria
	storage  StateStorage
	now      func() time.Time
}

// FilterStateOption customizes a FilterState.
type FilterStateOption func(*FilterState)

// WithClock overrides the clock used for period derivation.
func WithClock(now func() time.Time) FilterStateOption {
	return func(s *FilterState) {
		s.now = now
	}
}

type filterSnapshot struct {
	Criteria FilterCriteria            `json:"filters"`
	Sort     SortState                 `json:"sort"`
	Page     Pagination                `json:"pagination"`
	Presets  map[string]FilterCriteria `json:"presets,omitempty"`
}

// NewFilterState builds a store seeded from storage; an absent or corrupt
// snapshot silently falls back to the defaults.
func NewFilterState(storage StateStorage, opts ...FilterStateOption) *FilterState {
	state := &FilterState{
		criteria: DefaultCriteria(),
		sort:     DefaultSortState(),
		page:     Pagination{Limit: PageSizes[0]},
		presets:  map[string]FilterCriteria{},
		storage:  storage,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(state)
	}
	state.restore()
	return state
}

// Criteria returns the current filter criteria.
func (s *FilterState) Criteria() FilterCriteria {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.criteria
}

// Sort returns the current sort state.
func (s *FilterState) Sort() SortState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sort
}

// Page returns the current pagination window.
func (s *FilterState) Page() Pagination {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.page
}

// SetFilters shallow-merges patch into the current criteria. A period other
// than custom recomputes from/to from the period, overriding any explicit
// values in the same patch. Any criteria change resets the offset to zero so
// the pager cannot land past the shrunken collection.
func (s *FilterState) SetFilters(patch FilterPatch) FilterCriteria {
	s.mu.Lock()
	defer s.mu.Unlock()
	applyPatch(&s.criteria, patch)
	if patch.Period != nil && *patch.Period != PeriodCustom {
		s.criteria.From, s.criteria.To = s.periodBounds(*patch.Period)
	}
	s.page.Offset = 0
	s.persistLocked()
	return s.criteria
}

// ToggleSort applies the column-header sort rule and persists the result.
func (s *FilterState) ToggleSort(field string) SortState {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sort = NextSortState(s.sort, field)
	s.persistLocked()
	return s.sort
}

// SetLimit changes the page size, clamped to at least one row, and resets the
// offset.
func (s *FilterState) SetLimit(limit int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if limit < 1 {
		limit = 1
	}
	s.page.Limit = limit
	s.page.Offset = 0
	s.persistLocked()
}

// SetOffset moves the pager window. Negative offsets clamp to zero.
func (s *FilterState) SetOffset(offset int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if offset < 0 {
		offset = 0
	}
	s.page.Offset = offset
	s.persistLocked()
}

// ResetFilters restores every field to its default, leaving presets intact.
func (s *FilterState) ResetFilters() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.criteria = DefaultCriteria()
	s.sort = DefaultSortState()
	s.page = Pagination{Limit: PageSizes[0]}
	s.persistLocked()
}

// SavePreset snapshots the current criteria under name.
func (s *FilterState) SavePreset(name string) error {
	if name == "" {
		return ErrPresetNameRequired
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.presets[name] = s.criteria
	s.persistLocked()
	return nil
}

// LoadPreset restores a saved criteria snapshot. Loading an unknown name is a
// no-op.
func (s *FilterState) LoadPreset(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	criteria, ok := s.presets[name]
	if !ok {
		return
	}
	s.criteria = criteria
	s.page.Offset = 0
	s.persistLocked()
}

// Presets lists the saved preset names.
func (s *FilterState) Presets() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.presets))
	for name := range s.presets {
		names = append(names, name)
	}
	return names
}

// periodBounds derives the inclusive from/to pair for a period shortcut using
// calendar-day boundaries: from is the starting day at 00:00:00, to is today
// at 23:59:59.
func (s *FilterState) periodBounds(period string) (string, string) {
	now := s.now()
	days := 0
	switch period {
	case PeriodToday:
		days = 0
	case Period7Days:
		days = 6
	case Period30Days:
		days = 29
	default:
		return "", ""
	}
	start := now.AddDate(0, 0, -days)
	from := start.Format("2006-01-02") + "T00:00:00"
	to := now.Format("2006-01-02") + "T23:59:59"
	return from, to
}

func applyPatch(criteria *FilterCriteria, patch FilterPatch) {
	if patch.Search != nil {
		criteria.Search = *patch.Search
	}
	if patch.Quality != nil {
		criteria.Quality = *patch.Quality
	}
	if patch.From != nil {
		criteria.From = *patch.From
	}
	if patch.To != nil {
		criteria.To = *patch.To
	}
	if patch.Model != nil {
		criteria.Model = *patch.Model
	}
	if patch.Source != nil {
		criteria.Source = *patch.Source
	}
	if patch.Status != nil {
		criteria.Status = *patch.Status
	}
	if patch.Tags != nil {
		criteria.Tags = *patch.Tags
	}
	if patch.Period != nil {
		criteria.Period = *patch.Period
	}
}

func (s *FilterState) persistLocked() {
	if s.storage == nil {
		return
	}
	snapshot := filterSnapshot{
		Criteria: s.criteria,
		Sort:     s.sort,
		Page:     s.page,
		Presets:  s.presets,
	}
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return
	}
	_ = s.storage.Set(StateKey, string(raw))
}

func (s *FilterState) restore() {
	if s.storage == nil {
		return
	}
	raw, ok := s.storage.Get(StateKey)
	if !ok {
		return
	}
	var snapshot filterSnapshot
	if err := json.Unmarshal([]byte(raw), &snapshot); err != nil {
		return
	}
	if snapshot.Criteria != (FilterCriteria{}) {
		s.criteria = snapshot.Criteria
	}
	if snapshot.Sort.Field != "" {
		s.sort = snapshot.Sort
	}
	if snapshot.Page.Limit > 0 {
		s.page = snapshot.Page
	}
	if snapshot.Presets != nil {
		s.presets = snapshot.Presets
	}
}
