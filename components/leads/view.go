package leads

import (
	"sort"
	"strconv"
	"strings"
)

// FilterCriteria is the declarative filter set applied by the view engine.
// Enum-style fields use FilterAll as the wildcard; From/To are timestamps in
// any format ParseTimestamp accepts; empty means unbounded.
type FilterCriteria struct {
	Search  string `json:"search"`
	Quality string `json:"quality"`
	From    string `json:"from"`
	To      string `json:"to"`
	Model   string `json:"model"`
	Source  string `json:"source"`
	Status  string `json:"status"`
	Tags    string `json:"tags"`
	Period  string `json:"period"`
}

// Sort directions.
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// SortState names the active sort column and direction.
type SortState struct {
	Field     string `json:"field"`
	Direction string `json:"direction"`
}

// Pagination selects a window into the filtered, sorted collection. Offset is
// zero-based and relative to the filtered result, not the raw collection.
type Pagination struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// View is the output of ComputeView: the page to render, the filtered total
// backing the pager, and the full sorted collection used for export.
type View struct {
	VisibleRows   []Lead `json:"rows"`
	FilteredTotal int    `json:"filtered_total"`
	Sorted        []Lead `json:"-"`
}

// DefaultSortState is the table's initial sort: newest leads first.
func DefaultSortState() SortState {
	return SortState{Field: "datetime", Direction: SortDesc}
}

// NextSortState applies the column-header toggle rule: re-selecting the active
// field flips direction; selecting a new field resets to that field's default
// (descending for datetime, ascending for everything else).
func NextSortState(current SortState, field string) SortState {
	if current.Field == field {
		direction := SortAsc
		if current.Direction == SortAsc {
			direction = SortDesc
		}
		return SortState{Field: field, Direction: direction}
	}
	direction := SortAsc
	if field == "datetime" {
		direction = SortDesc
	}
	return SortState{Field: field, Direction: direction}
}

// ComputeView filters, sorts, and paginates the raw lead collection. The
// operation is pure: rawLeads is never mutated and identical inputs produce
// identical output. An offset past the filtered total yields an empty page.
func ComputeView(rawLeads []Lead, criteria FilterCriteria, sortState SortState, page Pagination) View {
	filtered := filterLeads(rawLeads, criteria)
	sorted := sortLeads(filtered, sortState)

	limit := page.Limit
	if limit < 1 {
		limit = 1
	}
	start := page.Offset
	if start < 0 {
		start = 0
	}
	end := start + limit
	if start > len(sorted) {
		start = len(sorted)
	}
	if end > len(sorted) {
		end = len(sorted)
	}

	return View{
		VisibleRows:   sorted[start:end],
		FilteredTotal: len(sorted),
		Sorted:        sorted,
	}
}

func filterLeads(rawLeads []Lead, criteria FilterCriteria) []Lead {
	search := strings.ToLower(strings.TrimSpace(criteria.Search))
	var fromMillis, toMillis int64
	if criteria.From != "" {
		fromMillis = TimestampMillis(criteria.From)
	}
	if criteria.To != "" {
		toMillis = TimestampMillis(criteria.To)
	}

	out := make([]Lead, 0, len(rawLeads))
	for _, lead := range rawLeads {
		if search != "" {
			name := strings.ToLower(lead.Name)
			phone := strings.ToLower(lead.Phone())
			if !strings.Contains(name, search) && !(phone != "" && strings.Contains(phone, search)) {
				continue
			}
		}
		if criteria.Quality != "" && criteria.Quality != FilterAll && lead.QualityBucket != criteria.Quality {
			continue
		}
		ts := TimestampMillis(lead.Datetime)
		if fromMillis != 0 && ts < fromMillis {
			continue
		}
		if toMillis != 0 && ts > toMillis {
			continue
		}
		if criteria.Model != "" && criteria.Model != FilterAll && !containsFold(lead.SelectedCar, criteria.Model) {
			continue
		}
		if criteria.Source != "" && criteria.Source != FilterAll && !containsFold(lead.TrafficSource, criteria.Source) {
			continue
		}
		if criteria.Status != "" && criteria.Status != FilterAll && lead.Status != criteria.Status {
			continue
		}
		if criteria.Tags != "" && !containsFold(lead.Tags, criteria.Tags) {
			continue
		}
		out = append(out, lead)
	}
	return out
}

func sortLeads(filtered []Lead, state SortState) []Lead {
	sorted := make([]Lead, len(filtered))
	copy(sorted, filtered)
	if state.Field == "" {
		return sorted
	}
	dir := 1
	if state.Direction == SortDesc {
		dir = -1
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return compareLeads(sorted[i], sorted[j], state.Field)*dir < 0
	})
	return sorted
}

// compareLeads orders two leads by the named field: timestamps numerically,
// strings lexicographically, anything else by numeric coercion.
func compareLeads(a, b Lead, field string) int {
	if field == "datetime" {
		av := TimestampMillis(a.Datetime)
		bv := TimestampMillis(b.Datetime)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		default:
			return 0
		}
	}
	av := a.Field(field)
	bv := b.Field(field)
	as, aIsString := av.(string)
	bs, bIsString := bv.(string)
	if aIsString && bIsString {
		return strings.Compare(as, bs)
	}
	af := numericValue(av)
	bf := numericValue(bv)
	switch {
	case af < bf:
		return -1
	case af > bf:
		return 1
	default:
		return 0
	}
}

func numericValue(value any) float64 {
	switch v := value.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}
