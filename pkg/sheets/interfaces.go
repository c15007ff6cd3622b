package sheets

import (
	"context"

	leads "github.com/goliatone/go-leads/components/leads"
)

// FetchQuery carries the query parameters the spreadsheet endpoint accepts.
// Enum-style filters default to "all" and free-text ones to empty strings;
// From/To are omitted from the request entirely when blank.
type FetchQuery struct {
	Limit   int
	Offset  int
	Quality string
	Search  string
	From    string
	To      string
	Model   string
	Source  string
	Status  string
	Tags    string
}

// PageResult is one page of leads plus the metadata that rides along with it.
// Aggregations are only populated on some responses; callers keep the first
// non-nil block they see.
type PageResult struct {
	Leads        []leads.Lead        `json:"leads"`
	Total        int                 `json:"total"`
	Aggregations *leads.Aggregations `json:"aggregations"`
}

// Fetcher retrieves lead pages from the backend.
type Fetcher interface {
	FetchLeads(ctx context.Context, query FetchQuery) (PageResult, error)
}

// Mutator writes lead fields back to the backend.
type Mutator interface {
	UpdateStatus(ctx context.Context, id, status string) error
	UpdateTags(ctx context.Context, id, tags string) error
}

// Client is a convenience union for services that implement the full API
// surface, including the accumulated fetch used by the dashboard.
type Client interface {
	Fetcher
	Mutator
	FetchAllLeads(ctx context.Context, pageSize int) (leads.Dataset, error)
}
