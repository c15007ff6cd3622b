package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	leads "github.com/goliatone/go-leads/components/leads"
)

type viewService interface {
	View(ctx context.Context) (leads.View, error)
}

// ViewInput is reserved for future view parameters; the view itself derives
// from the shared filter state.
type ViewInput struct{}

// ViewQuery executes read-only table view resolution.
type ViewQuery struct {
	service viewService
}

// NewViewQuery builds the query.
func NewViewQuery(service viewService) *ViewQuery {
	return &ViewQuery{service: service}
}

var _ gocommand.Querier[ViewInput, leads.View] = (*ViewQuery)(nil)

// Query computes the current table view.
func (q *ViewQuery) Query(ctx context.Context, _ ViewInput) (leads.View, error) {
	return q.service.View(ctx)
}
