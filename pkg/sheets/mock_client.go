package sheets

import (
	"context"
	"sync"

	leads "github.com/goliatone/go-leads/components/leads"
)

// MockData seeds deterministic lead responses for tests or local demos.
type MockData struct {
	Leads        []leads.Lead
	Aggregations *leads.Aggregations
}

// MockClient implements Client using in-memory fixtures. Mutations update the
// fixtures in place so subsequent reads observe them, mirroring the cache
// invalidation behavior of the HTTP client.
type MockClient struct {
	mu   sync.RWMutex
	data MockData
}

// NewMockClient builds a mock sheets client from the provided fixtures.
func NewMockClient(data MockData) *MockClient {
	return &MockClient{data: data}
}

// FetchLeads returns a page sliced out of the fixture set.
func (c *MockClient) FetchLeads(_ context.Context, query FetchQuery) (PageResult, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	total := len(c.data.Leads)
	start := query.Offset
	if start > total {
		start = total
	}
	end := start + query.Limit
	if query.Limit <= 0 || end > total {
		end = total
	}
	page := make([]leads.Lead, end-start)
	copy(page, c.data.Leads[start:end])
	return PageResult{
		Leads:        page,
		Total:        total,
		Aggregations: c.data.Aggregations,
	}, nil
}

// FetchAllLeads returns the whole fixture set as a dataset.
func (c *MockClient) FetchAllLeads(_ context.Context, _ int) (leads.Dataset, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	all := make([]leads.Lead, len(c.data.Leads))
	copy(all, c.data.Leads)
	return leads.Dataset{
		Leads:        all,
		Total:        len(all),
		Aggregations: c.data.Aggregations,
	}, nil
}

// UpdateStatus mutates the fixture lead with the matching id.
func (c *MockClient) UpdateStatus(_ context.Context, id, status string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.data.Leads {
		if c.data.Leads[i].ID == id {
			c.data.Leads[i].Status = status
		}
	}
	return nil
}

// UpdateTags mutates the fixture lead with the matching id.
func (c *MockClient) UpdateTags(_ context.Context, id, tags string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.data.Leads {
		if c.data.Leads[i].ID == id {
			c.data.Leads[i].Tags = tags
		}
	}
	return nil
}
