package sheets

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	leads "github.com/goliatone/go-leads/components/leads"
)

// Config configures the HTTP sheets client.
type Config struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

// HTTPClient talks to the spreadsheet web-app endpoint. Reads are cached in
// memory per query; every successful mutation clears the whole cache so the
// next fetch observes the write.
type HTTPClient struct {
	baseURL string
	apiKey  string
	client  *http.Client

	mu    sync.Mutex
	cache map[string]PageResult
}

// NewHTTPClient builds a client capable of hitting the live backend.
func NewHTTPClient(cfg Config) (*HTTPClient, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("sheets: base url is required")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &HTTPClient{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		client:  httpClient,
		cache:   make(map[string]PageResult),
	}, nil
}

// FetchLeads requests a single page. Identical queries are served from the
// in-memory cache until a mutation invalidates it.
func (c *HTTPClient) FetchLeads(ctx context.Context, query FetchQuery) (PageResult, error) {
	query = query.withDefaults()
	key := cacheKey(query)

	c.mu.Lock()
	if cached, ok := c.cache[key]; ok {
		c.mu.Unlock()
		return cached, nil
	}
	c.mu.Unlock()

	endpoint, err := url.Parse(c.baseURL)
	if err != nil {
		return PageResult{}, fmt.Errorf("sheets: parse base url: %w", err)
	}
	endpoint.RawQuery = query.values().Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return PageResult{}, fmt.Errorf("sheets: build request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return PageResult{}, fmt.Errorf("sheets: http request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		var buf bytes.Buffer
		_, _ = buf.ReadFrom(resp.Body)
		return PageResult{}, fmt.Errorf("sheets: remote error %d: %s", resp.StatusCode, buf.String())
	}

	var page PageResult
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return PageResult{}, fmt.Errorf("sheets: decode response: %w", err)
	}

	c.mu.Lock()
	c.cache[key] = page
	c.mu.Unlock()
	return page, nil
}

// FetchAllLeads accumulates every page into a single dataset. It keeps the
// first aggregations block and the first reported total, and stops once a
// short page arrives or the accumulated count reaches the total.
func (c *HTTPClient) FetchAllLeads(ctx context.Context, pageSize int) (leads.Dataset, error) {
	if pageSize <= 0 {
		pageSize = 500
	}
	var (
		dataset leads.Dataset
		offset  int
	)
	for {
		page, err := c.FetchLeads(ctx, FetchQuery{Limit: pageSize, Offset: offset})
		if err != nil {
			return leads.Dataset{}, err
		}
		if dataset.Aggregations == nil && page.Aggregations != nil {
			dataset.Aggregations = page.Aggregations
		}
		if dataset.Total == 0 {
			dataset.Total = page.Total
		}
		dataset.Leads = append(dataset.Leads, page.Leads...)
		if len(page.Leads) < pageSize || len(dataset.Leads) >= dataset.Total {
			break
		}
		offset += pageSize
	}
	return dataset, nil
}

// UpdateStatus writes a lead status and invalidates the read cache.
func (c *HTTPClient) UpdateStatus(ctx context.Context, id, status string) error {
	return c.mutate(ctx, map[string]any{
		"action":      "update_status",
		"id":          id,
		"lead_status": status,
	})
}

// UpdateTags writes the tags string and invalidates the read cache.
func (c *HTTPClient) UpdateTags(ctx context.Context, id, tags string) error {
	return c.mutate(ctx, map[string]any{
		"action": "update_tags",
		"id":     id,
		"tags":   tags,
	})
}

func (c *HTTPClient) mutate(ctx context.Context, payload map[string]any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("sheets: encode payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("sheets: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("sheets: http request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		var buf bytes.Buffer
		_, _ = buf.ReadFrom(resp.Body)
		return fmt.Errorf("sheets: remote error %d: %s", resp.StatusCode, buf.String())
	}
	c.ClearCache()
	return nil
}

// ClearCache drops every cached page.
func (c *HTTPClient) ClearCache() {
	c.mu.Lock()
	c.cache = make(map[string]PageResult)
	c.mu.Unlock()
}

func (q FetchQuery) withDefaults() FetchQuery {
	if q.Quality == "" {
		q.Quality = leads.FilterAll
	}
	if q.Model == "" {
		q.Model = leads.FilterAll
	}
	if q.Source == "" {
		q.Source = leads.FilterAll
	}
	if q.Status == "" {
		q.Status = leads.FilterAll
	}
	return q
}

func (q FetchQuery) values() url.Values {
	values := url.Values{}
	values.Set("limit", strconv.Itoa(q.Limit))
	values.Set("offset", strconv.Itoa(q.Offset))
	values.Set("quality", q.Quality)
	values.Set("search", q.Search)
	values.Set("model", q.Model)
	values.Set("source", q.Source)
	values.Set("status", q.Status)
	values.Set("tags", q.Tags)
	if q.From != "" {
		values.Set("from", q.From)
	}
	if q.To != "" {
		values.Set("to", q.To)
	}
	return values
}

// cacheKey hashes the canonical query encoding; the struct marshals
// deterministically so equal queries collapse to one entry.
func cacheKey(q FetchQuery) string {
	b, err := json.Marshal(q)
	if err != nil {
		return "invalid"
	}
	sum := sha1.Sum(b)
	return hex.EncodeToString(sum[:])
}
