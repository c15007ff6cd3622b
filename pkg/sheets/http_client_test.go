package sheets

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	leads "github.com/goliatone/go-leads/components/leads"
)

func newTestClient(t *testing.T, handler http.Handler) (*HTTPClient, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client, err := NewHTTPClient(Config{BaseURL: server.URL, APIKey: "secret-key"})
	if err != nil {
		t.Fatalf("NewHTTPClient returned error: %v", err)
	}
	return client, server
}

func writePage(w http.ResponseWriter, page PageResult) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(page)
}

func TestFetchLeadsSendsDefaultedQuery(t *testing.T) {
	var query url.Values
	var auth string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		auth = r.Header.Get("Authorization")
		writePage(w, PageResult{})
	}))

	_, err := client.FetchLeads(context.Background(), FetchQuery{Limit: 50, Offset: 100, Search: "Анна"})
	if err != nil {
		t.Fatalf("FetchLeads returned error: %v", err)
	}

	if auth != "Bearer secret-key" {
		t.Fatalf("unexpected authorization header %q", auth)
	}
	for key, want := range map[string]string{
		"limit":   "50",
		"offset":  "100",
		"quality": leads.FilterAll,
		"model":   leads.FilterAll,
		"source":  leads.FilterAll,
		"status":  leads.FilterAll,
		"search":  "Анна",
	} {
		if got := query.Get(key); got != want {
			t.Fatalf("query %s = %q, want %q", key, got, want)
		}
	}
	if query.Has("from") || query.Has("to") {
		t.Fatalf("blank date bounds must be omitted, got %v", query)
	}
}

func TestFetchLeadsIncludesDateBounds(t *testing.T) {
	var query url.Values
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		writePage(w, PageResult{})
	}))

	_, err := client.FetchLeads(context.Background(), FetchQuery{
		Limit: 10,
		From:  "2026-08-01T00:00:00",
		To:    "2026-08-30T23:59:59",
	})
	if err != nil {
		t.Fatalf("FetchLeads returned error: %v", err)
	}
	if query.Get("from") != "2026-08-01T00:00:00" || query.Get("to") != "2026-08-30T23:59:59" {
		t.Fatalf("date bounds not forwarded: %v", query)
	}
}

func TestFetchLeadsCachesIdenticalQueries(t *testing.T) {
	requests := 0
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		writePage(w, PageResult{Leads: []leads.Lead{{ID: "1"}}, Total: 1})
	}))

	for i := 0; i < 3; i++ {
		page, err := client.FetchLeads(context.Background(), FetchQuery{Limit: 10})
		if err != nil {
			t.Fatalf("FetchLeads returned error: %v", err)
		}
		if page.Total != 1 {
			t.Fatalf("unexpected page %#v", page)
		}
	}
	if requests != 1 {
		t.Fatalf("expected single upstream request, got %d", requests)
	}

	// a different query misses the cache
	if _, err := client.FetchLeads(context.Background(), FetchQuery{Limit: 20}); err != nil {
		t.Fatalf("FetchLeads returned error: %v", err)
	}
	if requests != 2 {
		t.Fatalf("expected cache miss for new query, got %d requests", requests)
	}
}

func TestMutationsInvalidateCache(t *testing.T) {
	fetches := 0
	var mutation map[string]any
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			if err := json.NewDecoder(r.Body).Decode(&mutation); err != nil {
				t.Errorf("decode mutation: %v", err)
			}
			w.WriteHeader(http.StatusOK)
			return
		}
		fetches++
		writePage(w, PageResult{})
	}))

	if _, err := client.FetchLeads(context.Background(), FetchQuery{Limit: 10}); err != nil {
		t.Fatalf("FetchLeads returned error: %v", err)
	}
	if err := client.UpdateStatus(context.Background(), "7", "обработан"); err != nil {
		t.Fatalf("UpdateStatus returned error: %v", err)
	}
	if mutation["action"] != "update_status" || mutation["id"] != "7" || mutation["lead_status"] != "обработан" {
		t.Fatalf("unexpected mutation payload %v", mutation)
	}

	if _, err := client.FetchLeads(context.Background(), FetchQuery{Limit: 10}); err != nil {
		t.Fatalf("FetchLeads returned error: %v", err)
	}
	if fetches != 2 {
		t.Fatalf("mutation should drop the cache, got %d fetches", fetches)
	}
}

func TestUpdateTagsPayload(t *testing.T) {
	var mutation map[string]any
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&mutation)
		w.WriteHeader(http.StatusOK)
	}))

	if err := client.UpdateTags(context.Background(), "3", "vip,повторный"); err != nil {
		t.Fatalf("UpdateTags returned error: %v", err)
	}
	if mutation["action"] != "update_tags" || mutation["tags"] != "vip,повторный" {
		t.Fatalf("unexpected mutation payload %v", mutation)
	}
}

func TestFetchAllLeadsAccumulatesPages(t *testing.T) {
	agg := &leads.Aggregations{}
	total := 5
	all := make([]leads.Lead, total)
	for i := range all {
		all[i] = leads.Lead{ID: strconv.Itoa(i + 1)}
	}

	requests := 0
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		end := offset + limit
		if end > total {
			end = total
		}
		page := PageResult{Leads: all[offset:end], Total: total}
		if offset == 0 {
			page.Aggregations = agg
		}
		writePage(w, page)
	}))

	dataset, err := client.FetchAllLeads(context.Background(), 2)
	if err != nil {
		t.Fatalf("FetchAllLeads returned error: %v", err)
	}
	if len(dataset.Leads) != total || dataset.Total != total {
		t.Fatalf("unexpected dataset: %d leads, total %d", len(dataset.Leads), dataset.Total)
	}
	if dataset.Leads[0].ID != "1" || dataset.Leads[4].ID != "5" {
		t.Fatalf("pages out of order: %#v", dataset.Leads)
	}
	if dataset.Aggregations == nil {
		t.Fatal("first aggregations block should be retained")
	}
	if requests != 3 {
		t.Fatalf("expected 3 page requests, got %d", requests)
	}
}

func TestFetchAllLeadsStopsOnShortPage(t *testing.T) {
	requests := 0
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		// server advertises a stale total but returns a short page
		writePage(w, PageResult{Leads: []leads.Lead{{ID: "1"}}, Total: 100})
	}))

	dataset, err := client.FetchAllLeads(context.Background(), 50)
	if err != nil {
		t.Fatalf("FetchAllLeads returned error: %v", err)
	}
	if len(dataset.Leads) != 1 || requests != 1 {
		t.Fatalf("short page should stop pagination: %d leads, %d requests", len(dataset.Leads), requests)
	}
}

func TestFetchLeadsRemoteError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "sheet quota exceeded", http.StatusBadGateway)
	}))

	_, err := client.FetchLeads(context.Background(), FetchQuery{Limit: 10})
	if err == nil {
		t.Fatal("expected remote error")
	}
	want := fmt.Sprintf("remote error %d", http.StatusBadGateway)
	if got := err.Error(); !strings.Contains(got, want) {
		t.Fatalf("error %q missing %q", got, want)
	}
}

func TestNewHTTPClientRequiresBaseURL(t *testing.T) {
	if _, err := NewHTTPClient(Config{}); err == nil {
		t.Fatal("expected error for missing base url")
	}
}
