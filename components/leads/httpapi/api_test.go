package httpapi

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	leads "github.com/goliatone/go-leads/components/leads"
	"github.com/goliatone/go-leads/components/leads/commands"
	"github.com/goliatone/go-leads/components/leads/queries"
	"github.com/goliatone/go-leads/pkg/sheets"
)

type recordingStatusCommand struct {
	inputs []commands.UpdateStatusInput
	err    error
}

func (c *recordingStatusCommand) Execute(_ context.Context, input commands.UpdateStatusInput) error {
	c.inputs = append(c.inputs, input)
	return c.err
}

type recordingRefreshCommand struct {
	inputs []commands.RefreshDatasetInput
}

func (c *recordingRefreshCommand) Execute(_ context.Context, input commands.RefreshDatasetInput) error {
	c.inputs = append(c.inputs, input)
	return nil
}

func newExportService(t *testing.T) *leads.Service {
	t.Helper()
	source := sheets.NewMockClient(sheets.MockData{
		Leads: []leads.Lead{
			{ID: "1", Datetime: "2026-08-20T10:00:00", Name: "Анна", SelectedCar: "LIXIANG L7"},
			{ID: "2", Datetime: "2026-08-25T12:30:00", Name: "Игорь", SelectedCar: "ZEEKR 001"},
		},
	})
	return leads.NewService(leads.Options{Source: source})
}

func TestHandleViewReturnsJSON(t *testing.T) {
	service := newExportService(t)
	handlers := &Handlers{View: queries.NewViewQuery(service)}

	req := httptest.NewRequest("GET", "/dashboard/view", nil)
	rec := httptest.NewRecorder()
	handlers.HandleView(rec, req)

	if rec.Code != 200 {
		t.Fatalf("unexpected status %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("unexpected content type %q", ct)
	}
	var view leads.View
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode view: %v", err)
	}
	if view.FilteredTotal != 2 {
		t.Fatalf("unexpected view %#v", view)
	}
}

func TestHandleUpdateStatus(t *testing.T) {
	cmd := &recordingStatusCommand{}
	handlers := &Handlers{Status: cmd}

	body := strings.NewReader(`{"lead_id":"5","status":"обработан"}`)
	req := httptest.NewRequest("POST", "/dashboard/leads/status", body)
	rec := httptest.NewRecorder()
	handlers.HandleUpdateStatus(rec, req)

	if rec.Code != 200 {
		t.Fatalf("unexpected status %d: %s", rec.Code, rec.Body.String())
	}
	if len(cmd.inputs) != 1 || cmd.inputs[0].LeadID != "5" || cmd.inputs[0].Status != "обработан" {
		t.Fatalf("unexpected command inputs %#v", cmd.inputs)
	}
}

func TestHandleUpdateStatusRejectsBadJSON(t *testing.T) {
	handlers := &Handlers{Status: &recordingStatusCommand{}}
	req := httptest.NewRequest("POST", "/dashboard/leads/status", strings.NewReader("{broken"))
	rec := httptest.NewRecorder()
	handlers.HandleUpdateStatus(rec, req)
	if rec.Code != 400 {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestHandleRefreshToleratesEmptyBody(t *testing.T) {
	cmd := &recordingRefreshCommand{}
	handlers := &Handlers{Refresh: cmd}

	req := httptest.NewRequest("POST", "/dashboard/refresh", nil)
	rec := httptest.NewRecorder()
	handlers.HandleRefresh(rec, req)

	if rec.Code != 202 {
		t.Fatalf("expected 202, got %d", rec.Code)
	}
	if len(cmd.inputs) != 1 {
		t.Fatalf("expected refresh dispatch, got %#v", cmd.inputs)
	}
}

func TestHandleExport(t *testing.T) {
	handlers := &Handlers{Service: newExportService(t)}

	req := httptest.NewRequest("GET", "/dashboard/export?from=2026-08-01&to=2026-08-30", nil)
	rec := httptest.NewRecorder()
	handlers.HandleExport(rec, req)

	if rec.Code != 200 {
		t.Fatalf("unexpected status %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Fatalf("unexpected content type %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "attachment") {
		t.Fatalf("unexpected disposition %q", cd)
	}
	if !strings.HasPrefix(rec.Body.String(), "id,") {
		t.Fatalf("unexpected export body %q", rec.Body.String())
	}
}

func TestHandleExportRequiresRange(t *testing.T) {
	handlers := &Handlers{Service: newExportService(t)}

	req := httptest.NewRequest("GET", "/dashboard/export", nil)
	rec := httptest.NewRecorder()
	handlers.HandleExport(rec, req)
	if rec.Code != 400 {
		t.Fatalf("expected 400 without range, got %d", rec.Code)
	}

	req = httptest.NewRequest("GET", "/dashboard/export?from=2026-08-30&to=2026-08-01", nil)
	rec = httptest.NewRecorder()
	handlers.HandleExport(rec, req)
	if rec.Code != 400 {
		t.Fatalf("expected 400 for reversed range, got %d", rec.Code)
	}
}

func TestHandleExportWithoutService(t *testing.T) {
	handlers := &Handlers{}
	req := httptest.NewRequest("GET", "/dashboard/export?from=2026-08-01&to=2026-08-30", nil)
	rec := httptest.NewRecorder()
	handlers.HandleExport(rec, req)
	if rec.Code != 501 {
		t.Fatalf("expected 501, got %d", rec.Code)
	}
}

func TestCommandExecutorDispatch(t *testing.T) {
	cmd := &recordingStatusCommand{}
	executor := &CommandExecutor{StatusCommander: cmd}

	err := executor.UpdateStatus(context.Background(), commands.UpdateStatusInput{LeadID: "1", Status: "новый"})
	if err != nil {
		t.Fatalf("dispatch returned error: %v", err)
	}
	if len(cmd.inputs) != 1 {
		t.Fatalf("command not invoked: %#v", cmd.inputs)
	}

	if err := executor.UpdateTags(context.Background(), commands.UpdateTagsInput{}); err == nil {
		t.Fatal("expected error for unconfigured command")
	}
}
