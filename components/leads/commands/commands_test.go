package commands

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	leads "github.com/goliatone/go-leads/components/leads"
	"github.com/goliatone/go-leads/pkg/activity"
)

type recordingTelemetry struct {
	events []string
}

func (t *recordingTelemetry) Record(_ context.Context, event string, _ map[string]any) {
	t.events = append(t.events, event)
}

type stubLeadService struct {
	statusCalls []string
	tagsCalls   []string
	statusErr   error

	filterPatch leads.FilterPatch

	loadCalls   int
	notified    []leads.DatasetEvent
	exportFrom  string
	exportTo    string
	exportErr   error
	exportRows  int
	activityCtx leads.ActivityContext
}

func (s *stubLeadService) UpdateStatus(ctx context.Context, id, status string) error {
	s.activityCtx = leads.ActivityFrom(ctx)
	s.statusCalls = append(s.statusCalls, id+":"+status)
	return s.statusErr
}

func (s *stubLeadService) UpdateTags(ctx context.Context, id, tags string) error {
	s.activityCtx = leads.ActivityFrom(ctx)
	s.tagsCalls = append(s.tagsCalls, id+":"+tags)
	return nil
}

func (s *stubLeadService) ApplyFilters(_ context.Context, patch leads.FilterPatch) (leads.FilterCriteria, error) {
	s.filterPatch = patch
	criteria := leads.DefaultCriteria()
	if patch.Period != nil {
		criteria.Period = *patch.Period
	}
	return criteria, nil
}

func (s *stubLeadService) LoadDataset(context.Context, bool) (leads.Dataset, error) {
	s.loadCalls++
	return leads.Dataset{Total: 3}, nil
}

func (s *stubLeadService) NotifyDatasetUpdated(_ context.Context, event leads.DatasetEvent) error {
	s.notified = append(s.notified, event)
	return nil
}

func (s *stubLeadService) Export(_ context.Context, from, to string) (leads.ExportResult, error) {
	s.exportFrom, s.exportTo = from, to
	if s.exportErr != nil {
		return leads.ExportResult{}, s.exportErr
	}
	return leads.ExportResult{
		Filename: leads.ExportFilename(from, to),
		Content:  []byte("id,datetime\n"),
		Rows:     s.exportRows,
	}, nil
}

type recordingActivityHook struct {
	events []activity.Event
}

func (h *recordingActivityHook) Notify(_ context.Context, evt activity.Event) error {
	h.events = append(h.events, evt)
	return nil
}

func TestUpdateStatusCommand(t *testing.T) {
	service := &stubLeadService{}
	telemetry := &recordingTelemetry{}
	hook := &recordingActivityHook{}
	emitter := activity.NewEmitter(activity.Hooks{hook}, activity.Config{Enabled: true})
	cmd := NewUpdateStatusCommand(service, telemetry, emitter)

	err := cmd.Execute(context.Background(), UpdateStatusInput{
		LeadID:  "42",
		Status:  "в работе",
		ActorID: "admin",
	})
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if len(service.statusCalls) != 1 || service.statusCalls[0] != "42:в работе" {
		t.Fatalf("unexpected service calls: %v", service.statusCalls)
	}
	if service.activityCtx.ActorID != "admin" {
		t.Fatalf("activity context not propagated: %#v", service.activityCtx)
	}
	if len(hook.events) != 1 || hook.events[0].Verb != "update_status" || hook.events[0].ObjectID != "42" {
		t.Fatalf("unexpected activity events: %#v", hook.events)
	}
	if hook.events[0].Metadata["status"] != "в работе" {
		t.Fatalf("status missing from metadata: %#v", hook.events[0].Metadata)
	}
	if len(telemetry.events) != 1 || telemetry.events[0] != "leads.command.update_status" {
		t.Fatalf("unexpected telemetry: %v", telemetry.events)
	}
}

func TestUpdateStatusCommandValidation(t *testing.T) {
	cmd := NewUpdateStatusCommand(&stubLeadService{}, nil, nil)
	if err := cmd.Execute(context.Background(), UpdateStatusInput{Status: "новый"}); err == nil {
		t.Fatal("expected error for missing lead id")
	}
	if err := cmd.Execute(context.Background(), UpdateStatusInput{LeadID: "1"}); err == nil {
		t.Fatal("expected error for missing status")
	}

	headless := NewUpdateStatusCommand(nil, nil, nil)
	if err := headless.Execute(context.Background(), UpdateStatusInput{LeadID: "1", Status: "новый"}); err == nil {
		t.Fatal("expected error without service")
	}
}

func TestUpdateStatusCommandPropagatesServiceError(t *testing.T) {
	wantErr := errors.New("sheet write failed")
	service := &stubLeadService{statusErr: wantErr}
	hook := &recordingActivityHook{}
	emitter := activity.NewEmitter(activity.Hooks{hook}, activity.Config{Enabled: true})
	cmd := NewUpdateStatusCommand(service, nil, emitter)

	err := cmd.Execute(context.Background(), UpdateStatusInput{LeadID: "1", Status: "новый"})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected service error, got %v", err)
	}
	if len(hook.events) != 0 {
		t.Fatalf("no activity should be emitted on failure: %#v", hook.events)
	}
}

func TestUpdateTagsCommandAllowsClearing(t *testing.T) {
	service := &stubLeadService{}
	hook := &recordingActivityHook{}
	emitter := activity.NewEmitter(activity.Hooks{hook}, activity.Config{Enabled: true})
	cmd := NewUpdateTagsCommand(service, nil, emitter)

	if err := cmd.Execute(context.Background(), UpdateTagsInput{LeadID: "7", Tags: ""}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if len(service.tagsCalls) != 1 || service.tagsCalls[0] != "7:" {
		t.Fatalf("unexpected service calls: %v", service.tagsCalls)
	}
	if len(hook.events) != 1 || hook.events[0].Verb != "update_tags" {
		t.Fatalf("unexpected activity events: %#v", hook.events)
	}

	if err := cmd.Execute(context.Background(), UpdateTagsInput{}); err == nil {
		t.Fatal("expected error for missing lead id")
	}
}

func TestApplyFiltersCommand(t *testing.T) {
	service := &stubLeadService{}
	telemetry := &recordingTelemetry{}
	cmd := NewApplyFiltersCommand(service, telemetry)

	period := leads.Period7Days
	err := cmd.Execute(context.Background(), ApplyFiltersInput{
		Patch:  leads.FilterPatch{Period: &period},
		Viewer: leads.ViewerContext{UserID: "admin"},
	})
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if service.filterPatch.Period == nil || *service.filterPatch.Period != leads.Period7Days {
		t.Fatalf("patch not forwarded: %#v", service.filterPatch)
	}
	if len(telemetry.events) != 1 || telemetry.events[0] != "leads.command.apply_filters" {
		t.Fatalf("unexpected telemetry: %v", telemetry.events)
	}
}

func TestPresetCommands(t *testing.T) {
	state := leads.NewFilterState(nil)
	save := NewSavePresetCommand(state, nil)
	load := NewLoadPresetCommand(state, nil)

	quality := leads.QualityHigh
	state.SetFilters(leads.FilterPatch{Quality: &quality})
	if err := save.Execute(context.Background(), SavePresetInput{Name: "hot"}); err != nil {
		t.Fatalf("save preset: %v", err)
	}

	state.ResetFilters()
	if err := load.Execute(context.Background(), LoadPresetInput{Name: "hot"}); err != nil {
		t.Fatalf("load preset: %v", err)
	}
	if state.Criteria().Quality != leads.QualityHigh {
		t.Fatalf("preset not applied: %#v", state.Criteria())
	}
}

func TestPresetCommandsRequireName(t *testing.T) {
	state := leads.NewFilterState(nil)
	save := NewSavePresetCommand(state, nil)
	load := NewLoadPresetCommand(state, nil)

	if err := save.Execute(context.Background(), SavePresetInput{}); !errors.Is(err, leads.ErrPresetNameRequired) {
		t.Fatalf("expected ErrPresetNameRequired, got %v", err)
	}
	if err := load.Execute(context.Background(), LoadPresetInput{}); !errors.Is(err, leads.ErrPresetNameRequired) {
		t.Fatalf("expected ErrPresetNameRequired, got %v", err)
	}
}

func TestRefreshDatasetCommand(t *testing.T) {
	service := &stubLeadService{}
	telemetry := &recordingTelemetry{}
	cmd := NewRefreshDatasetCommand(service, telemetry)

	if err := cmd.Execute(context.Background(), RefreshDatasetInput{}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if service.loadCalls != 1 {
		t.Fatalf("expected forced dataset load, got %d", service.loadCalls)
	}
	if len(service.notified) != 1 || service.notified[0].Reason != "reload" {
		t.Fatalf("unexpected notifications: %#v", service.notified)
	}

	err := cmd.Execute(context.Background(), RefreshDatasetInput{
		Event: leads.DatasetEvent{Reason: "status", LeadID: "1"},
	})
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if service.notified[1].Reason != "status" || service.notified[1].LeadID != "1" {
		t.Fatalf("event not forwarded: %#v", service.notified[1])
	}
}

func TestExportCommandWritesFile(t *testing.T) {
	service := &stubLeadService{exportRows: 2}
	cmd := NewExportCommand(service, nil)
	dir := t.TempDir()

	err := cmd.Execute(context.Background(), ExportInput{
		From:      "2026-08-01",
		To:        "2026-08-30",
		OutputDir: dir,
	})
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if service.exportFrom != "2026-08-01" || service.exportTo != "2026-08-30" {
		t.Fatalf("range not forwarded: %q..%q", service.exportFrom, service.exportTo)
	}
	if cmd.Result.Rows != 2 {
		t.Fatalf("result not captured: %#v", cmd.Result)
	}

	raw, err := os.ReadFile(filepath.Join(dir, cmd.Result.Filename))
	if err != nil {
		t.Fatalf("read export file: %v", err)
	}
	if !strings.HasPrefix(string(raw), "id,") {
		t.Fatalf("unexpected export content %q", raw)
	}
}

func TestExportCommandPropagatesRangeErrors(t *testing.T) {
	service := &stubLeadService{exportErr: leads.ErrExportRangeRequired}
	cmd := NewExportCommand(service, nil)
	err := cmd.Execute(context.Background(), ExportInput{})
	if !errors.Is(err, leads.ErrExportRangeRequired) {
		t.Fatalf("expected range error, got %v", err)
	}
}
