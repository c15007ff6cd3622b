package leads

import (
	"bytes"
	"context"
	"io"
	"testing"
)

type captureRenderer struct {
	name string
	data any
}

func (r *captureRenderer) Render(name string, data any, out ...io.Writer) (string, error) {
	r.name = name
	r.data = data
	for _, w := range out {
		if _, err := w.Write([]byte("<html>dashboard</html>")); err != nil {
			return "", err
		}
	}
	return "<html>dashboard</html>", nil
}

func TestControllerPayload(t *testing.T) {
	source := &stubSource{dataset: Dataset{
		Leads:        sampleLeads(),
		Total:        4,
		Aggregations: sampleAggregations(),
	}}
	service := NewService(Options{Source: source})
	controller := NewController(ControllerOptions{Service: service})

	viewer := ViewerContext{UserID: "admin", Roles: []string{"admin"}, Locale: "ru"}
	payload, err := controller.Payload(context.Background(), viewer)
	if err != nil {
		t.Fatalf("Payload returned error: %v", err)
	}

	if payload.Viewer.UserID != "admin" {
		t.Fatalf("viewer not carried through: %#v", payload.Viewer)
	}
	if len(payload.Widgets) == 0 {
		t.Fatal("expected resolved widgets")
	}
	if payload.View.FilteredTotal != 4 {
		t.Fatalf("unexpected filtered total %d", payload.View.FilteredTotal)
	}
	if payload.Criteria.Quality != FilterAll {
		t.Fatalf("expected default criteria, got %#v", payload.Criteria)
	}
	if payload.Sort != DefaultSortState() {
		t.Fatalf("expected default sort, got %#v", payload.Sort)
	}
}

func TestControllerPayloadRequiresService(t *testing.T) {
	controller := NewController(ControllerOptions{})
	if _, err := controller.Payload(context.Background(), ViewerContext{}); err == nil {
		t.Fatal("expected error without service")
	}
}

func TestControllerRenderTemplate(t *testing.T) {
	source := &stubSource{dataset: Dataset{Leads: sampleLeads(), Total: 4}}
	service := NewService(Options{Source: source})
	renderer := &captureRenderer{}
	controller := NewController(ControllerOptions{
		Service:  service,
		Renderer: renderer,
		Template: "dashboard",
	})

	var buf bytes.Buffer
	if err := controller.RenderTemplate(context.Background(), ViewerContext{UserID: "admin"}, &buf); err != nil {
		t.Fatalf("RenderTemplate returned error: %v", err)
	}
	if renderer.name != "dashboard" {
		t.Fatalf("unexpected template %q", renderer.name)
	}
	if _, ok := renderer.data.(DashboardPayload); !ok {
		t.Fatalf("unexpected payload type %T", renderer.data)
	}
	if buf.Len() == 0 {
		t.Fatal("expected rendered output")
	}
}

func TestControllerRenderTemplateRequiresRenderer(t *testing.T) {
	service := NewService(Options{Source: &stubSource{}})
	controller := NewController(ControllerOptions{Service: service})
	if err := controller.RenderTemplate(context.Background(), ViewerContext{}, io.Discard); err == nil {
		t.Fatal("expected error without renderer")
	}
}
