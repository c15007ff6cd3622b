package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	gocommand "github.com/goliatone/go-command"
	leads "github.com/goliatone/go-leads/components/leads"
	"github.com/goliatone/go-leads/components/leads/commands"
	"github.com/goliatone/go-leads/components/leads/queries"
)

// Handlers exposes HTTP endpoints backed by shared commands/queries.
type Handlers struct {
	Status  gocommand.Commander[commands.UpdateStatusInput]
	Tags    gocommand.Commander[commands.UpdateTagsInput]
	Filters gocommand.Commander[commands.ApplyFiltersInput]
	Refresh gocommand.Commander[commands.RefreshDatasetInput]

	View    gocommand.Querier[queries.ViewInput, leads.View]
	Widgets gocommand.Querier[leads.ViewerContext, []leads.ResolvedWidget]

	Service *leads.Service
}

// HandleView returns the filtered, sorted, paginated table view.
func (h *Handlers) HandleView(w http.ResponseWriter, r *http.Request) {
	view, err := h.View.Query(r.Context(), queries.ViewInput{})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// HandleWidgets resolves the widget set for the viewer in context.
func (h *Handlers) HandleWidgets(w http.ResponseWriter, r *http.Request, viewer leads.ViewerContext) {
	widgets, err := h.Widgets.Query(r.Context(), viewer)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, widgets)
}

// HandleUpdateStatus writes a lead status back to the source.
func (h *Handlers) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	var payload commands.UpdateStatusInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.Status.Execute(r.Context(), payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// HandleUpdateTags writes lead tags back to the source.
func (h *Handlers) HandleUpdateTags(w http.ResponseWriter, r *http.Request) {
	var payload commands.UpdateTagsInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.Tags.Execute(r.Context(), payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// HandleApplyFilters merges a filter patch into the shared state.
func (h *Handlers) HandleApplyFilters(w http.ResponseWriter, r *http.Request) {
	var payload commands.ApplyFiltersInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.Filters.Execute(r.Context(), payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// HandleRefresh forces a dataset reload.
func (h *Handlers) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	var payload commands.RefreshDatasetInput
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&payload)
	}
	if err := h.Refresh.Execute(r.Context(), payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// HandleExport streams the CSV export for the requested range.
func (h *Handlers) HandleExport(w http.ResponseWriter, r *http.Request) {
	if h.Service == nil {
		http.Error(w, "export is not configured", http.StatusNotImplemented)
		return
	}
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	result, err := h.Service.Export(r.Context(), from, to)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, leads.ErrExportRangeRequired) || errors.Is(err, leads.ErrExportRangeInvalid) {
			status = http.StatusBadRequest
		}
		http.Error(w, err.Error(), status)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+result.Filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Content)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
