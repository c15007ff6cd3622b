package leads

import (
	"context"
	"fmt"
)

var sharedRenderer = NewChartRenderer()

var defaultProviders = map[string]Provider{
	"leads.widget.kpi": ProviderFunc(func(ctx context.Context, meta WidgetContext) (WidgetData, error) {
		agg := datasetAggregations(meta)
		if agg == nil || agg.KPI == nil {
			return WidgetData{"cards": []map[string]any{}}, nil
		}
		return WidgetData{"cards": kpiCards(*agg.KPI)}, nil
	}),
	"leads.widget.quality_pie": ProviderFunc(func(ctx context.Context, meta WidgetContext) (WidgetData, error) {
		html, err := sharedRenderer.QualityPieHTML(datasetAggregations(meta), meta.Viewer.Locale)
		if err != nil {
			return nil, err
		}
		return WidgetData{"chart_html": html, "chart_type": "pie"}, nil
	}),
	"leads.widget.models_bar": ProviderFunc(func(ctx context.Context, meta WidgetContext) (WidgetData, error) {
		topN := intConfig(meta.Config, "top_n", 10)
		html, err := sharedRenderer.ModelsBarHTML(datasetAggregations(meta), topN)
		if err != nil {
			return nil, err
		}
		return WidgetData{"chart_html": html, "chart_type": "bar"}, nil
	}),
	"leads.widget.timeline": ProviderFunc(func(ctx context.Context, meta WidgetContext) (WidgetData, error) {
		html, err := sharedRenderer.TimelineHTML(datasetAggregations(meta), meta.Viewer.Locale)
		if err != nil {
			return nil, err
		}
		return WidgetData{"chart_html": html, "chart_type": "bar"}, nil
	}),
	"leads.widget.quality_trend": ProviderFunc(func(ctx context.Context, meta WidgetContext) (WidgetData, error) {
		html, err := sharedRenderer.QualityTrendHTML(datasetAggregations(meta), meta.Viewer.Locale)
		if err != nil {
			return nil, err
		}
		return WidgetData{"chart_html": html, "chart_type": "line"}, nil
	}),
	"leads.widget.funnel": ProviderFunc(func(ctx context.Context, meta WidgetContext) (WidgetData, error) {
		html, err := sharedRenderer.FunnelHTML(datasetAggregations(meta))
		if err != nil {
			return nil, err
		}
		return WidgetData{"chart_html": html, "chart_type": "funnel"}, nil
	}),
	"leads.widget.model_rankings": ProviderFunc(func(ctx context.Context, meta WidgetContext) (WidgetData, error) {
		agg := datasetAggregations(meta)
		if agg == nil {
			return WidgetData{}, nil
		}
		limit := intConfig(meta.Config, "limit", 5)
		models := agg.DetailedModels()
		return WidgetData{
			"top_by_count":      modelRows(TopModels(models, limit)),
			"bottom_by_count":   modelRows(BottomModels(models, limit)),
			"top_by_quality":    modelRows(TopModelsByQuality(models, limit)),
			"bottom_by_quality": modelRows(BottomModelsByQuality(models, limit)),
		}, nil
	}),
	"leads.widget.table": ProviderFunc(func(ctx context.Context, meta WidgetContext) (WidgetData, error) {
		if meta.Dataset == nil || meta.Filters == nil {
			return nil, fmt.Errorf("table widget requires dataset and filter state")
		}
		view := ComputeView(meta.Dataset.Leads, meta.Filters.Criteria(), meta.Filters.Sort(), meta.Filters.Page())
		rows := make([]map[string]any, 0, len(view.VisibleRows))
		for _, lead := range view.VisibleRows {
			rows = append(rows, leadRow(lead))
		}
		return WidgetData{
			"rows":           rows,
			"filtered_total": view.FilteredTotal,
			"sort":           meta.Filters.Sort(),
			"pagination":     meta.Filters.Page(),
		}, nil
	}),
	"leads.widget.recent_leads": ProviderFunc(func(ctx context.Context, meta WidgetContext) (WidgetData, error) {
		if meta.Dataset == nil {
			return WidgetData{"items": []map[string]any{}}, nil
		}
		limit := intConfig(meta.Config, "limit", 10)
		sorted := sortLeads(meta.Dataset.Leads, DefaultSortState())
		if limit < len(sorted) {
			sorted = sorted[:limit]
		}
		items := make([]map[string]any, 0, len(sorted))
		for _, lead := range sorted {
			items = append(items, map[string]any{
				"id":       lead.ID,
				"name":     lead.Name,
				"phone":    lead.Phone(),
				"quality":  QualityLabel(lead.Quality, meta.Viewer.Locale),
				"datetime": FormatTimestamp(lead.Datetime),
			})
		}
		return WidgetData{"items": items}, nil
	}),
}

func datasetAggregations(meta WidgetContext) *Aggregations {
	if meta.Dataset == nil {
		return nil
	}
	return meta.Dataset.Aggregations
}

func kpiCards(kpi KPI) []map[string]any {
	card := func(label, hint string, value FlexNumber, prev FlexNumber) map[string]any {
		out := map[string]any{
			"label": label,
			"value": value.String(),
			"hint":  hint,
		}
		if delta, ok := KPIDelta(value, prev); ok {
			out["delta"] = delta
		}
		return out
	}
	cards := []map[string]any{
		card("Всего лидов", "Количество записей с учетом фильтров", kpi.TotalLeads, kpi.TotalLeadsPrev),
		card("Конверсия", "Доля лидов с качеством выше низкого", kpi.Conversion, kpi.ConversionPrev),
		card("Высокий потенциал", "Процент лидов с качеством «высокий»", kpi.HighPotentialPct, kpi.HighPotentialPctPrev),
		card("Качественные лиды", "Всего лидов с качеством высокий/хороший", kpi.QualityLeads, kpi.QualityLeadsPrev),
	}
	last := map[string]any{
		"label": "Последний лид",
		"value": kpi.LastLeadName,
		"hint":  "Имя и время последнего лида",
	}
	if kpi.LastLeadDatetime != "" {
		last["extra"] = FormatTimestamp(kpi.LastLeadDatetime)
	}
	return append(cards, last)
}

func modelRows(models []ModelCount) []map[string]any {
	rows := make([]map[string]any, 0, len(models))
	for _, m := range models {
		rows = append(rows, map[string]any{
			"model":       m.Model,
			"count":       m.Count,
			"quality_pct": int(m.QualityPct*100 + 0.5),
		})
	}
	return rows
}

func leadRow(lead Lead) map[string]any {
	row := make(map[string]any, len(ExportColumns))
	for _, col := range ExportColumns {
		row[col] = coerceString(lead.Field(col))
	}
	row["tags"] = lead.Tags
	row["status"] = lead.Status
	return row
}

func intConfig(cfg map[string]any, key string, fallback int) int {
	switch v := cfg[key].(type) {
	case int:
		if v > 0 {
			return v
		}
	case float64:
		if v > 0 {
			return int(v)
		}
	}
	return fallback
}
