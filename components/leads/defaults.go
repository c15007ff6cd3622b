package leads

var defaultWidgetDefinitions = []WidgetDefinition{
	{
		Code: "leads.widget.kpi",
		Name: "KPI Cards",
		NameLocalized: map[string]string{
			"ru": "Ключевые показатели",
		},
		Description: "Headline metrics with deltas against the previous period",
		DescriptionLocalized: map[string]string{
			"ru": "Ключевые метрики с динамикой к прошлому периоду",
		},
		Category: "stats",
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"show_deltas": map[string]any{"type": "boolean", "default": true},
			},
			"additionalProperties": false,
		},
	},
	{
		Code: "leads.widget.quality_pie",
		Name: "Quality Distribution",
		NameLocalized: map[string]string{
			"ru": "Распределение по качеству лидов",
		},
		Description: "Share of leads per quality bucket",
		Category:    "charts",
		Schema:      emptyConfigSchema(),
	},
	{
		Code: "leads.widget.models_bar",
		Name: "Leads by Model",
		NameLocalized: map[string]string{
			"ru": "Лиды по моделям",
		},
		Description: "Horizontal histogram of lead volume per car model",
		Category:    "charts",
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"top_n": map[string]any{"type": "integer", "minimum": 1, "maximum": 50, "default": 10},
			},
			"additionalProperties": false,
		},
	},
	{
		Code: "leads.widget.timeline",
		Name: "Leads Timeline",
		NameLocalized: map[string]string{
			"ru": "Лиды за период",
		},
		Description: "Daily lead volume stacked by quality",
		Category:    "charts",
		Schema:      emptyConfigSchema(),
	},
	{
		Code: "leads.widget.quality_trend",
		Name: "Quality Trend",
		NameLocalized: map[string]string{
			"ru": "Динамика качества во времени",
		},
		Description: "Stacked area view of quality over time",
		Category:    "charts",
		Schema:      emptyConfigSchema(),
	},
	{
		Code: "leads.widget.funnel",
		Name: "Quality Funnel",
		NameLocalized: map[string]string{
			"ru": "Воронка качества лидов",
		},
		Description: "Drop-off through the lead quality stages",
		Category:    "charts",
		Schema:      emptyConfigSchema(),
	},
	{
		Code: "leads.widget.model_rankings",
		Name: "Model Rankings",
		NameLocalized: map[string]string{
			"ru": "Топ / Антитоп моделей",
		},
		Description: "Top and bottom models by volume and by quality share",
		Category:    "stats",
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"limit": map[string]any{"type": "integer", "minimum": 1, "maximum": 20, "default": 5},
			},
			"additionalProperties": false,
		},
	},
	{
		Code: "leads.widget.table",
		Name: "Leads Table",
		NameLocalized: map[string]string{
			"ru": "Таблица лидов",
		},
		Description: "Filtered, sorted, paginated lead rows",
		Category:    "table",
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"columns": map[string]any{
					"type":  "array",
					"items": map[string]any{"type": "string"},
				},
			},
			"additionalProperties": false,
		},
	},
	{
		Code: "leads.widget.recent_leads",
		Name: "Recent Leads",
		NameLocalized: map[string]string{
			"ru": "Последние лиды",
		},
		Description: "Most recent leads regardless of pagination",
		Category:    "activity",
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"limit": map[string]any{"type": "integer", "minimum": 1, "maximum": 50, "default": 10},
			},
			"additionalProperties": false,
		},
	},
}

func emptyConfigSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
	}
}

// DefaultWidgetDefinitions returns copies of built-in widget definitions.
func DefaultWidgetDefinitions() []WidgetDefinition {
	out := make([]WidgetDefinition, len(defaultWidgetDefinitions))
	copy(out, defaultWidgetDefinitions)
	return out
}
