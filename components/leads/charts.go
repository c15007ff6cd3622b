package leads

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

const defaultChartHeight = "360px"

var sharedChartCache = NewChartCache(5 * time.Minute)

// ChartRenderer converts aggregation blocks into server-rendered echarts
// HTML. Rendered markup is memoized per theme and payload hash.
type ChartRenderer struct {
	cache      RenderCache
	theme      ChartTheme
	assetsHost string
}

// ChartRendererOption customizes renderer behavior.
type ChartRendererOption func(*ChartRenderer)

// WithRenderCache injects a render cache.
func WithRenderCache(cache RenderCache) ChartRendererOption {
	return func(r *ChartRenderer) {
		r.cache = cache
	}
}

// WithTheme sets the chart theme (light by default).
func WithTheme(theme ChartTheme) ChartRendererOption {
	return func(r *ChartRenderer) {
		r.theme = theme
	}
}

// WithAssetsHost rewrites the assets host so echarts JS loads from a CDN.
func WithAssetsHost(host string) ChartRendererOption {
	return func(r *ChartRenderer) {
		r.assetsHost = host
	}
}

// NewChartRenderer builds a renderer with the shared cache.
func NewChartRenderer(options ...ChartRendererOption) *ChartRenderer {
	r := &ChartRenderer{cache: sharedChartCache}
	for _, opt := range options {
		opt(r)
	}
	return r
}

// QualityPieHTML renders the quality distribution pie. Zero-count buckets are
// hidden the same way the table view hides them.
func (r *ChartRenderer) QualityPieHTML(agg *Aggregations, locale string) (string, error) {
	counts := NonEmptyQuality(aggQuality(agg))
	return r.cached("quality_pie", counts, func() (string, error) {
		pie := charts.NewPie()
		pie.SetGlobalOptions(r.globalOptions("Распределение по качеству лидов", "")...)
		data := make([]opts.PieData, 0, len(counts))
		for _, c := range counts {
			data = append(data, opts.PieData{
				Name:      QualityLabel(c.Quality, locale),
				Value:     c.Count,
				ItemStyle: &opts.ItemStyle{Color: QualityColor(c.Quality)},
			})
		}
		pie.AddSeries("quality", data)
		return renderChart(pie)
	})
}

// ModelsBarHTML renders the top-N per-model histogram.
func (r *ChartRenderer) ModelsBarHTML(agg *Aggregations, topN int) (string, error) {
	models := aggModels(agg)
	if topN > 0 && len(models) > topN {
		models = models[:topN]
	}
	return r.cached("models_bar", models, func() (string, error) {
		bar := charts.NewBar()
		bar.SetGlobalOptions(r.globalOptions(fmt.Sprintf("Лиды по моделям (top %d)", len(models)), "")...)
		labels := make([]string, len(models))
		data := make([]opts.BarData, len(models))
		for i, m := range models {
			labels[i] = m.Model
			data[i] = opts.BarData{Value: m.Count}
		}
		bar.SetXAxis(labels)
		bar.AddSeries("leads", data)
		bar.XYReversal()
		return renderChart(bar)
	})
}

// TimelineHTML renders the stacked per-day quality series.
func (r *ChartRenderer) TimelineHTML(agg *Aggregations, locale string) (string, error) {
	buckets := aggDates(agg)
	return r.cached("timeline", buckets, func() (string, error) {
		bar := charts.NewBar()
		bar.SetGlobalOptions(r.globalOptions("Лиды за период (по качеству)", "")...)
		labels := make([]string, len(buckets))
		for i, b := range buckets {
			labels[i] = b.Date
		}
		bar.SetXAxis(labels)
		for _, quality := range []string{QualityHigh, QualityGood, QualityMedium, QualityLow} {
			data := make([]opts.BarData, len(buckets))
			for i, b := range buckets {
				data[i] = opts.BarData{Value: b.Quality[quality]}
			}
			bar.AddSeries(QualityLabel(quality, locale), data,
				charts.WithBarChartOpts(opts.BarChart{Stack: "quality"}),
				charts.WithItemStyleOpts(opts.ItemStyle{Color: QualityColor(quality)}),
			)
		}
		return renderChart(bar)
	})
}

// QualityTrendHTML renders the stacked area view of the same timeline.
func (r *ChartRenderer) QualityTrendHTML(agg *Aggregations, locale string) (string, error) {
	buckets := aggDates(agg)
	return r.cached("quality_trend", buckets, func() (string, error) {
		line := charts.NewLine()
		line.SetGlobalOptions(r.globalOptions("Динамика качества во времени", "")...)
		labels := make([]string, len(buckets))
		for i, b := range buckets {
			labels[i] = b.Date
		}
		line.SetXAxis(labels)
		for _, quality := range []string{QualityHigh, QualityGood, QualityMedium, QualityLow} {
			data := make([]opts.LineData, len(buckets))
			for i, b := range buckets {
				data[i] = opts.LineData{Value: b.Quality[quality]}
			}
			line.AddSeries(QualityLabel(quality, locale), data,
				charts.WithLineChartOpts(opts.LineChart{Stack: "quality", Smooth: opts.Bool(true)}),
				charts.WithAreaStyleOpts(opts.AreaStyle{Opacity: 0.5}),
				charts.WithItemStyleOpts(opts.ItemStyle{Color: QualityColor(quality)}),
			)
		}
		return renderChart(line)
	})
}

// FunnelHTML renders the quality funnel.
func (r *ChartRenderer) FunnelHTML(agg *Aggregations) (string, error) {
	stages := aggFunnel(agg)
	return r.cached("funnel", stages, func() (string, error) {
		funnel := charts.NewFunnel()
		funnel.SetGlobalOptions(r.globalOptions("Воронка качества лидов", "")...)
		data := make([]opts.FunnelData, len(stages))
		for i, s := range stages {
			data[i] = opts.FunnelData{Name: s.Stage, Value: s.Count}
		}
		funnel.AddSeries("funnel", data)
		return renderChart(funnel)
	})
}

func (r *ChartRenderer) cached(chart string, payload any, render func() (string, error)) (string, error) {
	if r.cache == nil {
		return render()
	}
	key := fmt.Sprintf("%s:%s:%s", chart, r.theme.EChartsTheme(), configHash(map[string]any{"data": payload}))
	return r.cache.GetOrRender(key, render)
}

func (r *ChartRenderer) globalOptions(title, subtitle string) []charts.GlobalOpts {
	initOpts := opts.Initialization{
		Theme:           r.theme.EChartsTheme(),
		BackgroundColor: r.theme.BackgroundColor(),
		Width:           "100%",
		Height:          defaultChartHeight,
	}
	if r.assetsHost != "" {
		initOpts.AssetsHost = r.assetsHost
	}
	return []charts.GlobalOpts{
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle}),
		charts.WithInitializationOpts(initOpts),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	}
}

func renderChart(renderable interface{ Render(io.Writer) error }) (string, error) {
	var buf bytes.Buffer
	if err := renderable.Render(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func aggQuality(agg *Aggregations) []QualityCount {
	if agg == nil {
		return nil
	}
	return agg.ByQuality
}

func aggModels(agg *Aggregations) []ModelCount {
	if agg == nil {
		return nil
	}
	return agg.ByModel
}

func aggDates(agg *Aggregations) []DateBucket {
	if agg == nil {
		return nil
	}
	return agg.ByDate
}

func aggFunnel(agg *Aggregations) []FunnelStage {
	if agg == nil {
		return nil
	}
	return agg.Funnel
}
