package leads

import "github.com/go-echarts/go-echarts/v2/types"

// QualityColors is the fixed palette for quality buckets across every chart.
// Unknown buckets fall back to slate.
var QualityColors = map[string]string{
	QualityHigh:   "#22c55e",
	QualityGood:   "#0ea5e9",
	QualityMedium: "#eab308",
	QualityLow:    "#f97316",
}

const fallbackQualityColor = "#64748b"

// QualityColor returns the chart color for a quality bucket.
func QualityColor(quality string) string {
	if color, ok := QualityColors[quality]; ok {
		return color
	}
	return fallbackQualityColor
}

// ChartTheme resolves the echarts theme for the persisted dark-mode flag.
type ChartTheme struct {
	Dark bool
}

// EChartsTheme maps the toggle onto a stock echarts theme name.
func (t ChartTheme) EChartsTheme() string {
	if t.Dark {
		return types.ThemeChalk
	}
	return types.ThemeWesteros
}

// BackgroundColor matches the dashboard card background so inlined charts
// blend in.
func (t ChartTheme) BackgroundColor() string {
	if t.Dark {
		return "#0f172a"
	}
	return "#ffffff"
}

// ThemeForStorage reads the persisted dark-mode flag out of a state store.
func ThemeForStorage(storage StateStorage) ChartTheme {
	return ChartTheme{Dark: ReadDarkMode(storage)}
}
