package leads

import (
	"testing"

	"github.com/go-echarts/go-echarts/v2/types"
)

func TestQualityColor(t *testing.T) {
	if got := QualityColor(QualityHigh); got != "#22c55e" {
		t.Fatalf("unexpected color for high quality: %q", got)
	}
	if got := QualityColor("неизвестно"); got != fallbackQualityColor {
		t.Fatalf("expected fallback color, got %q", got)
	}
}

func TestChartThemeMapping(t *testing.T) {
	light := ChartTheme{}
	if light.EChartsTheme() != types.ThemeWesteros {
		t.Fatalf("unexpected light theme %q", light.EChartsTheme())
	}
	if light.BackgroundColor() != "#ffffff" {
		t.Fatalf("unexpected light background %q", light.BackgroundColor())
	}

	dark := ChartTheme{Dark: true}
	if dark.EChartsTheme() != types.ThemeChalk {
		t.Fatalf("unexpected dark theme %q", dark.EChartsTheme())
	}
	if dark.BackgroundColor() != "#0f172a" {
		t.Fatalf("unexpected dark background %q", dark.BackgroundColor())
	}
}

func TestThemeForStorage(t *testing.T) {
	storage := NewMemoryStateStore()
	if theme := ThemeForStorage(storage); theme.Dark {
		t.Fatal("expected light theme by default")
	}
	if err := WriteDarkMode(storage, true); err != nil {
		t.Fatalf("write dark mode: %v", err)
	}
	if theme := ThemeForStorage(storage); !theme.Dark {
		t.Fatal("expected dark theme after toggle")
	}
}
