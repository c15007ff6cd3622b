package leads

import (
	"os"
	"strings"
)

const (
	// defaultEChartsAssetsHost is the upstream CDN go-echarts defaults to.
	defaultEChartsAssetsHost = "https://go-echarts.github.io/go-echarts-assets/assets/"
	// envEChartsCDN overrides the assets host, e.g. to point at a self-hosted
	// bucket when the dashboard runs without internet access.
	envEChartsCDN = "GO_LEADS_ECHARTS_CDN"
)

// EChartsAssetsHost returns the assets host charts should load their runtime
// from, respecting GO_LEADS_ECHARTS_CDN when set.
func EChartsAssetsHost() string {
	if host := strings.TrimSpace(os.Getenv(envEChartsCDN)); host != "" {
		return ensureTrailingSlash(host)
	}
	return defaultEChartsAssetsHost
}

func ensureTrailingSlash(value string) string {
	if value == "" {
		return ""
	}
	if strings.HasSuffix(value, "/") {
		return value
	}
	return value + "/"
}
