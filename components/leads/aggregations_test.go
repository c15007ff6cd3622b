package leads

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestFlexNumberDecoding(t *testing.T) {
	var payload struct {
		A FlexNumber `json:"a"`
		B FlexNumber `json:"b"`
		C FlexNumber `json:"c"`
		D FlexNumber `json:"d"`
	}
	raw := `{"a": 42, "b": "17%", "c": null, "d": "3.5"}`
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if v, ok := payload.A.Float(); !ok || v != 42 {
		t.Fatalf("number decode failed: %v %v", v, ok)
	}
	if v, ok := payload.B.Float(); !ok || v != 17 {
		t.Fatalf("percent string should parse as 17, got %v %v", v, ok)
	}
	if _, ok := payload.C.Float(); ok {
		t.Fatalf("null should not parse")
	}
	if v, ok := payload.D.Float(); !ok || v != 3.5 {
		t.Fatalf("numeric string decode failed: %v %v", v, ok)
	}
}

func TestKPIDelta(t *testing.T) {
	cases := []struct {
		curr, prev string
		want       int
		ok         bool
	}{
		{"120", "100", 20, true},
		{"80", "100", -20, true},
		{"25%", "20%", 25, true},
		{"100", "0", 0, false},
		{"", "100", 0, false},
		{"100", "n/a", 0, false},
	}
	for _, tc := range cases {
		got, ok := KPIDelta(FlexNumber{Raw: tc.curr}, FlexNumber{Raw: tc.prev})
		if ok != tc.ok || got != tc.want {
			t.Fatalf("KPIDelta(%q, %q) = %d %v, want %d %v", tc.curr, tc.prev, got, ok, tc.want, tc.ok)
		}
	}
}

func TestDateBucketLiftsQualityKeys(t *testing.T) {
	raw := `{"date": "2026-08-28", "total": 3, "высокий": 2, "низкий": 1}`
	var bucket DateBucket
	if err := json.Unmarshal([]byte(raw), &bucket); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if bucket.Date != "2026-08-28" || bucket.Total != 3 {
		t.Fatalf("unexpected bucket header: %#v", bucket)
	}
	if bucket.Quality[QualityHigh] != 2 || bucket.Quality[QualityLow] != 1 {
		t.Fatalf("quality split not lifted: %#v", bucket.Quality)
	}

	round, err := json.Marshal(bucket)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var again DateBucket
	if err := json.Unmarshal(round, &again); err != nil {
		t.Fatalf("round-trip unmarshal: %v", err)
	}
	if again.Quality[QualityHigh] != 2 {
		t.Fatalf("round-trip lost the quality split: %#v", again)
	}
}

func TestAggregationsCarryCityBreakdown(t *testing.T) {
	raw := `{"by_city": [{"name": "Москва", "value": 12}, {"name": "Казань", "value": 4}]}`
	var agg Aggregations
	if err := json.Unmarshal([]byte(raw), &agg); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(agg.ByCity) != 2 {
		t.Fatalf("expected 2 city buckets, got %#v", agg.ByCity)
	}
	if agg.ByCity[0] != (NameValue{Name: "Москва", Value: 12}) {
		t.Fatalf("unexpected first bucket: %#v", agg.ByCity[0])
	}

	round, err := json.Marshal(agg)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(round), `"by_city"`) {
		t.Fatalf("city breakdown dropped on marshal: %s", round)
	}
}

func TestModelRankings(t *testing.T) {
	models := []ModelCount{
		{Model: "A", Count: 5, QualityPct: 0.2},
		{Model: "B", Count: 1, QualityPct: 0.9},
		{Model: "C", Count: 3, QualityPct: 0.5},
	}
	top := TopModels(models, 2)
	if len(top) != 2 || top[0].Model != "A" || top[1].Model != "C" {
		t.Fatalf("TopModels order wrong: %#v", top)
	}
	bottom := BottomModels(models, 2)
	if bottom[0].Model != "B" {
		t.Fatalf("BottomModels order wrong: %#v", bottom)
	}
	byQuality := TopModelsByQuality(models, 1)
	if byQuality[0].Model != "B" {
		t.Fatalf("TopModelsByQuality order wrong: %#v", byQuality)
	}
	if got := TopModels(models, 10); len(got) != 3 {
		t.Fatalf("n larger than input should clamp, got %d", len(got))
	}
	if got := TopModels(nil, 5); got != nil {
		t.Fatalf("empty input should yield nil, got %#v", got)
	}
}

func TestDetailedModelsFallback(t *testing.T) {
	agg := Aggregations{ByModel: []ModelCount{{Model: "A", Count: 1}}}
	if got := agg.DetailedModels(); len(got) != 1 || got[0].Model != "A" {
		t.Fatalf("expected fallback to plain histogram, got %#v", got)
	}
	agg.ByModelDetailed = []ModelCount{{Model: "B", Count: 2}}
	if got := agg.DetailedModels(); got[0].Model != "B" {
		t.Fatalf("expected detailed breakdown preferred, got %#v", got)
	}
}

func TestNonEmptyQuality(t *testing.T) {
	counts := []QualityCount{
		{Quality: QualityHigh, Count: 2},
		{Quality: QualityLow, Count: 0},
	}
	out := NonEmptyQuality(counts)
	if len(out) != 1 || out[0].Quality != QualityHigh {
		t.Fatalf("zero buckets should be dropped, got %#v", out)
	}
}
