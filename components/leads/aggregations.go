package leads

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"
)

// FlexNumber tolerates the loose numeric encodings the sheet backend emits:
// plain numbers, numeric strings, and percentage strings like "42%".
type FlexNumber struct {
	Raw string
}

// UnmarshalJSON accepts numbers, strings, and null.
func (f *FlexNumber) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case nil:
		f.Raw = ""
	case string:
		f.Raw = v
	case float64:
		f.Raw = strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		if v {
			f.Raw = "1"
		} else {
			f.Raw = "0"
		}
	default:
		f.Raw = ""
	}
	return nil
}

// MarshalJSON round-trips the raw presentation string.
func (f FlexNumber) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.Raw)
}

func (f FlexNumber) String() string { return f.Raw }

// Float returns the numeric value, stripping a trailing "%" if present. The
// second return reports whether a finite number was parsed.
func (f FlexNumber) Float() (float64, bool) {
	s := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(f.Raw), "%"))
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// KPI mirrors the backend's headline metrics block. The *_prev fields carry
// the previous comparable period for delta rendering.
type KPI struct {
	TotalLeads           FlexNumber `json:"total_leads"`
	Conversion           FlexNumber `json:"conversion"`
	HighPotentialPct     FlexNumber `json:"high_potential_pct"`
	QualityLeads         FlexNumber `json:"quality_leads"`
	LastLeadName         string     `json:"last_lead_name"`
	LastLeadDatetime     string     `json:"last_lead_datetime"`
	TotalLeadsPrev       FlexNumber `json:"total_leads_prev"`
	ConversionPrev       FlexNumber `json:"conversion_prev"`
	HighPotentialPctPrev FlexNumber `json:"high_potential_pct_prev"`
	QualityLeadsPrev     FlexNumber `json:"quality_leads_prev"`
}

// QualityCount is one slice of the quality distribution.
type QualityCount struct {
	Quality string `json:"quality"`
	Count   int    `json:"count"`
}

// ModelCount is one bar of the per-model histogram. QualityPct is populated
// only in the detailed breakdown and is a ratio in [0, 1].
type ModelCount struct {
	Model      string  `json:"model"`
	Count      int     `json:"count"`
	QualityPct float64 `json:"quality_pct,omitempty"`
}

// DateBucket is one day of the timeline, with the per-quality split keyed by
// the backend's quality labels.
type DateBucket struct {
	Date    string         `json:"date"`
	Total   int            `json:"total"`
	Quality map[string]int `json:"-"`
}

// UnmarshalJSON lifts the dynamic quality keys out of the bucket object.
func (b *DateBucket) UnmarshalJSON(data []byte) error {
	var raw map[string]json.Number
	if err := json.Unmarshal(data, &raw); err != nil {
		// date may be the only string field; fall back to a generic map
		var loose map[string]any
		if err := json.Unmarshal(data, &loose); err != nil {
			return err
		}
		raw = map[string]json.Number{}
		for k, v := range loose {
			switch t := v.(type) {
			case string:
				if k == "date" {
					b.Date = t
				}
			case float64:
				raw[k] = json.Number(strconv.FormatFloat(t, 'f', -1, 64))
			}
		}
	}
	b.Quality = map[string]int{}
	for k, v := range raw {
		n, err := v.Int64()
		if err != nil {
			continue
		}
		switch k {
		case "total":
			b.Total = int(n)
		case "date":
		default:
			b.Quality[k] = int(n)
		}
	}
	return nil
}

// MarshalJSON flattens the quality split back into the bucket object.
func (b DateBucket) MarshalJSON() ([]byte, error) {
	out := map[string]any{"date": b.Date, "total": b.Total}
	for k, v := range b.Quality {
		out[k] = v
	}
	return json.Marshal(out)
}

// FunnelStage is one step of the quality funnel.
type FunnelStage struct {
	Stage string `json:"stage"`
	Count int    `json:"count"`
}

// NameValue is a generic labelled count, used for breakdowns that carry no
// extra dimensions, such as the per-city histogram.
type NameValue struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// Aggregations is the precomputed analytics block returned alongside the
// first page of a fetch. The dashboard renders it as-is and never recomputes
// it client-side.
type Aggregations struct {
	KPI             *KPI           `json:"kpi,omitempty"`
	ByQuality       []QualityCount `json:"by_quality,omitempty"`
	ByModel         []ModelCount   `json:"by_model,omitempty"`
	ByModelDetailed []ModelCount   `json:"by_model_detailed,omitempty"`
	ByCity          []NameValue    `json:"by_city,omitempty"`
	ByDate          []DateBucket   `json:"by_date,omitempty"`
	Funnel          []FunnelStage  `json:"funnel,omitempty"`
}

// KPIDelta returns the rounded percent change between two periods. ok is
// false when either side is missing, non-numeric, or the base is zero.
func KPIDelta(current, previous FlexNumber) (int, bool) {
	curr, okCurr := current.Float()
	prev, okPrev := previous.Float()
	if !okCurr || !okPrev || prev == 0 {
		return 0, false
	}
	return int(math.Round((curr - prev) / prev * 100)), true
}

// DetailedModels prefers the detailed per-model breakdown and falls back to
// the plain histogram when the backend omits it.
func (a Aggregations) DetailedModels() []ModelCount {
	if len(a.ByModelDetailed) > 0 {
		return a.ByModelDetailed
	}
	return a.ByModel
}

// TopModels returns up to n models ordered by descending count.
func TopModels(models []ModelCount, n int) []ModelCount {
	return rankModels(models, n, false, func(m ModelCount) float64 { return float64(m.Count) })
}

// BottomModels returns up to n models ordered by ascending count.
func BottomModels(models []ModelCount, n int) []ModelCount {
	return rankModels(models, n, true, func(m ModelCount) float64 { return float64(m.Count) })
}

// TopModelsByQuality returns up to n models ordered by descending quality
// share.
func TopModelsByQuality(models []ModelCount, n int) []ModelCount {
	return rankModels(models, n, false, func(m ModelCount) float64 { return m.QualityPct })
}

// BottomModelsByQuality returns up to n models ordered by ascending quality
// share.
func BottomModelsByQuality(models []ModelCount, n int) []ModelCount {
	return rankModels(models, n, true, func(m ModelCount) float64 { return m.QualityPct })
}

func rankModels(models []ModelCount, n int, ascending bool, key func(ModelCount) float64) []ModelCount {
	if n <= 0 || len(models) == 0 {
		return nil
	}
	ranked := make([]ModelCount, len(models))
	copy(ranked, models)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ascending {
			return key(ranked[i]) < key(ranked[j])
		}
		return key(ranked[i]) > key(ranked[j])
	})
	if n > len(ranked) {
		n = len(ranked)
	}
	return ranked[:n]
}

// NonEmptyQuality drops zero-count slices, matching how the distribution pie
// hides empty buckets.
func NonEmptyQuality(counts []QualityCount) []QualityCount {
	out := make([]QualityCount, 0, len(counts))
	for _, c := range counts {
		if c.Count > 0 {
			out = append(out, c)
		}
	}
	return out
}
