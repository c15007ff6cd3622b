package leads

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Quality buckets as the backend reports them. The values are the
// language-tagged strings stored in the sheet, not display labels.
const (
	QualityHigh   = "высокий"
	QualityGood   = "хороший"
	QualityMedium = "средний"
	QualityLow    = "низкий"
)

// Lead statuses written back through the mutation endpoint.
const (
	StatusNew        = "новый"
	StatusInProgress = "в работе"
	StatusProcessed  = "обработан"
	StatusRejected   = "отказ"
)

// FilterAll is the wildcard value for enum-style filters.
const FilterAll = "all"

// phoneFields lists the keys a phone number may arrive under. The backend's
// column naming drifted across revisions.
var phoneFields = []string{"phone", "phone_number", "client_phone", "contact_phone", "mobile"}

// Lead is a single inquiry record. The backend's shape evolved over time, so
// only the stable columns are typed; everything else lands in Extra and is
// preserved for display/export consumers that know what to do with it.
type Lead struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Datetime       string `json:"datetime"`
	QualityBucket  string `json:"client_quality_bucket"`
	Quality        string `json:"client_quality"`
	City           string `json:"city"`
	SelectedCar    string `json:"selected_car"`
	PurchaseMethod string `json:"purchase_method"`
	TrafficSource  string `json:"traffic_source"`
	Messenger      string `json:"messenger"`
	DealerCenter   string `json:"dealer_center"`
	SummaryDialog  string `json:"summary_dialog"`
	DialogLink     string `json:"dialog_link"`
	FullDialog     string `json:"full_dialog"`
	SourceSystem   string `json:"source_system"`
	PlatformUserID string `json:"platform_user_id"`

	// Status and Tags were added by a later backend revision and may be absent.
	Status string `json:"lead_status"`
	Tags   string `json:"tags"`

	// Extra holds fields this client does not know about.
	Extra map[string]any `json:"-"`
}

var knownLeadFields = map[string]struct{}{
	"id": {}, "name": {}, "datetime": {}, "client_quality_bucket": {},
	"client_quality": {}, "city": {}, "selected_car": {}, "purchase_method": {},
	"traffic_source": {}, "messenger": {}, "dealer_center": {}, "summary_dialog": {},
	"dialog_link": {}, "full_dialog": {}, "source_system": {}, "platform_user_id": {},
	"lead_status": {}, "tags": {},
}

// UnmarshalJSON decodes the known columns and keeps everything else in Extra.
// Scalar values arriving as numbers (ids, timestamps) are normalized to their
// string form so downstream filtering/sorting sees one representation.
func (l *Lead) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	l.ID = coerceString(raw["id"])
	l.Name = coerceString(raw["name"])
	l.Datetime = coerceString(raw["datetime"])
	l.QualityBucket = coerceString(raw["client_quality_bucket"])
	l.Quality = coerceString(raw["client_quality"])
	l.City = coerceString(raw["city"])
	l.SelectedCar = coerceString(raw["selected_car"])
	l.PurchaseMethod = coerceString(raw["purchase_method"])
	l.TrafficSource = coerceString(raw["traffic_source"])
	l.Messenger = coerceString(raw["messenger"])
	l.DealerCenter = coerceString(raw["dealer_center"])
	l.SummaryDialog = coerceString(raw["summary_dialog"])
	l.DialogLink = coerceString(raw["dialog_link"])
	l.FullDialog = coerceString(raw["full_dialog"])
	l.SourceSystem = coerceString(raw["source_system"])
	l.PlatformUserID = coerceString(raw["platform_user_id"])
	l.Status = coerceString(raw["lead_status"])
	l.Tags = coerceString(raw["tags"])
	for key, value := range raw {
		if _, known := knownLeadFields[key]; known {
			continue
		}
		if l.Extra == nil {
			l.Extra = map[string]any{}
		}
		l.Extra[key] = value
	}
	return nil
}

// MarshalJSON restores the wire shape: typed columns plus everything carried
// in Extra, so round-tripped leads keep their unknown fields (phone aliases
// included).
func (l Lead) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(knownLeadFields)+len(l.Extra))
	for key := range knownLeadFields {
		if value := coerceString(l.Field(key)); value != "" {
			out[key] = value
		}
	}
	for key, value := range l.Extra {
		out[key] = value
	}
	return json.Marshal(out)
}

// Phone returns the first populated phone-like value, checking the typed
// aliases the backend has used over time.
func (l Lead) Phone() string {
	for _, key := range phoneFields {
		if value := coerceString(l.Extra[key]); value != "" {
			return value
		}
	}
	return ""
}

// Field returns a named value for sorting/display. Known columns resolve to
// their typed fields; anything else falls back to Extra.
func (l Lead) Field(name string) any {
	switch name {
	case "id":
		return l.ID
	case "name":
		return l.Name
	case "datetime":
		return l.Datetime
	case "client_quality_bucket":
		return l.QualityBucket
	case "client_quality":
		return l.Quality
	case "city":
		return l.City
	case "selected_car":
		return l.SelectedCar
	case "purchase_method":
		return l.PurchaseMethod
	case "traffic_source":
		return l.TrafficSource
	case "messenger":
		return l.Messenger
	case "dealer_center":
		return l.DealerCenter
	case "summary_dialog":
		return l.SummaryDialog
	case "dialog_link":
		return l.DialogLink
	case "full_dialog":
		return l.FullDialog
	case "source_system":
		return l.SourceSystem
	case "platform_user_id":
		return l.PlatformUserID
	case "lead_status":
		return l.Status
	case "tags":
		return l.Tags
	default:
		return l.Extra[name]
	}
}

func coerceString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		if v == float64(int64(v)) {
			return fmt.Sprintf("%d", int64(v))
		}
		return fmt.Sprintf("%g", v)
	case bool:
		if v {
			return "true"
		}
		return "false"
	case json.Number:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
