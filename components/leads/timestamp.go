package leads

import (
	"strconv"
	"strings"
	"time"
)

// Timestamp layouts the sheet has produced, in the order they are tried after
// the ISO forms.
var knownTimestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"02.01.2006 15:04",
	"02.01.2006",
}

var epochZero = time.Unix(0, 0).UTC()

// ParseTimestamp parses a lead timestamp in any of the formats observed across
// backend revisions: RFC 3339, bare ISO date-times, `dd.MM.yyyy` variants, or
// an epoch value in milliseconds. Unparseable input yields the epoch-zero
// sentinel, which sorts first and fails any from/to bound above zero.
func ParseTimestamp(value string) time.Time {
	raw := strings.TrimSpace(value)
	if raw == "" {
		return epochZero
	}
	if ts, err := time.Parse(time.RFC3339, raw); err == nil {
		return ts
	}
	for _, layout := range knownTimestampLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts
		}
	}
	if millis, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return time.UnixMilli(millis).UTC()
	}
	return epochZero
}

// TimestampMillis is ParseTimestamp expressed as epoch milliseconds, matching
// the comparison domain used by the view engine.
func TimestampMillis(value string) int64 {
	return ParseTimestamp(value).UnixMilli()
}

// FormatTimestamp renders a lead timestamp for display as dd.MM.yyyy HH:mm.
// Values that fail to parse are returned unchanged.
func FormatTimestamp(value string) string {
	ts := ParseTimestamp(value)
	if ts.Equal(epochZero) {
		return value
	}
	return ts.Format("02.01.2006 15:04")
}
