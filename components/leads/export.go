package leads

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
)

// ExportColumns is the fixed, ordered column list for CSV export. Export rows
// never include fields outside this list, regardless of what the backend sent.
var ExportColumns = []string{
	"id",
	"datetime",
	"name",
	"city",
	"selected_car",
	"purchase_method",
	"client_quality",
	"traffic_source",
	"messenger",
	"dealer_center",
	"dialog_link",
	"summary_dialog",
	"source_system",
	"platform_user_id",
}

// Export validation failures. These are reported conditions, not faults: the
// caller surfaces them to the user and aborts before any file is written.
var (
	ErrExportRangeRequired = errors.New("leads: export requires both a start and an end date")
	ErrExportRangeInvalid  = errors.New("leads: export date range is invalid")
)

// ExportRow is a single flat record in ExportColumns order.
type ExportRow []string

// ComputeExportRows filters the full sorted collection (not the visible page)
// to the export range and projects each survivor onto ExportColumns. Bare-date
// bounds cover whole calendar days: a range ending 2026-08-15 keeps a lead
// timestamped 2026-08-15 18:30:00. Zero surviving rows is a valid outcome,
// distinct from a validation error.
func ComputeExportRows(sorted []Lead, exportFrom, exportTo string) ([]ExportRow, error) {
	if strings.TrimSpace(exportFrom) == "" || strings.TrimSpace(exportTo) == "" {
		return nil, ErrExportRangeRequired
	}
	fromMillis := exportBoundMillis(exportFrom, false)
	toMillis := exportBoundMillis(exportTo, true)
	if fromMillis == 0 || toMillis == 0 || fromMillis > toMillis {
		return nil, ErrExportRangeInvalid
	}
	rows := make([]ExportRow, 0, len(sorted))
	for _, lead := range sorted {
		ts := TimestampMillis(lead.Datetime)
		if ts < fromMillis || ts > toMillis {
			continue
		}
		rows = append(rows, exportRow(lead))
	}
	return rows, nil
}

// exportBoundMillis parses an export bound, widening a bare yyyy-MM-dd value
// to the start or end of that calendar day before converting to millis.
func exportBoundMillis(bound string, endOfDay bool) int64 {
	raw := strings.TrimSpace(bound)
	if _, err := time.Parse("2006-01-02", raw); err == nil {
		if endOfDay {
			raw += "T23:59:59"
		} else {
			raw += "T00:00:00"
		}
	}
	return TimestampMillis(raw)
}

func exportRow(lead Lead) ExportRow {
	row := make(ExportRow, len(ExportColumns))
	for i, column := range ExportColumns {
		row[i] = coerceString(lead.Field(column))
	}
	return row
}

// WriteCSV serializes export rows as UTF-8 CSV: a header row, comma-separated
// fields, every field double-quoted with embedded quotes doubled. The wire
// format quotes unconditionally, so encoding/csv (which quotes only when
// needed) is not used here.
func WriteCSV(w io.Writer, rows []ExportRow) error {
	var sb strings.Builder
	sb.WriteString(strings.Join(ExportColumns, ","))
	for _, row := range rows {
		sb.WriteByte('\n')
		writeCSVLine(&sb, row)
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func writeCSVLine(sb *strings.Builder, fields []string) {
	for i, field := range fields {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteByte('"')
		sb.WriteString(strings.ReplaceAll(field, `"`, `""`))
		sb.WriteByte('"')
	}
}

// ExportFilename derives the download name for an export range. The bounds
// are reduced to their date component.
func ExportFilename(exportFrom, exportTo string) string {
	return fmt.Sprintf("leads-%s-%s.csv", datePart(exportFrom), datePart(exportTo))
}

func datePart(value string) string {
	value = strings.TrimSpace(value)
	if idx := strings.IndexAny(value, "T "); idx > 0 {
		return value[:idx]
	}
	return value
}
