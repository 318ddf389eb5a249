package invoice

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is how dates are printed on documents.
const DateLayout = "02-01-2006"

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999Z07",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999Z07",
}

var localLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// FinancialYear returns the Indian April to March financial year containing t,
// formatted as "2025-26".
func FinancialYear(t time.Time) string {
	start := t.Year()
	if t.Month() < time.April {
		start--
	}
	return fmt.Sprintf("%d-%02d", start, (start+1)%100)
}

// FormatDate renders a stored timestamp as dd-mm-yyyy in loc. Timestamps
// without an offset are read as UTC, bare dates are printed as stored, and
// anything unparseable is returned unchanged.
func FormatDate(raw string, loc *time.Location) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return raw
	}
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.In(loc).Format(DateLayout)
		}
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.In(loc).Format(DateLayout)
		}
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t.Format(DateLayout)
	}
	return raw
}
