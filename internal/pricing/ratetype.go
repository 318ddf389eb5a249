package pricing

import "strings"

var rateTypeLabels = map[string]string{
	"per_sq_mm": "MM",
	"per_sq_ft": "SQFT",
	"per_sq_m":  "SQM",
	"per_sq_yd": "SQYD",
	"per_sq_in": "SQIN",
	"per_sq_cm": "SQCM",
}

// RateTypeLabel returns the short label printed next to an item rate.
// Unknown rate types are shown upper-cased as stored.
func RateTypeLabel(rateType string) string {
	key := strings.ToLower(strings.TrimSpace(rateType))
	if label, ok := rateTypeLabels[key]; ok {
		return label
	}
	return strings.ToUpper(strings.TrimSpace(rateType))
}
