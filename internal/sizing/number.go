package sizing

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Number is a lenient numeric field for upstream records. Decoding never
// fails: JSON numbers and numeric strings are accepted, null or absent values
// stay at zero, and anything else is kept in Raw with Invalid set.
type Number struct {
	Value   float64
	Raw     string
	Invalid bool
}

// Num wraps a known-good value.
func Num(v float64) Number { return Number{Value: v} }

// ParseNumber interprets free text the same way UnmarshalJSON does for strings.
func ParseNumber(raw string) Number {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Number{}
	}
	v, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return Number{Raw: raw, Invalid: true}
	}
	return Number{Value: v, Raw: raw}
}

// DecodeNumber reads one raw JSON value with the UnmarshalJSON rules.
func DecodeNumber(data []byte) Number {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return Number{}
	}
	if data[0] != '"' {
		return ParseNumber(string(data))
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return Number{Raw: string(data), Invalid: true}
	}
	return ParseNumber(s)
}

// UnmarshalJSON implements json.Unmarshaler. It never returns an error.
func (n *Number) UnmarshalJSON(data []byte) error {
	*n = DecodeNumber(data)
	return nil
}

// MarshalJSON implements json.Marshaler. Invalid values round-trip as their raw text.
func (n Number) MarshalJSON() ([]byte, error) {
	if n.Invalid {
		return json.Marshal(n.Raw)
	}
	return json.Marshal(n.Value)
}

func (n Number) String() string {
	if n.Invalid {
		return n.Raw
	}
	return strconv.FormatFloat(n.Value, 'f', -1, 64)
}
