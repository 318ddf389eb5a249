package sizing

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	// SqFtPerSqM converts square metres to square feet.
	SqFtPerSqM = 10.764
	// SqMmPerSqM converts square millimetres to square metres.
	SqMmPerSqM = 1_000_000
	// SqInPerSqFt converts square inches to square feet.
	SqInPerSqFt = 144
	// MaxQuantity is the largest quantity accepted on a line item.
	MaxQuantity = math.MaxInt32
)

// LineItem is one row of a size sheet or invoice as delivered by the order source.
type LineItem struct {
	ID             string `json:"id,omitempty"`
	Name           string `json:"name,omitempty"`
	Width          Number `json:"width"`
	Height         Number `json:"height"`
	Unit           string `json:"unit"`
	WidthFraction  string `json:"width_fraction,omitempty"`
	HeightFraction string `json:"height_fraction,omitempty"`
	WidthRounding  Number `json:"width_rounding"`
	HeightRounding Number `json:"height_rounding"`
	Quantity       Number `json:"quantity"`
	Weight         Number `json:"weight"`
	OrderRef       string `json:"order_ref,omitempty"`
}

// ComputedLineItem carries a line item together with its resolved dimensions
// and billable area.
type ComputedLineItem struct {
	Index    int    `json:"index"`
	ID       string `json:"id,omitempty"`
	Name     string `json:"name,omitempty"`
	OrderRef string `json:"order_ref,omitempty"`
	Unit     Unit   `json:"-"`
	UnitName string `json:"unit"`

	// Width and Height are in the item's unit after fractions and rounding.
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Quantity int     `json:"quantity"`
	Weight   float64 `json:"weight"`

	// NormalizedArea is the billable area in square feet.
	NormalizedArea float64 `json:"normalized_area"`

	SizeDisplay   string `json:"size_display"`
	AreaDisplay   string `json:"area_display"`
	WeightDisplay string `json:"weight_display"`
}

// Aggregate holds running totals over a sheet.
type Aggregate struct {
	TotalQuantity int     `json:"total_quantity"`
	TotalWeight   float64 `json:"total_weight"`
	TotalArea     float64 `json:"total_area"`
}

// WeightDisplay formats the total weight for documents.
func (a Aggregate) WeightDisplay() string { return Fixed2(a.TotalWeight) }

// AreaDisplay formats the total area for documents.
func (a Aggregate) AreaDisplay() string { return Fixed2(a.TotalArea) }

// Warning describes an input that was degraded to a default value.
type Warning struct {
	Index  int    `json:"index"`
	Field  string `json:"field"`
	Value  string `json:"value"`
	Reason string `json:"reason"`
}

func (w Warning) String() string {
	return fmt.Sprintf("item %d: %s=%q %s", w.Index, w.Field, w.Value, w.Reason)
}

// Sheet is the result of Compute.
type Sheet struct {
	Items    []ComputedLineItem `json:"items"`
	Totals   Aggregate          `json:"totals"`
	Warnings []Warning          `json:"warnings,omitempty"`
}

// Compute normalises every item to square feet and aggregates the totals.
// It never fails; degraded inputs are reported in Sheet.Warnings.
func Compute(items []LineItem) Sheet {
	sheet := Sheet{Items: make([]ComputedLineItem, 0, len(items))}
	for idx, item := range items {
		c := computeItem(idx, item, &sheet.Warnings)
		sheet.Totals.TotalArea += c.NormalizedArea
		sheet.Totals.TotalQuantity += c.Quantity
		sheet.Totals.TotalWeight += c.Weight
		sheet.Items = append(sheet.Items, c)
	}
	SortByOrderRef(sheet.Items)
	return sheet
}

func computeItem(idx int, item LineItem, warnings *[]Warning) ComputedLineItem {
	warn := func(field, value, reason string) {
		*warnings = append(*warnings, Warning{Index: idx, Field: field, Value: value, Reason: reason})
	}

	unit, known := ParseUnit(item.Unit)
	if !known && strings.TrimSpace(item.Unit) != "" {
		warn("unit", item.Unit, "unknown unit, using feet")
	}
	qty := resolveQuantity(item.Quantity, warn)
	width := resolveDimension("width", item.Width, warn)
	height := resolveDimension("height", item.Height, warn)
	weight := resolveDimension("weight", item.Weight, warn)

	var area float64
	switch unit {
	case UnitMillimeter:
		area = width * height * float64(qty) * SqFtPerSqM / SqMmPerSqM
	case UnitInch:
		width = resolveInch("width", width, item.WidthFraction, item.WidthRounding, warn)
		height = resolveInch("height", height, item.HeightFraction, item.HeightRounding, warn)
		area = width * height * float64(qty) / SqInPerSqFt
	default:
		area = width * height * float64(qty)
	}
	if math.IsInf(area, 0) || math.IsNaN(area) {
		warn("area", Fixed2(area), "out of range, using 0")
		area = 0
	}

	return ComputedLineItem{
		Index:          idx,
		ID:             item.ID,
		Name:           item.Name,
		OrderRef:       item.OrderRef,
		Unit:           unit,
		UnitName:       unit.String(),
		Width:          width,
		Height:         height,
		Quantity:       qty,
		Weight:         weight,
		NormalizedArea: area,
		SizeDisplay:    sizeDisplay(item, unit),
		AreaDisplay:    Fixed2(area),
		WeightDisplay:  Fixed2(weight),
	}
}

func resolveQuantity(n Number, warn func(field, value, reason string)) int {
	switch {
	case n.Invalid:
		warn("quantity", n.Raw, "not a number, using 0")
		return 0
	case math.IsNaN(n.Value) || n.Value > MaxQuantity:
		warn("quantity", n.String(), "out of range, using 0")
		return 0
	case n.Value < 0:
		warn("quantity", n.String(), "negative, using 0")
		return 0
	case n.Value != math.Trunc(n.Value):
		warn("quantity", n.String(), "not a whole number, truncated")
	}
	return int(n.Value)
}

func resolveDimension(field string, n Number, warn func(field, value, reason string)) float64 {
	switch {
	case n.Invalid:
		warn(field, n.Raw, "not a number, using 0")
		return 0
	case math.IsNaN(n.Value) || math.IsInf(n.Value, 0):
		warn(field, n.String(), "out of range, using 0")
		return 0
	case n.Value < 0:
		warn(field, n.String(), "negative, using 0")
		return 0
	}
	return n.Value
}

func resolveInch(field string, whole float64, fraction string, rounding Number, warn func(field, value, reason string)) float64 {
	value, ok := ParseFractionalInch(whole, fraction)
	if !ok {
		warn(field+"_fraction", fraction, "unparseable fraction, ignored")
	}
	if value < 0 {
		warn(field+"_fraction", fraction, "negative size, using 0")
		return 0
	}
	switch {
	case rounding.Invalid:
		warn(field+"_rounding", rounding.Raw, "not a number, rounding skipped")
	case rounding.Value < 0:
		warn(field+"_rounding", rounding.String(), "negative, rounding skipped")
	default:
		value = RoundUp(value, rounding.Value)
	}
	return value
}

func sizeDisplay(item LineItem, unit Unit) string {
	w, h := item.Width.String(), item.Height.String()
	if unit == UnitInch {
		if f := strings.TrimSpace(item.WidthFraction); f != "" {
			w += " " + f
		}
		if f := strings.TrimSpace(item.HeightFraction); f != "" {
			h += " " + f
		}
	}
	return w + " x " + h
}

// Fixed2 formats v with exactly two decimals.
func Fixed2(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
