package pricing

import "strconv"

// Cost is an additional charge attached to a proforma invoice (cutting,
// packing, freight and similar).
type Cost struct {
	Name   string
	Amount float64
}

// Input describes the stored money columns of a proforma invoice.
type Input struct {
	BasicTotal      float64
	AdditionalCosts []Cost
	GSTAmount       float64
	IsGST           bool
	GrandTotal      float64
}

// Summary aggregates computed pricing components.
type Summary struct {
	BasicTotal          float64
	AdditionalTotal     float64
	TotalWithAdditional float64
	CGST                float64
	SGST                float64
	TotalGST            float64
	GrandTotal          float64
	IsGST               bool
}

// Compute derives the invoice totals. GST is split evenly between the central
// and state components only when the invoice is marked as GST-bearing; the
// grand total is carried from the record rather than recomputed.
func Compute(in Input) Summary {
	var additional float64
	for _, c := range in.AdditionalCosts {
		additional += c.Amount
	}
	s := Summary{
		BasicTotal:          in.BasicTotal,
		AdditionalTotal:     additional,
		TotalWithAdditional: in.BasicTotal + additional,
		GrandTotal:          in.GrandTotal,
		IsGST:               in.IsGST,
	}
	if in.IsGST {
		s.TotalGST = in.GSTAmount
		s.CGST = in.GSTAmount / 2
		s.SGST = in.GSTAmount / 2
	}
	return s
}

// Fixed2 formats v with exactly two decimals.
func Fixed2(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
