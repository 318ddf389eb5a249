package pricing

import "testing"

func TestFormatINR(t *testing.T) {
	tests := []struct {
		name  string
		input float64
		want  string
	}{
		{"zero", 0, "₹0.00"},
		{"hundreds", 999, "₹999.00"},
		{"thousand", 1000, "₹1,000.00"},
		{"lakh", 123456.7, "₹1,23,456.70"},
		{"crore", 12345678.9, "₹1,23,45,678.90"},
		{"negative", -1500, "-₹1,500.00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatINR(tt.input); got != tt.want {
				t.Errorf("FormatINR(%v) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestAmountToWords(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
		want   string
	}{
		{"zero", 0, "Zero Rupees Only"},
		{"small", 45, "Forty Five Rupees Only"},
		{"hundred", 100, "One Hundred Rupees Only"},
		{"with and", 1101, "One Thousand One Hundred and One Rupees Only"},
		{"one lakh", 100000, "One Lakh Rupees Only"},
		{"lakhs", 913183, "Nine Lakhs Thirteen Thousand One Hundred and Eighty Three Rupees Only"},
		{"crore", 12500000, "One Crore Twenty Five Lakhs Rupees Only"},
		{"rounds", 99.5, "One Hundred Rupees Only"},
		{"negative", -12, "Minus Twelve Rupees Only"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AmountToWords(tt.amount); got != tt.want {
				t.Errorf("AmountToWords(%v) = %q, want %q", tt.amount, got, tt.want)
			}
		})
	}
}
