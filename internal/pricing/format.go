package pricing

import (
	"math"
	"strings"
)

// FormatINR formats an amount in Indian Rupee notation. After the rightmost
// three digits the integer part is grouped in pairs, e.g. ₹1,23,45,678.90.
func FormatINR(amount float64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}
	intPart, decPart, _ := strings.Cut(Fixed2(amount), ".")
	out := "₹" + indianGrouping(intPart) + "." + decPart
	if negative {
		out = "-" + out
	}
	return out
}

func indianGrouping(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	result := s[n-3:]
	rest := s[:n-3]
	for len(rest) > 2 {
		result = rest[len(rest)-2:] + "," + result
		rest = rest[:len(rest)-2]
	}
	if rest != "" {
		result = rest + "," + result
	}
	return result
}

// AmountToWords spells a rupee amount in Indian English, rounded to the
// nearest rupee: 913183 becomes
// "Nine Lakhs Thirteen Thousand One Hundred and Eighty Three Rupees Only".
func AmountToWords(amount float64) string {
	if amount < 0 {
		return "Minus " + AmountToWords(-amount)
	}
	rupees := int64(math.Round(amount))
	if rupees == 0 {
		return "Zero Rupees Only"
	}
	return indianWords(rupees) + " Rupees Only"
}

func indianWords(n int64) string {
	var parts []string
	if n >= 10000000 {
		crores := n / 10000000
		// amounts beyond 99 crore recurse so the crore count is itself spelled out
		if crores > 99 {
			parts = append(parts, indianWords(crores)+" Crores")
		} else {
			parts = append(parts, under100(crores)+plural(crores, " Crore"))
		}
		n %= 10000000
	}
	if n >= 100000 {
		lakhs := n / 100000
		parts = append(parts, under100(lakhs)+plural(lakhs, " Lakh"))
		n %= 100000
	}
	if n >= 1000 {
		parts = append(parts, under100(n/1000)+" Thousand")
		n %= 1000
	}
	if n >= 100 {
		parts = append(parts, ones[n/100]+" Hundred")
		n %= 100
	}
	if n > 0 {
		if len(parts) > 0 {
			parts = append(parts, "and "+under100(n))
		} else {
			parts = append(parts, under100(n))
		}
	}
	return strings.Join(parts, " ")
}

func plural(n int64, unit string) string {
	if n == 1 {
		return unit
	}
	return unit + "s"
}

func under100(n int64) string {
	if n < 20 {
		return ones[n]
	}
	out := tens[n/10]
	if n%10 != 0 {
		out += " " + ones[n%10]
	}
	return out
}

var ones = [...]string{
	"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine",
	"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen", "Sixteen",
	"Seventeen", "Eighteen", "Nineteen",
}

var tens = [...]string{
	"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety",
}
