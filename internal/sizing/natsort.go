package sizing

import (
	"slices"
	"strings"
)

// NaturalCompare orders strings case-insensitively, comparing embedded digit
// runs by numeric value so that "item2" sorts before "item10". Runs that
// differ only in leading zeros compare equal.
func NaturalCompare(a, b string) int {
	a, b = strings.ToLower(a), strings.ToLower(b)
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if isDigit(a[i]) && isDigit(b[j]) {
			ra, ni := digitRun(a, i)
			rb, nj := digitRun(b, j)
			if c := compareDigitRuns(ra, rb); c != 0 {
				return c
			}
			i, j = ni, nj
			continue
		}
		if a[i] != b[j] {
			if a[i] < b[j] {
				return -1
			}
			return 1
		}
		i++
		j++
	}
	switch {
	case len(a)-i < len(b)-j:
		return -1
	case len(a)-i > len(b)-j:
		return 1
	default:
		return 0
	}
}

// NaturalLess reports whether a sorts before b under NaturalCompare.
func NaturalLess(a, b string) bool { return NaturalCompare(a, b) < 0 }

// SortByOrderRef sorts computed items in place by their order reference.
// Items with equal references keep their input order.
func SortByOrderRef(items []ComputedLineItem) {
	slices.SortStableFunc(items, func(x, y ComputedLineItem) int {
		return NaturalCompare(x.OrderRef, y.OrderRef)
	})
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func digitRun(s string, start int) (string, int) {
	end := start
	for end < len(s) && isDigit(s[end]) {
		end++
	}
	return s[start:end], end
}

func compareDigitRuns(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}
