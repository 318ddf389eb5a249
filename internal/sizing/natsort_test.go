package sizing

import (
	"slices"
	"testing"
)

func TestNaturalCompare(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"item2", "item10", -1},
		{"item10", "item2", 1},
		{"Item2", "item2", 0},
		{"item02", "item2", 0},
		{"a", "a1", -1},
		{"", "a", -1},
		{"W-9 left", "W-9 right", -1},
		{"12345678901234567890", "9", 1},
		{"b1", "a100", 1},
	}
	for _, tt := range tests {
		if got := NaturalCompare(tt.a, tt.b); got != tt.want {
			t.Fatalf("NaturalCompare(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestNaturalSortOrder(t *testing.T) {
	refs := []string{"item10", "item2", "item1"}
	slices.SortStableFunc(refs, NaturalCompare)
	want := []string{"item1", "item2", "item10"}
	if !slices.Equal(refs, want) {
		t.Fatalf("got %v want %v", refs, want)
	}
}
