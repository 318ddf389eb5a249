package supabase

import "testing"

func TestParseContentRange(t *testing.T) {
	cases := map[string]int{
		"0-9/42": 42,
		"*/0":    0,
		"0-0/*":  -1,
		"":       -1,
		"junk":   -1,
	}
	for header, want := range cases {
		if got := parseContentRange(header); got != want {
			t.Errorf("parseContentRange(%q) = %d, want %d", header, got, want)
		}
	}
}
