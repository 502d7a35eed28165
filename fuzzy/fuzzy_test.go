package fuzzy

import "testing"

func TestDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"abc", "abc", 0},
		{"priorty", "priority", 1},
		{"stauts", "status", 2},
		{"kitten", "sitting", 3},
		{"zzzzz", "status", 6},
	}

	for _, tt := range tests {
		if got := Distance(tt.a, tt.b); got != tt.want {
			t.Errorf("Distance(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestClosest(t *testing.T) {
	candidates := []string{"status", "priority", "size", "title"}

	tests := []struct {
		target string
		want   string
	}{
		{"priorty", "priority"},
		{"stauts", "status"},
		{"sise", "size"},
		{"zzzzz", ""},
		{"status", "status"},
	}

	for _, tt := range tests {
		if got := Closest(tt.target, candidates, 2); got != tt.want {
			t.Errorf("Closest(%q) = %q, want %q", tt.target, got, tt.want)
		}
	}
}

func TestClosestTieBreak(t *testing.T) {
	// Both one edit away; the earlier candidate wins.
	got := Closest("siz", []string{"side", "size"}, 2)
	if got != "side" {
		t.Errorf("Closest tie = %q, want %q", got, "side")
	}
}
