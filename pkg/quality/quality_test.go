package quality

import (
	"math"
	"testing"
)

func TestSuggest(t *testing.T) {
	tests := []struct {
		name  string
		score float64
		want  int
	}{
		{"Uniform image", 0, 60},
		{"Maximal contrast", 1, 90},
		{"Midpoint", 0.5, 75},
		{"Rounds up", 0.51, 75},
		{"Near max", 0.99, 90},
		{"Negative clamps to min", -0.3, 60},
		{"Above one clamps to max", 1.7, 90},
		{"NaN treated as zero", math.NaN(), 60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Suggest(tt.score); got != tt.want {
				t.Errorf("Suggest(%v) = %d, want %d", tt.score, got, tt.want)
			}
		})
	}
}

func TestSuggest_Monotonic(t *testing.T) {
	prev := 0
	for s := 0.0; s <= 1.0; s += 0.01 {
		q := Suggest(s)
		if q < prev {
			t.Fatalf("Suggest(%v) = %d, below previous %d", s, q, prev)
		}
		if q < MinSuggested || q > MaxSuggested {
			t.Fatalf("Suggest(%v) = %d, out of [%d,%d]", s, q, MinSuggested, MaxSuggested)
		}
		prev = q
	}
}
