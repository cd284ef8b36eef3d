package money

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestRound2(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{in: 0, want: 0},
		{in: 10, want: 10},
		{in: 1.005, want: 1.01},
		{in: 2.675, want: 2.68},
		{in: 19.999, want: 20},
		{in: -1.005, want: -1.01},
	}
	for _, tt := range tests {
		if got := Round2(tt.in); got != tt.want {
			t.Fatalf("Round2(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLineTotalAvoidsFloatDrift(t *testing.T) {
	if got := LineTotal(0.1, 3); got != 0.3 {
		t.Fatalf("expected 0.3, got %v", got)
	}
	if got := LineTotal(19.99, 3); got != 59.97 {
		t.Fatalf("expected 59.97, got %v", got)
	}
}

func TestToFloatRounds(t *testing.T) {
	if got := ToFloat(decimal.RequireFromString("3.14159")); got != 3.14 {
		t.Fatalf("expected 3.14, got %v", got)
	}
}
