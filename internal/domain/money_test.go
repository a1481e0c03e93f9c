package domain

import "testing"

func TestRupeesToPaise(t *testing.T) {
	tests := []struct {
		rupees float64
		want   int64
	}{
		{0, 0},
		{45, 4500},
		{499.99, 49999},
		{0.01, 1},
		{123.455, 12346}, // rounds to nearest paisa
	}

	for _, tt := range tests {
		if got := RupeesToPaise(tt.rupees); got != tt.want {
			t.Errorf("RupeesToPaise(%v) = %d, want %d", tt.rupees, got, tt.want)
		}
	}
}

func TestFormatPaise(t *testing.T) {
	if got := FormatPaise(53900); got != "₹539.00" {
		t.Errorf("FormatPaise(53900) = %q", got)
	}
	if got := FormatPaise(5); got != "₹0.05" {
		t.Errorf("FormatPaise(5) = %q", got)
	}
	if got := FormatPaise(-4000); got != "-₹40.00" {
		t.Errorf("FormatPaise(-4000) = %q", got)
	}
}
