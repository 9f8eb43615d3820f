package msi

import (
	"math"
	"testing"
)

func TestAmortize(t *testing.T) {
	tests := []struct {
		name   string
		total  float64
		months int
		want   float64
	}{
		{"even split", 1200, 6, 200},
		{"repeating decimal rounds half away", 1000, 3, 333.33},
		{"two months", 999.99, 2, 500.00},
		{"half cent rounds up", 100.01, 2, 50.01},
		{"twelve months", 18500, 12, 1541.67},
		{"zero months is inert", 1200, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Amortize(tt.total, tt.months)
			if got != tt.want {
				t.Errorf("Amortize(%v, %d) = %v, want %v", tt.total, tt.months, got, tt.want)
			}
		})
	}
}

// The rounding slack of monthly*months against the original total is bounded
// by one cent per month.
func TestAmortize_SlackBound(t *testing.T) {
	totals := []float64{1, 99.99, 1200, 18500.55, 123456.78}
	for _, total := range totals {
		for months := 2; months <= 60; months++ {
			monthly := Amortize(total, months)
			diff := math.Abs(monthly*float64(months) - total)
			if diff > 0.01*float64(months)+1e-9 {
				t.Fatalf("total=%v months=%d monthly=%v: drift %v exceeds bound", total, months, monthly, diff)
			}
		}
	}
}

func TestMonthsValid(t *testing.T) {
	tests := []struct {
		months int
		want   bool
	}{
		{0, false},
		{1, false},
		{2, true},
		{12, true},
		{60, true},
		{61, false},
		{-3, false},
	}
	for _, tt := range tests {
		if got := MonthsValid(tt.months); got != tt.want {
			t.Errorf("MonthsValid(%d) = %v, want %v", tt.months, got, tt.want)
		}
	}
}

func TestRound2(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{1.005, 1.01},
		{-1.005, -1.01},
		{2.344, 2.34},
		{2.345, 2.35},
		{0, 0},
	}
	for _, tt := range tests {
		if got := Round2(tt.in); got != tt.want {
			t.Errorf("Round2(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
