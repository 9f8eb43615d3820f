// Package fx converts foreign-currency amounts into the base currency at
// confirm time.
package fx

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrNoRate is returned when no source can quote the requested pair.
var ErrNoRate = errors.New("fx: no rate available")

// Rate is one quote: multiply an amount in From by Value to get To.
type Rate struct {
	From     string
	To       string
	Value    float64
	Provider string
}

// RateSource quotes conversion rates. Implementations may hit a live API;
// the fixed source never does.
type RateSource interface {
	// RateFor quotes from -> to. ErrNoRate when the pair is not covered.
	RateFor(ctx context.Context, from, to string) (Rate, error)
}

// Fixed is a RateSource with one configured rate applied to every foreign
// pair into the home currency. It is the fallback when no live source is
// wired, so a trip expense still confirms offline.
type Fixed struct {
	home     string
	rate     float64
	provider string
}

// NewFixed builds a fixed source converting anything into home at rate.
// A non-positive rate disables the source.
func NewFixed(home string, rate float64, provider string) *Fixed {
	return &Fixed{home: strings.ToUpper(home), rate: rate, provider: provider}
}

// RateFor implements the RateSource interface.
func (f *Fixed) RateFor(ctx context.Context, from, to string) (Rate, error) {
	from = strings.ToUpper(from)
	to = strings.ToUpper(to)
	if f.rate <= 0 || to != f.home || from == to {
		return Rate{}, ErrNoRate
	}
	return Rate{From: from, To: to, Value: f.rate, Provider: f.provider}, nil
}

// Chain tries sources in order and returns the first quote.
type Chain []RateSource

// RateFor implements the RateSource interface.
func (c Chain) RateFor(ctx context.Context, from, to string) (Rate, error) {
	for _, src := range c {
		rate, err := src.RateFor(ctx, from, to)
		if err == nil {
			return rate, nil
		}
		if !errors.Is(err, ErrNoRate) {
			return Rate{}, fmt.Errorf("fx chain: %w", err)
		}
	}
	return Rate{}, ErrNoRate
}

// Convert applies a rate to an amount, rounded to 2 decimals half away
// from zero, matching how amounts are rounded everywhere else.
func Convert(amount float64, rate Rate) float64 {
	out, _ := decimal.NewFromFloat(amount).
		Mul(decimal.NewFromFloat(rate.Value)).
		Round(2).
		Float64()
	return out
}

var (
	_ RateSource = (*Fixed)(nil)
	_ RateSource = Chain(nil)
)
