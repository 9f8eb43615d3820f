package billing

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"

	"github.com/molvera/gastobot/internal/domain"
)

func d(year int, month time.Month, day int) civil.Date {
	return civil.Date{Year: year, Month: month, Day: day}
}

func TestCutDateForMonth(t *testing.T) {
	tests := []struct {
		name   string
		year   int
		month  time.Month
		cutDay int
		want   civil.Date
	}{
		{"plain day", 2024, time.May, 2, d(2024, time.May, 2)},
		{"cut 31 in february clamps", 2024, time.February, 31, d(2024, time.February, 29)},
		{"cut 31 in non-leap february", 2023, time.February, 31, d(2023, time.February, 28)},
		{"cut 31 in april clamps to 30", 2024, time.April, 31, d(2024, time.April, 30)},
		{"cut 31 in may stays", 2024, time.May, 31, d(2024, time.May, 31)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CutDateForMonth(tt.year, tt.month, tt.cutDay)
			if got != tt.want {
				t.Errorf("CutDateForMonth(%d, %s, %d) = %s, want %s", tt.year, tt.month, tt.cutDay, got, tt.want)
			}
		})
	}
}

func TestPayDate(t *testing.T) {
	tests := []struct {
		name   string
		cut    civil.Date
		offset int
		roll   bool
		want   civil.Date
	}{
		{"cut 2 offset 20", d(2024, time.May, 2), 20, false, d(2024, time.May, 22)},
		{"zero offset", d(2024, time.May, 2), 0, false, d(2024, time.May, 2)},
		{"saturday rolls two days", d(2024, time.June, 1), 14, true, d(2024, time.June, 17)}, // Jun 15 2024 is a Saturday
		{"sunday rolls one day", d(2024, time.June, 2), 14, true, d(2024, time.June, 17)},    // Jun 16 2024 is a Sunday
		{"weekday never rolls", d(2024, time.June, 3), 14, true, d(2024, time.June, 17)},
		{"weekend kept without roll", d(2024, time.June, 1), 14, false, d(2024, time.June, 15)},
		{"roll across month end", d(2024, time.August, 17), 14, true, d(2024, time.September, 2)}, // Aug 31 2024 is a Saturday
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PayDate(tt.cut, tt.offset, tt.roll)
			if got != tt.want {
				t.Errorf("PayDate(%s, %d, %v) = %s, want %s", tt.cut, tt.offset, tt.roll, got, tt.want)
			}
		})
	}
}

// Rolled pay dates always land on a weekday.
func TestPayDate_RolledNeverWeekend(t *testing.T) {
	start := d(2024, time.January, 1)
	for i := 0; i < 730; i++ {
		cut := start.AddDays(i)
		for offset := 0; offset <= 31; offset++ {
			pay := PayDate(cut, offset, true)
			wd := atNoon(pay).Weekday()
			if wd == time.Saturday || wd == time.Sunday {
				t.Fatalf("PayDate(%s, %d, true) = %s lands on %s", cut, offset, pay, wd)
			}
		}
	}
}

func TestBillingMonthForPurchase(t *testing.T) {
	tests := []struct {
		name     string
		purchase civil.Date
		cutDay   int
		shift    int
		want     Month
	}{
		{"on cut day stays", d(2024, time.May, 24), 24, 0, Month{2024, time.May}},
		{"day after cut rolls", d(2024, time.May, 25), 24, 0, Month{2024, time.June}},
		{"before cut stays", d(2024, time.May, 3), 24, 0, Month{2024, time.May}},
		{"december rolls into january", d(2024, time.December, 28), 24, 0, Month{2025, time.January}},
		{"positive shift", d(2024, time.May, 25), 24, 1, Month{2024, time.July}},
		{"negative shift", d(2024, time.May, 3), 24, -1, Month{2024, time.April}},
		{"shift across year boundary", d(2024, time.January, 2), 24, -1, Month{2023, time.December}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BillingMonthForPurchase(tt.purchase, tt.cutDay, tt.shift)
			if got != tt.want {
				t.Errorf("BillingMonthForPurchase(%s, %d, %d) = %v, want %v", tt.purchase, tt.cutDay, tt.shift, got, tt.want)
			}
		})
	}
}

func TestResolveStatementForPayMonth(t *testing.T) {
	tests := []struct {
		name    string
		target  Month
		cutDay  int
		offset  int
		roll    bool
		wantCut civil.Date
		wantPay civil.Date
	}{
		{
			// Cut on May 24 pays Jun 13: the June payment comes from May's cut.
			name:   "offset pushes pay into next month",
			target: Month{2024, time.June}, cutDay: 24, offset: 20, roll: false,
			wantCut: d(2024, time.May, 24), wantPay: d(2024, time.June, 13),
		},
		{
			name:   "same month when offset stays inside",
			target: Month{2024, time.May}, cutDay: 2, offset: 20, roll: false,
			wantCut: d(2024, time.May, 2), wantPay: d(2024, time.May, 22),
		},
		{
			name:   "january payment from december cut",
			target: Month{2025, time.January}, cutDay: 28, offset: 15, roll: false,
			wantCut: d(2024, time.December, 28), wantPay: d(2025, time.January, 12),
		},
		{
			name:   "zero offset always same month",
			target: Month{2024, time.February}, cutDay: 31, offset: 0, roll: false,
			wantCut: d(2024, time.February, 29), wantPay: d(2024, time.February, 29),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveStatementForPayMonth(tt.target, tt.cutDay, tt.offset, tt.roll)
			if got.Cut != tt.wantCut || got.Pay != tt.wantPay {
				t.Errorf("ResolveStatementForPayMonth(%v, %d, %d, %v) = {%s %s}, want {%s %s}",
					tt.target, tt.cutDay, tt.offset, tt.roll, got.Cut, got.Pay, tt.wantCut, tt.wantPay)
			}
		})
	}
}

func TestCashflowMonthForPurchase(t *testing.T) {
	rule := domain.CardBillingRule{CutDay: 24, PayOffsetDays: 20}

	tests := []struct {
		name     string
		purchase civil.Date
		want     Month
	}{
		{"before cut debits next month", d(2024, time.May, 10), Month{2024, time.June}},
		{"after cut debits month after next", d(2024, time.May, 30), Month{2024, time.July}},
		{"on cut day counts into current statement", d(2024, time.May, 24), Month{2024, time.June}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CashflowMonthForPurchase(tt.purchase, rule)
			if got != tt.want {
				t.Errorf("CashflowMonthForPurchase(%s) = %v, want %v", tt.purchase, got, tt.want)
			}
		})
	}
}

// For any purchase inside a statement's cycle, resolving the purchase's
// cashflow month back through ResolveStatementForPayMonth recovers the same
// statement.
func TestResolve_IsLeftInverseOfCashflow(t *testing.T) {
	rules := []domain.CardBillingRule{
		{CutDay: 2, PayOffsetDays: 20},
		{CutDay: 15, PayOffsetDays: 10, RollWeekendToMonday: true},
		{CutDay: 24, PayOffsetDays: 20},
		{CutDay: 31, PayOffsetDays: 5, RollWeekendToMonday: true},
	}

	start := d(2024, time.January, 1)
	for _, rule := range rules {
		for i := 0; i < 365; i += 3 {
			purchase := start.AddDays(i)
			st := StatementForPurchase(purchase, rule)
			payMonth := CashflowMonthForPurchase(purchase, rule)

			resolved := ResolveStatementForPayMonth(payMonth, rule.CutDay, rule.PayOffsetDays, rule.RollWeekendToMonday)
			if resolved.Cut != st.Cut || resolved.Pay != st.Pay {
				t.Fatalf("rule %+v purchase %s: resolved {%s %s}, statement {%s %s}",
					rule, purchase, resolved.Cut, resolved.Pay, st.Cut, st.Pay)
			}
		}
	}
}

func TestMonthString(t *testing.T) {
	if got := (Month{2024, time.June}).String(); got != "2024-06" {
		t.Errorf("Month.String() = %q, want %q", got, "2024-06")
	}
}
