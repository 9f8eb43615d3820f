// Package billing computes credit-card statement cut dates, payment due
// dates and billing/cashflow month attribution.
//
// All arithmetic anchors dates at noon UTC so DST and timezone edges can
// never move a computation across a day boundary.
package billing

import (
	"time"

	"cloud.google.com/go/civil"

	"github.com/molvera/gastobot/internal/domain"
)

// Statement is one cut/pay date pair.
type Statement struct {
	Cut civil.Date
	Pay civil.Date
}

// Month labels a calendar month.
type Month struct {
	Year  int
	Month time.Month
}

// String formats the month as "YYYY-MM".
func (m Month) String() string {
	return civil.Date{Year: m.Year, Month: m.Month, Day: 1}.String()[:7]
}

// atNoon pins a civil date to 12:00 UTC.
func atNoon(d civil.Date) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 12, 0, 0, 0, time.UTC)
}

func daysIn(year int, month time.Month) int {
	// Day zero of the next month normalizes to this month's last day.
	return time.Date(year, month+1, 0, 12, 0, 0, 0, time.UTC).Day()
}

func shiftMonth(year int, month time.Month, delta int) (int, time.Month) {
	t := time.Date(year, month+time.Month(delta), 1, 12, 0, 0, 0, time.UTC)
	return t.Year(), t.Month()
}

// CutDateForMonth returns the statement cut date for a given month, clamping
// the configured cut day to the month's actual length (cut day 31 in
// February yields the last day of February).
func CutDateForMonth(year int, month time.Month, cutDay int) civil.Date {
	day := cutDay
	if last := daysIn(year, month); day > last {
		day = last
	}
	if day < 1 {
		day = 1
	}
	return civil.Date{Year: year, Month: month, Day: day}
}

// PayDate returns the payment due date: cut plus offsetDays, optionally
// rolled off the weekend. Saturday moves +2 days and Sunday +1 day; a
// weekday never moves.
func PayDate(cut civil.Date, offsetDays int, rollWeekend bool) civil.Date {
	pay := cut.AddDays(offsetDays)
	if rollWeekend {
		switch atNoon(pay).Weekday() {
		case time.Saturday:
			pay = pay.AddDays(2)
		case time.Sunday:
			pay = pay.AddDays(1)
		}
	}
	return pay
}

// BillingMonthForPurchase returns the month a card issuer attributes a
// purchase to. Purchases with a day-of-month strictly greater than the cut
// day roll into the next statement month; the result is then shifted by
// shiftMonths, which lets a card's billing label lag or lead the literal
// statement month.
func BillingMonthForPurchase(purchase civil.Date, cutDay, shiftMonths int) Month {
	year, month := purchase.Year, purchase.Month
	if purchase.Day > cutDay {
		year, month = shiftMonth(year, month, 1)
	}
	year, month = shiftMonth(year, month, shiftMonths)
	return Month{Year: year, Month: month}
}

// ResolveStatementForPayMonth answers the inverse question: which statement
// lands its payment inside the target month. The pay offset can push a
// payment into the month after its cut, so two candidates are tried: the cut
// in the target month itself, then the cut in the previous month. If neither
// pays in the target month (offsets past ~31 days), the same-month candidate
// is returned as a best-effort default.
func ResolveStatementForPayMonth(target Month, cutDay, payOffsetDays int, rollWeekend bool) Statement {
	sameMonth := statementFor(target.Year, target.Month, cutDay, payOffsetDays, rollWeekend)
	if sameMonth.Pay.Year == target.Year && sameMonth.Pay.Month == target.Month {
		return sameMonth
	}

	prevYear, prevMonth := shiftMonth(target.Year, target.Month, -1)
	previous := statementFor(prevYear, prevMonth, cutDay, payOffsetDays, rollWeekend)
	if previous.Pay.Year == target.Year && previous.Pay.Month == target.Month {
		return previous
	}

	return sameMonth
}

func statementFor(year int, month time.Month, cutDay, payOffsetDays int, rollWeekend bool) Statement {
	cut := CutDateForMonth(year, month, cutDay)
	return Statement{Cut: cut, Pay: PayDate(cut, payOffsetDays, rollWeekend)}
}

// CashflowMonthForPurchase returns the calendar month in which a purchase
// actually debits: the purchase's statement cut (rolling to the next month
// past the cut day), that statement's pay date, and the month containing it.
// BillingShiftMonths does not participate; it only relabels statements.
func CashflowMonthForPurchase(purchase civil.Date, rule domain.CardBillingRule) Month {
	year, month := purchase.Year, purchase.Month
	if purchase.Day > rule.CutDay {
		year, month = shiftMonth(year, month, 1)
	}
	st := statementFor(year, month, rule.CutDay, rule.PayOffsetDays, rule.RollWeekendToMonday)
	return Month{Year: st.Pay.Year, Month: st.Pay.Month}
}

// StatementForPurchase exposes the cut/pay pair a purchase belongs to, used
// by payment-due reporting.
func StatementForPurchase(purchase civil.Date, rule domain.CardBillingRule) Statement {
	year, month := purchase.Year, purchase.Month
	if purchase.Day > rule.CutDay {
		year, month = shiftMonth(year, month, 1)
	}
	return statementFor(year, month, rule.CutDay, rule.PayOffsetDays, rule.RollWeekendToMonday)
}
