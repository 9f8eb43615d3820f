package report

import (
	"context"
	"strings"
	"testing"
	"time"

	"cloud.google.com/go/civil"

	"github.com/molvera/gastobot/internal/billing"
	"github.com/molvera/gastobot/internal/domain"
	"github.com/molvera/gastobot/internal/store/inmemory"
)

func TestPaymentsDue(t *testing.T) {
	rules := inmemory.NewCardRuleStore([]domain.CardBillingRule{
		{CardName: "Amex Aeromexico", CutDay: 24, PayOffsetDays: 20, Active: true},
		{CardName: "BBVA Platino", CutDay: 2, PayOffsetDays: 20, Active: true},
		{CardName: "Closed Card", CutDay: 10, PayOffsetDays: 10, Active: false},
	})
	b := NewBuilder(rules)

	dues, err := b.PaymentsDue(context.Background(), billing.Month{Year: 2024, Month: time.June})
	if err != nil {
		t.Fatalf("PaymentsDue() error = %v", err)
	}
	if len(dues) != 2 {
		t.Fatalf("PaymentsDue() returned %d entries, want 2", len(dues))
	}

	// Amex: cut May 24 pays Jun 13, which sorts before BBVA's Jun 22.
	if dues[0].CardName != "Amex Aeromexico" {
		t.Errorf("dues[0] = %s, want Amex Aeromexico", dues[0].CardName)
	}
	if want := (civil.Date{Year: 2024, Month: time.June, Day: 13}); dues[0].Statement.Pay != want {
		t.Errorf("Amex pay = %v, want %v", dues[0].Statement.Pay, want)
	}
	if want := (civil.Date{Year: 2024, Month: time.June, Day: 22}); dues[1].Statement.Pay != want {
		t.Errorf("BBVA pay = %v, want %v", dues[1].Statement.Pay, want)
	}
}

func TestFormat(t *testing.T) {
	month := billing.Month{Year: 2024, Month: time.June}
	out := Format(month, []PaymentDue{
		{
			CardName: "BBVA Platino",
			Statement: billing.Statement{
				Cut: civil.Date{Year: 2024, Month: time.June, Day: 2},
				Pay: civil.Date{Year: 2024, Month: time.June, Day: 22},
			},
		},
	})

	for _, want := range []string{"Pagos de 2024-06", "BBVA Platino", "2024-06-02", "2024-06-22"} {
		if !strings.Contains(out, want) {
			t.Errorf("Format() missing %q in:\n%s", want, out)
		}
	}

	empty := Format(month, nil)
	if !strings.Contains(empty, "Sin tarjetas activas") {
		t.Errorf("Format() empty = %q", empty)
	}
}
