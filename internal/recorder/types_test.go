package recorder

import (
	"math/big"
	"testing"
	"time"

	"cloud.google.com/go/civil"

	"github.com/molvera/gastobot/internal/billing"
	"github.com/molvera/gastobot/internal/domain"
)

func TestNewExpenseRow(t *testing.T) {
	months := 6
	total := 1200.0
	rate := 17.5
	base := 8750.0

	rec := domain.ExpenseRecord{
		ExpenseID:      "e1",
		ConversationID: "c1",
		RawText:        "500 usd cena NYC",
		Amount:         200,
		Currency:       "USD",
		BaseCurrency:   "MXN",
		AmountBase:     &base,
		FXRate:         &rate,
		FXProvider:     "fixed",
		PaymentMethod:  "BBVA Platino",
		PurchaseDate:   "2024-05-14",
		Category:       "Food",
		Merchant:       "Some Bistro",
		IsMSI:          true,
		MSIMonths:      &months,
		MSITotalAmount: &total,
		TripID:         "t1",
		TripName:       "NYC",
	}
	st := &billing.Statement{
		Cut: civil.Date{Year: 2024, Month: time.June, Day: 2},
		Pay: civil.Date{Year: 2024, Month: time.June, Day: 24},
	}
	cashflow := &billing.Month{Year: 2024, Month: time.June}
	now := time.Date(2024, 5, 15, 12, 0, 0, 0, time.UTC)

	row, err := NewExpenseRow(rec, st, cashflow, now)
	if err != nil {
		t.Fatalf("NewExpenseRow() error = %v", err)
	}

	if row.PurchaseDate != (civil.Date{Year: 2024, Month: time.May, Day: 14}) {
		t.Errorf("PurchaseDate = %v", row.PurchaseDate)
	}
	if want := new(big.Rat).SetFloat64(200); row.Amount.Cmp(want) != 0 {
		t.Errorf("Amount = %v, want %v", row.Amount, want)
	}
	if !row.MSIMonths.Valid || row.MSIMonths.Int64 != 6 {
		t.Errorf("MSIMonths = %+v", row.MSIMonths)
	}
	if !row.FXRate.Valid || row.FXRate.Float64 != 17.5 {
		t.Errorf("FXRate = %+v", row.FXRate)
	}
	if !row.StatementPayDate.Valid || row.StatementPayDate.Date != st.Pay {
		t.Errorf("StatementPayDate = %+v", row.StatementPayDate)
	}
	if !row.CashflowMonth.Valid || row.CashflowMonth.StringVal != "2024-06" {
		t.Errorf("CashflowMonth = %+v", row.CashflowMonth)
	}
	if row.CreatedTS != now {
		t.Errorf("CreatedTS = %v", row.CreatedTS)
	}
}

func TestNewExpenseRow_NoAttribution(t *testing.T) {
	rec := domain.ExpenseRecord{
		ExpenseID:     "e2",
		Amount:        50,
		Currency:      "MXN",
		BaseCurrency:  "MXN",
		PaymentMethod: "Efectivo",
		PurchaseDate:  "2024-05-15",
		Category:      "Other",
	}

	row, err := NewExpenseRow(rec, nil, nil, time.Now())
	if err != nil {
		t.Fatalf("NewExpenseRow() error = %v", err)
	}
	if row.StatementCutDate.Valid || row.StatementPayDate.Valid || row.CashflowMonth.Valid {
		t.Error("cash expense must carry no statement attribution")
	}
	if row.Merchant.Valid || row.TripID.Valid {
		t.Error("empty optional strings must be NULL, not empty strings")
	}
	if row.MSIMonths.Valid || row.MSITotalAmount != nil {
		t.Error("non-MSI expense must carry no MSI columns")
	}
}

func TestNewExpenseRow_BadDate(t *testing.T) {
	rec := domain.ExpenseRecord{ExpenseID: "e3", Amount: 1, PurchaseDate: "ayer"}
	if _, err := NewExpenseRow(rec, nil, nil, time.Now()); err == nil {
		t.Error("NewExpenseRow() with bad date: expected error")
	}
}
