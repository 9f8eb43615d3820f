package recorder

import (
	"fmt"
	"math/big"
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"

	"github.com/molvera/gastobot/internal/billing"
	"github.com/molvera/gastobot/internal/domain"
)

// ExpenseRow is the BigQuery schema for one confirmed expense.
type ExpenseRow struct {
	ExpenseID      string `bigquery:"expense_id"`      // REQUIRED
	ConversationID string `bigquery:"conversation_id"` // NULLABLE
	RawText        string `bigquery:"raw_text"`        // NULLABLE

	PurchaseDate civil.Date `bigquery:"purchase_date"` // REQUIRED

	Amount   *big.Rat `bigquery:"amount"`   // REQUIRED NUMERIC, monthly figure for MSI
	Currency string   `bigquery:"currency"` // REQUIRED STRING

	BaseCurrency string               `bigquery:"base_currency"` // NULLABLE
	AmountBase   *big.Rat             `bigquery:"amount_base"`   // NULLABLE NUMERIC
	FXRate       bigquery.NullFloat64 `bigquery:"fx_rate"`       // NULLABLE
	FXProvider   bigquery.NullString  `bigquery:"fx_provider"`   // NULLABLE

	PaymentMethod string              `bigquery:"payment_method"` // REQUIRED STRING
	Category      string              `bigquery:"category"`       // REQUIRED STRING
	Merchant      bigquery.NullString `bigquery:"merchant"`       // NULLABLE
	Description   bigquery.NullString `bigquery:"description"`    // NULLABLE

	IsMSI          bool               `bigquery:"is_msi"`
	MSIMonths      bigquery.NullInt64 `bigquery:"msi_months"`       // NULLABLE
	MSITotalAmount *big.Rat           `bigquery:"msi_total_amount"` // NULLABLE NUMERIC

	TripID   bigquery.NullString `bigquery:"trip_id"`   // NULLABLE
	TripName bigquery.NullString `bigquery:"trip_name"` // NULLABLE

	StatementCutDate bigquery.NullDate   `bigquery:"statement_cut_date"` // NULLABLE
	StatementPayDate bigquery.NullDate   `bigquery:"statement_pay_date"` // NULLABLE
	CashflowMonth    bigquery.NullString `bigquery:"cashflow_month"`     // NULLABLE "YYYY-MM"

	CreatedTS time.Time `bigquery:"created_ts"` // REQUIRED
}

// NewExpenseRow converts a confirmed expense into its BigQuery row. st and
// cashflow are nil for payment methods without a billing rule; those
// expenses still record, just without statement attribution.
func NewExpenseRow(rec domain.ExpenseRecord, st *billing.Statement, cashflow *billing.Month, now time.Time) (*ExpenseRow, error) {
	purchase, err := civil.ParseDate(rec.PurchaseDate)
	if err != nil {
		return nil, fmt.Errorf("NewExpenseRow: purchase date %q: %w", rec.PurchaseDate, err)
	}

	row := &ExpenseRow{
		ExpenseID:      rec.ExpenseID,
		ConversationID: rec.ConversationID,
		RawText:        rec.RawText,
		PurchaseDate:   purchase,
		Amount:         new(big.Rat).SetFloat64(rec.Amount),
		Currency:       rec.Currency,
		BaseCurrency:   rec.BaseCurrency,
		PaymentMethod:  rec.PaymentMethod,
		Category:       rec.Category,
		Merchant:       nullString(rec.Merchant),
		Description:    nullString(rec.Description),
		IsMSI:          rec.IsMSI,
		TripID:         nullString(rec.TripID),
		TripName:       nullString(rec.TripName),
		CreatedTS:      now.UTC(),
	}

	if rec.AmountBase != nil {
		row.AmountBase = new(big.Rat).SetFloat64(*rec.AmountBase)
	}
	if rec.FXRate != nil {
		row.FXRate = bigquery.NullFloat64{Float64: *rec.FXRate, Valid: true}
	}
	row.FXProvider = nullString(rec.FXProvider)

	if rec.MSIMonths != nil {
		row.MSIMonths = bigquery.NullInt64{Int64: int64(*rec.MSIMonths), Valid: true}
	}
	if rec.MSITotalAmount != nil {
		row.MSITotalAmount = new(big.Rat).SetFloat64(*rec.MSITotalAmount)
	}

	if st != nil {
		row.StatementCutDate = bigquery.NullDate{Date: st.Cut, Valid: true}
		row.StatementPayDate = bigquery.NullDate{Date: st.Pay, Valid: true}
	}
	if cashflow != nil {
		row.CashflowMonth = nullString(cashflow.String())
	}

	return row, nil
}

func nullString(s string) bigquery.NullString {
	return bigquery.NullString{StringVal: s, Valid: s != ""}
}
