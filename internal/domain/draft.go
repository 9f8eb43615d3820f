package domain

import "time"

// DraftState tags where a draft sits in the confirmation flow.
type DraftState string

const (
	// StateAwaitingMSIMonths means the message asked for installments but
	// the month count is still unknown; amortization has not happened yet.
	StateAwaitingMSIMonths DraftState = "awaiting_msi_months"
	// StateAwaitingPaymentMethod means the draft needs a payment method.
	// The method is always re-asked, even when the parser matched one.
	StateAwaitingPaymentMethod DraftState = "awaiting_payment_method"
	// StateReadyToConfirm means every required field is present.
	StateReadyToConfirm DraftState = "ready_to_confirm"
)

// Draft is the single working record of a conversation. One live draft per
// conversation; the caller serializes writes (at-most-one-writer, §concurrency
// contract of the store). A draft is destroyed on cancel or confirm, never
// partially persisted.
//
// Invariant: when IsMSI is true and MSIMonths is known, Amount holds the
// monthly amortized figure and MSITotalAmount holds the original total, with
// Amount == round2(MSITotalAmount / MSIMonths).
type Draft struct {
	ID             string
	ConversationID string
	RawText        string
	State          DraftState
	CreatedAt      time.Time

	Amount           *float64
	Currency         string
	CurrencyExplicit bool
	BaseCurrency     string

	PaymentMethod string
	PurchaseDate  string // "YYYY-MM-DD"
	Category      string
	Merchant      string
	Description   string

	IsMSI          bool
	MSIMonths      *int
	MSITotalAmount *float64
	AmexAmbiguous  bool

	// Assigned trip. Independent from the conversation's active trip: a
	// draft may be excluded from the active trip and re-included later.
	TripID   string
	TripName string

	// Conversation's currently open trip at draft creation time, kept so
	// ToggleTripInclude can restore the assignment.
	ActiveTripID           string
	ActiveTripName         string
	ActiveTripBaseCurrency string

	FXRequired bool
	FXRate     *float64
	FXProvider string
	// Amount converted into BaseCurrency, filled at confirm time.
	AmountBaseCurrency *float64
}

// Clone returns a deep-enough copy of the draft. Pointer fields are
// re-allocated so mutations on the copy never leak into the stored draft.
func (d *Draft) Clone() *Draft {
	c := *d
	c.Amount = clonePtr(d.Amount)
	c.MSIMonths = clonePtr(d.MSIMonths)
	c.MSITotalAmount = clonePtr(d.MSITotalAmount)
	c.FXRate = clonePtr(d.FXRate)
	c.AmountBaseCurrency = clonePtr(d.AmountBaseCurrency)
	return &c
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
