package domain

// Action is the closed set of mutations a conversation can apply to its
// draft. The unexported marker keeps the union sealed so the lifecycle can
// switch exhaustively over the five kinds.
type Action interface {
	isAction()
}

// SelectPaymentMethod sets the payment method and advances the draft.
type SelectPaymentMethod struct {
	Method string
}

// ToggleTripInclude includes the draft in, or excludes it from, the
// conversation's active trip. Excluding clears the assignment and, only when
// the currency was not explicit in the text, resets the currency to MXN.
type ToggleTripInclude struct {
	Include bool
}

// EditField overwrites a single draft field with no validation. The caller
// owns re-validation before confirm.
type EditField struct {
	Field string
	Value any
}

// SetMSIMonths resolves the installment clarification turn: validates the
// month count, backfills the total and re-amortizes the monthly amount.
type SetMSIMonths struct {
	Months int
}

// Cancel discards the draft.
type Cancel struct{}

func (SelectPaymentMethod) isAction() {}
func (ToggleTripInclude) isAction()   {}
func (EditField) isAction()           {}
func (SetMSIMonths) isAction()        {}
func (Cancel) isAction()              {}
