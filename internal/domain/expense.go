// Package domain defines the entities shared by the parser, the draft
// lifecycle and the billing engine.
package domain

// ParsedExpense is the immutable output of one parser run over a raw
// message. Unresolved fields are nil pointers or empty strings; validation
// is a presence check, not a sentinel check.
type ParsedExpense struct {
	Amount           *float64 // nil = no positive amount found
	Currency         string   // ISO-4217, "MXN" when absent from the text
	CurrencyExplicit bool     // a currency code was textually present
	PaymentMethod    string   // empty = unresolved
	PurchaseDate     string   // "YYYY-MM-DD", empty = no date hint in the text
	IsMSI            bool
	MSIMonths        *int     // 2..60, nil = pending clarification
	MSITotalAmount   *float64 // purchase total when IsMSI, nil otherwise
	AmexAmbiguous    bool     // bare brand name matched more than one allowed method

	Merchant    string // keyword rule hit, empty = unknown
	Category    string // keyword rule hit, "Other" = unknown
	Description string // cleaned text with amounts/dates removed

	Meta ParseMeta
}

// ParseMeta carries parser diagnostics. It never changes behavior.
type ParseMeta struct {
	AmountTokens []string `json:"amount_tokens"`
	AmountCount  int      `json:"amount_count"`
	UsedFallback bool     `json:"used_fallback"`
}

// ExpenseRecord is a confirmed draft ready to be persisted. Drafts are never
// partially persisted: a record exists only after the confirm step.
type ExpenseRecord struct {
	ExpenseID      string
	ConversationID string
	RawText        string

	Amount         float64
	Currency       string
	BaseCurrency   string
	AmountBase     *float64 // converted amount, nil when no FX was needed
	FXRate         *float64
	FXProvider     string
	PaymentMethod  string
	PurchaseDate   string // "YYYY-MM-DD"
	Category       string
	Merchant       string
	Description    string
	IsMSI          bool
	MSIMonths      *int
	MSITotalAmount *float64
	TripID         string
	TripName       string
}
