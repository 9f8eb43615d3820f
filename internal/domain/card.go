package domain

// CardBillingRule describes one card's statement policy. Rules are external,
// read-only inputs loaded from configuration.
type CardBillingRule struct {
	CardName string `yaml:"card_name" json:"card_name"`
	// CutDay is the statement close day, 1..31. Days past a month's end are
	// clamped to that month's last day.
	CutDay int `yaml:"cut_day" json:"cut_day"`
	// PayOffsetDays is how many days after the cut the payment is due. May
	// be zero.
	PayOffsetDays int `yaml:"pay_offset_days" json:"pay_offset_days"`
	// RollWeekendToMonday moves Saturday/Sunday pay dates to the following
	// Monday.
	RollWeekendToMonday bool `yaml:"roll_weekend_to_monday" json:"roll_weekend_to_monday"`
	// BillingShiftMonths shifts the billing-month label for purchases.
	// Signed; it applies only to the purchase→billing-month computation,
	// never to cut or pay dates.
	BillingShiftMonths int  `yaml:"billing_shift_months" json:"billing_shift_months"`
	Active             bool `yaml:"active" json:"active"`
}

// Trip is a conversation-scoped multi-currency context. A conversation has
// at most one active trip at a time; drafts default into it unless excluded.
type Trip struct {
	TripID       string `yaml:"trip_id" json:"trip_id"`
	Name         string `yaml:"name" json:"name"`
	BaseCurrency string `yaml:"base_currency" json:"base_currency"`
}
