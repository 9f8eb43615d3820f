package draft

import (
	"strings"

	"github.com/molvera/gastobot/internal/domain"
)

// HomeCurrency is the implicit currency when no trip is active and the text
// named none.
const HomeCurrency = "MXN"

// ResolveCurrency decides the draft's working currency and trip membership.
//
// Rules: an explicit currency from the text is never overridden, by trips or
// toggles. Without an explicit currency the draft follows its trip's base
// currency, or MXN when there is no trip. FX is required exactly when the
// working currency differs from the base currency.
func ResolveCurrency(d *domain.Draft, active *domain.Trip) {
	d.BaseCurrency = HomeCurrency

	if active != nil {
		d.ActiveTripID = active.TripID
		d.ActiveTripName = active.Name
		d.ActiveTripBaseCurrency = strings.ToUpper(active.BaseCurrency)

		// New drafts default into the open trip; exclusion is an
		// explicit toggle afterwards.
		d.TripID = active.TripID
		d.TripName = active.Name
		d.BaseCurrency = d.ActiveTripBaseCurrency
		if !d.CurrencyExplicit {
			d.Currency = d.ActiveTripBaseCurrency
		}
	}

	d.FXRequired = d.Currency != d.BaseCurrency
}

// applyTripToggle implements ToggleTripInclude on a cloned draft. Only the
// implicit MXN/trip-currency default reacts to the toggle; an explicit
// currency stays put both ways.
func applyTripToggle(d *domain.Draft, include bool) {
	if include {
		if d.ActiveTripID == "" {
			return
		}
		d.TripID = d.ActiveTripID
		d.TripName = d.ActiveTripName
		d.BaseCurrency = d.ActiveTripBaseCurrency
		if !d.CurrencyExplicit {
			d.Currency = d.ActiveTripBaseCurrency
		}
	} else {
		d.TripID = ""
		d.TripName = ""
		d.BaseCurrency = HomeCurrency
		if !d.CurrencyExplicit {
			d.Currency = HomeCurrency
		}
	}

	d.FXRequired = d.Currency != d.BaseCurrency
	if !d.FXRequired {
		d.FXRate = nil
		d.FXProvider = ""
		d.AmountBaseCurrency = nil
	}
}
