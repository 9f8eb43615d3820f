// Package draft builds and mutates expense drafts across conversation turns:
// one parse becomes a draft, then a short sequence of actions walks it to
// ready-to-confirm.
package draft

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/molvera/gastobot/internal/domain"
	"github.com/molvera/gastobot/internal/msi"
)

// msiHintRe catches installment intent straight from the raw text, covering
// messages like "a msi" where the parser found no amount to attach it to.
var msiHintRe = regexp.MustCompile(`(?i)\bmsi\b|meses\s+sin\s+intereses`)

// Lifecycle orchestrates draft construction and mutation. It is stateless;
// drafts live in the caller's store.
type Lifecycle struct {
	methods []string
	loc     *time.Location
	now     func() time.Time
}

// Config wires the lifecycle's allow-list and clock.
type Config struct {
	// Methods is the payment-method allow-list shared with the parser.
	Methods []string
	// Location fixes "today" when a message carries no date hint.
	Location *time.Location
	// Now overrides the clock, for tests.
	Now func() time.Time
}

// NewLifecycle builds a Lifecycle.
func NewLifecycle(cfg Config) *Lifecycle {
	loc := cfg.Location
	if loc == nil {
		var err error
		loc, err = time.LoadLocation("America/Mexico_City")
		if err != nil {
			loc = time.FixedZone("CST", -6*60*60)
		}
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Lifecycle{methods: cfg.Methods, loc: loc, now: now}
}

// CreateInput carries the conversation context of a new draft.
type CreateInput struct {
	ConversationID string
	Text           string
	ActiveTrip     *domain.Trip
}

// CreateDraft turns one parse into a draft. wantsMSI reports that the months
// clarification turn is needed before anything else. A validation error is
// returned together with the draft so the caller can re-prompt without
// losing the parsed fields.
func (l *Lifecycle) CreateDraft(pe domain.ParsedExpense, in CreateInput) (d *domain.Draft, wantsMSI bool, err error) {
	d = &domain.Draft{
		ID:             uuid.NewString(),
		ConversationID: in.ConversationID,
		RawText:        in.Text,
		CreatedAt:      l.now(),

		Amount:           clone(pe.Amount),
		Currency:         pe.Currency,
		CurrencyExplicit: pe.CurrencyExplicit,

		IsMSI:          pe.IsMSI || msiHintRe.MatchString(in.Text),
		MSIMonths:      clone(pe.MSIMonths),
		MSITotalAmount: clone(pe.MSITotalAmount),
		AmexAmbiguous:  pe.AmexAmbiguous,

		Merchant:    pe.Merchant,
		Category:    pe.Category,
		Description: pe.Description,
	}
	if d.Category == "" {
		d.Category = "Other"
	}

	// Relative/explicit dates were resolved at parse time; an absent hint
	// means today. Explicit dates always win and already won inside the
	// parser.
	d.PurchaseDate = pe.PurchaseDate
	if d.PurchaseDate == "" {
		d.PurchaseDate = l.now().In(l.loc).Format("2006-01-02")
	}

	// The payment method is always re-asked, even when the parser matched
	// one. Deliberate: a matched method is a hint, not consent.
	d.PaymentMethod = ""

	ResolveCurrency(d, in.ActiveTrip)

	if verr := l.Validate(d); verr != nil {
		d.State = nextState(d)
		return d, false, verr
	}

	switch {
	case d.IsMSI && d.MSIMonths == nil:
		// Stop here: amortizing before the months are known would turn
		// the total into a bogus monthly figure.
		wantsMSI = true
	case d.IsMSI:
		l.amortize(d)
	default:
		d.MSIMonths = nil
		d.MSITotalAmount = nil
	}

	d.State = nextState(d)
	return d, wantsMSI, nil
}

// Apply mutates a draft with one action. The returned draft is a copy; the
// input is never modified. canceled reports that the draft was discarded.
// Validation failures return the unchanged draft alongside the error.
func (l *Lifecycle) Apply(d *domain.Draft, action domain.Action) (out *domain.Draft, canceled bool, err error) {
	if d == nil {
		return nil, false, domain.ErrNoDraft
	}

	switch a := action.(type) {
	case domain.SelectPaymentMethod:
		if err := l.checkMethod(a.Method); err != nil {
			return d, false, err
		}
		out = d.Clone()
		out.PaymentMethod = canonicalMethod(l.methods, a.Method)
		out.AmexAmbiguous = false
		// A draft that failed creation-time validation can still sit in the
		// method turn; selecting a method must not march it to ready with,
		// say, no amount. Re-prompt instead.
		if err := l.Validate(out); err != nil {
			return d, false, err
		}
		out.State = nextState(out)
		return out, false, nil

	case domain.ToggleTripInclude:
		out = d.Clone()
		applyTripToggle(out, a.Include)
		out.State = nextState(out)
		return out, false, nil

	case domain.EditField:
		out = d.Clone()
		if err := editField(out, a.Field, a.Value); err != nil {
			return d, false, err
		}
		return out, false, nil

	case domain.SetMSIMonths:
		if !msi.MonthsValid(a.Months) {
			return d, false, domain.ErrInvalidMSIMonths
		}
		out = d.Clone()
		out.IsMSI = true
		months := a.Months
		out.MSIMonths = &months
		// The total is whatever msi_total_amount already holds; only
		// when it is absent does the current amount stand in. A stale
		// monthly figure is never multiplied back into a total.
		if out.MSITotalAmount == nil || *out.MSITotalAmount <= 0 {
			if out.Amount == nil || *out.Amount <= 0 {
				return d, false, domain.ErrInvalidAmount
			}
			out.MSITotalAmount = clone(out.Amount)
		}
		l.amortize(out)
		out.State = nextState(out)
		return out, false, nil

	case domain.Cancel:
		return nil, true, nil

	default:
		return d, false, domain.ErrUnknownAction
	}
}

// Validate runs every check except the payment method, which has its own
// turn. Errors are user-facing and recoverable.
func (l *Lifecycle) Validate(d *domain.Draft) error {
	if d.IsMSI {
		total := d.MSITotalAmount
		if total == nil {
			total = d.Amount
		}
		if total == nil || *total <= 0 {
			return domain.ErrInvalidAmount
		}
	} else if d.Amount == nil || *d.Amount <= 0 {
		return domain.ErrInvalidAmount
	}

	if _, err := time.Parse("2006-01-02", d.PurchaseDate); err != nil {
		return domain.ErrInvalidDate
	}
	return nil
}

// ValidateForConfirm gates the final confirm step.
func (l *Lifecycle) ValidateForConfirm(d *domain.Draft) error {
	if err := l.Validate(d); err != nil {
		return err
	}
	if d.IsMSI && d.MSIMonths == nil {
		return domain.ErrInvalidMSIMonths
	}
	if err := l.checkMethod(d.PaymentMethod); err != nil {
		return err
	}
	return nil
}

func (l *Lifecycle) amortize(d *domain.Draft) {
	if d.MSITotalAmount == nil || *d.MSITotalAmount <= 0 {
		d.MSITotalAmount = clone(d.Amount)
	}
	if d.MSITotalAmount == nil || d.MSIMonths == nil {
		return
	}
	monthly := msi.Amortize(*d.MSITotalAmount, *d.MSIMonths)
	d.Amount = &monthly
}

// nextState derives the string-tagged state from what the draft still
// needs: months first, then method, then ready.
func nextState(d *domain.Draft) domain.DraftState {
	switch {
	case d.IsMSI && d.MSIMonths == nil:
		return domain.StateAwaitingMSIMonths
	case d.PaymentMethod == "":
		return domain.StateAwaitingPaymentMethod
	default:
		return domain.StateReadyToConfirm
	}
}

// checkMethod validates a method against the allow-list, distinguishing the
// ambiguous bare brand from a plainly unknown string.
func (l *Lifecycle) checkMethod(method string) error {
	if method == "" {
		return domain.ErrInvalidPaymentMethod
	}
	folded := strings.ToLower(strings.TrimSpace(method))

	hits := 0
	for _, m := range l.methods {
		lm := strings.ToLower(m)
		if lm == folded {
			return nil
		}
		if strings.Contains(lm, folded) {
			hits++
		}
	}
	if hits >= 2 {
		return domain.ErrAmbiguousPaymentMethod
	}
	if hits == 1 {
		return nil
	}
	return domain.ErrInvalidPaymentMethod
}

// canonicalMethod maps an accepted method string back to its allow-list
// spelling.
func canonicalMethod(methods []string, method string) string {
	folded := strings.ToLower(strings.TrimSpace(method))
	for _, m := range methods {
		if strings.ToLower(m) == folded {
			return m
		}
	}
	for _, m := range methods {
		if strings.Contains(strings.ToLower(m), folded) {
			return m
		}
	}
	return method
}

func clone[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
