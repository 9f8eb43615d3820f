// Package bot drives the expense conversation: free-form messages in,
// prompts and confirmations out.
package bot

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/molvera/gastobot/internal/billing"
	"github.com/molvera/gastobot/internal/domain"
	"github.com/molvera/gastobot/internal/draft"
	"github.com/molvera/gastobot/internal/enrich"
	"github.com/molvera/gastobot/internal/fx"
	"github.com/molvera/gastobot/internal/parser"
	"github.com/molvera/gastobot/internal/recorder"
	"github.com/molvera/gastobot/internal/report"
	"github.com/molvera/gastobot/internal/store"
)

var (
	// Keys are folded forms: replies are run through parser.Fold first, so
	// "sí" and "olvídalo" arrive as "si" and "olvidalo".
	confirmWords = map[string]bool{"si": true, "ok": true, "confirmar": true, "listo": true, "dale": true}
	cancelWords  = map[string]bool{"no": true, "cancelar": true, "cancela": true, "olvidalo": true}
	// The whole first number in the reply counts; truncating "500" to "50"
	// would silently accept an answer the user never gave.
	monthsRe = regexp.MustCompile(`\d+`)
)

// Deps wires the handler's collaborators.
type Deps struct {
	Parser    *parser.Parser
	Lifecycle *draft.Lifecycle
	Drafts    store.DraftStore
	Trips     store.TripStore
	Recorder  recorder.Recorder
	Rates     fx.RateSource
	Suggester enrich.Suggester // nil disables enrichment
	Reports   *report.Builder

	Categories []string
	Location   *time.Location
	Now        func() time.Time
	Log        zerolog.Logger
}

// Handler owns one turn of the conversation at a time. It is not safe for
// concurrent calls on the same conversation; the caller serializes turns.
type Handler struct {
	deps Deps
}

// NewHandler creates a conversation handler.
func NewHandler(deps Deps) *Handler {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Location == nil {
		deps.Location = time.UTC
	}
	return &Handler{deps: deps}
}

// HandleMessage processes one user message and returns the reply. Business
// errors become replies; only infrastructure failures surface as errors.
func (h *Handler) HandleMessage(ctx context.Context, conversationID, text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "Cuéntame un gasto, p.ej. \"230 Uber ayer\".", nil
	}
	if strings.HasPrefix(trimmed, "/") {
		return h.handleCommand(ctx, conversationID, trimmed)
	}

	d, err := h.deps.Drafts.GetDraft(ctx, conversationID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return h.newExpense(ctx, conversationID, trimmed)
	case err != nil:
		return "", fmt.Errorf("HandleMessage: loading draft: %w", err)
	default:
		return h.continueDraft(ctx, d, trimmed)
	}
}

func (h *Handler) newExpense(ctx context.Context, conversationID, text string) (string, error) {
	activeTrip, err := h.deps.Trips.ActiveTrip(ctx, conversationID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return "", fmt.Errorf("newExpense: loading trip: %w", err)
	}

	pe := h.deps.Parser.Parse(text)
	d, _, cerr := h.deps.Lifecycle.CreateDraft(pe, draft.CreateInput{
		ConversationID: conversationID,
		Text:           text,
		ActiveTrip:     activeTrip,
	})

	h.enrichDraft(ctx, d, text)

	// Validation failures keep the draft alive so the user can edit
	// instead of retyping everything.
	if err := h.deps.Drafts.SaveDraft(ctx, d); err != nil {
		return "", fmt.Errorf("newExpense: saving draft: %w", err)
	}
	if cerr != nil {
		return cerr.Error(), nil
	}
	return h.promptFor(d), nil
}

func (h *Handler) continueDraft(ctx context.Context, d *domain.Draft, text string) (string, error) {
	folded := parser.Fold(text)

	if cancelWords[folded] {
		return h.applyAndReply(ctx, d, domain.Cancel{})
	}
	switch folded {
	case "sin viaje":
		return h.applyAndReply(ctx, d, domain.ToggleTripInclude{Include: false})
	case "con viaje":
		return h.applyAndReply(ctx, d, domain.ToggleTripInclude{Include: true})
	}
	if field, value, ok := parseEdit(text); ok {
		return h.applyAndReply(ctx, d, domain.EditField{Field: field, Value: value})
	}

	switch d.State {
	case domain.StateAwaitingMSIMonths:
		tok := monthsRe.FindString(text)
		if tok == "" {
			return "¿A cuántos meses sin intereses? Responde con un número.", nil
		}
		months, err := strconv.Atoi(tok)
		if err != nil {
			return domain.ErrInvalidMSIMonths.Error(), nil
		}
		return h.applyAndReply(ctx, d, domain.SetMSIMonths{Months: months})

	case domain.StateAwaitingPaymentMethod:
		return h.applyAndReply(ctx, d, domain.SelectPaymentMethod{Method: text})

	case domain.StateReadyToConfirm:
		if confirmWords[folded] {
			return h.confirm(ctx, d)
		}
		return h.promptFor(d), nil

	default:
		return h.promptFor(d), nil
	}
}

func (h *Handler) applyAndReply(ctx context.Context, d *domain.Draft, action domain.Action) (string, error) {
	out, canceled, err := h.deps.Lifecycle.Apply(d, action)
	if err != nil {
		if isBusinessError(err) {
			return err.Error(), nil
		}
		return "", fmt.Errorf("applyAndReply: %w", err)
	}
	if canceled {
		if err := h.deps.Drafts.DeleteDraft(ctx, d.ConversationID); err != nil {
			return "", fmt.Errorf("applyAndReply: deleting draft: %w", err)
		}
		return "Listo, gasto descartado.", nil
	}
	if err := h.deps.Drafts.SaveDraft(ctx, out); err != nil {
		return "", fmt.Errorf("applyAndReply: saving draft: %w", err)
	}
	return h.promptFor(out), nil
}

// confirm runs the final validation, converts currency when needed, records
// the expense and closes the draft.
func (h *Handler) confirm(ctx context.Context, d *domain.Draft) (string, error) {
	if err := h.deps.Lifecycle.ValidateForConfirm(d); err != nil {
		return err.Error(), nil
	}

	rec := recordFromDraft(d)

	if d.FXRequired && h.deps.Rates != nil {
		rate, err := h.deps.Rates.RateFor(ctx, d.Currency, d.BaseCurrency)
		switch {
		case errors.Is(err, fx.ErrNoRate):
			h.deps.Log.Warn().Str("from", d.Currency).Str("to", d.BaseCurrency).
				Msg("no fx rate, recording unconverted")
		case err != nil:
			return "", fmt.Errorf("confirm: fx rate: %w", err)
		default:
			converted := fx.Convert(rec.Amount, rate)
			rec.AmountBase = &converted
			rec.FXRate = &rate.Value
			rec.FXProvider = rate.Provider
		}
	}

	if err := h.deps.Recorder.RecordExpense(ctx, rec); err != nil {
		return "", fmt.Errorf("confirm: recording expense: %w", err)
	}
	if err := h.deps.Drafts.DeleteDraft(ctx, d.ConversationID); err != nil {
		return "", fmt.Errorf("confirm: deleting draft: %w", err)
	}

	h.deps.Log.Info().Str("expense_id", rec.ExpenseID).
		Float64("amount", rec.Amount).Str("currency", rec.Currency).
		Str("method", rec.PaymentMethod).Msg("expense recorded")
	where := ""
	if rec.Merchant != "" {
		where = " en " + rec.Merchant
	}
	return fmt.Sprintf("Registrado: %s %s%s, pagado con %s.",
		formatAmount(rec.Amount), rec.Currency, where, rec.PaymentMethod), nil
}

func (h *Handler) enrichDraft(ctx context.Context, d *domain.Draft, text string) {
	if h.deps.Suggester == nil {
		return
	}
	if d.Merchant != "" && d.Category != "" && d.Category != "Other" {
		return
	}
	sg, err := h.deps.Suggester.Suggest(ctx, text, h.deps.Categories)
	if err != nil {
		h.deps.Log.Debug().Err(err).Msg("enrichment skipped")
		return
	}
	enrich.ApplySuggestion(d, sg)
}

func (h *Handler) handleCommand(ctx context.Context, conversationID, text string) (string, error) {
	fields := strings.Fields(text)
	switch fields[0] {
	case "/viaje":
		if len(fields) < 3 {
			return "Uso: /viaje <nombre> <moneda>, p.ej. /viaje NYC USD", nil
		}
		currency := strings.ToUpper(fields[len(fields)-1])
		if !parser.IsCurrencyCode(currency) {
			return fmt.Sprintf("%q no es un código de moneda.", fields[len(fields)-1]), nil
		}
		trip := domain.Trip{
			TripID:       uuid.NewString(),
			Name:         strings.Join(fields[1:len(fields)-1], " "),
			BaseCurrency: currency,
		}
		ev := store.TripEvent{ConversationID: conversationID, Trip: trip, At: h.deps.Now()}
		if err := h.deps.Trips.AppendTripEvent(ctx, ev); err != nil {
			return "", fmt.Errorf("handleCommand: starting trip: %w", err)
		}
		return fmt.Sprintf("Viaje %s abierto; gastos en %s hasta /finviaje.", trip.Name, currency), nil

	case "/finviaje":
		trip, err := h.deps.Trips.ActiveTrip(ctx, conversationID)
		if errors.Is(err, store.ErrNotFound) {
			return "No hay viaje abierto.", nil
		}
		if err != nil {
			return "", fmt.Errorf("handleCommand: loading trip: %w", err)
		}
		ev := store.TripEvent{ConversationID: conversationID, Trip: *trip, Closed: true, At: h.deps.Now()}
		if err := h.deps.Trips.AppendTripEvent(ctx, ev); err != nil {
			return "", fmt.Errorf("handleCommand: closing trip: %w", err)
		}
		return fmt.Sprintf("Viaje %s cerrado.", trip.Name), nil

	case "/cancelar":
		if err := h.deps.Drafts.DeleteDraft(ctx, conversationID); err != nil {
			return "", fmt.Errorf("handleCommand: deleting draft: %w", err)
		}
		return "Listo, gasto descartado.", nil

	case "/pagos":
		if h.deps.Reports == nil {
			return "Reportes no configurados.", nil
		}
		now := h.deps.Now().In(h.deps.Location)
		month := billing.Month{Year: now.Year(), Month: now.Month()}
		dues, err := h.deps.Reports.PaymentsDue(ctx, month)
		if err != nil {
			return "", fmt.Errorf("handleCommand: payments due: %w", err)
		}
		return report.Format(month, dues), nil

	default:
		return "Comandos: /viaje, /finviaje, /pagos, /cancelar", nil
	}
}

// parseEdit recognizes "editar <campo> <valor...>".
func parseEdit(text string) (field string, value string, ok bool) {
	fields := strings.Fields(text)
	if len(fields) < 3 || parser.Fold(fields[0]) != "editar" {
		return "", "", false
	}
	return strings.ToLower(fields[1]), strings.Join(fields[2:], " "), true
}

func recordFromDraft(d *domain.Draft) domain.ExpenseRecord {
	return domain.ExpenseRecord{
		ExpenseID:      d.ID,
		ConversationID: d.ConversationID,
		RawText:        d.RawText,
		Amount:         *d.Amount,
		Currency:       d.Currency,
		BaseCurrency:   d.BaseCurrency,
		PaymentMethod:  d.PaymentMethod,
		PurchaseDate:   d.PurchaseDate,
		Category:       d.Category,
		Merchant:       d.Merchant,
		Description:    d.Description,
		IsMSI:          d.IsMSI,
		MSIMonths:      d.MSIMonths,
		MSITotalAmount: d.MSITotalAmount,
		TripID:         d.TripID,
		TripName:       d.TripName,
	}
}

func isBusinessError(err error) bool {
	for _, known := range []error{
		domain.ErrInvalidAmount,
		domain.ErrInvalidMSIMonths,
		domain.ErrAmbiguousPaymentMethod,
		domain.ErrInvalidPaymentMethod,
		domain.ErrInvalidDate,
		domain.ErrUnknownAction,
		domain.ErrNoDraft,
	} {
		if errors.Is(err, known) {
			return true
		}
	}
	// editField errors are user-facing too.
	return strings.HasPrefix(err.Error(), "editField")
}
