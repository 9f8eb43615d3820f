package store

import (
	"context"
	"errors"
	"time"

	"github.com/molvera/gastobot/internal/domain"
)

// ErrNotFound is returned when a lookup misses. Callers treat a missing
// draft as "no conversation in progress", not as a failure.
var ErrNotFound = errors.New("store: not found")

// DraftStore holds at most one active draft per conversation. Saving a new
// draft for a conversation replaces whatever was there.
// This abstraction allows for different backing stores (in-memory, Redis, Firestore).
type DraftStore interface {
	// SaveDraft saves or replaces the conversation's active draft.
	SaveDraft(ctx context.Context, draft *domain.Draft) error

	// GetDraft retrieves the active draft for a conversation.
	// Expired drafts are reported as ErrNotFound.
	GetDraft(ctx context.Context, conversationID string) (*domain.Draft, error)

	// DeleteDraft removes the conversation's active draft, if any.
	DeleteDraft(ctx context.Context, conversationID string) error
}

// TripEvent is one entry in a conversation's trip log. The log is
// append-only; the latest event wins.
type TripEvent struct {
	ConversationID string      `json:"conversation_id"`
	Trip           domain.Trip `json:"trip"`

	// Closed marks the end of a trip rather than the start of one.
	Closed bool `json:"closed"`

	At time.Time `json:"at"`
}

// TripStore tracks which trip, if any, is currently open per conversation.
type TripStore interface {
	// AppendTripEvent records a trip start or end.
	AppendTripEvent(ctx context.Context, ev TripEvent) error

	// ActiveTrip returns the conversation's open trip, or ErrNotFound when
	// no trip is open.
	ActiveTrip(ctx context.Context, conversationID string) (*domain.Trip, error)
}

// CardRuleStore resolves billing rules by card name.
type CardRuleStore interface {
	// RuleFor returns the billing rule for a card. An unknown or inactive
	// card is ErrNotFound; expenses on such cards still record, they just
	// get no statement attribution.
	RuleFor(ctx context.Context, cardName string) (domain.CardBillingRule, error)

	// ActiveRules lists every active rule, for reports.
	ActiveRules(ctx context.Context) ([]domain.CardBillingRule, error)
}
