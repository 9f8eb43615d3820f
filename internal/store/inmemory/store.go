// Package inmemory provides in-memory implementations of the store
// interfaces. Data is lost on restart - for persistence, use a
// database-backed store.
package inmemory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/molvera/gastobot/internal/domain"
	"github.com/molvera/gastobot/internal/store"
)

// DefaultDraftTTL is how long an unconfirmed draft survives before a
// lookup treats it as abandoned.
const DefaultDraftTTL = 30 * time.Minute

// DraftStore is an in-memory implementation of store.DraftStore.
// It is safe for concurrent use.
type DraftStore struct {
	mu     sync.RWMutex
	drafts map[string]draftEntry
	ttl    time.Duration
	now    func() time.Time
}

type draftEntry struct {
	draft   *domain.Draft
	savedAt time.Time
}

// NewDraftStore creates a new in-memory draft store. A non-positive ttl
// falls back to DefaultDraftTTL.
func NewDraftStore(ttl time.Duration) *DraftStore {
	if ttl <= 0 {
		ttl = DefaultDraftTTL
	}
	return &DraftStore{
		drafts: make(map[string]draftEntry),
		ttl:    ttl,
		now:    time.Now,
	}
}

// SaveDraft implements the DraftStore interface.
func (s *DraftStore) SaveDraft(ctx context.Context, draft *domain.Draft) error {
	if draft == nil || draft.ConversationID == "" {
		return fmt.Errorf("SaveDraft: conversation ID is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.drafts[draft.ConversationID] = draftEntry{
		draft:   draft.Clone(),
		savedAt: s.now(),
	}
	return nil
}

// GetDraft implements the DraftStore interface. Expired entries are
// dropped on read.
func (s *DraftStore) GetDraft(ctx context.Context, conversationID string) (*domain.Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, exists := s.drafts[conversationID]
	if !exists {
		return nil, store.ErrNotFound
	}
	if s.now().Sub(entry.savedAt) > s.ttl {
		delete(s.drafts, conversationID)
		return nil, store.ErrNotFound
	}
	return entry.draft.Clone(), nil
}

// DeleteDraft implements the DraftStore interface.
func (s *DraftStore) DeleteDraft(ctx context.Context, conversationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.drafts, conversationID)
	return nil
}

// TripStore is an in-memory append-only trip log.
type TripStore struct {
	mu     sync.RWMutex
	events map[string][]store.TripEvent
}

// NewTripStore creates a new in-memory trip store.
func NewTripStore() *TripStore {
	return &TripStore{events: make(map[string][]store.TripEvent)}
}

// AppendTripEvent implements the TripStore interface.
func (s *TripStore) AppendTripEvent(ctx context.Context, ev store.TripEvent) error {
	if ev.ConversationID == "" {
		return fmt.Errorf("AppendTripEvent: conversation ID is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.events[ev.ConversationID] = append(s.events[ev.ConversationID], ev)
	return nil
}

// ActiveTrip implements the TripStore interface. The last event wins: a
// closing event after a start means no trip is open.
func (s *TripStore) ActiveTrip(ctx context.Context, conversationID string) (*domain.Trip, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	log := s.events[conversationID]
	if len(log) == 0 {
		return nil, store.ErrNotFound
	}
	last := log[len(log)-1]
	if last.Closed {
		return nil, store.ErrNotFound
	}
	trip := last.Trip
	return &trip, nil
}

// CardRuleStore is an in-memory implementation of store.CardRuleStore,
// loaded once from config.
type CardRuleStore struct {
	mu    sync.RWMutex
	rules map[string]domain.CardBillingRule
}

// NewCardRuleStore creates a card rule store from a rule list. Card names
// are matched case-insensitively.
func NewCardRuleStore(rules []domain.CardBillingRule) *CardRuleStore {
	s := &CardRuleStore{rules: make(map[string]domain.CardBillingRule, len(rules))}
	for _, r := range rules {
		s.rules[strings.ToLower(r.CardName)] = r
	}
	return s
}

// RuleFor implements the CardRuleStore interface.
func (s *CardRuleStore) RuleFor(ctx context.Context, cardName string) (domain.CardBillingRule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rule, exists := s.rules[strings.ToLower(strings.TrimSpace(cardName))]
	if !exists || !rule.Active {
		return domain.CardBillingRule{}, store.ErrNotFound
	}
	return rule, nil
}

// ActiveRules implements the CardRuleStore interface.
func (s *CardRuleStore) ActiveRules(ctx context.Context) ([]domain.CardBillingRule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.CardBillingRule
	for _, r := range s.rules {
		if r.Active {
			out = append(out, r)
		}
	}
	return out, nil
}

// Ensure the in-memory stores implement the store interfaces.
var (
	_ store.DraftStore    = (*DraftStore)(nil)
	_ store.TripStore     = (*TripStore)(nil)
	_ store.CardRuleStore = (*CardRuleStore)(nil)
)
