// Package report builds the monthly payment-due summary across active
// cards.
package report

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/molvera/gastobot/internal/billing"
	"github.com/molvera/gastobot/internal/store"
)

// PaymentDue is one card's statement landing its payment in the report
// month.
type PaymentDue struct {
	CardName  string
	Statement billing.Statement
}

// Builder assembles payment-due reports from the card rule store.
type Builder struct {
	rules store.CardRuleStore
}

// NewBuilder creates a report builder.
func NewBuilder(rules store.CardRuleStore) *Builder {
	return &Builder{rules: rules}
}

// PaymentsDue lists, per active card, the statement whose payment falls in
// the target month, sorted by pay date then card name.
func (b *Builder) PaymentsDue(ctx context.Context, month billing.Month) ([]PaymentDue, error) {
	rules, err := b.rules.ActiveRules(ctx)
	if err != nil {
		return nil, fmt.Errorf("PaymentsDue: listing rules: %w", err)
	}

	dues := make([]PaymentDue, 0, len(rules))
	for _, rule := range rules {
		st := billing.ResolveStatementForPayMonth(month, rule.CutDay, rule.PayOffsetDays, rule.RollWeekendToMonday)
		dues = append(dues, PaymentDue{CardName: rule.CardName, Statement: st})
	}

	sort.Slice(dues, func(i, j int) bool {
		if dues[i].Statement.Pay != dues[j].Statement.Pay {
			return dues[i].Statement.Pay.Before(dues[j].Statement.Pay)
		}
		return dues[i].CardName < dues[j].CardName
	})
	return dues, nil
}

// Format renders a report as chat-ready text.
func Format(month billing.Month, dues []PaymentDue) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Pagos de %s\n", month)
	if len(dues) == 0 {
		sb.WriteString("Sin tarjetas activas.\n")
		return sb.String()
	}
	for _, due := range dues {
		fmt.Fprintf(&sb, "- %s: corte %s, pagar el %s\n",
			due.CardName, due.Statement.Cut, due.Statement.Pay)
	}
	return sb.String()
}
