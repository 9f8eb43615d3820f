// Package enrich suggests a merchant and category for expenses the keyword
// rules did not classify.
package enrich

import (
	"context"
	"strings"

	"github.com/molvera/gastobot/internal/domain"
)

// Suggestion is an enrichment result. Empty fields mean no opinion; the
// draft's existing values stand.
type Suggestion struct {
	Merchant string `json:"merchant"`
	Category string `json:"category"`
}

// Suggester proposes merchant/category for a raw expense message.
// Implementations must be safe to skip: a failed suggestion never blocks
// the draft flow.
type Suggester interface {
	Suggest(ctx context.Context, text string, categories []string) (Suggestion, error)
}

// Static is a Suggester backed by the same keyword table the parser uses.
// It is the fallback when no model is configured.
type Static struct {
	rules []Rule
}

// Rule maps a folded keyword to a merchant and category.
type Rule struct {
	Keyword  string
	Merchant string
	Category string
}

// NewStatic builds a static suggester. Rules are checked in order; the
// first keyword contained in the text wins per facet.
func NewStatic(rules []Rule) *Static {
	return &Static{rules: rules}
}

// Suggest implements the Suggester interface.
func (s *Static) Suggest(ctx context.Context, text string, categories []string) (Suggestion, error) {
	folded := strings.ToLower(text)
	var out Suggestion
	for _, r := range s.rules {
		if !strings.Contains(folded, strings.ToLower(r.Keyword)) {
			continue
		}
		if out.Merchant == "" {
			out.Merchant = r.Merchant
		}
		if out.Category == "" {
			out.Category = r.Category
		}
		if out.Merchant != "" && out.Category != "" {
			break
		}
	}
	return out, nil
}

// ApplySuggestion fills a draft's merchant and category from a suggestion
// without overwriting what the parser already found.
func ApplySuggestion(d *domain.Draft, sg Suggestion) {
	if d.Merchant == "" && sg.Merchant != "" {
		d.Merchant = sg.Merchant
	}
	if (d.Category == "" || d.Category == "Other") && sg.Category != "" {
		d.Category = sg.Category
	}
}

var _ Suggester = (*Static)(nil)
