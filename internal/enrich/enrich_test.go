package enrich

import (
	"context"
	"testing"

	"github.com/molvera/gastobot/internal/domain"
)

func TestStatic_Suggest(t *testing.T) {
	s := NewStatic([]Rule{
		{Keyword: "uber eats", Merchant: "Uber Eats", Category: "Food"},
		{Keyword: "uber", Merchant: "Uber", Category: "Transport"},
		{Keyword: "oxxo", Merchant: "OXXO", Category: "Groceries"},
	})

	tests := []struct {
		text         string
		wantMerchant string
		wantCategory string
	}{
		{"230 uber eats comida", "Uber Eats", "Food"},
		{"80 Uber al centro", "Uber", "Transport"},
		{"45 oxxo", "OXXO", "Groceries"},
		{"120 farmacia", "", ""},
	}
	for _, tt := range tests {
		got, err := s.Suggest(context.Background(), tt.text, nil)
		if err != nil {
			t.Fatalf("Suggest(%q) error = %v", tt.text, err)
		}
		if got.Merchant != tt.wantMerchant || got.Category != tt.wantCategory {
			t.Errorf("Suggest(%q) = %+v, want %s/%s", tt.text, got, tt.wantMerchant, tt.wantCategory)
		}
	}
}

func TestApplySuggestion(t *testing.T) {
	d := &domain.Draft{Merchant: "Gasolinera Shell", Category: "Other"}
	ApplySuggestion(d, Suggestion{Merchant: "Pemex", Category: "Gas"})

	if d.Merchant != "Gasolinera Shell" {
		t.Errorf("Merchant = %q: parser result must not be overwritten", d.Merchant)
	}
	if d.Category != "Gas" {
		t.Errorf("Category = %q: Other is replaceable", d.Category)
	}

	d2 := &domain.Draft{}
	ApplySuggestion(d2, Suggestion{Merchant: "Pemex"})
	if d2.Merchant != "Pemex" || d2.Category != "" {
		t.Errorf("draft = %+v", d2)
	}
}

func TestCleanModelJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `{"merchant":"OXXO","category":"Groceries"}`, `{"merchant":"OXXO","category":"Groceries"}`},
		{"fenced", "```json\n{\"merchant\":\"OXXO\"}\n```", `{"merchant":"OXXO"}`},
		{"chatty", "Sure! Here you go:\n{\"merchant\":\"OXXO\"}\nHope that helps.", `{"merchant":"OXXO"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cleanModelJSON(tt.in); got != tt.want {
				t.Errorf("cleanModelJSON() = %q, want %q", got, tt.want)
			}
		})
	}
}
