// Package parser extracts an expense draft's raw fields from a free-form
// chat message: amount, currency, payment method, purchase date, installment
// hints and merchant/category hints.
package parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/molvera/gastobot/internal/domain"
)

// DefaultCurrency is assumed when no ISO code appears in the text.
const DefaultCurrency = "MXN"

// DefaultCategory is the advisory fallback; categorization never errors.
const DefaultCategory = "Other"

// KeywordRule maps a normalized keyword to a merchant and/or category hint.
// Rules are ordered; the first match wins.
type KeywordRule struct {
	Keyword  string `yaml:"keyword"`
	Merchant string `yaml:"merchant"`
	Category string `yaml:"category"`
}

var (
	isoDateRe     = regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})\b`)
	amountTokenRe = regexp.MustCompile(`\$?\d[\d.,]*`)
	looseAmountRe = regexp.MustCompile(`\d+(?:\.\d+)?`)
	currencyTokRe = regexp.MustCompile(`\b[A-Za-z]{3}\b`)
	wordRe        = regexp.MustCompile(`[a-z0-9]+`)

	// The months capture only counts when the 1-2 digit number shares the
	// token window with the MSI marker.
	msiMonthsRe = regexp.MustCompile(`(?i)\b(\d{1,2})\s*(?:msi\b|meses\s+sin\s+intereses)`)
	msiMarkerRe = regexp.MustCompile(`(?i)\bmsi\b|meses\s+sin\s+intereses`)

	twoDaysAgoRe = regexp.MustCompile(`\b(antier|anteayer)\b`)
	yesterdayRe  = regexp.MustCompile(`\bayer\b`)
	todayRe      = regexp.MustCompile(`\bhoy\b`)
)

// foldReplacer strips the Spanish diacritics that show up in chat text.
var foldReplacer = strings.NewReplacer(
	"á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u", "ü", "u", "ñ", "n",
	"Á", "a", "É", "e", "Í", "i", "Ó", "o", "Ú", "u", "Ü", "u", "Ñ", "n",
)

// Fold lowercases text and strips diacritics for keyword matching.
func Fold(s string) string {
	return foldReplacer.Replace(strings.ToLower(s))
}

// Parser turns raw text into a ParsedExpense. It is a total function: it
// never fails, it only leaves fields unresolved.
type Parser struct {
	methods  []string
	keywords []KeywordRule
	loc      *time.Location
	now      func() time.Time
}

// Options configures a Parser. Methods and Keywords are deployment
// configuration, not constants.
type Options struct {
	// Methods is the payment-method allow-list, canonical spellings.
	Methods []string
	// Keywords are ordered merchant/category hint rules.
	Keywords []KeywordRule
	// Location fixes "today" for relative date words. Defaults to
	// America/Mexico_City so server UTC time never drifts the day.
	Location *time.Location
	// Now overrides the clock, for tests.
	Now func() time.Time
}

// New builds a Parser.
func New(opts Options) *Parser {
	loc := opts.Location
	if loc == nil {
		var err error
		loc, err = time.LoadLocation("America/Mexico_City")
		if err != nil {
			loc = time.FixedZone("CST", -6*60*60)
		}
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Parser{
		methods:  opts.Methods,
		keywords: opts.Keywords,
		loc:      loc,
		now:      now,
	}
}

// Parse extracts every field it can from the message. Unresolved fields keep
// their zero/default values: nil amount, MXN currency, empty method, "Other"
// category.
func (p *Parser) Parse(text string) domain.ParsedExpense {
	pe := domain.ParsedExpense{
		Currency: DefaultCurrency,
		Category: DefaultCategory,
	}

	pe.PurchaseDate = p.resolveDate(text)

	// Explicit dates are stripped before the amount scan so "2024-05-02"
	// can never be read as an amount.
	scanText := isoDateRe.ReplaceAllString(text, " ")

	pe.Amount, pe.Meta = extractAmount(scanText)

	pe.Currency, pe.CurrencyExplicit = p.detectCurrency(scanText)

	pe.PaymentMethod, pe.AmexAmbiguous = p.matchPaymentMethod(text)

	p.detectMSI(scanText, &pe)

	folded := Fold(scanText)
	pe.Merchant, pe.Category = p.matchKeywords(folded)

	pe.Description = p.buildDescription(scanText)

	return pe
}

// extractAmount runs the primary token scan, then the loose fallback pass.
func extractAmount(text string) (*float64, domain.ParseMeta) {
	meta := domain.ParseMeta{}

	tokens := amountTokenRe.FindAllString(text, -1)
	var found *float64
	for _, tok := range tokens {
		v, ok := normalizeAmountToken(tok)
		if !ok || v <= 0 {
			continue
		}
		meta.AmountTokens = append(meta.AmountTokens, tok)
		meta.AmountCount++
		if found == nil {
			amount := v
			found = &amount
		}
	}
	if found != nil {
		return found, meta
	}

	// Loose secondary pass: first bare number anywhere.
	if tok := looseAmountRe.FindString(text); tok != "" {
		if v, err := strconv.ParseFloat(tok, 64); err == nil && v > 0 {
			meta.UsedFallback = true
			meta.AmountTokens = append(meta.AmountTokens, tok)
			meta.AmountCount++
			return &v, meta
		}
	}
	return nil, meta
}

// normalizeAmountToken resolves the locale-ambiguous separators: with both
// "." and "," present the comma is a thousands separator; a lone comma is a
// decimal mark only when exactly 2 digits follow it.
func normalizeAmountToken(tok string) (float64, bool) {
	s := strings.TrimPrefix(tok, "$")
	s = strings.TrimRight(s, ".,")
	if s == "" {
		return 0, false
	}

	hasDot := strings.Contains(s, ".")
	hasComma := strings.Contains(s, ",")
	switch {
	case hasDot && hasComma:
		s = strings.ReplaceAll(s, ",", "")
	case hasComma:
		last := strings.LastIndex(s, ",")
		decimals := len(s) - last - 1
		if decimals == 2 && strings.Count(s, ",") == 1 {
			s = s[:last] + "." + s[last+1:]
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func (p *Parser) detectCurrency(text string) (string, bool) {
	for _, tok := range currencyTokRe.FindAllString(text, -1) {
		code := strings.ToUpper(tok)
		if code == "MSI" {
			continue
		}
		if IsCurrencyCode(code) {
			return code, true
		}
	}
	return DefaultCurrency, false
}

// matchPaymentMethod does a case-insensitive substring match against the
// allow-list. When several methods match, the longest spelling wins, which
// disambiguates "Amex Aeromexico" from the bare brand "Amex". A bare brand
// word that is part of two or more allowed methods with no full match flags
// the parse as ambiguous.
func (p *Parser) matchPaymentMethod(text string) (string, bool) {
	folded := Fold(text)

	best := ""
	for _, m := range p.methods {
		if strings.Contains(folded, Fold(m)) && len(m) > len(best) {
			best = m
		}
	}
	if best != "" {
		return best, false
	}

	for _, word := range wordRe.FindAllString(folded, -1) {
		if len(word) < 3 {
			continue
		}
		hits := 0
		for _, m := range p.methods {
			if strings.Contains(Fold(m), word) {
				hits++
			}
		}
		if hits >= 2 {
			return "", true
		}
	}
	return "", false
}

// resolveDate applies the precedence: explicit ISO date > antier > ayer >
// hoy > nothing. "Today" is computed in the parser's fixed location, never
// in server time.
func (p *Parser) resolveDate(text string) string {
	if m := isoDateRe.FindString(text); m != "" {
		if _, err := time.Parse("2006-01-02", m); err == nil {
			return m
		}
	}

	folded := Fold(text)
	switch {
	case twoDaysAgoRe.MatchString(folded):
		return p.localDate(-2)
	case yesterdayRe.MatchString(folded):
		return p.localDate(-1)
	case todayRe.MatchString(folded):
		return p.localDate(0)
	}
	return ""
}

func (p *Parser) localDate(daysAgo int) string {
	return p.now().In(p.loc).AddDate(0, 0, daysAgo).Format("2006-01-02")
}

// detectMSI flags installment intent. The amount found in the text is the
// purchase total, never a monthly figure; months are captured only when a
// 1-2 digit number co-occurs with the marker and lands in (1,60].
func (p *Parser) detectMSI(text string, pe *domain.ParsedExpense) {
	if !msiMarkerRe.MatchString(text) {
		return
	}
	pe.IsMSI = true
	if pe.Amount != nil {
		total := *pe.Amount
		pe.MSITotalAmount = &total
	}

	if m := msiMonthsRe.FindStringSubmatch(text); m != nil {
		months, err := strconv.Atoi(m[1])
		if err == nil && months > 1 && months <= 60 {
			pe.MSIMonths = &months
		}
	}
}

func (p *Parser) matchKeywords(folded string) (merchant, category string) {
	category = DefaultCategory
	merchantSet, categorySet := false, false
	for _, rule := range p.keywords {
		if rule.Keyword == "" || !strings.Contains(folded, Fold(rule.Keyword)) {
			continue
		}
		if !merchantSet && rule.Merchant != "" {
			merchant = rule.Merchant
			merchantSet = true
		}
		if !categorySet && rule.Category != "" {
			category = rule.Category
			categorySet = true
		}
		if merchantSet && categorySet {
			break
		}
	}
	return merchant, category
}

// buildDescription is the leftover text once amounts, installment markers
// and the matched payment method are removed.
func (p *Parser) buildDescription(text string) string {
	s := amountTokenRe.ReplaceAllString(text, " ")
	s = msiMarkerRe.ReplaceAllString(s, " ")

	for _, m := range p.methods {
		re := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(m))
		s = re.ReplaceAllString(s, " ")
	}

	fields := strings.Fields(s)
	kept := fields[:0]
	for _, f := range fields {
		up := strings.ToUpper(f)
		if IsCurrencyCode(up) {
			continue
		}
		lower := Fold(f)
		if lower == "hoy" || lower == "ayer" || lower == "antier" || lower == "anteayer" {
			continue
		}
		kept = append(kept, f)
	}
	return strings.Join(kept, " ")
}
