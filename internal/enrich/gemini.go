package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// Gemini is a Suggester backed by a Gemini model.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini creates a model-backed suggester. The API key comes from the
// environment (GEMINI_API_KEY), as the genai client reads it itself.
func NewGemini(ctx context.Context, model string) (*Gemini, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("NewGemini: create genai client: %w", err)
	}
	return &Gemini{client: client, model: model}, nil
}

// Suggest implements the Suggester interface. It asks the model for a
// single JSON object; anything unparseable is an error the caller ignores.
func (g *Gemini) Suggest(ctx context.Context, text string, categories []string) (Suggestion, error) {
	prompt := "You classify personal expense messages written in Spanish.\n\n" +
		"Task:\n" +
		"- Read the expense message below.\n" +
		"- Output STRICT JSON only (no comments, no extra text).\n" +
		"- Output a single JSON object with these fields:\n" +
		"  - \"merchant\": string, the merchant name, or \"\" if unclear\n" +
		"  - \"category\": string, one of the predefined categories, or \"\" if unclear\n\n" +
		"Predefined categories: " + strings.Join(categories, ", ") + "\n\n" +
		"Return ONLY valid raw JSON.\n" +
		"Do NOT wrap the response in code fences.\n" +
		"Output must begin with \"{\" and end with \"}\".\n\n" +
		"Message: " + text

	contents := []*genai.Content{
		{
			Role:  "user",
			Parts: []*genai.Part{{Text: prompt}},
		},
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return Suggestion{}, fmt.Errorf("Suggest: generate content: %w", err)
	}

	rawText := resp.Text()
	if rawText == "" {
		return Suggestion{}, fmt.Errorf("Suggest: empty response from model")
	}

	var sg Suggestion
	if err := json.Unmarshal([]byte(cleanModelJSON(rawText)), &sg); err != nil {
		return Suggestion{}, fmt.Errorf("Suggest: unmarshal JSON: %w", err)
	}
	return sg, nil
}

// cleanModelJSON strips Markdown fences and surrounding junk when the model
// ignores the raw-JSON instruction.
func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			return s
		}
		s = strings.TrimSpace(s)
	}
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}
	s = strings.TrimSpace(s)

	if start := strings.Index(s, "{"); start != -1 {
		if end := strings.LastIndex(s, "}"); end != -1 && end > start {
			s = strings.TrimSpace(s[start : end+1])
		}
	}
	return s
}

var _ Suggester = (*Gemini)(nil)
