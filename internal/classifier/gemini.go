package classifier

import (
	"context"
	"fmt"
	"strings"

	genai "google.golang.org/genai"
)

// DefaultGeminiModel is used when no model is configured.
const DefaultGeminiModel = "gemini-2.5-flash"

// contentGenerator is the part of *genai.Models the backend needs.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Gemini asks a Gemini model to act as a zero-shot classifier and answer
// with a JSON ranking.
type Gemini struct {
	models contentGenerator
	model  string
}

// NewGemini creates a Gemini backend using the Gemini API.
func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini: %w: no API key", ErrUnavailable)
	}
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	return newGemini(cli.Models, model), nil
}

func newGemini(models contentGenerator, model string) *Gemini {
	if model == "" {
		model = DefaultGeminiModel
	}
	return &Gemini{models: models, model: model}
}

func (g *Gemini) Name() string { return "gemini:" + g.model }

// Classify sends the prompt and labels and parses the JSON ranking.
func (g *Gemini) Classify(ctx context.Context, prompt string, labels []Label) (Ranking, error) {
	full := geminiInstructions(labels) + "\n\n[TEXT]\n" + prompt

	resp, err := g.models.GenerateContent(ctx, g.model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: full}}}},
		&genai.GenerateContentConfig{ResponseMIMEType: "application/json"},
	)
	if err != nil {
		return nil, fmt.Errorf("gemini generate: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil ||
		len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("%w: empty candidate list", ErrBadResponse)
	}

	txt := stripCodeFence(resp.Candidates[0].Content.Parts[0].Text)
	return parseRanking([]byte(txt), labels)
}

func geminiInstructions(labels []Label) string {
	names := make([]string, len(labels))
	for i, l := range labels {
		names[i] = `"` + string(l) + `"`
	}
	return "You are a zero-shot text classifier. Score how well the text matches each candidate label.\n" +
		"Candidate labels: [" + strings.Join(names, ", ") + "].\n" +
		`Respond with JSON only: {"labels": [...], "scores": [...]} listing every candidate label once, ` +
		"with scores between 0 and 1 that sum to 1."
}

// stripCodeFence removes a ```json ... ``` wrapper some models add despite
// the JSON response type.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
