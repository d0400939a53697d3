package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Sundramrai3691/Farm-Guru/internal/models"
	"github.com/Sundramrai3691/Farm-Guru/internal/types"
)

// SynthesizerConfig controls answer generation. DemoMode disables the
// remote generative tier entirely, forcing deterministic synthesis.
type SynthesizerConfig struct {
	DemoMode  bool
	MaxTokens int
}

// Synthesizer produces an answer from a query and retrieved documents. It
// never fails: when the remote tier is disabled, unavailable, or yields
// nothing, the deterministic tier answers instead.
type Synthesizer struct {
	config  SynthesizerConfig
	backend types.GenerativeBackend
	logger  *zap.Logger
}

func NewSynthesizer(config SynthesizerConfig, backend types.GenerativeBackend, log *zap.Logger) *Synthesizer {
	if config.MaxTokens == 0 {
		config.MaxTokens = 256
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Synthesizer{
		config:  config,
		backend: backend,
		logger:  log,
	}
}

// Synthesize builds an answer for the query. visualContext, when non-empty,
// describes an uploaded image and steers both answer and actions.
func (s *Synthesizer) Synthesize(ctx context.Context, query string, docs []models.Document, visualContext string) models.AnswerResponse {
	if !s.config.DemoMode && s.backend != nil && s.backend.Enabled() {
		if resp, ok := s.remoteAnswer(ctx, query, docs, visualContext); ok {
			return resp
		}
	}
	return s.deterministicAnswer(query, docs, visualContext)
}

// remoteAnswer asks the generative backend. The second return value is
// false whenever the deterministic tier should take over.
func (s *Synthesizer) remoteAnswer(ctx context.Context, query string, docs []models.Document, visualContext string) (models.AnswerResponse, bool) {
	prompt := BuildPrompt(query, docs, visualContext)

	text, err := s.backend.Complete(ctx, prompt, s.config.MaxTokens)
	if err != nil {
		s.logger.Warn("generative backend failed", zap.Error(err))
		return models.AnswerResponse{}, false
	}
	if strings.TrimSpace(text) == "" {
		return models.AnswerResponse{}, false
	}

	if resp, ok := parseStructured(text); ok {
		resp.Meta["mode"] = models.ModeAI
		return resp, true
	}

	// Not structured output: wrap the raw text verbatim.
	return models.AnswerResponse{
		Answer:     strings.TrimSpace(text),
		Confidence: 0.7,
		Actions:    []string{},
		Sources:    []models.Source{},
		Meta:       map[string]interface{}{"mode": models.ModeAI},
	}, true
}

// parseStructured accepts model output only when it is a JSON object
// carrying all required response fields. Anything else is rejected so the
// caller falls back to raw-text wrapping.
func parseStructured(text string) (models.AnswerResponse, bool) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return models.AnswerResponse{}, false
	}
	for _, field := range []string{"answer", "confidence", "actions", "sources"} {
		if _, ok := raw[field]; !ok {
			return models.AnswerResponse{}, false
		}
	}

	var resp models.AnswerResponse
	if err := json.Unmarshal([]byte(text), &resp); err != nil {
		return models.AnswerResponse{}, false
	}
	if resp.Meta == nil {
		resp.Meta = map[string]interface{}{}
	}
	return resp, true
}

// deterministicAnswer assembles an answer from the retrieved documents
// alone. Confidence grows with available evidence, capped at 0.8.
func (s *Synthesizer) deterministicAnswer(query string, docs []models.Document, visualContext string) models.AnswerResponse {
	var snippets []string
	var sources []models.Source

	for i, doc := range docs {
		if i >= 3 {
			break
		}
		if snippet := doc.Snippet; snippet != "" {
			snippets = append(snippets, snippet)
		} else if doc.Content != "" {
			snippets = append(snippets, doc.Content)
		}

		title := doc.Title
		if title == "" {
			title = "Agricultural Resource"
		}
		sources = append(sources, models.Source{
			Title:   title,
			URL:     doc.URL,
			Snippet: truncateRunes(doc.Snippet, 100) + "...",
		})
	}

	confidence := 0.4 + 0.1*float64(len(snippets))
	if confidence > 0.8 {
		confidence = 0.8
	}

	mode := models.ModeFallback
	if s.config.DemoMode {
		mode = models.ModeDemo
	}

	return models.AnswerResponse{
		Answer:     contextualAnswer(query, snippets, visualContext),
		Confidence: confidence,
		Actions:    answerActions(query, visualContext),
		Sources:    sources,
		Meta: map[string]interface{}{
			"mode":           mode,
			"retrieved_docs": len(docs),
		},
	}
}

// BuildPrompt embeds the query and the top retrieved documents into the
// generative prompt.
func BuildPrompt(query string, docs []models.Document, visualContext string) string {
	var context strings.Builder
	for i, doc := range docs {
		if i >= 3 {
			break
		}
		fmt.Fprintf(&context, "Title: %s\nContent: %s\n", doc.Title, doc.Text())
	}

	imagePart := ""
	if visualContext != "" {
		imagePart = "\nImage Context: " + visualContext
	}

	return fmt.Sprintf(`You are Farm-Guru, an AI agricultural assistant. Based on the context and query, provide helpful farming advice.

Context:
%s
Query: %s
%s
Respond with practical, actionable advice. Be concise but comprehensive.`,
		context.String(), query, imagePart)
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
