// Package answer enforces the response contract. Every pipeline exit,
// successful or degraded, flows through Normalize before reaching a caller.
package answer

import (
	"math"
	"strings"

	"github.com/Sundramrai3691/Farm-Guru/internal/models"
)

const (
	defaultAnswer      = "I'm here to help with your farming questions."
	defaultSourceTitle = "Agricultural Resource"

	maxActions       = 3
	maxSnippetLength = 103
)

var defaultNormalizedActions = []string{
	"Consult local agricultural expert",
	"Monitor crop conditions",
}

// Normalize repairs a candidate response field by field so that it
// satisfies the response schema. It is a pure function with no failure
// path, and applying it twice yields an identical result.
func Normalize(resp models.AnswerResponse) models.AnswerResponse {
	if strings.TrimSpace(resp.Answer) == "" {
		resp.Answer = defaultAnswer
	}

	if math.IsNaN(resp.Confidence) {
		resp.Confidence = 0.5
	} else if resp.Confidence < 0 {
		resp.Confidence = 0
	} else if resp.Confidence > 1 {
		resp.Confidence = 1
	}

	if resp.Actions == nil {
		resp.Actions = append([]string(nil), defaultNormalizedActions...)
	}
	if len(resp.Actions) > maxActions {
		resp.Actions = resp.Actions[:maxActions]
	}

	if resp.Sources == nil {
		resp.Sources = []models.Source{}
	}
	sources := make([]models.Source, 0, len(resp.Sources))
	for _, src := range resp.Sources {
		if src.Title == "" {
			src.Title = defaultSourceTitle
		}
		if r := []rune(src.Snippet); len(r) > maxSnippetLength {
			src.Snippet = string(r[:maxSnippetLength])
		}
		sources = append(sources, src)
	}
	resp.Sources = sources

	if resp.Meta == nil {
		resp.Meta = map[string]interface{}{}
	}

	return resp
}
