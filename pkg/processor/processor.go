// Package processor turns raw harvested page text into corpus documents:
// cleaning, snippet derivation, and splitting of oversized content.
package processor

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Sundramrai3691/Farm-Guru/internal/models"
)

type Config struct {
	SnippetLength    int
	MinContentLength int
	MaxContentLength int
}

type Processor struct {
	config Config
}

func New(config Config) *Processor {
	if config.SnippetLength == 0 {
		config.SnippetLength = 160
	}
	if config.MinContentLength == 0 {
		config.MinContentLength = 80
	}
	if config.MaxContentLength == 0 {
		config.MaxContentLength = 4000
	}
	return &Processor{config: config}
}

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	noiseRe      = regexp.MustCompile(`(?i)(cookie policy|accept cookies|subscribe to our newsletter|all rights reserved)`)
)

// Process cleans each raw document, drops the ones too short to be useful,
// and splits overlong content into separate documents at sentence
// boundaries.
func (p *Processor) Process(docs []models.Document) []models.Document {
	var out []models.Document
	for _, doc := range docs {
		content := p.Clean(doc.Content)
		if len(content) < p.config.MinContentLength {
			continue
		}

		parts := p.split(content)
		for i, part := range parts {
			processed := doc
			processed.Content = part
			processed.Snippet = p.Snippet(part)
			if len(parts) > 1 {
				processed.ID = fmt.Sprintf("%s-%d", doc.ID, i+1)
				processed.Title = fmt.Sprintf("%s (part %d)", doc.Title, i+1)
			}
			out = append(out, processed)
		}
	}
	return out
}

// Clean collapses whitespace and strips boilerplate phrases that survive
// HTML extraction.
func (p *Processor) Clean(text string) string {
	text = noiseRe.ReplaceAllString(text, "")
	text = whitespaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// Snippet returns the leading sentences of the content, up to the
// configured length.
func (p *Processor) Snippet(content string) string {
	var b strings.Builder
	for _, sentence := range splitSentences(content) {
		if b.Len() > 0 && b.Len()+len(sentence)+1 > p.config.SnippetLength {
			break
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(sentence)
		if b.Len() >= p.config.SnippetLength {
			break
		}
	}
	snippet := b.String()
	if r := []rune(snippet); len(r) > p.config.SnippetLength {
		snippet = strings.TrimSpace(string(r[:p.config.SnippetLength]))
	}
	return snippet
}

func (p *Processor) split(content string) []string {
	if len(content) <= p.config.MaxContentLength {
		return []string{content}
	}

	var parts []string
	var current strings.Builder
	for _, sentence := range splitSentences(content) {
		if current.Len() > 0 && current.Len()+len(sentence)+1 > p.config.MaxContentLength {
			parts = append(parts, strings.TrimSpace(current.String()))
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteByte(' ')
		}
		current.WriteString(sentence)
	}
	if current.Len() > 0 {
		parts = append(parts, strings.TrimSpace(current.String()))
	}
	return parts
}

var sentenceEndRe = regexp.MustCompile(`([.!?])\s+`)

func splitSentences(text string) []string {
	marked := sentenceEndRe.ReplaceAllString(text, "$1\x00")
	raw := strings.Split(marked, "\x00")
	sentences := make([]string, 0, len(raw))
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if s != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences
}
