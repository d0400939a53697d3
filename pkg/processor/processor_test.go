package processor

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sundramrai3691/Farm-Guru/internal/models"
)

func TestCleanCollapsesWhitespace(t *testing.T) {
	p := New(Config{})
	got := p.Clean("  Wheat   needs\n\n water.\tIrrigate   regularly.  ")
	assert.Equal(t, "Wheat needs water. Irrigate regularly.", got)
}

func TestCleanStripsBoilerplate(t *testing.T) {
	p := New(Config{})
	got := p.Clean("Useful advice here. Accept Cookies to continue. All Rights Reserved.")
	assert.NotContains(t, got, "Accept Cookies")
	assert.NotContains(t, got, "All Rights Reserved")
	assert.Contains(t, got, "Useful advice here.")
}

func TestProcessDropsShortContent(t *testing.T) {
	p := New(Config{MinContentLength: 50})
	docs := p.Process([]models.Document{
		{ID: "short", Content: "Too short."},
		{ID: "long", Content: strings.Repeat("Wheat needs regular watering. ", 5)},
	})

	require.Len(t, docs, 1)
	assert.Equal(t, "long", docs[0].ID)
}

func TestSnippetStopsAtLength(t *testing.T) {
	p := New(Config{SnippetLength: 60})
	content := "First sentence here. Second sentence follows. Third sentence is extra and long."
	snippet := p.Snippet(content)

	assert.LessOrEqual(t, len([]rune(snippet)), 60)
	assert.True(t, strings.HasPrefix(snippet, "First sentence here."))
}

func TestProcessDerivesSnippet(t *testing.T) {
	p := New(Config{MinContentLength: 10, SnippetLength: 160})
	docs := p.Process([]models.Document{
		{ID: "1", Title: "Guide", Content: "Wheat requires irrigation at critical stages. Apply water carefully."},
	})

	require.Len(t, docs, 1)
	assert.NotEmpty(t, docs[0].Snippet)
	assert.True(t, strings.HasPrefix(docs[0].Snippet, "Wheat requires irrigation"))
}

func TestProcessSplitsLongContent(t *testing.T) {
	sentence := "Wheat irrigation requires careful timing and observation of soil moisture. "
	content := strings.Repeat(sentence, 20)
	p := New(Config{MinContentLength: 10, MaxContentLength: 300})

	docs := p.Process([]models.Document{{ID: "doc", Title: "Irrigation", Content: content}})

	require.Greater(t, len(docs), 1)
	for _, doc := range docs {
		assert.LessOrEqual(t, len(doc.Content), 300)
		assert.Contains(t, doc.ID, "doc-")
		assert.Contains(t, doc.Title, "part")
	}
}

func TestDefaultMinContentLength(t *testing.T) {
	p := New(Config{})
	// 90 characters clears the default threshold of 80.
	content := strings.Repeat("Water wheat early. ", 5)
	docs := p.Process([]models.Document{
		{ID: "kept", Content: content},
		{ID: "dropped", Content: "Under eighty characters of advisory text here."},
	})

	require.Len(t, docs, 1)
	assert.Equal(t, "kept", docs[0].ID)
}

func TestProcessKeepsIDForSinglePart(t *testing.T) {
	p := New(Config{MinContentLength: 10})
	docs := p.Process([]models.Document{
		{ID: "solo", Title: "Solo", Content: "A single reasonably sized document about crop rotation practices."},
	})

	require.Len(t, docs, 1)
	assert.Equal(t, "solo", docs[0].ID)
	assert.Equal(t, "Solo", docs[0].Title)
}

func TestSplitSentences(t *testing.T) {
	got := splitSentences("One. Two! Three? Four")
	assert.Equal(t, []string{"One.", "Two!", "Three?", "Four"}, got)
}
