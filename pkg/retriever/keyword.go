package retriever

import (
	"sort"
	"strings"

	"github.com/Sundramrai3691/Farm-Guru/internal/models"
)

// keywordSearch is the final tier: lexical word overlap between the query
// and each document, with title matches weighted double. Documents with a
// zero score are excluded, so an unrelated query yields an empty result.
// It cannot fail.
func (r *Retriever) keywordSearch(query string, k int) tierResult {
	r.mu.Lock()
	docs := r.documents
	r.mu.Unlock()

	queryWords := wordSet(query)
	if len(queryWords) == 0 {
		return tierResult{docs: []models.Document{}, status: tierSuccess}
	}

	type scoredDoc struct {
		idx   int
		score int
	}
	var scored []scoredDoc
	for i, doc := range docs {
		if !hasBody(doc) {
			continue
		}
		score := 2*overlap(queryWords, wordSet(doc.Title)) + overlap(queryWords, wordSet(doc.Content))
		if score > 0 {
			scored = append(scored, scoredDoc{idx: i, score: score})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})
	if len(scored) > k {
		scored = scored[:k]
	}

	out := make([]models.Document, 0, len(scored))
	for _, sd := range scored {
		doc := docs[sd.idx]
		doc.Similarity = float32(sd.score)
		out = append(out, doc)
	}
	return tierResult{docs: out, status: tierSuccess}
}

func wordSet(text string) map[string]struct{} {
	words := strings.Fields(strings.ToLower(text))
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

func overlap(a, b map[string]struct{}) int {
	count := 0
	for w := range a {
		if _, ok := b[w]; ok {
			count++
		}
	}
	return count
}
