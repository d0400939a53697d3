package types

import (
	"context"

	"github.com/Sundramrai3691/Farm-Guru/internal/models"
)

// EmbeddingProvider turns text into fixed-length vectors. It is an optional
// capability: components holding one must tolerate it being nil.
type EmbeddingProvider interface {
	Encode(ctx context.Context, texts []string) ([][]float32, error)
}

// CorpusStore is the remote document store. VectorSearch is the server-side
// nearest-neighbour capability; ListDocuments feeds the local corpus
// snapshot. The store as a whole is optional.
type CorpusStore interface {
	ListDocuments(ctx context.Context) ([]models.Document, error)
	VectorSearch(ctx context.Context, vector []float32, threshold float32, limit int) ([]models.Document, error)
}

// GenerativeBackend produces free text from a prompt. Complete returning
// ("", nil) means "no answer" and is not an error. Enabled reports whether
// the backend is configured at all; a disabled backend is skipped entirely.
type GenerativeBackend interface {
	Complete(ctx context.Context, prompt string, maxTokens int) (string, error)
	Enabled() bool
}
