// Package retriever selects reference documents for a query through a
// three-tier degradation chain: remote vector search, local embedding
// similarity, then lexical keyword overlap. Retrieval never fails; each
// tier that is unavailable or errors hands over to the next.
package retriever

import (
	"context"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/Sundramrai3691/Farm-Guru/internal/models"
	"github.com/Sundramrai3691/Farm-Guru/internal/types"
)

type Config struct {
	TopK           int
	MatchThreshold float32
}

// tierStatus is the tagged outcome of a single retrieval tier. Tiers report
// their state explicitly instead of signalling through errors, and the
// orchestrator in Retrieve decides what to try next.
type tierStatus int

const (
	tierSuccess tierStatus = iota
	tierUnavailable
	tierFailed
)

type tierResult struct {
	docs   []models.Document
	status tierStatus
	err    error
}

type Retriever struct {
	config Config
	store  types.CorpusStore
	logger *zap.Logger

	// mu guards the embedder slot and the corpus snapshot. documents and
	// embeddings are replaced wholesale, never mutated in place, so
	// callers may score a snapshot outside the lock.
	mu         sync.Mutex
	embedder   types.EmbeddingProvider
	documents  []models.Document
	embeddings [][]float32
}

// New builds a retriever over the given store and embedding provider; both
// may be nil. The corpus is loaded once: from the store when possible,
// otherwise from the built-in knowledge base.
func New(config Config, store types.CorpusStore, embedder types.EmbeddingProvider, log *zap.Logger) *Retriever {
	if config.TopK == 0 {
		config.TopK = 3
	}
	if config.MatchThreshold == 0 {
		config.MatchThreshold = 0.3
	}
	if log == nil {
		log = zap.NewNop()
	}

	r := &Retriever{
		config: config,
		store:  store,
		logger: log,
	}
	r.loadDocuments()

	if embedder != nil {
		r.AttachEmbedder(embedder)
	}
	return r
}

func (r *Retriever) loadDocuments() {
	if r.store != nil {
		docs, err := r.store.ListDocuments(context.Background())
		if err == nil && len(docs) > 0 {
			r.documents = docs
			r.logger.Info("loaded corpus from store", zap.Int("documents", len(docs)))
			return
		}
		if err != nil {
			r.logger.Warn("failed to load corpus from store", zap.Error(err))
		}
	}

	r.documents = DefaultKnowledgeBase()
	r.logger.Info("using built-in knowledge base", zap.Int("documents", len(r.documents)))
}

// AttachEmbedder wires an embedding provider after construction. Attaching
// is idempotent: a provider that is already attached is kept, and the
// corpus is re-embedded wholesale at most once per attach event. If the
// pass fails the cache stays empty and keyword search remains in effect.
func (r *Retriever) AttachEmbedder(provider types.EmbeddingProvider) {
	if provider == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.embedder != nil {
		return
	}
	r.embedder = provider
	r.embeddings = nil
	r.computeEmbeddingsLocked(context.Background())
}

// computeEmbeddingsLocked embeds the entire corpus in a single pass. It
// either produces a full index-aligned cache or leaves the cache empty;
// partial caches never exist.
func (r *Retriever) computeEmbeddingsLocked(ctx context.Context) {
	if r.embedder == nil || len(r.documents) == 0 || r.embeddings != nil {
		return
	}

	texts := make([]string, len(r.documents))
	for i, doc := range r.documents {
		texts[i] = doc.Text()
	}

	vecs, err := r.embedder.Encode(ctx, texts)
	if err != nil || len(vecs) != len(r.documents) {
		r.logger.Warn("corpus embedding pass failed", zap.Error(err))
		r.embeddings = nil
		return
	}

	r.embeddings = vecs
	r.logger.Info("computed corpus embeddings", zap.Int("documents", len(vecs)))
}

// Retrieve returns at most k documents ordered by non-increasing score,
// each decorated with a similarity score. It never fails; an empty corpus
// yields an empty result.
func (r *Retriever) Retrieve(ctx context.Context, query string, k int) []models.Document {
	if k <= 0 {
		k = r.config.TopK
	}

	r.mu.Lock()
	empty := len(r.documents) == 0
	r.mu.Unlock()
	if empty {
		return nil
	}

	if res := r.remoteSearch(ctx, query, k); res.status == tierSuccess {
		return res.docs
	} else if res.status == tierFailed {
		r.logger.Warn("remote vector search failed, degrading", zap.Error(res.err))
	}

	if res := r.localSimilarity(ctx, query, k); res.status == tierSuccess {
		return res.docs
	} else if res.status == tierFailed {
		r.logger.Warn("local similarity failed, degrading", zap.Error(res.err))
	}

	return r.keywordSearch(query, k).docs
}

// remoteSearch delegates nearest-neighbour search to the store. A single
// attempt: any provider or transport error degrades without retry.
func (r *Retriever) remoteSearch(ctx context.Context, query string, k int) tierResult {
	r.mu.Lock()
	embedder := r.embedder
	r.mu.Unlock()

	if r.store == nil || embedder == nil {
		return tierResult{status: tierUnavailable}
	}

	vecs, err := embedder.Encode(ctx, []string{query})
	if err != nil || len(vecs) == 0 {
		return tierResult{status: tierFailed, err: err}
	}

	docs, err := r.store.VectorSearch(ctx, vecs[0], r.config.MatchThreshold, k)
	if err != nil {
		return tierResult{status: tierFailed, err: err}
	}
	docs = withBody(docs)
	if len(docs) == 0 {
		return tierResult{status: tierFailed}
	}
	return tierResult{docs: docs, status: tierSuccess}
}

// hasBody reports whether a document carries synthesizable text. Documents
// with neither content nor snippet never leave the retriever.
func hasBody(doc models.Document) bool {
	return doc.Content != "" || doc.Snippet != ""
}

func withBody(docs []models.Document) []models.Document {
	kept := make([]models.Document, 0, len(docs))
	for _, doc := range docs {
		if hasBody(doc) {
			kept = append(kept, doc)
		}
	}
	return kept
}

// localSimilarity ranks the corpus by the dot product between the query
// vector and each cached document vector. The product is taken over raw,
// unnormalized vectors, so magnitude affects ranking; ties keep corpus
// order.
func (r *Retriever) localSimilarity(ctx context.Context, query string, k int) tierResult {
	r.mu.Lock()
	embedder := r.embedder
	if embedder == nil {
		r.mu.Unlock()
		return tierResult{status: tierUnavailable}
	}
	if r.embeddings == nil {
		// Lazy, whole-corpus, single attempt.
		r.computeEmbeddingsLocked(ctx)
	}
	docs := r.documents
	embeddings := r.embeddings
	r.mu.Unlock()

	if embeddings == nil {
		return tierResult{status: tierFailed}
	}

	vecs, err := embedder.Encode(ctx, []string{query})
	if err != nil || len(vecs) == 0 {
		return tierResult{status: tierFailed, err: err}
	}
	queryVec := vecs[0]

	type scoredDoc struct {
		idx   int
		score float32
	}
	scored := make([]scoredDoc, 0, len(docs))
	for i := range docs {
		if !hasBody(docs[i]) {
			continue
		}
		scored = append(scored, scoredDoc{idx: i, score: dot(queryVec, embeddings[i])})
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
		doc.Similarity = sd.score
		out = append(out, doc)
	}
	return tierResult{docs: out, status: tierSuccess}
}

func dot(a, b []float32) float32 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float32
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}
