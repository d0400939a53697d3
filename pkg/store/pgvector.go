// Package store persists the document corpus, query history, and image
// labels in PostgreSQL with the pgvector extension.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/Sundramrai3691/Farm-Guru/internal/models"
	"github.com/Sundramrai3691/Farm-Guru/internal/types"
)

type Config struct {
	ConnString string
	TableName  string
	VectorDim  int
}

type Store struct {
	pool   *pgxpool.Pool
	config Config
}

// NewWithConfig connects to PostgreSQL and ensures the schema exists.
func NewWithConfig(ctx context.Context, config Config) (*Store, error) {
	if config.TableName == "" {
		config.TableName = "docs"
	}
	if config.VectorDim == 0 {
		config.VectorDim = 768
	}

	pool, err := pgxpool.New(ctx, config.ConnString)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &Store{pool: pool, config: config}
	if err := s.initialize(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

func (s *Store) initialize(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, "CREATE EXTENSION IF NOT EXISTS vector")
	if err != nil {
		return fmt.Errorf("failed to create vector extension: %w", err)
	}

	createDocs := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			content TEXT NOT NULL,
			snippet TEXT,
			url TEXT,
			embedding vector(%d)
		)`, s.config.TableName, s.config.VectorDim)
	if _, err := s.pool.Exec(ctx, createDocs); err != nil {
		return fmt.Errorf("failed to create %s table: %w", s.config.TableName, err)
	}

	createIndex := fmt.Sprintf(`
		CREATE INDEX IF NOT EXISTS %s_embedding_idx ON %s
		USING ivfflat (embedding vector_cosine_ops) WITH (lists = 100)`,
		s.config.TableName, s.config.TableName)
	if _, err := s.pool.Exec(ctx, createIndex); err != nil {
		return fmt.Errorf("failed to create vector index: %w", err)
	}

	createQueries := `
		CREATE TABLE IF NOT EXISTS queries (
			id UUID PRIMARY KEY,
			user_id TEXT,
			question TEXT NOT NULL,
			response JSONB NOT NULL,
			confidence DOUBLE PRECISION,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`
	if _, err := s.pool.Exec(ctx, createQueries); err != nil {
		return fmt.Errorf("failed to create queries table: %w", err)
	}

	createImages := `
		CREATE TABLE IF NOT EXISTS images (
			id TEXT PRIMARY KEY,
			label TEXT NOT NULL,
			url TEXT
		)`
	if _, err := s.pool.Exec(ctx, createImages); err != nil {
		return fmt.Errorf("failed to create images table: %w", err)
	}

	return nil
}

// ListDocuments returns the whole corpus in insertion order.
func (s *Store) ListDocuments(ctx context.Context) ([]models.Document, error) {
	query := fmt.Sprintf("SELECT id, title, content, COALESCE(snippet, ''), COALESCE(url, '') FROM %s ORDER BY id", s.config.TableName)
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	var docs []models.Document
	for rows.Next() {
		var doc models.Document
		if err := rows.Scan(&doc.ID, &doc.Title, &doc.Content, &doc.Snippet, &doc.URL); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// VectorSearch returns up to limit documents whose cosine similarity to
// the query vector exceeds threshold, best match first.
func (s *Store) VectorSearch(ctx context.Context, vector []float32, threshold float32, limit int) ([]models.Document, error) {
	query := fmt.Sprintf(`
		SELECT id, title, content, COALESCE(snippet, ''), COALESCE(url, ''),
		       1 - (embedding <=> $1) AS similarity
		FROM %s
		WHERE embedding IS NOT NULL AND 1 - (embedding <=> $1) > $2
		ORDER BY embedding <=> $1
		LIMIT $3`, s.config.TableName)

	rows, err := s.pool.Query(ctx, query, pgvector.NewVector(vector), threshold, limit)
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}
	defer rows.Close()

	var docs []models.Document
	for rows.Next() {
		var doc models.Document
		var similarity float64
		if err := rows.Scan(&doc.ID, &doc.Title, &doc.Content, &doc.Snippet, &doc.URL, &similarity); err != nil {
			return nil, fmt.Errorf("failed to scan search result: %w", err)
		}
		doc.Similarity = float32(similarity)
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// UpsertDocuments writes documents in a single transaction. When a
// provider is given each document is embedded before insert; a nil
// provider stores documents without vectors.
func (s *Store) UpsertDocuments(ctx context.Context, docs []models.Document, provider types.EmbeddingProvider) error {
	if len(docs) == 0 {
		return nil
	}

	var vectors [][]float32
	if provider != nil {
		texts := make([]string, len(docs))
		for i, doc := range docs {
			texts[i] = doc.Text()
		}
		var err error
		vectors, err = provider.Encode(ctx, texts)
		if err != nil {
			return fmt.Errorf("failed to embed documents: %w", err)
		}
		if len(vectors) != len(docs) {
			return fmt.Errorf("embedding count mismatch: got %d for %d documents", len(vectors), len(docs))
		}
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	upsert := fmt.Sprintf(`
		INSERT INTO %s (id, title, content, snippet, url, embedding)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			content = EXCLUDED.content,
			snippet = EXCLUDED.snippet,
			url = EXCLUDED.url,
			embedding = EXCLUDED.embedding`, s.config.TableName)

	for i, doc := range docs {
		var embedding interface{}
		if vectors != nil {
			embedding = pgvector.NewVector(vectors[i])
		}
		if _, err := tx.Exec(ctx, upsert, doc.ID, doc.Title, doc.Content, doc.Snippet, doc.URL, embedding); err != nil {
			return fmt.Errorf("failed to upsert document %s: %w", doc.ID, err)
		}
	}

	return tx.Commit(ctx)
}

// Seed populates the corpus table with the given documents only when it
// is empty, and reports how many were inserted.
func (s *Store) Seed(ctx context.Context, docs []models.Document, provider types.EmbeddingProvider) (int, error) {
	var count int
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s", s.config.TableName)
	if err := s.pool.QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count documents: %w", err)
	}
	if count > 0 {
		return 0, nil
	}
	if err := s.UpsertDocuments(ctx, docs, provider); err != nil {
		return 0, err
	}
	return len(docs), nil
}

// QueryRecord is one row of the persisted query history.
type QueryRecord struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Question   string    `json:"question"`
	Answer     string    `json:"answer"`
	Confidence float64   `json:"confidence"`
	CreatedAt  time.Time `json:"created_at"`
}

// InsertQuery records a question and its final response, returning the
// generated record id.
func (s *Store) InsertQuery(ctx context.Context, userID, question string, resp models.AnswerResponse) (string, error) {
	payload, err := json.Marshal(resp)
	if err != nil {
		return "", fmt.Errorf("failed to marshal response: %w", err)
	}

	id := uuid.New().String()
	_, err = s.pool.Exec(ctx,
		"INSERT INTO queries (id, user_id, question, response, confidence) VALUES ($1, $2, $3, $4, $5)",
		id, userID, question, payload, resp.Confidence)
	if err != nil {
		return "", fmt.Errorf("failed to insert query: %w", err)
	}
	return id, nil
}

// QueryHistory returns the most recent queries, newest first, optionally
// filtered by user.
func (s *Store) QueryHistory(ctx context.Context, userID string, limit int) ([]QueryRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, COALESCE(user_id, ''), question, response->>'answer', confidence, created_at
		FROM queries`
	args := []interface{}{}
	if userID != "" {
		query += " WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2"
		args = append(args, userID, limit)
	} else {
		query += " ORDER BY created_at DESC LIMIT $1"
		args = append(args, limit)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var records []QueryRecord
	for rows.Next() {
		var rec QueryRecord
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.Question, &rec.Answer, &rec.Confidence, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// GetImageLabel looks up the classifier label for an uploaded image. A
// missing image is not an error; it returns an empty label.
func (s *Store) GetImageLabel(ctx context.Context, imageID string) (string, error) {
	var label string
	err := s.pool.QueryRow(ctx, "SELECT label FROM images WHERE id = $1", imageID).Scan(&label)
	if err == pgx.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to look up image: %w", err)
	}
	return label, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Store) Close() {
	s.pool.Close()
}
