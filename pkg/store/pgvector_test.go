package store

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sundramrai3691/Farm-Guru/internal/models"
	"github.com/Sundramrai3691/Farm-Guru/pkg/retriever"
)

// Integration tests run against a real database with the pgvector
// extension. Set TEST_DATABASE_URL to enable them.
func testStore(t *testing.T) *Store {
	t.Helper()
	connString := os.Getenv("TEST_DATABASE_URL")
	if connString == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	s, err := NewWithConfig(context.Background(), Config{
		ConnString: connString,
		TableName:  "docs_test",
		VectorDim:  3,
	})
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func TestUpsertAndListDocuments(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	docs := retriever.DefaultKnowledgeBase()[:2]
	require.NoError(t, s.UpsertDocuments(ctx, docs, nil))

	got, err := s.ListDocuments(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(got), 2)
}

func TestInsertQueryAndHistory(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	resp := models.AnswerResponse{
		Answer:     "Irrigate at dawn.",
		Confidence: 0.7,
		Actions:    []string{"Check soil"},
		Sources:    []models.Source{},
		Meta:       map[string]interface{}{"mode": models.ModeFallback},
	}
	id, err := s.InsertQuery(ctx, "user-1", "when to irrigate", resp)
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	records, err := s.QueryHistory(ctx, "user-1", 10)
	require.NoError(t, err)
	require.NotEmpty(t, records)
	assert.Equal(t, "when to irrigate", records[0].Question)
	assert.Equal(t, "Irrigate at dawn.", records[0].Answer)
}

func TestGetImageLabelMissing(t *testing.T) {
	s := testStore(t)

	label, err := s.GetImageLabel(context.Background(), "no-such-image")
	require.NoError(t, err)
	assert.Empty(t, label)
}
