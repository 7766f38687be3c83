package vector

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newKeywordIndex(t *testing.T) *SQLiteIndex {
	t.Helper()
	index, err := NewSQLiteIndex(&Config{DB: newTestDB(t)})
	if err != nil {
		t.Fatalf("NewSQLiteIndex failed: %v", err)
	}
	return index
}

// wordEmbedder maps content to a fixed vocabulary count vector, giving
// deterministic cosine rankings without a model.
type wordEmbedder struct {
	vocab []string
}

func (e *wordEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	lower := strings.ToLower(text)
	vec := make([]float32, len(e.vocab))
	for i, word := range e.vocab {
		vec[i] = float32(strings.Count(lower, word))
	}
	return vec, nil
}

func TestNewSQLiteIndexRequiresDB(t *testing.T) {
	if _, err := NewSQLiteIndex(nil); err == nil {
		t.Error("Expected error for nil config")
	}
	if _, err := NewSQLiteIndex(&Config{}); err == nil {
		t.Error("Expected error for nil database")
	}
}

func TestKeywordSearch(t *testing.T) {
	index := newKeywordIndex(t)
	ctx := context.Background()

	docs := []Document{
		{ID: "d1", Content: "PostgreSQL replication and failover"},
		{ID: "d2", Content: "Redis caching strategies"},
		{ID: "d3", Content: "PostgreSQL caching with materialized views"},
	}
	if err := index.Add(ctx, "kb", docs); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	matches, err := index.SearchSimilar(ctx, "kb", "postgresql caching", 10)
	if err != nil {
		t.Fatalf("SearchSimilar failed: %v", err)
	}
	if len(matches) != 3 {
		t.Fatalf("Expected 3 matches, got %d", len(matches))
	}
	// d3 contains both keywords, the others one each
	if matches[0].ID != "d3" {
		t.Errorf("Expected d3 ranked first, got %s", matches[0].ID)
	}
	if matches[0].Score != 1.0 {
		t.Errorf("Expected full keyword coverage score 1.0, got %v", matches[0].Score)
	}

	// Non-matching query returns nothing
	none, err := index.SearchSimilar(ctx, "kb", "kubernetes", 10)
	if err != nil {
		t.Fatalf("SearchSimilar failed: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("Expected no matches, got %d", len(none))
	}
}

func TestSearchRespectsTopK(t *testing.T) {
	index := newKeywordIndex(t)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c", "d"} {
		if err := index.Add(ctx, "kb", []Document{{ID: id, Content: "shared keyword"}}); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}

	matches, err := index.SearchSimilar(ctx, "kb", "keyword", 2)
	if err != nil {
		t.Fatalf("SearchSimilar failed: %v", err)
	}
	if len(matches) != 2 {
		t.Errorf("Expected topK to cap results at 2, got %d", len(matches))
	}
}

func TestCollectionsIsolated(t *testing.T) {
	index := newKeywordIndex(t)
	ctx := context.Background()

	if err := index.Add(ctx, "project:a", []Document{{ID: "d1", Content: "alpha"}}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := index.Add(ctx, "project:b", []Document{{ID: "d2", Content: "alpha"}}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	matches, err := index.SearchSimilar(ctx, "project:a", "alpha", 10)
	if err != nil {
		t.Fatalf("SearchSimilar failed: %v", err)
	}
	if len(matches) != 1 || matches[0].ID != "d1" {
		t.Errorf("Expected only project:a documents, got %v", matches)
	}
}

func TestAddUpsertsAndDelete(t *testing.T) {
	index := newKeywordIndex(t)
	ctx := context.Background()

	if err := index.Add(ctx, "kb", []Document{{ID: "d1", Content: "original"}}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	// Re-adding the same id replaces content
	if err := index.Add(ctx, "kb", []Document{{ID: "d1", Content: "replaced"}}); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	matches, err := index.SearchSimilar(ctx, "kb", "replaced", 10)
	if err != nil {
		t.Fatalf("SearchSimilar failed: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("Expected replaced content to match, got %d", len(matches))
	}

	if err := index.Delete(ctx, "kb", "d1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	matches, _ = index.SearchSimilar(ctx, "kb", "replaced", 10)
	if len(matches) != 0 {
		t.Errorf("Expected no matches after delete, got %d", len(matches))
	}

	// Missing id is required
	if err := index.Add(ctx, "kb", []Document{{Content: "no id"}}); err == nil {
		t.Error("Expected error for document without id")
	}
}

func TestDeleteCollection(t *testing.T) {
	index := newKeywordIndex(t)
	ctx := context.Background()

	if err := index.Add(ctx, "kb", []Document{
		{ID: "d1", Content: "one"},
		{ID: "d2", Content: "two"},
	}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := index.Add(ctx, "other", []Document{{ID: "d3", Content: "three"}}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	if err := index.DeleteCollection(ctx, "kb"); err != nil {
		t.Fatalf("DeleteCollection failed: %v", err)
	}

	matches, _ := index.SearchSimilar(ctx, "kb", "one two", 10)
	if len(matches) != 0 {
		t.Errorf("Expected empty collection, got %d matches", len(matches))
	}
	other, _ := index.SearchSimilar(ctx, "other", "three", 10)
	if len(other) != 1 {
		t.Errorf("Expected other collection untouched, got %d matches", len(other))
	}
}

func TestEmbeddingSearch(t *testing.T) {
	embedder := &wordEmbedder{vocab: []string{"cat", "dog", "fish"}}
	index, err := NewSQLiteIndex(&Config{DB: newTestDB(t), Embedder: embedder})
	if err != nil {
		t.Fatalf("NewSQLiteIndex failed: %v", err)
	}
	ctx := context.Background()

	docs := []Document{
		{ID: "cats", Content: "cat cat cat"},
		{ID: "dogs", Content: "dog dog dog"},
		{ID: "mixed", Content: "cat dog fish"},
	}
	if err := index.Add(ctx, "pets", docs); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	matches, err := index.SearchSimilar(ctx, "pets", "cat", 10)
	if err != nil {
		t.Fatalf("SearchSimilar failed: %v", err)
	}
	if len(matches) != 3 {
		t.Fatalf("Expected 3 matches, got %d", len(matches))
	}
	if matches[0].ID != "cats" {
		t.Errorf("Expected cosine ranking to put cats first, got %s", matches[0].ID)
	}
	if matches[0].Score < 0.99 {
		t.Errorf("Expected near-perfect similarity, got %v", matches[0].Score)
	}
	if matches[2].ID != "dogs" {
		t.Errorf("Expected orthogonal document last, got %s", matches[2].ID)
	}
}

func TestEmbeddingCodecRoundTrip(t *testing.T) {
	vec := []float32{0.1, -2.5, 3.75, 0}
	decoded := decodeEmbedding(encodeEmbedding(vec))
	if len(decoded) != len(vec) {
		t.Fatalf("Expected %d values, got %d", len(vec), len(decoded))
	}
	for i := range vec {
		if decoded[i] != vec[i] {
			t.Errorf("Value %d: expected %v, got %v", i, vec[i], decoded[i])
		}
	}
}

func TestCosineSimilarity(t *testing.T) {
	if got := cosineSimilarity([]float32{1, 0}, []float32{1, 0}); got != 1.0 {
		t.Errorf("Expected 1.0 for identical vectors, got %v", got)
	}
	if got := cosineSimilarity([]float32{1, 0}, []float32{0, 1}); got != 0.0 {
		t.Errorf("Expected 0.0 for orthogonal vectors, got %v", got)
	}
	if got := cosineSimilarity([]float32{1, 0}, []float32{0, 0}); got != 0.0 {
		t.Errorf("Expected 0.0 for zero vector, got %v", got)
	}
	if got := cosineSimilarity([]float32{1}, []float32{1, 2}); got != 0.0 {
		t.Errorf("Expected 0.0 for mismatched lengths, got %v", got)
	}
}
