package vector

import (
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
)

const vectorSchema = `
CREATE TABLE IF NOT EXISTS vectors (
    collection TEXT NOT NULL,
    id TEXT NOT NULL,
    content TEXT NOT NULL,
    metadata TEXT NOT NULL DEFAULT '{}',
    embedding BLOB,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (collection, id)
);

CREATE INDEX IF NOT EXISTS idx_vectors_collection ON vectors(collection);
`

// SQLiteIndex implements Index on a SQLite table. When an Embedder is
// configured, search ranks by cosine similarity over stored embeddings;
// without one it falls back to keyword matching, which is good enough for
// tests and small deployments.
type SQLiteIndex struct {
	mu       sync.RWMutex
	db       *sql.DB
	embedder Embedder
	logger   *zap.Logger
}

// Config holds vector index configuration
type Config struct {
	DB       *sql.DB  // Required: may be the relational store's handle
	Embedder Embedder // Optional: enables embedding-based ranking
	Logger   *zap.Logger
}

// NewSQLiteIndex creates the index and its table
func NewSQLiteIndex(cfg *Config) (*SQLiteIndex, error) {
	if cfg == nil || cfg.DB == nil {
		return nil, fmt.Errorf("database handle is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if _, err := cfg.DB.Exec(vectorSchema); err != nil {
		return nil, fmt.Errorf("failed to initialize vector schema: %w", err)
	}
	return &SQLiteIndex{db: cfg.DB, embedder: cfg.Embedder, logger: logger}, nil
}

// Add indexes documents, embedding them when an embedder is available
func (s *SQLiteIndex) Add(ctx context.Context, collection string, docs []Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, doc := range docs {
		if doc.ID == "" {
			return fmt.Errorf("document id is required")
		}

		metaJSON, err := json.Marshal(doc.Metadata)
		if err != nil {
			return fmt.Errorf("failed to marshal metadata for %s: %w", doc.ID, err)
		}

		var blob []byte
		if s.embedder != nil {
			embedding, err := s.embedder.Embed(ctx, doc.Content)
			if err != nil {
				return fmt.Errorf("failed to embed document %s: %w", doc.ID, err)
			}
			blob = encodeEmbedding(embedding)
		}

		_, err = s.db.ExecContext(ctx, `
			INSERT OR REPLACE INTO vectors (collection, id, content, metadata, embedding)
			VALUES (?, ?, ?, ?, ?)
		`, collection, doc.ID, doc.Content, string(metaJSON), blob)
		if err != nil {
			return fmt.Errorf("failed to index document %s: %w", doc.ID, err)
		}
	}

	s.logger.Debug("documents indexed",
		zap.String("collection", collection),
		zap.Int("count", len(docs)))
	return nil
}

// SearchSimilar ranks documents against the query. Embedding ranking is
// used when both an embedder and stored embeddings exist; keyword matching
// otherwise.
func (s *SQLiteIndex) SearchSimilar(ctx context.Context, collection, query string, topK int) ([]Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if topK <= 0 {
		topK = 10
	}

	if s.embedder != nil {
		return s.searchByEmbedding(ctx, collection, query, topK)
	}
	return s.searchByKeyword(ctx, collection, query, topK)
}

func (s *SQLiteIndex) searchByEmbedding(ctx context.Context, collection, query string, topK int) ([]Match, error) {
	queryVec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, metadata, embedding FROM vectors WHERE collection = ? AND embedding IS NOT NULL",
		collection)
	if err != nil {
		return nil, fmt.Errorf("vector search query failed: %w", err)
	}
	defer rows.Close()

	var matches []Match
	for rows.Next() {
		var id, metaJSON string
		var blob []byte
		if err := rows.Scan(&id, &metaJSON, &blob); err != nil {
			return nil, fmt.Errorf("failed to scan vector row: %w", err)
		}
		score := cosineSimilarity(queryVec, decodeEmbedding(blob))
		matches = append(matches, Match{ID: id, Score: score, Metadata: decodeMetadata(metaJSON)})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(matches, func(i, j int) bool { return matches[i].Score > matches[j].Score })
	if len(matches) > topK {
		matches = matches[:topK]
	}
	return matches, nil
}

// searchByKeyword scores documents by the fraction of query keywords they
// contain. Production deployments configure an embedder instead.
func (s *SQLiteIndex) searchByKeyword(ctx context.Context, collection, query string, topK int) ([]Match, error) {
	keywords := strings.Fields(strings.ToLower(query))
	if len(keywords) == 0 {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, content, metadata FROM vectors WHERE collection = ?", collection)
	if err != nil {
		return nil, fmt.Errorf("keyword search query failed: %w", err)
	}
	defer rows.Close()

	var matches []Match
	for rows.Next() {
		var id, content, metaJSON string
		if err := rows.Scan(&id, &content, &metaJSON); err != nil {
			return nil, fmt.Errorf("failed to scan vector row: %w", err)
		}
		lower := strings.ToLower(content)
		hits := 0
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				hits++
			}
		}
		if hits == 0 {
			continue
		}
		matches = append(matches, Match{
			ID:       id,
			Score:    float64(hits) / float64(len(keywords)),
			Metadata: decodeMetadata(metaJSON),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(matches, func(i, j int) bool { return matches[i].Score > matches[j].Score })
	if len(matches) > topK {
		matches = matches[:topK]
	}
	return matches, nil
}

// Delete removes one document
func (s *SQLiteIndex) Delete(ctx context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx,
		"DELETE FROM vectors WHERE collection = ? AND id = ?", collection, id); err != nil {
		return fmt.Errorf("failed to delete document %s: %w", id, err)
	}
	return nil
}

// DeleteCollection removes every document in a collection
func (s *SQLiteIndex) DeleteCollection(ctx context.Context, collection string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx,
		"DELETE FROM vectors WHERE collection = ?", collection); err != nil {
		return fmt.Errorf("failed to delete collection %s: %w", collection, err)
	}
	return nil
}

func decodeMetadata(metaJSON string) map[string]string {
	if metaJSON == "" || metaJSON == "{}" {
		return nil
	}
	var meta map[string]string
	if err := json.Unmarshal([]byte(metaJSON), &meta); err != nil {
		return nil
	}
	return meta
}

func encodeEmbedding(vec []float32) []byte {
	buf := make([]byte, 4*len(vec))
	for i, v := range vec {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

func decodeEmbedding(blob []byte) []float32 {
	vec := make([]float32, len(blob)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(blob[i*4:]))
	}
	return vec
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
