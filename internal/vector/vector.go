// Package vector provides the nearest-neighbor index contract used for
// semantic search over the knowledge base, plus a SQLite-backed
// implementation. The core treats the index as opaque: add, search, delete.
package vector

import "context"

// Document is one indexed item
type Document struct {
	ID       string
	Content  string
	Metadata map[string]string
}

// Match is one search result, best first
type Match struct {
	ID       string
	Score    float64 // similarity in [0, 1], higher is closer
	Metadata map[string]string
}

// Embedder converts text into a dense vector. Optional: without one the
// SQLite index falls back to keyword matching.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Index is the vector search contract. Collections partition the index;
// Socrates uses one collection per project plus a global one.
type Index interface {
	// Add indexes documents into a collection, replacing any with the same ID
	Add(ctx context.Context, collection string, docs []Document) error

	// SearchSimilar returns up to topK matches for the query, best first
	SearchSimilar(ctx context.Context, collection, query string, topK int) ([]Match, error)

	// Delete removes one document from a collection
	Delete(ctx context.Context, collection, id string) error

	// DeleteCollection removes a whole collection
	DeleteCollection(ctx context.Context, collection string) error
}
