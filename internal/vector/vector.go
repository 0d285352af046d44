// ABOUTME: Vector store contract and cosine similarity scoring
// ABOUTME: Backends persist segment embeddings keyed by the owning rule id
package vector

import (
	"math"

	"github.com/harper/rulekeeper/internal/models"
)

// Store is a durable mapping from rule ids to per-segment embeddings with
// threshold-based nearest-neighbor search and bulk delete by rule id.
type Store interface {
	// Save persists one segment embedding. Saving the same segment id again
	// overwrites the previous vector.
	Save(emb models.SegmentEmbedding) error

	// Search returns stored segments whose cosine similarity to query is at
	// least threshold, ordered by similarity descending, at most limit.
	Search(query []float64, threshold float64, limit int) ([]models.VectorSearchResult, error)

	// DeleteByRule removes every embedding owned by the given rule.
	DeleteByRule(ruleID string) error

	Close() error
}

// CosineSimilarity calculates cosine similarity between two vectors.
// Mismatched lengths or a zero vector on either side score 0.0.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0.0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0.0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}

// RoundScore rounds a similarity score to 3 decimals for reporting.
func RoundScore(s float64) float64 {
	return math.Round(s*1000) / 1000
}
