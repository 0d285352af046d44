// ABOUTME: SQLite-backed vector store for segment embeddings
// ABOUTME: Stores vectors as BLOBs and does cosine similarity search in-process
package sqlite

import (
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/harper/rulekeeper/internal/models"
	"github.com/harper/rulekeeper/internal/vector"
)

// Store persists segment embeddings in SQLite
type Store struct {
	db *DB

	// expectedDim guards against mixing vectors of different models.
	// Zero disables the check.
	expectedDim int
}

// NewStore creates a Store over an open database. dim is the vector size the
// configured embedding model produces; a dimension <= 0 disables validation.
func NewStore(db *DB, dim int) *Store {
	return &Store{db: db, expectedDim: dim}
}

// Save persists one segment embedding, overwriting any previous vector for
// the same segment id.
func (s *Store) Save(emb models.SegmentEmbedding) error {
	if s.expectedDim > 0 && len(emb.Vector) != s.expectedDim {
		return fmt.Errorf("invalid embedding dimension: expected %d, got %d", s.expectedDim, len(emb.Vector))
	}
	if emb.RuleID == "" {
		return fmt.Errorf("embedding requires a rule id")
	}

	createdAt := emb.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := s.db.Exec(`
		INSERT INTO embeddings (segment_id, rule_id, text, title, vector, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(segment_id) DO UPDATE SET
			rule_id = excluded.rule_id,
			text = excluded.text,
			title = excluded.title,
			vector = excluded.vector
	`, emb.SegmentID, emb.RuleID, emb.Text, nullString(emb.Title), vectorToBlob(emb.Vector), createdAt)

	return err
}

// Search performs cosine similarity search across all stored embeddings,
// returning hits at or above threshold ordered by similarity descending.
func (s *Store) Search(query []float64, threshold float64, limit int) ([]models.VectorSearchResult, error) {
	rows, err := s.db.Query(`
		SELECT segment_id, rule_id, text, title, vector
		FROM embeddings
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var results []models.VectorSearchResult

	for rows.Next() {
		var (
			segmentID string
			ruleID    string
			text      string
			title     sql.NullString
			blob      []byte
		)

		if err := rows.Scan(&segmentID, &ruleID, &text, &title, &blob); err != nil {
			return nil, err
		}

		similarity := vector.CosineSimilarity(query, blobToVector(blob))
		if similarity < threshold {
			continue
		}

		result := models.VectorSearchResult{
			SegmentID:  segmentID,
			RuleID:     ruleID,
			Text:       text,
			Similarity: similarity,
		}
		if title.Valid {
			result.Title = title.String
		}

		results = append(results, result)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Sort by similarity descending
	sort.Slice(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})

	// Limit results
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}

	return results, nil
}

// DeleteByRule removes every embedding owned by the given rule
func (s *Store) DeleteByRule(ruleID string) error {
	_, err := s.db.Exec("DELETE FROM embeddings WHERE rule_id = ?", ruleID)
	return err
}

// CountByRule returns the number of stored embeddings for a rule
func (s *Store) CountByRule(ruleID string) (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM embeddings WHERE rule_id = ?", ruleID).Scan(&count)
	return count, err
}

// Close closes the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}

func nullString(v string) sql.NullString {
	return sql.NullString{String: v, Valid: v != ""}
}

// vectorToBlob converts a float64 slice to binary blob
func vectorToBlob(v []float64) []byte {
	blob := make([]byte, len(v)*8)
	for i, f := range v {
		binary.LittleEndian.PutUint64(blob[i*8:], math.Float64bits(f))
	}
	return blob
}

// blobToVector converts a binary blob to float64 slice
func blobToVector(blob []byte) []float64 {
	count := len(blob) / 8
	v := make([]float64, count)
	for i := 0; i < count; i++ {
		bits := binary.LittleEndian.Uint64(blob[i*8:])
		v[i] = math.Float64frombits(bits)
	}
	return v
}
