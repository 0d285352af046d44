// ABOUTME: Embedding models for vector storage and semantic search
// ABOUTME: Defines SegmentEmbedding and VectorSearchResult structures
package models

import "time"

// SegmentEmbedding is a stored embedding vector for one segment of a rule's
// context, tagged with the owning rule's identifier and display metadata.
type SegmentEmbedding struct {
	SegmentID string    `json:"segment_id"`
	RuleID    string    `json:"rule_id"`
	Text      string    `json:"text"`
	Title     string    `json:"title"`
	Vector    []float64 `json:"vector"`
	CreatedAt time.Time `json:"created_at"`
}

// VectorSearchResult is a similarity search hit against stored segments.
type VectorSearchResult struct {
	SegmentID  string  `json:"segment_id"`
	RuleID     string  `json:"rule_id"`
	Text       string  `json:"text"`
	Title      string  `json:"title"`
	Similarity float64 `json:"similarity"`
}
