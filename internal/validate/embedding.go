// ABOUTME: Embedding-based validator: segment, embed, cosine-compare, threshold
// ABOUTME: Supports pairwise comparison and indexed vector-store search as alternative modes
package validate

import (
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/harper/rulekeeper/internal/models"
	"github.com/harper/rulekeeper/internal/segment"
	"github.com/harper/rulekeeper/internal/vector"
)

// DefaultThreshold is the similarity score at which two segments are
// considered overlapping.
const DefaultThreshold = 0.8

// DefaultSearchLimit caps indexed-mode hits per candidate segment.
const DefaultSearchLimit = 5

// EmbeddingValidator rejects candidates whose segments score at or above the
// similarity threshold against previously stored segments. When a vector
// store is attached it searches the persistent index (indexed mode);
// otherwise it embeds and compares every segment of every existing rule
// (pairwise mode).
type EmbeddingValidator struct {
	embedder    Embedder
	segmenter   *segment.Segmenter
	store       vector.Store // nil selects pairwise mode
	threshold   float64
	searchLimit int
	logger      *log.Logger
}

// NewEmbeddingValidator creates a validator in pairwise mode.
func NewEmbeddingValidator(embedder Embedder, segmenter *segment.Segmenter, threshold float64) *EmbeddingValidator {
	return &EmbeddingValidator{
		embedder:    embedder,
		segmenter:   segmenter,
		threshold:   threshold,
		searchLimit: DefaultSearchLimit,
		logger:      log.Default(),
	}
}

// NewIndexedValidator creates a validator in indexed mode, backed by a
// persistent vector store. Indexed mode is preferred when an index is
// available; the existing-rule list is then only used for display metadata.
func NewIndexedValidator(embedder Embedder, segmenter *segment.Segmenter, store vector.Store, threshold float64, searchLimit int) *EmbeddingValidator {
	if searchLimit <= 0 {
		searchLimit = DefaultSearchLimit
	}
	return &EmbeddingValidator{
		embedder:    embedder,
		segmenter:   segmenter,
		store:       store,
		threshold:   threshold,
		searchLimit: searchLimit,
		logger:      log.Default(),
	}
}

// SetLogger replaces the validator's logger.
func (v *EmbeddingValidator) SetLogger(logger *log.Logger) {
	v.logger = logger
}

// Validate decides whether the candidate may be added. All matches at or
// above threshold are reported in encounter order; any match rejects the
// candidate. Embedding failures for individual segments are logged and
// skipped rather than aborting the decision.
func (v *EmbeddingValidator) Validate(candidate models.Rule, existing []models.Rule) (*models.ValidationResult, error) {
	// Empty context has no meaningful content to compare
	if strings.TrimSpace(candidate.Context) == "" {
		return v.accept(candidate, MsgEmptyContext), nil
	}

	segments := v.segmenter.Embeddable(candidate.Context)
	if len(segments) == 0 {
		return v.accept(candidate, MsgValid), nil
	}

	var priors []prior
	if v.store == nil {
		priors = v.embedPriors(candidate.RuleID, existing)
	}

	var overlaps []models.Overlap
	for _, seg := range segments {
		vec, err := v.embedder.GenerateEmbedding(seg)
		if err != nil {
			v.logger.Warn("skipping segment, embedding failed", "segment", seg, "err", err)
			continue
		}

		if v.store != nil {
			overlaps = append(overlaps, v.searchIndex(candidate.RuleID, seg, vec)...)
		} else {
			overlaps = append(overlaps, matchPriors(seg, vec, priors, v.threshold)...)
		}
	}

	if len(overlaps) > 0 {
		return &models.ValidationResult{
			IsValid:  false,
			Message:  MsgOverlap,
			Overlaps: overlaps,
		}, nil
	}

	return v.accept(candidate, MsgValid), nil
}

// IndexRule embeds every qualifying segment of an accepted rule and stores
// the embeddings so later validations can find it as a prior. Requires a
// vector store.
func (v *EmbeddingValidator) IndexRule(rule models.Rule) error {
	if v.store == nil {
		return nil
	}

	createdAt := rule.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	for _, seg := range v.segmenter.Embeddable(rule.Context) {
		vec, err := v.embedder.GenerateEmbedding(seg)
		if err != nil {
			v.logger.Warn("not indexing segment, embedding failed", "rule_id", rule.RuleID, "segment", seg, "err", err)
			continue
		}

		emb := models.SegmentEmbedding{
			SegmentID: "seg_" + uuid.New().String(),
			RuleID:    rule.RuleID,
			Text:      seg,
			Title:     rule.Title,
			Vector:    vec,
			CreatedAt: createdAt,
		}
		if err := v.store.Save(emb); err != nil {
			return err
		}
	}
	return nil
}

// RemoveRule purges the rule's stored embeddings from the vector store.
func (v *EmbeddingValidator) RemoveRule(ruleID string) error {
	if v.store == nil {
		return nil
	}
	return v.store.DeleteByRule(ruleID)
}

// accept builds the valid result, assigning a fresh id unless the candidate
// already carries one (update path).
func (v *EmbeddingValidator) accept(candidate models.Rule, message string) *models.ValidationResult {
	ruleID := candidate.RuleID
	if ruleID == "" {
		ruleID = uuid.New().String()
	}
	return &models.ValidationResult{
		IsValid: true,
		Message: message,
		RuleID:  ruleID,
	}
}

// searchIndex queries the vector store for one candidate segment. Store
// failures are logged and treated as no matches; the rule store stays the
// source of truth.
func (v *EmbeddingValidator) searchIndex(excludeRuleID, seg string, vec []float64) []models.Overlap {
	hits, err := v.store.Search(vec, v.threshold, v.searchLimit)
	if err != nil {
		v.logger.Warn("vector search failed, segment not compared", "segment", seg, "err", err)
		return nil
	}

	var overlaps []models.Overlap
	for _, hit := range hits {
		if excludeRuleID != "" && hit.RuleID == excludeRuleID {
			continue
		}
		overlaps = append(overlaps, models.Overlap{
			Segment:        seg,
			MatchedSegment: hit.Text,
			MatchedRuleID:  hit.RuleID,
			MatchedTitle:   hit.Title,
			Similarity:     vector.RoundScore(hit.Similarity),
		})
	}
	return overlaps
}

// prior is one embedded segment of an existing rule, for pairwise mode.
type prior struct {
	text   string
	ruleID string
	title  string
	vec    []float64
}

// embedPriors embeds every qualifying segment of every existing rule,
// excluding the rule being updated. Per-segment failures are skipped.
func (v *EmbeddingValidator) embedPriors(excludeRuleID string, existing []models.Rule) []prior {
	var priors []prior
	for _, rule := range existing {
		if excludeRuleID != "" && rule.RuleID == excludeRuleID {
			continue
		}
		for _, seg := range v.segmenter.Embeddable(rule.Context) {
			vec, err := v.embedder.GenerateEmbedding(seg)
			if err != nil {
				v.logger.Warn("skipping prior segment, embedding failed", "rule_id", rule.RuleID, "segment", seg, "err", err)
				continue
			}
			priors = append(priors, prior{text: seg, ruleID: rule.RuleID, title: rule.Title, vec: vec})
		}
	}
	return priors
}

// matchPriors compares one candidate segment against all embedded priors.
func matchPriors(seg string, vec []float64, priors []prior, threshold float64) []models.Overlap {
	var overlaps []models.Overlap
	for _, p := range priors {
		score := vector.CosineSimilarity(vec, p.vec)
		if score < threshold {
			continue
		}
		overlaps = append(overlaps, models.Overlap{
			Segment:        seg,
			MatchedSegment: p.text,
			MatchedRuleID:  p.ruleID,
			MatchedTitle:   p.title,
			Similarity:     vector.RoundScore(score),
		})
	}
	return overlaps
}
