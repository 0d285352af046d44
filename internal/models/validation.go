// ABOUTME: Validation result structures shared by all validator strategies
// ABOUTME: Defines Overlap evidence, LLM analysis, and the ValidationResult envelope
package models

// Overlap is one piece of evidence that a candidate segment matched a
// previously stored segment at or above the similarity threshold.
type Overlap struct {
	Segment        string  `json:"segment"`
	MatchedSegment string  `json:"matched_segment"`
	MatchedRuleID  string  `json:"matched_rule_id"`
	MatchedTitle   string  `json:"matched_title,omitempty"`
	Similarity     float64 `json:"similarity"`
}

// RuleAnalysis is the structured output of the LLM-based validator, parsed
// from the model's fixed textual response schema.
type RuleAnalysis struct {
	CanCoexist           bool     `json:"can_coexist"`
	DirectContradictions []string `json:"direct_contradictions"`
	AmbiguousStatements  []string `json:"ambiguous_statements"`
	RedundantRules       []string `json:"redundant_rules"`
	Grouping             string   `json:"grouping,omitempty"`
	Summary              string   `json:"summary,omitempty"`
}

// ValidationResult is the outcome of validating one candidate rule. RuleID
// is set only when the candidate is accepted. Overlaps carries embedding
// evidence; Analysis carries LLM evidence. Results are produced fresh per
// call and never persisted.
type ValidationResult struct {
	IsValid  bool          `json:"is_valid"`
	Message  string        `json:"message"`
	Overlaps []Overlap     `json:"overlaps,omitempty"`
	Analysis *RuleAnalysis `json:"analysis,omitempty"`
	RuleID   string        `json:"rule_id,omitempty"`
}

// MatchedRuleIDs returns the distinct rule identifiers referenced by the
// overlap evidence, in encounter order.
func (r *ValidationResult) MatchedRuleIDs() []string {
	seen := make(map[string]bool)
	var ids []string
	for _, o := range r.Overlaps {
		if o.MatchedRuleID == "" || seen[o.MatchedRuleID] {
			continue
		}
		seen[o.MatchedRuleID] = true
		ids = append(ids, o.MatchedRuleID)
	}
	return ids
}
