// ABOUTME: Core rule model for the rulekeeper system
// ABOUTME: A rule is free-text content with a generated title and identity
package models

import "time"

// Rule is one accepted statement in the registry. RuleID is empty while a
// candidate is still being validated and is assigned on acceptance.
type Rule struct {
	RuleID    string    `json:"rule_id,omitempty"`
	Title     string    `json:"title"`
	Context   string    `json:"context"`
	CreatedAt time.Time `json:"created_at"`
}

// IsAccepted reports whether the rule has been assigned an identifier,
// which happens only when validation accepts it.
func (r Rule) IsAccepted() bool {
	return r.RuleID != ""
}
