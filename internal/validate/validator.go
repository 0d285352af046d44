// ABOUTME: Validator contract shared by the embedding and LLM strategies
// ABOUTME: Also defines the collaborator interfaces the strategies depend on
package validate

import "github.com/harper/rulekeeper/internal/models"

// Messages surfaced on validation results.
const (
	MsgValid        = "Rule is valid"
	MsgOverlap      = "Semantic overlap detected"
	MsgIssuesFound  = "Issues detected in rule validation"
	MsgEmptyContext = "Rule has no content to compare"
)

// Validator decides whether a candidate rule may join the existing set.
// Implementations are interchangeable strategies selected by configuration.
//
// A candidate with a non-empty RuleID is an update: matches against that id
// are never reported, and the id is preserved on the valid path. A candidate
// with an empty RuleID gets a fresh identifier when accepted. Validate does
// not persist anything; index maintenance is the Indexer's job.
type Validator interface {
	Validate(candidate models.Rule, existing []models.Rule) (*models.ValidationResult, error)
}

// Embedder maps a text segment to a fixed-length vector.
type Embedder interface {
	GenerateEmbedding(text string) ([]float64, error)
}

// Completer sends a prompt pair to a text-generation model. The reply has no
// guaranteed structure.
type Completer interface {
	Complete(systemPrompt, userPrompt string, temperature float32) (string, error)
}

// Indexer maintains the persistent segment index for accepted rules so that
// later validations can find them as priors.
type Indexer interface {
	// IndexRule embeds every qualifying segment of the rule and stores the
	// embeddings tagged with the rule's id, title and creation time.
	IndexRule(rule models.Rule) error

	// RemoveRule purges every stored embedding owned by the rule.
	RemoveRule(ruleID string) error
}
