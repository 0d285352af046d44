// ABOUTME: Rule lifecycle orchestration: add, check, update, delete, list
// ABOUTME: Coordinates title generation, validation, the rule store and the segment index
package manager

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/harper/rulekeeper/internal/models"
	"github.com/harper/rulekeeper/internal/rules"
	"github.com/harper/rulekeeper/internal/validate"
)

// errNoValidator is returned when validation is requested but no provider
// was configured (no API key).
var errNoValidator = fmt.Errorf("no validator configured - set OPENAI_API_KEY")

// TitleGenerator produces a short human-readable label for a rule's text.
type TitleGenerator interface {
	GenerateTitle(ruleContext string) (string, error)
}

// Manager runs rule lifecycle operations. The rule store is the source of
// truth; the segment index is derived data kept in lockstep best-effort.
// All state lives in the injected collaborators.
type Manager struct {
	rules   *rules.Store
	check   validate.Validator
	indexer validate.Indexer // nil when no persistent index is configured
	titles  TitleGenerator   // nil falls back to derived titles
	logger  *log.Logger
}

// New creates a Manager. indexer and titles may be nil.
func New(store *rules.Store, validator validate.Validator, indexer validate.Indexer, titles TitleGenerator) *Manager {
	return &Manager{
		rules:   store,
		check:   validator,
		indexer: indexer,
		titles:  titles,
		logger:  log.Default(),
	}
}

// SetLogger replaces the manager's logger.
func (m *Manager) SetLogger(logger *log.Logger) {
	m.logger = logger
}

// ListRules returns all accepted rules in insertion order.
func (m *Manager) ListRules() []models.Rule {
	return m.rules.List()
}

// GetRule returns the rule with the given id, or nil.
func (m *Manager) GetRule(ruleID string) *models.Rule {
	return m.rules.Get(ruleID)
}

// GetRuleByPosition returns the rule at the zero-based display position.
func (m *Manager) GetRuleByPosition(pos int) *models.Rule {
	return m.rules.GetByPosition(pos)
}

// CheckRule validates candidate text against the accepted rules without
// persisting anything.
func (m *Manager) CheckRule(ruleContext string) (*models.ValidationResult, error) {
	if m.check == nil {
		return nil, errNoValidator
	}
	candidate := models.Rule{Context: ruleContext}
	return m.check.Validate(candidate, m.rules.List())
}

// AddRule titles, validates and persists a new rule. On rejection the
// validation result is returned untouched with a nil rule; the caller
// renders the detail.
func (m *Manager) AddRule(ruleContext string) (*models.ValidationResult, *models.Rule, error) {
	if m.check == nil {
		return nil, nil, errNoValidator
	}
	candidate := models.Rule{
		Title:     m.generateTitle(ruleContext),
		Context:   ruleContext,
		CreatedAt: time.Now(),
	}

	result, err := m.check.Validate(candidate, m.rules.List())
	if err != nil {
		return nil, nil, fmt.Errorf("validating rule: %w", err)
	}
	if !result.IsValid {
		return result, nil, nil
	}

	candidate.RuleID = result.RuleID
	if err := m.rules.Append(candidate); err != nil {
		return nil, nil, fmt.Errorf("storing rule: %w", err)
	}

	// Index failures leave the rule accepted; the rule store is the
	// source of truth
	if m.indexer != nil {
		if err := m.indexer.IndexRule(candidate); err != nil {
			m.logger.Warn("failed to index rule segments", "rule_id", candidate.RuleID, "err", err)
		}
	}

	return result, &candidate, nil
}

// UpdateRule re-validates edited content against all other rules, then
// purges the old embeddings, rewrites the rule in place with a regenerated
// title, and re-indexes the new content. The identifier is preserved.
func (m *Manager) UpdateRule(ruleID, newContext string) (*models.ValidationResult, *models.Rule, error) {
	if m.check == nil {
		return nil, nil, errNoValidator
	}
	if m.rules.Get(ruleID) == nil {
		return nil, nil, fmt.Errorf("rule not found: %s", ruleID)
	}

	candidate := models.Rule{
		RuleID:    ruleID,
		Title:     m.generateTitle(newContext),
		Context:   newContext,
		CreatedAt: time.Now(),
	}

	result, err := m.check.Validate(candidate, m.rules.List())
	if err != nil {
		return nil, nil, fmt.Errorf("validating rule: %w", err)
	}
	if !result.IsValid {
		return result, nil, nil
	}

	// Old embeddings are purged before the new ones are written
	if m.indexer != nil {
		if err := m.indexer.RemoveRule(ruleID); err != nil {
			m.logger.Warn("failed to purge old rule segments", "rule_id", ruleID, "err", err)
		}
	}

	if err := m.rules.Update(ruleID, candidate); err != nil {
		return nil, nil, fmt.Errorf("updating rule: %w", err)
	}

	if m.indexer != nil {
		if err := m.indexer.IndexRule(candidate); err != nil {
			m.logger.Warn("failed to index rule segments", "rule_id", ruleID, "err", err)
		}
	}

	return result, &candidate, nil
}

// DeleteRule removes a rule and best-effort deletes its embeddings. An
// embedding deletion failure is logged, not returned: orphaned embeddings
// are an accepted inconsistency.
func (m *Manager) DeleteRule(ruleID string) error {
	if err := m.rules.Delete(ruleID); err != nil {
		return err
	}

	if m.indexer != nil {
		if err := m.indexer.RemoveRule(ruleID); err != nil {
			m.logger.Warn("rule deleted but embeddings not purged", "rule_id", ruleID, "err", err)
		}
	}

	return nil
}

// DeleteRuleAt removes the rule at the zero-based display position.
func (m *Manager) DeleteRuleAt(pos int) error {
	rule := m.GetRuleByPosition(pos)
	if rule == nil {
		return fmt.Errorf("no rule at position %d", pos)
	}
	return m.DeleteRule(rule.RuleID)
}

// generateTitle asks the title generator, falling back to a title derived
// from the context when the provider fails or is absent.
func (m *Manager) generateTitle(ruleContext string) string {
	if m.titles != nil {
		title, err := m.titles.GenerateTitle(ruleContext)
		if err == nil && title != "" {
			return title
		}
		if err != nil {
			m.logger.Warn("title generation failed, deriving fallback", "err", err)
		}
	}
	return FallbackTitle(ruleContext)
}

// FallbackTitle derives a display title from the first characters of the
// rule's context.
func FallbackTitle(ruleContext string) string {
	text := strings.Join(strings.Fields(ruleContext), " ")
	if text == "" {
		return "Untitled rule"
	}
	runes := []rune(text)
	if len(runes) <= 30 {
		return "Rule - " + text
	}
	return "Rule - " + string(runes[:30]) + "..."
}
