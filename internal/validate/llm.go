// ABOUTME: LLM-based validator: sends the full rule set to a chat model
// ABOUTME: Parses a fixed textual response schema into a ValidationResult
package validate

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/harper/rulekeeper/internal/models"
)

const llmSystemPrompt = `You are a rule validation assistant. Your task is to:
1. Check for direct contradictions between rules, ignoring hypothetical cases
2. Ignore potential or indirect contradictions
3. Identify ambiguous statements
4. Detect directly redundant rules
5. Ignore potential or indirect redundancies between rules
6. A rule with narrower scope is not redundant with a broader rule
7. Use only the given rules; do not make assumptions
8. Do not suggest additions or modifications to rules
9. Group similar entities together
10. Respond with a structured analysis`

// Response schema line prefixes the parser looks for.
const (
	prefixCoexist       = "Can coexist with other rules:"
	prefixContradiction = "Direct Contradictions:"
	prefixAmbiguous     = "Ambiguous Statements:"
	prefixRedundant     = "Redundant Rules:"
	prefixGrouping      = "Grouping of Similar Entities:"
	prefixSummary       = "Structured Analysis Summary:"
)

// LLMValidator asks a text-generation model to judge contradictions,
// ambiguities and redundancies. Strictly less precise than the embedding
// strategy: the verdict depends on free-text parsing of the model's reply.
type LLMValidator struct {
	completer Completer
	logger    *log.Logger
}

// NewLLMValidator creates an LLM-backed validator.
func NewLLMValidator(completer Completer) *LLMValidator {
	return &LLMValidator{
		completer: completer,
		logger:    log.Default(),
	}
}

// SetLogger replaces the validator's logger.
func (v *LLMValidator) SetLogger(logger *log.Logger) {
	v.logger = logger
}

// Validate sends existing rules and the candidate to the model and parses
// the fixed response schema. A model failure rejects the candidate with the
// error in the analysis summary, never with a Go error: the caller always
// gets a renderable result.
func (v *LLMValidator) Validate(candidate models.Rule, existing []models.Rule) (*models.ValidationResult, error) {
	if strings.TrimSpace(candidate.Context) == "" {
		return v.accept(candidate, MsgEmptyContext, nil), nil
	}

	// Update exclusion: leave the edited rule out of the prompt
	var others []models.Rule
	for _, rule := range existing {
		if candidate.RuleID != "" && rule.RuleID == candidate.RuleID {
			continue
		}
		others = append(others, rule)
	}

	reply, err := v.completer.Complete(llmSystemPrompt, buildPrompt(candidate, others), 1.0)
	if err != nil {
		v.logger.Error("rule analysis failed", "err", err)
		return &models.ValidationResult{
			IsValid: false,
			Message: MsgIssuesFound,
			Analysis: &models.RuleAnalysis{
				Summary: fmt.Sprintf("Error in analysis: %v", err),
			},
		}, nil
	}

	analysis := parseAnalysis(reply)

	hasIssues := !analysis.CanCoexist ||
		len(analysis.DirectContradictions) > 0 ||
		len(analysis.AmbiguousStatements) > 0 ||
		len(analysis.RedundantRules) > 0

	if hasIssues {
		return &models.ValidationResult{
			IsValid:  false,
			Message:  MsgIssuesFound,
			Analysis: analysis,
		}, nil
	}

	return v.accept(candidate, MsgValid, analysis), nil
}

func (v *LLMValidator) accept(candidate models.Rule, message string, analysis *models.RuleAnalysis) *models.ValidationResult {
	ruleID := candidate.RuleID
	if ruleID == "" {
		ruleID = uuid.New().String()
	}
	return &models.ValidationResult{
		IsValid:  true,
		Message:  message,
		Analysis: analysis,
		RuleID:   ruleID,
	}
}

// buildPrompt formats the existing rules and the candidate for the model,
// spelling out the exact response schema the parser expects.
func buildPrompt(candidate models.Rule, existing []models.Rule) string {
	var sb strings.Builder

	sb.WriteString("Existing rules:\n")
	if len(existing) == 0 {
		sb.WriteString("(none)\n")
	}
	for i, rule := range existing {
		data, err := json.Marshal(rule)
		if err != nil {
			continue
		}
		fmt.Fprintf(&sb, "%d. %s\n", i+1, data)
	}

	candidateJSON, _ := json.Marshal(candidate)
	fmt.Fprintf(&sb, "\nNew rule to validate:\n%s\n", candidateJSON)

	sb.WriteString(`
Please carefully analyze the new rule.

Format your response exactly as follows:

Can coexist with other rules: [true/false]
Direct Contradictions: [list of contradictions]
Ambiguous Statements: [list of ambiguous statements]
Redundant Rules: [list of redundant rules]
Grouping of Similar Entities: [grouping details]
Structured Analysis Summary: [summary]
`)

	return sb.String()
}

// parseAnalysis extracts the structured fields from the model's reply.
// Missing or malformed lines degrade to empty values; an absent coexist
// line counts as "cannot coexist" so garbage replies reject rather than
// silently accept.
func parseAnalysis(reply string) *models.RuleAnalysis {
	analysis := &models.RuleAnalysis{}

	for _, line := range strings.Split(reply, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, prefixCoexist):
			analysis.CanCoexist = strings.Contains(strings.ToLower(after(line, prefixCoexist)), "true")
		case strings.HasPrefix(line, prefixContradiction):
			analysis.DirectContradictions = parseList(after(line, prefixContradiction))
		case strings.HasPrefix(line, prefixAmbiguous):
			analysis.AmbiguousStatements = parseList(after(line, prefixAmbiguous))
		case strings.HasPrefix(line, prefixRedundant):
			analysis.RedundantRules = parseList(after(line, prefixRedundant))
		case strings.HasPrefix(line, prefixGrouping):
			analysis.Grouping = after(line, prefixGrouping)
		case strings.HasPrefix(line, prefixSummary):
			analysis.Summary = after(line, prefixSummary)
		}
	}

	return analysis
}

func after(line, prefix string) string {
	return strings.TrimSpace(strings.TrimPrefix(line, prefix))
}

// parseList splits a bracketed, comma-separated model answer into items,
// dropping empty and "none" placeholders.
func parseList(value string) []string {
	value = strings.TrimSpace(strings.Trim(strings.TrimSpace(value), "[]"))
	if value == "" {
		return nil
	}

	var items []string
	for _, item := range strings.Split(value, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		switch strings.ToLower(item) {
		case "none", "n/a", "nothing":
			continue
		}
		items = append(items, item)
	}
	return items
}
