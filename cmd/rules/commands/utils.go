// ABOUTME: Shared utility functions for CLI commands
// ABOUTME: Rendering helpers for validation results, rules, and timestamps
package commands

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/harper/rulekeeper/internal/models"
	"github.com/spf13/cobra"
)

// printJSON writes v as indented JSON to the command's stdout
func printJSON(cmd *cobra.Command, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling output: %w", err)
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

// printResult writes the validation result in the selected output format and
// reports whether the rule was rejected. Rejection is reported the same way
// for every format so the exit status never depends on --format.
func printResult(cmd *cobra.Command, result *models.ValidationResult) (bool, error) {
	if format == "json" {
		if err := printJSON(cmd, result); err != nil {
			return false, err
		}
		return !result.IsValid, nil
	}
	if result.IsValid {
		return false, nil
	}
	printRejection(cmd, result)
	return true, nil
}

// printRejection renders a negative validation result with its evidence
func printRejection(cmd *cobra.Command, result *models.ValidationResult) {
	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "✗ %s\n", result.Message)

	for _, o := range result.Overlaps {
		_, _ = fmt.Fprintf(out, "  %q\n", o.Segment)
		_, _ = fmt.Fprintf(out, "    matches %q (similarity %.3f)\n", o.MatchedSegment, o.Similarity)
		if o.MatchedTitle != "" {
			_, _ = fmt.Fprintf(out, "    from rule: %s (%s)\n", o.MatchedTitle, o.MatchedRuleID)
		} else {
			_, _ = fmt.Fprintf(out, "    from rule: %s\n", o.MatchedRuleID)
		}
	}

	if a := result.Analysis; a != nil {
		for _, c := range a.DirectContradictions {
			_, _ = fmt.Fprintf(out, "  contradiction: %s\n", c)
		}
		for _, s := range a.AmbiguousStatements {
			_, _ = fmt.Fprintf(out, "  ambiguous: %s\n", s)
		}
		for _, r := range a.RedundantRules {
			_, _ = fmt.Fprintf(out, "  redundant: %s\n", r)
		}
		if a.Summary != "" {
			_, _ = fmt.Fprintf(out, "  summary: %s\n", a.Summary)
		}
	}
}

// truncate shortens a string to maxLen, adding "..." if truncated
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return string(runes[:maxLen-3]) + "..."
}

// formatTime formats a time for display
func formatTime(t time.Time) string {
	now := time.Now()
	diff := now.Sub(t)

	if diff < time.Minute {
		return "just now"
	} else if diff < time.Hour {
		mins := int(diff.Minutes())
		return fmt.Sprintf("%dm ago", mins)
	} else if diff < 24*time.Hour {
		hours := int(diff.Hours())
		return fmt.Sprintf("%dh ago", hours)
	} else if diff < 7*24*time.Hour {
		days := int(diff.Hours() / 24)
		return fmt.Sprintf("%dd ago", days)
	}
	return t.Format("2006-01-02")
}
