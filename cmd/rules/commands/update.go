// ABOUTME: CLI command to update an existing rule's content
// ABOUTME: Re-validates against all other rules and replaces content in place
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joho/godotenv"
)

var updateFile string

// NewUpdateCmd creates update command
func NewUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <rule-id> [text]",
		Short: "Update an existing rule",
		Long: `Update an existing rule's content.

The new content is re-validated against all other rules (the rule being
edited is excluded from the comparison). On success the old segment
embeddings are purged, the title is regenerated, and the identifier is
preserved.

Examples:
  rules update 3f1c... "Refunds are issued within 14 days."
  rules update 3f1c... --file revised.txt`,
		Args: cobra.RangeArgs(1, 2),
		RunE: runUpdate,
	}

	cmd.Flags().StringVar(&updateFile, "file", "", "Read replacement content from file")

	return cmd
}

func runUpdate(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	ruleID := args[0]
	text, err := readRuleText(args[1:], updateFile)
	if err != nil {
		return err
	}

	a, err := openApp(true)
	if err != nil {
		return err
	}
	defer a.close()

	result, rule, err := a.manager.UpdateRule(ruleID, text)
	if err != nil {
		return fmt.Errorf("updating rule: %w", err)
	}

	rejected, err := printResult(cmd, result)
	if err != nil {
		return err
	}
	if rejected {
		return fmt.Errorf("update rejected")
	}

	if format != "json" && !quiet {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "✓ Rule updated: %s\n", rule.Title)
	}
	return nil
}
