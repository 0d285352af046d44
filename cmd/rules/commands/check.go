// ABOUTME: CLI command to check rule text without saving it
// ABOUTME: Runs the validator and prints the verdict with overlap evidence
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joho/godotenv"
)

var checkFile string

// NewCheckCmd creates check command
func NewCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [text]",
		Short: "Check rule text for overlap without saving",
		Long: `Check rule text for semantic overlap against accepted rules.

Nothing is persisted; the verdict and any overlap evidence are printed.

Examples:
  rules check "Payment processing must use secure channels."
  rules check --file draft.txt
  rules check --format json "..."`,
		Args: cobra.MaximumNArgs(1),
		RunE: runCheck,
	}

	cmd.Flags().StringVar(&checkFile, "file", "", "Read rule content from file")

	return cmd
}

func runCheck(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	text, err := readRuleText(args, checkFile)
	if err != nil {
		return err
	}

	a, err := openApp(true)
	if err != nil {
		return err
	}
	defer a.close()

	result, err := a.manager.CheckRule(text)
	if err != nil {
		return fmt.Errorf("checking rule: %w", err)
	}

	rejected, err := printResult(cmd, result)
	if err != nil {
		return err
	}
	if rejected {
		return fmt.Errorf("overlap found")
	}

	if format != "json" && !quiet {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "✓ No overlap found")
	}
	return nil
}
