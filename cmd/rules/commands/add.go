// ABOUTME: CLI command to add a new rule
// ABOUTME: Titles, validates, and persists the rule, or prints the rejection detail
package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joho/godotenv"
)

var addFile string

// NewAddCmd creates add command
func NewAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add [text]",
		Short: "Add a new rule",
		Long: `Add a new rule from text, file, or stdin.

The rule is auto-titled, each non-blank line is checked for semantic
overlap against previously accepted rules, and the rule is saved only
if no overlap is found.

Examples:
  rules add "Payments must be encrypted."
  rules add --file policy.txt
  cat policy.txt | rules add`,
		Args: cobra.MaximumNArgs(1),
		RunE: runAdd,
	}

	cmd.Flags().StringVar(&addFile, "file", "", "Read rule content from file")

	return cmd
}

func runAdd(cmd *cobra.Command, args []string) error {
	// Load .env for API keys
	_ = godotenv.Load()

	text, err := readRuleText(args, addFile)
	if err != nil {
		return err
	}

	a, err := openApp(true)
	if err != nil {
		return err
	}
	defer a.close()

	result, rule, err := a.manager.AddRule(text)
	if err != nil {
		return fmt.Errorf("adding rule: %w", err)
	}

	rejected, err := printResult(cmd, result)
	if err != nil {
		return err
	}
	if rejected {
		return fmt.Errorf("rule rejected")
	}

	if format != "json" && !quiet {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "✓ Rule saved: %s\n", rule.Title)
		if verbose {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "  id: %s\n", rule.RuleID)
		}
	}
	return nil
}

// readRuleText reads the rule content from the file flag, argument, or stdin.
func readRuleText(args []string, file string) (string, error) {
	var text string
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("reading file: %w", err)
		}
		text = string(data)
	} else if len(args) > 0 {
		text = args[0]
	} else {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		text = string(data)
	}

	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("no rule text provided")
	}
	return text, nil
}
