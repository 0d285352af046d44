// ABOUTME: CLI command to delete a rule
// ABOUTME: Removes the rule record and best-effort purges its embeddings
package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/joho/godotenv"
)

// NewDeleteCmd creates delete command
func NewDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <rule-id|position>",
		Short: "Delete a rule",
		Long: `Delete a rule by identifier or by its position in the list.

The rule record is removed first; deleting its stored segment embeddings
is best-effort and never blocks the deletion.

Examples:
  rules delete 3f1c9a50-...
  rules delete 2`,
		Args: cobra.ExactArgs(1),
		RunE: runDelete,
	}

	return cmd
}

func runDelete(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	a, err := openApp(false)
	if err != nil {
		return err
	}
	defer a.close()

	ref := args[0]

	// A small integer argument is a 1-based display position
	if pos, convErr := strconv.Atoi(ref); convErr == nil {
		if err := a.manager.DeleteRuleAt(pos - 1); err != nil {
			return err
		}
	} else if err := a.manager.DeleteRule(ref); err != nil {
		return err
	}

	if !quiet {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "✓ Rule %s deleted\n", ref)
	}
	return nil
}
