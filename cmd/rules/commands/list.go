// ABOUTME: CLI command to list accepted rules
// ABOUTME: Tabular or JSON output of the rule repository
package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/joho/godotenv"
)

var listFull bool

// NewListCmd creates list command
func NewListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List accepted rules",
		Long: `List accepted rules in insertion order.

Examples:
  rules list
  rules list --full
  rules list --format json`,
		RunE: runList,
	}

	cmd.Flags().BoolVar(&listFull, "full", false, "Show full rule content")

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	a, err := openApp(false)
	if err != nil {
		return err
	}
	defer a.close()

	ruleList := a.manager.ListRules()

	if format == "json" {
		return printJSON(cmd, ruleList)
	}

	if len(ruleList) == 0 {
		if !quiet {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No rules stored yet.")
		}
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "#\tTITLE\tCREATED\tID")
	for i, rule := range ruleList {
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", i+1, truncate(rule.Title, 40), formatTime(rule.CreatedAt), rule.RuleID)
	}
	_ = w.Flush()

	if listFull {
		for i, rule := range ruleList {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "\n%d. %s\n%s\n", i+1, rule.Title, rule.Context)
		}
	}

	return nil
}
