// ABOUTME: Root CLI command with global flags and subcommand registration
// ABOUTME: Entry point for all rulekeeper CLI operations
package commands

import (
	"github.com/spf13/cobra"
)

var (
	verbose bool
	quiet   bool
	format  string
)

const banner = `
██████╗ ██╗   ██╗██╗     ███████╗███████╗
██╔══██╗██║   ██║██║     ██╔════╝██╔════╝
██████╔╝██║   ██║██║     █████╗  ███████╗
██╔══██╗██║   ██║██║     ██╔══╝  ╚════██║
██║  ██║╚██████╔╝███████╗███████╗███████║
╚═╝  ╚═╝ ╚═════╝ ╚══════╝╚══════╝╚══════╝`

// NewRootCmd creates the root command with all subcommands
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Rule registry with semantic deduplication",
		Long: banner + `

Rulekeeper stores free-text rules, auto-titles them with an LLM, and
rejects rules that semantically overlap previously accepted ones.

Each non-blank line of a rule is embedded and compared against every
stored rule segment; matches at or above the similarity threshold are
reported with the conflicting text and score.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-essential output")
	cmd.PersistentFlags().StringVar(&format, "format", "auto", "Output format (auto, text, json)")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	cmd.AddCommand(
		NewAddCmd(),
		NewListCmd(),
		NewCheckCmd(),
		NewUpdateCmd(),
		NewDeleteCmd(),
		NewMCPCmd(),
		NewVersionCmd(),
	)

	return cmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}
