package commands

import (
	"github.com/spf13/cobra"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
// The root command itself runs a full import of one statement.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "finsheet <csv_file> <bank>",
		Short: "Categorize a bank statement and add it to the finance spreadsheet",
		Long: `finsheet normalizes a bank statement export named <Month>_<Year>.csv,
labels every transaction with a spending category, writes the rows into the
month's block on the year tab and adds the month's totals to the Master tab.`,
		Args: cobra.ExactArgs(2),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceErrors: true,
		// Usage is printed for argument errors only; failures after the
		// arguments are accepted report just the error.
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SilenceUsage = true
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, args[0], args[1])
		},
	}

	rootCmd.AddCommand(newCategorizeCommand())
	rootCmd.AddCommand(newUpdateCommand())
	rootCmd.AddCommand(newHistoryCommand())

	return rootCmd
}
