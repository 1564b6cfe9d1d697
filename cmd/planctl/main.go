// Command planctl evaluates savings plans from the terminal and manages tax table files.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "planctl",
		Short: "Tax-advantaged savings plan calculator",
		Long: `planctl builds a prioritized HSA, employer plan and IRA action plan
from income, filing status and age.

Available subcommands:
  plan   - Evaluate a plan for one saver
  tables - Validate or export tax table files`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newPlanCmd())
	rootCmd.AddCommand(newTablesCmd())
	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
