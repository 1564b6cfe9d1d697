package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/simaogato/savingsplan-backend/internal/config"
	"github.com/simaogato/savingsplan-backend/internal/domain"
)

// newTablesCmd groups the tax table file commands
func newTablesCmd() *cobra.Command {
	tablesCmd := &cobra.Command{
		Use:   "tables",
		Short: "Validate or export tax table files",
	}

	tablesCmd.AddCommand(&cobra.Command{
		Use:   "validate <file>",
		Short: "Check that a YAML tax table is complete and consistent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := config.LoadTaxTable(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: tax year %d is valid\n", args[0], table.TaxYear)
			return nil
		},
	})

	var outFile string
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Write the built-in tax table as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if outFile == "" {
				return config.EncodeTaxTable(cmd.OutOrStdout(), domain.DefaultTaxTable())
			}

			f, err := os.Create(outFile)
			if err != nil {
				return err
			}
			defer f.Close()
			if err := config.EncodeTaxTable(f, domain.DefaultTaxTable()); err != nil {
				return err
			}
			return f.Close()
		},
	}
	exportCmd.Flags().StringVarP(&outFile, "output", "o", "", "Output file (default: stdout)")
	tablesCmd.AddCommand(exportCmd)

	return tablesCmd
}
