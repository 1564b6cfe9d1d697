package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/simaogato/savingsplan-backend/internal/adapter/cache"
	"github.com/simaogato/savingsplan-backend/internal/adapter/repository/memory"
	"github.com/simaogato/savingsplan-backend/internal/config"
	"github.com/simaogato/savingsplan-backend/internal/domain"
	"github.com/simaogato/savingsplan-backend/internal/usecase/planner"
	"github.com/simaogato/savingsplan-backend/internal/usecase/recommendation"
)

type planOptions struct {
	income     string
	filing     string
	age        int
	tablesFile string
	asJSON     bool
}

// newPlanCmd evaluates one plan against the built-in or a file-supplied tax table
func newPlanCmd() *cobra.Command {
	opts := &planOptions{}

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Evaluate a savings plan",
		Example: `  planctl plan --income 75000 --filing mfj --age 30
  planctl plan --income 260000 --filing single --age 52 --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.income, "income", "", "Annual income in dollars (required)")
	cmd.Flags().StringVar(&opts.filing, "filing", "single", "Filing status: single or mfj")
	cmd.Flags().IntVar(&opts.age, "age", -1, "Age in whole years (required)")
	cmd.Flags().StringVar(&opts.tablesFile, "tables", "", "YAML tax table file (default: built-in table)")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "Print the plan as JSON")
	_ = cmd.MarkFlagRequired("income")
	_ = cmd.MarkFlagRequired("age")

	return cmd
}

func runPlan(cmd *cobra.Command, opts *planOptions) error {
	income, err := decimal.NewFromString(opts.income)
	if err != nil {
		return fmt.Errorf("invalid --income %q: %w", opts.income, err)
	}
	if income.IsNegative() {
		return errors.New("--income must be non-negative")
	}
	if opts.age < 0 {
		return errors.New("--age must be non-negative")
	}
	if opts.age > domain.MaxAge {
		return fmt.Errorf("--age must not exceed %d", domain.MaxAge)
	}
	filing, err := domain.ParseFilingStatus(opts.filing)
	if err != nil {
		return err
	}

	table := domain.DefaultTaxTable()
	if opts.tablesFile != "" {
		table, err = config.LoadTaxTable(opts.tablesFile)
		if err != nil {
			return err
		}
	}

	service := planner.NewPlannerService(memory.NewTaxTableRepository(table), cache.NewNoopPlanCache(), table.TaxYear, nil)
	plan, err := service.BuildPlan(cmd.Context(), domain.PlanInput{Income: income, FilingStatus: filing, Age: opts.age})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(plan)
	}
	return printPlan(out, plan)
}

func printPlan(out io.Writer, plan *domain.Plan) error {
	fmt.Fprintf(out, "Tax year %d, %s, age %d, income %s\n",
		plan.TaxYear, plan.Input.FilingStatus.Short(), plan.Input.Age, recommendation.FormatMoney(plan.Input.Income))
	fmt.Fprintf(out, "Marginal rate: %d%%\n", plan.MarginalRate)
	fmt.Fprintf(out, "Roth IRA eligibility: %s (phase-out %s to %s)\n",
		plan.RothEligibility, recommendation.FormatMoney(plan.RothPhaseout.Start), recommendation.FormatMoney(plan.RothPhaseout.End))
	fmt.Fprintf(out, "Traditional IRA deduction: %s (phase-out %s to %s)\n\n",
		plan.TraditionalDeductibility, recommendation.FormatMoney(plan.TraditionalPhaseout.Start), recommendation.FormatMoney(plan.TraditionalPhaseout.End))

	limits := map[domain.AccountType]decimal.Decimal{
		domain.AccountTypeHSA:          plan.Limits.HSA,
		domain.AccountTypeEmployerPlan: plan.Limits.EmployerPlan,
		domain.AccountTypeIRA:          plan.Limits.IRA,
	}
	projections := map[domain.AccountType]decimal.Decimal{
		domain.AccountTypeHSA:          plan.Projections.HSA,
		domain.AccountTypeEmployerPlan: plan.Projections.EmployerPlan,
		domain.AccountTypeIRA:          plan.Projections.IRA,
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tACCOUNT\tACTION\tLIMIT\tAT HORIZON")
	for _, rec := range plan.Recommendations() {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n",
			rec.Priority, rec.AccountType, rec.Label,
			recommendation.FormatMoney(limits[rec.AccountType]),
			recommendation.FormatMoney(projections[rec.AccountType]))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(out)
	for _, rec := range plan.Recommendations() {
		fmt.Fprintf(out, "%s: %s\n", rec.AccountType, rec.Rationale)
	}

	fmt.Fprintf(out, "\nMaxing all three for %d years at %s%% could grow to %s.\n",
		plan.YearsToHorizon, plan.ExpectedReturn.Shift(2).String(), recommendation.FormatMoney(plan.TotalProjection))
	return nil
}
