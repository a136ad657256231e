package main

import (
	"fmt"
	"strings"

	"github.com/jonathan/grade-calculator/internal/budget"
	"github.com/jonathan/grade-calculator/internal/observability"
	"github.com/spf13/cobra"
)

func newBudgetCmd() *cobra.Command {
	var (
		incomes []string
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:     "budget",
		Short:   "Split monthly income with the 50/30/20 family of rules",
		Example: "  gradecalc budget --income Stipend:1200:grant --income 'Part-time job:800'",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if len(incomes) == 0 {
				return fmt.Errorf("at least one --income is required")
			}
			planner, err := plannerFromFlags(incomes)
			if err != nil {
				return err
			}

			summary := planner.Summary()
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), summary)
			}
			observability.NewPrinter(cmd.OutOrStdout()).PrintBudget(summary)
			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&incomes, "income", "i", nil, "Income as name:amount[:grant|personal] (repeatable)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the summary as JSON")
	return cmd
}

// plannerFromFlags fills a planner with one source per flag. The planner's seeded
// line is reused for the first source.
func plannerFromFlags(incomes []string) (*budget.Planner, error) {
	planner := budget.NewPlanner()
	for i, raw := range incomes {
		parts := strings.Split(raw, ":")
		if len(parts) < 2 || len(parts) > 3 {
			return nil, fmt.Errorf("invalid income %q, expected name:amount[:type]", raw)
		}
		sourceType := string(budget.SourcePersonal)
		if len(parts) == 3 {
			sourceType = strings.ToLower(strings.TrimSpace(parts[2]))
		}

		var id string
		if i == 0 {
			id = planner.Sources()[0].ID
		} else {
			id = planner.AddSource().ID
		}
		planner.UpdateSource(id, "name", strings.TrimSpace(parts[0]))
		planner.UpdateSource(id, "amount", strings.TrimSpace(parts[1]))
		if !planner.UpdateSource(id, "type", sourceType) {
			return nil, fmt.Errorf("invalid income type %q, expected grant or personal", sourceType)
		}
	}
	return planner, nil
}
