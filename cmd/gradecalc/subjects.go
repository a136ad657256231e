package main

import (
	"fmt"

	"github.com/jonathan/grade-calculator/internal/observability"
	"github.com/jonathan/grade-calculator/internal/subjects"
	"github.com/spf13/cobra"
)

func newSubjectsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "subjects",
		Short: "Built-in fixed-formula subjects",
	}
	cmd.AddCommand(newSubjectsListCmd(), newSubjectsCalcCmd())
	return cmd
}

func newSubjectsListCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List subjects and their item ids",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			list := subjects.List()
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), list)
			}
			observability.NewPrinter(cmd.OutOrStdout()).PrintSubjects(list)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print subjects as JSON")
	return cmd
}

func newSubjectsCalcCmd() *cobra.Command {
	var (
		scores []string
		linear bool
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:     "calc <slug>",
		Short:   "Calculate a subject's final grade",
		Example: "  gradecalc subjects calc english --score midterm-quiz=85 --score final-exam=70",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			subject, err := subjects.Lookup(args[0])
			if err != nil {
				return err
			}

			values := make(map[string]string, len(scores))
			for _, pair := range scores {
				id, value, err := subjects.ParseScoreFlag(pair)
				if err != nil {
					return err
				}
				values[id] = value
			}

			report, err := subjects.Calculate(subject.Slug, values, linear)
			if err != nil {
				return fmt.Errorf("%w (known items: %v)", err, subject.ItemIDs())
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), report)
			}
			observability.NewPrinter(cmd.OutOrStdout()).PrintReport(subject.Name, report)
			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&scores, "score", "s", nil, "Item score as id=value (repeatable)")
	cmd.Flags().BoolVar(&linear, "linear", false, "Use the linear GPA scale instead of the tiered table")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the report as JSON")
	return cmd
}
