package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jonathan/grade-calculator/internal/grading"
	"github.com/jonathan/grade-calculator/internal/observability"
	"github.com/jonathan/grade-calculator/internal/types"
	"github.com/spf13/cobra"
)

func newGPACmd() *cobra.Command {
	var (
		rows   []string
		linear bool
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:     "gpa",
		Short:   "Credit-weighted GPA over several subjects",
		Example: "  gradecalc gpa --row Physics:92:5 --row History:78:3",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if len(rows) == 0 {
				return fmt.Errorf("at least one --row is required")
			}
			if len(rows) > grading.MaxTranscriptRows {
				return fmt.Errorf("at most %d subjects", grading.MaxTranscriptRows)
			}

			parsed := make([]types.SubjectRow, len(rows))
			for i, raw := range rows {
				row, err := parseSubjectRow(raw)
				if err != nil {
					return err
				}
				row.ID = strconv.Itoa(i + 1)
				parsed[i] = row
			}

			summary := grading.Summarize(parsed, linear)
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), summary)
			}
			observability.NewPrinter(cmd.OutOrStdout()).PrintTranscript(summary)
			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&rows, "row", "r", nil, "Subject as name:percent[:credits] (repeatable)")
	cmd.Flags().BoolVar(&linear, "linear", false, "Use the linear GPA scale instead of the tiered table")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the summary as JSON")
	return cmd
}

// parseSubjectRow reads "name:percent[:credits]". Credits default to the value a new
// row gets in the calculator.
func parseSubjectRow(raw string) (types.SubjectRow, error) {
	parts := strings.Split(raw, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return types.SubjectRow{}, fmt.Errorf("invalid row %q, expected name:percent[:credits]", raw)
	}
	row := types.SubjectRow{
		Name:    strings.TrimSpace(parts[0]),
		Percent: strings.TrimSpace(parts[1]),
		Credits: strconv.Itoa(grading.DefaultCredits),
	}
	if len(parts) == 3 {
		row.Credits = strings.TrimSpace(parts[2])
	}
	return row, nil
}
