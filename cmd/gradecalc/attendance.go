package main

import (
	"github.com/jonathan/grade-calculator/internal/attendance"
	"github.com/jonathan/grade-calculator/internal/observability"
	"github.com/spf13/cobra"
)

func newAttendanceCmd() *cobra.Command {
	var (
		perWeek string
		missed  string
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:     "attendance",
		Short:   "Attendance percentage over a term",
		Example: "  gradecalc attendance --per-week 3 --missed 4",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			summary := attendance.Compute(perWeek, missed)
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), summary)
			}
			observability.NewPrinter(cmd.OutOrStdout()).PrintAttendance(summary)
			return nil
		},
	}
	cmd.Flags().StringVar(&perWeek, "per-week", "", "Class pairs per week")
	cmd.Flags().StringVar(&missed, "missed", "0", "Class pairs missed so far")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the summary as JSON")
	if err := cmd.MarkFlagRequired("per-week"); err != nil {
		panic(err)
	}
	return cmd
}
