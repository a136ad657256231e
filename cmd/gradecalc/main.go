// Package main provides the gradecalc command line: the HTTP API server plus offline
// versions of every calculator.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// configPath is the --config flag shared by commands that read application config.
var configPath string

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "gradecalc",
		Short: "Weighted grade calculator",
		Long: "gradecalc computes weighted final grades, GPA, attendance and budget splits, " +
			"and serves the same calculators over a REST API.",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "Path to a gradecalc.{yaml,json} config file")

	root.AddCommand(
		newServeCmd(),
		newMigrateCmd(),
		newCalculateCmd(),
		newSubjectsCmd(),
		newGPACmd(),
		newAttendanceCmd(),
		newBudgetCmd(),
	)
	return root
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
