package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/jonathan/grade-calculator/internal/observability"
	"github.com/jonathan/grade-calculator/internal/subjects"
	"github.com/jonathan/grade-calculator/internal/types"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// definitionResult is one evaluated definition file.
type definitionResult struct {
	File   string        `json:"file"`
	Name   string        `json:"name,omitempty"`
	Slug   string        `json:"slug,omitempty"`
	Report *types.Report `json:"report,omitempty"`
	Error  string        `json:"error,omitempty"`

	err error
}

func newCalculateCmd() *cobra.Command {
	var (
		globs  []string
		root   string
		linear bool
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "calculate [file...]",
		Short: "Evaluate subject definition files",
		Long: "Evaluates one or more JSON or YAML subject definitions and prints the final " +
			"grade of each. Files can be named directly or matched with --glob patterns " +
			"such as 'semester/**/*.yaml'.",
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := collectDefinitionPaths(args, root, globs)
			if err != nil {
				return err
			}
			if len(paths) == 0 {
				return fmt.Errorf("no definition files given; pass file paths or --glob")
			}

			results := evaluateDefinitions(paths, linear)
			return writeResults(cmd.OutOrStdout(), results, asJSON)
		},
	}
	cmd.Flags().StringArrayVar(&globs, "glob", nil, "Glob pattern relative to --root (repeatable, supports **)")
	cmd.Flags().StringVar(&root, "root", ".", "Directory the --glob patterns are matched in")
	cmd.Flags().BoolVar(&linear, "linear", false, "Use the linear GPA scale instead of the tiered table")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print results as JSON")
	return cmd
}

// collectDefinitionPaths merges explicit paths with glob matches, sorted and deduplicated.
func collectDefinitionPaths(args []string, root string, patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var paths []string
	add := func(p string) {
		p = filepath.Clean(p)
		if !seen[p] {
			seen[p] = true
			paths = append(paths, p)
		}
	}

	for _, a := range args {
		add(a)
	}

	for _, pattern := range patterns {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid glob pattern %q", pattern)
		}
		matches, err := doublestar.Glob(os.DirFS(root), pattern)
		if err != nil {
			return nil, fmt.Errorf("error evaluating pattern %s: %w", pattern, err)
		}
		for _, match := range matches {
			full := filepath.Join(root, match)
			if _, err := subjects.FormatFromPath(full); err != nil {
				continue
			}
			if info, err := os.Stat(full); err != nil || info.IsDir() {
				continue
			}
			add(full)
		}
	}

	sort.Strings(paths)
	return paths, nil
}

// evaluateDefinitions loads and evaluates every file concurrently. A file that fails
// to load is reported in its result and does not stop the others.
func evaluateDefinitions(paths []string, linear bool) []definitionResult {
	results := make([]definitionResult, len(paths))

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, path := range paths {
		g.Go(func() error {
			res := definitionResult{File: path}
			def, err := subjects.LoadDefinition(path)
			if err != nil {
				res.err = err
				res.Error = err.Error()
			} else {
				report := def.Evaluate(linear)
				res.Name = def.Name
				res.Slug = def.Slug
				res.Report = &report
			}
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func writeResults(out io.Writer, results []definitionResult, asJSON bool) error {
	failed := 0
	for _, r := range results {
		if r.err != nil {
			failed++
		}
	}

	if asJSON {
		if err := writeJSON(out, results); err != nil {
			return err
		}
	} else {
		printer := observability.NewPrinter(out)
		for _, r := range results {
			if r.err != nil {
				printer.PrintError(r.File, r.err)
				continue
			}
			printer.PrintReport(r.Name, *r.Report)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d definitions failed", failed, len(results))
	}
	return nil
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}
