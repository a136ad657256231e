package grading

import (
	"fmt"
	"math"

	"github.com/jonathan/grade-calculator/internal/types"
)

// weightTolerance is how far the category weight sum may drift from 100 before a
// warning is raised.
const weightTolerance = 1e-9

// Aggregate scores every category independently and combines them into a final grade.
// It never refuses to compute: when the category weights do not sum to 100 the
// arithmetically honest result is returned together with the actual weight sum.
func Aggregate(categories []types.Category) types.Aggregate {
	result, _ := aggregate(categories)
	return result
}

// aggregate also returns the category scores in input order, which stay correct
// when ids repeat or are empty.
func aggregate(categories []types.Category) (types.Aggregate, []float64) {
	result := types.Aggregate{
		PerCategory: make(map[string]float64, len(categories)),
	}
	scores := make([]float64, len(categories))

	for i, c := range categories {
		score := ScoreCategory(c.Items)
		scores[i] = score
		result.PerCategory[c.ID] = score
		result.FinalGrade += contribution(score, c.TotalWeight)
		result.TotalWeightPercentage += c.TotalWeight
	}

	return result, scores
}

func contribution(score, totalWeight float64) float64 {
	return score * (totalWeight / 100)
}

// Evaluate runs Aggregate and derives the presentation fields: per-category
// breakdown in input order, GPA and letter of the final grade, and non-blocking
// warnings about the configuration.
func Evaluate(categories []types.Category, linear bool) types.Report {
	agg, scores := aggregate(categories)
	report := types.Report{
		Categories:            make([]types.CategoryBreakdown, 0, len(categories)),
		FinalGrade:            agg.FinalGrade,
		TotalWeightPercentage: agg.TotalWeightPercentage,
	}

	for i, c := range categories {
		report.Categories = append(report.Categories, types.CategoryBreakdown{
			ID:            c.ID,
			Name:          c.Name,
			TotalWeight:   c.TotalWeight,
			CategoryScore: scores[i],
			Contribution:  contribution(scores[i], c.TotalWeight),
		})

		if !hasWeightedItem(c.Items) {
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("category %q has no item with a positive weight and scores 0", displayName(c)))
		}
	}

	report.WeightsBalanced = WeightsBalanced(report.TotalWeightPercentage)
	if !report.WeightsBalanced {
		// prepend so the weight warning is always first
		report.Warnings = append([]string{
			fmt.Sprintf("category weights sum to %s%%, expected 100%%", formatPercent(report.TotalWeightPercentage)),
		}, report.Warnings...)
	}

	report.GPA = PercentToGPA(report.FinalGrade, linear)
	report.Letter = GPAToLetter(report.GPA)
	return report
}

// WeightsBalanced reports whether a category weight sum is 100 within tolerance.
func WeightsBalanced(total float64) bool {
	return math.Abs(total-100) <= weightTolerance
}

func displayName(c types.Category) string {
	if c.Name != "" {
		return c.Name
	}
	return c.ID
}

func formatPercent(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.2f", v)
}
