package grading

import "github.com/jonathan/grade-calculator/internal/types"

// MaxTranscriptRows is the largest number of subject rows the GPA calculator accepts.
const MaxTranscriptRows = 10

// DefaultCredits is the credit value given to a newly added subject row.
const DefaultCredits = 5

// Summarize computes credit-weighted percentage and GPA over subject rows.
// Each row's GPA is derived from its own percent, so the weighted GPA is the credit
// mean of per-row GPA points, not the GPA of the weighted percent.
func Summarize(rows []types.SubjectRow, linear bool) types.TranscriptSummary {
	summary := types.TranscriptSummary{
		Rows: make([]types.SubjectRowResult, 0, len(rows)),
	}

	weightedPercentSum := 0.0
	weightedGPASum := 0.0

	for _, r := range rows {
		percent := ParseScore(r.Percent)
		credits := ParseScore(r.Credits)
		gpa := PercentToGPA(percent, linear)

		summary.Rows = append(summary.Rows, types.SubjectRowResult{
			ID:      r.ID,
			Name:    r.Name,
			Percent: percent,
			Credits: credits,
			GPA:     gpa,
			Letter:  GPAToLetter(gpa),
		})

		summary.TotalCredits += credits
		weightedPercentSum += percent * credits
		weightedGPASum += gpa * credits
	}

	if summary.TotalCredits > 0 {
		summary.WeightedPercent = weightedPercentSum / summary.TotalCredits
		summary.WeightedGPA = weightedGPASum / summary.TotalCredits
	}
	summary.Letter = GPAToLetter(summary.WeightedGPA)
	return summary
}
