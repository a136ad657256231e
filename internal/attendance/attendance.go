// Package attendance computes the share of scheduled class hours a student attended
// over a term.
package attendance

import (
	"math"

	"github.com/jonathan/grade-calculator/internal/grading"
)

const (
	// TermWeeks is the length of a term.
	TermWeeks = 10
	// HoursPerPair is the length of one class pair in academic hours.
	HoursPerPair = 2

	criticalBelow = 70.0
	warningBelow  = 90.0
)

// Status classifies an attendance percentage.
type Status string

const (
	StatusGood     Status = "good"
	StatusWarning  Status = "warning"
	StatusCritical Status = "critical"
)

// Summary is the attendance for one course.
type Summary struct {
	PairsPerWeek float64 `json:"pairs_per_week"`
	MissedPairs  float64 `json:"missed_pairs"`
	TotalHours   float64 `json:"total_hours"`
	MissedHours  float64 `json:"missed_hours"`
	Percent      float64 `json:"percent"`
	Status       Status  `json:"status"`
}

// Compute derives the attendance summary from free-text inputs. Unparseable input
// counts as 0, and the percentage never drops below 0.
func Compute(pairsPerWeek, missedPairs string) Summary {
	perWeek := grading.ParseScore(pairsPerWeek)
	missed := grading.ParseScore(missedPairs)

	total := perWeek * HoursPerPair * TermWeeks
	missedHours := missed * HoursPerPair

	percent := 0.0
	if total > 0 {
		percent = (total - missedHours) / total * 100
	}
	percent = math.Max(0, percent)

	return Summary{
		PairsPerWeek: perWeek,
		MissedPairs:  missed,
		TotalHours:   total,
		MissedHours:  missedHours,
		Percent:      percent,
		Status:       StatusFor(percent),
	}
}

// StatusFor bands a percentage: below 70 is critical, below 90 a warning.
func StatusFor(percent float64) Status {
	switch {
	case percent < criticalBelow:
		return StatusCritical
	case percent < warningBelow:
		return StatusWarning
	default:
		return StatusGood
	}
}
