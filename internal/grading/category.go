package grading

import "github.com/jonathan/grade-calculator/internal/types"

// ScoreCategory computes a category's own percentage from its items.
// Item weights are relative to their siblings, so the result is the same whether the
// weights sum to 100, 40 or anything else. Items with weight <= 0 are ignored
// entirely. A category with no positively weighted item scores 0.
func ScoreCategory(items []types.Item) float64 {
	weightedScore := 0.0
	weightSum := 0.0

	for _, item := range items {
		if !(item.Weight > 0) {
			continue
		}
		score := ParseScore(item.Score)
		weightedScore += (score / 100) * item.Weight
		weightSum += item.Weight
	}

	if weightSum <= 0 {
		return 0
	}
	return (weightedScore / weightSum) * 100
}

// hasWeightedItem reports whether at least one item would count in ScoreCategory.
func hasWeightedItem(items []types.Item) bool {
	for _, item := range items {
		if item.Weight > 0 {
			return true
		}
	}
	return false
}
