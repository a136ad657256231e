// Package types provides type definitions for structured data used throughout the grade calculator.
package types

import "encoding/json"

// Item is one gradable unit inside a category.
// Score is kept as the raw text the user typed; it is normalised at computation time.
type Item struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Score  string  `json:"score"`
	Weight float64 `json:"weight"`
}

// UnmarshalJSON accepts the score as a string or a number.
func (it *Item) UnmarshalJSON(data []byte) error {
	type plain Item
	var raw struct {
		plain
		Score Text `json:"score"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*it = Item(raw.plain)
	it.Score = raw.Score.String()
	return nil
}

// Category is a named group of items plus its share of the final grade.
type Category struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Items       []Item  `json:"items"`
	TotalWeight float64 `json:"total_weight"` // percent of the final grade
}

// Clone returns a deep copy of the category.
func (c Category) Clone() Category {
	out := c
	out.Items = make([]Item, len(c.Items))
	copy(out.Items, c.Items)
	return out
}

// CloneCategories deep-copies a category slice.
func CloneCategories(categories []Category) []Category {
	out := make([]Category, len(categories))
	for i, c := range categories {
		out[i] = c.Clone()
	}
	return out
}

// Aggregate is the raw result of combining category scores into a final grade.
type Aggregate struct {
	PerCategory           map[string]float64 `json:"per_category"`
	FinalGrade            float64            `json:"final_grade"`
	TotalWeightPercentage float64            `json:"total_weight_percentage"`
}

// CategoryBreakdown is one category's line in a Report, in input order.
type CategoryBreakdown struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	TotalWeight   float64 `json:"total_weight"`
	CategoryScore float64 `json:"category_score"`
	Contribution  float64 `json:"contribution"` // points added to the final grade
}

// Report is the full derived view of a computation: aggregate, breakdown and GPA.
type Report struct {
	Categories            []CategoryBreakdown `json:"categories"`
	FinalGrade            float64             `json:"final_grade"`
	TotalWeightPercentage float64             `json:"total_weight_percentage"`
	WeightsBalanced       bool                `json:"weights_balanced"`
	GPA                   float64             `json:"gpa"`
	Letter                string              `json:"letter"`
	Warnings              []string            `json:"warnings,omitempty"`
}
