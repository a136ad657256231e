package editor

import "github.com/jonathan/grade-calculator/internal/types"

// DefaultSeed returns the sample configuration shown in an empty calculator:
// Mid Term 30, End Term 30, Final Exam 40, each with placeholder items. Ids come
// from newID.
func DefaultSeed(newID func() string) []types.Category {
	item := func(name string, weight float64) types.Item {
		return types.Item{ID: newID(), Name: name, Weight: weight}
	}

	return []types.Category{
		{
			ID:          newID(),
			Name:        "Mid Term",
			TotalWeight: 30,
			Items: []types.Item{
				item("Assignment 1", 1),
				item("Midterm Quiz", 1),
			},
		},
		{
			ID:          newID(),
			Name:        "End Term",
			TotalWeight: 30,
			Items: []types.Item{
				item("Assignment 2", 1),
				item("Endterm Quiz", 1),
			},
		},
		{
			ID:          newID(),
			Name:        "Final Exam",
			TotalWeight: 40,
			Items: []types.Item{
				item("Final Exam", 1),
				item("Project", 1),
			},
		},
	}
}
