// Package subjects holds the fixed-formula subject calculators. Each subject is plain
// configuration data for the category engine: literal item weights chosen so that the
// weighted average reproduces the syllabus formula.
package subjects

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jonathan/grade-calculator/internal/grading"
	"github.com/jonathan/grade-calculator/internal/types"
)

// ErrUnknownSubject is returned when a slug has no registered subject.
type ErrUnknownSubject struct {
	Slug string
}

func (e *ErrUnknownSubject) Error() string {
	return fmt.Sprintf("unknown subject: %s", e.Slug)
}

// ErrUnknownItem is returned when a score targets an item the subject does not have.
type ErrUnknownItem struct {
	Subject string
	ItemID  string
}

func (e *ErrUnknownItem) Error() string {
	return fmt.Sprintf("subject %s has no item %q", e.Subject, e.ItemID)
}

// Subject is a named, fixed category layout.
type Subject struct {
	Name       string           `json:"name"`
	Slug       string           `json:"slug"`
	Categories []types.Category `json:"categories"`
}

// ItemIDs returns every item id of the subject in layout order.
func (s Subject) ItemIDs() []string {
	var ids []string
	for _, c := range s.Categories {
		for _, it := range c.Items {
			ids = append(ids, it.ID)
		}
	}
	return ids
}

// WithScores returns a copy of the subject's categories with the given raw scores
// filled in. Keys are item ids.
func (s Subject) WithScores(scores map[string]string) ([]types.Category, error) {
	categories := types.CloneCategories(s.Categories)
	index := make(map[string]*types.Item)
	for ci := range categories {
		for ii := range categories[ci].Items {
			index[categories[ci].Items[ii].ID] = &categories[ci].Items[ii]
		}
	}

	for id, raw := range scores {
		item, ok := index[id]
		if !ok {
			return nil, &ErrUnknownItem{Subject: s.Slug, ItemID: id}
		}
		item.Score = raw
	}
	return categories, nil
}

var registry = map[string]Subject{}

func register(s Subject) {
	if _, dup := registry[s.Slug]; dup {
		panic("subjects: duplicate slug " + s.Slug)
	}
	registry[s.Slug] = s
}

// Lookup returns a copy of the registered subject for slug.
func Lookup(slug string) (Subject, error) {
	s, ok := registry[strings.ToLower(strings.TrimSpace(slug))]
	if !ok {
		return Subject{}, &ErrUnknownSubject{Slug: slug}
	}
	s.Categories = types.CloneCategories(s.Categories)
	return s, nil
}

// List returns every registered subject sorted by name.
func List() []Subject {
	out := make([]Subject, 0, len(registry))
	for _, s := range registry {
		s.Categories = types.CloneCategories(s.Categories)
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Calculate fills scores into the subject's layout and evaluates it.
func Calculate(slug string, scores map[string]string, linear bool) (types.Report, error) {
	s, err := Lookup(slug)
	if err != nil {
		return types.Report{}, err
	}
	categories, err := s.WithScores(scores)
	if err != nil {
		return types.Report{}, err
	}
	return grading.Evaluate(categories, linear), nil
}
