// Package leaderboard ranks users by the average of their saved final grades and
// summarises one user's grades.
package leaderboard

import (
	"sort"

	"github.com/jonathan/grade-calculator/internal/grading"
)

// Label is the performance tag shown next to a leaderboard entry.
type Label string

const (
	LabelNerd     Label = "Nerd"
	LabelSurvivor Label = "Survivor"
	LabelAtRisk   Label = "At Risk"
	LabelRIP      Label = "RIP"
)

// fallbackPrefix names users who never set a display name.
const fallbackPrefix = "NPC"

// Row is one saved final grade joined with its owner.
type Row struct {
	UserID     string
	Name       string
	Subject    string
	FinalGrade float64
}

// Entry is one ranked user.
type Entry struct {
	Rank          int     `json:"rank"`
	UserID        string  `json:"user_id"`
	Name          string  `json:"name"`
	Average       float64 `json:"average"`
	Subjects      int     `json:"subjects"`
	Label         Label   `json:"label"`
	IsCurrentUser bool    `json:"is_current_user"`
}

// LabelFor tags an average grade.
func LabelFor(average float64) Label {
	switch {
	case average >= 90:
		return LabelNerd
	case average >= 70:
		return LabelSurvivor
	case average < 50:
		return LabelRIP
	default:
		return LabelAtRisk
	}
}

// DisplayName returns name, or a generated handle when name is blank.
func DisplayName(userID, name string) string {
	if name != "" {
		return name
	}
	short := userID
	if len(short) > 5 {
		short = short[:5]
	}
	return fallbackPrefix + short
}

// Build averages each user's grades and ranks users from the highest average down,
// starting at 1. Ties are ordered by name, then user id.
func Build(rows []Row, currentUserID string) []Entry {
	type acc struct {
		name  string
		total float64
		count int
	}
	byUser := make(map[string]*acc)
	var order []string
	for _, r := range rows {
		a, ok := byUser[r.UserID]
		if !ok {
			a = &acc{name: DisplayName(r.UserID, r.Name)}
			byUser[r.UserID] = a
			order = append(order, r.UserID)
		}
		a.total += r.FinalGrade
		a.count++
	}

	entries := make([]Entry, 0, len(order))
	for _, id := range order {
		a := byUser[id]
		avg := a.total / float64(a.count)
		entries = append(entries, Entry{
			UserID:        id,
			Name:          a.name,
			Average:       avg,
			Subjects:      a.count,
			Label:         LabelFor(avg),
			IsCurrentUser: currentUserID != "" && id == currentUserID,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Average != entries[j].Average {
			return entries[i].Average > entries[j].Average
		}
		if entries[i].Name != entries[j].Name {
			return entries[i].Name < entries[j].Name
		}
		return entries[i].UserID < entries[j].UserID
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}

// Find returns the entry for userID.
func Find(entries []Entry, userID string) (Entry, bool) {
	for _, e := range entries {
		if e.UserID == userID {
			return e, true
		}
	}
	return Entry{}, false
}

// Summary is the overview of one user's saved grades.
type Summary struct {
	Count   int     `json:"count"`
	Average float64 `json:"average"`
	GPA     float64 `json:"gpa"`
	Letter  string  `json:"letter,omitempty"`
}

// Summarize averages the grades and the tiered GPA of each grade.
func Summarize(grades []float64) Summary {
	if len(grades) == 0 {
		return Summary{}
	}
	var total, points float64
	for _, g := range grades {
		total += g
		points += grading.PercentToGPA(g, false)
	}
	n := float64(len(grades))
	s := Summary{
		Count:   len(grades),
		Average: total / n,
		GPA:     points / n,
	}
	s.Letter = grading.GPAToLetter(s.GPA)
	return s
}
