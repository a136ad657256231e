// Package budget splits a student's monthly income into needs, wants and savings
// according to a set of fixed percentage rules.
package budget

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/jonathan/grade-calculator/internal/grading"
)

// SourceType distinguishes grant income from personal income.
type SourceType string

const (
	SourceGrant    SourceType = "grant"
	SourcePersonal SourceType = "personal"
)

// Valid reports whether t is a known source type.
func (t SourceType) Valid() bool {
	return t == SourceGrant || t == SourcePersonal
}

// Source is one monthly income line. Amount is kept as typed.
type Source struct {
	ID     string     `json:"id"`
	Name   string     `json:"name"`
	Amount string     `json:"amount"`
	Type   SourceType `json:"type"`
}

// Rule is a needs/wants/savings split in percent.
type Rule struct {
	Name    string  `json:"name"`
	Needs   float64 `json:"needs"`
	Wants   float64 `json:"wants"`
	Savings float64 `json:"savings"`
}

// Rules are the splits every plan is evaluated against.
var Rules = []Rule{
	{Name: "50/30/20", Needs: 50, Wants: 30, Savings: 20},
	{Name: "60/20/20", Needs: 60, Wants: 20, Savings: 20},
	{Name: "70/20/10", Needs: 70, Wants: 20, Savings: 10},
}

// Allocation is a rule applied to a total income.
type Allocation struct {
	Rule    string  `json:"rule"`
	Needs   float64 `json:"needs"`
	Wants   float64 `json:"wants"`
	Savings float64 `json:"savings"`
}

// Summary is the evaluated budget.
type Summary struct {
	Sources        []Source     `json:"sources"`
	TotalIncome    float64      `json:"total_income"`
	GrantIncome    float64      `json:"grant_income"`
	PersonalIncome float64      `json:"personal_income"`
	Allocations    []Allocation `json:"allocations"`
}

// Allocate applies every rule to total.
func Allocate(total float64) []Allocation {
	out := make([]Allocation, len(Rules))
	for i, r := range Rules {
		out[i] = Allocation{
			Rule:    r.Name,
			Needs:   total * r.Needs / 100,
			Wants:   total * r.Wants / 100,
			Savings: total * r.Savings / 100,
		}
	}
	return out
}

// Summarize totals the sources and allocates the income. Unparseable amounts count as 0.
func Summarize(sources []Source) Summary {
	s := Summary{Sources: make([]Source, len(sources))}
	copy(s.Sources, sources)

	for _, src := range sources {
		amount := grading.ParseScore(src.Amount)
		s.TotalIncome += amount
		if src.Type == SourceGrant {
			s.GrantIncome += amount
		} else {
			s.PersonalIncome += amount
		}
	}
	s.Allocations = Allocate(s.TotalIncome)
	return s
}

// Planner is an editable list of income sources. It always holds at least one source.
type Planner struct {
	sources []Source
	newID   func() string
}

// NewPlanner starts with a single empty grant line.
func NewPlanner() *Planner {
	p := &Planner{newID: uuid.NewString}
	p.sources = []Source{{ID: p.newID(), Name: "Monthly Grant", Type: SourceGrant}}
	return p
}

// Sources returns a copy of the current sources.
func (p *Planner) Sources() []Source {
	out := make([]Source, len(p.sources))
	copy(out, p.sources)
	return out
}

// AddSource appends an empty personal income line.
func (p *Planner) AddSource() Source {
	src := Source{
		ID:   p.newID(),
		Name: fmt.Sprintf("Income Source %d", len(p.sources)+1),
		Type: SourcePersonal,
	}
	p.sources = append(p.sources, src)
	return src
}

// UpdateSource sets one field ("name", "amount" or "type") of a source.
func (p *Planner) UpdateSource(id, field, value string) bool {
	i := p.index(id)
	if i < 0 {
		return false
	}
	switch field {
	case "name":
		p.sources[i].Name = value
	case "amount":
		p.sources[i].Amount = value
	case "type":
		t := SourceType(value)
		if !t.Valid() {
			return false
		}
		p.sources[i].Type = t
	default:
		return false
	}
	return true
}

// RemoveSource drops a source. The last remaining source cannot be removed.
func (p *Planner) RemoveSource(id string) bool {
	if len(p.sources) <= 1 {
		return false
	}
	i := p.index(id)
	if i < 0 {
		return false
	}
	p.sources = append(p.sources[:i], p.sources[i+1:]...)
	return true
}

// TotalIncome sums the parsed amounts.
func (p *Planner) TotalIncome() float64 {
	return p.Summary().TotalIncome
}

// Allocations applies every rule to the current total.
func (p *Planner) Allocations() []Allocation {
	return Allocate(p.TotalIncome())
}

// Summary evaluates the current sources.
func (p *Planner) Summary() Summary {
	return Summarize(p.sources)
}

func (p *Planner) index(id string) int {
	for i := range p.sources {
		if p.sources[i].ID == id {
			return i
		}
	}
	return -1
}
