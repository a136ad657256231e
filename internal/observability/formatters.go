// Package observability renders calculator results for the terminal.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jonathan/grade-calculator/internal/attendance"
	"github.com/jonathan/grade-calculator/internal/budget"
	"github.com/jonathan/grade-calculator/internal/grading"
	"github.com/jonathan/grade-calculator/internal/subjects"
	"github.com/jonathan/grade-calculator/internal/types"
)

const (
	// boxWidth is the content width of every box
	boxWidth = 56
	// maxWarningsToShow caps the warning list under a report
	maxWarningsToShow = 5
)

// bandColors follow the GPA page: green for A, blue for B, yellow for C,
// orange for D and red for everything below.
var bandColors = map[grading.LetterBand]lipgloss.Color{
	grading.BandExcellent: lipgloss.Color("10"),
	grading.BandGood:      lipgloss.Color("12"),
	grading.BandFair:      lipgloss.Color("11"),
	grading.BandPoor:      lipgloss.Color("208"),
	grading.BandFailing:   lipgloss.Color("9"),
}

var statusColors = map[attendance.Status]lipgloss.Color{
	attendance.StatusGood:     lipgloss.Color("10"),
	attendance.StatusWarning:  lipgloss.Color("11"),
	attendance.StatusCritical: lipgloss.Color("9"),
}

// Printer writes boxed, coloured summaries. Colour is dropped automatically when
// out is not a terminal.
type Printer struct {
	out      io.Writer
	renderer *lipgloss.Renderer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out, renderer: lipgloss.NewRenderer(out)}
}

func (p *Printer) style() lipgloss.Style {
	return p.renderer.NewStyle()
}

// printBox prints a rounded box with a bold title line above the content.
//
//nolint:errcheck // terminal output; errors are not recoverable
func (p *Printer) printBox(title, content string) {
	header := p.style().Bold(true).Render(title)
	box := p.style().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1).
		Width(boxWidth).
		Render(header + "\n\n" + strings.TrimRight(content, "\n"))
	fmt.Fprintln(p.out, box)
}

func (p *Printer) letter(letter string) string {
	color := bandColors[grading.BandForLetter(letter)]
	return p.style().Bold(true).Foreground(color).Render(letter)
}

// PrintReport outputs the category breakdown, final grade and GPA of a calculation.
func (p *Printer) PrintReport(title string, r types.Report) {
	var sb strings.Builder

	for _, c := range r.Categories {
		fmt.Fprintf(&sb, "%-24s %5.1f%%  score %6.2f  +%6.2f\n",
			truncate(c.Name, 24), c.TotalWeight, c.CategoryScore, c.Contribution)
	}
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "Final grade:  %.2f%%\n", r.FinalGrade)
	fmt.Fprintf(&sb, "GPA:          %.2f  %s\n", r.GPA, p.letter(r.Letter))
	fmt.Fprintf(&sb, "Total weight: %.1f%%", r.TotalWeightPercentage)
	if !r.WeightsBalanced {
		sb.WriteString(p.style().Foreground(lipgloss.Color("11")).Render("  (not 100%)"))
	}
	sb.WriteString("\n")

	if len(r.Warnings) > 0 {
		sb.WriteString("\nWarnings:\n")
		for i, w := range r.Warnings {
			if i >= maxWarningsToShow {
				fmt.Fprintf(&sb, "  ... and %d more\n", len(r.Warnings)-maxWarningsToShow)
				break
			}
			fmt.Fprintf(&sb, "  • %s\n", w)
		}
	}

	p.printBox(strings.ToUpper(title), sb.String())
}

// PrintSubjects lists the built-in subjects and their item ids.
func (p *Printer) PrintSubjects(list []subjects.Subject) {
	var sb strings.Builder
	for i, s := range list {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "%s (%s)\n", p.style().Bold(true).Render(s.Name), s.Slug)
		for _, c := range s.Categories {
			ids := make([]string, len(c.Items))
			for j, it := range c.Items {
				ids[j] = it.ID
			}
			fmt.Fprintf(&sb, "  %s %.0f%%: %s\n", c.Name, c.TotalWeight, strings.Join(ids, ", "))
		}
	}
	p.printBox("SUBJECTS", sb.String())
}

// PrintTranscript outputs a credit-weighted GPA table.
func (p *Printer) PrintTranscript(s types.TranscriptSummary) {
	var sb strings.Builder
	for _, r := range s.Rows {
		name := r.Name
		if name == "" {
			name = r.ID
		}
		fmt.Fprintf(&sb, "%-22s %6.2f%%  %4.1f cr  %.2f %s\n",
			truncate(name, 22), r.Percent, r.Credits, r.GPA, p.letter(r.Letter))
	}
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "Credits:          %.1f\n", s.TotalCredits)
	fmt.Fprintf(&sb, "Weighted percent: %.2f%%\n", s.WeightedPercent)
	fmt.Fprintf(&sb, "Weighted GPA:     %.2f  %s\n", s.WeightedGPA, p.letter(s.Letter))
	p.printBox("TRANSCRIPT GPA", sb.String())
}

// PrintAttendance outputs the attendance percentage and its status band.
func (p *Printer) PrintAttendance(s attendance.Summary) {
	status := p.style().Bold(true).Foreground(statusColors[s.Status]).Render(string(s.Status))

	var sb strings.Builder
	fmt.Fprintf(&sb, "Pairs per week: %g over %d weeks\n", s.PairsPerWeek, attendance.TermWeeks)
	fmt.Fprintf(&sb, "Hours:          %.0f total, %.0f missed\n", s.TotalHours, s.MissedHours)
	fmt.Fprintf(&sb, "Attendance:     %.1f%%  %s\n", s.Percent, status)
	p.printBox("ATTENDANCE", sb.String())
}

// PrintBudget outputs income sources and every allocation rule.
func (p *Printer) PrintBudget(s budget.Summary) {
	var sb strings.Builder
	for _, src := range s.Sources {
		fmt.Fprintf(&sb, "%-28s %10.2f  %s\n", truncate(src.Name, 28), grading.ParseScore(src.Amount), src.Type)
	}
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "Total income: %.2f (grant %.2f, personal %.2f)\n", s.TotalIncome, s.GrantIncome, s.PersonalIncome)
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "%-10s %12s %12s %12s\n", "Rule", "Needs", "Wants", "Savings")
	for _, a := range s.Allocations {
		fmt.Fprintf(&sb, "%-10s %12.2f %12.2f %12.2f\n", a.Rule, a.Needs, a.Wants, a.Savings)
	}
	p.printBox("BUDGET", sb.String())
}

// PrintError outputs a failed item of a batch run.
//
//nolint:errcheck // terminal output
func (p *Printer) PrintError(title string, err error) {
	mark := p.style().Foreground(lipgloss.Color("9")).Render("✗")
	fmt.Fprintf(p.out, "%s %s: %v\n", mark, title, err)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
