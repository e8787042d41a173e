// Package observability provides structured logging and formatted output for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/resume-insights/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	inner := boxWidth - 4
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(title, inner))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		if utf8.RuneCountInString(line) > inner {
			line = string([]rune(line)[:inner-3]) + "..."
		}
		fmt.Fprintf(p.out, "│ %s │\n", pad(line, inner))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// pad right-pads s with spaces to width runes.
func pad(s string, width int) string {
	if n := utf8.RuneCountInString(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}

// PrintCandidate outputs the extracted candidate fields.
func (p *Printer) PrintCandidate(c *types.Candidate) {
	if c == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Name:   %s\n", c.Name))
	if c.HasEmail() {
		sb.WriteString(fmt.Sprintf("Email:  %s\n", c.Email))
	}
	if c.HasPhone() {
		sb.WriteString(fmt.Sprintf("Phone:  %s\n", c.Phone))
	}
	sb.WriteString(fmt.Sprintf("Skills: %d  Experience: %d  Education: %d  Projects: %d\n",
		len(c.Skills), len(c.Experience), len(c.Education), len(c.Projects)))

	if len(c.Skills) > 0 {
		sb.WriteString("\n")
		sb.WriteString(wrapList(c.Skills, boxWidth-6))
	}

	p.printBox("EXTRACTED CANDIDATE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintAnalysis outputs a human-readable summary of a compiled analysis.
func (p *Printer) PrintAnalysis(doc *types.AnalysisDocument) {
	if doc == nil {
		return
	}

	var sb strings.Builder
	title := "RESUME ANALYSIS"
	if doc.CandidateInfo.Name != "" {
		title = fmt.Sprintf("RESUME ANALYSIS: %s", doc.CandidateInfo.Name)
	}

	sb.WriteString(fmt.Sprintf("Fit Score:      %d/100", doc.OverallInsights.FitScore))
	if change := doc.OverallInsights.WeekChange; change != 0 {
		sb.WriteString(fmt.Sprintf(" (%+d)", change))
	}
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Alignment:      %s\n", doc.Metrics.RoleAlignment))
	sb.WriteString(fmt.Sprintf("Skill Momentum: %d\n", doc.Metrics.SkillMomentum))

	if len(doc.SkillStrengths) > 0 {
		sb.WriteString("\nSkill Strengths:\n")
		for _, s := range doc.SkillStrengths {
			sb.WriteString(fmt.Sprintf("  %-15s %s %d\n", s.Name, bar(s.Level, 20), s.Level))
		}
	}

	if len(doc.RoleMatches) > 0 {
		sb.WriteString("\nTop Roles:\n")
		count := min(len(doc.RoleMatches), maxItemsToShow)
		for i := 0; i < count; i++ {
			m := doc.RoleMatches[i]
			sb.WriteString(fmt.Sprintf("  #%d %s (%d%%)\n", i+1, m.Title, m.Match))
		}
	}

	if len(doc.NextActions) > 0 {
		sb.WriteString("\nNext Actions:\n")
		for _, a := range doc.NextActions {
			sb.WriteString(fmt.Sprintf("  • %s\n", a.Title))
		}
	}

	if len(doc.OverallInsights.Highlights) > 0 {
		sb.WriteString("\nInsights:\n")
		for _, h := range doc.OverallInsights.Highlights {
			sb.WriteString(fmt.Sprintf("  - %s\n", h))
		}
	}

	p.printBox(title, strings.TrimSuffix(sb.String(), "\n"))
}

// bar renders level (0-100) as a filled bar of width cells.
func bar(level, width int) string {
	filled := level * width / 100
	filled = max(0, min(filled, width))
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// wrapList joins items with commas, breaking lines before width runes.
func wrapList(items []string, width int) string {
	var sb strings.Builder
	lineLen := 0
	for i, item := range items {
		piece := item
		if i < len(items)-1 {
			piece += ","
		}
		n := utf8.RuneCountInString(piece)
		if lineLen > 0 && lineLen+1+n > width {
			sb.WriteString("\n")
			lineLen = 0
		}
		if lineLen > 0 {
			sb.WriteString(" ")
			lineLen++
		}
		sb.WriteString(piece)
		lineLen += n
	}
	sb.WriteString("\n")
	return sb.String()
}
