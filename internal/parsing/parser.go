// Package parsing extracts a structured candidate record from the plain text of a resume.
package parsing

import (
	"regexp"

	"github.com/jonathan/resume-insights/internal/catalog"
	"github.com/jonathan/resume-insights/internal/types"
)

// Parser turns resume text into a types.Candidate. It is safe for concurrent use.
type Parser struct {
	vocabulary []string
	emailRegex *regexp.Regexp
	phoneRegex *regexp.Regexp
}

// NewParser creates a parser that recognizes the skills in the catalog vocabulary.
// A nil catalog selects the embedded default.
func NewParser(cat *catalog.Catalog) *Parser {
	if cat == nil {
		cat = catalog.Default()
	}
	return &Parser{
		vocabulary: cat.Vocabulary,
		emailRegex: regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`),
		phoneRegex: regexp.MustCompile(`(?:\+\d{1,3}[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`),
	}
}

// Extract builds a candidate record from text. It never fails: fields that cannot be found
// keep their defaults (fallback name, no contact details, empty lists).
func (p *Parser) Extract(text string) types.Candidate {
	candidate := types.NewCandidate(text)

	candidate.Email = p.emailRegex.FindString(text)
	candidate.Phone = p.phoneRegex.FindString(text)
	candidate.Name = extractName(text)
	candidate.Skills = p.extractSkills(text)

	lines := splitLines(text)
	candidate.Experience = extractExperience(lines)
	candidate.Education = extractEducation(lines)
	candidate.Projects = extractProjects(lines)

	return candidate
}
