package parsing

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/resume-insights/internal/types"
)

const (
	maxExperienceEntries = 5
	maxProjectEntries    = 5
	maxEducationEntries  = 3
	minEntryLength       = 20
	maxEntryLength       = 200
)

// sectionRule describes how a section starts and which headings end it.
type sectionRule struct {
	headings []string
	stops    []string
}

var (
	experienceSection = sectionRule{
		headings: []string{"experience", "work history", "employment"},
		stops:    []string{"education", "skills", "projects"},
	}
	educationSection = sectionRule{
		headings: []string{"education", "academic"},
		stops:    []string{"experience", "skills", "projects"},
	}
	projectsSection = sectionRule{
		headings: []string{"projects", "project", "portfolio"},
		stops:    []string{"experience", "education", "skills"},
	}

	degreeTokens = []string{"bachelor", "master", "phd", "doctorate", "b.s.", "m.s.", "b.a.", "m.a."}

	blankLineRegex = regexp.MustCompile(`\n\s*\n`)
)

func extractExperience(lines []string) []types.ExperienceEntry {
	entries := make([]types.ExperienceEntry, 0)
	span, ok := findSection(lines, experienceSection)
	if !ok {
		return entries
	}
	for _, block := range textBlocks(span, maxExperienceEntries) {
		entries = append(entries, types.ExperienceEntry{Description: block})
	}
	return entries
}

func extractProjects(lines []string) []types.ProjectEntry {
	entries := make([]types.ProjectEntry, 0)
	span, ok := findSection(lines, projectsSection)
	if !ok {
		return entries
	}
	for _, block := range textBlocks(span, maxProjectEntries) {
		entries = append(entries, types.ProjectEntry{Description: block})
	}
	return entries
}

// extractEducation captures each degree mention in the education section up to the end of its line.
func extractEducation(lines []string) []types.EducationEntry {
	entries := make([]types.EducationEntry, 0)
	span, ok := findSection(lines, educationSection)
	if !ok {
		return entries
	}
	for _, line := range strings.Split(span, "\n") {
		idx, _ := earliest(lowerASCII(line), degreeTokens)
		if idx < 0 {
			continue
		}
		entries = append(entries, types.EducationEntry{Degree: strings.TrimSpace(line[idx:])})
		if len(entries) == maxEducationEntries {
			break
		}
	}
	return entries
}

// findSection returns the text between the first heading of rule and the next stop heading.
// The span may start mid-line, right after the heading keyword, and may end mid-line.
func findSection(lines []string, rule sectionRule) (string, bool) {
	for i, line := range lines {
		idx, n := earliest(lowerASCII(line), rule.headings)
		if idx < 0 {
			continue
		}

		rest := line[idx+n:]
		if cut, _ := earliest(lowerASCII(rest), rule.stops); cut >= 0 {
			return rest[:cut], true
		}

		body := []string{rest}
		for _, next := range lines[i+1:] {
			if cut, _ := earliest(lowerASCII(next), rule.stops); cut >= 0 {
				body = append(body, next[:cut])
				break
			}
			body = append(body, next)
		}
		return strings.Join(body, "\n"), true
	}
	return "", false
}

// textBlocks splits a span on blank lines and keeps up to limit trimmed blocks
// longer than minEntryLength, each truncated to maxEntryLength characters.
func textBlocks(span string, limit int) []string {
	blocks := make([]string, 0, limit)
	for _, block := range blankLineRegex.Split(span, -1) {
		block = strings.TrimSpace(block)
		if utf8.RuneCountInString(block) <= minEntryLength {
			continue
		}
		blocks = append(blocks, truncateRunes(block, maxEntryLength))
		if len(blocks) == limit {
			break
		}
	}
	return blocks
}

// earliest finds the leftmost keyword in s, preferring the longest keyword at equal positions.
// It returns -1 when none occurs.
func earliest(s string, keywords []string) (int, int) {
	best, length := -1, 0
	for _, kw := range keywords {
		idx := strings.Index(s, kw)
		if idx < 0 {
			continue
		}
		if best < 0 || idx < best || idx == best && len(kw) > length {
			best, length = idx, len(kw)
		}
	}
	return best, length
}

func splitLines(text string) []string {
	return strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
}

func truncateRunes(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit])
}
