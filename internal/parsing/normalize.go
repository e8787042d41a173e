package parsing

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// NormalizeSkillName returns the canonical display form of a skill: trimmed and title-cased
// ("power bi" -> "Power Bi", "c++" -> "C++").
func NormalizeSkillName(skillName string) string {
	normalized := strings.TrimSpace(skillName)
	if normalized == "" {
		return ""
	}
	return cases.Title(language.English).String(strings.ToLower(normalized))
}

// extractSkills runs a case-insensitive substring search for every vocabulary term and
// returns the canonical, deduplicated names in vocabulary order.
func (p *Parser) extractSkills(text string) []string {
	lower := lowerASCII(text)

	found := make([]string, 0)
	seen := make(map[string]bool)
	for _, term := range p.vocabulary {
		if !strings.Contains(lower, term) {
			continue
		}
		canonical := NormalizeSkillName(term)
		if canonical == "" || seen[canonical] {
			continue
		}
		seen[canonical] = true
		found = append(found, canonical)
	}
	return found
}

// lowerASCII lower-cases ASCII letters only, so byte offsets match the input.
func lowerASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}
