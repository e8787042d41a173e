package parsing

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jonathan/resume-insights/internal/types"
)

const (
	nameSearchLines = 5
	maxNameLength   = 50
	minNameTokens   = 2
	maxNameTokens   = 4
)

// nameStopWords disqualify a line from being a name
var nameStopWords = []string{"resume", "cv", "curriculum", "email", "phone", "address"}

// extractName returns the first of the top non-empty lines that looks like a person's name.
func extractName(text string) string {
	checked := 0
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if checked == nameSearchLines {
			break
		}
		checked++

		if looksLikeName(line) {
			return line
		}
	}
	return types.DefaultCandidateName
}

// looksLikeName checks length, stop words, token count and capitalization.
func looksLikeName(line string) bool {
	if utf8.RuneCountInString(line) >= maxNameLength {
		return false
	}

	lower := strings.ToLower(line)
	for _, word := range nameStopWords {
		if strings.Contains(lower, word) {
			return false
		}
	}

	tokens := strings.Fields(line)
	if len(tokens) < minNameTokens || len(tokens) > maxNameTokens {
		return false
	}
	for _, token := range tokens {
		first, _ := utf8.DecodeRuneInString(token)
		if !unicode.IsUpper(first) {
			return false
		}
	}
	return true
}
