// Package skills provides a case-insensitive skill set used to test a candidate's skills
// against catalog skill lists.
package skills

import "strings"

// Set is a set of skill names keyed by their lower-cased form.
type Set map[string]struct{}

// NewSet builds a Set from skill names. Blank names are ignored.
func NewSet(names ...string) Set {
	s := make(Set, len(names))
	for _, name := range names {
		key := normalize(name)
		if key == "" {
			continue
		}
		s[key] = struct{}{}
	}
	return s
}

// Has reports whether the named skill is in the set.
func (s Set) Has(name string) bool {
	_, ok := s[normalize(name)]
	return ok
}

// HasAny reports whether at least one of the named skills is in the set.
func (s Set) HasAny(names ...string) bool {
	for _, name := range names {
		if s.Has(name) {
			return true
		}
	}
	return false
}

// Count returns how many of the named skills are in the set.
func (s Set) Count(names []string) int {
	n := 0
	for _, name := range names {
		if s.Has(name) {
			n++
		}
	}
	return n
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
