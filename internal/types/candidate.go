// Package types provides type definitions for structured data used throughout the resume-insights system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// DefaultCandidateName is used when no name-like line is found in the document.
const DefaultCandidateName = "Candidate"

// Candidate is the structured record extracted from a resume's text.
// List fields are never nil so they always serialize as JSON arrays.
type Candidate struct {
	Name       string            `json:"name"`
	Email      string            `json:"email,omitempty"`
	Phone      string            `json:"phone,omitempty"`
	Skills     []string          `json:"skills"`
	Experience []ExperienceEntry `json:"experience"`
	Education  []EducationEntry  `json:"education"`
	Projects   []ProjectEntry    `json:"projects"`
	RawText    string            `json:"raw_text"`
}

// ExperienceEntry is a single block of text from the experience section.
type ExperienceEntry struct {
	Description string `json:"description"`
}

// EducationEntry is a single degree line from the education section.
type EducationEntry struct {
	Degree string `json:"degree"`
}

// ProjectEntry is a single block of text from the projects section.
type ProjectEntry struct {
	Description string `json:"description"`
}

// NewCandidate returns a Candidate with the fallback name and empty lists.
func NewCandidate(rawText string) Candidate {
	return Candidate{
		Name:       DefaultCandidateName,
		Skills:     []string{},
		Experience: []ExperienceEntry{},
		Education:  []EducationEntry{},
		Projects:   []ProjectEntry{},
		RawText:    rawText,
	}
}

// HasEmail reports whether an email address was found.
func (c *Candidate) HasEmail() bool {
	return c.Email != ""
}

// HasPhone reports whether a phone number was found.
func (c *Candidate) HasPhone() bool {
	return c.Phone != ""
}
