// Package types provides type definitions for structured data used throughout the resume-insights system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "time"

// Alignment is the coarse bucket of a fit score.
type Alignment string

// Alignment tiers
const (
	AlignmentHigh   Alignment = "High"
	AlignmentMedium Alignment = "Medium"
	AlignmentLow    Alignment = "Low"
)

// AnalysisResult is the output of the scoring engine for one candidate.
type AnalysisResult struct {
	FitScore       int             `json:"fit_score"`
	RoleAlignment  Alignment       `json:"role_alignment"`
	SkillMomentum  int             `json:"skill_momentum"`
	SkillStrengths []SkillStrength `json:"skill_strengths"`
	RoleMatches    []RoleMatch     `json:"role_matches"`
	NextActions    []NextAction    `json:"next_actions"`
	Insights       []string        `json:"insights"`
}

// SkillStrength is the estimated level (0-100) of one tracked skill dimension.
type SkillStrength struct {
	Name  string `json:"name"`
	Level int    `json:"level"`
}

// RoleMatch is a catalog role scored against a candidate.
type RoleMatch struct {
	Title   string `json:"title"`
	Match   int    `json:"match"`
	Summary string `json:"summary"`
}

// NextAction is a recommended step for the candidate.
type NextAction struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// AnalysisDocument is the compiled analysis served to frontends and persisted by stores.
type AnalysisDocument struct {
	OverallInsights OverallInsights `json:"overall_insights"`
	Metrics         Metrics         `json:"metrics"`
	SkillStrengths  []SkillStrength `json:"skill_strengths"`
	RoleMatches     []RoleMatch     `json:"role_matches"`
	NextActions     []NextAction    `json:"next_actions"`
	CandidateInfo   CandidateInfo   `json:"candidate_info"`
	Metadata        *Metadata       `json:"metadata,omitempty"`
}

// OverallInsights holds the headline score and narrative highlights.
type OverallInsights struct {
	FitScore   int      `json:"fit_score"`
	WeekChange int      `json:"week_change"`
	Highlights []string `json:"highlights"`
}

// Metrics holds the secondary dashboard metrics.
type Metrics struct {
	RoleAlignment         Alignment `json:"role_alignment"`
	SkillMomentum         int       `json:"skill_momentum"`
	ReadinessActionsCount int       `json:"readiness_actions_count"`
}

// CandidateInfo is the subset of the candidate record shown next to an analysis.
type CandidateInfo struct {
	Name            string `json:"name"`
	Email           string `json:"email,omitempty"`
	SkillsCount     int    `json:"skills_count"`
	ExperienceCount int    `json:"experience_count"`
	EducationCount  int    `json:"education_count"`
}

// Metadata describes the uploaded document an analysis was derived from.
type Metadata struct {
	FileID     string    `json:"file_id"`
	Filename   string    `json:"filename"`
	UploadTime time.Time `json:"upload_time"`
	FileType   string    `json:"file_type"`
}

// Summary is the condensed view of an analysis.
type Summary struct {
	FitScore      int        `json:"fit_score"`
	RoleAlignment Alignment  `json:"role_alignment"`
	TopRole       *string    `json:"top_role"`
	SkillsCount   int        `json:"skills_count"`
	UploadTime    *time.Time `json:"upload_time,omitempty"`
}

// ID returns the file id of the document, or "" when it has no metadata.
func (d *AnalysisDocument) ID() string {
	if d == nil || d.Metadata == nil {
		return ""
	}
	return d.Metadata.FileID
}

// Summarize condenses the document into a Summary.
func (d *AnalysisDocument) Summarize() Summary {
	s := Summary{
		FitScore:      d.OverallInsights.FitScore,
		RoleAlignment: d.Metrics.RoleAlignment,
		SkillsCount:   d.CandidateInfo.SkillsCount,
	}
	if len(d.RoleMatches) > 0 {
		top := d.RoleMatches[0].Title
		s.TopRole = &top
	}
	if d.Metadata != nil {
		uploaded := d.Metadata.UploadTime
		s.UploadTime = &uploaded
	}
	return s
}

// HistoryEntry is one row of the upload history.
type HistoryEntry struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	FileType string    `json:"file_type,omitempty"`
	Score    int       `json:"score"`
	Date     time.Time `json:"date"`
}

// History returns the document's history row. Documents without metadata have no id or date.
func (d *AnalysisDocument) History() HistoryEntry {
	h := HistoryEntry{Score: d.OverallInsights.FitScore}
	if d.Metadata != nil {
		h.ID = d.Metadata.FileID
		h.Name = d.Metadata.Filename
		h.FileType = d.Metadata.FileType
		h.Date = d.Metadata.UploadTime
	}
	return h
}
