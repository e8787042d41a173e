package store

import (
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/resume-insights/internal/types"
)

func newDocument(fit int, uploaded time.Time) *types.AnalysisDocument {
	return &types.AnalysisDocument{
		OverallInsights: types.OverallInsights{FitScore: fit, Highlights: []string{}},
		Metrics:         types.Metrics{RoleAlignment: types.AlignmentMedium},
		SkillStrengths:  []types.SkillStrength{},
		RoleMatches:     []types.RoleMatch{{Title: "Data Analyst", Match: 90, Summary: "s"}},
		NextActions:     []types.NextAction{},
		CandidateInfo:   types.CandidateInfo{Name: "Jane Doe", SkillsCount: 4},
		Metadata: &types.Metadata{
			FileID:     uuid.NewString(),
			Filename:   "resume.pdf",
			UploadTime: uploaded.UTC(),
			FileType:   ".pdf",
		},
	}
}
