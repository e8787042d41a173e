package analysis

import (
	"github.com/jonathan/resume-insights/internal/types"
)

// Compile builds the analysis document for a scored candidate. previous is the latest
// stored analysis, if any; the week change is the fit-score delta against it.
// meta may be nil for analyses that did not come from an upload.
func Compile(cand *types.Candidate, result *types.AnalysisResult, meta *types.Metadata, previous *types.AnalysisDocument) *types.AnalysisDocument {
	weekChange := 0
	if previous != nil {
		weekChange = result.FitScore - previous.OverallInsights.FitScore
	}

	return &types.AnalysisDocument{
		OverallInsights: types.OverallInsights{
			FitScore:   result.FitScore,
			WeekChange: weekChange,
			Highlights: nonNil(result.Insights),
		},
		Metrics: types.Metrics{
			RoleAlignment:         result.RoleAlignment,
			SkillMomentum:         result.SkillMomentum,
			ReadinessActionsCount: len(result.NextActions),
		},
		SkillStrengths: nonNil(result.SkillStrengths),
		RoleMatches:    nonNil(result.RoleMatches),
		NextActions:    nonNil(result.NextActions),
		CandidateInfo: types.CandidateInfo{
			Name:            cand.Name,
			Email:           cand.Email,
			SkillsCount:     len(cand.Skills),
			ExperienceCount: len(cand.Experience),
			EducationCount:  len(cand.Education),
		},
		Metadata: meta,
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
