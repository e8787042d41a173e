package ranking

import (
	"github.com/jonathan/resume-insights/internal/types"
)

// FitScore combines capped per-section contributions with the base score and a small
// random perturbation. The result lies in [0, 100].
func (e *Engine) FitScore(c *types.Candidate, rnd RandomSource) int {
	w := e.weights

	score := w.BaseScore
	score += min(len(c.Skills)*w.SkillPoints, w.SkillCap)
	score += min(len(c.Experience)*w.ExperiencePoints, w.ExperienceCap)
	score += min(len(c.Education)*w.EducationPoints, w.EducationCap)
	score += min(len(c.Projects)*w.ProjectPoints, w.ProjectCap)
	score += jitter(rnd, w.FitJitter)

	return clamp(score, 0, 100)
}

// RoleAlignment buckets a fit score into an alignment tier.
func (e *Engine) RoleAlignment(fitScore int) types.Alignment {
	switch {
	case fitScore >= e.weights.HighAlignment:
		return types.AlignmentHigh
	case fitScore >= e.weights.MediumAlignment:
		return types.AlignmentMedium
	default:
		return types.AlignmentLow
	}
}

// SkillMomentum estimates growth from skill breadth and project count. The result lies
// in [0, MomentumMax].
func (e *Engine) SkillMomentum(c *types.Candidate, rnd RandomSource) int {
	w := e.weights

	momentum := w.MomentumBase
	momentum += len(c.Skills) / w.MomentumSkillDivisor
	momentum += len(c.Projects) * w.MomentumProjectPoints
	momentum += jitter(rnd, w.MomentumJitter)

	return clamp(momentum, 0, w.MomentumMax)
}

// SkillStrengths returns one level per catalog dimension, in catalog order. A dimension
// draws from its present range when any trigger skill is held, else from its absent range.
func (e *Engine) SkillStrengths(c *types.Candidate, rnd RandomSource) []types.SkillStrength {
	held := candidateSkills(c)

	strengths := make([]types.SkillStrength, 0, len(e.catalog.Strengths))
	for _, dim := range e.catalog.Strengths {
		r := dim.Absent
		if held.HasAny(dim.Triggers...) {
			r = dim.Present
		}
		strengths = append(strengths, types.SkillStrength{
			Name:  dim.Name,
			Level: clamp(rnd.IntRange(r.Min, r.Max), 0, 100),
		})
	}
	return strengths
}
