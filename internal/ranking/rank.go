package ranking

import (
	"sort"

	"github.com/jonathan/resume-insights/internal/types"
)

// RoleMatches scores every catalog role against the candidate's skills and returns the best
// MaxRoleMatches in descending order. Ties keep catalog order.
func (e *Engine) RoleMatches(c *types.Candidate, rnd RandomSource) []types.RoleMatch {
	w := e.weights
	held := candidateSkills(c)

	matches := make([]types.RoleMatch, 0, len(e.catalog.Roles))
	for _, role := range e.catalog.Roles {
		score := role.BaseScore
		score += held.Count(role.RequiredSkills) * w.RequiredSkillPoints
		score += held.Count(role.PreferredSkills) * w.PreferredSkillPoints
		score += jitter(rnd, w.RoleJitter)

		matches = append(matches, types.RoleMatch{
			Title:   role.Name,
			Match:   clamp(score, 0, w.RoleMatchCap),
			Summary: e.catalog.SummaryFor(role.Name),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Match > matches[j].Match
	})

	if len(matches) > w.MaxRoleMatches {
		matches = matches[:w.MaxRoleMatches]
	}
	return matches
}
