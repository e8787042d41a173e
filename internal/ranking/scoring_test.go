package ranking

import (
	"fmt"
	"testing"

	"github.com/jonathan/resume-insights/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// boundSource always returns one end of the requested range.
type boundSource struct {
	high bool
}

func (s boundSource) IntRange(lo, hi int) int {
	if s.high {
		return max(lo, hi)
	}
	return min(lo, hi)
}

func newCandidate(skillNames []string, experience, education, projects int) *types.Candidate {
	c := types.NewCandidate("")
	c.Skills = append(c.Skills, skillNames...)
	for i := 0; i < experience; i++ {
		c.Experience = append(c.Experience, types.ExperienceEntry{Description: fmt.Sprintf("role %d", i)})
	}
	for i := 0; i < education; i++ {
		c.Education = append(c.Education, types.EducationEntry{Degree: fmt.Sprintf("degree %d", i)})
	}
	for i := 0; i < projects; i++ {
		c.Projects = append(c.Projects, types.ProjectEntry{Description: fmt.Sprintf("project %d", i)})
	}
	return &c
}

func nSkills(n int) []string {
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, fmt.Sprintf("Skill %d", i))
	}
	return out
}

func TestFitScore(t *testing.T) {
	engine := newTestEngine(t, nil, DefaultWeights())

	tests := []struct {
		name      string
		candidate *types.Candidate
		rnd       RandomSource
		expected  int
	}{
		{"empty record", newCandidate(nil, 0, 0, 0), MidpointSource{}, 50},
		{"mixed counts", newCandidate(nSkills(5), 2, 1, 1), MidpointSource{}, 73},
		{"components capped", newCandidate(nSkills(20), 6, 3, 6), MidpointSource{}, 100},
		{"clamped at 100", newCandidate(nSkills(20), 6, 3, 6), boundSource{high: true}, 100},
		{"negative perturbation", newCandidate(nil, 0, 0, 0), boundSource{}, 45},
		{"positive perturbation", newCandidate(nil, 0, 0, 0), boundSource{high: true}, 55},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, engine.FitScore(tt.candidate, tt.rnd))
		})
	}
}

func TestFitScore_ClampedAtZero(t *testing.T) {
	w := DefaultWeights()
	w.BaseScore = 0
	engine := newTestEngine(t, nil, w)

	assert.Equal(t, 0, engine.FitScore(newCandidate(nil, 0, 0, 0), boundSource{}))
}

func TestRoleAlignment(t *testing.T) {
	engine := newTestEngine(t, nil, DefaultWeights())

	tests := []struct {
		score    int
		expected types.Alignment
	}{
		{0, types.AlignmentLow},
		{59, types.AlignmentLow},
		{60, types.AlignmentMedium},
		{79, types.AlignmentMedium},
		{80, types.AlignmentHigh},
		{100, types.AlignmentHigh},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("score %d", tt.score), func(t *testing.T) {
			assert.Equal(t, tt.expected, engine.RoleAlignment(tt.score))
		})
	}
}

func TestSkillMomentum(t *testing.T) {
	engine := newTestEngine(t, nil, DefaultWeights())

	tests := []struct {
		name      string
		candidate *types.Candidate
		rnd       RandomSource
		expected  int
	}{
		{"empty record", newCandidate(nil, 0, 0, 0), MidpointSource{}, 5},
		{"skills and projects", newCandidate(nSkills(9), 0, 0, 3), MidpointSource{}, 14},
		{"skills floor division", newCandidate(nSkills(8), 0, 0, 0), MidpointSource{}, 7},
		{"capped at max", newCandidate(nSkills(30), 0, 0, 10), boundSource{high: true}, 25},
		{"lowest draw", newCandidate(nil, 0, 0, 0), boundSource{}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, engine.SkillMomentum(tt.candidate, tt.rnd))
		})
	}
}

func TestSkillStrengths(t *testing.T) {
	engine := newTestEngine(t, nil, DefaultWeights())

	strengths := engine.SkillStrengths(newCandidate([]string{"Python", "Leadership"}, 0, 0, 0), MidpointSource{})

	assert.Equal(t, []types.SkillStrength{
		{Name: "Python", Level: 82},
		{Name: "Data Analysis", Level: 47},
		{Name: "Communication", Level: 72},
		{Name: "Leadership", Level: 65},
	}, strengths)
}

func TestSkillStrengths_RangesByPresence(t *testing.T) {
	engine := newTestEngine(t, nil, DefaultWeights())
	cat := engine.Catalog()

	none := engine.SkillStrengths(newCandidate(nil, 0, 0, 0), boundSource{high: true})
	all := engine.SkillStrengths(newCandidate([]string{"Python", "Statistics", "Communication", "Project Management"}, 0, 0, 0), boundSource{})

	require.Len(t, none, 4)
	require.Len(t, all, 4)
	for i, dim := range cat.Strengths {
		assert.Equal(t, dim.Absent.Max, none[i].Level, dim.Name)
		assert.Equal(t, dim.Present.Min, all[i].Level, dim.Name)
	}
}

func TestScore_BoundsHoldForRandomDraws(t *testing.T) {
	engine := newTestEngine(t, nil, DefaultWeights())
	rnd := NewSystemSource()

	candidates := []*types.Candidate{
		newCandidate(nil, 0, 0, 0),
		newCandidate([]string{"Sql", "Python", "Tableau"}, 1, 1, 1),
		newCandidate(nSkills(40), 5, 3, 5),
	}

	for i := 0; i < 200; i++ {
		for _, c := range candidates {
			result := scoreAll(engine, c, rnd)

			assert.GreaterOrEqual(t, result.FitScore, 0)
			assert.LessOrEqual(t, result.FitScore, 100)
			assert.GreaterOrEqual(t, result.SkillMomentum, 0)
			assert.LessOrEqual(t, result.SkillMomentum, 25)
			assert.Equal(t, engine.RoleAlignment(result.FitScore), result.RoleAlignment)
			assert.Len(t, result.SkillStrengths, 4)
			for _, s := range result.SkillStrengths {
				assert.GreaterOrEqual(t, s.Level, 0)
				assert.LessOrEqual(t, s.Level, 100)
			}
			assert.LessOrEqual(t, len(result.RoleMatches), 3)
			for j, m := range result.RoleMatches {
				assert.LessOrEqual(t, m.Match, 95)
				assert.Contains(t, roleNames(engine.Catalog()), m.Title)
				if j > 0 {
					assert.GreaterOrEqual(t, result.RoleMatches[j-1].Match, m.Match)
				}
			}
			assert.Len(t, result.NextActions, 3)
			assert.Len(t, result.Insights, 3)
		}
	}
}

func TestScore_SeededRunsReproducible(t *testing.T) {
	engine := newTestEngine(t, nil, DefaultWeights())
	c := newCandidate([]string{"Python", "Sql", "Excel"}, 2, 1, 2)

	first := scoreAll(engine, c, NewSeededSource(1234))
	second := scoreAll(engine, c, NewSeededSource(1234))

	assert.Equal(t, first, second)
}

func TestScore_EmptyRecord(t *testing.T) {
	engine := newTestEngine(t, nil, DefaultWeights())

	result := scoreAll(engine, newCandidate(nil, 0, 0, 0), MidpointSource{})

	assert.Equal(t, 50, result.FitScore)
	assert.Equal(t, types.AlignmentLow, result.RoleAlignment)
	assert.Equal(t, 5, result.SkillMomentum)
	assert.Len(t, result.SkillStrengths, 4)
	assert.Len(t, result.RoleMatches, 3)
	assert.Len(t, result.NextActions, 3)
	assert.Len(t, result.Insights, 3)
}
