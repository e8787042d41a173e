package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_ShipsFiveRoles(t *testing.T) {
	cat := Default()

	names := make([]string, 0, len(cat.Roles))
	for _, role := range cat.Roles {
		names = append(names, role.Name)
	}
	assert.Equal(t, []string{
		"Data Analyst",
		"Product Analyst",
		"Business Intelligence Analyst",
		"Data Scientist",
		"Software Engineer",
	}, names)

	assert.Equal(t, 75, cat.Roles[0].BaseScore)
	assert.Equal(t, []string{"sql", "data analysis", "excel", "python"}, cat.Roles[0].RequiredSkills)
}

func TestDefault_FixedSlots(t *testing.T) {
	cat := Default()

	require.Len(t, cat.Strengths, 4)
	assert.Equal(t, "Python", cat.Strengths[0].Name)
	assert.Equal(t, Range{Min: 75, Max: 90}, cat.Strengths[0].Present)
	assert.Equal(t, "Leadership", cat.Strengths[3].Name)

	assert.Len(t, cat.NextActions, 3)
	assert.Len(t, cat.Insights, 3)
	assert.Contains(t, cat.Vocabulary, "power bi")
	assert.Contains(t, cat.Vocabulary, "c++")
}

func TestDefault_IsShared(t *testing.T) {
	assert.Same(t, Default(), Default())
}

func TestSummaryFor(t *testing.T) {
	cat := Default()

	assert.Equal(t, "Technical skills align well with modern development practices.", cat.SummaryFor("Software Engineer"))
	assert.Equal(t, cat.FallbackSummary, cat.SummaryFor("Astronaut"))
}

func TestCategory(t *testing.T) {
	cat := Default()

	assert.Equal(t, "tools", cat.Category("Docker"))
	assert.Equal(t, "analytical", cat.Category(" power bi "))
	assert.Equal(t, "", cat.Category("react"))
}

func TestFocus(t *testing.T) {
	cat := Default()

	tests := []struct {
		role     string
		expected []string
	}{
		{"Data Analyst", []string{"technical", "analytical"}},
		{"Product Analyst", []string{"analytical", "technical", "soft_skills"}},
		{"Software Engineer", []string{"technical", "tools"}},
	}

	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			for _, role := range cat.Roles {
				if role.Name == tt.role {
					assert.Equal(t, tt.expected, cat.Focus(role))
					return
				}
			}
			t.Fatalf("role %s not in catalog", tt.role)
		})
	}

	assert.Empty(t, cat.Focus(Role{Name: "Astronaut", RequiredSkills: []string{"orbital mechanics"}}))
}

func TestCategory_OverlappingCategories(t *testing.T) {
	cat := &Catalog{SkillCategories: map[string][]string{
		"tools":     {"git"},
		"technical": {"git"},
	}}

	assert.Equal(t, "technical", cat.Category("git"))
}

func TestParse_NormalizesSkills(t *testing.T) {
	data := []byte(minimalCatalog("Python"))

	cat, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"python"}, cat.Vocabulary)
	assert.Equal(t, []string{"python"}, cat.Roles[0].RequiredSkills)
}

func TestParse_RejectsUnknownFields(t *testing.T) {
	data := []byte(minimalCatalog("python") + "\nunexpected: true\n")

	_, err := Parse(data)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse catalog YAML")
}

func TestParse_Empty(t *testing.T) {
	_, err := Parse(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty")
}

func TestParse_ValidationFailures(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"no roles", `
vocabulary: [python]
roles: []
fallback_summary: x
` + slotsYAML},
		{"inverted range", `
vocabulary: [python]
roles: [{name: A, base_score: 10}]
fallback_summary: x
skill_strengths:
  - {name: A, triggers: [a], present: {min: 80, max: 70}, absent: {min: 1, max: 2}}
  - {name: B, triggers: [b], present: {min: 1, max: 2}, absent: {min: 1, max: 2}}
  - {name: C, triggers: [c], present: {min: 1, max: 2}, absent: {min: 1, max: 2}}
  - {name: D, triggers: [d], present: {min: 1, max: 2}, absent: {min: 1, max: 2}}
` + actionsAndInsightsYAML},
		{"unknown metric", `
vocabulary: [python]
roles: [{name: A, base_score: 10}]
fallback_summary: x
` + strengthsYAML + actionsYAML + `
insights:
  - {metric: age, threshold: 1, at_or_above: a, below: b}
  - {metric: fit_score, threshold: 1, at_or_above: a, below: b}
  - {metric: fit_score, threshold: 1, at_or_above: a, below: b}
`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "validation failed")
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(minimalCatalog("go")), 0644))

	cat, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"go"}, cat.Vocabulary)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)

	_, err = Load("")
	require.Error(t, err)
}

func TestLoadOrDefault(t *testing.T) {
	cat, err := LoadOrDefault("")
	require.NoError(t, err)
	assert.Same(t, Default(), cat)
}

const strengthsYAML = `
skill_strengths:
  - {name: A, triggers: [a], present: {min: 1, max: 2}, absent: {min: 1, max: 2}}
  - {name: B, triggers: [b], present: {min: 1, max: 2}, absent: {min: 1, max: 2}}
  - {name: C, triggers: [c], present: {min: 1, max: 2}, absent: {min: 1, max: 2}}
  - {name: D, triggers: [d], present: {min: 1, max: 2}, absent: {min: 1, max: 2}}
`

const actionsYAML = `
next_actions:
  - {any_of: [a], when_present: {title: t, description: d}, when_absent: {title: t, description: d}}
  - {any_of: [b], when_present: {title: t, description: d}, when_absent: {title: t, description: d}}
  - {any_of: [c], when_present: {title: t, description: d}, when_absent: {title: t, description: d}}
`

const insightsYAML = `
insights:
  - {metric: fit_score, threshold: 80, at_or_above: a, below: b}
  - {metric: skills_count, threshold: 8, at_or_above: a, below: b}
  - {metric: experience_count, threshold: 3, at_or_above: a, below: b}
`

const actionsAndInsightsYAML = actionsYAML + insightsYAML

const slotsYAML = strengthsYAML + actionsAndInsightsYAML

func minimalCatalog(skill string) string {
	return `
vocabulary: [` + skill + `]
roles:
  - {name: Role, required_skills: [` + skill + `], base_score: 50}
fallback_summary: Generic.
` + slotsYAML
}
