package schemas

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-insights/internal/types"
)

func fieldNames(err error) []string {
	var ve *ValidationError
	if !errors.As(err, &ve) {
		return nil
	}
	names := make([]string, 0, len(ve.Errors))
	for _, fe := range ve.Errors {
		names = append(names, fe.Field)
	}
	return names
}

func TestEmbeddedSchemas_AreValidJSON(t *testing.T) {
	for _, name := range []string{Analysis, Candidate} {
		t.Run(name, func(t *testing.T) {
			raw, ok := Embedded(name)
			require.True(t, ok)

			var v map[string]any
			require.NoError(t, json.Unmarshal(raw, &v))
			assert.Equal(t, "object", v["type"])
		})
	}

	_, ok := Embedded("job_profile")
	assert.False(t, ok)
}

func TestValidate_AnalysisDocument(t *testing.T) {
	doc := types.AnalysisDocument{
		OverallInsights: types.OverallInsights{FitScore: 80, WeekChange: 3, Highlights: []string{"a"}},
		Metrics:         types.Metrics{RoleAlignment: types.AlignmentHigh, SkillMomentum: 12, ReadinessActionsCount: 3},
		SkillStrengths:  []types.SkillStrength{{Name: "Python", Level: 88}},
		RoleMatches:     []types.RoleMatch{{Title: "Data Analyst", Match: 95, Summary: "s"}},
		NextActions:     []types.NextAction{{Title: "t", Description: "d"}},
		CandidateInfo:   types.CandidateInfo{Name: "Jane Doe", SkillsCount: 1},
		Metadata: &types.Metadata{
			FileID:     "5f0c1c4e-2a7b-4b8e-9c61-0d2f6f7d3a11",
			Filename:   "r.pdf",
			UploadTime: time.Date(2024, 1, 15, 10, 30, 0, 123456789, time.UTC),
			FileType:   ".pdf",
		},
	}
	assert.NoError(t, Validate(Analysis, doc))

	doc.Metadata = nil
	assert.NoError(t, Validate(Analysis, doc), "metadata is optional")

	doc.SkillStrengths[0].Level = 101
	err := Validate(Analysis, doc)
	require.Error(t, err)
	assert.Contains(t, fieldNames(err), "skill_strengths.0.level")
}

func TestValidate_NilListsRejected(t *testing.T) {
	doc := types.AnalysisDocument{
		OverallInsights: types.OverallInsights{Highlights: []string{}},
		Metrics:         types.Metrics{RoleAlignment: types.AlignmentLow},
		CandidateInfo:   types.CandidateInfo{Name: "Candidate"},
	}

	err := Validate(Analysis, doc)
	require.Error(t, err)
	assert.Contains(t, fieldNames(err), "skill_strengths")
}

func TestValidate_Candidate(t *testing.T) {
	cand := types.NewCandidate("text")
	cand.Skills = []string{"Python", "Sql"}
	assert.NoError(t, Validate(Candidate, cand))

	cand.Skills = []string{"Python", "Python"}
	assert.Error(t, Validate(Candidate, cand))

	cand = types.NewCandidate("text")
	for i := 0; i < 6; i++ {
		cand.Experience = append(cand.Experience, types.ExperienceEntry{Description: "Senior analyst at Acme"})
	}
	err := Validate(Candidate, cand)
	require.Error(t, err)
	assert.Contains(t, fieldNames(err), "experience")
}

func TestValidateBytes(t *testing.T) {
	err := ValidateBytes("nope", []byte(`{}`))
	var loadErr *SchemaLoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Contains(t, err.Error(), "unknown schema")

	err = ValidateBytes(Analysis, []byte(`{ invalid json }`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read document")
}

func TestValidateFile(t *testing.T) {
	tests := []struct {
		name       string
		schema     string
		jsonFile   string
		wantFields []string
		wantErr    string
	}{
		{
			name:     "embedded valid",
			schema:   Analysis,
			jsonFile: filepath.Join("testdata", "analysis_valid.json"),
		},
		{
			name:       "embedded invalid",
			schema:     Analysis,
			jsonFile:   filepath.Join("testdata", "analysis_invalid.json"),
			wantFields: []string{"overall_insights.fit_score", "metrics.role_alignment", "(root)"},
		},
		{
			name:     "embedded missing file",
			schema:   Analysis,
			jsonFile: filepath.Join("testdata", "missing.json"),
			wantErr:  "not found",
		},
		{
			name:       "schema path",
			schema:     filepath.Join("testdata", "person.schema.json"),
			jsonFile:   filepath.Join("testdata", "analysis_valid.json"),
			wantFields: []string{"(root)"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFile(tt.schema, tt.jsonFile)
			switch {
			case tt.wantErr != "":
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			case len(tt.wantFields) > 0:
				require.Error(t, err)
				got := fieldNames(err)
				for _, f := range tt.wantFields {
					assert.Contains(t, got, f)
				}
			default:
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateJSON_NonExistentSchema(t *testing.T) {
	err := ValidateJSON(filepath.Join("testdata", "nonexistent.schema.json"), filepath.Join("testdata", "analysis_valid.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestValidateJSON_MalformedJSON(t *testing.T) {
	malformed := filepath.Join(t.TempDir(), "malformed.json")
	require.NoError(t, os.WriteFile(malformed, []byte("{ invalid json }"), 0644))

	err := ValidateJSON(filepath.Join("testdata", "person.schema.json"), malformed)
	require.Error(t, err)
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{
		Errors: []FieldError{
			{Field: "name", Message: "is required"},
			{Field: "age", Message: "must be a number"},
		},
	}

	msg := err.Error()
	assert.Contains(t, msg, "validation failed")
	assert.Contains(t, msg, "1. name: is required")
	assert.Contains(t, msg, "2. age: must be a number")
}
