package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-insights/internal/analysis"
	"github.com/jonathan/resume-insights/internal/catalog"
	"github.com/jonathan/resume-insights/internal/ingestion"
	"github.com/jonathan/resume-insights/internal/parsing"
	"github.com/jonathan/resume-insights/internal/ranking"
	"github.com/jonathan/resume-insights/internal/store"
)

const resumeText = `Jane Doe
jane.doe@example.com | 555-987-6543

Skills
Python, SQL, Excel, Tableau, Data Analysis, Statistics

Experience
Initech - Data Analyst, 2019-2024
Owned weekly reporting and A/B testing for the growth team.

Education
Bachelor of Science in Economics, State University
`

const thinResumeText = `Sam Lee
Worked at a bakery.
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func newTestPipeline(t *testing.T, st store.Store) *Pipeline {
	t.Helper()
	engine, err := ranking.NewEngine(nil, ranking.DefaultWeights())
	require.NoError(t, err)
	compiler := analysis.NewCompiler(engine, analysis.WithSources(analysis.FixedSource(ranking.MidpointSource{})))
	return New(parsing.NewParser(nil), compiler, st, nil)
}

func TestRun_ProducesDocument(t *testing.T) {
	p := newTestPipeline(t, nil)
	path := writeFile(t, "jane.txt", resumeText)
	uploaded := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	res, err := p.Run(context.Background(), RunOptions{
		Path:       path,
		FileID:     "0b7f7d3e-59a4-4a0e-8f53-1c2b8a6c9d10",
		Filename:   "Jane Resume.TXT",
		UploadTime: uploaded,
	})
	require.NoError(t, err)

	assert.Equal(t, "Jane Doe", res.Candidate.Name)
	assert.Equal(t, "jane.doe@example.com", res.Candidate.Email)
	assert.Contains(t, res.Candidate.Skills, "Python")

	doc := res.Document
	require.NotNil(t, doc.Metadata)
	assert.Equal(t, "0b7f7d3e-59a4-4a0e-8f53-1c2b8a6c9d10", doc.Metadata.FileID)
	assert.Equal(t, "Jane Resume.TXT", doc.Metadata.Filename)
	assert.Equal(t, ".txt", doc.Metadata.FileType)
	assert.Equal(t, uploaded, doc.Metadata.UploadTime)

	assert.Equal(t, res.Analysis.FitScore, doc.OverallInsights.FitScore)
	assert.Equal(t, 0, doc.OverallInsights.WeekChange)
	assert.Equal(t, len(res.Candidate.Skills), doc.CandidateInfo.SkillsCount)
	assert.Equal(t, len(doc.NextActions), doc.Metrics.ReadinessActionsCount)
}

func TestRun_Defaults(t *testing.T) {
	p := newTestPipeline(t, nil)
	path := writeFile(t, "resume.md", resumeText)

	before := time.Now().UTC()
	res, err := p.Run(context.Background(), RunOptions{Path: path})
	require.NoError(t, err)

	meta := res.Document.Metadata
	assert.NoError(t, store.ValidateID(meta.FileID))
	assert.Equal(t, "resume.md", meta.Filename)
	assert.Equal(t, ".md", meta.FileType)
	assert.False(t, meta.UploadTime.Before(before))
}

func TestRun_ProgressEvents(t *testing.T) {
	st, err := store.NewFileStore(t.TempDir())
	require.NoError(t, err)
	p := newTestPipeline(t, st)

	var steps []string
	_, err = p.Run(context.Background(), RunOptions{
		Path:    writeFile(t, "r.txt", resumeText),
		Persist: true,
		OnProgress: func(e ProgressEvent) {
			assert.NotEmpty(t, e.FileID)
			if len(steps) == 0 || steps[len(steps)-1] != e.Step {
				steps = append(steps, e.Step)
			}
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{StepIngest, StepParse, StepAnalyze, StepCompile, StepPersist, StepDone}, steps)
}

func TestRun_PersistTracksWeekChange(t *testing.T) {
	ctx := context.Background()
	st, err := store.NewFileStore(t.TempDir())
	require.NoError(t, err)
	p := newTestPipeline(t, st)

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	first, err := p.Run(ctx, RunOptions{Path: writeFile(t, "thin.txt", thinResumeText), UploadTime: base, Persist: true})
	require.NoError(t, err)
	assert.Equal(t, 0, first.Document.OverallInsights.WeekChange)

	second, err := p.Run(ctx, RunOptions{Path: writeFile(t, "full.txt", resumeText), UploadTime: base.Add(time.Hour), Persist: true})
	require.NoError(t, err)

	want := second.Document.OverallInsights.FitScore - first.Document.OverallInsights.FitScore
	assert.Greater(t, want, 0)
	assert.Equal(t, want, second.Document.OverallInsights.WeekChange)

	latest, err := st.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, second.Document.ID(), latest.ID())
}

func TestRun_NoPersistLeavesStoreUntouched(t *testing.T) {
	ctx := context.Background()
	st, err := store.NewFileStore(t.TempDir())
	require.NoError(t, err)
	p := newTestPipeline(t, st)

	_, err = p.Run(ctx, RunOptions{Path: writeFile(t, "r.txt", resumeText)})
	require.NoError(t, err)

	_, err = st.Latest(ctx)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestRun_Errors(t *testing.T) {
	p := newTestPipeline(t, nil)

	_, err := p.Run(context.Background(), RunOptions{})
	require.Error(t, err)

	_, err = p.Run(context.Background(), RunOptions{Path: writeFile(t, "r.rtf", "x")})
	var stepErr *StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, StepIngest, stepErr.Step)

	var formatErr *ingestion.UnsupportedFormatError
	assert.True(t, errors.As(err, &formatErr))
}

func TestRun_CancelledContext(t *testing.T) {
	p := newTestPipeline(t, nil)
	path := writeFile(t, "r.txt", resumeText)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Run(ctx, RunOptions{Path: path})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAnalyzeText(t *testing.T) {
	p := newTestPipeline(t, nil)

	res, err := p.AnalyzeText(context.Background(), resumeText, nil)
	require.NoError(t, err)
	assert.Nil(t, res.Document.Metadata)
	assert.Equal(t, "Jane Doe", res.Document.CandidateInfo.Name)
}

func TestPipeline_CatalogComesFromEngine(t *testing.T) {
	p := newTestPipeline(t, nil)

	assert.Same(t, catalog.Default(), p.Catalog())
}
