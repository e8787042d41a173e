// Package pipeline provides the high-level orchestration from an uploaded resume file to a
// stored analysis document.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/resume-insights/internal/analysis"
	"github.com/jonathan/resume-insights/internal/catalog"
	"github.com/jonathan/resume-insights/internal/ingestion"
	"github.com/jonathan/resume-insights/internal/parsing"
	"github.com/jonathan/resume-insights/internal/store"
	"github.com/jonathan/resume-insights/internal/types"
)

// Step names reported in progress events.
const (
	StepIngest  = "ingest"
	StepParse   = "parse"
	StepAnalyze = "analyze"
	StepCompile = "compile"
	StepPersist = "persist"
	StepDone    = "done"
)

// ProgressEvent represents a progress update during pipeline execution
type ProgressEvent struct {
	Step    string `json:"step"`
	Message string `json:"message"`
	FileID  string `json:"file_id,omitempty"`
	Content any    `json:"content,omitempty"`
}

// ProgressCallback is called when pipeline progress occurs
type ProgressCallback func(event ProgressEvent)

// RunOptions describes one file to analyze.
type RunOptions struct {
	// Path is the file to read.
	Path string
	// FileID identifies the analysis. A new UUID is generated when empty.
	FileID string
	// Filename is the name shown to users. Defaults to the base name of Path.
	Filename string
	// UploadTime defaults to the current time.
	UploadTime time.Time
	// Persist saves the document to the store and uses the latest stored analysis
	// for the week-over-week change.
	Persist    bool
	OnProgress ProgressCallback
}

// Result holds every intermediate artifact of a run.
type Result struct {
	Text      string
	Candidate *types.Candidate
	Analysis  *types.AnalysisResult
	Document  *types.AnalysisDocument
}

// StepError reports the step a run failed in.
type StepError struct {
	Step  string
	Cause error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Step, e.Cause)
}

func (e *StepError) Unwrap() error {
	return e.Cause
}

// Pipeline wires text extraction, field extraction, scoring and persistence together.
// It is safe for concurrent use.
type Pipeline struct {
	parser   *parsing.Parser
	compiler *analysis.Compiler
	store    store.Store
	logger   *zap.Logger
}

// New creates a pipeline. st may be nil, in which case runs are never persisted.
func New(parser *parsing.Parser, compiler *analysis.Compiler, st store.Store, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		parser:   parser,
		compiler: compiler,
		store:    st,
		logger:   logger,
	}
}

// Store returns the analysis store, or nil.
func (p *Pipeline) Store() store.Store {
	return p.store
}

// Catalog returns the catalog candidates are scored against.
func (p *Pipeline) Catalog() *catalog.Catalog {
	return p.compiler.Engine().Catalog()
}

// Run extracts, parses, scores and compiles the file described by opts.
func (p *Pipeline) Run(ctx context.Context, opts RunOptions) (*Result, error) {
	if opts.Path == "" {
		return nil, fmt.Errorf("no input file given")
	}
	if opts.FileID == "" {
		opts.FileID = uuid.NewString()
	}
	if opts.Filename == "" {
		opts.Filename = filepath.Base(opts.Path)
	}

	emit := func(step, message string, content any) {
		if opts.OnProgress != nil {
			opts.OnProgress(ProgressEvent{Step: step, Message: message, FileID: opts.FileID, Content: content})
		}
	}

	logger := p.logger.With(zap.String("file_id", opts.FileID), zap.String("filename", opts.Filename))

	emit(StepIngest, "Extracting text", nil)
	text, err := ingestion.ExtractFromFile(ctx, opts.Path)
	if err != nil {
		return nil, &StepError{Step: StepIngest, Cause: err}
	}
	logger.Debug("extracted text", zap.Int("characters", len(text)))

	meta := &types.Metadata{
		FileID:     opts.FileID,
		Filename:   opts.Filename,
		UploadTime: opts.UploadTime,
		FileType:   strings.ToLower(filepath.Ext(opts.Filename)),
	}
	if meta.UploadTime.IsZero() {
		meta.UploadTime = time.Now().UTC()
	}

	return p.analyze(ctx, text, meta, opts.Persist, emit, logger)
}

// AnalyzeText runs every step after text extraction. meta may be nil.
func (p *Pipeline) AnalyzeText(ctx context.Context, text string, meta *types.Metadata) (*Result, error) {
	return p.analyze(ctx, text, meta, false, func(string, string, any) {}, p.logger)
}

func (p *Pipeline) analyze(ctx context.Context, text string, meta *types.Metadata, persist bool,
	emit func(step, message string, content any), logger *zap.Logger) (*Result, error) {
	emit(StepParse, "Extracting candidate fields", nil)
	cand := p.parser.Extract(text)
	logger.Debug("parsed candidate",
		zap.String("name", cand.Name),
		zap.Int("skills", len(cand.Skills)),
		zap.Int("experience", len(cand.Experience)),
		zap.Int("education", len(cand.Education)),
	)
	emit(StepParse, fmt.Sprintf("Found %d skills", len(cand.Skills)), &cand)

	emit(StepAnalyze, "Scoring candidate", nil)
	result, err := p.compiler.Analyze(ctx, &cand)
	if err != nil {
		return nil, &StepError{Step: StepAnalyze, Cause: err}
	}

	var previous *types.AnalysisDocument
	if persist && p.store != nil {
		previous, err = p.store.Latest(ctx)
		if err != nil {
			if !errors.Is(err, store.ErrNotFound) {
				logger.Warn("failed to load previous analysis", zap.Error(err))
			}
			previous = nil
		}
	}

	emit(StepCompile, "Compiling analysis", nil)
	doc := analysis.Compile(&cand, result, meta, previous)

	if persist && p.store != nil {
		emit(StepPersist, "Saving analysis", nil)
		if err := p.store.Save(ctx, doc); err != nil {
			return nil, &StepError{Step: StepPersist, Cause: err}
		}
		logger.Info("analysis saved", zap.Int("fit_score", doc.OverallInsights.FitScore))
	}

	emit(StepDone, "Analysis complete", doc)
	return &Result{
		Text:      text,
		Candidate: &cand,
		Analysis:  result,
		Document:  doc,
	}, nil
}
