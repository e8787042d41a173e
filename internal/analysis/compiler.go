// Package analysis runs the scoring engine over a candidate record and compiles the
// result into the analysis document served to clients.
package analysis

import (
	"context"
	"fmt"
	"hash/fnv"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-insights/internal/ranking"
	"github.com/jonathan/resume-insights/internal/types"
)

// Component names passed to a SourceFactory.
const (
	ComponentFitScore       = "fit_score"
	ComponentSkillMomentum  = "skill_momentum"
	ComponentSkillStrengths = "skill_strengths"
	ComponentRoleMatches    = "role_matches"
)

// SourceFactory returns the random source for one scoring component. Each call must
// return a source that is not shared with any other concurrent call.
type SourceFactory func(component string) ranking.RandomSource

// SystemSources gives every component the process-wide generator.
func SystemSources() SourceFactory {
	return func(string) ranking.RandomSource {
		return ranking.NewSystemSource()
	}
}

// SeededSources derives an independent reproducible stream per component from seed, so the
// result does not depend on the order in which components run.
func SeededSources(seed uint64) SourceFactory {
	return func(component string) ranking.RandomSource {
		h := fnv.New64a()
		_, _ = h.Write([]byte(component))
		return ranking.NewSeededSource(seed ^ h.Sum64())
	}
}

// FixedSource hands the same source to every component. The source must be safe for
// concurrent use.
func FixedSource(src ranking.RandomSource) SourceFactory {
	return func(string) ranking.RandomSource {
		return src
	}
}

// Compiler runs the independent scoring computations concurrently and merges them.
type Compiler struct {
	engine  *ranking.Engine
	sources SourceFactory
	logger  *zap.Logger
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithSources sets the random source factory.
func WithSources(f SourceFactory) Option {
	return func(c *Compiler) {
		if f != nil {
			c.sources = f
		}
	}
}

// WithSeed makes every analysis reproducible for the given seed.
func WithSeed(seed uint64) Option {
	return WithSources(SeededSources(seed))
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Compiler) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewCompiler creates a compiler around engine. Without options it draws from the
// system generator and logs nothing.
func NewCompiler(engine *ranking.Engine, opts ...Option) *Compiler {
	c := &Compiler{
		engine:  engine,
		sources: SystemSources(),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Engine returns the scoring engine.
func (c *Compiler) Engine() *ranking.Engine {
	return c.engine
}

// Analyze scores the candidate. It fails only when ctx is cancelled.
func (c *Compiler) Analyze(ctx context.Context, cand *types.Candidate) (*types.AnalysisResult, error) {
	if cand == nil {
		return nil, fmt.Errorf("candidate is nil")
	}

	var (
		result    types.AnalysisResult
		fitSource = c.sources(ComponentFitScore)
		momSource = c.sources(ComponentSkillMomentum)
		strSource = c.sources(ComponentSkillStrengths)
		roleSrc   = c.sources(ComponentRoleMatches)
	)

	g, gCtx := errgroup.WithContext(ctx)

	// Alignment and insights depend on the fit score.
	g.Go(func() error {
		if err := gCtx.Err(); err != nil {
			return err
		}
		result.FitScore = c.engine.FitScore(cand, fitSource)
		result.RoleAlignment = c.engine.RoleAlignment(result.FitScore)
		result.Insights = c.engine.Insights(cand, result.FitScore)
		return nil
	})

	g.Go(func() error {
		if err := gCtx.Err(); err != nil {
			return err
		}
		result.SkillMomentum = c.engine.SkillMomentum(cand, momSource)
		return nil
	})

	g.Go(func() error {
		if err := gCtx.Err(); err != nil {
			return err
		}
		result.SkillStrengths = c.engine.SkillStrengths(cand, strSource)
		return nil
	})

	g.Go(func() error {
		if err := gCtx.Err(); err != nil {
			return err
		}
		result.RoleMatches = c.engine.RoleMatches(cand, roleSrc)
		return nil
	})

	g.Go(func() error {
		if err := gCtx.Err(); err != nil {
			return err
		}
		result.NextActions = c.engine.NextActions(cand)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("analysis cancelled: %w", err)
	}

	c.logger.Debug("analysis complete",
		zap.String("candidate", cand.Name),
		zap.Int("fit_score", result.FitScore),
		zap.String("role_alignment", string(result.RoleAlignment)),
		zap.Int("skill_momentum", result.SkillMomentum),
		zap.Int("role_matches", len(result.RoleMatches)),
	)

	return &result, nil
}
