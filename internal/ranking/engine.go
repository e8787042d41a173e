// Package ranking scores a candidate record: overall fit, alignment tier, skill momentum,
// skill strengths, ranked role matches, next actions and insights.
package ranking

import (
	"github.com/jonathan/resume-insights/internal/catalog"
	"github.com/jonathan/resume-insights/internal/skills"
	"github.com/jonathan/resume-insights/internal/types"
)

// Engine computes the scores for a candidate. It holds only read-only configuration and
// is safe for concurrent use; randomness comes from the RandomSource passed to each call.
type Engine struct {
	catalog *catalog.Catalog
	weights Weights
}

// NewEngine creates an engine over the given catalog and weights.
// A nil catalog selects the embedded default. Weights must pass Validate.
func NewEngine(cat *catalog.Catalog, weights Weights) (*Engine, error) {
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	if cat == nil {
		cat = catalog.Default()
	}
	return &Engine{catalog: cat, weights: weights}, nil
}

// Catalog returns the catalog the engine scores against.
func (e *Engine) Catalog() *catalog.Catalog {
	return e.catalog
}

func candidateSkills(c *types.Candidate) skills.Set {
	return skills.NewSet(c.Skills...)
}

func jitter(rnd RandomSource, spread int) int {
	if spread == 0 {
		return 0
	}
	return rnd.IntRange(-spread, spread)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
