package ranking

import (
	"github.com/jonathan/resume-insights/internal/catalog"
	"github.com/jonathan/resume-insights/internal/types"
)

// NextActions picks one recommendation per catalog slot based on the candidate's skills.
func (e *Engine) NextActions(c *types.Candidate) []types.NextAction {
	held := candidateSkills(c)

	actions := make([]types.NextAction, 0, len(e.catalog.NextActions))
	for _, slot := range e.catalog.NextActions {
		rec := slot.WhenAbsent
		if held.HasAny(slot.AnyOf...) {
			rec = slot.WhenPresent
		}
		actions = append(actions, types.NextAction{Title: rec.Title, Description: rec.Description})
	}
	return actions
}

// Insights picks one sentence per catalog slot by comparing the slot metric to its threshold.
func (e *Engine) Insights(c *types.Candidate, fitScore int) []string {
	insights := make([]string, 0, len(e.catalog.Insights))
	for _, slot := range e.catalog.Insights {
		if metricValue(slot.Metric, c, fitScore) >= slot.Threshold {
			insights = append(insights, slot.AtOrAbove)
		} else {
			insights = append(insights, slot.Below)
		}
	}
	return insights
}

func metricValue(metric string, c *types.Candidate, fitScore int) int {
	switch metric {
	case catalog.MetricFitScore:
		return fitScore
	case catalog.MetricSkillsCount:
		return len(c.Skills)
	case catalog.MetricExperienceCount:
		return len(c.Experience)
	default:
		return 0
	}
}
