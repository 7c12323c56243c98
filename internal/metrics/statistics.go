package metrics

import "github.com/ludo-technologies/mscan/domain"

// StatisticsCollector describes one evaluator's ratio across the recipes of a group
type StatisticsCollector struct {
	evaluator *Evaluator
}

// NewStatisticsCollector creates a collector for e
func NewStatisticsCollector(e *Evaluator) *StatisticsCollector {
	return &StatisticsCollector{evaluator: e}
}

// Parse evaluates each recipe on its own. Unavailable recipes take part with
// a ratio of 0. value is carried through for display.
func (s *StatisticsCollector) Parse(group *domain.RecipeGroup, value float64) domain.Statistics {
	stats := domain.Statistics{
		Threshold: s.evaluator.Threshold(),
		Value:     value,
	}

	recipes := group.Recipes()
	if len(recipes) == 0 {
		return stats
	}

	var sum float64
	for i, r := range recipes {
		ratio := s.evaluator.Evaluate(r).Ratio
		if i == 0 || ratio < stats.Min {
			stats.Min = ratio
		}
		if i == 0 || ratio > stats.Max {
			stats.Max = ratio
		}
		sum += ratio
	}
	stats.Average = sum / float64(len(recipes))
	return stats
}
