package metrics

import (
	"github.com/ludo-technologies/mscan/domain"
	"github.com/ludo-technologies/mscan/internal/config"
)

// BuildStatusResolver decides the per-category and combined build status
type BuildStatusResolver struct {
	quality    *config.QualityConfig
	evaluators []*Evaluator
}

// NewBuildStatusResolver creates a resolver for the given evaluators
func NewBuildStatusResolver(quality *config.QualityConfig, evaluators []*Evaluator) *BuildStatusResolver {
	return &BuildStatusResolver{quality: quality, evaluators: evaluators}
}

// Resolve marks a category unstable when its unstable toggle is on and its
// evaluation is available but unqualified. It never yields StatusFailure.
func (r *BuildStatusResolver) Resolve(c domain.Collection) domain.StatusSummary {
	summary := domain.StatusSummary{
		Combined:   domain.StatusSuccess,
		Categories: make([]domain.CategoryStatus, 0, len(r.evaluators)),
	}
	for _, e := range r.evaluators {
		status := r.statusOf(e, e.Evaluate(c))
		summary.Categories = append(summary.Categories, domain.CategoryStatus{Category: e.Category(), Status: status})
		summary.Combined = summary.Combined.Combine(status)
	}
	return summary
}

// StatusOf resolves one category from an evaluation computed elsewhere
func (r *BuildStatusResolver) StatusOf(category domain.Category, ev domain.Evaluation) domain.BuildStatus {
	for _, e := range r.evaluators {
		if e.Category() == category {
			return r.statusOf(e, ev)
		}
	}
	return domain.StatusSuccess
}

func (r *BuildStatusResolver) statusOf(e *Evaluator, ev domain.Evaluation) domain.BuildStatus {
	criterion, err := CriterionFor(r.quality, e.Category())
	if err != nil || !criterion.Unstable {
		return domain.StatusSuccess
	}
	if ev.Available && !ev.Qualified {
		return domain.StatusUnstable
	}
	return domain.StatusSuccess
}
