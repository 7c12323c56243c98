package app

import (
	"context"
	"fmt"
	"time"

	"github.com/ludo-technologies/mscan/domain"
	"github.com/ludo-technologies/mscan/internal/version"
)

// CheckUseCase turns an evaluation into a CI quality gate verdict
type CheckUseCase struct {
	evaluate *EvaluateUseCase
}

// NewCheckUseCase creates a check use case on top of evaluate
func NewCheckUseCase(evaluate *EvaluateUseCase) *CheckUseCase {
	return &CheckUseCase{evaluate: evaluate}
}

// Execute loads and evaluates the facts selected by req. The report is not
// written; the returned result carries the exit code.
func (uc *CheckUseCase) Execute(ctx context.Context, req domain.EvaluationRequest) (*domain.CheckResult, error) {
	if uc.evaluate == nil {
		return nil, fmt.Errorf("evaluate use case is required")
	}
	start := time.Now()

	req.OutputWriter = nil
	report, err := uc.evaluate.Execute(ctx, req)
	if err != nil {
		return nil, err
	}

	result := NewCheckResult(report)
	result.Duration = time.Since(start).Milliseconds()
	return result, nil
}

// NewCheckResult summarizes report as a gate verdict. Every available but
// unqualified category is listed; its status tells whether it gates.
func NewCheckResult(report *domain.EvaluationReport) *domain.CheckResult {
	result := &domain.CheckResult{
		Status:      report.Status.Combined,
		ExitCode:    domain.ExitCodeFor(report.Status.Combined),
		Violations:  []domain.CheckViolation{},
		GeneratedAt: report.GeneratedAt,
		Version:     version.GetVersion(),
		Summary: domain.CheckSummary{
			Recipes:             report.RecipeCount,
			Records:             report.RecordCount,
			CategoriesEvaluated: len(report.Group.Metrics),
			MissingKinds:        report.MissingKinds,
		},
	}
	result.Passed = result.Status == domain.StatusSuccess

	for _, m := range report.Group.Metrics {
		ev := m.Evaluation
		if !ev.Available {
			continue
		}
		result.Summary.CategoriesAvailable++
		if ev.Qualified {
			result.Summary.CategoriesQualified++
			continue
		}

		status := report.Status.Of(m.Category)
		if status != domain.StatusSuccess {
			result.Summary.UnstableCategories++
		}
		result.Violations = append(result.Violations, domain.CheckViolation{
			Category:  m.Category,
			Status:    status,
			Message:   violationMessage(m.Category, ev),
			Actual:    m.Category.FormatValue(ev.Ratio),
			Threshold: m.Category.FormatValue(ev.Threshold),
		})
	}
	return result
}

func violationMessage(c domain.Category, ev domain.Evaluation) string {
	direction := "below"
	if ev.Polarity == domain.PolarityNegative {
		direction = "above"
	}
	return fmt.Sprintf("%s %s threshold %s (%d/%d)",
		c.FormatValue(ev.Ratio), direction, c.FormatValue(ev.Threshold), ev.Numerator, ev.Denominator)
}
