package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/ludo-technologies/mscan/domain"
	"github.com/ludo-technologies/mscan/internal/config"
	"github.com/ludo-technologies/mscan/internal/metrics"
	"github.com/ludo-technologies/mscan/internal/version"
)

// EvaluationServiceImpl implements domain.EvaluationService
type EvaluationServiceImpl struct {
	quality  *config.QualityConfig
	baseline domain.BaselineLoader
	logger   *slog.Logger
	now      func() time.Time
}

// NewEvaluationService creates an evaluation service gated by quality
func NewEvaluationService(quality *config.QualityConfig, baseline domain.BaselineLoader, logger *slog.Logger) *EvaluationServiceImpl {
	if quality == nil {
		q := config.DefaultQualityConfig()
		quality = &q
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &EvaluationServiceImpl{
		quality:  quality,
		baseline: baseline,
		logger:   logger,
		now:      time.Now,
	}
}

// Evaluate computes every selected category over group and resolves the
// build status
func (s *EvaluationServiceImpl) Evaluate(ctx context.Context, group *domain.RecipeGroup, req domain.EvaluationRequest) (*domain.EvaluationReport, error) {
	if group == nil {
		return nil, domain.NewInvalidInputError("no recipe group to evaluate", nil)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("evaluation cancelled: %w", err)
	}

	start := s.now()
	evaluators, err := metrics.NewEvaluators(s.quality, req.Categories...)
	if err != nil {
		return nil, err
	}

	summarizer := metrics.NewSummarizer(evaluators)
	resolver := metrics.NewBuildStatusResolver(s.quality, evaluators)

	report := &domain.EvaluationReport{
		ID:               uuid.NewString(),
		Version:          version.GetVersion(),
		GeneratedAt:      start.Format(time.RFC3339),
		RecipeCount:      group.Len(),
		RecordCount:      group.Size(),
		Group:            summarizer.Group(group),
		QualifiedRecipes: summarizer.Quality().QualifiedRecipes(group),
		Breakdown:        summarizer.Breakdown(group),
		Treemap:          metrics.NewTreemapAggregator(summarizer.Quality()).Parse(group),
		Status:           resolver.Resolve(group),
	}
	if req.IncludeRecipes {
		report.Recipes = summarizer.Recipes(group)
	}

	for _, kind := range req.RequiredKinds {
		if !group.Contains(kind) {
			report.MissingKinds = append(report.MissingKinds, kind)
		}
	}
	if len(report.MissingKinds) > 0 {
		report.Status.Combined = domain.StatusFailure
		report.Warnings = append(report.Warnings,
			fmt.Sprintf("required reports missing: %v", report.MissingKinds))
	}

	if req.BaselinePath != "" && s.baseline != nil {
		base, err := s.baseline.LoadBaseline(req.BaselinePath)
		if err != nil {
			return nil, err
		}
		applyBaseline(report, base)
	}

	for _, cs := range report.Status.Categories {
		if cs.Status != domain.StatusSuccess {
			s.logger.Info("category not qualified",
				slog.String("category", string(cs.Category)),
				slog.String("status", cs.Status.String()))
		}
	}

	report.DurationMs = s.now().Sub(start).Milliseconds()
	s.logger.Debug("evaluation finished",
		slog.String("group", group.Name()),
		slog.Int("recipes", group.Len()),
		slog.String("status", report.Status.Combined.String()))
	return report, nil
}

// applyBaseline attaches the trend against a previous report. Categories the
// baseline did not evaluate keep a nil difference.
func applyBaseline(report, base *domain.EvaluationReport) {
	report.Group.Quality = report.Group.Quality.WithDifference(base.Group.Quality)
	report.QualifiedRecipes = report.QualifiedRecipes.WithDifference(base.QualifiedRecipes)

	for i, m := range report.Group.Metrics {
		prev, ok := base.Group.Metric(m.Category)
		if !ok {
			continue
		}
		report.Group.Metrics[i].Evaluation = m.Evaluation.WithDifference(prev.Evaluation)
	}

	delta := report.Group.LinesOfCode.Diff(base.Group.LinesOfCode)
	report.LinesOfCodeDelta = &delta
}
