package metrics

import (
	"fmt"

	"github.com/ludo-technologies/mscan/domain"
	"github.com/ludo-technologies/mscan/internal/config"
)

// Evaluator measures one metric category over a Collection. Because a
// RecipeGroup answers queries as the concatenation of its members, the same
// evaluator sums numerators and denominators across recipes before computing
// the ratio.
type Evaluator struct {
	category  domain.Category
	polarity  domain.Polarity
	threshold float64
	tolerance int64

	// requires lists the kinds that must all be present for availability
	requires []domain.Kind
	// primary is the kind a collection must hold to be summarized
	primary domain.Kind

	measure    func(c domain.Collection) (numerator, denominator int64)
	distribute func(c domain.Collection) domain.Distribution
}

// Category returns the evaluated category
func (e *Evaluator) Category() domain.Category { return e.category }

// Polarity returns how the ratio is compared with the threshold
func (e *Evaluator) Polarity() domain.Polarity { return e.polarity }

// Threshold returns the threshold as a ratio
func (e *Evaluator) Threshold() float64 { return e.threshold }

// Tolerance returns the counting tolerance, 0 when unused
func (e *Evaluator) Tolerance() int64 { return e.tolerance }

// Primary returns the kind that carries the category's measurements
func (e *Evaluator) Primary() domain.Kind { return e.primary }

// Available reports whether every prerequisite kind is present in c
func (e *Evaluator) Available(c domain.Collection) bool {
	for _, k := range e.requires {
		if !c.Contains(k) {
			return false
		}
	}
	return true
}

// Evaluate computes the evaluation of c
func (e *Evaluator) Evaluate(c domain.Collection) domain.Evaluation {
	numerator, denominator := e.measure(c)
	return domain.NewEvaluation(e.polarity, e.Available(c), denominator, numerator, e.threshold).
		WithTolerance(e.tolerance)
}

// Distribution counts c into the category's exclusive buckets
func (e *Evaluator) Distribution(c domain.Collection) domain.Distribution {
	return e.distribute(c)
}

func percent(c config.Criterion) float64 {
	return c.Threshold / 100.0
}

// NewPremirrorCacheEvaluator rates premirror cache hits
func NewPremirrorCacheEvaluator(c config.Criterion) *Evaluator {
	return newCacheEvaluator(domain.CategoryPremirrorCache, domain.KindPremirrorCache, c)
}

// NewSharedStateCacheEvaluator rates shared state cache hits
func NewSharedStateCacheEvaluator(c config.Criterion) *Evaluator {
	return newCacheEvaluator(domain.CategorySharedStateCache, domain.KindSharedStateCache, c)
}

func newCacheEvaluator(category domain.Category, kind domain.Kind, c config.Criterion) *Evaluator {
	return &Evaluator{
		category:  category,
		polarity:  domain.PolarityPositive,
		threshold: percent(c),
		requires:  []domain.Kind{kind},
		primary:   kind,
		measure: func(coll domain.Collection) (int64, int64) {
			hits, misses := countCache(coll, kind)
			return hits, hits + misses
		},
		distribute: func(coll domain.Collection) domain.Distribution {
			hits, misses := countCache(coll, kind)
			return domain.NewDistribution(hits, misses, 0, 0)
		},
	}
}

// NewRecipeViolationEvaluator rates recipe violations per recipe line
func NewRecipeViolationEvaluator(c config.Criterion) *Evaluator {
	return &Evaluator{
		category:  domain.CategoryRecipeViolations,
		polarity:  domain.PolarityNegative,
		threshold: c.Threshold,
		requires:  []domain.Kind{domain.KindRecipeSize, domain.KindRecipeViolation},
		primary:   domain.KindRecipeViolation,
		measure: func(coll domain.Collection) (int64, int64) {
			major, minor, info := countRecipeViolations(coll)
			return major + minor + info, sumRecipeSizeLines(coll)
		},
		distribute: func(coll domain.Collection) domain.Distribution {
			major, minor, info := countRecipeViolations(coll)
			return domain.NewDistribution(major, minor, info, 0)
		},
	}
}

// NewCommentEvaluator rates comment lines
func NewCommentEvaluator(c config.Criterion) *Evaluator {
	return &Evaluator{
		category:  domain.CategoryComments,
		polarity:  domain.PolarityPositive,
		threshold: percent(c),
		requires:  []domain.Kind{domain.KindCodeSize, domain.KindComment},
		primary:   domain.KindComment,
		measure: func(coll domain.Collection) (int64, int64) {
			return countComments(coll)
		},
		distribute: func(coll domain.Collection) domain.Distribution {
			comments, lines := countComments(coll)
			return domain.NewDistribution(comments, nonNegative(lines-comments), 0, 0)
		},
	}
}

// NewCodeViolationEvaluator rates code violations per source line
func NewCodeViolationEvaluator(c config.Criterion) *Evaluator {
	return &Evaluator{
		category:  domain.CategoryCodeViolations,
		polarity:  domain.PolarityNegative,
		threshold: c.Threshold,
		requires:  []domain.Kind{domain.KindCodeSize, domain.KindCodeViolation},
		primary:   domain.KindCodeViolation,
		measure: func(coll domain.Collection) (int64, int64) {
			major, minor, info := countCodeViolations(coll)
			return major + minor + info, sumCodeSizeLines(coll)
		},
		distribute: func(coll domain.Collection) domain.Distribution {
			major, minor, info := countCodeViolations(coll)
			return domain.NewDistribution(major, minor, info, 0)
		},
	}
}

// NewComplexityEvaluator rates functions whose complexity reaches the tolerance
func NewComplexityEvaluator(c config.Criterion) *Evaluator {
	tolerance := c.Tolerance
	return &Evaluator{
		category:  domain.CategoryComplexity,
		polarity:  domain.PolarityNegative,
		threshold: percent(c),
		tolerance: tolerance,
		requires:  []domain.Kind{domain.KindCodeSize, domain.KindComplexity},
		primary:   domain.KindComplexity,
		measure: func(coll domain.Collection) (int64, int64) {
			abnormal, normal := countComplexity(coll, tolerance)
			return abnormal, abnormal + normal
		},
		distribute: func(coll domain.Collection) domain.Distribution {
			abnormal, normal := countComplexity(coll, tolerance)
			return domain.NewDistribution(abnormal, normal, 0, 0)
		},
	}
}

// NewDuplicationEvaluator rates duplicated lines among all source lines
func NewDuplicationEvaluator(c config.Criterion) *Evaluator {
	calculator := NewDuplicationCalculator(c.Tolerance)
	return &Evaluator{
		category:  domain.CategoryDuplications,
		polarity:  domain.PolarityNegative,
		threshold: percent(c),
		tolerance: c.Tolerance,
		requires:  []domain.Kind{domain.KindCodeSize, domain.KindDuplication},
		primary:   domain.KindDuplication,
		measure: func(coll domain.Collection) (int64, int64) {
			return calculator.Calculate(coll), sumCodeSizeLines(coll)
		},
		distribute: func(coll domain.Collection) domain.Distribution {
			duplicated := calculator.Calculate(coll)
			return domain.NewDistribution(duplicated, nonNegative(sumCodeSizeLines(coll)-duplicated), 0, 0)
		},
	}
}

// NewUnitTestEvaluator rates passed tests
func NewUnitTestEvaluator(c config.Criterion) *Evaluator {
	return &Evaluator{
		category:  domain.CategoryUnitTests,
		polarity:  domain.PolarityPositive,
		threshold: percent(c),
		requires:  []domain.Kind{domain.KindTest},
		primary:   domain.KindTest,
		measure: func(coll domain.Collection) (int64, int64) {
			passed, failed, errored, skipped := countTests(coll)
			return passed, passed + failed + errored + skipped
		},
		distribute: func(coll domain.Collection) domain.Distribution {
			return domain.NewDistribution(countTests(coll))
		},
	}
}

// NewStatementCoverageEvaluator rates covered statements
func NewStatementCoverageEvaluator(c config.Criterion) *Evaluator {
	return newCoverageEvaluator(domain.CategoryStatementCoverage, domain.KindStatementCoverage, c)
}

// NewBranchCoverageEvaluator rates covered branches
func NewBranchCoverageEvaluator(c config.Criterion) *Evaluator {
	return newCoverageEvaluator(domain.CategoryBranchCoverage, domain.KindBranchCoverage, c)
}

func newCoverageEvaluator(category domain.Category, kind domain.Kind, c config.Criterion) *Evaluator {
	return &Evaluator{
		category:  category,
		polarity:  domain.PolarityPositive,
		threshold: percent(c),
		requires:  []domain.Kind{domain.KindCodeSize, domain.KindTest, kind},
		primary:   kind,
		measure: func(coll domain.Collection) (int64, int64) {
			covered, uncovered := countCoverage(coll, kind)
			return covered, covered + uncovered
		},
		distribute: func(coll domain.Collection) domain.Distribution {
			covered, uncovered := countCoverage(coll, kind)
			return domain.NewDistribution(covered, uncovered, 0, 0)
		},
	}
}

// NewMutationTestEvaluator rates killed mutants
func NewMutationTestEvaluator(c config.Criterion) *Evaluator {
	return &Evaluator{
		category:  domain.CategoryMutationTests,
		polarity:  domain.PolarityPositive,
		threshold: percent(c),
		requires:  []domain.Kind{domain.KindMutationTest},
		primary:   domain.KindMutationTest,
		measure: func(coll domain.Collection) (int64, int64) {
			killed, survived, skipped := countMutations(coll)
			return killed, killed + survived + skipped
		},
		distribute: func(coll domain.Collection) domain.Distribution {
			killed, survived, skipped := countMutations(coll)
			return domain.NewDistribution(killed, survived, skipped, 0)
		},
	}
}

// CriterionFor returns the configured criterion of category
func CriterionFor(q *config.QualityConfig, category domain.Category) (config.Criterion, error) {
	switch category {
	case domain.CategoryPremirrorCache:
		return q.PremirrorCache, nil
	case domain.CategorySharedStateCache:
		return q.SharedStateCache, nil
	case domain.CategoryRecipeViolations:
		return q.RecipeViolations, nil
	case domain.CategoryComments:
		return q.Comments, nil
	case domain.CategoryCodeViolations:
		return q.CodeViolations, nil
	case domain.CategoryComplexity:
		return q.Complexity, nil
	case domain.CategoryDuplications:
		return q.Duplications, nil
	case domain.CategoryUnitTests:
		return q.UnitTests, nil
	case domain.CategoryStatementCoverage:
		return q.StatementCoverage, nil
	case domain.CategoryBranchCoverage:
		return q.BranchCoverage, nil
	case domain.CategoryMutationTests:
		return q.MutationTests, nil
	}
	return config.Criterion{}, domain.NewInvalidInputError(fmt.Sprintf("unknown metric category: %q", category), nil)
}

// NewEvaluator builds the evaluator of category from the quality configuration
func NewEvaluator(q *config.QualityConfig, category domain.Category) (*Evaluator, error) {
	c, err := CriterionFor(q, category)
	if err != nil {
		return nil, err
	}
	switch category {
	case domain.CategoryPremirrorCache:
		return NewPremirrorCacheEvaluator(c), nil
	case domain.CategorySharedStateCache:
		return NewSharedStateCacheEvaluator(c), nil
	case domain.CategoryRecipeViolations:
		return NewRecipeViolationEvaluator(c), nil
	case domain.CategoryComments:
		return NewCommentEvaluator(c), nil
	case domain.CategoryCodeViolations:
		return NewCodeViolationEvaluator(c), nil
	case domain.CategoryComplexity:
		return NewComplexityEvaluator(c), nil
	case domain.CategoryDuplications:
		return NewDuplicationEvaluator(c), nil
	case domain.CategoryUnitTests:
		return NewUnitTestEvaluator(c), nil
	case domain.CategoryStatementCoverage:
		return NewStatementCoverageEvaluator(c), nil
	case domain.CategoryBranchCoverage:
		return NewBranchCoverageEvaluator(c), nil
	default:
		return NewMutationTestEvaluator(c), nil
	}
}

// NewEvaluators builds evaluators for categories, or for every category when
// none is given
func NewEvaluators(q *config.QualityConfig, categories ...domain.Category) ([]*Evaluator, error) {
	if len(categories) == 0 {
		categories = domain.AllCategories()
	}
	evaluators := make([]*Evaluator, 0, len(categories))
	for _, c := range categories {
		e, err := NewEvaluator(q, c)
		if err != nil {
			return nil, err
		}
		evaluators = append(evaluators, e)
	}
	return evaluators, nil
}

func nonNegative(v int64) int64 {
	if v < 0 {
		return 0
	}
	return v
}
