package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/mscan/domain"
	"github.com/ludo-technologies/mscan/internal/config"
	"github.com/ludo-technologies/mscan/internal/testutil"
)

func newResolver(t *testing.T, q *config.QualityConfig) *BuildStatusResolver {
	t.Helper()
	evaluators, err := NewEvaluators(q)
	require.NoError(t, err)
	return NewBuildStatusResolver(q, evaluators)
}

func TestBuildStatusResolver(t *testing.T) {
	t.Run("initial status", func(t *testing.T) {
		summary := newResolver(t, qualityOf(50, 10, true)).Resolve(testutil.NewGroup("all"))
		assert.Equal(t, domain.StatusSuccess, summary.Combined)
		assert.Len(t, summary.Categories, len(domain.AllCategories()))
	})

	tests := []struct {
		name     string
		category domain.Category
		build    func(b *testutil.RecipeBuilder)
	}{
		{
			name:     "premirror cache",
			category: domain.CategoryPremirrorCache,
			build:    func(b *testutil.RecipeBuilder) { b.PremirrorCache("A", false) },
		},
		{
			name:     "shared state cache",
			category: domain.CategorySharedStateCache,
			build:    func(b *testutil.RecipeBuilder) { b.SharedStateCache("A", false) },
		},
		{
			name:     "recipe violations",
			category: domain.CategoryRecipeViolations,
			build: func(b *testutil.RecipeBuilder) {
				b.RecipeSize("a.bb", 1).RecipeViolation("a.bb", 1, domain.SeverityMajor)
			},
		},
		{
			name:     "comments",
			category: domain.CategoryComments,
			build:    func(b *testutil.RecipeBuilder) { b.CodeSize("a.file", 1, 1, 1).Comment("a.file", 1, 0) },
		},
		{
			name:     "code violations",
			category: domain.CategoryCodeViolations,
			build: func(b *testutil.RecipeBuilder) {
				b.CodeSize("a.file", 1, 1, 1).CodeViolation("a.file", 1, domain.SeverityMajor)
			},
		},
		{
			name:     "complexity",
			category: domain.CategoryComplexity,
			build:    func(b *testutil.RecipeBuilder) { b.CodeSize("a.file", 1, 1, 1).Complexity("a.file", "f", 100) },
		},
		{
			name:     "duplications",
			category: domain.CategoryDuplications,
			build:    func(b *testutil.RecipeBuilder) { b.CodeSize("a.file", 10, 1, 1).Duplication("a.file", 10, 0, 10) },
		},
		{
			name:     "unit tests",
			category: domain.CategoryUnitTests,
			build:    func(b *testutil.RecipeBuilder) { b.Test("A", "A", domain.TestFailed) },
		},
		{
			name:     "statement coverage",
			category: domain.CategoryStatementCoverage,
			build: func(b *testutil.RecipeBuilder) {
				b.CodeSize("a.file", 1, 1, 1).Test("A", "A", domain.TestPassed).StatementCoverage("a.file", 1, false)
			},
		},
		{
			name:     "branch coverage",
			category: domain.CategoryBranchCoverage,
			build: func(b *testutil.RecipeBuilder) {
				b.CodeSize("a.file", 1, 1, 1).Test("A", "A", domain.TestPassed).BranchCoverage("a.file", 1, 0, false)
			},
		},
		{
			name:     "mutation tests",
			category: domain.CategoryMutationTests,
			build:    func(b *testutil.RecipeBuilder) { b.Mutation("a.file", "f", domain.MutationSurvived) },
		},
	}

	for _, tt := range tests {
		t.Run("stable "+tt.name, func(t *testing.T) {
			b := testutil.NewRecipe(t, "A-A-A")
			tt.build(b)
			summary := newResolver(t, qualityOf(50, 10, false)).Resolve(b.Build())
			assert.Equal(t, domain.StatusSuccess, summary.Of(tt.category))
			assert.Equal(t, domain.StatusSuccess, summary.Combined)
		})

		t.Run("unstable "+tt.name, func(t *testing.T) {
			b := testutil.NewRecipe(t, "A-A-A")
			tt.build(b)
			summary := newResolver(t, qualityOf(50, 10, true)).Resolve(b.Build())
			assert.Equal(t, domain.StatusUnstable, summary.Of(tt.category))
			assert.Equal(t, domain.StatusUnstable, summary.Combined)
		})
	}

	t.Run("qualified category stays successful", func(t *testing.T) {
		r := testutil.NewRecipe(t, "A-A-A").PremirrorCache("A", true).Build()
		summary := newResolver(t, qualityOf(50, 10, true)).Resolve(r)
		assert.Equal(t, domain.StatusSuccess, summary.Combined)
	})

	t.Run("status of a precomputed evaluation", func(t *testing.T) {
		resolver := newResolver(t, qualityOf(50, 10, true))
		failing := domain.NewEvaluation(domain.PolarityPositive, true, 2, 0, 0.5)
		assert.Equal(t, domain.StatusUnstable, resolver.StatusOf(domain.CategoryUnitTests, failing))
		assert.Equal(t, domain.StatusSuccess, resolver.StatusOf(domain.Category("bogus"), failing))
	})
}
