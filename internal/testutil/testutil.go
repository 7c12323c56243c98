// Package testutil provides helper functions for testing mscan components
package testutil

import (
	"testing"

	"github.com/ludo-technologies/mscan/domain"
)

// RecipeBuilder builds a recipe from fact records, failing the test on any
// construction error
type RecipeBuilder struct {
	t      *testing.T
	recipe *domain.Recipe
}

// NewRecipe starts a recipe called name
func NewRecipe(t *testing.T, name string) *RecipeBuilder {
	t.Helper()
	r, err := domain.NewRecipe(name)
	if err != nil {
		t.Fatalf("Failed to create recipe %q: %v", name, err)
	}
	return &RecipeBuilder{t: t, recipe: r}
}

// Build returns the recipe
func (b *RecipeBuilder) Build() *domain.Recipe {
	return b.recipe
}

func (b *RecipeBuilder) add(r domain.Record, err error) *RecipeBuilder {
	b.t.Helper()
	if err != nil {
		b.t.Fatalf("Failed to create record: %v", err)
	}
	b.recipe.Add(r)
	return b
}

// CodeSize adds a code_size record
func (b *RecipeBuilder) CodeSize(file string, lines, functions, classes int64) *RecipeBuilder {
	b.t.Helper()
	return b.add(domain.NewCodeSizeData(b.recipe.Name(), file, lines, functions, classes))
}

// RecipeSize adds a recipe_size record
func (b *RecipeBuilder) RecipeSize(file string, lines int64) *RecipeBuilder {
	b.t.Helper()
	return b.add(domain.NewRecipeSizeData(b.recipe.Name(), file, lines))
}

// Comment adds a comment record
func (b *RecipeBuilder) Comment(file string, lines, commentLines int64) *RecipeBuilder {
	b.t.Helper()
	return b.add(domain.NewCommentData(b.recipe.Name(), file, lines, commentLines))
}

// Complexity adds a complexity record
func (b *RecipeBuilder) Complexity(file, function string, value int64) *RecipeBuilder {
	b.t.Helper()
	return b.add(domain.NewComplexityData(b.recipe.Name(), file, function, 1, 1, value))
}

// CodeViolation adds a code_violation record
func (b *RecipeBuilder) CodeViolation(file string, line int64, severity domain.Severity) *RecipeBuilder {
	b.t.Helper()
	return b.add(domain.NewCodeViolationData(b.recipe.Name(), file, line, 1, "rule", "message", "description", severity, "tool"))
}

// RecipeViolation adds a recipe_violation record
func (b *RecipeBuilder) RecipeViolation(file string, line int64, severity domain.Severity) *RecipeBuilder {
	b.t.Helper()
	return b.add(domain.NewRecipeViolationData(b.recipe.Name(), file, line, "rule", "description", severity))
}

// StatementCoverage adds a statement_coverage record
func (b *RecipeBuilder) StatementCoverage(file string, line int64, covered bool) *RecipeBuilder {
	b.t.Helper()
	return b.add(domain.NewStatementCoverageData(b.recipe.Name(), file, line, covered))
}

// BranchCoverage adds a branch_coverage record
func (b *RecipeBuilder) BranchCoverage(file string, line, index int64, covered bool) *RecipeBuilder {
	b.t.Helper()
	return b.add(domain.NewBranchCoverageData(b.recipe.Name(), file, line, index, covered))
}

// Duplication adds a duplication record for [start, end)
func (b *RecipeBuilder) Duplication(file string, lines, start, end int64) *RecipeBuilder {
	b.t.Helper()
	return b.add(domain.NewDuplicationData(b.recipe.Name(), file, lines, start, end))
}

// Mutation adds a mutation_test record
func (b *RecipeBuilder) Mutation(file, method string, status domain.MutationStatus) *RecipeBuilder {
	b.t.Helper()
	return b.add(domain.NewMutationTestData(b.recipe.Name(), file, "C", method, 1, "AOR", "TC", status))
}

// PremirrorCache adds a premirror_cache record
func (b *RecipeBuilder) PremirrorCache(signature string, available bool) *RecipeBuilder {
	b.t.Helper()
	return b.add(domain.NewPremirrorCacheData(b.recipe.Name(), signature, available))
}

// SharedStateCache adds a shared_state_cache record
func (b *RecipeBuilder) SharedStateCache(signature string, available bool) *RecipeBuilder {
	b.t.Helper()
	return b.add(domain.NewSharedStateCacheData(b.recipe.Name(), signature, available))
}

// Test adds a test record
func (b *RecipeBuilder) Test(suite, name string, status domain.TestStatus) *RecipeBuilder {
	b.t.Helper()
	return b.add(domain.NewTestData(b.recipe.Name(), suite, name, "", status))
}

// NewGroup creates a group from recipes
func NewGroup(name string, recipes ...*domain.Recipe) *domain.RecipeGroup {
	return domain.NewRecipeGroup(name, recipes...)
}

// AssertNoError fails the test if err is not nil
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("Expected error but got nil")
	}
}
