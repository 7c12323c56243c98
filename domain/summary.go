package domain

import (
	"fmt"
	"strings"
)

// Category is one gated metric
type Category string

const (
	CategoryPremirrorCache    Category = "premirror-cache"
	CategorySharedStateCache  Category = "shared-state-cache"
	CategoryRecipeViolations  Category = "recipe-violations"
	CategoryComments          Category = "comments"
	CategoryCodeViolations    Category = "code-violations"
	CategoryComplexity        Category = "complexity"
	CategoryDuplications      Category = "duplications"
	CategoryUnitTests         Category = "unit-tests"
	CategoryStatementCoverage Category = "statement-coverage"
	CategoryBranchCoverage    Category = "branch-coverage"
	CategoryMutationTests     Category = "mutation-tests"
)

// AllCategories returns the fixed category list in report order
func AllCategories() []Category {
	return []Category{
		CategoryPremirrorCache,
		CategorySharedStateCache,
		CategoryRecipeViolations,
		CategoryComments,
		CategoryCodeViolations,
		CategoryComplexity,
		CategoryDuplications,
		CategoryUnitTests,
		CategoryStatementCoverage,
		CategoryBranchCoverage,
		CategoryMutationTests,
	}
}

// ParseCategory accepts a category name, case-insensitively
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range AllCategories() {
		if c == known {
			return c, nil
		}
	}
	return "", NewInvalidInputError(fmt.Sprintf("unknown metric category: %q", s), nil)
}

// IsViolationRate reports whether c is measured in violations per line
// rather than as a percentage
func (c Category) IsViolationRate() bool {
	return c == CategoryRecipeViolations || c == CategoryCodeViolations
}

// FormatValue renders a ratio of c the way thresholds are configured
func (c Category) FormatValue(v float64) string {
	if c.IsViolationRate() {
		return fmt.Sprintf("%.3f", v)
	}
	return fmt.Sprintf("%.2f%%", v*100)
}

// LinesOfCode is sizing metadata attached to summaries
type LinesOfCode struct {
	Lines     int64 `json:"lines" yaml:"lines"`
	Functions int64 `json:"functions" yaml:"functions"`
	Classes   int64 `json:"classes" yaml:"classes"`
	Files     int64 `json:"files" yaml:"files"`
	Recipes   int64 `json:"recipes" yaml:"recipes"`
}

// Diff returns l - other component-wise
func (l LinesOfCode) Diff(other LinesOfCode) LinesOfCode {
	return LinesOfCode{
		Lines:     l.Lines - other.Lines,
		Functions: l.Functions - other.Functions,
		Classes:   l.Classes - other.Classes,
		Files:     l.Files - other.Files,
		Recipes:   l.Recipes - other.Recipes,
	}
}

// Statistics describes one ratio across the members of a group
type Statistics struct {
	Min       float64 `json:"min" yaml:"min"`
	Average   float64 `json:"average" yaml:"average"`
	Max       float64 `json:"max" yaml:"max"`
	Threshold float64 `json:"threshold" yaml:"threshold"`
	Value     float64 `json:"value" yaml:"value"`
}

// DataSummary is one row of a per-recipe or per-file breakdown
type DataSummary struct {
	Name        string  `json:"name" yaml:"name"`
	LinesOfCode int64   `json:"lines_of_code" yaml:"lines_of_code"`
	First       int64   `json:"first" yaml:"first"`
	Second      int64   `json:"second" yaml:"second"`
	Third       int64   `json:"third" yaml:"third"`
	Fourth      int64   `json:"fourth" yaml:"fourth"`
	Total       int64   `json:"total" yaml:"total"`
	Ratio       float64 `json:"ratio" yaml:"ratio"`
	Qualified   bool    `json:"qualified" yaml:"qualified"`
}

// NewDataSummary flattens a distribution and an evaluation into one row
func NewDataSummary(name string, loc LinesOfCode, dist Distribution, eval Evaluation) DataSummary {
	return DataSummary{
		Name:        name,
		LinesOfCode: loc.Lines,
		First:       dist.First.Numerator,
		Second:      dist.Second.Numerator,
		Third:       dist.Third.Numerator,
		Fourth:      dist.Fourth.Numerator,
		Total:       dist.Total,
		Ratio:       eval.Ratio,
		Qualified:   eval.Qualified,
	}
}

// MetricDataSummary bundles everything computed for one category
type MetricDataSummary struct {
	Category     Category     `json:"category" yaml:"category"`
	Evaluation   Evaluation   `json:"evaluation" yaml:"evaluation"`
	Statistics   Statistics   `json:"statistics" yaml:"statistics"`
	Distribution Distribution `json:"distribution" yaml:"distribution"`
}

// EvaluationSummary is the full metric picture of a recipe or a group
type EvaluationSummary struct {
	Name        string              `json:"name" yaml:"name"`
	LinesOfCode LinesOfCode         `json:"lines_of_code" yaml:"lines_of_code"`
	Quality     Evaluation          `json:"quality" yaml:"quality"`
	Metrics     []MetricDataSummary `json:"metrics" yaml:"metrics"`
}

// Metric returns the summary of category c
func (s EvaluationSummary) Metric(c Category) (MetricDataSummary, bool) {
	for _, m := range s.Metrics {
		if m.Category == c {
			return m, true
		}
	}
	return MetricDataSummary{}, false
}

// CategoryBreakdown lists the per-recipe rows of one category
type CategoryBreakdown struct {
	Category Category      `json:"category" yaml:"category"`
	Rows     []DataSummary `json:"rows" yaml:"rows"`
}
