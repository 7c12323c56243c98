package domain

import (
	"context"
	"io"
)

// OutputFormat represents the supported output formats
type OutputFormat string

const (
	OutputFormatText OutputFormat = "text"
	OutputFormatJSON OutputFormat = "json"
	OutputFormatYAML OutputFormat = "yaml"
)

// ParseOutputFormat validates a format name
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(s); f {
	case OutputFormatText, OutputFormatJSON, OutputFormatYAML:
		return f, nil
	}
	return "", NewUnsupportedFormatError(s)
}

// LoadRequest describes where fact documents are read from
type LoadRequest struct {
	// Input files or directories holding fact documents
	Paths []string

	// File collection options
	Recursive        bool
	IncludePatterns  []string
	ExcludePatterns  []string
	RespectGitignore bool

	// GroupName names the resulting RecipeGroup
	GroupName string
}

// EvaluationRequest represents a request for a quality evaluation
type EvaluationRequest struct {
	Load LoadRequest

	// Output configuration
	OutputFormat OutputFormat
	OutputWriter io.Writer

	// Categories limits the evaluated categories; empty means all
	Categories []Category

	// IncludeRecipes adds a per-recipe EvaluationSummary to the report
	IncludeRecipes bool

	// BaselinePath points at a previous JSON report to diff against
	BaselinePath string

	// RequiredKinds fail the build when no recipe reports them
	RequiredKinds []Kind

	// Configuration
	ConfigPath string
}

// EvaluationReport is the complete output of one evaluation run
type EvaluationReport struct {
	ID               string              `json:"id" yaml:"id"`
	Version          string              `json:"version" yaml:"version"`
	GeneratedAt      string              `json:"generated_at" yaml:"generated_at"`
	DurationMs       int64               `json:"duration_ms" yaml:"duration_ms"`
	RecipeCount      int                 `json:"recipes_loaded" yaml:"recipes_loaded"`
	RecordCount      int                 `json:"records_loaded" yaml:"records_loaded"`
	Group            EvaluationSummary   `json:"group" yaml:"group"`
	QualifiedRecipes Evaluation          `json:"qualified_recipes" yaml:"qualified_recipes"`
	Breakdown        []CategoryBreakdown `json:"breakdown" yaml:"breakdown"`
	Recipes          []EvaluationSummary `json:"recipes,omitempty" yaml:"recipes,omitempty"`
	Treemap          []TreemapData       `json:"treemap" yaml:"treemap"`
	Status           StatusSummary       `json:"status" yaml:"status"`
	LinesOfCodeDelta *LinesOfCode        `json:"lines_of_code_delta,omitempty" yaml:"lines_of_code_delta,omitempty"`
	MissingKinds     []Kind              `json:"missing_kinds,omitempty" yaml:"missing_kinds,omitempty"`
	Warnings         []string            `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// RecordLoader builds a RecipeGroup from fact documents
type RecordLoader interface {
	// Load reads every fact document selected by req
	Load(ctx context.Context, req LoadRequest) (*RecipeGroup, error)
}

// EvaluationService computes the report for a populated group
type EvaluationService interface {
	// Evaluate runs every selected category over group
	Evaluate(ctx context.Context, group *RecipeGroup, req EvaluationRequest) (*EvaluationReport, error)
}

// BaselineLoader reads a previous report for trend comparison
type BaselineLoader interface {
	LoadBaseline(path string) (*EvaluationReport, error)
}

// ReportFormatter defines the interface for formatting evaluation reports
type ReportFormatter interface {
	// Write writes the formatted report to the writer
	Write(report *EvaluationReport, format OutputFormat, writer io.Writer) error
}

// ProgressManager creates progress trackers for long running steps
type ProgressManager interface {
	StartTask(description string, total int) TaskProgress
	IsInteractive() bool
	Close()
}

// TaskProgress tracks one step
type TaskProgress interface {
	Increment(n int)
	Describe(description string)
	Complete()
}

// ExecutableTask is a unit of work run by a ParallelExecutor
type ExecutableTask interface {
	Name() string
	Execute(ctx context.Context) (interface{}, error)
	IsEnabled() bool
}

// ParallelExecutor runs tasks concurrently. Results are returned in task
// order; failed and disabled tasks leave a nil slot.
type ParallelExecutor interface {
	Execute(ctx context.Context, tasks []ExecutableTask) ([]interface{}, error)
}
