package domain

// CheckResult represents the result of a quality gate run
type CheckResult struct {
	Passed      bool             `json:"passed"`
	Status      BuildStatus      `json:"status"`
	ExitCode    int              `json:"exit_code"`
	Violations  []CheckViolation `json:"violations"`
	Summary     CheckSummary     `json:"summary"`
	Duration    int64            `json:"duration_ms"`
	GeneratedAt string           `json:"generated_at"`
	Version     string           `json:"version"`
}

// CheckViolation represents a single category that did not qualify
type CheckViolation struct {
	Category  Category    `json:"category"`            // premirror-cache, complexity, ...
	Status    BuildStatus `json:"status"`              // unstable, failure, or success when only reported
	Message   string      `json:"message"`             // Human-readable description
	Actual    string      `json:"actual"`              // Measured ratio
	Threshold string      `json:"threshold,omitempty"` // Configured threshold
}

// CheckSummary provides aggregate statistics
type CheckSummary struct {
	Recipes             int    `json:"recipes"`
	Records             int    `json:"records"`
	CategoriesEvaluated int    `json:"categories_evaluated"`
	CategoriesAvailable int    `json:"categories_available"`
	CategoriesQualified int    `json:"categories_qualified"`
	UnstableCategories  int    `json:"unstable_categories"`
	MissingKinds        []Kind `json:"missing_kinds,omitempty"`
}

// Exit codes of the check command
const (
	ExitCodeSuccess  = 0
	ExitCodeUnstable = 1
	ExitCodeFailure  = 2
)

// ExitCodeFor maps a build status to a process exit code
func ExitCodeFor(s BuildStatus) int {
	switch s {
	case StatusUnstable:
		return ExitCodeUnstable
	case StatusFailure:
		return ExitCodeFailure
	default:
		return ExitCodeSuccess
	}
}
