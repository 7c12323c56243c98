package app_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ludo-technologies/mscan/app"
	"github.com/ludo-technologies/mscan/domain"
	"github.com/ludo-technologies/mscan/internal/config"
	"github.com/ludo-technologies/mscan/internal/logging"
	"github.com/ludo-technologies/mscan/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const busyboxFacts = `recipe: busybox-1.36.1-r0
records:
  - kind: code_size
    file: src/a.c
    lines: 100
    functions: 4
  - kind: comment
    file: src/a.c
    lines: 100
    comment_lines: 25
  - kind: code_violation
    file: src/a.c
    line: 3
    column: 1
    rule: style
    severity: major
    tool: cppcheck
`

const zlibFacts = `{"recipe": "zlib-1.3-r0", "records": [
  {"kind": "code_size", "file": "inflate.c", "lines": 300, "functions": 10},
  {"kind": "comment", "file": "inflate.c", "lines": 300, "comment_lines": 15}
]}`

func factDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "busybox.yaml"), []byte(busyboxFacts), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "zlib.json"), []byte(zlibFacts), 0o644))
	return dir
}

func newUseCase(t *testing.T, quality *config.QualityConfig) *app.EvaluateUseCase {
	t.Helper()
	logger := logging.Discard()
	uc, err := app.NewEvaluateUseCaseBuilder().
		WithLoader(service.NewRecordLoader(service.NewParallelExecutor(), logger)).
		WithService(service.NewEvaluationService(quality, service.NewBaselineLoader(), logger)).
		WithFormatter(service.NewOutputFormatter()).
		WithLogger(logger).
		Build()
	require.NoError(t, err)
	return uc
}

func loadRequest(dir string) domain.LoadRequest {
	return domain.LoadRequest{
		Paths:           []string{dir},
		Recursive:       true,
		IncludePatterns: []string{"*.json", "*.yaml", "*.yml"},
		GroupName:       "core-image",
	}
}

func TestEvaluateUseCaseBuilder_RequiresDependencies(t *testing.T) {
	_, err := app.NewEvaluateUseCaseBuilder().Build()
	assert.Error(t, err)

	_, err = app.NewEvaluateUseCaseBuilder().
		WithLoader(service.NewRecordLoader(nil, nil)).
		Build()
	assert.Error(t, err)
}

func TestEvaluateUseCase_WritesReport(t *testing.T) {
	var out bytes.Buffer
	report, err := newUseCase(t, nil).Execute(context.Background(), domain.EvaluationRequest{
		Load:         loadRequest(factDir(t)),
		OutputFormat: domain.OutputFormatJSON,
		OutputWriter: &out,
	})
	require.NoError(t, err)

	assert.Equal(t, 2, report.RecipeCount)
	assert.Equal(t, 5, report.RecordCount)

	var written domain.EvaluationReport
	require.NoError(t, json.Unmarshal(out.Bytes(), &written))
	assert.Equal(t, report.ID, written.ID)
	assert.Equal(t, "core-image", written.Group.Name)
}

func TestEvaluateUseCase_NoFactDocuments(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("nothing"), 0o644))

	_, err := newUseCase(t, nil).Execute(context.Background(), domain.EvaluationRequest{Load: loadRequest(dir)})

	var de domain.DomainError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, domain.ErrCodeInvalidInput, de.Code)
}

func TestEvaluateUseCase_NoPaths(t *testing.T) {
	_, err := newUseCase(t, nil).Execute(context.Background(), domain.EvaluationRequest{})

	var de domain.DomainError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, domain.ErrCodeInvalidInput, de.Code)
}

func TestCheckUseCase(t *testing.T) {
	tests := []struct {
		name       string
		quality    func(q *config.QualityConfig)
		required   []domain.Kind
		status     domain.BuildStatus
		exitCode   int
		violations int
	}{
		{
			name:       "unqualified categories only reported",
			status:     domain.StatusSuccess,
			exitCode:   domain.ExitCodeSuccess,
			violations: 1,
		},
		{
			name:       "unstable toggle gates",
			quality:    func(q *config.QualityConfig) { q.Comments.Unstable = true },
			status:     domain.StatusUnstable,
			exitCode:   domain.ExitCodeUnstable,
			violations: 1,
		},
		{
			name:       "missing required report fails",
			quality:    func(q *config.QualityConfig) { q.Comments.Unstable = true },
			required:   []domain.Kind{domain.KindTest},
			status:     domain.StatusFailure,
			exitCode:   domain.ExitCodeFailure,
			violations: 1,
		},
		{
			name: "relaxed thresholds pass",
			quality: func(q *config.QualityConfig) {
				q.Comments.Threshold = 5
				q.SetAllUnstable(true)
			},
			status:   domain.StatusSuccess,
			exitCode: domain.ExitCodeSuccess,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quality := config.DefaultQualityConfig()
			if tt.quality != nil {
				tt.quality(&quality)
			}
			check := app.NewCheckUseCase(newUseCase(t, &quality))

			result, err := check.Execute(context.Background(), domain.EvaluationRequest{
				Load:          loadRequest(factDir(t)),
				RequiredKinds: tt.required,
			})
			require.NoError(t, err)

			assert.Equal(t, tt.status, result.Status)
			assert.Equal(t, tt.exitCode, result.ExitCode)
			assert.Equal(t, tt.status == domain.StatusSuccess, result.Passed)
			assert.Len(t, result.Violations, tt.violations)
			assert.Equal(t, 2, result.Summary.Recipes)
			assert.Equal(t, 2, result.Summary.CategoriesAvailable)
			assert.Equal(t, tt.required, result.Summary.MissingKinds)
		})
	}
}

func TestNewCheckResult_Violations(t *testing.T) {
	quality := config.DefaultQualityConfig()
	quality.CodeViolations.Threshold = 0.001
	quality.CodeViolations.Unstable = true
	uc := newUseCase(t, &quality)

	report, err := uc.Execute(context.Background(), domain.EvaluationRequest{Load: loadRequest(factDir(t))})
	require.NoError(t, err)

	result := app.NewCheckResult(report)
	require.Len(t, result.Violations, 2)

	byCategory := map[domain.Category]domain.CheckViolation{}
	for _, v := range result.Violations {
		byCategory[v.Category] = v
	}

	comments := byCategory[domain.CategoryComments]
	assert.Equal(t, domain.StatusSuccess, comments.Status)
	assert.Equal(t, "10.00%", comments.Actual)
	assert.Equal(t, "20.00%", comments.Threshold)
	assert.Contains(t, comments.Message, "below")

	violations := byCategory[domain.CategoryCodeViolations]
	assert.Equal(t, domain.StatusUnstable, violations.Status)
	assert.Equal(t, "0.001", violations.Threshold)
	assert.Contains(t, violations.Message, "above threshold 0.001 (1/400)")
	assert.Equal(t, 1, result.Summary.UnstableCategories)
	assert.Equal(t, domain.ExitCodeUnstable, result.ExitCode)
}
