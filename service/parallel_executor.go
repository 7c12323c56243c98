package service

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/ludo-technologies/mscan/domain"
	"github.com/ludo-technologies/mscan/internal/config"
	"golang.org/x/sync/errgroup"
)

// Default values for parallel executor
const (
	// DefaultMaxConcurrency is used when the configured value is not positive
	DefaultMaxConcurrency = config.DefaultMaxGoroutines
	DefaultTimeout        = config.DefaultTimeoutSeconds * time.Second

	defaultTaskDescription = "Loading fact documents"
)

// TaskError represents a single task failure
type TaskError struct {
	TaskName string
	Err      error
}

// Error implements the error interface
func (e TaskError) Error() string {
	return fmt.Sprintf("[%s] %v", e.TaskName, e.Err)
}

// Unwrap returns the underlying error
func (e TaskError) Unwrap() error {
	return e.Err
}

// AggregatedError collects all task failures
type AggregatedError struct {
	Errors []TaskError
}

// Error implements the error interface
func (e *AggregatedError) Error() string {
	if len(e.Errors) == 0 {
		return "no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d tasks failed:\n", len(e.Errors)))
	for i, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// Unwrap returns the first error for errors.Is/As compatibility
func (e *AggregatedError) Unwrap() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e.Errors[0].Err
}

// ParallelExecutorImpl implements domain.ParallelExecutor
type ParallelExecutorImpl struct {
	maxConcurrency int
	timeout        time.Duration
	description    string
	progress       domain.ProgressManager
	logger         *slog.Logger
	mu             sync.RWMutex
}

// NewParallelExecutor creates a new parallel executor with defaults.
// Concurrency follows runtime.NumCPU().
func NewParallelExecutor() *ParallelExecutorImpl {
	return &ParallelExecutorImpl{
		maxConcurrency: runtime.NumCPU(),
		timeout:        DefaultTimeout,
		description:    defaultTaskDescription,
		logger:         slog.Default(),
	}
}

// NewParallelExecutorFromConfig creates a parallel executor from configuration
func NewParallelExecutorFromConfig(cfg *config.PerformanceConfig) *ParallelExecutorImpl {
	maxConcurrency := cfg.MaxGoroutines
	if maxConcurrency <= 0 {
		maxConcurrency = DefaultMaxConcurrency
	}

	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &ParallelExecutorImpl{
		maxConcurrency: maxConcurrency,
		timeout:        timeout,
		description:    defaultTaskDescription,
		logger:         slog.Default(),
	}
}

// NewParallelExecutorWithProgress creates a parallel executor with progress tracking
func NewParallelExecutorWithProgress(cfg *config.PerformanceConfig, pm domain.ProgressManager) *ParallelExecutorImpl {
	executor := NewParallelExecutorFromConfig(cfg)
	executor.progress = pm
	return executor
}

// WithLogger sets the logger used for task failures
func (e *ParallelExecutorImpl) WithLogger(logger *slog.Logger) *ParallelExecutorImpl {
	if logger != nil {
		e.logger = logger
	}
	return e
}

// WithDescription sets the progress bar label
func (e *ParallelExecutorImpl) WithDescription(description string) *ParallelExecutorImpl {
	e.description = description
	return e
}

// Execute runs tasks in parallel with the configured concurrency and timeout.
// Every task runs even when others fail; failures come back as one
// AggregatedError in task order.
func (e *ParallelExecutorImpl) Execute(ctx context.Context, tasks []domain.ExecutableTask) ([]interface{}, error) {
	results := make([]interface{}, len(tasks))
	enabled := e.enabledIndexes(tasks)
	if len(enabled) == 0 {
		return results, nil
	}

	e.mu.RLock()
	maxConcurrency := e.maxConcurrency
	timeout := e.timeout
	e.mu.RUnlock()

	timeoutCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var task domain.TaskProgress = silentProgress{}
	if e.progress != nil {
		task = e.progress.StartTask(e.description, len(enabled))
	}
	defer task.Complete()

	g, gCtx := errgroup.WithContext(timeoutCtx)
	g.SetLimit(maxConcurrency)

	failures := make([]error, len(tasks))
	for _, i := range enabled {
		t := tasks[i]
		g.Go(func() error {
			defer task.Increment(1)

			if err := gCtx.Err(); err != nil {
				failures[i] = err
				return nil
			}

			task.Describe(t.Name())
			result, err := t.Execute(gCtx)
			if err != nil {
				failures[i] = err
				e.logger.Debug("task failed", slog.String("task", t.Name()), slog.Any("error", err))
				return nil
			}
			results[i] = result
			return nil
		})
	}

	// goroutines never return an error so every task is attempted
	_ = g.Wait()

	var taskErrors []TaskError
	for _, i := range enabled {
		if failures[i] != nil {
			taskErrors = append(taskErrors, TaskError{TaskName: tasks[i].Name(), Err: failures[i]})
		}
	}
	if len(taskErrors) > 0 {
		return results, &AggregatedError{Errors: taskErrors}
	}
	return results, nil
}

// SetMaxConcurrency sets the maximum number of concurrent tasks
func (e *ParallelExecutorImpl) SetMaxConcurrency(max int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if max > 0 {
		e.maxConcurrency = max
	}
}

// SetTimeout sets the timeout for all tasks
func (e *ParallelExecutorImpl) SetTimeout(timeout time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if timeout > 0 {
		e.timeout = timeout
	}
}

func (e *ParallelExecutorImpl) enabledIndexes(tasks []domain.ExecutableTask) []int {
	enabled := make([]int, 0, len(tasks))
	for i, t := range tasks {
		if t.IsEnabled() {
			enabled = append(enabled, i)
		}
	}
	return enabled
}
