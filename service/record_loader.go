package service

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/ludo-technologies/mscan/domain"
	"github.com/ludo-technologies/mscan/internal/config"
)

// RecordLoaderImpl implements domain.RecordLoader over fact documents on disk
type RecordLoaderImpl struct {
	executor domain.ParallelExecutor
	logger   *slog.Logger
}

// NewRecordLoader creates a loader decoding documents through executor
func NewRecordLoader(executor domain.ParallelExecutor, logger *slog.Logger) *RecordLoaderImpl {
	if executor == nil {
		executor = NewParallelExecutor()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RecordLoaderImpl{executor: executor, logger: logger}
}

// documentTask decodes one fact document
type documentTask struct {
	path string
}

func (t *documentTask) Name() string    { return t.path }
func (t *documentTask) IsEnabled() bool { return true }

func (t *documentTask) Execute(ctx context.Context) (interface{}, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(t.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.NewFileNotFoundError(t.path, err)
		}
		return nil, domain.NewParseError(t.path, err)
	}
	doc, err := DecodeFactDocument(t.path, data)
	if err != nil {
		return nil, err
	}
	records, err := doc.ToRecords()
	if err != nil {
		return nil, domain.NewParseError(t.path, err)
	}
	return records, nil
}

// Load decodes every document of req.Paths in parallel and groups the
// records by recipe. Recipes are sorted by name; identical records are kept
// once.
func (l *RecordLoaderImpl) Load(ctx context.Context, req domain.LoadRequest) (*domain.RecipeGroup, error) {
	if len(req.Paths) == 0 {
		return nil, domain.NewInvalidInputError("no fact documents to load", nil)
	}

	tasks := make([]domain.ExecutableTask, 0, len(req.Paths))
	for _, p := range req.Paths {
		tasks = append(tasks, &documentTask{path: p})
	}

	results, err := l.executor.Execute(ctx, tasks)
	if err != nil {
		return nil, domain.NewAnalysisError("failed to load fact documents", err)
	}

	groupName := req.GroupName
	if groupName == "" {
		groupName = config.DefaultGroupName
	}

	recipes := make(map[string]*domain.Recipe)
	seen := make(map[domain.Record]struct{})
	var total, duplicates int
	for i, res := range results {
		records, _ := res.([]domain.Record)
		for _, r := range records {
			if _, dup := seen[r]; dup {
				duplicates++
				continue
			}
			seen[r] = struct{}{}

			recipe, ok := recipes[r.RecipeName()]
			if !ok {
				recipe, err = domain.NewRecipe(r.RecipeName())
				if err != nil {
					return nil, domain.NewParseError(req.Paths[i], err)
				}
				recipes[r.RecipeName()] = recipe
			}
			recipe.Add(r)
			total++
		}
		l.logger.Debug("decoded fact document",
			slog.String("path", filepath.ToSlash(req.Paths[i])),
			slog.Int("records", len(records)))
	}

	names := make([]string, 0, len(recipes))
	for name := range recipes {
		names = append(names, name)
	}
	sort.Strings(names)

	group := domain.NewRecipeGroup(groupName)
	for _, name := range names {
		group.Add(recipes[name])
	}

	l.logger.Info("loaded fact documents",
		slog.Int("documents", len(req.Paths)),
		slog.Int("recipes", group.Len()),
		slog.Int("records", total),
		slog.Int("duplicates", duplicates))
	return group, nil
}
