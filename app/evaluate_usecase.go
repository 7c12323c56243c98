package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ludo-technologies/mscan/domain"
)

// EvaluateUseCase orchestrates the collect, load, evaluate and write workflow
type EvaluateUseCase struct {
	loader     domain.RecordLoader
	service    domain.EvaluationService
	formatter  domain.ReportFormatter
	fileHelper *FileHelper
	logger     *slog.Logger
}

// NewEvaluateUseCase creates a new evaluate use case
func NewEvaluateUseCase(loader domain.RecordLoader, service domain.EvaluationService, formatter domain.ReportFormatter) *EvaluateUseCase {
	return &EvaluateUseCase{
		loader:     loader,
		service:    service,
		formatter:  formatter,
		fileHelper: NewFileHelper(),
		logger:     slog.Default(),
	}
}

// Execute runs the whole workflow and writes the report to req.OutputWriter
// when one is set
func (uc *EvaluateUseCase) Execute(ctx context.Context, req domain.EvaluationRequest) (*domain.EvaluationReport, error) {
	group, err := uc.Load(ctx, req.Load)
	if err != nil {
		return nil, err
	}

	report, err := uc.service.Evaluate(ctx, group, req)
	if err != nil {
		return nil, err
	}

	if req.OutputWriter != nil && uc.formatter != nil {
		if err := uc.formatter.Write(report, req.OutputFormat, req.OutputWriter); err != nil {
			return nil, err
		}
	}
	return report, nil
}

// Load collects the fact documents selected by req and loads them into a group
func (uc *EvaluateUseCase) Load(ctx context.Context, req domain.LoadRequest) (*domain.RecipeGroup, error) {
	if err := uc.validateRequest(req); err != nil {
		return nil, domain.NewInvalidInputError("invalid request", err)
	}

	files, err := uc.fileHelper.CollectFactFiles(req)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, domain.NewInvalidInputError("no fact documents found in the specified paths", nil)
	}
	uc.logger.Debug("collected fact documents", slog.Int("documents", len(files)))

	req.Paths = files
	return uc.loader.Load(ctx, req)
}

func (uc *EvaluateUseCase) validateRequest(req domain.LoadRequest) error {
	if len(req.Paths) == 0 {
		return fmt.Errorf("no input paths specified")
	}
	return nil
}

// EvaluateUseCaseBuilder provides a builder pattern for creating EvaluateUseCase
type EvaluateUseCaseBuilder struct {
	loader     domain.RecordLoader
	service    domain.EvaluationService
	formatter  domain.ReportFormatter
	fileHelper *FileHelper
	logger     *slog.Logger
}

// NewEvaluateUseCaseBuilder creates a new builder
func NewEvaluateUseCaseBuilder() *EvaluateUseCaseBuilder {
	return &EvaluateUseCaseBuilder{}
}

// WithLoader sets the record loader
func (b *EvaluateUseCaseBuilder) WithLoader(loader domain.RecordLoader) *EvaluateUseCaseBuilder {
	b.loader = loader
	return b
}

// WithService sets the evaluation service
func (b *EvaluateUseCaseBuilder) WithService(service domain.EvaluationService) *EvaluateUseCaseBuilder {
	b.service = service
	return b
}

// WithFormatter sets the report formatter
func (b *EvaluateUseCaseBuilder) WithFormatter(formatter domain.ReportFormatter) *EvaluateUseCaseBuilder {
	b.formatter = formatter
	return b
}

// WithFileHelper sets the file helper
func (b *EvaluateUseCaseBuilder) WithFileHelper(fileHelper *FileHelper) *EvaluateUseCaseBuilder {
	b.fileHelper = fileHelper
	return b
}

// WithLogger sets the logger
func (b *EvaluateUseCaseBuilder) WithLogger(logger *slog.Logger) *EvaluateUseCaseBuilder {
	b.logger = logger
	return b
}

// Build creates the EvaluateUseCase with the configured dependencies
func (b *EvaluateUseCaseBuilder) Build() (*EvaluateUseCase, error) {
	if b.loader == nil {
		return nil, fmt.Errorf("record loader is required")
	}
	if b.service == nil {
		return nil, fmt.Errorf("evaluation service is required")
	}

	uc := NewEvaluateUseCase(b.loader, b.service, b.formatter)
	if b.fileHelper != nil {
		uc.fileHelper = b.fileHelper
	}
	if b.logger != nil {
		uc.logger = b.logger
	}
	return uc, nil
}
