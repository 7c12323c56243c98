package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/ludo-technologies/mscan/app"
	"github.com/ludo-technologies/mscan/domain"
	"github.com/ludo-technologies/mscan/internal/config"
	"github.com/ludo-technologies/mscan/internal/logging"
	"github.com/ludo-technologies/mscan/service"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// evaluateOptions are the flags shared by analyze and check
type evaluateOptions struct {
	configPath string
	categories []string
	required   []string
	group      string
	verbose    bool
	noProgress bool
}

func (o *evaluateOptions) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.configPath, "config", "c", "",
		"Path to config file")
	cmd.Flags().StringSliceVarP(&o.categories, "select", "s", nil,
		"Categories to evaluate (comma-separated, default all)")
	cmd.Flags().StringSliceVarP(&o.required, "require", "r", nil,
		"Record kinds that must be present (comma-separated)")
	cmd.Flags().StringVarP(&o.group, "group", "g", "",
		"Name of the recipe group in reports")
	cmd.Flags().BoolVarP(&o.verbose, "verbose", "v", false,
		"Show detailed output")
	cmd.Flags().BoolVar(&o.noProgress, "no-progress", false,
		"Disable progress bars")
}

// loadConfiguration reads the explicit or discovered config for the first path
func loadConfiguration(o *evaluateOptions, args []string) (*config.Config, error) {
	target := ""
	if len(args) > 0 {
		target = args[0]
	}
	return service.NewConfigurationLoader().LoadConfig(o.configPath, target)
}

// buildRequest overlays the command line on the configuration
func buildRequest(cfg *config.Config, o *evaluateOptions, args []string, override domain.EvaluationRequest) (*domain.EvaluationRequest, error) {
	loader := service.NewConfigurationLoader()
	base, err := loader.ToRequest(cfg)
	if err != nil {
		return nil, err
	}

	override.Load.Paths = args
	override.Load.GroupName = o.group
	override.ConfigPath = o.configPath
	for _, s := range o.categories {
		c, err := domain.ParseCategory(s)
		if err != nil {
			return nil, err
		}
		override.Categories = append(override.Categories, c)
	}
	for _, s := range o.required {
		k, err := domain.ParseKind(s)
		if err != nil {
			return nil, err
		}
		override.RequiredKinds = append(override.RequiredKinds, k)
	}

	req := loader.MergeConfig(base, &override)
	if err := loader.ValidateRequest(req); err != nil {
		return nil, err
	}
	return req, nil
}

// newLogger honours --verbose by lowering the configured level to info
func newLogger(cfg *config.Config, o *evaluateOptions, w io.Writer) *slog.Logger {
	logCfg := cfg.Logging
	if o.verbose {
		logCfg.Level = "debug"
	}
	return logging.New(logCfg, w)
}

// colorEnabled reports whether text written to w may be styled
func colorEnabled(cfg *config.Config, w io.Writer) bool {
	if !cfg.Output.Color || os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}

// evaluation bundles the wired use case with the resources to release
type evaluation struct {
	useCase   *app.EvaluateUseCase
	formatter *service.OutputFormatterImpl
	progress  domain.ProgressManager
}

func (e *evaluation) Close() {
	e.progress.Close()
}

// newEvaluation wires loader, service and formatter from cfg
func newEvaluation(cfg *config.Config, o *evaluateOptions, progress bool, out, errOut io.Writer) (*evaluation, error) {
	logger := newLogger(cfg, o, errOut)

	pm := service.NewProgressManager(progress && !o.noProgress)
	executor := service.NewParallelExecutorWithProgress(&cfg.Performance, pm).
		WithLogger(logger).
		WithDescription("Loading fact documents")

	formatter := service.NewOutputFormatterWithColor(colorEnabled(cfg, out)).WithVerbose(o.verbose)

	uc, err := app.NewEvaluateUseCaseBuilder().
		WithLoader(service.NewRecordLoader(executor, logger)).
		WithService(service.NewEvaluationService(&cfg.Quality, service.NewBaselineLoader(), logger)).
		WithFormatter(formatter).
		WithLogger(logger).
		Build()
	if err != nil {
		pm.Close()
		return nil, err
	}
	return &evaluation{useCase: uc, formatter: formatter, progress: pm}, nil
}
