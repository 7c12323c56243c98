package main

import (
	"fmt"

	"github.com/ludo-technologies/mscan/app"
	"github.com/ludo-technologies/mscan/domain"
	"github.com/spf13/cobra"
)

// CheckExitError is a custom error type for check command exit codes
type CheckExitError struct {
	Code    int
	Message string
}

func (e *CheckExitError) Error() string {
	return e.Message
}

type checkOptions struct {
	evaluateOptions
	jsonOutput  bool
	unstableAll bool
}

func checkCmd() *cobra.Command {
	opts := &checkOptions{}
	cmd := &cobra.Command{
		Use:   "check [path...]",
		Short: "Quality gate for CI/CD pipelines",
		Long: `Evaluate the fact documents and exit with the build status.

Exit codes:
  0 - Success: every gating category qualifies
  1 - Unstable: a category with the unstable toggle did not qualify
  2 - Failure: a required report is missing, or evaluation failed

Examples:
  # Gate with the configured toggles
  mscan check build/facts/

  # Every unqualified category makes the build unstable
  mscan check --unstable-all build/facts/

  # Fail when no test or coverage results were collected
  mscan check --require test,statement_coverage build/facts/

  # JSON output for machine parsing
  mscan check --json build/facts/`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args, opts)
		},
		SilenceUsage:  true, // Don't print usage on errors (we handle our own output)
		SilenceErrors: true, // Don't print error messages (we handle our own output)
	}

	opts.bind(cmd)
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false,
		"Output results as JSON")
	cmd.Flags().BoolVar(&opts.unstableAll, "unstable-all", false,
		"Turn on the unstable toggle of every category")

	return cmd
}

func runCheck(cmd *cobra.Command, args []string, opts *checkOptions) error {
	if len(args) == 0 {
		return &CheckExitError{Code: domain.ExitCodeFailure, Message: "no paths specified"}
	}

	cfg, err := loadConfiguration(&opts.evaluateOptions, args)
	if err != nil {
		return &CheckExitError{Code: domain.ExitCodeFailure, Message: err.Error()}
	}
	if opts.unstableAll {
		cfg.Quality.SetAllUnstable(true)
	}

	req, err := buildRequest(cfg, &opts.evaluateOptions, args, domain.EvaluationRequest{})
	if err != nil {
		return &CheckExitError{Code: domain.ExitCodeFailure, Message: err.Error()}
	}

	ev, err := newEvaluation(cfg, &opts.evaluateOptions, !opts.jsonOutput, cmd.OutOrStdout(), cmd.ErrOrStderr())
	if err != nil {
		return &CheckExitError{Code: domain.ExitCodeFailure, Message: err.Error()}
	}
	defer ev.Close()

	result, err := app.NewCheckUseCase(ev.useCase).Execute(cmd.Context(), *req)
	if err != nil {
		return &CheckExitError{Code: domain.ExitCodeFailure, Message: err.Error()}
	}

	if err := ev.formatter.WriteCheck(result, opts.jsonOutput, cmd.OutOrStdout()); err != nil {
		return &CheckExitError{Code: domain.ExitCodeFailure, Message: fmt.Sprintf("failed to write result: %v", err)}
	}

	if result.ExitCode != domain.ExitCodeSuccess {
		return &CheckExitError{Code: result.ExitCode}
	}
	return nil
}
