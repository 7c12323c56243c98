package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ludo-technologies/mscan/domain"
	"github.com/spf13/cobra"
)

type analyzeOptions struct {
	evaluateOptions
	format      string
	jsonOutput  bool
	outputPath  string
	baseline    string
	showRecipes bool
}

func analyzeCmd() *cobra.Command {
	opts := &analyzeOptions{}
	cmd := &cobra.Command{
		Use:   "analyze [path...]",
		Short: "Evaluate quality metrics over fact documents",
		Long: `Load the fact documents found in the given files and directories, evaluate
every metric category and print the report.

Examples:
  mscan analyze build/facts/
  mscan analyze --select comments,complexity build/facts/
  mscan analyze --format yaml --output report.yaml build/facts/
  mscan analyze --baseline previous.json --json build/facts/`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, args, opts)
		},
	}

	opts.bind(cmd)
	cmd.Flags().StringVarP(&opts.format, "format", "f", "",
		"Output format: text, json, yaml (default from config)")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false,
		"Output results as JSON (shorthand for --format json)")
	cmd.Flags().StringVarP(&opts.outputPath, "output", "o", "",
		"Output file path (default: stdout)")
	cmd.Flags().StringVarP(&opts.baseline, "baseline", "b", "",
		"Previous JSON or YAML report to compare with")
	cmd.Flags().BoolVar(&opts.showRecipes, "recipes", false,
		"Include a summary per recipe")

	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string, opts *analyzeOptions) error {
	if len(args) == 0 {
		return fmt.Errorf("no paths specified")
	}

	cfg, err := loadConfiguration(&opts.evaluateOptions, args)
	if err != nil {
		return err
	}

	override := domain.EvaluationRequest{
		BaselinePath:   opts.baseline,
		IncludeRecipes: opts.showRecipes,
	}
	if opts.format != "" {
		format, err := domain.ParseOutputFormat(opts.format)
		if err != nil {
			return err
		}
		override.OutputFormat = format
	}
	if opts.jsonOutput {
		override.OutputFormat = domain.OutputFormatJSON
	}

	req, err := buildRequest(cfg, &opts.evaluateOptions, args, override)
	if err != nil {
		return err
	}

	var out io.Writer = cmd.OutOrStdout()
	if opts.outputPath != "" {
		file, err := os.Create(opts.outputPath)
		if err != nil {
			return domain.NewOutputError("failed to create output file", err)
		}
		defer file.Close()
		out = file
	}
	req.OutputWriter = out

	ev, err := newEvaluation(cfg, &opts.evaluateOptions, req.OutputFormat == domain.OutputFormatText, out, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer ev.Close()

	if _, err := ev.useCase.Execute(cmd.Context(), *req); err != nil {
		return err
	}

	if opts.outputPath != "" {
		absPath, _ := filepath.Abs(opts.outputPath)
		fmt.Fprintf(cmd.ErrOrStderr(), "Report saved to: %s\n", absPath)
	}
	return nil
}
