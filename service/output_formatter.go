package service

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/ludo-technologies/mscan/domain"
	"github.com/ludo-technologies/mscan/internal/constants"
	"gopkg.in/yaml.v3"
)

// OutputFormatterImpl implements domain.ReportFormatter
type OutputFormatterImpl struct {
	header  lipgloss.Style
	good    lipgloss.Style
	bad     lipgloss.Style
	warn    lipgloss.Style
	muted   lipgloss.Style
	verbose bool
}

// NewOutputFormatter creates a formatter writing plain text
func NewOutputFormatter() *OutputFormatterImpl {
	return NewOutputFormatterWithColor(false)
}

// NewOutputFormatterWithColor creates a formatter that styles text output
// when color is true
func NewOutputFormatterWithColor(color bool) *OutputFormatterImpl {
	f := &OutputFormatterImpl{
		header: lipgloss.NewStyle(),
		good:   lipgloss.NewStyle(),
		bad:    lipgloss.NewStyle(),
		warn:   lipgloss.NewStyle(),
		muted:  lipgloss.NewStyle(),
	}
	if !color {
		return f
	}
	f.header = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "#5B21B6", Dark: "#A78BFA"})
	f.good = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#059669", Dark: "#10B981"})
	f.bad = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "#DC2626", Dark: "#F87171"})
	f.warn = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#B45309", Dark: "#FBBF24"})
	f.muted = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"})
	return f
}

// WithVerbose adds the per-recipe breakdown and treemap to text output
func (f *OutputFormatterImpl) WithVerbose(verbose bool) *OutputFormatterImpl {
	f.verbose = verbose
	return f
}

// WriteJSON writes data as JSON to the writer
func WriteJSON(writer io.Writer, data interface{}) error {
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// WriteYAML writes data as YAML to the writer
func WriteYAML(writer io.Writer, data interface{}) error {
	encoder := yaml.NewEncoder(writer)
	encoder.SetIndent(2)
	if err := encoder.Encode(data); err != nil {
		return err
	}
	return encoder.Close()
}

// Write writes the evaluation report in the specified format
func (f *OutputFormatterImpl) Write(report *domain.EvaluationReport, format domain.OutputFormat, writer io.Writer) error {
	if report == nil {
		return domain.NewOutputError("no report to write", nil)
	}

	var err error
	switch format {
	case domain.OutputFormatJSON:
		err = WriteJSON(writer, report)
	case domain.OutputFormatYAML:
		err = WriteYAML(writer, report)
	case domain.OutputFormatText, "":
		err = f.writeText(report, writer)
	default:
		return domain.NewUnsupportedFormatError(string(format))
	}
	if err != nil {
		return domain.NewOutputError("failed to write report", err)
	}
	return nil
}

func formatDifference(c domain.Category, d *float64) string {
	if d == nil {
		return ""
	}
	if c.IsViolationRate() {
		return fmt.Sprintf(" (%+.3f)", *d)
	}
	return fmt.Sprintf(" (%+.2f%%)", *d*100)
}

func (f *OutputFormatterImpl) verdict(ev domain.Evaluation) string {
	switch {
	case !ev.Available:
		return f.muted.Render("n/a")
	case ev.Qualified:
		return f.good.Render("qualified")
	default:
		return f.bad.Render("unqualified")
	}
}

func (f *OutputFormatterImpl) status(s domain.BuildStatus) string {
	label := strings.ToUpper(s.String())
	switch s {
	case domain.StatusSuccess:
		return f.good.Render(label)
	case domain.StatusUnstable:
		return f.warn.Render(label)
	default:
		return f.bad.Render(label)
	}
}

// writeText writes the report as human readable text
func (f *OutputFormatterImpl) writeText(report *domain.EvaluationReport, writer io.Writer) error {
	w := &errWriter{w: writer}
	group := report.Group

	w.printf("\n%s\n\n", f.header.Render(fmt.Sprintf("=== %s Evaluation Report ===", constants.ToolName)))
	w.printf("Group: %s\n", group.Name)
	w.printf("Generated: %s\n", report.GeneratedAt)
	w.printf("Version: %s\n", report.Version)
	w.printf("Duration: %dms\n", report.DurationMs)
	if report.ID != "" {
		w.printf("Run: %s\n", f.muted.Render(report.ID))
	}
	w.printf("\n")

	loc := group.LinesOfCode
	w.printf("Lines of code: %d lines, %d functions, %d classes, %d files, %d recipes\n",
		loc.Lines, loc.Functions, loc.Classes, loc.Files, loc.Recipes)
	if d := report.LinesOfCodeDelta; d != nil {
		w.printf("  Since baseline: %+d lines, %+d files, %+d recipes\n", d.Lines, d.Files, d.Recipes)
	}
	w.printf("Quality: %d/%d categories qualified %s\n",
		group.Quality.Numerator, group.Quality.Denominator, f.verdict(group.Quality))
	w.printf("Qualified recipes: %d/%d\n\n",
		report.QualifiedRecipes.Numerator, report.QualifiedRecipes.Denominator)

	w.printf("Metrics:\n")
	w.printf("  %-20s %12s %12s  %s\n", "Category", "Value", "Threshold", "Result")
	for _, m := range group.Metrics {
		ev := m.Evaluation
		value := "-"
		if ev.Available {
			value = m.Category.FormatValue(ev.Ratio)
		}
		w.printf("  %-20s %12s %12s  %s%s\n",
			m.Category, value, m.Category.FormatValue(ev.Threshold), f.verdict(ev),
			formatDifference(m.Category, ev.Difference))
	}
	w.printf("\n")

	if f.verbose {
		f.writeBreakdownText(w, report)
	}

	if len(report.MissingKinds) > 0 {
		w.printf("Missing reports:\n")
		for _, k := range report.MissingKinds {
			w.printf("  - %s\n", k)
		}
		w.printf("\n")
	}

	if len(report.Warnings) > 0 {
		w.printf("Warnings:\n")
		for _, msg := range report.Warnings {
			w.printf("  - %s\n", msg)
		}
		w.printf("\n")
	}

	w.printf("Status: %s\n", f.status(report.Status.Combined))
	return w.err
}

func (f *OutputFormatterImpl) writeBreakdownText(w *errWriter, report *domain.EvaluationReport) {
	for _, b := range report.Breakdown {
		if len(b.Rows) == 0 {
			continue
		}
		w.printf("%s:\n", f.header.Render(string(b.Category)))
		for _, row := range b.Rows {
			w.printf("  %-40s %8d LOC %12s  %s\n",
				row.Name, row.LinesOfCode, b.Category.FormatValue(row.Ratio), f.qualifiedLabel(row.Qualified))
		}
		w.printf("\n")
	}

	if len(report.Treemap) > 0 {
		w.printf("%s:\n", f.header.Render("Recipes"))
		for _, tile := range report.Treemap {
			w.printf("  %-40s %8d LOC %8.2f%%  %s\n", tile.Name, tile.LinesOfCode, tile.Ratio*100, tile.Grade)
		}
		w.printf("\n")
	}
}

func (f *OutputFormatterImpl) qualifiedLabel(ok bool) string {
	if ok {
		return f.good.Render("qualified")
	}
	return f.bad.Render("unqualified")
}

// WriteCheck writes a quality gate result as JSON or text
func (f *OutputFormatterImpl) WriteCheck(result *domain.CheckResult, asJSON bool, writer io.Writer) error {
	if asJSON {
		if err := WriteJSON(writer, result); err != nil {
			return domain.NewOutputError("failed to encode JSON", err)
		}
		return nil
	}

	w := &errWriter{w: writer}
	switch result.Status {
	case domain.StatusSuccess:
		w.printf("%s: all quality gates passed\n", f.good.Render("PASS"))
	case domain.StatusUnstable:
		w.printf("%s: quality gates violated\n", f.warn.Render("UNSTABLE"))
	default:
		w.printf("%s: quality check failed\n", f.bad.Render("FAIL"))
	}

	for _, v := range result.Violations {
		label := "INFO"
		switch v.Status {
		case domain.StatusUnstable:
			label = "WARN"
		case domain.StatusFailure:
			label = "ERROR"
		}
		w.printf("  [%s] %s: %s\n", label, v.Category, v.Message)
	}
	for _, k := range result.Summary.MissingKinds {
		w.printf("  [ERROR] missing report: %s\n", k)
	}

	if f.verbose {
		s := result.Summary
		w.printf("\nSummary:\n")
		w.printf("  Recipes: %d\n", s.Recipes)
		w.printf("  Records: %d\n", s.Records)
		w.printf("  Categories: %d evaluated, %d available, %d qualified\n",
			s.CategoriesEvaluated, s.CategoriesAvailable, s.CategoriesQualified)
		w.printf("  Duration: %dms\n", result.Duration)
	}
	if w.err != nil {
		return domain.NewOutputError("failed to write check result", w.err)
	}
	return nil
}

// errWriter keeps the first write error so callers check once
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...interface{}) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}
