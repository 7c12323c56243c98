package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ludo-technologies/mscan/internal/config"
	"github.com/ludo-technologies/mscan/internal/constants"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
)

func initCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Generate an mscan configuration file",
		Long: `Generate a documented mscan configuration file with sensible defaults.

By default, creates mscan.yaml in the current directory with every quality
criterion documented. Use --interactive for a guided setup wizard.

Examples:
  # Create mscan.yaml in current directory
  mscan init

  # Strict thresholds with every unstable toggle on
  mscan init --strictness strict

  # Custom output path
  mscan init --config ci/mscan.yaml

  # Overwrite existing file
  mscan init --force

  # Thresholds only
  mscan init --minimal

  # Interactive setup wizard
  mscan init -i`,
		RunE: runInit,
	}

	cmd.Flags().StringP("config", "c", constants.DefaultConfigFileName,
		"Output path for the config file")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing config file")
	cmd.Flags().Bool("minimal", false,
		"Generate minimal config with thresholds only")
	cmd.Flags().String("strictness", string(config.StrictnessStandard),
		"Threshold preset: relaxed, standard, strict")
	cmd.Flags().BoolP("interactive", "i", false,
		"Interactive setup wizard")

	return cmd
}

func runInit(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	force, _ := cmd.Flags().GetBool("force")
	minimal, _ := cmd.Flags().GetBool("minimal")
	interactive, _ := cmd.Flags().GetBool("interactive")
	strictnessFlag, _ := cmd.Flags().GetString("strictness")

	strictness := config.Strictness(strictnessFlag)
	if _, ok := config.GetStrictnessPresets()[strictness]; !ok {
		return fmt.Errorf("invalid strictness %q, must be one of: relaxed, standard, strict", strictnessFlag)
	}
	var gated []string

	if interactive {
		var err error
		strictness, gated, configPath, err = runInteractiveSetup(cmd.OutOrStdout(), configPath)
		if err != nil {
			return err
		}
	}

	if !force {
		if _, err := os.Stat(configPath); err == nil {
			return fmt.Errorf("%s already exists. Use --force to overwrite", configPath)
		}
	}

	dir := filepath.Dir(configPath)
	if dir != "." && dir != "" {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			return fmt.Errorf("directory does not exist: %s", dir)
		}
	}

	var content string
	if minimal {
		content = config.GetMinimalConfigTemplate()
	} else {
		content = config.GetFullConfigTemplate(strictness, gated)
	}

	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	displayPath := configPath
	if absPath, err := filepath.Abs(configPath); err == nil {
		displayPath = absPath
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created %s\n", displayPath)
	fmt.Fprintln(out, "\nRun 'mscan analyze <facts-dir>' to evaluate your build.")

	return nil
}

// gateChoices maps a wizard answer to the criteria whose unstable toggle is set
var gateChoices = []struct {
	Label       string
	Description string
	Keys        []string
}{
	{"Report only", "No category changes the build status", nil},
	{"Code quality", "Violations, comments, complexity, duplications",
		[]string{"recipe_violations", "code_violations", "comments", "complexity", "duplications"}},
	{"Tests", "Unit tests, coverage, mutation tests",
		[]string{"unit_tests", "statement_coverage", "branch_coverage", "mutation_tests"}},
	{"Everything", "Any unqualified category makes the build unstable",
		[]string{"premirror_cache", "shared_state_cache", "recipe_violations", "code_violations", "comments",
			"complexity", "duplications", "unit_tests", "statement_coverage", "branch_coverage", "mutation_tests"}},
}

func runInteractiveSetup(out io.Writer, defaultConfigPath string) (config.Strictness, []string, string, error) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, "mscan Configuration Setup")
	fmt.Fprintln(out, "=========================")
	fmt.Fprintln(out)

	strictnessLevels := []struct {
		Label       string
		Description string
		Value       config.Strictness
	}{
		{"Standard (recommended)", "Balanced thresholds for most builds", config.StrictnessStandard},
		{"Relaxed", "Lower bars, fewer unqualified categories", config.StrictnessRelaxed},
		{"Strict", "Higher bars, every category gates", config.StrictnessStrict},
	}

	strictnessPrompt := promptui.Select{
		Label: "How strict should the thresholds be?",
		Items: strictnessLevels,
		Templates: &promptui.SelectTemplates{
			Label:    "{{ . }}",
			Active:   "\U0001F449 {{ .Label | cyan }} - {{ .Description | faint }}",
			Inactive: "   {{ .Label | white }} - {{ .Description | faint }}",
			Selected: "\U00002705 {{ .Label | green }}",
		},
	}

	strictnessIdx, _, err := strictnessPrompt.Run()
	if err != nil {
		return "", nil, "", fmt.Errorf("strictness selection cancelled: %w", err)
	}
	selectedStrictness := strictnessLevels[strictnessIdx].Value

	fmt.Fprintln(out)

	gatePrompt := promptui.Select{
		Label: "Which categories should mark the build unstable?",
		Items: gateChoices,
		Templates: &promptui.SelectTemplates{
			Label:    "{{ . }}",
			Active:   "\U0001F449 {{ .Label | cyan }} - {{ .Description | faint }}",
			Inactive: "   {{ .Label | white }} - {{ .Description | faint }}",
			Selected: "\U00002705 {{ .Label | green }}",
		},
	}

	gateIdx, _, err := gatePrompt.Run()
	if err != nil {
		return "", nil, "", fmt.Errorf("gate selection cancelled: %w", err)
	}

	fmt.Fprintln(out)

	outputPrompt := promptui.Prompt{
		Label:   "Output file path",
		Default: defaultConfigPath,
	}

	outputPath, err := outputPrompt.Run()
	if err != nil {
		return "", nil, "", fmt.Errorf("output path input cancelled: %w", err)
	}
	if outputPath == "" {
		outputPath = defaultConfigPath
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Creating %s... ", outputPath)

	return selectedStrictness, gateChoices[gateIdx].Keys, outputPath, nil
}
