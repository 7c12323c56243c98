package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ludo-technologies/mscan/internal/constants"
	"github.com/spf13/viper"
)

// Default quality thresholds. Percent thresholds are in [0, 100]; violation
// thresholds are violations per line and may exceed 1.
const (
	DefaultPremirrorCacheThreshold    = 80.0
	DefaultSharedStateCacheThreshold  = 80.0
	DefaultRecipeViolationThreshold   = 0.1
	DefaultCommentThreshold           = 20.0
	DefaultCodeViolationThreshold     = 0.1
	DefaultComplexityTolerance        = 10
	DefaultComplexityThreshold        = 10.0
	DefaultDuplicationTolerance       = 10
	DefaultDuplicationThreshold       = 10.0
	DefaultTestThreshold              = 95.0
	DefaultStatementCoverageThreshold = 80.0
	DefaultBranchCoverageThreshold    = 40.0
	DefaultMutationTestThreshold      = 85.0
)

// Default runtime settings
const (
	DefaultMaxGoroutines  = 4
	DefaultTimeoutSeconds = 300
	DefaultLogLevel       = "warn"
	DefaultLogFormat      = "text"
	DefaultGroupName      = "all"
)

// Config represents the main configuration structure
type Config struct {
	// Quality holds thresholds, tolerances and unstable toggles per metric
	Quality QualityConfig `json:"quality" mapstructure:"quality" yaml:"quality"`

	// Input controls how fact documents are collected
	Input InputConfig `json:"input" mapstructure:"input" yaml:"input"`

	// Output holds output formatting configuration
	Output OutputConfig `json:"output" mapstructure:"output" yaml:"output"`

	// Logging holds structured logging configuration
	Logging LoggingConfig `json:"logging" mapstructure:"logging" yaml:"logging"`

	// Performance bounds parallel document loading
	Performance PerformanceConfig `json:"performance" mapstructure:"performance" yaml:"performance"`
}

// Criterion is the configuration of one metric category
type Criterion struct {
	// Threshold is a percent for rate metrics and a ratio for violation metrics
	Threshold float64 `json:"threshold" mapstructure:"threshold" yaml:"threshold"`

	// Tolerance filters what is counted (complexity value, duplicated block size)
	Tolerance int64 `json:"tolerance,omitempty" mapstructure:"tolerance" yaml:"tolerance,omitempty"`

	// Unstable marks the build unstable when the metric does not qualify
	Unstable bool `json:"unstable" mapstructure:"unstable" yaml:"unstable"`
}

// QualityConfig holds one Criterion per metric category
type QualityConfig struct {
	PremirrorCache    Criterion `json:"premirror_cache" mapstructure:"premirror_cache" yaml:"premirror_cache"`
	SharedStateCache  Criterion `json:"shared_state_cache" mapstructure:"shared_state_cache" yaml:"shared_state_cache"`
	RecipeViolations  Criterion `json:"recipe_violations" mapstructure:"recipe_violations" yaml:"recipe_violations"`
	Comments          Criterion `json:"comments" mapstructure:"comments" yaml:"comments"`
	CodeViolations    Criterion `json:"code_violations" mapstructure:"code_violations" yaml:"code_violations"`
	Complexity        Criterion `json:"complexity" mapstructure:"complexity" yaml:"complexity"`
	Duplications      Criterion `json:"duplications" mapstructure:"duplications" yaml:"duplications"`
	UnitTests         Criterion `json:"unit_tests" mapstructure:"unit_tests" yaml:"unit_tests"`
	StatementCoverage Criterion `json:"statement_coverage" mapstructure:"statement_coverage" yaml:"statement_coverage"`
	BranchCoverage    Criterion `json:"branch_coverage" mapstructure:"branch_coverage" yaml:"branch_coverage"`
	MutationTests     Criterion `json:"mutation_tests" mapstructure:"mutation_tests" yaml:"mutation_tests"`
}

// InputConfig holds configuration for fact document collection
type InputConfig struct {
	// IncludePatterns specifies file patterns to include
	IncludePatterns []string `json:"include_patterns" mapstructure:"include_patterns" yaml:"include_patterns"`

	// ExcludePatterns specifies file patterns to exclude
	ExcludePatterns []string `json:"exclude_patterns" mapstructure:"exclude_patterns" yaml:"exclude_patterns"`

	// Recursive controls whether to walk directories recursively
	Recursive bool `json:"recursive" mapstructure:"recursive" yaml:"recursive"`

	// RespectGitignore skips files matched by .gitignore files
	RespectGitignore bool `json:"respect_gitignore" mapstructure:"respect_gitignore" yaml:"respect_gitignore"`

	// RequiredKinds are record kinds whose absence fails the build
	RequiredKinds []string `json:"required_kinds" mapstructure:"required_kinds" yaml:"required_kinds"`

	// GroupName names the recipe group in reports
	GroupName string `json:"group_name" mapstructure:"group_name" yaml:"group_name"`
}

// OutputConfig holds configuration for output formatting
type OutputConfig struct {
	// Format specifies the output format: text, json, yaml
	Format string `json:"format" mapstructure:"format" yaml:"format"`

	// ShowRecipes adds a per-recipe evaluation summary to the report
	ShowRecipes bool `json:"show_recipes" mapstructure:"show_recipes" yaml:"show_recipes"`

	// Color enables styled text output on terminals
	Color bool `json:"color" mapstructure:"color" yaml:"color"`
}

// LoggingConfig holds configuration for diagnostics on stderr
type LoggingConfig struct {
	// Level is one of debug, info, warn, error
	Level string `json:"level" mapstructure:"level" yaml:"level"`

	// Format is text or json
	Format string `json:"format" mapstructure:"format" yaml:"format"`
}

// PerformanceConfig bounds concurrent work
type PerformanceConfig struct {
	// MaxGoroutines limits concurrently decoded documents (0 = default)
	MaxGoroutines int `json:"max_goroutines" mapstructure:"max_goroutines" yaml:"max_goroutines"`

	// TimeoutSeconds bounds the whole loading phase (0 = default)
	TimeoutSeconds int `json:"timeout_seconds" mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
}

// DefaultQualityConfig returns the default thresholds
func DefaultQualityConfig() QualityConfig {
	return QualityConfig{
		PremirrorCache:    Criterion{Threshold: DefaultPremirrorCacheThreshold},
		SharedStateCache:  Criterion{Threshold: DefaultSharedStateCacheThreshold},
		RecipeViolations:  Criterion{Threshold: DefaultRecipeViolationThreshold},
		Comments:          Criterion{Threshold: DefaultCommentThreshold},
		CodeViolations:    Criterion{Threshold: DefaultCodeViolationThreshold},
		Complexity:        Criterion{Threshold: DefaultComplexityThreshold, Tolerance: DefaultComplexityTolerance},
		Duplications:      Criterion{Threshold: DefaultDuplicationThreshold, Tolerance: DefaultDuplicationTolerance},
		UnitTests:         Criterion{Threshold: DefaultTestThreshold},
		StatementCoverage: Criterion{Threshold: DefaultStatementCoverageThreshold},
		BranchCoverage:    Criterion{Threshold: DefaultBranchCoverageThreshold},
		MutationTests:     Criterion{Threshold: DefaultMutationTestThreshold},
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Quality: DefaultQualityConfig(),
		Input: InputConfig{
			IncludePatterns:  []string{"*.json", "*.yaml", "*.yml"},
			ExcludePatterns:  []string{".git", "node_modules", constants.ConfigFileBase + ".*", "." + constants.ConfigFileBase + ".*"},
			Recursive:        true,
			RespectGitignore: true,
			RequiredKinds:    []string{},
			GroupName:        DefaultGroupName,
		},
		Output: OutputConfig{
			Format:      "text",
			ShowRecipes: false,
			Color:       true,
		},
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		Performance: PerformanceConfig{
			MaxGoroutines:  DefaultMaxGoroutines,
			TimeoutSeconds: DefaultTimeoutSeconds,
		},
	}
}

// Percent criteria in category order, used by Sanitize and SetAllUnstable
func (q *QualityConfig) percentCriteria() []*Criterion {
	return []*Criterion{
		&q.PremirrorCache, &q.SharedStateCache, &q.Comments, &q.Complexity, &q.Duplications,
		&q.UnitTests, &q.StatementCoverage, &q.BranchCoverage, &q.MutationTests,
	}
}

func (q *QualityConfig) ratioCriteria() []*Criterion {
	return []*Criterion{&q.RecipeViolations, &q.CodeViolations}
}

// Sanitize clamps percents to [0, 100] and ratios and tolerances to >= 0
func (q *QualityConfig) Sanitize() {
	for _, c := range q.percentCriteria() {
		c.Threshold = clamp(c.Threshold, 0, 100)
		if c.Tolerance < 0 {
			c.Tolerance = 0
		}
	}
	for _, c := range q.ratioCriteria() {
		if c.Threshold < 0 {
			c.Threshold = 0
		}
		if c.Tolerance < 0 {
			c.Tolerance = 0
		}
	}
}

// SetAllUnstable switches every unstable toggle on or off
func (q *QualityConfig) SetAllUnstable(unstable bool) {
	for _, c := range append(q.percentCriteria(), q.ratioCriteria()...) {
		c.Unstable = unstable
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// LoadConfig loads configuration from file or returns default config
func LoadConfig(configPath string) (*Config, error) {
	return LoadConfigWithTarget(configPath, "")
}

// discoverConfigFile finds the appropriate config file path
func discoverConfigFile(targetPath string) string {
	return findDefaultConfig(targetPath)
}

// envKeys are the settings that can be overridden with MSCAN_* variables
func envKeys() []string {
	keys := []string{
		"output.format",
		"output.show_recipes",
		"output.color",
		"logging.level",
		"logging.format",
		"performance.max_goroutines",
		"performance.timeout_seconds",
		"input.respect_gitignore",
		"input.group_name",
	}
	for _, c := range []string{
		"premirror_cache", "shared_state_cache", "recipe_violations", "comments", "code_violations",
		"complexity", "duplications", "unit_tests", "statement_coverage", "branch_coverage", "mutation_tests",
	} {
		keys = append(keys, "quality."+c+".threshold", "quality."+c+".tolerance", "quality."+c+".unstable")
	}
	return keys
}

// loadConfigFromFile reads and parses a configuration file, then applies
// environment overrides
func loadConfigFromFile(configPath string) (*Config, error) {
	// Create a new viper instance to avoid race conditions
	v := viper.New()
	config := DefaultConfig()

	v.SetEnvPrefix(constants.EnvVarPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, key := range envKeys() {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind environment for %s: %w", key, err)
		}
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
		}
	}

	// Unmarshal into config struct
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.Quality.Sanitize()

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// LoadConfigWithTarget loads configuration with target path context
func LoadConfigWithTarget(configPath string, targetPath string) (*Config, error) {
	// If no config path specified, discover one
	if configPath == "" {
		configPath = discoverConfigFile(targetPath)
	}

	return loadConfigFromFile(configPath)
}

// searchConfigInDirectory searches for configuration files in a specific directory
func searchConfigInDirectory(dir string, candidates []string) string {
	for _, candidate := range candidates {
		path := filepath.Join(dir, candidate)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// configCandidates lists config file names in order of preference
func configCandidates() []string {
	base := constants.ConfigFileBase
	return []string{
		base + ".yaml",
		base + ".yml",
		"." + base + ".yaml",
		"." + base + ".yml",
		base + ".json",
		"." + base + ".json",
	}
}

// findDefaultConfig looks for default configuration files in common locations.
// targetPath is the path being evaluated (a fact document or a directory).
func findDefaultConfig(targetPath string) string {
	candidates := configCandidates()

	// If targetPath is provided, search from there upward
	if targetPath != "" {
		absPath, err := filepath.Abs(targetPath)
		if err == nil {
			info, err := os.Stat(absPath)
			if err == nil && !info.IsDir() {
				absPath = filepath.Dir(absPath)
			}

			volume := filepath.VolumeName(absPath)
			for dir := absPath; ; dir = filepath.Dir(dir) {
				if config := searchConfigInDirectory(dir, candidates); config != "" {
					return config
				}

				parent := filepath.Dir(dir)
				if parent == dir ||
					dir == volume ||
					(volume != "" && dir == volume+string(filepath.Separator)) {
					break
				}
			}
		}
	}

	// Fallback to current directory
	if config := searchConfigInDirectory(".", candidates); config != "" {
		return config
	}

	// Check XDG config directory
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		if config := searchConfigInDirectory(filepath.Join(xdgConfig, constants.ToolName), candidates); config != "" {
			return config
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		configDir := filepath.Join(home, ".config", constants.ToolName)
		if config := searchConfigInDirectory(configDir, candidates); config != "" {
			return config
		}
	}

	// MSCAN_CONFIG as the last resort
	if envConfig := os.Getenv(constants.EnvVarPrefix + "_CONFIG"); envConfig != "" {
		if _, err := os.Stat(envConfig); err == nil {
			return envConfig
		}
	}

	return ""
}

// Validate validates the configuration values
func (c *Config) Validate() error {
	validFormats := map[string]bool{
		"text": true,
		"json": true,
		"yaml": true,
	}

	if !validFormats[c.Output.Format] {
		return fmt.Errorf("invalid output.format '%s', must be one of: text, json, yaml", c.Output.Format)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid logging.level '%s', must be one of: debug, info, warn, error", c.Logging.Level)
	}

	if c.Logging.Format != "text" && c.Logging.Format != "json" {
		return fmt.Errorf("invalid logging.format '%s', must be one of: text, json", c.Logging.Format)
	}

	if c.Performance.MaxGoroutines < 0 {
		return fmt.Errorf("performance.max_goroutines must be >= 0, got %d", c.Performance.MaxGoroutines)
	}

	if c.Performance.TimeoutSeconds < 0 {
		return fmt.Errorf("performance.timeout_seconds must be >= 0, got %d", c.Performance.TimeoutSeconds)
	}

	if len(c.Input.IncludePatterns) == 0 {
		return fmt.Errorf("input.include_patterns cannot be empty")
	}

	return nil
}

// SaveConfig saves configuration to a YAML file
func SaveConfig(config *Config, path string) error {
	// Create a new viper instance to avoid race conditions
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("quality", config.Quality)
	v.Set("input", config.Input)
	v.Set("output", config.Output)
	v.Set("logging", config.Logging)
	v.Set("performance", config.Performance)

	return v.WriteConfig()
}
