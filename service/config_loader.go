package service

import (
	"fmt"

	"github.com/ludo-technologies/mscan/domain"
	"github.com/ludo-technologies/mscan/internal/config"
)

// ConfigurationLoaderImpl turns configuration files into evaluation requests
type ConfigurationLoaderImpl struct{}

// NewConfigurationLoader creates a new configuration loader service
func NewConfigurationLoader() *ConfigurationLoaderImpl {
	return &ConfigurationLoaderImpl{}
}

// LoadConfig loads configuration from path, discovering one near target
// when path is empty
func (c *ConfigurationLoaderImpl) LoadConfig(path, target string) (*config.Config, error) {
	cfg, err := config.LoadConfigWithTarget(path, target)
	if err != nil {
		return nil, domain.NewConfigError("failed to load configuration file", err)
	}
	return cfg, nil
}

// LoadDefaultConfig loads a discovered configuration, falling back to the
// built-in defaults when none can be read
func (c *ConfigurationLoaderImpl) LoadDefaultConfig(target string) *config.Config {
	cfg, err := config.LoadConfigWithTarget("", target)
	if err == nil {
		return cfg
	}
	return config.DefaultConfig()
}

// ToRequest converts cfg into an evaluation request. Paths are set by the caller.
func (c *ConfigurationLoaderImpl) ToRequest(cfg *config.Config) (*domain.EvaluationRequest, error) {
	format, err := domain.ParseOutputFormat(cfg.Output.Format)
	if err != nil {
		return nil, domain.NewConfigError("invalid output.format", err)
	}

	kinds := make([]domain.Kind, 0, len(cfg.Input.RequiredKinds))
	for _, s := range cfg.Input.RequiredKinds {
		k, err := domain.ParseKind(s)
		if err != nil {
			return nil, domain.NewConfigError("invalid input.required_kinds", err)
		}
		kinds = append(kinds, k)
	}

	return &domain.EvaluationRequest{
		Load: domain.LoadRequest{
			Paths:            []string{},
			Recursive:        cfg.Input.Recursive,
			IncludePatterns:  cfg.Input.IncludePatterns,
			ExcludePatterns:  cfg.Input.ExcludePatterns,
			RespectGitignore: cfg.Input.RespectGitignore,
			GroupName:        cfg.Input.GroupName,
		},
		OutputFormat:   format,
		IncludeRecipes: cfg.Output.ShowRecipes,
		RequiredKinds:  kinds,
	}, nil
}

// MergeConfig overlays the non-zero values of override (CLI flags) on base
func (c *ConfigurationLoaderImpl) MergeConfig(base *domain.EvaluationRequest, override *domain.EvaluationRequest) *domain.EvaluationRequest {
	merged := *base

	// Paths always come from command arguments
	if len(override.Load.Paths) > 0 {
		merged.Load.Paths = override.Load.Paths
	}
	if override.Load.GroupName != "" {
		merged.Load.GroupName = override.Load.GroupName
	}

	if override.OutputFormat != "" {
		merged.OutputFormat = override.OutputFormat
	}
	if override.OutputWriter != nil {
		merged.OutputWriter = override.OutputWriter
	}
	if override.IncludeRecipes {
		merged.IncludeRecipes = true
	}
	if len(override.Categories) > 0 {
		merged.Categories = override.Categories
	}
	if len(override.RequiredKinds) > 0 {
		merged.RequiredKinds = override.RequiredKinds
	}
	if override.BaselinePath != "" {
		merged.BaselinePath = override.BaselinePath
	}
	if override.ConfigPath != "" {
		merged.ConfigPath = override.ConfigPath
	}

	return &merged
}

// ValidateRequest validates a merged request
func (c *ConfigurationLoaderImpl) ValidateRequest(req *domain.EvaluationRequest) error {
	if len(req.Load.Paths) == 0 {
		return domain.NewValidationError("no input paths given")
	}
	if _, err := domain.ParseOutputFormat(string(req.OutputFormat)); err != nil {
		return err
	}

	seen := make(map[domain.Category]bool, len(req.Categories))
	for _, cat := range req.Categories {
		if _, err := domain.ParseCategory(string(cat)); err != nil {
			return err
		}
		if seen[cat] {
			return domain.NewValidationError(fmt.Sprintf("category %s selected twice", cat))
		}
		seen[cat] = true
	}
	return nil
}
