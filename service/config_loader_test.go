package service

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ludo-technologies/mscan/domain"
	"github.com/ludo-technologies/mscan/internal/config"
)

func TestNewConfigurationLoader(t *testing.T) {
	loader := NewConfigurationLoader()

	if loader == nil {
		t.Fatal("NewConfigurationLoader should not return nil")
	}
}

func TestConfigurationLoader_LoadConfig_NonExistent(t *testing.T) {
	loader := NewConfigurationLoader()

	_, err := loader.LoadConfig("/nonexistent/mscan.yaml", "")
	var de domain.DomainError
	if !errors.As(err, &de) || de.Code != domain.ErrCodeConfigError {
		t.Errorf("LoadConfig should return CONFIG_ERROR for nonexistent file, got %v", err)
	}
}

func TestConfigurationLoader_LoadConfig_InvalidYAML(t *testing.T) {
	tempDir := t.TempDir()
	configFile := filepath.Join(tempDir, "mscan.yaml")
	if err := os.WriteFile(configFile, []byte("quality: [unclosed"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	loader := NewConfigurationLoader()

	_, err := loader.LoadConfig(configFile, "")
	if err == nil {
		t.Error("LoadConfig should return error for invalid YAML")
	}
}

func TestConfigurationLoader_LoadConfig_Valid(t *testing.T) {
	tempDir := t.TempDir()
	configFile := filepath.Join(tempDir, "mscan.yaml")
	content := `quality:
  comments:
    threshold: 35
    unstable: true
  complexity:
    threshold: 150
    tolerance: 20
input:
  group_name: core-image
  required_kinds: [code_size, test]
output:
  format: json
  show_recipes: true
`
	if err := os.WriteFile(configFile, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	loader := NewConfigurationLoader()

	cfg, err := loader.LoadConfig(configFile, "")
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Quality.Comments.Threshold != 35 || !cfg.Quality.Comments.Unstable {
		t.Errorf("Unexpected comments criterion: %+v", cfg.Quality.Comments)
	}
	if cfg.Quality.Complexity.Threshold != 100 {
		t.Errorf("Complexity threshold should be clamped to 100, got %v", cfg.Quality.Complexity.Threshold)
	}
	if cfg.Quality.Complexity.Tolerance != 20 {
		t.Errorf("Expected complexity tolerance 20, got %d", cfg.Quality.Complexity.Tolerance)
	}
	if cfg.Quality.UnitTests.Threshold != config.DefaultTestThreshold {
		t.Errorf("Unset criteria should keep defaults, got %v", cfg.Quality.UnitTests.Threshold)
	}

	req, err := loader.ToRequest(cfg)
	if err != nil {
		t.Fatalf("ToRequest failed: %v", err)
	}
	if req.OutputFormat != domain.OutputFormatJSON {
		t.Errorf("Expected json format, got %s", req.OutputFormat)
	}
	if !req.IncludeRecipes {
		t.Error("show_recipes should enable per-recipe summaries")
	}
	if req.Load.GroupName != "core-image" {
		t.Errorf("Expected group core-image, got %s", req.Load.GroupName)
	}
	if len(req.RequiredKinds) != 2 || req.RequiredKinds[1] != domain.KindTest {
		t.Errorf("Unexpected required kinds: %v", req.RequiredKinds)
	}
}

func TestConfigurationLoader_LoadDefaultConfig(t *testing.T) {
	tempDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tempDir)
	t.Setenv("HOME", tempDir)

	origDir, _ := os.Getwd()
	defer func() { _ = os.Chdir(origDir) }()
	if err := os.Chdir(tempDir); err != nil {
		t.Fatalf("Failed to change directory: %v", err)
	}

	loader := NewConfigurationLoader()
	cfg := loader.LoadDefaultConfig(tempDir)
	if cfg == nil {
		t.Fatal("LoadDefaultConfig should never return nil")
	}
	if cfg.Output.Format != "text" {
		t.Errorf("Expected default text format, got %s", cfg.Output.Format)
	}
	if cfg.Input.GroupName != config.DefaultGroupName {
		t.Errorf("Expected default group name, got %s", cfg.Input.GroupName)
	}
}

func TestConfigurationLoader_LoadDefaultConfig_Discovered(t *testing.T) {
	tempDir := t.TempDir()
	nested := filepath.Join(tempDir, "build", "facts")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatalf("Failed to create directories: %v", err)
	}
	if err := os.WriteFile(filepath.Join(tempDir, ".mscan.yml"), []byte("output:\n  format: yaml\n"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	cfg := NewConfigurationLoader().LoadDefaultConfig(nested)
	if cfg.Output.Format != "yaml" {
		t.Errorf("Config should be discovered upward from the target, got format %s", cfg.Output.Format)
	}
}

func TestConfigurationLoader_ToRequest_InvalidKind(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Input.RequiredKinds = []string{"lint"}

	_, err := NewConfigurationLoader().ToRequest(cfg)
	var de domain.DomainError
	if !errors.As(err, &de) || de.Code != domain.ErrCodeConfigError {
		t.Errorf("Expected CONFIG_ERROR, got %v", err)
	}
}

func TestConfigurationLoader_MergeConfig(t *testing.T) {
	loader := NewConfigurationLoader()
	base := &domain.EvaluationRequest{
		Load:          domain.LoadRequest{GroupName: "all", Recursive: true},
		OutputFormat:  domain.OutputFormatText,
		RequiredKinds: []domain.Kind{domain.KindCodeSize},
	}

	var out bytes.Buffer
	override := &domain.EvaluationRequest{
		Load:           domain.LoadRequest{Paths: []string{"facts/"}},
		OutputFormat:   domain.OutputFormatYAML,
		OutputWriter:   &out,
		IncludeRecipes: true,
		Categories:     []domain.Category{domain.CategoryComments},
		BaselinePath:   "previous.json",
		ConfigPath:     "mscan.yaml",
	}

	merged := loader.MergeConfig(base, override)

	if len(merged.Load.Paths) != 1 || merged.Load.Paths[0] != "facts/" {
		t.Errorf("Paths should come from override, got %v", merged.Load.Paths)
	}
	if merged.Load.GroupName != "all" || !merged.Load.Recursive {
		t.Errorf("Unset load options should keep base values, got %+v", merged.Load)
	}
	if merged.OutputFormat != domain.OutputFormatYAML || merged.OutputWriter != &out {
		t.Error("Output settings should come from override")
	}
	if !merged.IncludeRecipes || merged.BaselinePath != "previous.json" || merged.ConfigPath != "mscan.yaml" {
		t.Errorf("Override flags should be applied, got %+v", merged)
	}
	if len(merged.RequiredKinds) != 1 || merged.RequiredKinds[0] != domain.KindCodeSize {
		t.Errorf("Required kinds should keep base value, got %v", merged.RequiredKinds)
	}
	if base.OutputFormat != domain.OutputFormatText {
		t.Error("MergeConfig should not modify base")
	}
}

func TestConfigurationLoader_ValidateRequest(t *testing.T) {
	loader := NewConfigurationLoader()
	valid := domain.EvaluationRequest{
		Load:         domain.LoadRequest{Paths: []string{"facts/"}},
		OutputFormat: domain.OutputFormatJSON,
		Categories:   []domain.Category{domain.CategoryComments, domain.CategoryComplexity},
	}

	tests := []struct {
		name    string
		mutate  func(r *domain.EvaluationRequest)
		wantErr bool
	}{
		{name: "valid", mutate: func(r *domain.EvaluationRequest) {}},
		{name: "no paths", mutate: func(r *domain.EvaluationRequest) { r.Load.Paths = nil }, wantErr: true},
		{name: "bad format", mutate: func(r *domain.EvaluationRequest) { r.OutputFormat = "html" }, wantErr: true},
		{name: "unknown category", mutate: func(r *domain.EvaluationRequest) {
			r.Categories = []domain.Category{"lint"}
		}, wantErr: true},
		{name: "duplicate category", mutate: func(r *domain.EvaluationRequest) {
			r.Categories = []domain.Category{domain.CategoryComments, domain.CategoryComments}
		}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)
			err := loader.ValidateRequest(&req)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRequest() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
