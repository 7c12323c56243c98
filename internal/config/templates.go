package config

import (
	"strconv"
	"strings"
)

// Strictness represents the gating strictness level
type Strictness string

const (
	StrictnessRelaxed  Strictness = "relaxed"
	StrictnessStandard Strictness = "standard"
	StrictnessStrict   Strictness = "strict"
)

// StrictnessPreset holds the quality section for a strictness level
type StrictnessPreset struct {
	Quality QualityConfig
}

// GetStrictnessPresets returns presets for different strictness levels
func GetStrictnessPresets() map[Strictness]StrictnessPreset {
	strict := QualityConfig{
		PremirrorCache:    Criterion{Threshold: 90},
		SharedStateCache:  Criterion{Threshold: 90},
		RecipeViolations:  Criterion{Threshold: 0.05},
		Comments:          Criterion{Threshold: 30},
		CodeViolations:    Criterion{Threshold: 0.05},
		Complexity:        Criterion{Threshold: 5, Tolerance: 10},
		Duplications:      Criterion{Threshold: 5, Tolerance: 10},
		UnitTests:         Criterion{Threshold: 100},
		StatementCoverage: Criterion{Threshold: 90},
		BranchCoverage:    Criterion{Threshold: 60},
		MutationTests:     Criterion{Threshold: 90},
	}
	strict.SetAllUnstable(true)

	return map[Strictness]StrictnessPreset{
		StrictnessRelaxed: {
			Quality: QualityConfig{
				PremirrorCache:    Criterion{Threshold: 60},
				SharedStateCache:  Criterion{Threshold: 60},
				RecipeViolations:  Criterion{Threshold: 0.2},
				Comments:          Criterion{Threshold: 10},
				CodeViolations:    Criterion{Threshold: 0.2},
				Complexity:        Criterion{Threshold: 20, Tolerance: 15},
				Duplications:      Criterion{Threshold: 20, Tolerance: 15},
				UnitTests:         Criterion{Threshold: 80},
				StatementCoverage: Criterion{Threshold: 60},
				BranchCoverage:    Criterion{Threshold: 30},
				MutationTests:     Criterion{Threshold: 70},
			},
		},
		StrictnessStandard: {Quality: DefaultQualityConfig()},
		StrictnessStrict:   {Quality: strict},
	}
}

// GetFullConfigTemplate returns the documented config template as YAML.
// gated lists the criteria keys whose unstable toggle is forced on.
func GetFullConfigTemplate(strictness Strictness, gated []string) string {
	preset, ok := GetStrictnessPresets()[strictness]
	if !ok {
		preset = GetStrictnessPresets()[StrictnessStandard]
	}
	q := preset.Quality
	on := make(map[string]bool, len(gated))
	for _, g := range gated {
		on[g] = true
	}

	var b strings.Builder
	b.WriteString(`# mscan configuration
# Strictness preset: ` + string(strictness) + `

# ============================================================================
# QUALITY CRITERIA
# ============================================================================
# threshold: percent (0-100) for rate metrics, violations per line for
#            recipe_violations and code_violations
# tolerance: complexity value or duplicated block size that starts counting
# unstable:  mark the build unstable when the metric does not qualify
quality:
`)
	for _, e := range []struct {
		key   string
		doc   string
		c     Criterion
		toler bool
	}{
		{"premirror_cache", "Premirror cache hit rate (higher is better)", q.PremirrorCache, false},
		{"shared_state_cache", "Shared state cache hit rate (higher is better)", q.SharedStateCache, false},
		{"recipe_violations", "Recipe violations per recipe line (lower is better)", q.RecipeViolations, false},
		{"comments", "Comment line rate (higher is better)", q.Comments, false},
		{"code_violations", "Code violations per source line (lower is better)", q.CodeViolations, false},
		{"complexity", "Rate of functions at or above the tolerance (lower is better)", q.Complexity, true},
		{"duplications", "Duplicated line rate (lower is better)", q.Duplications, true},
		{"unit_tests", "Passed test rate (higher is better)", q.UnitTests, false},
		{"statement_coverage", "Covered statement rate (higher is better)", q.StatementCoverage, false},
		{"branch_coverage", "Covered branch rate (higher is better)", q.BranchCoverage, false},
		{"mutation_tests", "Killed mutant rate (higher is better)", q.MutationTests, false},
	} {
		b.WriteString("  # " + e.doc + "\n")
		b.WriteString("  " + e.key + ":\n")
		b.WriteString("    threshold: " + strconv.FormatFloat(e.c.Threshold, 'f', -1, 64) + "\n")
		if e.toler {
			b.WriteString("    tolerance: " + strconv.FormatInt(e.c.Tolerance, 10) + "\n")
		}
		b.WriteString("    unstable: " + strconv.FormatBool(e.c.Unstable || on[e.key]) + "\n")
	}

	b.WriteString(`
# ============================================================================
# INPUT
# ============================================================================
input:
  # Fact documents to read (glob patterns matched against file names)
  include_patterns: ["*.json", "*.yaml", "*.yml"]
  # Files and directories to skip
  exclude_patterns: [".git", "node_modules", "mscan.*", ".mscan.*"]
  recursive: true
  # Skip files listed in .gitignore
  respect_gitignore: true
  # Record kinds that must be present, e.g. [code_size, test]; missing ones fail the build
  required_kinds: []
  group_name: all

# ============================================================================
# OUTPUT
# ============================================================================
output:
  # text, json or yaml
  format: text
  show_recipes: false
  color: true

logging:
  # debug, info, warn or error
  level: warn
  # text or json
  format: text

performance:
  # Fact documents decoded in parallel (0 = default)
  max_goroutines: 4
  timeout_seconds: 300
`)
	return b.String()
}

// GetMinimalConfigTemplate returns a minimal config template
func GetMinimalConfigTemplate() string {
	return DefaultConfigYAML
}
