package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// Kind identifies the concrete type of a fact record
type Kind string

const (
	KindCodeSize          Kind = "code_size"
	KindRecipeSize        Kind = "recipe_size"
	KindComment           Kind = "comment"
	KindComplexity        Kind = "complexity"
	KindCodeViolation     Kind = "code_violation"
	KindRecipeViolation   Kind = "recipe_violation"
	KindStatementCoverage Kind = "statement_coverage"
	KindBranchCoverage    Kind = "branch_coverage"
	KindDuplication       Kind = "duplication"
	KindMutationTest      Kind = "mutation_test"
	KindPremirrorCache    Kind = "premirror_cache"
	KindSharedStateCache  Kind = "shared_state_cache"
	KindTest              Kind = "test"
)

// AllKinds returns every known record kind in a stable order
func AllKinds() []Kind {
	return []Kind{
		KindCodeSize,
		KindRecipeSize,
		KindComment,
		KindComplexity,
		KindCodeViolation,
		KindRecipeViolation,
		KindStatementCoverage,
		KindBranchCoverage,
		KindDuplication,
		KindMutationTest,
		KindPremirrorCache,
		KindSharedStateCache,
		KindTest,
	}
}

// ParseKind converts a wire name into a Kind
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range AllKinds() {
		if k == known {
			return k, nil
		}
	}
	return "", NewInvalidInputError(fmt.Sprintf("unknown record kind: %q", s), nil)
}

// Severity of a code or recipe violation
type Severity string

const (
	SeverityMajor Severity = "major"
	SeverityMinor Severity = "minor"
	SeverityInfo  Severity = "info"
)

// TestStatus is the outcome of a unit test
type TestStatus string

const (
	TestPassed  TestStatus = "passed"
	TestFailed  TestStatus = "failed"
	TestError   TestStatus = "error"
	TestSkipped TestStatus = "skipped"
)

// MutationStatus is the outcome of a single mutant
type MutationStatus string

const (
	MutationKilled   MutationStatus = "killed"
	MutationSurvived MutationStatus = "survived"
	MutationSkipped  MutationStatus = "skipped"
)

// recipePattern matches name-version-revision; the name part may contain dashes.
var recipePattern = regexp.MustCompile(`^[^-\s/]+(?:-[^-\s/]+)*-[^-\s/]+-[^-\s/]+$`)

// ValidateRecipeName checks that name has the name-version-revision shape
func ValidateRecipeName(name string) error {
	if !recipePattern.MatchString(name) {
		return NewInvalidRecipeError(name)
	}
	return nil
}

// RecordKey identifies a record for deduplication. It is narrower than full
// attribute equality.
type RecordKey struct {
	Kind   Kind
	Recipe string
	File   string
	Detail string
}

// Record is one immutable observation tied to a recipe
type Record interface {
	Kind() Kind
	RecipeName() string
	FilePath() string
	Key() RecordKey
}

// Origin holds the attributes every record shares
type Origin struct {
	Recipe string `json:"recipe" yaml:"recipe"`
	File   string `json:"file,omitempty" yaml:"file,omitempty"`
}

// RecipeName returns the owning recipe
func (o Origin) RecipeName() string { return o.Recipe }

// FilePath returns the file the record refers to, or "" for recipe-level facts
func (o Origin) FilePath() string { return o.File }

func (o Origin) key(kind Kind, detail ...any) RecordKey {
	parts := make([]string, len(detail))
	for i, d := range detail {
		parts[i] = fmt.Sprint(d)
	}
	return RecordKey{Kind: kind, Recipe: o.Recipe, File: o.File, Detail: strings.Join(parts, "\x1f")}
}

func newOrigin(recipe, file string) (Origin, error) {
	if err := ValidateRecipeName(recipe); err != nil {
		return Origin{}, err
	}
	return Origin{Recipe: recipe, File: file}, nil
}

// field is a named attribute checked by requireNonNegative
type field struct {
	name  string
	value int64
}

// requireNonNegative reports the first negative field in argument order
func requireNonNegative(kind Kind, fields ...field) error {
	for _, f := range fields {
		if f.value < 0 {
			return NewInvalidInputError(fmt.Sprintf("%s: %s must be >= 0, got %d", kind, f.name, f.value), nil)
		}
	}
	return nil
}

// CodeSizeData is the measured size of one source file
type CodeSizeData struct {
	Origin    `yaml:",inline"`
	Lines     int64 `json:"lines" yaml:"lines"`
	Functions int64 `json:"functions" yaml:"functions"`
	Classes   int64 `json:"classes" yaml:"classes"`
}

// NewCodeSizeData creates a code size record
func NewCodeSizeData(recipe, file string, lines, functions, classes int64) (CodeSizeData, error) {
	o, err := newOrigin(recipe, file)
	if err != nil {
		return CodeSizeData{}, err
	}
	if err := requireNonNegative(KindCodeSize, field{"lines", lines}, field{"functions", functions}, field{"classes", classes}); err != nil {
		return CodeSizeData{}, err
	}
	return CodeSizeData{Origin: o, Lines: lines, Functions: functions, Classes: classes}, nil
}

func (d CodeSizeData) Kind() Kind     { return KindCodeSize }
func (d CodeSizeData) Key() RecordKey { return d.key(KindCodeSize) }

// RecipeSizeData is the size of one recipe metadata file
type RecipeSizeData struct {
	Origin `yaml:",inline"`
	Lines  int64 `json:"lines" yaml:"lines"`
}

// NewRecipeSizeData creates a recipe size record
func NewRecipeSizeData(recipe, file string, lines int64) (RecipeSizeData, error) {
	o, err := newOrigin(recipe, file)
	if err != nil {
		return RecipeSizeData{}, err
	}
	if err := requireNonNegative(KindRecipeSize, field{"lines", lines}); err != nil {
		return RecipeSizeData{}, err
	}
	return RecipeSizeData{Origin: o, Lines: lines}, nil
}

func (d RecipeSizeData) Kind() Kind     { return KindRecipeSize }
func (d RecipeSizeData) Key() RecordKey { return d.key(KindRecipeSize) }

// CommentData counts comment lines in a file
type CommentData struct {
	Origin       `yaml:",inline"`
	Lines        int64 `json:"lines" yaml:"lines"`
	CommentLines int64 `json:"comment_lines" yaml:"comment_lines"`
}

// NewCommentData creates a comment record
func NewCommentData(recipe, file string, lines, commentLines int64) (CommentData, error) {
	o, err := newOrigin(recipe, file)
	if err != nil {
		return CommentData{}, err
	}
	if err := requireNonNegative(KindComment, field{"lines", lines}, field{"comment_lines", commentLines}); err != nil {
		return CommentData{}, err
	}
	return CommentData{Origin: o, Lines: lines, CommentLines: commentLines}, nil
}

func (d CommentData) Kind() Kind     { return KindComment }
func (d CommentData) Key() RecordKey { return d.key(KindComment) }

// ComplexityData is the cyclomatic complexity of one function
type ComplexityData struct {
	Origin   `yaml:",inline"`
	Function string `json:"function" yaml:"function"`
	Start    int64  `json:"start" yaml:"start"`
	End      int64  `json:"end" yaml:"end"`
	Value    int64  `json:"value" yaml:"value"`
}

// NewComplexityData creates a complexity record
func NewComplexityData(recipe, file, function string, start, end, value int64) (ComplexityData, error) {
	o, err := newOrigin(recipe, file)
	if err != nil {
		return ComplexityData{}, err
	}
	if err := requireNonNegative(KindComplexity, field{"start", start}, field{"end", end}, field{"value", value}); err != nil {
		return ComplexityData{}, err
	}
	return ComplexityData{Origin: o, Function: function, Start: start, End: end, Value: value}, nil
}

func (d ComplexityData) Kind() Kind { return KindComplexity }
func (d ComplexityData) Key() RecordKey {
	return d.key(KindComplexity, d.Function, d.Start, d.End)
}

// CodeViolationData is one static analysis finding in source code
type CodeViolationData struct {
	Origin      `yaml:",inline"`
	Line        int64    `json:"line" yaml:"line"`
	Column      int64    `json:"column" yaml:"column"`
	Rule        string   `json:"rule" yaml:"rule"`
	Message     string   `json:"message" yaml:"message"`
	Description string   `json:"description" yaml:"description"`
	Severity    Severity `json:"severity" yaml:"severity"`
	Tool        string   `json:"tool" yaml:"tool"`
}

// NewCodeViolationData creates a code violation record
func NewCodeViolationData(recipe, file string, line, column int64, rule, message, description string,
	severity Severity, tool string) (CodeViolationData, error) {
	o, err := newOrigin(recipe, file)
	if err != nil {
		return CodeViolationData{}, err
	}
	if err := validateSeverity(KindCodeViolation, severity); err != nil {
		return CodeViolationData{}, err
	}
	return CodeViolationData{
		Origin:      o,
		Line:        line,
		Column:      column,
		Rule:        rule,
		Message:     message,
		Description: description,
		Severity:    severity,
		Tool:        tool,
	}, nil
}

func (d CodeViolationData) Kind() Kind { return KindCodeViolation }
func (d CodeViolationData) Key() RecordKey {
	return d.key(KindCodeViolation, d.Line, d.Column, d.Rule, d.Tool)
}

// RecipeViolationData is one finding in recipe metadata
type RecipeViolationData struct {
	Origin      `yaml:",inline"`
	Line        int64    `json:"line" yaml:"line"`
	Rule        string   `json:"rule" yaml:"rule"`
	Description string   `json:"description" yaml:"description"`
	Severity    Severity `json:"severity" yaml:"severity"`
}

// NewRecipeViolationData creates a recipe violation record
func NewRecipeViolationData(recipe, file string, line int64, rule, description string,
	severity Severity) (RecipeViolationData, error) {
	o, err := newOrigin(recipe, file)
	if err != nil {
		return RecipeViolationData{}, err
	}
	if err := validateSeverity(KindRecipeViolation, severity); err != nil {
		return RecipeViolationData{}, err
	}
	return RecipeViolationData{Origin: o, Line: line, Rule: rule, Description: description, Severity: severity}, nil
}

func (d RecipeViolationData) Kind() Kind { return KindRecipeViolation }
func (d RecipeViolationData) Key() RecordKey {
	return d.key(KindRecipeViolation, d.Line, d.Rule)
}

func validateSeverity(kind Kind, s Severity) error {
	switch s {
	case SeverityMajor, SeverityMinor, SeverityInfo:
		return nil
	}
	return NewInvalidInputError(fmt.Sprintf("%s: unknown severity %q", kind, s), nil)
}

// StatementCoverageData records whether one line was executed by tests
type StatementCoverageData struct {
	Origin  `yaml:",inline"`
	Line    int64 `json:"line" yaml:"line"`
	Covered bool  `json:"covered" yaml:"covered"`
}

// NewStatementCoverageData creates a statement coverage record
func NewStatementCoverageData(recipe, file string, line int64, covered bool) (StatementCoverageData, error) {
	o, err := newOrigin(recipe, file)
	if err != nil {
		return StatementCoverageData{}, err
	}
	return StatementCoverageData{Origin: o, Line: line, Covered: covered}, nil
}

func (d StatementCoverageData) Kind() Kind     { return KindStatementCoverage }
func (d StatementCoverageData) Key() RecordKey { return d.key(KindStatementCoverage, d.Line) }

// BranchCoverageData records whether one branch of a line was taken
type BranchCoverageData struct {
	Origin  `yaml:",inline"`
	Line    int64 `json:"line" yaml:"line"`
	Index   int64 `json:"index" yaml:"index"`
	Covered bool  `json:"covered" yaml:"covered"`
}

// NewBranchCoverageData creates a branch coverage record
func NewBranchCoverageData(recipe, file string, line, index int64, covered bool) (BranchCoverageData, error) {
	o, err := newOrigin(recipe, file)
	if err != nil {
		return BranchCoverageData{}, err
	}
	return BranchCoverageData{Origin: o, Line: line, Index: index, Covered: covered}, nil
}

func (d BranchCoverageData) Kind() Kind     { return KindBranchCoverage }
func (d BranchCoverageData) Key() RecordKey { return d.key(KindBranchCoverage, d.Line, d.Index) }

// DuplicationData is one duplicated block [Start, End) of a file with Lines lines
type DuplicationData struct {
	Origin `yaml:",inline"`
	Lines  int64 `json:"lines" yaml:"lines"`
	Start  int64 `json:"start" yaml:"start"`
	End    int64 `json:"end" yaml:"end"`
}

// NewDuplicationData creates a duplication record
func NewDuplicationData(recipe, file string, lines, start, end int64) (DuplicationData, error) {
	o, err := newOrigin(recipe, file)
	if err != nil {
		return DuplicationData{}, err
	}
	if err := requireNonNegative(KindDuplication, field{"lines", lines}, field{"start", start}, field{"end", end}); err != nil {
		return DuplicationData{}, err
	}
	if end < start {
		return DuplicationData{}, NewInvalidInputError(
			fmt.Sprintf("%s: end (%d) must be >= start (%d)", KindDuplication, end, start), nil)
	}
	return DuplicationData{Origin: o, Lines: lines, Start: start, End: end}, nil
}

func (d DuplicationData) Kind() Kind     { return KindDuplication }
func (d DuplicationData) Key() RecordKey { return d.key(KindDuplication, d.Start, d.End) }

// DuplicatedLines returns the length of the duplicated block
func (d DuplicationData) DuplicatedLines() int64 { return d.End - d.Start }

// MutationTestData is the outcome of one mutant
type MutationTestData struct {
	Origin      `yaml:",inline"`
	Class       string         `json:"class" yaml:"class"`
	Method      string         `json:"method" yaml:"method"`
	Line        int64          `json:"line" yaml:"line"`
	Mutator     string         `json:"mutator" yaml:"mutator"`
	KillingTest string         `json:"killing_test,omitempty" yaml:"killing_test,omitempty"`
	Status      MutationStatus `json:"status" yaml:"status"`
}

// NewMutationTestData creates a mutation test record
func NewMutationTestData(recipe, file, class, method string, line int64, mutator, killingTest string,
	status MutationStatus) (MutationTestData, error) {
	o, err := newOrigin(recipe, file)
	if err != nil {
		return MutationTestData{}, err
	}
	switch status {
	case MutationKilled, MutationSurvived, MutationSkipped:
	default:
		return MutationTestData{}, NewInvalidInputError(
			fmt.Sprintf("%s: unknown status %q", KindMutationTest, status), nil)
	}
	return MutationTestData{
		Origin:      o,
		Class:       class,
		Method:      method,
		Line:        line,
		Mutator:     mutator,
		KillingTest: killingTest,
		Status:      status,
	}, nil
}

func (d MutationTestData) Kind() Kind { return KindMutationTest }
func (d MutationTestData) Key() RecordKey {
	return d.key(KindMutationTest, d.Class, d.Method, d.Line, d.Mutator)
}

// CacheData is one build cache lookup. Kind distinguishes premirror from shared state.
type CacheData struct {
	Origin    `yaml:",inline"`
	Signature string `json:"signature" yaml:"signature"`
	Available bool   `json:"available" yaml:"available"`
	kind      Kind
}

// NewPremirrorCacheData creates a premirror cache record
func NewPremirrorCacheData(recipe, signature string, available bool) (CacheData, error) {
	return newCacheData(KindPremirrorCache, recipe, signature, available)
}

// NewSharedStateCacheData creates a shared state cache record
func NewSharedStateCacheData(recipe, signature string, available bool) (CacheData, error) {
	return newCacheData(KindSharedStateCache, recipe, signature, available)
}

func newCacheData(kind Kind, recipe, signature string, available bool) (CacheData, error) {
	o, err := newOrigin(recipe, "")
	if err != nil {
		return CacheData{}, err
	}
	return CacheData{Origin: o, Signature: signature, Available: available, kind: kind}, nil
}

func (d CacheData) Kind() Kind     { return d.kind }
// Key identifies a cache entry by signature alone, so an artifact shared by
// several recipes of a group is one entry
func (d CacheData) Key() RecordKey { return RecordKey{Kind: d.kind, Detail: d.Signature} }

// TestData is the outcome of one unit test
type TestData struct {
	Origin  `yaml:",inline"`
	Suite   string     `json:"suite" yaml:"suite"`
	Name    string     `json:"name" yaml:"name"`
	Message string     `json:"message,omitempty" yaml:"message,omitempty"`
	Status  TestStatus `json:"status" yaml:"status"`
}

// NewTestData creates a unit test record
func NewTestData(recipe, suite, name, message string, status TestStatus) (TestData, error) {
	o, err := newOrigin(recipe, "")
	if err != nil {
		return TestData{}, err
	}
	switch status {
	case TestPassed, TestFailed, TestError, TestSkipped:
	default:
		return TestData{}, NewInvalidInputError(fmt.Sprintf("%s: unknown status %q", KindTest, status), nil)
	}
	return TestData{Origin: o, Suite: suite, Name: name, Message: message, Status: status}, nil
}

func (d TestData) Kind() Kind     { return KindTest }
func (d TestData) Key() RecordKey { return d.key(KindTest, d.Suite, d.Name) }
