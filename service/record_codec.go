package service

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ludo-technologies/mscan/domain"
	"gopkg.in/yaml.v3"
)

// FactDocument is the on-disk shape of a fact file
type FactDocument struct {
	Recipe  string      `json:"recipe,omitempty" yaml:"recipe,omitempty"`
	Records []RawRecord `json:"records" yaml:"records"`
}

// RawRecord is the union of every record kind's fields
type RawRecord struct {
	Kind   string `json:"kind" yaml:"kind"`
	Recipe string `json:"recipe,omitempty" yaml:"recipe,omitempty"`
	File   string `json:"file,omitempty" yaml:"file,omitempty"`

	Lines        int64 `json:"lines,omitempty" yaml:"lines,omitempty"`
	Functions    int64 `json:"functions,omitempty" yaml:"functions,omitempty"`
	Classes      int64 `json:"classes,omitempty" yaml:"classes,omitempty"`
	CommentLines int64 `json:"comment_lines,omitempty" yaml:"comment_lines,omitempty"`

	Function string `json:"function,omitempty" yaml:"function,omitempty"`
	Start    int64  `json:"start,omitempty" yaml:"start,omitempty"`
	End      int64  `json:"end,omitempty" yaml:"end,omitempty"`
	Value    int64  `json:"value,omitempty" yaml:"value,omitempty"`

	Line        int64  `json:"line,omitempty" yaml:"line,omitempty"`
	Column      int64  `json:"column,omitempty" yaml:"column,omitempty"`
	Index       int64  `json:"index,omitempty" yaml:"index,omitempty"`
	Rule        string `json:"rule,omitempty" yaml:"rule,omitempty"`
	Message     string `json:"message,omitempty" yaml:"message,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Severity    string `json:"severity,omitempty" yaml:"severity,omitempty"`
	Tool        string `json:"tool,omitempty" yaml:"tool,omitempty"`
	Covered     bool   `json:"covered,omitempty" yaml:"covered,omitempty"`

	Class       string `json:"class,omitempty" yaml:"class,omitempty"`
	Method      string `json:"method,omitempty" yaml:"method,omitempty"`
	Mutator     string `json:"mutator,omitempty" yaml:"mutator,omitempty"`
	KillingTest string `json:"killing_test,omitempty" yaml:"killing_test,omitempty"`
	Status      string `json:"status,omitempty" yaml:"status,omitempty"`

	Signature string `json:"signature,omitempty" yaml:"signature,omitempty"`
	Available bool   `json:"available,omitempty" yaml:"available,omitempty"`

	Suite string `json:"suite,omitempty" yaml:"suite,omitempty"`
	Name  string `json:"name,omitempty" yaml:"name,omitempty"`
}

// DecodeFactDocument parses data as JSON or YAML depending on the extension
// of path. An empty document holds no records.
func DecodeFactDocument(path string, data []byte) (*FactDocument, error) {
	var doc FactDocument
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
			return nil, domain.NewParseError(path, err)
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
			return nil, domain.NewParseError(path, err)
		}
	default:
		return nil, domain.NewUnsupportedFormatError(filepath.Ext(path))
	}
	return &doc, nil
}

// ToRecords converts the raw records into domain records. The document
// recipe applies to records that do not name their own.
func (d *FactDocument) ToRecords() ([]domain.Record, error) {
	records := make([]domain.Record, 0, len(d.Records))
	for i, raw := range d.Records {
		if raw.Recipe == "" {
			raw.Recipe = d.Recipe
		}
		r, err := raw.ToRecord()
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		records = append(records, r)
	}
	return records, nil
}

// ToRecord builds the domain record named by Kind
func (r RawRecord) ToRecord() (domain.Record, error) {
	kind, err := domain.ParseKind(r.Kind)
	if err != nil {
		return nil, err
	}

	switch kind {
	case domain.KindCodeSize:
		return domain.NewCodeSizeData(r.Recipe, r.File, r.Lines, r.Functions, r.Classes)
	case domain.KindRecipeSize:
		return domain.NewRecipeSizeData(r.Recipe, r.File, r.Lines)
	case domain.KindComment:
		return domain.NewCommentData(r.Recipe, r.File, r.Lines, r.CommentLines)
	case domain.KindComplexity:
		return domain.NewComplexityData(r.Recipe, r.File, r.Function, r.Start, r.End, r.Value)
	case domain.KindCodeViolation:
		return domain.NewCodeViolationData(r.Recipe, r.File, r.Line, r.Column, r.Rule, r.Message,
			r.Description, domain.Severity(r.Severity), r.Tool)
	case domain.KindRecipeViolation:
		return domain.NewRecipeViolationData(r.Recipe, r.File, r.Line, r.Rule, r.Description,
			domain.Severity(r.Severity))
	case domain.KindStatementCoverage:
		return domain.NewStatementCoverageData(r.Recipe, r.File, r.Line, r.Covered)
	case domain.KindBranchCoverage:
		return domain.NewBranchCoverageData(r.Recipe, r.File, r.Line, r.Index, r.Covered)
	case domain.KindDuplication:
		return domain.NewDuplicationData(r.Recipe, r.File, r.Lines, r.Start, r.End)
	case domain.KindMutationTest:
		return domain.NewMutationTestData(r.Recipe, r.File, r.Class, r.Method, r.Line, r.Mutator,
			r.KillingTest, domain.MutationStatus(r.Status))
	case domain.KindPremirrorCache:
		return domain.NewPremirrorCacheData(r.Recipe, r.Signature, r.Available)
	case domain.KindSharedStateCache:
		return domain.NewSharedStateCacheData(r.Recipe, r.Signature, r.Available)
	default:
		return domain.NewTestData(r.Recipe, r.Suite, r.Name, r.Message, domain.TestStatus(r.Status))
	}
}
