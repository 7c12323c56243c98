package service

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ludo-technologies/mscan/domain"
	"gopkg.in/yaml.v3"
)

// BaselineLoaderImpl reads a report previously written with --format json or yaml
type BaselineLoaderImpl struct{}

// NewBaselineLoader creates a new baseline loader
func NewBaselineLoader() *BaselineLoaderImpl {
	return &BaselineLoaderImpl{}
}

// LoadBaseline decodes the report stored at path
func (l *BaselineLoaderImpl) LoadBaseline(path string) (*domain.EvaluationReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.NewFileNotFoundError(path, err)
		}
		return nil, domain.NewInvalidInputError("cannot read baseline "+path, err)
	}

	var report domain.EvaluationReport
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &report)
	default:
		err = json.Unmarshal(data, &report)
	}
	if err != nil {
		return nil, domain.NewParseError(path, err)
	}
	return &report, nil
}
