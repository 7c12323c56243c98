package app

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ludo-technologies/mscan/domain"
	"github.com/ludo-technologies/mscan/internal/constants"
	ignore "github.com/sabhiram/go-gitignore"
)

// FileHelper provides file operation utilities
type FileHelper struct{}

// NewFileHelper creates a new FileHelper
func NewFileHelper() *FileHelper {
	return &FileHelper{}
}

// gitignoreSet holds the .gitignore matchers found while walking, keyed by
// the directory that contains them
type gitignoreSet map[string]*ignore.GitIgnore

func (s gitignoreSet) load(dir string) {
	if _, ok := s[dir]; ok {
		return
	}
	gi, err := ignore.CompileIgnoreFile(filepath.Join(dir, ".gitignore"))
	if err != nil {
		gi = nil
	}
	s[dir] = gi
}

// ignored reports whether any .gitignore between root and path matches it
func (s gitignoreSet) ignored(root, path string, isDir bool) bool {
	for dir := filepath.Dir(path); ; dir = filepath.Dir(dir) {
		if gi := s[dir]; gi != nil {
			rel, err := filepath.Rel(dir, path)
			if err == nil {
				rel = filepath.ToSlash(rel)
				if gi.MatchesPath(rel) || (isDir && gi.MatchesPath(rel+"/")) {
					return true
				}
			}
		}
		if dir == root || dir == filepath.Dir(dir) {
			return false
		}
	}
}

// CollectFactFiles collects fact documents from paths. Explicit files are
// kept when they have a fact extension; directories are searched for files
// matching includePatterns.
func (h *FileHelper) CollectFactFiles(req domain.LoadRequest) ([]string, error) {
	var files []string
	seen := make(map[string]bool)
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			files = append(files, p)
		}
	}

	for _, path := range req.Paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, domain.NewFileNotFoundError(path, err)
		}

		if !info.IsDir() {
			if h.IsFactFile(path) && !h.isExcluded(path, req.ExcludePatterns) {
				add(path)
			}
			continue
		}

		root := filepath.Clean(path)
		ignores := gitignoreSet{}
		err = filepath.WalkDir(root, func(filePath string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			if d.IsDir() {
				if filePath != root {
					if !req.Recursive || h.isExcluded(filePath, req.ExcludePatterns) {
						return filepath.SkipDir
					}
					if req.RespectGitignore && ignores.ignored(root, filePath, true) {
						return filepath.SkipDir
					}
				}
				if req.RespectGitignore {
					ignores.load(filePath)
				}
				return nil
			}

			if !h.IsFactFile(filePath) || !h.isIncluded(filePath, req.IncludePatterns) {
				return nil
			}
			if h.isExcluded(filePath, req.ExcludePatterns) {
				return nil
			}
			if req.RespectGitignore && ignores.ignored(root, filePath, false) {
				return nil
			}
			add(filePath)
			return nil
		})
		if err != nil {
			return nil, domain.NewInvalidInputError("failed to walk "+path, err)
		}
	}

	return files, nil
}

// IsFactFile checks if a file has a fact document extension
func (h *FileHelper) IsFactFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case constants.ExtensionJSON, constants.ExtensionYAML, constants.ExtensionYML:
		return true
	}
	return false
}

// FileExists checks if a file exists
func (h *FileHelper) FileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return !info.IsDir(), nil
}

func (h *FileHelper) isIncluded(path string, includePatterns []string) bool {
	if len(includePatterns) == 0 {
		return true
	}
	base := filepath.Base(path)
	for _, pattern := range includePatterns {
		if matched, _ := filepath.Match(pattern, base); matched {
			return true
		}
	}
	return false
}

// isExcluded checks whether any path component matches an exclude pattern
func (h *FileHelper) isExcluded(path string, excludePatterns []string) bool {
	if len(excludePatterns) == 0 {
		return false
	}
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		for _, pattern := range excludePatterns {
			if matched, _ := filepath.Match(pattern, part); matched {
				return true
			}
		}
	}
	return false
}
