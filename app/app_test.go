package app

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/ludo-technologies/mscan/domain"
)

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("Failed to create directory: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("Failed to create test file: %v", err)
		}
	}
}

func relative(t *testing.T, root string, files []string) []string {
	t.Helper()
	out := make([]string, 0, len(files))
	for _, f := range files {
		rel, err := filepath.Rel(root, f)
		if err != nil {
			t.Fatalf("Rel failed: %v", err)
		}
		out = append(out, filepath.ToSlash(rel))
	}
	sort.Strings(out)
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestFileHelperCollectFactFiles(t *testing.T) {
	tempDir := t.TempDir()
	writeFiles(t, tempDir, map[string]string{
		"size.json":                 "{}",
		"tests.yaml":                "",
		"coverage.yml":              "",
		"notes.txt":                 "",
		"mscan.yaml":                "",
		"nested/mutation.json":      "{}",
		"node_modules/pkg/x.json":   "{}",
		"build/tmp/generated.json":  "{}",
		"build/tmp/.gitignore":      "",
		"ignored/stale.json":        "{}",
		".gitignore":                "ignored/\n*.bak.json\n",
		"nested/report.bak.json":    "{}",
		"nested/deeper/branch.yaml": "",
	})

	tests := []struct {
		name     string
		req      domain.LoadRequest
		expected []string
	}{
		{
			name: "recursive with gitignore",
			req: domain.LoadRequest{
				Recursive:        true,
				IncludePatterns:  []string{"*.json", "*.yaml", "*.yml"},
				ExcludePatterns:  []string{"node_modules", "mscan.*"},
				RespectGitignore: true,
			},
			expected: []string{
				"build/tmp/generated.json", "coverage.yml", "nested/deeper/branch.yaml",
				"nested/mutation.json", "size.json", "tests.yaml",
			},
		},
		{
			name: "without gitignore",
			req: domain.LoadRequest{
				Recursive:       true,
				IncludePatterns: []string{"*.json"},
				ExcludePatterns: []string{"node_modules", "build"},
			},
			expected: []string{"ignored/stale.json", "nested/mutation.json", "nested/report.bak.json", "size.json"},
		},
		{
			name: "top level only",
			req: domain.LoadRequest{
				IncludePatterns: []string{"*.json", "*.yaml", "*.yml"},
				ExcludePatterns: []string{"mscan.*"},
			},
			expected: []string{"coverage.yml", "size.json", "tests.yaml"},
		},
	}

	helper := NewFileHelper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.req.Paths = []string{tempDir}
			files, err := helper.CollectFactFiles(tt.req)
			if err != nil {
				t.Fatalf("CollectFactFiles failed: %v", err)
			}
			got := relative(t, tempDir, files)
			if !equalStrings(got, tt.expected) {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestFileHelperCollectFactFiles_ExplicitFiles(t *testing.T) {
	tempDir := t.TempDir()
	writeFiles(t, tempDir, map[string]string{"a.json": "{}", "b.txt": ""})
	a := filepath.Join(tempDir, "a.json")

	helper := NewFileHelper()
	files, err := helper.CollectFactFiles(domain.LoadRequest{
		Paths:           []string{a, filepath.Join(tempDir, "b.txt"), a},
		IncludePatterns: []string{"*.yaml"},
	})
	if err != nil {
		t.Fatalf("CollectFactFiles failed: %v", err)
	}
	if len(files) != 1 || files[0] != a {
		t.Errorf("Expected only %s once, got %v", a, files)
	}

	_, err = helper.CollectFactFiles(domain.LoadRequest{Paths: []string{filepath.Join(tempDir, "missing.json")}})
	if err == nil {
		t.Error("Expected error for missing path")
	}
}

func TestFileHelperIsFactFile(t *testing.T) {
	helper := NewFileHelper()

	tests := []struct {
		path     string
		expected bool
	}{
		{"facts.json", true},
		{"facts.yaml", true},
		{"facts.yml", true},
		{"FACTS.JSON", true},
		{"facts.xml", false},
		{"facts.txt", false},
		{"facts", false},
	}

	for _, tt := range tests {
		result := helper.IsFactFile(tt.path)
		if result != tt.expected {
			t.Errorf("IsFactFile(%s) = %v, expected %v", tt.path, result, tt.expected)
		}
	}
}

func TestFileHelperFileExists(t *testing.T) {
	helper := NewFileHelper()

	tempFile, err := os.CreateTemp("", "facts*.json")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	tempFile.Close()
	defer os.Remove(tempFile.Name())

	exists, err := helper.FileExists(tempFile.Name())
	if err != nil {
		t.Fatalf("FileExists failed: %v", err)
	}
	if !exists {
		t.Error("FileExists should return true for existing file")
	}

	exists, err = helper.FileExists("/nonexistent/facts.json")
	if err != nil {
		t.Fatalf("FileExists failed: %v", err)
	}
	if exists {
		t.Error("FileExists should return false for nonexistent file")
	}

	exists, _ = helper.FileExists(os.TempDir())
	if exists {
		t.Error("FileExists should return false for directories")
	}
}
