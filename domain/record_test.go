package domain

import (
	"errors"
	"strings"
	"sync"
	"testing"
)

const testRecipe = "busybox-1.36.1-r0"

func errorCode(err error) string {
	var de DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

func must[T Record](r T, err error) T {
	if err != nil {
		panic(err)
	}
	return r
}

func TestValidateRecipeName(t *testing.T) {
	tests := []struct {
		name  string
		valid bool
	}{
		{"busybox-1.36.1-r0", true},
		{"linux-yocto-6.1.38+gitAUTOINC-r0", true},
		{"gcc-cross-x86_64-13.2.0-r0", true},
		{"busybox-1.36.1", false},
		{"busybox", false},
		{"", false},
		{"-1.0-r0", false},
		{"busy box-1.0-r0", false},
		{"meta/busybox-1.0-r0", false},
		{"busybox-1.0-r0-", false},
	}

	for _, tt := range tests {
		err := ValidateRecipeName(tt.name)
		if (err == nil) != tt.valid {
			t.Errorf("ValidateRecipeName(%q) = %v, expected valid=%v", tt.name, err, tt.valid)
		}
		if err != nil && errorCode(err) != ErrCodeInvalidRecipe {
			t.Errorf("Expected INVALID_RECIPE for %q, got %v", tt.name, err)
		}
	}
}

func TestRecordConstructors_Validation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
	}{
		{"bad recipe", func() error { _, err := NewCodeSizeData("busybox", "a.c", 1, 1, 1); return err }(), ErrCodeInvalidRecipe},
		{"negative lines", func() error { _, err := NewCodeSizeData(testRecipe, "a.c", -1, 0, 0); return err }(), ErrCodeInvalidInput},
		{"negative comment lines", func() error { _, err := NewCommentData(testRecipe, "a.c", 10, -2); return err }(), ErrCodeInvalidInput},
		{"negative complexity", func() error { _, err := NewComplexityData(testRecipe, "a.c", "main", 1, 9, -3); return err }(), ErrCodeInvalidInput},
		{"unknown severity", func() error {
			_, err := NewCodeViolationData(testRecipe, "a.c", 1, 1, "r", "m", "d", "blocker", "cppcheck")
			return err
		}(), ErrCodeInvalidInput},
		{"unknown recipe severity", func() error {
			_, err := NewRecipeViolationData(testRecipe, "busybox.bb", 1, "r", "d", "")
			return err
		}(), ErrCodeInvalidInput},
		{"duplication end before start", func() error { _, err := NewDuplicationData(testRecipe, "a.c", 100, 20, 10); return err }(), ErrCodeInvalidInput},
		{"unknown mutation status", func() error {
			_, err := NewMutationTestData(testRecipe, "a.c", "C", "m", 1, "NEGATE", "", "timeout")
			return err
		}(), ErrCodeInvalidInput},
		{"unknown test status", func() error { _, err := NewTestData(testRecipe, "s", "n", "", "flaky"); return err }(), ErrCodeInvalidInput},
		{"bad cache recipe", func() error { _, err := NewPremirrorCacheData("zlib", "sig", true); return err }(), ErrCodeInvalidRecipe},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err == nil {
				t.Fatal("Expected error")
			}
			if got := errorCode(tt.err); got != tt.code {
				t.Errorf("Expected code %s, got %s (%v)", tt.code, got, tt.err)
			}
		})
	}
}

func TestRecord_Accessors(t *testing.T) {
	dup := must(NewDuplicationData(testRecipe, "src/a.c", 200, 10, 35))
	if dup.Kind() != KindDuplication || dup.RecipeName() != testRecipe || dup.FilePath() != "src/a.c" {
		t.Errorf("Unexpected accessors: %s %s %s", dup.Kind(), dup.RecipeName(), dup.FilePath())
	}
	if dup.DuplicatedLines() != 25 {
		t.Errorf("Expected 25 duplicated lines, got %d", dup.DuplicatedLines())
	}

	premirror := must(NewPremirrorCacheData(testRecipe, "sig", true))
	shared := must(NewSharedStateCacheData(testRecipe, "sig", true))
	if premirror.Kind() != KindPremirrorCache || shared.Kind() != KindSharedStateCache {
		t.Error("Cache records should keep their kind")
	}
	if premirror.Key() == shared.Key() {
		t.Error("Cache kinds must not share keys")
	}
	if premirror.FilePath() != "" {
		t.Error("Cache records are recipe level")
	}

	other := must(NewPremirrorCacheData("zlib-1.3-r0", "sig", false))
	if premirror.Key() != other.Key() {
		t.Error("A cache signature should be one entry across recipes")
	}
}

func TestRecordConstructors_FirstNegativeFieldReported(t *testing.T) {
	for i := 0; i < 20; i++ {
		_, err := NewCodeSizeData(testRecipe, "a.c", -1, -2, -3)
		if err == nil || !strings.Contains(err.Error(), "code_size: lines must be >= 0, got -1") {
			t.Fatalf("Expected the lines field to be reported, got %v", err)
		}
	}

	_, err := NewDuplicationData(testRecipe, "a.c", 10, -4, -2)
	if err == nil || !strings.Contains(err.Error(), "start must be >= 0, got -4") {
		t.Errorf("Expected the start field to be reported, got %v", err)
	}
}

func TestRecord_Keys(t *testing.T) {
	a := must(NewComplexityData(testRecipe, "a.c", "main", 1, 20, 4))
	b := must(NewComplexityData(testRecipe, "a.c", "main", 1, 20, 9))
	c := must(NewComplexityData(testRecipe, "a.c", "main", 30, 40, 4))

	if a.Key() != b.Key() {
		t.Error("Records differing only in value should share a key")
	}
	if a.Key() == c.Key() {
		t.Error("Records at different ranges should not share a key")
	}

	s1 := must(NewStatementCoverageData(testRecipe, "a.c", 3, true))
	s2 := must(NewStatementCoverageData(testRecipe, "b.c", 3, true))
	if s1.Key() == s2.Key() {
		t.Error("Records of different files should not share a key")
	}
}

func newTestRecipe(t *testing.T, name string, records ...Record) *Recipe {
	t.Helper()
	r, err := NewRecipe(name)
	if err != nil {
		t.Fatalf("NewRecipe failed: %v", err)
	}
	r.AddAll(records...)
	return r
}

func TestRecipe_Query(t *testing.T) {
	size := must(NewCodeSizeData(testRecipe, "a.c", 100, 3, 0))
	c1 := must(NewCommentData(testRecipe, "a.c", 100, 10))
	c2 := must(NewCommentData(testRecipe, "b.c", 50, 5))
	test := must(NewTestData(testRecipe, "suite", "case", "", TestPassed))

	r := newTestRecipe(t, testRecipe, c1, size, c2, test)

	if r.Size() != 4 {
		t.Errorf("Expected 4 records, got %d", r.Size())
	}
	if !r.Contains(KindComment) || r.Contains(KindComplexity) {
		t.Error("Contains does not match stored kinds")
	}

	comments := r.Query(KindComment)
	if len(comments) != 2 || comments[0] != Record(c1) || comments[1] != Record(c2) {
		t.Errorf("Query should keep insertion order, got %v", comments)
	}
	comments[0] = size
	if r.Query(KindComment)[0] != Record(c1) {
		t.Error("Query must return a copy")
	}
	if got := r.Query(KindDuplication); len(got) != 0 {
		t.Errorf("Expected no duplication records, got %d", len(got))
	}

	typed := Select[CommentData](r, KindComment)
	if len(typed) != 2 || typed[1].CommentLines != 5 {
		t.Errorf("Select returned %v", typed)
	}

	files := r.Files()
	if len(files) != 2 || files[0] != "a.c" || files[1] != "b.c" {
		t.Errorf("Expected [a.c b.c], got %v", files)
	}

	view := r.FileView("a.c")
	if view.Name() != testRecipe || view.Size() != 2 || view.Contains(KindTest) {
		t.Errorf("Unexpected file view: size %d", view.Size())
	}
}

func TestNewRecipe_InvalidName(t *testing.T) {
	if _, err := NewRecipe("not a recipe"); errorCode(err) != ErrCodeInvalidRecipe {
		t.Errorf("Expected INVALID_RECIPE, got %v", err)
	}
}

func TestRecipe_ConcurrentAdd(t *testing.T) {
	r := newTestRecipe(t, testRecipe)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for line := 0; line < 25; line++ {
				rec, err := NewStatementCoverageData(testRecipe, "a.c", int64(worker*100+line), line%2 == 0)
				if err != nil {
					t.Errorf("NewStatementCoverageData failed: %v", err)
					return
				}
				r.Add(rec)
			}
		}(i)
	}
	wg.Wait()

	if r.Size() != 200 || len(r.Query(KindStatementCoverage)) != 200 {
		t.Errorf("Expected 200 records, got %d", r.Size())
	}
}

func TestRecipeGroup(t *testing.T) {
	zlib := "zlib-1.3-r0"
	busybox := newTestRecipe(t, testRecipe,
		must(NewCodeSizeData(testRecipe, "a.c", 100, 3, 0)),
		must(NewCommentData(testRecipe, "a.c", 100, 10)))
	zl := newTestRecipe(t, zlib,
		must(NewCommentData(zlib, "inflate.c", 300, 30)),
		must(NewTestData(zlib, "suite", "case", "", TestFailed)))

	group := NewRecipeGroup("core-image", busybox)
	group.Add(zl)

	if group.Name() != "core-image" || group.Len() != 2 || group.Size() != 4 {
		t.Errorf("Unexpected group: %s len %d size %d", group.Name(), group.Len(), group.Size())
	}
	if !group.Contains(KindTest) || !group.Contains(KindCodeSize) || group.Contains(KindDuplication) {
		t.Error("Group Contains should be the union of members")
	}

	comments := Select[CommentData](group, KindComment)
	if len(comments) != 2 || comments[0].Recipe != testRecipe || comments[1].Recipe != zlib {
		t.Errorf("Group query should follow member order, got %v", comments)
	}

	if got := group.Query(KindMutationTest); got == nil || len(got) != 0 {
		t.Errorf("Expected an empty non-nil slice, got %v", got)
	}

	if r, ok := group.Recipe(zlib); !ok || r != zl {
		t.Error("Recipe lookup failed")
	}
	if _, ok := group.Recipe("openssl-3.1-r0"); ok {
		t.Error("Unknown recipe should not be found")
	}

	members := group.Recipes()
	members[0] = nil
	if group.Recipes()[0] != busybox {
		t.Error("Recipes must return a copy")
	}
}
