package metrics

import "github.com/ludo-technologies/mscan/domain"

// Counting helpers shared by the evaluators. Each returns raw counts; the
// evaluator decides numerator, denominator and availability.

// distinct returns the records of kind with one record per identity key.
// The first record seen for a key wins, so facts merged from several
// ingestion passes are counted once.
func distinct[T domain.Record](c domain.Collection, kind domain.Kind) []T {
	records := domain.Select[T](c, kind)
	seen := make(map[domain.RecordKey]struct{}, len(records))
	out := records[:0]
	for _, r := range records {
		key := r.Key()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, r)
	}
	return out
}

func sumCodeSizeLines(c domain.Collection) int64 {
	var total int64
	for _, d := range distinct[domain.CodeSizeData](c, domain.KindCodeSize) {
		total += d.Lines
	}
	return total
}

func sumRecipeSizeLines(c domain.Collection) int64 {
	var total int64
	for _, d := range distinct[domain.RecipeSizeData](c, domain.KindRecipeSize) {
		total += d.Lines
	}
	return total
}

func countCache(c domain.Collection, kind domain.Kind) (hits, misses int64) {
	for _, d := range distinct[domain.CacheData](c, kind) {
		if d.Available {
			hits++
		} else {
			misses++
		}
	}
	return hits, misses
}

func countCodeViolations(c domain.Collection) (major, minor, info int64) {
	for _, d := range distinct[domain.CodeViolationData](c, domain.KindCodeViolation) {
		switch d.Severity {
		case domain.SeverityMajor:
			major++
		case domain.SeverityMinor:
			minor++
		default:
			info++
		}
	}
	return major, minor, info
}

func countRecipeViolations(c domain.Collection) (major, minor, info int64) {
	for _, d := range distinct[domain.RecipeViolationData](c, domain.KindRecipeViolation) {
		switch d.Severity {
		case domain.SeverityMajor:
			major++
		case domain.SeverityMinor:
			minor++
		default:
			info++
		}
	}
	return major, minor, info
}

func countComments(c domain.Collection) (commentLines, lines int64) {
	for _, d := range distinct[domain.CommentData](c, domain.KindComment) {
		commentLines += d.CommentLines
		lines += d.Lines
	}
	return commentLines, lines
}

func countComplexity(c domain.Collection, tolerance int64) (abnormal, normal int64) {
	for _, d := range distinct[domain.ComplexityData](c, domain.KindComplexity) {
		if d.Value >= tolerance {
			abnormal++
		} else {
			normal++
		}
	}
	return abnormal, normal
}

func countTests(c domain.Collection) (passed, failed, errored, skipped int64) {
	for _, d := range distinct[domain.TestData](c, domain.KindTest) {
		switch d.Status {
		case domain.TestPassed:
			passed++
		case domain.TestFailed:
			failed++
		case domain.TestError:
			errored++
		default:
			skipped++
		}
	}
	return passed, failed, errored, skipped
}

func countMutations(c domain.Collection) (killed, survived, skipped int64) {
	for _, d := range distinct[domain.MutationTestData](c, domain.KindMutationTest) {
		switch d.Status {
		case domain.MutationKilled:
			killed++
		case domain.MutationSurvived:
			survived++
		default:
			skipped++
		}
	}
	return killed, survived, skipped
}

// countCoverage deduplicates coverage records by key. A key is covered when
// any of its records is covered.
func countCoverage(c domain.Collection, kind domain.Kind) (covered, uncovered int64) {
	state := make(map[domain.RecordKey]bool)
	for _, r := range c.Query(kind) {
		var isCovered bool
		switch d := r.(type) {
		case domain.StatementCoverageData:
			isCovered = d.Covered
		case domain.BranchCoverageData:
			isCovered = d.Covered
		default:
			continue
		}
		key := r.Key()
		state[key] = state[key] || isCovered
	}
	for _, hit := range state {
		if hit {
			covered++
		} else {
			uncovered++
		}
	}
	return covered, uncovered
}
