package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ludo-technologies/mscan/domain"
	"github.com/ludo-technologies/mscan/internal/testutil"
)

func TestGraderPositive(t *testing.T) {
	g := NewGrader(0, 6, domain.PolarityPositive)
	tests := []struct {
		value float64
		want  domain.Grade
	}{
		{-1, domain.GradeWorst},
		{0, domain.GradeWorst},
		{1, domain.GradeWorse},
		{1.5, domain.GradeBad},
		{2, domain.GradeBad},
		{3, domain.GradeOrdinary},
		{4, domain.GradeGood},
		{5, domain.GradeBetter},
		{6, domain.GradeBest},
		{7, domain.GradeBest},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, g.Grade(tt.value), "value %v", tt.value)
	}
}

func TestGraderNegative(t *testing.T) {
	g := NewGrader(0, 6, domain.PolarityNegative)
	tests := []struct {
		value float64
		want  domain.Grade
	}{
		{-1, domain.GradeBest},
		{0, domain.GradeBest},
		{1, domain.GradeBetter},
		{2, domain.GradeGood},
		{3, domain.GradeOrdinary},
		{4, domain.GradeBad},
		{5, domain.GradeWorse},
		{6, domain.GradeWorst},
		{7, domain.GradeWorst},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, g.Grade(tt.value), "value %v", tt.value)
	}
}

func TestGraderZeroWithNonZeroMin(t *testing.T) {
	g := NewGrader(-6, 6, domain.PolarityPositive)
	assert.Equal(t, domain.GradeWorst, g.Grade(0))
	assert.Equal(t, domain.GradeBest, g.Grade(5))
}

func TestGraderSwappedBounds(t *testing.T) {
	g := NewGrader(6, 0, domain.PolarityPositive)
	assert.Equal(t, domain.GradeOrdinary, g.Grade(3))
}

func TestTreemapAggregator(t *testing.T) {
	a := NewTreemapAggregator(newQualityEvaluator(t))

	t.Run("empty group", func(t *testing.T) {
		assert.Empty(t, a.Parse(testutil.NewGroup("all")))
	})

	t.Run("single metric", func(t *testing.T) {
		group := testutil.NewGroup("all",
			testutil.NewRecipe(t, "A-A-A").CodeSize("a.file", 1, 1, 1).PremirrorCache("A", true).Build(),
			testutil.NewRecipe(t, "B-B-B").CodeSize("b.file", 2, 2, 2).PremirrorCache("B", false).Build(),
		)
		tiles := a.Parse(group)
		assert.Equal(t, []domain.TreemapData{
			{Name: "A-A-A", LinesOfCode: 1, Ratio: 1.0, Grade: domain.GradeBest},
			{Name: "B-B-B", LinesOfCode: 2, Ratio: 0.0, Grade: domain.GradeWorst},
		}, tiles)
	})

	t.Run("multiple metrics", func(t *testing.T) {
		group := testutil.NewGroup("all",
			testutil.NewRecipe(t, "A-A-A").
				CodeSize("a.file", 1, 1, 1).
				PremirrorCache("A", true).
				Test("A", "A", domain.TestFailed).
				Build(),
		)
		tiles := a.Parse(group)
		assert.Len(t, tiles, 1)
		assert.InDelta(t, 0.5, tiles[0].Ratio, 1e-9)
		assert.Equal(t, domain.GradeOrdinary, tiles[0].Grade)
	})
}
