package metrics

import "github.com/ludo-technologies/mscan/domain"

// Grader maps ratios on [min, max] into the seven treemap grades
type Grader struct {
	min      float64
	max      float64
	polarity domain.Polarity
}

// NewGrader creates a grader over [min, max]. Swapped bounds are reordered.
func NewGrader(min, max float64, polarity domain.Polarity) *Grader {
	if max < min {
		min, max = max, min
	}
	return &Grader{min: min, max: max, polarity: polarity}
}

// Grade returns the grade of value
func (g *Grader) Grade(value float64) domain.Grade {
	if value < 0 {
		value = 0
	}
	grades := domain.Grades()
	last := len(grades) - 1
	slot := (g.max - g.min) / float64(last)

	index := last
	if value <= g.min || value == 0 {
		index = 0
	} else {
		for i := 1; i < last; i++ {
			if value <= g.min+float64(i)*slot {
				index = i
				break
			}
		}
	}

	if g.polarity == domain.PolarityNegative {
		index = last - index
	}
	return grades[index]
}

// TreemapAggregator builds one treemap tile per recipe from its quality ratio
type TreemapAggregator struct {
	quality *QualityEvaluator
	grader  *Grader
}

// NewTreemapAggregator creates an aggregator grading recipe quality on [0, 1]
func NewTreemapAggregator(quality *QualityEvaluator) *TreemapAggregator {
	return &TreemapAggregator{
		quality: quality,
		grader:  NewGrader(0, 1, domain.PolarityPositive),
	}
}

// Parse returns the tiles of every recipe in group order
func (a *TreemapAggregator) Parse(group *domain.RecipeGroup) []domain.TreemapData {
	recipes := group.Recipes()
	tiles := make([]domain.TreemapData, 0, len(recipes))
	for _, r := range recipes {
		ratio := a.quality.Evaluate(r).Ratio
		tiles = append(tiles, domain.TreemapData{
			Name:        r.Name(),
			LinesOfCode: sumCodeSizeLines(r),
			Ratio:       ratio,
			Grade:       a.grader.Grade(ratio),
		})
	}
	return tiles
}
