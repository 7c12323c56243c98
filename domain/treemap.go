package domain

// Grade is one of seven ordinal buckets used to colour the recipe treemap
type Grade string

const (
	GradeWorst    Grade = "worst"
	GradeWorse    Grade = "worse"
	GradeBad      Grade = "bad"
	GradeOrdinary Grade = "ordinary"
	GradeGood     Grade = "good"
	GradeBetter   Grade = "better"
	GradeBest     Grade = "best"
)

// Grades returns all grades from worst to best
func Grades() []Grade {
	return []Grade{GradeWorst, GradeWorse, GradeBad, GradeOrdinary, GradeGood, GradeBetter, GradeBest}
}

// TreemapData is one recipe tile
type TreemapData struct {
	Name        string  `json:"name" yaml:"name"`
	LinesOfCode int64   `json:"lines_of_code" yaml:"lines_of_code"`
	Ratio       float64 `json:"ratio" yaml:"ratio"`
	Grade       Grade   `json:"grade" yaml:"grade"`
}
