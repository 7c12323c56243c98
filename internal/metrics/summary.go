package metrics

import "github.com/ludo-technologies/mscan/domain"

// CollectLinesOfCode sums the code size records of c
func CollectLinesOfCode(c domain.Collection) domain.LinesOfCode {
	var loc domain.LinesOfCode
	files := make(map[string]struct{})
	recipes := make(map[string]struct{})
	for _, d := range distinct[domain.CodeSizeData](c, domain.KindCodeSize) {
		loc.Lines += d.Lines
		loc.Functions += d.Functions
		loc.Classes += d.Classes
		files[d.RecipeName()+"\x00"+d.FilePath()] = struct{}{}
		recipes[d.RecipeName()] = struct{}{}
	}
	loc.Files = int64(len(files))
	loc.Recipes = int64(len(recipes))
	return loc
}

// fileScope counts the records of one file while answering availability
// for the whole recipe, since tests and caches are not tied to a file
type fileScope struct {
	recipe *domain.Recipe
	view   *domain.Recipe
}

func (f fileScope) Size() int { return f.view.Size() }
func (f fileScope) Contains(kind domain.Kind) bool { return f.recipe.Contains(kind) }
func (f fileScope) Query(kind domain.Kind) []domain.Record { return f.view.Query(kind) }

// DataSummaryAggregator produces breakdown rows for one category
type DataSummaryAggregator struct {
	evaluator *Evaluator
}

// NewDataSummaryAggregator creates an aggregator for e
func NewDataSummaryAggregator(e *Evaluator) *DataSummaryAggregator {
	return &DataSummaryAggregator{evaluator: e}
}

func (a *DataSummaryAggregator) row(name string, c domain.Collection) domain.DataSummary {
	return domain.NewDataSummary(name, CollectLinesOfCode(c), a.evaluator.Distribution(c), a.evaluator.Evaluate(c))
}

// ParseGroup returns one row per recipe holding data of the category
func (a *DataSummaryAggregator) ParseGroup(group *domain.RecipeGroup) []domain.DataSummary {
	rows := make([]domain.DataSummary, 0, group.Len())
	for _, r := range group.Recipes() {
		if !r.Contains(a.evaluator.Primary()) {
			continue
		}
		rows = append(rows, a.row(r.Name(), r))
	}
	return rows
}

// ParseRecipe returns one row per file of recipe holding data of the
// category. Categories whose records carry no file yield no rows.
func (a *DataSummaryAggregator) ParseRecipe(recipe *domain.Recipe) []domain.DataSummary {
	var rows []domain.DataSummary
	for _, f := range recipe.Files() {
		view := recipe.FileView(f)
		if !view.Contains(a.evaluator.Primary()) {
			continue
		}
		rows = append(rows, a.row(f, fileScope{recipe: recipe, view: view}))
	}
	if rows == nil {
		rows = []domain.DataSummary{}
	}
	return rows
}

// Summarizer assembles evaluation summaries and breakdowns for a set of
// category evaluators
type Summarizer struct {
	evaluators []*Evaluator
	quality    *QualityEvaluator
}

// NewSummarizer creates a summarizer over evaluators
func NewSummarizer(evaluators []*Evaluator) *Summarizer {
	return &Summarizer{evaluators: evaluators, quality: NewQualityEvaluator(evaluators)}
}

// Quality returns the quality evaluator shared by the summaries
func (s *Summarizer) Quality() *QualityEvaluator {
	return s.quality
}

// Metric returns the metric summary of e over group
func (s *Summarizer) Metric(e *Evaluator, group *domain.RecipeGroup) domain.MetricDataSummary {
	ev := e.Evaluate(group)
	return domain.MetricDataSummary{
		Category:     e.Category(),
		Evaluation:   ev,
		Statistics:   NewStatisticsCollector(e).Parse(group, ev.Ratio),
		Distribution: e.Distribution(group),
	}
}

// Group summarizes the whole group
func (s *Summarizer) Group(group *domain.RecipeGroup) domain.EvaluationSummary {
	summary := domain.EvaluationSummary{
		Name:        group.Name(),
		LinesOfCode: CollectLinesOfCode(group),
		Quality:     s.quality.Evaluate(group),
		Metrics:     make([]domain.MetricDataSummary, 0, len(s.evaluators)),
	}
	for _, e := range s.evaluators {
		summary.Metrics = append(summary.Metrics, s.Metric(e, group))
	}
	return summary
}

// Recipe summarizes one recipe. Statistics describe the recipe alone.
func (s *Summarizer) Recipe(recipe *domain.Recipe) domain.EvaluationSummary {
	return s.Group(domain.NewRecipeGroup(recipe.Name(), recipe))
}

// Recipes summarizes every recipe of group in order
func (s *Summarizer) Recipes(group *domain.RecipeGroup) []domain.EvaluationSummary {
	recipes := group.Recipes()
	summaries := make([]domain.EvaluationSummary, 0, len(recipes))
	for _, r := range recipes {
		summaries = append(summaries, s.Recipe(r))
	}
	return summaries
}

// Breakdown returns the per-recipe rows of every category
func (s *Summarizer) Breakdown(group *domain.RecipeGroup) []domain.CategoryBreakdown {
	out := make([]domain.CategoryBreakdown, 0, len(s.evaluators))
	for _, e := range s.evaluators {
		out = append(out, domain.CategoryBreakdown{
			Category: e.Category(),
			Rows:     NewDataSummaryAggregator(e).ParseGroup(group),
		})
	}
	return out
}

// FileBreakdown returns the per-file rows of every category for recipe
func (s *Summarizer) FileBreakdown(recipe *domain.Recipe) []domain.CategoryBreakdown {
	out := make([]domain.CategoryBreakdown, 0, len(s.evaluators))
	for _, e := range s.evaluators {
		out = append(out, domain.CategoryBreakdown{
			Category: e.Category(),
			Rows:     NewDataSummaryAggregator(e).ParseRecipe(recipe),
		})
	}
	return out
}
