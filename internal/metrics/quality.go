package metrics

import "github.com/ludo-technologies/mscan/domain"

// QualityThreshold is the share of available categories that must qualify
// for a collection to be of good quality
const QualityThreshold = 1.0

// QualityEvaluator rates a collection by how many of its available metric
// categories qualify
type QualityEvaluator struct {
	evaluators []*Evaluator
}

// NewQualityEvaluator creates a quality evaluator over the given evaluators
func NewQualityEvaluator(evaluators []*Evaluator) *QualityEvaluator {
	return &QualityEvaluator{evaluators: evaluators}
}

// Evaluators returns the underlying category evaluators
func (q *QualityEvaluator) Evaluators() []*Evaluator {
	return q.evaluators
}

// Evaluate counts available categories as the denominator and qualified
// ones as the numerator
func (q *QualityEvaluator) Evaluate(c domain.Collection) domain.Evaluation {
	var available, qualified int64
	for _, e := range q.evaluators {
		ev := e.Evaluate(c)
		if !ev.Available {
			continue
		}
		available++
		if ev.Qualified {
			qualified++
		}
	}
	return domain.NewEvaluation(domain.PolarityPositive, available > 0, available, qualified, QualityThreshold)
}

// QualifiedRecipes counts the recipes of group whose quality qualifies
func (q *QualityEvaluator) QualifiedRecipes(group *domain.RecipeGroup) domain.Evaluation {
	recipes := group.Recipes()
	var qualified int64
	for _, r := range recipes {
		if q.Evaluate(r).Qualified {
			qualified++
		}
	}
	total := int64(len(recipes))
	return domain.NewEvaluation(domain.PolarityPositive, total > 0, total, qualified, QualityThreshold)
}

// QualifiedRecipesOf counts, for one category, the recipes where the
// category is available and the recipes where it qualifies
func QualifiedRecipesOf(e *Evaluator, group *domain.RecipeGroup) domain.Evaluation {
	var available, qualified int64
	for _, r := range group.Recipes() {
		ev := e.Evaluate(r)
		if !ev.Available {
			continue
		}
		available++
		if ev.Qualified {
			qualified++
		}
	}
	return domain.NewEvaluation(domain.PolarityPositive, available > 0, available, qualified, QualityThreshold)
}
