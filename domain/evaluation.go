package domain

// Polarity decides how a ratio is compared with its threshold
type Polarity string

const (
	// PolarityPositive means higher is better: qualified when ratio >= threshold
	PolarityPositive Polarity = "positive"
	// PolarityNegative means lower is better: qualified when ratio <= threshold
	// or when there is nothing to measure
	PolarityNegative Polarity = "negative"
)

// Ratio returns numerator/denominator, or 0 when denominator is 0
func Ratio(numerator, denominator int64) float64 {
	if denominator == 0 {
		return 0
	}
	return float64(numerator) / float64(denominator)
}

// Evaluation is a ratio measured against a threshold
type Evaluation struct {
	Available   bool     `json:"available" yaml:"available"`
	Denominator int64    `json:"denominator" yaml:"denominator"`
	Numerator   int64    `json:"numerator" yaml:"numerator"`
	Ratio       float64  `json:"ratio" yaml:"ratio"`
	Threshold   float64  `json:"threshold" yaml:"threshold"`
	Tolerance   int64    `json:"tolerance,omitempty" yaml:"tolerance,omitempty"`
	Polarity    Polarity `json:"polarity" yaml:"polarity"`
	Qualified   bool     `json:"qualified" yaml:"qualified"`
	Difference  *float64 `json:"difference,omitempty" yaml:"difference,omitempty"`
}

// NewEvaluation computes ratio and qualification for the given counts
func NewEvaluation(polarity Polarity, available bool, denominator, numerator int64, threshold float64) Evaluation {
	e := Evaluation{
		Available:   available,
		Denominator: denominator,
		Numerator:   numerator,
		Ratio:       Ratio(numerator, denominator),
		Threshold:   threshold,
		Polarity:    polarity,
	}
	e.Qualified = e.qualify()
	return e
}

// WithTolerance returns a copy recording the tolerance used for counting
func (e Evaluation) WithTolerance(tolerance int64) Evaluation {
	e.Tolerance = tolerance
	return e
}

// WithDifference returns a copy carrying ratio - baseline.Ratio
func (e Evaluation) WithDifference(baseline Evaluation) Evaluation {
	d := e.Ratio - baseline.Ratio
	e.Difference = &d
	return e
}

func (e Evaluation) qualify() bool {
	if !e.Available {
		return false
	}
	switch e.Polarity {
	case PolarityNegative:
		return e.Denominator == 0 || e.Ratio <= e.Threshold
	default:
		return e.Ratio >= e.Threshold
	}
}

// Scale is one category of a Distribution
type Scale struct {
	Denominator int64   `json:"denominator" yaml:"denominator"`
	Numerator   int64   `json:"numerator" yaml:"numerator"`
	Ratio       float64 `json:"ratio" yaml:"ratio"`
}

func newScale(total, count int64) Scale {
	return Scale{Denominator: total, Numerator: count, Ratio: Ratio(count, total)}
}

// Distribution splits a total into up to four exclusive categories
type Distribution struct {
	Total  int64 `json:"total" yaml:"total"`
	First  Scale `json:"first" yaml:"first"`
	Second Scale `json:"second" yaml:"second"`
	Third  Scale `json:"third" yaml:"third"`
	Fourth Scale `json:"fourth" yaml:"fourth"`
}

// NewDistribution builds a distribution whose total is the sum of the counts
func NewDistribution(first, second, third, fourth int64) Distribution {
	total := first + second + third + fourth
	return Distribution{
		Total:  total,
		First:  newScale(total, first),
		Second: newScale(total, second),
		Third:  newScale(total, third),
		Fourth: newScale(total, fourth),
	}
}

// Scales returns the four categories in order
func (d Distribution) Scales() []Scale {
	return []Scale{d.First, d.Second, d.Third, d.Fourth}
}
