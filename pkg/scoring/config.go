package scoring

import (
	"maps"
	"slices"
)

// Band maps a closed score interval [Min, Max] to a category.
type Band struct {
	Min      int
	Max      int
	Category int
}

// Contains reports whether score lies inside the band, bounds included.
func (b Band) Contains(score int) bool {
	return score >= b.Min && score <= b.Max
}

// RiskBand maps a closed interval of the attrition-risk rating to rubric points
// before the question weight is applied.
type RiskBand struct {
	Min    float64
	Max    float64
	Points int
}

// Rubric holds every constant of the assessment rubric.
type Rubric struct {
	// Performance: q1 + q2, banded.
	PerformanceBands []Band

	// Potential: additive sub-rules, banded.
	PotentialBands []Band

	YesPoints int // q3_1, q3_2, q3_4 when answered true

	// q3_3 growth desire maps to a 0/1 scale, then weighted.
	GrowthScale  map[int]int
	GrowthWeight int

	// q3_5 readiness horizon maps to a 0-2 scale, then weighted.
	ReadinessScale  map[int]int
	ReadinessWeight int

	// q3_6 attrition risk is inverted into a 0-3 scale, then weighted.
	RiskBands  []RiskBand
	RiskWeight int
}

// DefaultRubric returns the assessment rubric used in production.
func DefaultRubric() Rubric {
	return Rubric{
		PerformanceBands: []Band{
			{Min: 4, Max: 7, Category: 1},
			{Min: 8, Max: 11, Category: 2},
			{Min: 0, Max: 3, Category: 0},
		},
		PotentialBands: []Band{
			{Min: 1, Max: 7, Category: 1},
			{Min: 8, Max: 12, Category: 2},
			{Min: 13, Max: 16, Category: 3},
		},

		YesPoints: 1,

		GrowthScale:  map[int]int{1: 1, 2: 1, 3: 0, 4: 0},
		GrowthWeight: 2,

		ReadinessScale:  map[int]int{1: 2, 2: 1, 3: 0}, // 1-2 years, 2-3 years, 3+ years
		ReadinessWeight: 2,

		RiskBands: []RiskBand{
			{Min: 0, Max: 2, Points: 3},
			{Min: 3, Max: 5, Points: 2},
			{Min: 6, Max: 7, Points: 1},
			{Min: 8, Max: 10, Points: 0},
		},
		RiskWeight: 2,
	}
}

// Clone returns a deep copy of rb, so that an engine built from it does not
// share its maps or slices with the caller.
func (rb Rubric) Clone() Rubric {
	c := rb
	c.PerformanceBands = slices.Clone(rb.PerformanceBands)
	c.PotentialBands = slices.Clone(rb.PotentialBands)
	c.GrowthScale = maps.Clone(rb.GrowthScale)
	c.ReadinessScale = maps.Clone(rb.ReadinessScale)
	c.RiskBands = slices.Clone(rb.RiskBands)
	return c
}

// TopBand returns the band with the highest upper bound, or the zero Band if there are none.
func TopBand(bands []Band) Band {
	var top Band
	for i, b := range bands {
		if i == 0 || b.Max > top.Max {
			top = b
		}
	}
	return top
}

// Categorize returns the category of the first band containing score.
// Scores outside every band fall back to category 0.
func Categorize(score int, bands []Band) int {
	for _, b := range bands {
		if b.Contains(score) {
			return b.Category
		}
	}
	return 0
}
