// Package scoring turns per-item rubric scores into category averages and a
// weight-normalized overall score.
package scoring

import (
	"strconv"

	"lms-evaluation/internal/rubric"
	"lms-evaluation/internal/schemas"
)

// MaxScore is the top of the 1..5 item scale.
const MaxScore = 5

type CategoryResult struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Weight   float64 `json:"weight"`
	Average  float64 `json:"average"`
	Weighted float64 `json:"weighted"`
	Scored   int     `json:"scored"`
}

type Result struct {
	Overall    float64          `json:"overall"`
	Categories []CategoryResult `json:"categories"`
}

// Category returns the result for one category id. Unknown ids yield a
// zero result.
func (r Result) Category(id string) CategoryResult {
	for _, c := range r.Categories {
		if c.ID == id {
			return c
		}
	}
	return CategoryResult{ID: id}
}

// Aggregate computes per-category averages and the overall score.
//
// Only items with a set score greater than zero count. A category with no
// such items has average and weighted contribution 0 and its weight is left
// out of the normalizing denominator, so a half-filled form is not dragged
// down by empty sections.
func Aggregate(r rubric.Rubric, s schemas.Scores) Result {
	res := Result{Categories: make([]CategoryResult, 0, len(r.Categories))}

	var weightedSum, weightWithScores float64
	for _, c := range r.Categories {
		cr := CategoryResult{ID: c.ID, Name: c.Name, Weight: c.Weight}
		sum, n := sumScored(s[c.ID].Items)
		if n > 0 {
			cr.Average = sum / float64(n)
			cr.Weighted = cr.Average * c.Weight
			cr.Scored = n
			weightedSum += cr.Weighted
			weightWithScores += c.Weight
		}
		res.Categories = append(res.Categories, cr)
	}
	if weightWithScores > 0 {
		res.Overall = weightedSum / weightWithScores
	}
	return res
}

// CategoryAverage is the mean of the scored items in one category, or 0.
func CategoryAverage(items map[string]schemas.ScoreItem) float64 {
	sum, n := sumScored(items)
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

func sumScored(items map[string]schemas.ScoreItem) (float64, int) {
	var sum float64
	n := 0
	for _, it := range items {
		v, ok := it.Score.Value()
		if !ok || v <= 0 {
			continue
		}
		sum += float64(v)
		n++
	}
	return sum, n
}

// Format renders a score with two decimals.
func Format(score float64) string {
	return strconv.FormatFloat(score, 'f', 2, 64)
}
