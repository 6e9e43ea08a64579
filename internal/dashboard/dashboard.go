// Package dashboard builds the views over saved evaluations: the overview
// table, the per-category breakdown, and the AI summary panel.
package dashboard

import (
	"time"

	"lms-evaluation/internal/rubric"
	"lms-evaluation/internal/schemas"
	"lms-evaluation/internal/scoring"
)

// CopiedAck is how long the "Copied!" acknowledgment stays up after the
// summary is copied to the clipboard.
const CopiedAck = 2 * time.Second

type Row struct {
	ID       string
	Platform string
	Reviewer string
	Date     string
	Overall  string
	Bucket   scoring.Bucket
}

// Rows lists evaluations in the order they were saved.
func Rows(list []schemas.EvaluationData) []Row {
	rows := make([]Row, 0, len(list))
	for _, ev := range list {
		rows = append(rows, Row{
			ID:       ev.ID,
			Platform: ev.PlatformEvaluated,
			Reviewer: ev.ReviewerName,
			Date:     ev.EvaluationDate,
			Overall:  scoring.Format(ev.OverallScore),
			Bucket:   scoring.BucketFor(ev.OverallScore),
		})
	}
	return rows
}

type ItemDetail struct {
	Description string
	Score       string
	Comments    string
}

type CategoryDetail struct {
	ID      string
	Name    string
	Average string
	Items   []ItemDetail
}

type Detail struct {
	Evaluation schemas.EvaluationData
	Categories []CategoryDetail
}

// NewDetail recomputes each category average from the stored item scores.
// Categories the evaluation has no entry for are left out.
func NewDetail(r rubric.Rubric, ev schemas.EvaluationData) Detail {
	d := Detail{Evaluation: ev}
	for _, c := range r.Categories {
		cat, ok := ev.Scores[c.ID]
		if !ok {
			continue
		}
		cd := CategoryDetail{
			ID:      c.ID,
			Name:    c.Name,
			Average: scoring.Format(scoring.CategoryAverage(cat.Items)),
			Items:   make([]ItemDetail, 0, len(c.Items)),
		}
		for _, it := range c.Items {
			got := cat.Items[it.ID]
			comments := got.Comments
			if comments == "" {
				comments = "None"
			}
			cd.Items = append(cd.Items, ItemDetail{
				Description: it.Description,
				Score:       got.Score.String(),
				Comments:    comments,
			})
		}
		d.Categories = append(d.Categories, cd)
	}
	return d
}
