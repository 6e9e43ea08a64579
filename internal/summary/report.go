// Package summary produces the AI executive summary of an evaluation. It
// renders the evaluation as a plain-text report, wraps it in a prompt and
// hands that to a text generator.
package summary

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"lms-evaluation/internal/rubric"
	"lms-evaluation/internal/schemas"
	"lms-evaluation/internal/scoring"
)

// Report renders an evaluation as the text block sent to the model.
// Categories missing from the evaluation are skipped.
func Report(r rubric.Rubric, ev schemas.EvaluationData) string {
	var b strings.Builder
	b.WriteString("EVALUATION REPORT\n")
	fmt.Fprintf(&b, "Platform: %s\n", ev.PlatformEvaluated)
	fmt.Fprintf(&b, "Reviewer: %s\n", ev.ReviewerName)
	fmt.Fprintf(&b, "Date: %s\n", ev.EvaluationDate)
	fmt.Fprintf(&b, "Overall Weighted Score: %s / 5.00\n\n", scoring.Format(ev.OverallScore))
	b.WriteString("--- DETAILED BREAKDOWN ---\n\n")

	for _, c := range r.Categories {
		cat, ok := ev.Scores[c.ID]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "CATEGORY: %s (Weight: %s%%)\n", c.Name, Percent(c.Weight))
		fmt.Fprintf(&b, "Average Score for Category: %s / 5.00\n", scoring.Format(scoring.CategoryAverage(cat.Items)))
		for _, it := range c.Items {
			got, ok := cat.Items[it.ID]
			if !ok {
				continue
			}
			fmt.Fprintf(&b, "  - Item: %s\n", it.Description)
			fmt.Fprintf(&b, "    - Score: %s\n", got.Score)
			fmt.Fprintf(&b, "    - Comments: %s\n", orNone(got.Comments))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// Percent formats a weight fraction as a percentage without float noise,
// e.g. 0.15 -> "15".
func Percent(weight float64) string {
	return strconv.FormatFloat(math.Round(weight*10000)/100, 'f', -1, 64)
}

func orNone(s string) string {
	if s == "" {
		return "None"
	}
	return s
}

// Prompt wraps a report in the executive-summary instructions.
func Prompt(report string) string {
	return `
Based on the following LMS evaluation report, act as an expert technology procurement consultant and write a concise, executive summary.

The summary should:
1.  Start with a clear final recommendation (e.g., "Strongly Recommended", "Recommended with Reservations", "Not Recommended").
2.  Highlight the platform's key strengths based on high scores and positive comments.
3.  Identify the most significant weaknesses or areas of concern, referencing specific low-scoring categories.
4.  Conclude with a final sentence summarizing the platform's suitability for an organization focused on the criteria in the rubric.
5.  The tone should be professional, objective, and data-driven. Do not invent information not present in the report.
6.  Use markdown for formatting (bolding, lists).

EVALUATION REPORT:
---
` + report + `
---
`
}
