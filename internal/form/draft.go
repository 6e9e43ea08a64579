// Package form holds the editable evaluation draft, its validation rules and
// the save step that turns a valid draft into an immutable evaluation record.
package form

import (
	"fmt"
	"strconv"
	"strings"

	"lms-evaluation/internal/rubric"
	"lms-evaluation/internal/schemas"
	"lms-evaluation/internal/scoring"
)

// Metadata is the reviewer block at the top of the form.
type Metadata struct {
	ReviewerName   string `validate:"required"`
	ReviewerEmail  string `validate:"required"`
	EvaluationDate string `validate:"required"`
	Platform       string `validate:"required"`
}

// Draft is a form being edited. Every rubric item has an entry in Scores
// from the start; unset scores are the zero schemas.Score.
type Draft struct {
	Metadata
	OtherPlatformName string
	Scores            schemas.Scores

	rubric rubric.Rubric
}

func newDraft(r rubric.Rubric, date string) *Draft {
	return &Draft{
		Metadata: Metadata{EvaluationDate: date},
		Scores:   schemas.NewScores(r),
		rubric:   r,
	}
}

func (d *Draft) Rubric() rubric.Rubric { return d.rubric }

// SetPlatform selects a platform. Picking anything but Other discards the
// custom name.
func (d *Draft) SetPlatform(p string) {
	d.Platform = p
	if p != rubric.OtherPlatform {
		d.OtherPlatformName = ""
	}
}

// SetScore sets one item score from its form value. The empty string
// clears it; otherwise the value must be an integer from 1 to 5.
func (d *Draft) SetScore(categoryID, itemID, value string) error {
	it, err := d.item(categoryID, itemID)
	if err != nil {
		return err
	}
	value = strings.TrimSpace(value)
	if value == "" {
		it.Score = schemas.Score{}
	} else {
		v, err := strconv.Atoi(value)
		if err != nil || v < 1 || v > scoring.MaxScore {
			return &InputError{Field: ScoreField(categoryID, itemID), Err: fmt.Errorf("score %q must be an integer from 1 to %d", value, scoring.MaxScore)}
		}
		it.Score = schemas.NewScore(v)
	}
	d.Scores[categoryID].Items[itemID] = it
	return nil
}

func (d *Draft) SetComments(categoryID, itemID, text string) error {
	it, err := d.item(categoryID, itemID)
	if err != nil {
		return err
	}
	it.Comments = text
	d.Scores[categoryID].Items[itemID] = it
	return nil
}

func (d *Draft) item(categoryID, itemID string) (schemas.ScoreItem, error) {
	it, ok := d.Scores.Item(categoryID, itemID)
	if !ok {
		return schemas.ScoreItem{}, &InputError{Field: ScoreField(categoryID, itemID), Err: fmt.Errorf("unknown rubric item %s/%s", categoryID, itemID)}
	}
	return it, nil
}

// Live is the running score shown while the form is edited.
func (d *Draft) Live() scoring.Result {
	return scoring.Aggregate(d.rubric, d.Scores)
}

// PlatformName is the name stored on save: the custom name for Other,
// otherwise the selection.
func (d *Draft) PlatformName() string {
	if d.Platform == rubric.OtherPlatform {
		return strings.TrimSpace(d.OtherPlatformName)
	}
	return d.Platform
}

// ScoreField is the form field name of an item score.
func ScoreField(categoryID, itemID string) string {
	return "score." + categoryID + "." + itemID
}

func CommentsField(categoryID, itemID string) string {
	return "comments." + categoryID + "." + itemID
}
