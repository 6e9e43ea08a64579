package form

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"lms-evaluation/internal/rubric"
)

const (
	msgReviewerInfo  = "Please fill in all reviewer information fields at the top."
	msgOtherPlatform = "Please specify the name of the platform when 'Other' is selected."
)

var validate = validator.New()

// ValidationError is the first rule a draft broke. Message is shown to the
// reviewer as is.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// InputError is a form value that cannot be applied to a draft at all, such
// as a score outside 1..5 or an item the rubric does not have.
type InputError struct {
	Field string
	Err   error
}

func (e *InputError) Error() string { return fmt.Sprintf("%s: %v", e.Field, e.Err) }

func (e *InputError) Unwrap() error { return e.Err }

// Validate stops at the first failing rule: reviewer metadata, then the
// custom platform name, then item scores in rubric order.
func (d *Draft) Validate() error {
	if err := validate.Struct(d.Metadata); err != nil {
		return &ValidationError{Field: "reviewer", Message: msgReviewerInfo}
	}
	if d.Platform == rubric.OtherPlatform && strings.TrimSpace(d.OtherPlatformName) == "" {
		return &ValidationError{Field: "otherPlatformName", Message: msgOtherPlatform}
	}
	for _, c := range d.rubric.Categories {
		for _, it := range c.Items {
			got, _ := d.Scores.Item(c.ID, it.ID)
			if !got.Score.IsSet() {
				return &ValidationError{
					Field:   ScoreField(c.ID, it.ID),
					Message: fmt.Sprintf("Please provide a score for '%s' in the '%s' section.", it.Description, c.Name),
				}
			}
		}
	}
	return nil
}
