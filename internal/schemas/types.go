package schemas

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"lms-evaluation/internal/rubric"
)

// Score is an optional rubric score. The zero value is unset.
type Score struct {
	value int
	set   bool
}

func NewScore(v int) Score { return Score{value: v, set: true} }

func (s Score) Value() (int, bool) { return s.value, s.set }

func (s Score) IsSet() bool { return s.set }

// String renders the score for reports; unset scores render as "N/A".
func (s Score) String() string {
	if !s.set || s.value == 0 {
		return "N/A"
	}
	return strconv.Itoa(s.value)
}

func (s Score) MarshalJSON() ([]byte, error) {
	if !s.set {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(s.value)), nil
}

// UnmarshalJSON accepts a number, null, or the empty string. Lists exported
// by the browser version of the tool store unset scores as "".
func (s *Score) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) || bytes.Equal(b, []byte(`""`)) {
		*s = Score{}
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return fmt.Errorf("score: %s is not a number", b)
	}
	if f != math.Trunc(f) {
		return fmt.Errorf("score: %v is not an integer", f)
	}
	*s = NewScore(int(f))
	return nil
}

type ScoreItem struct {
	Score    Score  `json:"score"`
	Comments string `json:"comments"`
}

type CategoryScores struct {
	Items map[string]ScoreItem `json:"items"`
}

// Scores maps category id to that category's item scores.
type Scores map[string]CategoryScores

// NewScores builds a Scores map with one unset entry per rubric item.
func NewScores(r rubric.Rubric) Scores {
	s := make(Scores, len(r.Categories))
	for _, c := range r.Categories {
		items := make(map[string]ScoreItem, len(c.Items))
		for _, it := range c.Items {
			items[it.ID] = ScoreItem{}
		}
		s[c.ID] = CategoryScores{Items: items}
	}
	return s
}

// Item returns the entry for one rubric item.
func (s Scores) Item(categoryID, itemID string) (ScoreItem, bool) {
	cat, ok := s[categoryID]
	if !ok {
		return ScoreItem{}, false
	}
	it, ok := cat.Items[itemID]
	return it, ok
}

func (s Scores) Clone() Scores {
	if s == nil {
		return nil
	}
	out := make(Scores, len(s))
	for cid, cat := range s {
		items := make(map[string]ScoreItem, len(cat.Items))
		for iid, it := range cat.Items {
			items[iid] = it
		}
		out[cid] = CategoryScores{Items: items}
	}
	return out
}

// EvaluationData is one saved evaluation. It is never modified after the
// form creates it.
type EvaluationData struct {
	ID                string  `json:"id"`
	ReviewerName      string  `json:"reviewerName"`
	ReviewerEmail     string  `json:"reviewerEmail"`
	EvaluationDate    string  `json:"evaluationDate"`
	PlatformEvaluated string  `json:"platformEvaluated"`
	Scores            Scores  `json:"scores"`
	OverallScore      float64 `json:"overallScore"`
	Timestamp         string  `json:"timestamp"`
}

func (e EvaluationData) Clone() EvaluationData {
	e.Scores = e.Scores.Clone()
	return e
}

// DraftRequest is the JSON body accepted by the evaluation API. It mirrors
// the HTML form fields.
type DraftRequest struct {
	ReviewerName  string `json:"reviewerName"`
	ReviewerEmail string `json:"reviewerEmail"`
	// EvaluationDate defaults to today when absent; an explicit "" is kept
	// and fails validation.
	EvaluationDate    *string `json:"evaluationDate,omitempty"`
	PlatformEvaluated string  `json:"platformEvaluated"`
	OtherPlatformName string  `json:"otherPlatformName,omitempty"`
	Scores            Scores  `json:"scores"`
}

type CategoryOut struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Weight   float64 `json:"weight"`
	Average  float64 `json:"average"`
	Weighted float64 `json:"weighted"`
}

type PreviewOut struct {
	Overall    float64       `json:"overall"`
	Bucket     string        `json:"bucket"`
	Categories []CategoryOut `json:"categories"`
}

type SummaryRequestOut struct {
	Token        string `json:"token"`
	EvaluationID string `json:"evaluation_id"`
}

type SummaryStateOut struct {
	Token        string `json:"token,omitempty"`
	EvaluationID string `json:"evaluation_id,omitempty"`
	Platform     string `json:"platform,omitempty"`
	Loading      bool   `json:"loading"`
	Text         string `json:"text,omitempty"`
}
