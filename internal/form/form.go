package form

import (
	"context"
	"log/slog"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"

	"lms-evaluation/internal/rubric"
	"lms-evaluation/internal/schemas"
)

// DefaultSaveDelay is how long Save pauses before handing the record over,
// long enough for the browser to show its loading state.
const DefaultSaveDelay = 500 * time.Millisecond

const (
	dateLayout      = "2006-01-02"
	timestampLayout = "2006-01-02T15:04:05.000Z07:00"
)

// Form creates drafts for one rubric and saves them.
type Form struct {
	rubric    rubric.Rubric
	newID     func() string
	now       func() time.Time
	saveDelay time.Duration
	logger    *slog.Logger
}

type Option func(*Form)

func WithIDGenerator(fn func() string) Option {
	return func(f *Form) { f.newID = fn }
}

func WithClock(fn func() time.Time) Option {
	return func(f *Form) { f.now = fn }
}

func WithSaveDelay(d time.Duration) Option {
	return func(f *Form) { f.saveDelay = d }
}

func WithLogger(l *slog.Logger) Option {
	return func(f *Form) { f.logger = l }
}

func New(r rubric.Rubric, opts ...Option) *Form {
	f := &Form{
		rubric:    r,
		newID:     uuid.NewString,
		now:       time.Now,
		saveDelay: DefaultSaveDelay,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *Form) Rubric() rubric.Rubric { return f.rubric }

// NewDraft starts a fresh form dated today.
func (f *Form) NewDraft() *Draft {
	return newDraft(f.rubric, f.now().UTC().Format(dateLayout))
}

// Save validates the draft and, if it passes, builds the evaluation record
// and passes it to onSave. A draft that fails validation never reaches
// onSave. The draft itself is left untouched; callers start a new one.
func (f *Form) Save(ctx context.Context, d *Draft, onSave func(schemas.EvaluationData)) (schemas.EvaluationData, error) {
	if err := d.Validate(); err != nil {
		f.logger.Debug("evaluation rejected", slog.String("error", err.Error()))
		return schemas.EvaluationData{}, err
	}

	ev := schemas.EvaluationData{
		ID:                f.newID(),
		ReviewerName:      d.ReviewerName,
		ReviewerEmail:     d.ReviewerEmail,
		EvaluationDate:    d.EvaluationDate,
		PlatformEvaluated: d.PlatformName(),
		Scores:            d.Scores.Clone(),
		OverallScore:      d.Live().Overall,
		Timestamp:         f.now().UTC().Format(timestampLayout),
	}

	if f.saveDelay > 0 {
		timer := time.NewTimer(f.saveDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return schemas.EvaluationData{}, ctx.Err()
		case <-timer.C:
		}
	}

	if onSave != nil {
		onSave(ev.Clone())
	}
	f.logger.Info("evaluation saved", slog.String("id", ev.ID), slog.String("platform", ev.PlatformEvaluated))
	return ev, nil
}

// DraftFromValues decodes an HTML form post into a new draft.
func (f *Form) DraftFromValues(v url.Values) (*Draft, error) {
	d := f.NewDraft()
	d.ReviewerName = v.Get("reviewerName")
	d.ReviewerEmail = v.Get("reviewerEmail")
	if _, ok := v["evaluationDate"]; ok {
		d.EvaluationDate = v.Get("evaluationDate")
	}
	d.SetPlatform(v.Get("platformEvaluated"))
	if d.Platform == rubric.OtherPlatform {
		d.OtherPlatformName = v.Get("otherPlatformName")
	}
	for _, c := range f.rubric.Categories {
		for _, it := range c.Items {
			if err := d.SetScore(c.ID, it.ID, v.Get(ScoreField(c.ID, it.ID))); err != nil {
				return d, err
			}
			if err := d.SetComments(c.ID, it.ID, v.Get(CommentsField(c.ID, it.ID))); err != nil {
				return d, err
			}
		}
	}
	return d, nil
}

// DraftFromRequest decodes a JSON API body into a new draft. Entries for
// items outside the rubric are rejected.
func (f *Form) DraftFromRequest(req schemas.DraftRequest) (*Draft, error) {
	d := f.NewDraft()
	d.ReviewerName = req.ReviewerName
	d.ReviewerEmail = req.ReviewerEmail
	if req.EvaluationDate != nil {
		d.EvaluationDate = *req.EvaluationDate
	}
	d.SetPlatform(req.PlatformEvaluated)
	if d.Platform == rubric.OtherPlatform {
		d.OtherPlatformName = req.OtherPlatformName
	}
	for cid, cat := range req.Scores {
		for iid, it := range cat.Items {
			if _, err := d.item(cid, iid); err != nil {
				return d, err
			}
			if v, ok := it.Score.Value(); ok {
				if err := d.SetScore(cid, iid, strconv.Itoa(v)); err != nil {
					return d, err
				}
			}
			if err := d.SetComments(cid, iid, it.Comments); err != nil {
				return d, err
			}
		}
	}
	return d, nil
}
