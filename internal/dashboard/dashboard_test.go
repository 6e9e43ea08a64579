package dashboard

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lms-evaluation/internal/metrics"
	"lms-evaluation/internal/rubric"
	"lms-evaluation/internal/schemas"
	"lms-evaluation/internal/scoring"
	"lms-evaluation/internal/summary"
)

func evaluation(id, platform string, overall float64) schemas.EvaluationData {
	return schemas.EvaluationData{
		ID:                id,
		ReviewerName:      "Sam",
		EvaluationDate:    "2025-05-05",
		PlatformEvaluated: platform,
		OverallScore:      overall,
		Scores: schemas.Scores{
			"integrations": {Items: map[string]schemas.ScoreItem{
				"sso_integration":    {Score: schemas.NewScore(5), Comments: "Okta works"},
				"hr_crm_integration": {Score: schemas.NewScore(2)},
				"api_extensibility":  {Score: schemas.NewScore(2)},
			}},
		},
	}
}

func TestRows_InsertionOrderAndBuckets(t *testing.T) {
	rows := Rows([]schemas.EvaluationData{
		evaluation("1", "Cypher", 2.49),
		evaluation("2", "Kaltura", 4),
		evaluation("3", "KnowBe4", 2.5),
	})

	require.Len(t, rows, 3)
	assert.Equal(t, "Cypher", rows[0].Platform)
	assert.Equal(t, scoring.BucketLow, rows[0].Bucket)
	assert.Equal(t, "2.49", rows[0].Overall)
	assert.Equal(t, scoring.BucketHigh, rows[1].Bucket)
	assert.Equal(t, "4.00", rows[1].Overall)
	assert.Equal(t, scoring.BucketMid, rows[2].Bucket)
	assert.Empty(t, Rows(nil))
}

func TestNewDetail(t *testing.T) {
	d := NewDetail(rubric.Default(), evaluation("1", "Cypher", 3))

	require.Len(t, d.Categories, 1, "categories without stored scores are skipped")
	cat := d.Categories[0]
	assert.Equal(t, "Integrations & Ecosystem", cat.Name)
	assert.Equal(t, "3.00", cat.Average)
	require.Len(t, cat.Items, 3)
	assert.Equal(t, "5", cat.Items[0].Score)
	assert.Equal(t, "Okta works", cat.Items[0].Comments)
	assert.Equal(t, "None", cat.Items[1].Comments)
}

func TestNewDetail_MissingItemShowsNA(t *testing.T) {
	ev := evaluation("1", "Cypher", 3)
	delete(ev.Scores["integrations"].Items, "api_extensibility")

	d := NewDetail(rubric.Default(), ev)
	assert.Equal(t, "N/A", d.Categories[0].Items[2].Score)
	assert.Equal(t, "3.50", d.Categories[0].Average)
}

// gatedSummarizer blocks each call until its evaluation id is released.
type gatedSummarizer struct {
	mu    sync.Mutex
	gates map[string]chan string
}

func newGated(ids ...string) *gatedSummarizer {
	g := &gatedSummarizer{gates: map[string]chan string{}}
	for _, id := range ids {
		g.gates[id] = make(chan string, 1)
	}
	return g
}

func (g *gatedSummarizer) Summarize(_ context.Context, ev schemas.EvaluationData) string {
	g.mu.Lock()
	ch := g.gates[ev.ID]
	g.mu.Unlock()
	return <-ch
}

func (g *gatedSummarizer) release(id, text string) { g.gates[id] <- text }

func quiet() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestSummaries_ShowsResult(t *testing.T) {
	g := newGated("1")
	m := metrics.New()
	s := NewSummaries(context.Background(), g, quiet(), m)

	token := s.Request(evaluation("1", "Cypher", 3))
	st := s.State()
	assert.True(t, st.Loading)
	assert.Equal(t, token, st.Token)
	assert.Equal(t, "Cypher", st.Platform)

	g.release("1", "Recommended")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	st, err := s.Wait(ctx, token)
	require.NoError(t, err)

	assert.False(t, st.Loading)
	assert.Equal(t, "Recommended", st.Text)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Summaries.WithLabelValues(metrics.OutcomeOK)))
}

func TestSummaries_StaleResultDropped(t *testing.T) {
	g := newGated("1", "2")
	m := metrics.New()
	s := NewSummaries(context.Background(), g, quiet(), m)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	first := s.Request(evaluation("1", "Cypher", 3))
	second := s.Request(evaluation("2", "Kaltura", 4))

	// the newer request answers first, then the old one arrives late
	g.release("2", "Kaltura summary")
	_, err := s.Wait(ctx, second)
	require.NoError(t, err)
	g.release("1", "Cypher summary")
	st, err := s.Wait(ctx, first)
	require.NoError(t, err)

	assert.Equal(t, second, st.Token)
	assert.Equal(t, "2", st.EvaluationID)
	assert.Equal(t, "Kaltura summary", st.Text)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Summaries.WithLabelValues(metrics.OutcomeStale)))
}

func TestSummaries_OldResultWhileNewPending(t *testing.T) {
	g := newGated("1", "2")
	s := NewSummaries(context.Background(), g, quiet(), nil)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	first := s.Request(evaluation("1", "Cypher", 3))
	second := s.Request(evaluation("2", "Kaltura", 4))

	g.release("1", "Cypher summary")
	st, err := s.Wait(ctx, first)
	require.NoError(t, err)
	assert.True(t, st.Loading, "newer request still pending")
	assert.Empty(t, st.Text)

	g.release("2", summary.MissingKeyMessage)
	st, err = s.Wait(ctx, second)
	require.NoError(t, err)
	assert.Equal(t, summary.MissingKeyMessage, st.Text)
}

func TestSummaries_WaitUnknownToken(t *testing.T) {
	s := NewSummaries(context.Background(), newGated(), quiet(), nil)
	st, err := s.Wait(context.Background(), "nope")
	require.NoError(t, err)
	assert.Equal(t, State{}, st)
}
