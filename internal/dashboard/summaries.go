package dashboard

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"lms-evaluation/internal/metrics"
	"lms-evaluation/internal/schemas"
	"lms-evaluation/internal/summary"
)

// Summarizer produces the summary text for one evaluation. It reports
// failures as text rather than errors.
type Summarizer interface {
	Summarize(ctx context.Context, ev schemas.EvaluationData) string
}

// State is what the summary panel shows.
type State struct {
	Token        string
	EvaluationID string
	Platform     string
	Loading      bool
	Text         string
}

// Summaries tracks the selected evaluation's summary request. Each request
// gets a token; a result is only shown if its token is still the current
// one, so a slow answer for an earlier selection never replaces a newer one.
type Summaries struct {
	ctx        context.Context
	summarizer Summarizer
	logger     *slog.Logger
	metrics    *metrics.Metrics

	mu      sync.Mutex
	current State
	pending map[string]chan struct{}
}

// NewSummaries runs requests under ctx; cancelling it abandons any in flight.
func NewSummaries(ctx context.Context, s Summarizer, logger *slog.Logger, m *metrics.Metrics) *Summaries {
	if logger == nil {
		logger = slog.Default()
	}
	if m == nil {
		m = metrics.New()
	}
	return &Summaries{
		ctx:        ctx,
		summarizer: s,
		logger:     logger,
		metrics:    m,
		pending:    make(map[string]chan struct{}),
	}
}

// Request selects ev and starts generating its summary. It returns at once
// with the request token.
func (s *Summaries) Request(ev schemas.EvaluationData) string {
	token := uuid.NewString()
	done := make(chan struct{})

	s.mu.Lock()
	s.current = State{Token: token, EvaluationID: ev.ID, Platform: ev.PlatformEvaluated, Loading: true}
	s.pending[token] = done
	s.mu.Unlock()

	s.logger.Info("summary requested", slog.String("evaluation", ev.ID), slog.String("token", token))
	go func() {
		text := s.summarizer.Summarize(s.ctx, ev)
		s.resolve(token, text)
	}()
	return token
}

func (s *Summaries) resolve(token, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if done, ok := s.pending[token]; ok {
		close(done)
		delete(s.pending, token)
	}
	if s.current.Token != token {
		s.metrics.Summaries.WithLabelValues(metrics.OutcomeStale).Inc()
		s.logger.Debug("dropping stale summary", slog.String("token", token))
		return
	}
	outcome := metrics.OutcomeOK
	if summary.IsErrorText(text) {
		outcome = metrics.OutcomeError
	}
	s.metrics.Summaries.WithLabelValues(outcome).Inc()
	s.current.Loading = false
	s.current.Text = text
}

// State returns the current panel state.
func (s *Summaries) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Wait blocks until the request with token has resolved, then returns the
// panel state. Unknown or finished tokens return immediately.
func (s *Summaries) Wait(ctx context.Context, token string) (State, error) {
	s.mu.Lock()
	done, ok := s.pending[token]
	s.mu.Unlock()
	if ok {
		select {
		case <-done:
		case <-ctx.Done():
			return State{}, ctx.Err()
		}
	}
	return s.State(), nil
}
