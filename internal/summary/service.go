package summary

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"lms-evaluation/internal/rubric"
	"lms-evaluation/internal/schemas"
)

// Messages shown in place of a summary.
const (
	MissingKeyMessage = "Error: API_KEY environment variable is not set. Please configure it to use the AI summary feature."
	errorPrefix       = "An error occurred while generating the summary: "
	UnknownMessage    = "An unknown error occurred while generating the summary."
)

// ErrorMessage is the text shown for a failed generation.
func ErrorMessage(detail string) string {
	return errorPrefix + detail
}

// IsErrorText reports whether a summary is one of the failure messages.
func IsErrorText(s string) bool {
	return s == MissingKeyMessage || s == UnknownMessage || strings.HasPrefix(s, errorPrefix)
}

// Service writes executive summaries. A nil generator means no credential
// is configured.
type Service struct {
	rubric  rubric.Rubric
	gen     Generator
	timeout time.Duration
	logger  *slog.Logger
}

func NewService(r rubric.Rubric, gen Generator, timeout time.Duration, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{rubric: r, gen: gen, timeout: timeout, logger: logger}
}

// Summarize returns the generated summary or a readable error message. It
// never fails.
func (s *Service) Summarize(ctx context.Context, ev schemas.EvaluationData) string {
	if s.gen == nil {
		return MissingKeyMessage
	}
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	text, err := s.gen.Generate(ctx, Prompt(Report(s.rubric, ev)))
	if err != nil {
		s.logger.Error("error generating summary", slog.String("evaluation", ev.ID), slog.String("error", err.Error()))
		return ErrorMessage(err.Error())
	}
	if strings.TrimSpace(text) == "" {
		s.logger.Warn("empty summary from provider", slog.String("evaluation", ev.ID))
		return UnknownMessage
	}
	return text
}
