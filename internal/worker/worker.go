// Package worker runs summary generation off the API process on an asynq
// queue backed by Redis.
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/hibiken/asynq"

	"lms-evaluation/internal/schemas"
)

// TaskGenerateSummary carries one evaluation as its JSON payload. The
// summary text is written back as the task result.
const TaskGenerateSummary = "generate_summary"

// Summarizer is satisfied by summary.Service.
type Summarizer interface {
	Summarize(ctx context.Context, ev schemas.EvaluationData) string
}

func NewSummaryTask(ev schemas.EvaluationData) (*asynq.Task, error) {
	b, err := json.Marshal(ev)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskGenerateSummary, b), nil
}

type Server struct {
	Summaries Summarizer
	Logger    *slog.Logger
}

func (s *Server) mux() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskGenerateSummary, s.handleSummary)
	return mux
}

func (s *Server) handleSummary(ctx context.Context, t *asynq.Task) error {
	text, err := s.summarize(ctx, t.Payload())
	if err != nil {
		return err
	}
	if _, err := t.ResultWriter().Write([]byte(text)); err != nil {
		return fmt.Errorf("write summary result: %w", err)
	}
	return nil
}

func (s *Server) summarize(ctx context.Context, payload []byte) (string, error) {
	var ev schemas.EvaluationData
	if err := json.Unmarshal(payload, &ev); err != nil {
		// a malformed payload will never succeed
		return "", fmt.Errorf("decode evaluation: %v: %w", err, asynq.SkipRetry)
	}
	s.Logger.Info("generating summary", slog.String("evaluation", ev.ID), slog.String("platform", ev.PlatformEvaluated))
	text := s.Summaries.Summarize(ctx, ev)
	s.Logger.Info("summary done", slog.String("evaluation", ev.ID), slog.Int("chars", len(text)))
	return text, nil
}

// Run serves summary tasks from queue until the process is signalled.
func Run(redisAddr, queue string, concurrency int, svc Summarizer, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	if concurrency <= 0 {
		concurrency = 5
	}
	srv := asynq.NewServer(asynq.RedisClientOpt{Addr: redisAddr}, asynq.Config{
		Concurrency: concurrency,
		Queues:      map[string]int{queue: 1},
		Logger:      slogAdapter{logger},
	})
	w := &Server{Summaries: svc, Logger: logger}
	return srv.Run(w.mux())
}

// slogAdapter routes asynq's internal logging through slog.
type slogAdapter struct{ l *slog.Logger }

func (a slogAdapter) Debug(args ...any) { a.l.Debug(fmt.Sprint(args...)) }
func (a slogAdapter) Info(args ...any)  { a.l.Info(fmt.Sprint(args...)) }
func (a slogAdapter) Warn(args ...any)  { a.l.Warn(fmt.Sprint(args...)) }
func (a slogAdapter) Error(args ...any) { a.l.Error(fmt.Sprint(args...)) }
func (a slogAdapter) Fatal(args ...any) {
	a.l.Error(fmt.Sprint(args...))
	os.Exit(1)
}
