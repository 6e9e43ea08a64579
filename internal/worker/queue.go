package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"lms-evaluation/internal/schemas"
	"lms-evaluation/internal/summary"
)

// DefaultPollInterval is how often Queue checks on an enqueued task.
const DefaultPollInterval = 500 * time.Millisecond

type enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

type inspector interface {
	GetTaskInfo(queue, id string) (*asynq.TaskInfo, error)
}

// Queue summarizes by enqueuing a task and polling until the worker has
// written its result. Like summary.Service it reports failures as text.
type Queue struct {
	client    enqueuer
	inspector inspector
	queue     string
	poll      time.Duration
	timeout   time.Duration // zero waits until ctx is done
	logger    *slog.Logger
	closers   []func() error
}

// NewQueue connects to Redis. Each Summarize call waits at most timeout for
// the worker's result.
func NewQueue(redisAddr, queue string, poll, timeout time.Duration, logger *slog.Logger) *Queue {
	opt := asynq.RedisClientOpt{Addr: redisAddr}
	client := asynq.NewClient(opt)
	insp := asynq.NewInspector(opt)
	q := newQueue(client, insp, queue, poll, logger)
	q.timeout = timeout
	q.closers = []func() error{client.Close, insp.Close}
	return q
}

func newQueue(c enqueuer, i inspector, queue string, poll time.Duration, logger *slog.Logger) *Queue {
	if queue == "" {
		queue = "default"
	}
	if poll <= 0 {
		poll = DefaultPollInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Queue{client: c, inspector: i, queue: queue, poll: poll, logger: logger}
}

func (q *Queue) Close() error {
	var first error
	for _, c := range q.closers {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (q *Queue) Summarize(ctx context.Context, ev schemas.EvaluationData) string {
	if q.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, q.timeout)
		defer cancel()
	}
	task, err := NewSummaryTask(ev)
	if err != nil {
		return summary.ErrorMessage(err.Error())
	}
	info, err := q.client.EnqueueContext(ctx, task,
		asynq.Queue(q.queue),
		asynq.MaxRetry(0),
		asynq.Retention(time.Hour),
	)
	if err != nil {
		q.logger.Error("enqueue summary", slog.String("evaluation", ev.ID), slog.String("error", err.Error()))
		return summary.ErrorMessage(err.Error())
	}
	q.logger.Debug("summary enqueued", slog.String("evaluation", ev.ID), slog.String("task", info.ID))

	ticker := time.NewTicker(q.poll)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			q.logger.Warn("summary wait ended", slog.String("task", info.ID), slog.String("error", ctx.Err().Error()))
			return summary.ErrorMessage(ctx.Err().Error())
		case <-ticker.C:
		}
		got, err := q.inspector.GetTaskInfo(info.Queue, info.ID)
		if err != nil {
			q.logger.Error("inspect summary task", slog.String("task", info.ID), slog.String("error", err.Error()))
			return summary.ErrorMessage(err.Error())
		}
		switch got.State {
		case asynq.TaskStateCompleted:
			return string(got.Result)
		case asynq.TaskStateArchived:
			if got.LastErr == "" {
				return summary.UnknownMessage
			}
			return summary.ErrorMessage(got.LastErr)
		}
	}
}
