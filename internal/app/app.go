// Package app owns the list of saved evaluations. Everything else reads
// copies of it; Append is the only way to change it.
package app

import (
	"context"
	"log/slog"
	"sync"

	"lms-evaluation/internal/metrics"
	"lms-evaluation/internal/schemas"
	"lms-evaluation/internal/storage"
)

type App struct {
	store   storage.Store
	logger  *slog.Logger
	metrics *metrics.Metrics

	mu          sync.RWMutex
	evaluations []schemas.EvaluationData
	loaded      bool
}

func New(store storage.Store, logger *slog.Logger, m *metrics.Metrics) *App {
	if logger == nil {
		logger = slog.Default()
	}
	if m == nil {
		m = metrics.New()
	}
	return &App{store: store, logger: logger, metrics: m}
}

// Load reads the stored list once at startup. A failed or corrupt load is
// logged and leaves the list empty.
func (a *App) Load(ctx context.Context) {
	list, err := a.store.Load(ctx)
	if err != nil {
		a.logger.Error("failed to load evaluations", slog.String("error", err.Error()))
		a.metrics.StoreErrors.WithLabelValues("load").Inc()
		list = nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.evaluations = list
	a.loaded = true
	a.logger.Info("evaluations loaded", slog.Int("count", len(list)))
}

// Evaluations returns a copy of the list in insertion order.
func (a *App) Evaluations() []schemas.EvaluationData {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]schemas.EvaluationData, len(a.evaluations))
	for i, ev := range a.evaluations {
		out[i] = ev.Clone()
	}
	return out
}

func (a *App) Get(id string) (schemas.EvaluationData, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	for _, ev := range a.evaluations {
		if ev.ID == id {
			return ev.Clone(), true
		}
	}
	return schemas.EvaluationData{}, false
}

// Append adds a saved evaluation and writes the whole list back. A write
// failure is logged and dropped; the record stays in memory.
func (a *App) Append(ctx context.Context, ev schemas.EvaluationData) {
	// saves land in append order
	a.mu.Lock()
	defer a.mu.Unlock()

	a.evaluations = append(a.evaluations, ev.Clone())
	a.metrics.EvaluationsSaved.Inc()
	if !a.loaded {
		return
	}
	if err := a.store.Save(context.WithoutCancel(ctx), a.evaluations); err != nil {
		a.logger.Error("failed to save evaluations", slog.String("error", err.Error()))
		a.metrics.StoreErrors.WithLabelValues("save").Inc()
	}
}
