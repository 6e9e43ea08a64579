package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"lms-evaluation/internal/app"
	"lms-evaluation/internal/config"
	"lms-evaluation/internal/dashboard"
	"lms-evaluation/internal/form"
	httpSrv "lms-evaluation/internal/http"
	"lms-evaluation/internal/metrics"
	"lms-evaluation/internal/rubric"
	"lms-evaluation/internal/storage"
	"lms-evaluation/internal/summary"
	"lms-evaluation/internal/worker"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "api",
		Short: "Serve the LMS evaluation form and dashboard",
		Long: `Serve the LMS evaluation form, dashboard and JSON API.

Configuration is read from --config (or $LMSEVAL_CONFIG), a .env file and
environment variables, in that order of increasing precedence.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.NewLoader(nil).Load(configPath)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, cfg)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "Path to a YAML config file")
	return cmd
}

func loadRubric(cfg *config.Config) (rubric.Rubric, error) {
	if cfg.RubricFile == "" {
		return rubric.Default(), nil
	}
	return rubric.Load(cfg.RubricFile)
}

func run(ctx context.Context, cfg *config.Config) error {
	logger := config.NewLogger(cfg.Log)
	slog.SetDefault(logger)

	r, err := loadRubric(cfg)
	if err != nil {
		return err
	}
	if err := r.Validate(); err != nil {
		return fmt.Errorf("rubric: %w", err)
	}
	r.WarnWeights(logger)

	store, closeStore, err := storage.Open(ctx, cfg.StorageOptions(), logger)
	if err != nil {
		return err
	}
	defer closeStore()
	logger.Info("storage ready", slog.String("driver", cfg.Storage.Driver))

	mt := metrics.New()
	a := app.New(store, logger, mt)
	a.Load(ctx)

	var summarizer dashboard.Summarizer
	if cfg.Queue.RedisAddr != "" {
		q := worker.NewQueue(cfg.Queue.RedisAddr, cfg.Queue.Queue, cfg.Queue.PollInterval, cfg.AI.Timeout, logger)
		defer q.Close()
		summarizer = q
		logger.Info("summaries queued", slog.String("redis", cfg.Queue.RedisAddr), slog.String("queue", cfg.Queue.Queue))
	} else {
		svc, err := newSummaryService(ctx, cfg, r, logger)
		if err != nil {
			return err
		}
		summarizer = svc
	}

	s := &httpSrv.Server{
		Form:      form.New(r, form.WithSaveDelay(cfg.Server.SaveDelay), form.WithLogger(logger)),
		App:       a,
		Summaries: dashboard.NewSummaries(ctx, summarizer, logger, mt),
		Metrics:   mt,
		Logger:    logger,
	}
	if p, ok := store.(httpSrv.Pinger); ok {
		s.DB = p
	}
	srv := httpSrv.NewServer(cfg.Server.Addr, s)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", slog.String("addr", cfg.Server.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	logger.Info("shutting down")
	return srv.Shutdown(shutdown)
}

// newSummaryService builds the in-process summarizer. A missing API key is
// not fatal: summaries then report the missing credential.
func newSummaryService(ctx context.Context, cfg *config.Config, r rubric.Rubric, logger *slog.Logger) (*summary.Service, error) {
	gen, err := summary.NewGenerator(ctx, cfg.GeneratorConfig())
	switch {
	case errors.Is(err, summary.ErrMissingCredential):
		logger.Warn("API_KEY is not set; AI summaries are disabled")
		gen = nil
	case err != nil:
		return nil, err
	}
	return summary.NewService(r, gen, cfg.AI.Timeout, logger), nil
}
