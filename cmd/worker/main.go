package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"lms-evaluation/internal/config"
	"lms-evaluation/internal/rubric"
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
	var (
		configPath  string
		concurrency int
	)

	cmd := &cobra.Command{
		Use:          "worker",
		Short:        "Generate AI summaries from the Redis queue",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.NewLoader(nil).Load(configPath)
			if err != nil {
				return err
			}
			if cfg.Queue.RedisAddr == "" {
				return errors.New("REDIS_ADDR (queue.redis_addr) is required")
			}
			logger := config.NewLogger(cfg.Log)
			slog.SetDefault(logger)

			r := rubric.Default()
			if cfg.RubricFile != "" {
				if r, err = rubric.Load(cfg.RubricFile); err != nil {
					return err
				}
			}
			r.WarnWeights(logger)

			gen, err := summary.NewGenerator(cmd.Context(), cfg.GeneratorConfig())
			switch {
			case errors.Is(err, summary.ErrMissingCredential):
				logger.Warn("API_KEY is not set; summaries will report the missing key")
				gen = nil
			case err != nil:
				return err
			}
			svc := summary.NewService(r, gen, cfg.AI.Timeout, logger)

			logger.Info("worker starting", slog.String("redis", cfg.Queue.RedisAddr), slog.String("queue", cfg.Queue.Queue))
			return worker.Run(cfg.Queue.RedisAddr, cfg.Queue.Queue, concurrency, svc, logger)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "Path to a YAML config file")
	cmd.Flags().IntVar(&concurrency, "concurrency", 5, "Number of summaries generated at once")
	return cmd
}
