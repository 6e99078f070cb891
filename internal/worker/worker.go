// Package worker runs the River background workers.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"portal/internal/config"
	"portal/internal/documents"
	"portal/pkg/logger"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"go.uber.org/zap/exp/zapslog"
	"golang.org/x/time/rate"
)

// Options configure the worker pool.
type Options struct {
	// MaxWorkers is the number of jobs run concurrently.
	MaxWorkers int
	// ChecksPerSecond throttles object storage requests. Zero or less disables it.
	ChecksPerSecond float64
	// ChecksBurst is the token bucket size.
	ChecksBurst int
}

// NewOptions constructs an Options value from the provided application config.
func NewOptions(cfg *config.Config) Options {
	return Options{
		MaxWorkers:      cfg.Documents.Workers,
		ChecksPerSecond: cfg.Documents.ChecksPerSecond,
		ChecksBurst:     cfg.Documents.ChecksBurst,
	}
}

// Limiter returns the token bucket described by the options.
func (o Options) Limiter() *rate.Limiter {
	if o.ChecksPerSecond <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}

	return rate.NewLimiter(rate.Limit(o.ChecksPerSecond), max(o.ChecksBurst, 1))
}

// Start registers the workers and starts processing the default queue.
func Start(ctx context.Context,
	dbPool *pgxpool.Pool,
	service documents.Service,
	opts Options) (*river.Client[pgx.Tx], error) {
	workers := river.NewWorkers()
	river.AddWorker(workers, NewDocumentCheckWorker(service, opts.Limiter()))

	maxWorkers := opts.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = 1
	}

	riverClient, err := river.NewClient(riverpgxv5.New(dbPool), &river.Config{
		Queues: map[string]river.QueueConfig{
			river.QueueDefault: {MaxWorkers: maxWorkers},
		},
		Workers: workers,
		Logger:  slog.New(zapslog.NewHandler(logger.Get(ctx).Core())),
	})
	if err != nil {
		return nil, fmt.Errorf("could not create river queue client: %w", err)
	}

	if err := riverClient.Start(ctx); err != nil {
		return nil, fmt.Errorf("could not start river queue client: %w", err)
	}

	return riverClient, nil
}
