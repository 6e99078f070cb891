package worker

import (
	"context"
	"errors"
	"fmt"
	"portal/internal/documents"
	"portal/pkg/logger"
	"portal/pkg/serrors"
	"time"

	"github.com/riverqueue/river"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// DefaultSnooze is how long a check is postponed after object storage asked
// to slow down.
const DefaultSnooze = 30 * time.Second

// DocumentCheckWorker runs availability checks of document URLs. All of its
// concurrent jobs share one token bucket so the bucket provider sees at most
// the configured request rate from this process.
//
// Error handling: a conflict (nothing pending for the URL anymore) cancels the
// job, a rate limit snoozes it without spending an attempt and any other error
// is returned so River retries with its backoff.
type DocumentCheckWorker struct {
	river.WorkerDefaults[documents.JobArgs]

	documents documents.Service
	limiter   *rate.Limiter
	snooze    time.Duration
}

// NewDocumentCheckWorker constructs a worker throttled by limiter. A nil
// limiter disables throttling.
func NewDocumentCheckWorker(service documents.Service, limiter *rate.Limiter) *DocumentCheckWorker {
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Inf, 0)
	}

	return &DocumentCheckWorker{
		documents: service,
		limiter:   limiter,
		snooze:    DefaultSnooze,
	}
}

// Work waits for a token and checks the job URL.
func (w *DocumentCheckWorker) Work(ctx context.Context, job *river.Job[documents.JobArgs]) error {
	ctx = logger.WithFields(ctx, zap.Int64("jobID", job.ID), zap.String("URL", job.Args.URL))

	if err := w.limiter.Wait(ctx); err != nil {
		logger.Error(ctx, "error waiting for rate limit", zap.Error(err))

		return fmt.Errorf("could not reserve rate limit: %w", err)
	}

	if err := w.documents.Check(ctx, job.Args.URL); err != nil {
		if errors.Is(err, serrors.ErrConflict) {
			logger.Debug(ctx, "no pending documents, cancelling check")

			return river.JobCancel(err) //nolint: wrapcheck
		}

		if errors.Is(err, serrors.ErrRateLimited) {
			logger.Warn(ctx, "object storage rate limited the check", zap.Error(err))

			return river.JobSnooze(w.snooze) //nolint: wrapcheck
		}

		logger.Error(ctx, "error in checking document", zap.Error(err))

		return fmt.Errorf("could not check document: %w", err)
	}

	logger.Info(ctx, "document checked successfully")

	return nil
}
