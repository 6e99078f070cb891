package worker_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riverqueue/river"
	"github.com/riverqueue/river/rivertype"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/time/rate"

	"portal/internal/documents"
	mockdocuments "portal/internal/documents/mock"
	"portal/internal/worker"
	"portal/pkg/logger"
	"portal/pkg/serrors"
)

func TestMain(m *testing.M) {
	logger.Setup(logger.DevelopmentEnvironment)
	m.Run()
}

func makeJob(id int64, url string) *river.Job[documents.JobArgs] {
	return &river.Job[documents.JobArgs]{
		JobRow: &rivertype.JobRow{ID: id},
		Args:   documents.JobArgs{URL: url},
	}
}

func TestDocumentCheckWorker_Work_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	mock := mockdocuments.NewMockService(ctrl)
	w := worker.NewDocumentCheckWorker(mock, nil)

	mock.EXPECT().Check(gomock.Any(), "https://ok").Return(nil)

	require.NoError(t, w.Work(context.Background(), makeJob(1, "https://ok")))
}

func TestDocumentCheckWorker_Work_ConflictCancels(t *testing.T) {
	ctrl := gomock.NewController(t)
	mock := mockdocuments.NewMockService(ctrl)
	w := worker.NewDocumentCheckWorker(mock, nil)

	mock.EXPECT().Check(gomock.Any(), "https://conflict").Return(serrors.With(serrors.ErrConflict, "nothing pending"))

	err := w.Work(context.Background(), makeJob(2, "https://conflict"))
	require.Error(t, err)
	var cancelErr *river.JobCancelError
	require.ErrorAs(t, err, &cancelErr)
}

func TestDocumentCheckWorker_Work_RateLimitedSnoozes(t *testing.T) {
	ctrl := gomock.NewController(t)
	mock := mockdocuments.NewMockService(ctrl)
	w := worker.NewDocumentCheckWorker(mock, nil)

	mock.EXPECT().Check(gomock.Any(), "https://rl").Return(serrors.With(serrors.ErrRateLimited, "slow down"))

	err := w.Work(context.Background(), makeJob(3, "https://rl"))
	require.Error(t, err)
	var snoozeErr *river.JobSnoozeError
	require.ErrorAs(t, err, &snoozeErr)
	require.Equal(t, worker.DefaultSnooze, snoozeErr.Duration)
}

func TestDocumentCheckWorker_Work_OtherErrorRetries(t *testing.T) {
	ctrl := gomock.NewController(t)
	mock := mockdocuments.NewMockService(ctrl)
	w := worker.NewDocumentCheckWorker(mock, nil)

	checkErr := errors.New("connection reset")
	mock.EXPECT().Check(gomock.Any(), "https://err").Return(checkErr)

	err := w.Work(context.Background(), makeJob(4, "https://err"))
	require.ErrorIs(t, err, checkErr)
	var cancelErr *river.JobCancelError
	require.False(t, errors.As(err, &cancelErr))
}

func TestDocumentCheckWorker_Work_WaitsForToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	mock := mockdocuments.NewMockService(ctrl)

	limiter := rate.NewLimiter(rate.Every(time.Hour), 1)
	w := worker.NewDocumentCheckWorker(mock, limiter)

	// first job takes the only token
	mock.EXPECT().Check(gomock.Any(), "https://a").Return(nil)
	require.NoError(t, w.Work(context.Background(), makeJob(5, "https://a")))

	// second job cannot get a token before its deadline and never calls Check
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := w.Work(ctx, makeJob(6, "https://b"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "rate limit")
}

func TestDocumentCheckWorker_Work_Throttles(t *testing.T) {
	ctrl := gomock.NewController(t)
	mock := mockdocuments.NewMockService(ctrl)

	limiter := rate.NewLimiter(rate.Every(20*time.Millisecond), 1)
	w := worker.NewDocumentCheckWorker(mock, limiter)

	mock.EXPECT().Check(gomock.Any(), gomock.Any()).Return(nil).Times(4)

	start := time.Now()
	for i := range 4 {
		require.NoError(t, w.Work(context.Background(), makeJob(int64(10+i), "https://t")))
	}

	require.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}

func TestOptions_Limiter(t *testing.T) {
	require.Equal(t, rate.Inf, worker.Options{}.Limiter().Limit())

	l := worker.Options{ChecksPerSecond: 5, ChecksBurst: 0}.Limiter()
	require.Equal(t, rate.Limit(5), l.Limit())
	require.Equal(t, 1, l.Burst())
}
