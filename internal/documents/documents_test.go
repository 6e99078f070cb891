package documents_test

import (
	"context"
	"errors"
	"portal/internal/documents"
	"portal/pkg/domain"
	"portal/pkg/serrors"
	"portal/pkg/storage"
	"testing"
	"time"

	mockobjectstore "portal/pkg/objectstore/mock"
	mockstorage "portal/pkg/storage/mock"

	"github.com/riverqueue/river"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const (
	sourceURL = "nyc3.digitaloceanspaces.com/sitimm-files/revistas/enero.pdf"
	canonical = "https://sitimm-files.nyc3.digitaloceanspaces.com/revistas/enero.pdf"
	objectKey = "revistas/enero.pdf"
)

func newTestService(t *testing.T) (*gomock.Controller,
	*mockstorage.MockStorage,
	*mockobjectstore.MockClient,
	documents.Service) {
	t.Helper()

	ctrl := gomock.NewController(t)
	st := mockstorage.NewMockStorage(ctrl)
	objects := mockobjectstore.NewMockClient(ctrl)
	s := documents.New(st, objects, documents.Options{MaxAttempts: 3, ResultCacheTTL: time.Hour})

	return ctrl, st, objects, s
}

// expectWithTx wires Storage.WithTx to run the callback with a MockAllStorage.
func expectWithTx(
	t *testing.T,
	ctrl *gomock.Controller,
	m *mockstorage.MockStorage,
	fn func(tx *mockstorage.MockAllStorage)) {
	t.Helper()

	m.EXPECT().WithTx(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, cb func(storage.AllStorage) error) error {
			tx := mockstorage.NewMockAllStorage(ctrl)
			if fn != nil {
				fn(tx)
			}

			return cb(tx)
		},
	)
}

func echoStore(_ context.Context, docs ...domain.Document) ([]domain.Document, error) {
	return docs, nil
}

func TestService_Register_JobAdded(t *testing.T) {
	ctrl, st, _, s := newTestService(t)

	expectWithTx(t, ctrl, st, func(tx *mockstorage.MockAllStorage) {
		tx.EXPECT().StoreDocuments(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, docs ...domain.Document) ([]domain.Document, error) {
				require.Len(t, docs, 1)
				require.Equal(t, sourceURL, docs[0].SourceURL)
				require.Equal(t, canonical, docs[0].URL)
				require.Equal(t, domain.DocumentStatusPending, docs[0].Status)

				return docs, nil
			},
		)
		tx.EXPECT().AddJob(gomock.Any(), gomock.Any(), gomock.Nil()).DoAndReturn(
			func(_ context.Context, args river.JobArgs, _ *river.InsertOpts) (bool, error) {
				jobArgs, ok := args.(documents.JobArgs)
				require.True(t, ok)
				require.Equal(t, canonical, jobArgs.URL)
				require.Equal(t, 3, jobArgs.InsertOpts().MaxAttempts)
				require.Equal(t, time.Hour, jobArgs.InsertOpts().UniqueOpts.ByPeriod)

				return true, nil
			},
		)
	})

	doc, err := s.Register(context.Background(), domain.UserID{}, "  "+sourceURL+" ")
	require.NoError(t, err)
	require.Equal(t, canonical, doc.URL)
	require.Equal(t, domain.DocumentStatusPending, doc.Status)
}

func TestService_Register_ReusesLastCheck(t *testing.T) {
	ctrl, st, _, s := newTestService(t)

	checked := domain.Document{
		Status: domain.DocumentStatusAvailable,
		Object: &domain.ObjectInfo{Size: 42, ContentType: "application/pdf"},
	}

	expectWithTx(t, ctrl, st, func(tx *mockstorage.MockAllStorage) {
		tx.EXPECT().StoreDocuments(gomock.Any(), gomock.Any()).DoAndReturn(echoStore)
		tx.EXPECT().AddJob(gomock.Any(), gomock.Any(), gomock.Nil()).Return(false, nil)
		tx.EXPECT().LastCheckedDocumentByURL(gomock.Any(), canonical).Return(&checked, nil)
		tx.EXPECT().UpdateDocumentByID(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, _ domain.DocumentID, updates storage.DocumentUpdates) (*domain.Document, error) {
				require.Equal(t, domain.DocumentStatusAvailable, updates.Status)
				require.Equal(t, checked.Object, updates.Object)
				require.True(t, updates.SkipAttempt)

				return &domain.Document{URL: canonical, Status: updates.Status, Object: updates.Object}, nil
			},
		)
	})

	doc, err := s.Register(context.Background(), domain.UserID{}, canonical)
	require.NoError(t, err)
	require.Equal(t, domain.DocumentStatusAvailable, doc.Status)
	require.Equal(t, int64(42), doc.Object.Size)
}

func TestService_Register_ReusesCheckOfDeletedDocument(t *testing.T) {
	ctrl, st, _, s := newTestService(t)

	// the completed job dedupes the insert and only a deleted row carries its result
	checked := domain.Document{
		Status:    domain.DocumentStatusMissing,
		DeletedAt: time.Now().Add(-time.Minute),
	}

	expectWithTx(t, ctrl, st, func(tx *mockstorage.MockAllStorage) {
		tx.EXPECT().StoreDocuments(gomock.Any(), gomock.Any()).DoAndReturn(echoStore)
		tx.EXPECT().AddJob(gomock.Any(), gomock.Any(), gomock.Nil()).Return(false, nil)
		tx.EXPECT().LastCheckedDocumentByURL(gomock.Any(), canonical).Return(&checked, nil)
		tx.EXPECT().UpdateDocumentByID(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, _ domain.DocumentID, updates storage.DocumentUpdates) (*domain.Document, error) {
				require.Equal(t, domain.DocumentStatusMissing, updates.Status)
				require.True(t, updates.SkipAttempt)

				return &domain.Document{URL: canonical, Status: updates.Status}, nil
			},
		)
	})

	doc, err := s.Register(context.Background(), domain.UserID{}, canonical)
	require.NoError(t, err)
	require.Equal(t, domain.DocumentStatusMissing, doc.Status)
	require.True(t, doc.DeletedAt.IsZero())
}

func TestService_Register_PendingWhenJobQueued(t *testing.T) {
	ctrl, st, _, s := newTestService(t)

	expectWithTx(t, ctrl, st, func(tx *mockstorage.MockAllStorage) {
		tx.EXPECT().StoreDocuments(gomock.Any(), gomock.Any()).DoAndReturn(echoStore)
		tx.EXPECT().AddJob(gomock.Any(), gomock.Any(), gomock.Nil()).Return(false, nil)
		tx.EXPECT().LastCheckedDocumentByURL(gomock.Any(), canonical).Return(nil, nil)
	})

	doc, err := s.Register(context.Background(), domain.UserID{}, "revistas/enero.pdf")
	require.NoError(t, err)
	require.Equal(t, domain.DocumentStatusPending, doc.Status)
}

func TestService_Register_InvalidURL(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{name: "blank", raw: "   "},
		{name: "unrelated host", raw: "https://example.com/file.pdf"},
		{name: "bucket root", raw: "https://sitimm-files.nyc3.digitaloceanspaces.com/"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, _, s := newTestService(t)

			_, err := s.Register(context.Background(), domain.UserID{}, tc.raw)
			require.Error(t, err)
			require.ErrorIs(t, err, serrors.ErrBadRequest)
		})
	}
}

func TestService_Register_PropagatesErrors(t *testing.T) {
	ctrl, st, _, s := newTestService(t)
	ctx := context.Background()

	expectWithTx(t, ctrl, st, func(tx *mockstorage.MockAllStorage) {
		tx.EXPECT().StoreDocuments(gomock.Any(), gomock.Any()).Return(nil, errors.New("store err"))
	})
	_, err := s.Register(ctx, domain.UserID{}, canonical)
	require.ErrorContains(t, err, "store err")

	expectWithTx(t, ctrl, st, func(tx *mockstorage.MockAllStorage) {
		tx.EXPECT().StoreDocuments(gomock.Any(), gomock.Any()).DoAndReturn(echoStore)
		tx.EXPECT().AddJob(gomock.Any(), gomock.Any(), gomock.Nil()).Return(false, errors.New("add err"))
	})
	_, err = s.Register(ctx, domain.UserID{}, canonical)
	require.ErrorContains(t, err, "add err")

	expectWithTx(t, ctrl, st, func(tx *mockstorage.MockAllStorage) {
		tx.EXPECT().StoreDocuments(gomock.Any(), gomock.Any()).DoAndReturn(echoStore)
		tx.EXPECT().AddJob(gomock.Any(), gomock.Any(), gomock.Nil()).Return(false, nil)
		tx.EXPECT().LastCheckedDocumentByURL(gomock.Any(), canonical).Return(nil, errors.New("last err"))
	})
	_, err = s.Register(ctx, domain.UserID{}, canonical)
	require.ErrorContains(t, err, "last err")

	expectWithTx(t, ctrl, st, func(tx *mockstorage.MockAllStorage) {
		tx.EXPECT().StoreDocuments(gomock.Any(), gomock.Any()).DoAndReturn(echoStore)
		tx.EXPECT().AddJob(gomock.Any(), gomock.Any(), gomock.Nil()).Return(false, nil)
		tx.EXPECT().LastCheckedDocumentByURL(gomock.Any(), canonical).
			Return(&domain.Document{Status: domain.DocumentStatusMissing}, nil)
		tx.EXPECT().UpdateDocumentByID(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("update err"))
	})
	_, err = s.Register(ctx, domain.UserID{}, canonical)
	require.ErrorContains(t, err, "update err")
}

func TestService_UserDocuments(t *testing.T) {
	_, st, _, s := newTestService(t)
	userID := domain.UserID{}
	cursorTime := time.Date(2024, time.March, 1, 10, 0, 0, 123456000, time.UTC)
	next := cursorTime.Add(-time.Minute)

	st.EXPECT().UserDocuments(gomock.Any(), userID, domain.DocumentStatusPending, cursorTime, uint(10)).
		Return(storage.UserDocuments{
			Documents:  []domain.Document{{URL: canonical}},
			NextCursor: &next,
		}, nil)

	docs, nextCursor, err := s.UserDocuments(context.Background(),
		userID,
		domain.DocumentStatusPending,
		cursorTime.Format(time.RFC3339Nano),
		10)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	require.Equal(t, next.Format(time.RFC3339Nano), nextCursor)
}

func TestService_UserDocuments_Limits(t *testing.T) {
	_, st, _, s := newTestService(t)

	st.EXPECT().UserDocuments(gomock.Any(), gomock.Any(), gomock.Any(), time.Time{}, uint(documents.DefaultLimit)).
		Return(storage.UserDocuments{}, nil)
	_, next, err := s.UserDocuments(context.Background(), domain.UserID{}, "", "", 0)
	require.NoError(t, err)
	require.Empty(t, next)

	st.EXPECT().UserDocuments(gomock.Any(), gomock.Any(), gomock.Any(), time.Time{}, uint(documents.MaxLimit)).
		Return(storage.UserDocuments{}, nil)
	_, _, err = s.UserDocuments(context.Background(), domain.UserID{}, "", "", 1000)
	require.NoError(t, err)
}

func TestService_UserDocuments_BadInput(t *testing.T) {
	_, _, _, s := newTestService(t)

	_, _, err := s.UserDocuments(context.Background(), domain.UserID{}, "", "not-a-time", 5)
	require.ErrorIs(t, err, serrors.ErrBadRequest)

	_, _, err = s.UserDocuments(context.Background(), domain.UserID{}, "DONE", "", 5)
	require.ErrorIs(t, err, serrors.ErrBadRequest)
}

func TestService_Document(t *testing.T) {
	_, st, _, s := newTestService(t)
	userID := domain.UserID{}
	id := domain.DocumentID{}

	st.EXPECT().DocumentByID(gomock.Any(), userID, id).Return(&domain.Document{URL: canonical}, nil)
	doc, err := s.Document(context.Background(), userID, id)
	require.NoError(t, err)
	require.Equal(t, canonical, doc.URL)

	st.EXPECT().DocumentByID(gomock.Any(), userID, id).Return(nil, nil)
	_, err = s.Document(context.Background(), userID, id)
	require.ErrorIs(t, err, serrors.ErrNotFound)

	st.EXPECT().DocumentByID(gomock.Any(), userID, id).Return(nil, errors.New("boom"))
	_, err = s.Document(context.Background(), userID, id)
	require.Error(t, err)
	require.NotErrorIs(t, err, serrors.ErrNotFound)
}

func TestService_Delete(t *testing.T) {
	_, st, _, s := newTestService(t)
	userID := domain.UserID{}
	id := domain.DocumentID{}

	st.EXPECT().DeleteDocument(gomock.Any(), userID, id).Return(&domain.Document{}, nil)
	require.NoError(t, s.Delete(context.Background(), userID, id))

	st.EXPECT().DeleteDocument(gomock.Any(), userID, id).Return(nil, nil)
	require.ErrorIs(t, s.Delete(context.Background(), userID, id), serrors.ErrNotFound)

	st.EXPECT().DeleteDocument(gomock.Any(), userID, id).Return(nil, errors.New("boom"))
	require.Error(t, s.Delete(context.Background(), userID, id))
}

func TestService_Check_NoPendingDocuments(t *testing.T) {
	_, st, _, s := newTestService(t)

	st.EXPECT().PendingDocumentCountByURL(gomock.Any(), canonical).Return(int64(0), nil)

	err := s.Check(context.Background(), canonical)
	require.ErrorIs(t, err, serrors.ErrConflict)
}

func TestService_Check_Available(t *testing.T) {
	_, st, objects, s := newTestService(t)
	info := &domain.ObjectInfo{Size: 2048, ContentType: "application/pdf"}

	st.EXPECT().PendingDocumentCountByURL(gomock.Any(), canonical).Return(int64(2), nil)
	objects.EXPECT().Stat(gomock.Any(), objectKey).Return(info, nil)
	st.EXPECT().UpdatePendingDocumentsByURL(gomock.Any(), canonical, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, updates storage.DocumentUpdates) error {
			require.Equal(t, domain.DocumentStatusAvailable, updates.Status)
			require.Equal(t, info, updates.Object)
			require.NotNil(t, updates.LastError)
			require.Empty(t, *updates.LastError)

			return nil
		},
	)

	require.NoError(t, s.Check(context.Background(), canonical))
}

func TestService_Check_Missing(t *testing.T) {
	_, st, objects, s := newTestService(t)

	st.EXPECT().PendingDocumentCountByURL(gomock.Any(), canonical).Return(int64(1), nil)
	objects.EXPECT().Stat(gomock.Any(), objectKey).Return(nil, serrors.With(serrors.ErrNotFound, "gone"))
	st.EXPECT().UpdatePendingDocumentsByURL(gomock.Any(), canonical, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, updates storage.DocumentUpdates) error {
			require.Equal(t, domain.DocumentStatusMissing, updates.Status)

			return nil
		},
	)

	require.NoError(t, s.Check(context.Background(), canonical))
}

func TestService_Check_RateLimitedDoesNotRecord(t *testing.T) {
	_, st, objects, s := newTestService(t)

	st.EXPECT().PendingDocumentCountByURL(gomock.Any(), canonical).Return(int64(1), nil)
	objects.EXPECT().Stat(gomock.Any(), objectKey).Return(nil, serrors.With(serrors.ErrRateLimited, "slow down"))

	err := s.Check(context.Background(), canonical)
	require.ErrorIs(t, err, serrors.ErrRateLimited)
}

func TestService_Check_FailureCountsAttempt(t *testing.T) {
	_, st, objects, s := newTestService(t)

	st.EXPECT().PendingDocumentCountByURL(gomock.Any(), canonical).Return(int64(1), nil)
	objects.EXPECT().Stat(gomock.Any(), objectKey).Return(nil, errors.New("connection reset"))
	st.EXPECT().UpdatePendingDocumentsByURL(gomock.Any(), canonical, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, updates storage.DocumentUpdates) error {
			require.Equal(t, domain.DocumentStatusFailed, updates.Status)
			require.Equal(t, 3, updates.MaxAttempts)
			require.Equal(t, "connection reset", *updates.LastError)

			return nil
		},
	)

	err := s.Check(context.Background(), canonical)
	require.ErrorContains(t, err, "connection reset")
}

func TestService_Check_NotABucketURL(t *testing.T) {
	_, st, _, s := newTestService(t)
	URL := "https://example.com/a.pdf"

	st.EXPECT().PendingDocumentCountByURL(gomock.Any(), URL).Return(int64(1), nil)
	st.EXPECT().UpdatePendingDocumentsByURL(gomock.Any(), URL, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, updates storage.DocumentUpdates) error {
			require.Equal(t, domain.DocumentStatusFailed, updates.Status)
			require.Zero(t, updates.MaxAttempts)

			return nil
		},
	)

	require.NoError(t, s.Check(context.Background(), URL))
}
