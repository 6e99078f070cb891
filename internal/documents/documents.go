// Package documents keeps the registry of magazine and bulletin PDFs. Every
// registered URL is normalized to the canonical bucket URL and checked in the
// background against object storage.
package documents

import (
	"context"
	"errors"
	"fmt"
	"portal/internal/config"
	"portal/pkg/domain"
	"portal/pkg/logger"
	"portal/pkg/objectstore"
	"portal/pkg/pdfurl"
	"portal/pkg/serrors"
	"portal/pkg/storage"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultLimit is the page size used when none is requested.
	DefaultLimit = 20
	// MaxLimit caps the page size.
	MaxLimit = 100
)

// Options configure how check jobs are enqueued and how results are reused.
type Options struct {
	// MaxAttempts is the number of failed checks after which documents are FAILED.
	MaxAttempts int
	// ResultCacheTTL is how long a check result is reused for new documents
	// with the same URL instead of checking again.
	ResultCacheTTL time.Duration
	// CheckTimeout bounds a single object storage request. Zero means no bound.
	CheckTimeout time.Duration
}

// NewOptions constructs an Options value from the provided application config.
func NewOptions(cfg *config.Config) Options {
	return Options{
		MaxAttempts:    cfg.Documents.MaxAttempts,
		ResultCacheTTL: cfg.Documents.ResultCacheTTL,
		CheckTimeout:   cfg.Storage.Timeout,
	}
}

type service struct {
	options Options
	storage storage.Storage
	objects objectstore.Client
}

// New creates a Service backed by storage for records and objects for checks.
func New(storage storage.Storage, objects objectstore.Client, options Options) Service {
	return &service{
		options: options,
		storage: storage,
		objects: objects,
	}
}

// Register normalizes rawURL, stores a pending document and enqueues a check.
// When a check for the same URL already ran within ResultCacheTTL its outcome
// is copied to the new document right away.
func (s *service) Register(ctx context.Context, userID domain.UserID, rawURL string) (*domain.Document, error) {
	res := pdfurl.Classify(rawURL)
	if res.Rule == pdfurl.RuleEmpty {
		return nil, serrors.With(serrors.ErrBadRequest, "url is required")
	}
	if _, ok := pdfurl.Key(res.URL); !ok {
		return nil, serrors.With(serrors.ErrBadRequest, "url %q is not a document of the files bucket", res.URL)
	}
	if res.Ambiguous {
		logger.Warn(ctx, "ambiguous document path",
			zap.String("source", rawURL),
			zap.String("url", res.URL),
			zap.String("rule", string(res.Rule)))
	}

	var document *domain.Document
	if err := s.storage.WithTx(ctx, func(tx storage.AllStorage) error {
		stored, err := tx.StoreDocuments(ctx, domain.Document{
			UserID:    userID,
			SourceURL: strings.TrimSpace(rawURL),
			URL:       res.URL,
			Status:    domain.DocumentStatusPending,
		})
		if err != nil {
			return fmt.Errorf("could not store document: %w", err)
		}
		document = &stored[0]

		jobAdded, err := tx.AddJob(ctx, JobArgs{
			URL:             res.URL,
			maxAttempts:     s.options.MaxAttempts,
			uniqueJobPeriod: s.options.ResultCacheTTL,
		}, nil)
		if err != nil {
			return fmt.Errorf("could not add job: %w", err)
		}
		if jobAdded {
			return nil
		}

		// a check for this URL is queued or already ran
		last, err := tx.LastCheckedDocumentByURL(ctx, res.URL)
		if err != nil {
			return fmt.Errorf("could not get last checked document: %w", err)
		}
		if last == nil {
			// the queued job updates every pending document of the URL
			return nil
		}

		updated, err := tx.UpdateDocumentByID(ctx, document.ID, storage.DocumentUpdates{
			Status:      last.Status,
			Object:      last.Object,
			SkipAttempt: true,
		})
		if err != nil {
			return fmt.Errorf("could not update document: %w", err)
		}
		if updated != nil {
			document = updated
		}

		return nil
	}); err != nil {
		return nil, fmt.Errorf("could not register document: %w", err)
	}

	return document, nil
}

// UserDocuments returns a page of the user's documents. The cursor is the
// opaque value returned as next cursor by the previous page.
func (s *service) UserDocuments(ctx context.Context,
	userID domain.UserID,
	status domain.DocumentStatus,
	cursor string,
	limit uint) ([]domain.Document, string, error) {
	if status != "" && !status.Valid() {
		return nil, "", serrors.With(serrors.ErrBadRequest, "invalid status %q", status)
	}

	var cursorTime time.Time
	if cursor != "" {
		t, err := time.Parse(time.RFC3339Nano, cursor)
		if err != nil {
			return nil, "", serrors.Wrap(serrors.ErrBadRequest, err, "invalid cursor")
		}
		cursorTime = t
	}

	if limit == 0 {
		limit = DefaultLimit
	}
	limit = min(limit, MaxLimit)

	page, err := s.storage.UserDocuments(ctx, userID, status, cursorTime, limit)
	if err != nil {
		return nil, "", fmt.Errorf("could not get user documents: %w", err)
	}

	var next string
	if page.NextCursor != nil {
		next = page.NextCursor.UTC().Format(time.RFC3339Nano)
	}

	return page.Documents, next, nil
}

// Document fetches a single document of the user.
func (s *service) Document(ctx context.Context,
	userID domain.UserID,
	documentID domain.DocumentID) (*domain.Document, error) {
	res, err := s.storage.DocumentByID(ctx, userID, documentID)
	if err != nil {
		return nil, fmt.Errorf("could not get document: %w", err)
	}
	if res == nil {
		return nil, serrors.With(serrors.ErrNotFound, "document not found")
	}

	return res, nil
}

// Delete soft deletes a document of the user. The check job is left alone
// since other documents may share its URL; the worker skips URLs without
// pending documents.
func (s *service) Delete(ctx context.Context, userID domain.UserID, documentID domain.DocumentID) error {
	res, err := s.storage.DeleteDocument(ctx, userID, documentID)
	if err != nil {
		return fmt.Errorf("could not delete document: %w", err)
	}
	if res == nil {
		return serrors.With(serrors.ErrNotFound, "document not found")
	}

	return nil
}

// Check resolves URL to an object key and stats it. An ErrConflict error means
// nothing is waiting for the result. ErrRateLimited is returned untouched so
// the caller can retry later without spending an attempt.
func (s *service) Check(ctx context.Context, URL string) error {
	pending, err := s.storage.PendingDocumentCountByURL(ctx, URL)
	if err != nil {
		return fmt.Errorf("could not count pending documents: %w", err)
	}
	if pending == 0 {
		return serrors.With(serrors.ErrConflict, "no pending documents for %q", URL)
	}

	key, ok := pdfurl.Key(URL)
	if !ok {
		lastErr := "not a document of the files bucket"

		return s.record(ctx, URL, storage.DocumentUpdates{
			Status:    domain.DocumentStatusFailed,
			LastError: &lastErr,
		})
	}

	statCtx := ctx
	if s.options.CheckTimeout > 0 {
		var cancel context.CancelFunc
		statCtx, cancel = context.WithTimeout(ctx, s.options.CheckTimeout)
		defer cancel()
	}

	info, err := s.objects.Stat(statCtx, key)
	noErr := ""
	switch {
	case err == nil:
		return s.record(ctx, URL, storage.DocumentUpdates{
			Status:    domain.DocumentStatusAvailable,
			Object:    info,
			LastError: &noErr,
		})
	case errors.Is(err, serrors.ErrNotFound):
		return s.record(ctx, URL, storage.DocumentUpdates{
			Status:    domain.DocumentStatusMissing,
			LastError: &noErr,
		})
	case errors.Is(err, serrors.ErrRateLimited):
		return fmt.Errorf("could not stat %q: %w", key, err)
	}

	lastErr := err.Error()
	if recErr := s.record(ctx, URL, storage.DocumentUpdates{
		Status:      domain.DocumentStatusFailed,
		LastError:   &lastErr,
		MaxAttempts: s.options.MaxAttempts,
	}); recErr != nil {
		return errors.Join(err, recErr)
	}

	return fmt.Errorf("could not stat %q: %w", key, err)
}

func (s *service) record(ctx context.Context, URL string, updates storage.DocumentUpdates) error {
	if err := s.storage.UpdatePendingDocumentsByURL(ctx, URL, updates); err != nil {
		return fmt.Errorf("could not update pending documents: %w", err)
	}

	logger.Debug(ctx, "document check recorded",
		zap.String("url", URL),
		zap.String("status", string(updates.Status)))

	return nil
}
