package storage

import (
	"context"
	"portal/pkg/domain"
	"time"
)

// DocumentUpdates describes the fields applied to existing documents during an
// update. Status is always written; pointer fields only when non-nil.
type DocumentUpdates struct {
	// Status is the new status to set for the document.
	Status domain.DocumentStatus
	// Object, when provided, replaces the stored object metadata.
	Object *domain.ObjectInfo
	// LastError, when provided, sets the last error text. An empty string value
	// clears it (set to NULL).
	LastError *string
	// MaxAttempts, when provided alongside a Failed status, only moves documents
	// to Failed once attempts after increment reach this threshold. Below it the
	// status is left untouched. A value <= 0 disables this guard.
	MaxAttempts int
	// SkipAttempt leaves the attempts counter untouched, for updates that copy
	// an earlier check result instead of recording a check.
	SkipAttempt bool
}

// UserDocuments groups a page of documents returned for a user together with
// an optional NextCursor used for pagination.
type UserDocuments struct {
	// Documents contains the current page of document records.
	Documents []domain.Document
	// NextCursor is the created_at of the last returned row when more rows exist.
	NextCursor *time.Time
}

// DocumentStorage defines CRUD and query operations on registered documents.
// Soft-deleted rows are invisible to every read except LastCheckedDocumentByURL.
type DocumentStorage interface {
	// StoreDocuments inserts one or more documents and returns the stored rows
	// including generated fields.
	StoreDocuments(ctx context.Context, documents ...domain.Document) ([]domain.Document, error)
	// UpdatePendingDocumentsByURL applies updates to every pending document with
	// the given canonical URL. Attempts is incremented and updated_at is set.
	UpdatePendingDocumentsByURL(ctx context.Context, URL string, updates DocumentUpdates) error
	// PendingDocumentCountByURL returns the number of pending documents for URL
	// across all users.
	PendingDocumentCountByURL(ctx context.Context, URL string) (int64, error)
	// UpdateDocumentByID updates a single document and returns the updated row,
	// or nil when it does not exist.
	UpdateDocumentByID(ctx context.Context, ID domain.DocumentID, updates DocumentUpdates) (*domain.Document, error)
	// DeleteDocument soft deletes a document of the given user and returns it,
	// or nil if it was not found.
	DeleteDocument(ctx context.Context, userID domain.UserID, ID domain.DocumentID) (*domain.Document, error)
	// UserDocuments returns a page of the user's documents created before the
	// optional cursor, newest first. A non-empty status filters the page.
	UserDocuments(ctx context.Context,
		userID domain.UserID,
		status domain.DocumentStatus,
		cursor time.Time,
		limit uint) (UserDocuments, error)
	// DocumentByID fetches a document of the given user. Returns nil when not found.
	DocumentByID(ctx context.Context, userID domain.UserID, ID domain.DocumentID) (*domain.Document, error)
	// LastCheckedDocumentByURL returns the most recently updated AVAILABLE or
	// MISSING document for URL across all users, or nil. Soft-deleted rows are
	// included since the check result belongs to the URL.
	LastCheckedDocumentByURL(ctx context.Context, URL string) (*domain.Document, error)
}
