package documents

import (
	"context"
	"portal/pkg/domain"
)

// Service registers document URLs and tracks whether their objects exist.
//
//go:generate mockgen -package mockdocuments -source=interface.go -destination=mock/mockdocuments.go *
type Service interface {
	Register(ctx context.Context, userID domain.UserID, rawURL string) (*domain.Document, error)
	UserDocuments(ctx context.Context,
		userID domain.UserID,
		status domain.DocumentStatus,
		cursor string,
		limit uint) ([]domain.Document, string, error)
	Document(ctx context.Context, userID domain.UserID, documentID domain.DocumentID) (*domain.Document, error)
	Delete(ctx context.Context, userID domain.UserID, documentID domain.DocumentID) error
	// Check looks the canonical URL up in object storage and records the
	// outcome on every pending document with that URL.
	Check(ctx context.Context, URL string) error
}
