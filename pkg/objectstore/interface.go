// Package objectstore defines how the application asks object storage about
// stored documents.
package objectstore

import (
	"context"
	"portal/pkg/domain"
)

// Client is the abstraction over the bucket that serves documents.
//
//go:generate mockgen -package mockobjectstore -source=interface.go -destination=mock/mockobjectstore.go *
type Client interface {
	// Stat returns metadata of the object stored under key. It returns an
	// serrors.ErrNotFound error when no such object exists and
	// serrors.ErrRateLimited when the provider asks to slow down.
	Stat(ctx context.Context, key string) (*domain.ObjectInfo, error)
}
