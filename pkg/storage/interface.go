// Package storage defines the persistence interfaces for documents,
// translations and background jobs, plus transaction management, so that
// backends (PostgreSQL today) can provide concrete implementations.
//
//go:generate mockgen -package mockstorage -source=interface.go -destination=mock/mockstorage.go *
package storage

import "context"

// AllStorage is the union of every domain storage capability.
type AllStorage interface {
	DocumentStorage
	TranslationStorage
	JobStorage
}

// TxStorage is a storage handle bound to an open transaction. It must not be
// used after Commit or Rollback.
type TxStorage interface {
	AllStorage

	Commit() error
	Rollback() error
}

// Storage is the root, non-transactional handle.
type Storage interface {
	AllStorage

	// Close releases the connection pool.
	Close() error

	// Begin starts a new transaction.
	Begin(ctx context.Context) (TxStorage, error)
	// WithTx runs cb inside a transaction, committing when cb returns nil and
	// rolling back otherwise.
	WithTx(ctx context.Context, cb func(storage AllStorage) error) error
}
