package domain

import (
	"time"

	"github.com/google/uuid"
)

// DocumentID uniquely identifies a registered document.
// It wraps uuid.UUID to provide type safety at the domain layer.
type DocumentID uuid.UUID

// String returns the canonical UUID text.
func (id DocumentID) String() string { return uuid.UUID(id).String() }

// MarshalText encodes the ID as a UUID string.
func (id DocumentID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }

// UnmarshalText decodes a UUID string.
func (id *DocumentID) UnmarshalText(b []byte) error { return (*uuid.UUID)(id).UnmarshalText(b) }

// DocumentStatus represents the availability state of a document.
type DocumentStatus string

const (
	// DocumentStatusPending indicates the availability check has not completed yet.
	DocumentStatusPending DocumentStatus = "PENDING"
	// DocumentStatusAvailable indicates the object exists in storage.
	DocumentStatusAvailable DocumentStatus = "AVAILABLE"
	// DocumentStatusMissing indicates storage reported the object does not exist.
	DocumentStatusMissing DocumentStatus = "MISSING"
	// DocumentStatusFailed indicates the check kept failing; see LastError and Attempts.
	DocumentStatusFailed DocumentStatus = "FAILED"
)

// Valid reports whether s is one of the known statuses.
func (s DocumentStatus) Valid() bool {
	switch s {
	case DocumentStatusPending, DocumentStatusAvailable, DocumentStatusMissing, DocumentStatusFailed:
		return true
	}

	return false
}

// Checked reports whether s is a final check outcome that can be reused.
func (s DocumentStatus) Checked() bool {
	return s == DocumentStatusAvailable || s == DocumentStatusMissing
}

// ObjectInfo is what object storage reports about an existing object.
type ObjectInfo struct {
	Size         int64     `json:"size"`
	ContentType  string    `json:"contentType,omitempty"`
	LastModified time.Time `json:"lastModified"`
}

// Document is a magazine, bulletin or other PDF registered by an editor. The
// stored URL is always the canonical form of SourceURL.
type Document struct {
	// ID is the unique identifier of the document.
	ID DocumentID `json:"id"`
	// UserID is the editor who registered the document.
	UserID UserID `json:"userId"`

	// SourceURL is the URL or path as it was submitted.
	SourceURL string `json:"sourceUrl"`
	// URL is the canonical URL derived from SourceURL.
	URL string `json:"url"`
	// Status is the current availability state.
	Status DocumentStatus `json:"status"`
	// Object holds storage metadata once the document is AVAILABLE.
	Object *ObjectInfo `json:"object,omitempty"`

	// Attempts is the number of availability checks performed.
	Attempts uint `json:"attempts"`
	// LastError stores the most recent check error, if any.
	LastError string `json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	// DeletedAt marks soft-deleted documents; zero value means not deleted.
	DeletedAt time.Time `json:"-"`
}
