package domain

import "github.com/google/uuid"

// UserID uniquely identifies an editor authenticated against the API.
// It is a thin wrapper around uuid.UUID to provide type safety at the domain layer.
type UserID uuid.UUID

// String returns the canonical UUID text.
func (id UserID) String() string { return uuid.UUID(id).String() }

// MarshalText encodes the ID as a UUID string.
func (id UserID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }

// UnmarshalText decodes a UUID string.
func (id *UserID) UnmarshalText(b []byte) error { return (*uuid.UUID)(id).UnmarshalText(b) }
