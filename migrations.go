// Package portal holds assets embedded into the portal binary.
package portal

import "embed"

// Migrations contains the goose SQL migrations.
//
//go:embed migrations/*.sql
var Migrations embed.FS
