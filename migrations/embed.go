// Package migrations holds the versioned schema files applied by cmd/migrate.
package migrations

import "embed"

// FS contains every NNN_name.up.sql and NNN_name.down.sql file
//
//go:embed *.sql
var FS embed.FS
