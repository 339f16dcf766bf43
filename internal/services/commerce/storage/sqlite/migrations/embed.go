package migrations

import "embed"

// FS contains embedded SQLite migrations for commerce storage.
//
//go:embed *.sql
var FS embed.FS
