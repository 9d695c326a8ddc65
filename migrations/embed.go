package migrations

import "embed"

// Files holds the forward-only SQL schema migrations.
//
//go:embed *.sql
var Files embed.FS
