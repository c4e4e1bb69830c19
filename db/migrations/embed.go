// Package migrations holds the schema of the revision index, applied by golang-migrate.
package migrations

import "embed"

// Files exposes the numbered up/down migrations.
//
//go:embed *.sql
var Files embed.FS
