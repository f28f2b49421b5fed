// Package migrations holds the schema migrations for the local vault
// database: embedded SQL for the baseline schema and a registered Go
// migration that rebuilds legacy tables missing the owner column.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
