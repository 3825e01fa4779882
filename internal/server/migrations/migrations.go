// Package migrations embeds the ledger's PostgreSQL schema.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
