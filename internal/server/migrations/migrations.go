// Package migrations embeds the goose migrations for the SQL row store.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
