// Package migrations embeds the goose SQL migrations for the warelog schema.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
