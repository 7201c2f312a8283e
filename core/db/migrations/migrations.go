// Package migrations embeds the goose SQL migrations so the migrate binary
// and integration tests ship with the schema.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
