// Package migrations embeds the goose migration set applied by
// pkg/database.RunMigrations at startup (spec.md §4.10).
package migrations

import "embed"

//go:embed postgres/*.sql
var PostgresMigrations embed.FS
