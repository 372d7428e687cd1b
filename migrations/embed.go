// Package migrations embeds the SQL schema migrations.
// Files follow the golang-migrate naming scheme: NNNNNN_name.{up,down}.sql.
package migrations

import "embed"

// FS holds every migration file.
//
//go:embed *.sql
var FS embed.FS
