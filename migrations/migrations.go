// Package migrations embeds the ordered NNN_name.sql schema files so the
// migrator and integration tests apply exactly what ships in the binary.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
