// Package migrations embeds the SQL migrations mirroring the bridge's
// message-store schema.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
