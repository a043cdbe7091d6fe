// Package migrations embeds the goose SQL migrations so cmd/migrate and the
// integration test helper run the same schema everywhere.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
