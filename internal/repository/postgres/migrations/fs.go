// Package migrations embeds the SQL schema migrations for the storefront's
// durable tables (contact inbox, notifications).
package migrations

import "embed"

// FS holds the ordered migration files applied at startup.
//
//go:embed *.sql
var FS embed.FS
