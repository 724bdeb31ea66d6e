// Package migrations embeds the SurrealQL schema applied at startup.
package migrations

import "embed"

// FS holds every *.surql file in lexical order of application.
//
//go:embed *.surql
var FS embed.FS
