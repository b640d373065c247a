// Package migrations embeds SQL schema files into the binary, so scancore
// can create its tables without shipping loose SQL alongside the executable.
package migrations

import (
	"embed"

	"github.com/scanwise/scancore/internal/infrastructure/database"
)

//go:embed *.sql
var migrationsFS embed.FS

func init() {
	database.MigrationsFS = migrationsFS
	database.MigrationsDir = "." // Files are at root of embedded FS
}
