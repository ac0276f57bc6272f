// Package assets embeds the built-in configuration and the SQLite migrations.
package assets

import (
	"embed"
	"io/fs"
)

//go:embed colorquiz.yaml sql/*.sql
var FS embed.FS

// DefaultConfig returns the built-in YAML configuration.
func DefaultConfig() ([]byte, error) {
	return FS.ReadFile("colorquiz.yaml")
}

// Migrations returns the migration scripts rooted at the sql directory.
func Migrations() (fs.FS, error) {
	return fs.Sub(FS, "sql")
}
