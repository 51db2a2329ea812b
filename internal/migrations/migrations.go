// Package migrations содержит SQL-миграции схемы бэкенда.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
