package migrations

import "embed"

// FS миграции схемы, встраиваются в бинарник cmd/migrate
//
//go:embed *.sql
var FS embed.FS
