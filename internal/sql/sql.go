package sql

import "embed"

// Migrations holds the embedded schema migration files, applied in
// filename order.
//
//go:embed migrations/*.sql
var Migrations embed.FS
