// Package db provides embedded database schema and seed data files.
package db

import _ "embed"

// Schema contains the DDL statements for all application tables.
//
//go:embed migrations/001_schema.sql
var Schema string

// SeedProducts is the starter catalog inserted when the product store is
// empty, and restored by the reinit operation.
//
//go:embed seed/products.json
var SeedProducts []byte
