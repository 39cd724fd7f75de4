// Package migrations provides the embedded journal schema.
package migrations

import (
	_ "embed"
)

//go:embed sql/001_initial.sql
var InitialSQL string
