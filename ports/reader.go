package ports

import (
	"context"

	"msmeinsights/domain/table"
)

// TableReaderPort provides read-only access to the input tables.
// Load never fails: any read problem yields an empty table.
type TableReaderPort interface {
	Load(ctx context.Context, path string) *table.Table
}

// TableReloaderPort drops cached tables so the next Load reads from disk again
type TableReloaderPort interface {
	Reload(path string)
	ReloadAll()
}
