package pipeline

import (
	"context"

	"github.com/couchcryptid/police-calls-dashboard/internal/table"
)

// FileSource reads tables from the local filesystem.
type FileSource struct{}

// ReadTable implements TableSource.
func (FileSource) ReadTable(_ context.Context, path string) (*table.Table, error) {
	return table.ReadFile(path)
}
