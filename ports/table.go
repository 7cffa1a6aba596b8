package ports

import (
	"context"

	"companyclean/domain/dataset"
)

// TableReader loads a raw table from a file
type TableReader interface {
	ReadTable(ctx context.Context, path string) (*dataset.Table, error)
}

// TableWriter stores a dataset, prefixed with its row-index column.
// Implementations must not leave a partial file behind on failure.
type TableWriter interface {
	WriteTable(ctx context.Context, path string, ds *dataset.Dataset) error
}
