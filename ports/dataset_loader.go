package ports

import (
	"context"

	"adspend/domain/dataset"
)

// DatasetLoader reads a workbook into a dataset
type DatasetLoader interface {
	Load(ctx context.Context, path string) (*dataset.Dataset, error)
}

// DatasetSource hands out the current dataset for a path, loading it when needed
type DatasetSource interface {
	Get(ctx context.Context, path string) (*dataset.Dataset, error)
}
