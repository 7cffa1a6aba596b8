package testkit

import (
	"context"
	"fmt"

	"companyclean/adapters/excel"
	"companyclean/domain/dataset"
	"companyclean/internal"
)

// WriteRawCompanies generates a raw company dataset and writes it to path
// in the format implied by its extension. It returns the positions of rows
// that received an injected outlier.
func WriteRawCompanies(ctx context.Context, path string, config CompanyGeneratorConfig, logger *internal.Logger) ([]int, error) {
	table, injected, err := NewCompanyDataGenerator(config).Generate()
	if err != nil {
		return nil, err
	}

	ds, err := dataset.New(table, nil)
	if err != nil {
		return nil, fmt.Errorf("generated table is invalid: %w", err)
	}

	if err := excel.NewRawDataWriter(logger).WriteTable(ctx, path, ds); err != nil {
		return nil, err
	}
	return injected, nil
}
