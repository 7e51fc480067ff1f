package excel

import (
	"adspend/adapters/coercer"
	"adspend/domain/dataset"
)

// LoaderConfig holds configuration for the workbook loader
type LoaderConfig struct {
	Layout         dataset.Layout         `json:"layout"`
	CoercionConfig coercer.CoercionConfig `json:"coercion_config"`
}

// DefaultLoaderConfig returns the SKU ad-spend layout with default coercion
func DefaultLoaderConfig() LoaderConfig {
	return LoaderConfig{
		Layout:         dataset.SKUAdSpendLayout(),
		CoercionConfig: coercer.DefaultCoercionConfig(),
	}
}
