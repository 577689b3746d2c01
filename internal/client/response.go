package client

import (
	"encoding/json"

	"StockForecast/internal/model"
)

// RawResponse is the syntactically decoded success payload. Field contents
// are interpreted by the normalizer, not here.
type RawResponse struct {
	Status            string              `json:"status,omitempty"`
	Predictions       json.RawMessage     `json:"predictions"`
	Insight           string              `json:"insight"`
	TargetMonth       string              `json:"targetMonth,omitempty"`
	TargetYear        json.RawMessage     `json:"targetYear,omitempty"`
	TotalProducts     *int                `json:"totalProducts,omitempty"`
	HighStockRequired *int                `json:"highStockRequired,omitempty"`
	ModelMetrics      *model.ModelMetrics `json:"modelMetrics,omitempty"`
	Metadata          RawMetadata         `json:"metadata"`
}

// RawMetadata mirrors the engine's metadata block. The engine nests the
// period and product count here as well as at the top level.
type RawMetadata struct {
	TargetMonth       string              `json:"targetMonth,omitempty"`
	TargetYear        json.RawMessage     `json:"targetYear,omitempty"`
	TargetMonthNumber int                 `json:"targetMonthNumber,omitempty"`
	TotalProducts     *int                `json:"totalProducts,omitempty"`
	HighStockRequired *int                `json:"highStockRequired,omitempty"`
	AverageGrowth     *float64            `json:"averageGrowth,omitempty"`
	ModelMetrics      *model.ModelMetrics `json:"modelMetrics,omitempty"`
}

// HealthResponse is returned by the engine's health endpoint.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// DatasetValidation is the engine's column check of a sales file.
type DatasetValidation struct {
	Status           string   `json:"status"`
	AvailableColumns []string `json:"available_columns"`
	RequiredColumns  []string `json:"required_columns"`
	MissingColumns   []string `json:"missing_columns"`
	DatasetShape     struct {
		Rows    int `json:"rows"`
		Columns int `json:"columns"`
	} `json:"dataset_shape"`
}

// Valid reports whether the file has every required column.
func (v *DatasetValidation) Valid() bool { return v.Status == "valid" }
