package client

import (
	"context"

	"StockForecast/internal/model"
)

// Forecaster performs the forecast exchange with the forecasting engine.
// Implementations must honour ctx cancellation and must not retry.
type Forecaster interface {
	Submit(ctx context.Context, req model.ForecastRequest) (*RawResponse, error)
	Name() string
}

// DatasetValidator checks a sales file against the engine's required
// columns.
type DatasetValidator interface {
	ValidateDataset(ctx context.Context, file model.SalesFile) (*DatasetValidation, error)
}
