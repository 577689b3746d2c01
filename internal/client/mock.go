package client

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"StockForecast/internal/model"
)

// MockForecaster returns controllable fixed data for development and testing.
// When Gate is non-nil, Submit blocks until Gate is closed or ctx is done.
type MockForecaster struct {
	Response   *RawResponse
	Err        error
	Gate       chan struct{}
	Validation *DatasetValidation

	mu    sync.Mutex
	calls int
	last  model.ForecastRequest
}

func (m *MockForecaster) Name() string { return "mock" }

func (m *MockForecaster) Submit(ctx context.Context, req model.ForecastRequest) (*RawResponse, error) {
	m.mu.Lock()
	m.calls++
	m.last = req
	m.mu.Unlock()

	if m.Gate != nil {
		select {
		case <-m.Gate:
		case <-ctx.Done():
			return nil, transportError(ctx, ctx.Err())
		}
	}
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Response != nil {
		return m.Response, nil
	}
	return MockResponse(req, generateMockPredictions(req, 12), "Steady demand pattern. Maintain current inventory levels."), nil
}

// ValidateDataset returns Validation, or a passing check when it is nil.
func (m *MockForecaster) ValidateDataset(_ context.Context, file model.SalesFile) (*DatasetValidation, error) {
	if file == nil {
		return nil, &ClientError{Kind: TransportFailure, Message: "Could not read the sales file"}
	}
	if m.Validation != nil {
		return m.Validation, nil
	}
	v := &DatasetValidation{
		Status:          "valid",
		RequiredColumns: []string{"product_category", "product_id", "transaction_qty", "transaction_date"},
	}
	v.AvailableColumns = v.RequiredColumns
	v.MissingColumns = []string{}
	v.DatasetShape.Rows = 1000
	v.DatasetShape.Columns = len(v.RequiredColumns)
	return v, nil
}

// Calls returns how many times Submit has been invoked.
func (m *MockForecaster) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// LastRequest returns the most recent request passed to Submit.
func (m *MockForecaster) LastRequest() model.ForecastRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last
}

// MockResponse builds a success payload shaped like the engine's.
func MockResponse(req model.ForecastRequest, preds []model.PredictionResult, insight string) *RawResponse {
	if preds == nil {
		preds = []model.PredictionResult{}
	}
	data, _ := json.Marshal(preds)
	total := len(preds)
	high := 0
	for _, p := range preds {
		if p.StockStatus == model.StockHighRequired {
			high++
		}
	}
	year, _ := json.Marshal(req.Year)
	return &RawResponse{
		Status:      "success",
		Predictions: data,
		Insight:     insight,
		Metadata: RawMetadata{
			TargetMonth:       req.PeriodLabel(),
			TargetYear:        year,
			TargetMonthNumber: req.Month.Number(),
			TotalProducts:     &total,
			HighStockRequired: &high,
			ModelMetrics:      &model.ModelMetrics{MAE: 4.21, RMSE: 6.37, R2: 0.87},
		},
	}
}

func generateMockPredictions(req model.ForecastRequest, count int) []model.PredictionResult {
	if req.Scope == model.ScopeSpecific {
		count = 1
	}
	preds := make([]model.PredictionResult, count)
	for i := 0; i < count; i++ {
		id := fmt.Sprintf("P%d", 101+i)
		if req.Scope == model.ScopeSpecific {
			id = req.ProductID
		}
		last := float64(100 + 10*i)
		growth := float64(i%5*10 - 10)
		status := model.StockNormal
		if growth >= 20 {
			status = model.StockHighRequired
		}
		preds[i] = model.PredictionResult{
			ProductID:        id,
			ProductCategory:  []string{"Coffee", "Tea", "Bakery"}[i%3],
			LastMonthSales:   last,
			PredictedSales:   last * (1 + growth/100),
			GrowthPercentage: growth,
			StockStatus:      status,
		}
	}
	return preds
}
