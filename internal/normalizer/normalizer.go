// Package normalizer maps the engine's raw success payload onto a Report.
package normalizer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"StockForecast/internal/client"
	"StockForecast/internal/model"
)

// MalformedPayload is the only normalization failure code.
const MalformedPayload = "MALFORMED_PAYLOAD"

// NormalizationError means a success payload could not be turned into a
// Report. No partial Report accompanies it.
type NormalizationError struct {
	Code   string
	Reason string
}

func (e *NormalizationError) Error() string {
	return "The forecasting engine returned an incomplete result: " + e.Reason
}

func malformed(format string, args ...any) *NormalizationError {
	return &NormalizationError{Code: MalformedPayload, Reason: fmt.Sprintf(format, args...)}
}

// IsMalformed reports whether err is a *NormalizationError.
func IsMalformed(err error) bool {
	var ne *NormalizationError
	return errors.As(err, &ne)
}

// rawPrediction accepts the engine's row shape; stockStatus is kept as text
// and mapped without reinterpretation.
type rawPrediction struct {
	ProductID        json.RawMessage `json:"productId"`
	ProductCategory  string          `json:"productCategory"`
	LastMonthSales   float64         `json:"lastMonthSales"`
	PredictedSales   float64         `json:"predictedSales"`
	GrowthPercentage float64         `json:"growthPercentage"`
	StockStatus      string          `json:"stockStatus"`
}

// Normalize maps raw into a Report. Growth and stock status are trusted as
// sent. req supplies the period when the payload omits it.
func Normalize(raw *client.RawResponse, req model.ForecastRequest) (*model.Report, error) {
	if raw == nil {
		return nil, malformed("empty response")
	}
	preds, err := decodePredictions(raw.Predictions)
	if err != nil {
		return nil, err
	}

	month, year := period(raw, req)
	report := &model.Report{
		TargetMonth:   month,
		TargetYear:    year,
		Insight:       raw.Insight,
		TotalProducts: len(preds),
		Predictions:   preds,
	}

	if n := firstInt(raw.TotalProducts, raw.Metadata.TotalProducts); n != nil && *n != len(preds) {
		log.Printf("[WARN] engine reported totalProducts=%d but sent %d predictions", *n, len(preds))
	}
	high := countHighStock(preds)
	report.Metadata.HighStockRequired = high
	if n := firstInt(raw.Metadata.HighStockRequired, raw.HighStockRequired); n != nil {
		if *n != high {
			log.Printf("[WARN] engine reported highStockRequired=%d but %d rows require high stock", *n, high)
		}
		report.Metadata.HighStockRequired = *n
	}
	if g := raw.Metadata.AverageGrowth; g != nil {
		report.Metadata.AverageGrowth = *g
	} else {
		report.Metadata.AverageGrowth = averageGrowth(preds)
	}
	if m := raw.Metadata.ModelMetrics; m != nil {
		report.Metadata.ModelMetrics = *m
	} else if raw.ModelMetrics != nil {
		report.Metadata.ModelMetrics = *raw.ModelMetrics
	}
	return report, nil
}

func decodePredictions(data json.RawMessage) ([]model.PredictionResult, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, malformed("predictions missing")
	}
	if trimmed[0] != '[' {
		return nil, malformed("predictions is not a list")
	}
	var rows []rawPrediction
	if err := json.Unmarshal(trimmed, &rows); err != nil {
		return nil, malformed("decode predictions: %v", err)
	}

	preds := make([]model.PredictionResult, len(rows))
	for i, r := range rows {
		id, err := scalarString(r.ProductID)
		if err != nil {
			return nil, malformed("prediction %d: productId: %v", i, err)
		}
		preds[i] = model.PredictionResult{
			ProductID:        id,
			ProductCategory:  r.ProductCategory,
			LastMonthSales:   r.LastMonthSales,
			PredictedSales:   r.PredictedSales,
			GrowthPercentage: r.GrowthPercentage,
			StockStatus:      model.ParseStockStatus(r.StockStatus),
		}
	}
	return preds, nil
}

// period resolves target month and year from the payload, falling back to
// the request. A combined "March 2026" month label is split.
func period(raw *client.RawResponse, req model.ForecastRequest) (string, int) {
	label := raw.TargetMonth
	if label == "" {
		label = raw.Metadata.TargetMonth
	}
	year := parseYear(raw.TargetYear)
	if year == 0 {
		year = parseYear(raw.Metadata.TargetYear)
	}

	month := string(req.Month)
	if m, err := model.MonthFromNumber(raw.Metadata.TargetMonthNumber); label == "" && err == nil {
		month = string(m)
	}
	if label != "" {
		if m, y, err := model.ParsePeriodLabel(label); err == nil {
			month = string(m)
			if year == 0 {
				year = y
			}
		} else {
			month = label
		}
	}
	if year == 0 {
		year = req.Year
	}
	return month, year
}

// parseYear accepts a JSON number or numeric string; anything else is 0.
func parseYear(data json.RawMessage) int {
	s, err := scalarString(data)
	if err != nil || s == "" {
		return 0
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return int(n)
}

// scalarString renders a JSON string or number as text.
func scalarString(data json.RawMessage) (string, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(trimmed, &s); err == nil {
		return strings.TrimSpace(s), nil
	}
	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err == nil {
		return n.String(), nil
	}
	return "", fmt.Errorf("expected string or number, got %s", trimmed)
}

// countHighStock counts rows the engine marked HIGH_STOCK_REQUIRED.
func countHighStock(preds []model.PredictionResult) int {
	n := 0
	for _, p := range preds {
		if p.StockStatus == model.StockHighRequired {
			n++
		}
	}
	return n
}

func averageGrowth(preds []model.PredictionResult) float64 {
	if len(preds) == 0 {
		return 0
	}
	sum := 0.0
	for _, p := range preds {
		sum += p.GrowthPercentage
	}
	return sum / float64(len(preds))
}

func firstInt(vals ...*int) *int {
	for _, v := range vals {
		if v != nil {
			return v
		}
	}
	return nil
}
