package model

import (
	"strconv"
	"strings"
)

// StockStatus is the engine's stocking advice for a product.
type StockStatus string

const (
	StockHighRequired StockStatus = "HIGH_STOCK_REQUIRED"
	StockNormal       StockStatus = "NORMAL"
)

// ParseStockStatus recognises the engine's spellings ("HIGH STOCK REQUIRED",
// "NORMAL STOCK") and the canonical forms. Anything else is kept verbatim.
func ParseStockStatus(s string) StockStatus {
	key := strings.ToUpper(strings.Join(strings.Fields(strings.ReplaceAll(s, "_", " ")), " "))
	switch key {
	case "HIGH STOCK REQUIRED":
		return StockHighRequired
	case "NORMAL", "NORMAL STOCK":
		return StockNormal
	default:
		return StockStatus(s)
	}
}

// Polarity is the visual direction of a growth figure.
type Polarity int

const (
	Positive Polarity = iota
	Negative
)

func (p Polarity) String() string {
	if p == Negative {
		return "negative"
	}
	return "positive"
}

// PredictionResult is one product row of a Report.
type PredictionResult struct {
	ProductID        string      `json:"productId"`
	ProductCategory  string      `json:"productCategory"`
	LastMonthSales   float64     `json:"lastMonthSales"`
	PredictedSales   float64     `json:"predictedSales"`
	GrowthPercentage float64     `json:"growthPercentage"`
	StockStatus      StockStatus `json:"stockStatus"`
}

// Polarity maps non-negative growth to Positive and negative growth to Negative.
func (p PredictionResult) Polarity() Polarity {
	if p.GrowthPercentage < 0 {
		return Negative
	}
	return Positive
}

// ModelMetrics are the engine's accuracy indicators.
type ModelMetrics struct {
	MAE  float64 `json:"mae"`
	RMSE float64 `json:"rmse"`
	R2   float64 `json:"r2"`
}

// ReportMetadata carries the engine's summary counts and metrics.
type ReportMetadata struct {
	HighStockRequired int          `json:"highStockRequired"`
	AverageGrowth     float64      `json:"averageGrowth"`
	ModelMetrics      ModelMetrics `json:"modelMetrics"`
}

// Report is the normalized result of one successful forecast exchange.
// Predictions keep the engine's order.
type Report struct {
	TargetMonth   string             `json:"targetMonth"`
	TargetYear    int                `json:"targetYear"`
	Insight       string             `json:"insight"`
	TotalProducts int                `json:"totalProducts"`
	Metadata      ReportMetadata     `json:"metadata"`
	Predictions   []PredictionResult `json:"predictions"`
}

// PeriodLabel joins target month and year, omitting a missing year.
func (r *Report) PeriodLabel() string {
	if r.TargetYear <= 0 {
		return r.TargetMonth
	}
	return strings.TrimSpace(r.TargetMonth + " " + strconv.Itoa(r.TargetYear))
}
