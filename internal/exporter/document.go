// Package exporter turns a Report into a printable document. Building a
// document is a pure function of the Report.
package exporter

import (
	"fmt"
	"math"
	"regexp"

	"github.com/dustin/go-humanize"

	"StockForecast/internal/model"
)

const (
	// Title heads every exported document.
	Title = "Stock Prediction Report"
	// IDPrefix is prepended to the target month to form the document id.
	IDPrefix = "Stock_Prediction_"
)

// PredictionHeaders are the column titles of the predictions section.
var PredictionHeaders = []string{"Product ID", "Category", "Last Month Sales", "Predicted Sales"}

// SummaryRow is one label/value line of the summary table.
type SummaryRow struct {
	Label string
	Value string
}

// PredictionRow is one product line. PredictedSales is rounded to 2 decimals.
type PredictionRow struct {
	ProductID      string
	Category       string
	LastMonthSales float64
	PredictedSales float64
}

// Document is the export model, sections in print order.
type Document struct {
	ID          string
	Title       string
	Period      string
	Insight     string
	Summary     []SummaryRow
	Predictions []PredictionRow
}

// Build creates the document for r. It returns nil when there is no report.
// The predictions section always covers every prediction in r.
func Build(r *model.Report) *Document {
	if r == nil {
		return nil
	}
	m := r.Metadata.ModelMetrics
	doc := &Document{
		ID:      IDPrefix + r.TargetMonth,
		Title:   Title,
		Period:  r.PeriodLabel(),
		Insight: r.Insight,
		Summary: []SummaryRow{
			{"Total Products", humanize.Comma(int64(r.TotalProducts))},
			{"High Stock Required", humanize.Comma(int64(r.Metadata.HighStockRequired))},
			{"MAE", fmt.Sprintf("%.2f", m.MAE)},
			{"RMSE", fmt.Sprintf("%.2f", m.RMSE)},
			{"R2", fmt.Sprintf("%.2f", m.R2)},
		},
		Predictions: make([]PredictionRow, len(r.Predictions)),
	}
	for i, p := range r.Predictions {
		doc.Predictions[i] = PredictionRow{
			ProductID:      p.ProductID,
			Category:       p.ProductCategory,
			LastMonthSales: p.LastMonthSales,
			PredictedSales: round2(p.PredictedSales),
		}
	}
	return doc
}

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// FileName derives the output file name from the document id.
func (d *Document) FileName(f Format) string {
	return unsafeName.ReplaceAllString(d.ID, "_") + f.Ext()
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
