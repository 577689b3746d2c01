package notifier

import (
	"fmt"
	"html"
	"strings"

	"github.com/dustin/go-humanize"

	"StockForecast/internal/client"
	"StockForecast/internal/model"
)

// FormatReportSummary formats the headline figures of a report.
func FormatReportSummary(r *model.Report) string {
	if r == nil {
		return "No report yet. Send /forecast to run a prediction."
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📊 <b>Stock Prediction</b> | %s\n\n", html.EscapeString(r.PeriodLabel())))
	b.WriteString(fmt.Sprintf("Total products: %s\n", humanize.Comma(int64(r.TotalProducts))))
	b.WriteString(fmt.Sprintf("High stock required: %s\n", humanize.Comma(int64(r.Metadata.HighStockRequired))))
	b.WriteString(fmt.Sprintf("Average growth: %+.1f%%\n", r.Metadata.AverageGrowth))
	m := r.Metadata.ModelMetrics
	b.WriteString(fmt.Sprintf("MAE %.2f | RMSE %.2f | R² %.2f\n", m.MAE, m.RMSE, m.R2))
	if r.Insight != "" {
		b.WriteString(fmt.Sprintf("\n💡 %s\n", html.EscapeString(r.Insight)))
	}
	return b.String()
}

// FormatPage formats one page of predictions. Growth is marked ▲ or ▼ by
// polarity.
func FormatPage(items []model.PredictionResult, page, totalPages int) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📋 <b>Predictions</b> (page %d/%d)\n\n", page, totalPages))
	if len(items) == 0 {
		b.WriteString("No predictions.\n")
		return b.String()
	}
	for _, p := range items {
		marker := "▲"
		if p.Polarity() == model.Negative {
			marker = "▼"
		}
		b.WriteString(fmt.Sprintf("<code>%s</code> %s: %.0f → %.0f %s %+.1f%%",
			html.EscapeString(p.ProductID), html.EscapeString(p.ProductCategory),
			p.LastMonthSales, p.PredictedSales, marker, p.GrowthPercentage))
		if p.StockStatus == model.StockHighRequired {
			b.WriteString(" ⚠️")
		}
		b.WriteString("\n")
	}
	if page < totalPages {
		b.WriteString("\n/next for more")
	}
	return b.String()
}

// FormatStatus formats the workflow state and the current draft settings.
func FormatStatus(state string, loading bool, errText string, d model.Draft) string {
	var b strings.Builder
	b.WriteString("⚙️ <b>Forecast status</b>\n\n")
	b.WriteString(fmt.Sprintf("State: %s\n", state))
	if loading {
		b.WriteString("Prediction in progress...\n")
	}
	if errText != "" {
		b.WriteString(fmt.Sprintf("Error: %s\n", html.EscapeString(errText)))
	}

	file := "(none)"
	if d.File != nil {
		file = d.File.Name()
	}
	b.WriteString(fmt.Sprintf("\nSales file: %s\n", html.EscapeString(file)))
	scope := string(d.Scope)
	if d.Scope == model.ScopeSpecific {
		scope = fmt.Sprintf("%s (%s)", scope, d.ProductID)
	}
	b.WriteString(fmt.Sprintf("Scope: %s\n", html.EscapeString(scope)))
	period := "(not set)"
	if d.Month.Valid() && d.Year > 0 {
		period = model.PeriodLabel(d.Month, d.Year)
	}
	b.WriteString(fmt.Sprintf("Period: %s\n", period))
	return b.String()
}

// FormatFailure formats the error text of a failed cycle.
func FormatFailure(errText string) string {
	return fmt.Sprintf("❌ <b>Prediction failed</b>\n\n%s", html.EscapeString(errText))
}

// FormatDatasetValidation formats the engine's column check of a sales file.
func FormatDatasetValidation(name string, v *client.DatasetValidation) string {
	var b strings.Builder
	if v.Valid() {
		b.WriteString(fmt.Sprintf("✅ <b>%s</b> is ready for prediction\n", html.EscapeString(name)))
	} else {
		b.WriteString(fmt.Sprintf("⚠️ <b>%s</b> is missing columns\n", html.EscapeString(name)))
	}
	b.WriteString(fmt.Sprintf("\nRows: %s | Columns: %d\n",
		humanize.Comma(int64(v.DatasetShape.Rows)), v.DatasetShape.Columns))
	if len(v.MissingColumns) > 0 {
		b.WriteString(fmt.Sprintf("Missing: %s\n", html.EscapeString(strings.Join(v.MissingColumns, ", "))))
	}
	return b.String()
}
