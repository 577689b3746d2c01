package exporter

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const (
	summarySheet     = "Summary"
	predictionsSheet = "Predictions"
)

// WriteXLSX renders doc as a workbook: a summary sheet with title, period,
// insight and summary table, then a predictions sheet when there are any.
func WriteXLSX(w io.Writer, doc *Document) error {
	if doc == nil {
		return nil
	}
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create style: %w", err)
	}

	rows := [][]interface{}{
		{doc.Title},
		{"Period", doc.Period},
		{},
		{"Insight"},
		{doc.Insight},
		{},
		{"Summary"},
	}
	for _, s := range doc.Summary {
		rows = append(rows, []interface{}{s.Label, s.Value})
	}
	if err := writeRows(f, summarySheet, rows); err != nil {
		return err
	}
	for _, cell := range []string{"A1", "A4", "A7"} {
		if err := f.SetCellStyle(summarySheet, cell, cell, bold); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(summarySheet, "A", "B", 24); err != nil {
		return err
	}

	if len(doc.Predictions) > 0 {
		if _, err := f.NewSheet(predictionsSheet); err != nil {
			return fmt.Errorf("create sheet: %w", err)
		}
		header := make([]interface{}, len(PredictionHeaders))
		for i, h := range PredictionHeaders {
			header[i] = h
		}
		rows = [][]interface{}{header}
		for _, p := range doc.Predictions {
			rows = append(rows, []interface{}{p.ProductID, p.Category, p.LastMonthSales, p.PredictedSales})
		}
		if err := writeRows(f, predictionsSheet, rows); err != nil {
			return err
		}
		if err := f.SetCellStyle(predictionsSheet, "A1", "D1", bold); err != nil {
			return err
		}
		if err := f.SetColWidth(predictionsSheet, "A", "D", 18); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s!%s: %w", sheet, cell, err)
		}
	}
	return nil
}
