package exporter

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
)

// WriteText renders doc as plain printable text. The predictions section
// starts on a new page (form feed) and is omitted when there are none.
func WriteText(w io.Writer, doc *Document) error {
	if doc == nil {
		return nil
	}
	var b strings.Builder

	b.WriteString(strings.ToUpper(doc.Title) + "\n")
	b.WriteString("Period: " + doc.Period + "\n\n")

	heading(&b, "Insight")
	b.WriteString(doc.Insight + "\n\n")

	heading(&b, "Summary")
	tw := tabwriter.NewWriter(&b, 0, 0, 3, ' ', 0)
	for _, row := range doc.Summary {
		fmt.Fprintf(tw, "%s\t%s\n", row.Label, row.Value)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(doc.Predictions) > 0 {
		b.WriteString("\f")
		heading(&b, "Predictions")
		tw = tabwriter.NewWriter(&b, 0, 0, 3, ' ', 0)
		fmt.Fprintln(tw, strings.Join(PredictionHeaders, "\t"))
		for _, p := range doc.Predictions {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%.2f\n",
				p.ProductID, p.Category, strconv.FormatFloat(p.LastMonthSales, 'f', -1, 64), p.PredictedSales)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func heading(b *strings.Builder, title string) {
	b.WriteString(title + "\n")
	b.WriteString(strings.Repeat("-", len(title)) + "\n")
}
