// Package request assembles forecast requests from the dashboard settings.
package request

import (
	"strings"

	"StockForecast/internal/model"
)

// Build assembles a ForecastRequest. It performs no validation and no I/O;
// the product id is dropped when the scope covers all products.
func Build(scope model.Scope, productID string, month model.Month, year int, file model.SalesFile) model.ForecastRequest {
	if scope == "" {
		scope = model.ScopeAll
	}
	productID = strings.TrimSpace(productID)
	if scope == model.ScopeAll {
		productID = ""
	}
	return model.ForecastRequest{
		File:      file,
		Scope:     scope,
		ProductID: productID,
		Month:     month,
		Year:      year,
	}
}

// FromDraft builds the request for the current draft.
func FromDraft(d model.Draft) model.ForecastRequest {
	return Build(d.Scope, d.ProductID, d.Month, d.Year, d.File)
}
