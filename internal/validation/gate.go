// Package validation decides whether a draft forecast request may be sent.
package validation

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"StockForecast/internal/model"
)

// Code identifies why a draft was rejected.
type Code string

const (
	MissingFile      Code = "MISSING_FILE"
	MissingProductID Code = "MISSING_PRODUCT_ID"
	MissingPeriod    Code = "MISSING_PERIOD"
	InvalidScope     Code = "INVALID_SCOPE"
)

var messages = map[Code]string{
	MissingFile:      "Please upload a sales report file",
	MissingProductID: "Please enter a Product ID",
	MissingPeriod:    "Please select a target month and year",
	InvalidScope:     "Please choose a prediction type",
}

// ValidationError is a user-correctable, pre-flight rejection.
type ValidationError struct {
	Code    Code
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func newError(code Code) *ValidationError {
	return &ValidationError{Code: code, Message: messages[code]}
}

// fields is the trimmed, tag-validated view of a draft. Field order is the
// order in which failures are reported.
type fields struct {
	HasFile   bool   `validate:"required"`
	Scope     string `validate:"oneof=all specific"`
	ProductID string `validate:"required_if=Scope specific"`
	Month     string `validate:"required,month"`
	Year      int    `validate:"gt=0"`
}

var fieldCodes = map[string]Code{
	"HasFile":   MissingFile,
	"Scope":     InvalidScope,
	"ProductID": MissingProductID,
	"Month":     MissingPeriod,
	"Year":      MissingPeriod,
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterValidation("month", func(fl validator.FieldLevel) bool {
		return model.Month(fl.Field().String()).Valid()
	})
	return v
}

// Validate returns nil when d may be submitted, or a *ValidationError naming
// the first failed precondition. It has no side effects.
func Validate(d model.Draft) error {
	scope := d.Scope
	if scope == "" {
		scope = model.ScopeAll
	}
	f := fields{
		HasFile:   d.File != nil,
		Scope:     string(scope),
		ProductID: strings.TrimSpace(d.ProductID),
		Month:     string(d.Month),
		Year:      d.Year,
	}

	err := validate.Struct(f)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		if code, ok := fieldCodes[verrs[0].StructField()]; ok {
			return newError(code)
		}
	}
	return &ValidationError{Code: InvalidScope, Message: err.Error()}
}

// CodeOf extracts the rejection code from err, or "" if err is not a
// *ValidationError.
func CodeOf(err error) Code {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Code
	}
	return ""
}
