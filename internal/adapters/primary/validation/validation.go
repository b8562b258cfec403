package validation

import (
	"net/url"
	"strconv"
	"strings"

	apperrors "github.com/lorrc/task-analytics/internal/core/errors"
)

// Validator validates request data
type Validator struct {
	errors *apperrors.ValidationErrors
}

// NewValidator creates a new validator
func NewValidator() *Validator {
	return &Validator{
		errors: apperrors.NewValidationErrors(),
	}
}

// HasErrors returns true if there are validation errors
func (v *Validator) HasErrors() bool {
	return v.errors.HasErrors()
}

// Errors returns the validation errors
func (v *Validator) Errors() *apperrors.ValidationErrors {
	return v.errors
}

// OneOf validates value is one of the allowed values
func (v *Validator) OneOf(field, value string, allowed []string) *Validator {
	if value == "" {
		return v
	}

	for _, a := range allowed {
		if value == a {
			return v
		}
	}

	v.errors.Add(field, "Must be one of: "+strings.Join(allowed, ", "))
	return v
}

// Request field names shared by every report page.
const (
	FieldAjaxSection  = "ajaxSection"
	FieldResetFilters = "resetFilters"
	FieldFormat       = "format"
)

// ParseStringParam returns the first trimmed, non-empty value of key.
func ParseStringParam(values url.Values, key string) string {
	for _, raw := range values[key] {
		if v := strings.TrimSpace(raw); v != "" {
			return v
		}
	}
	return ""
}

// ParseBoolParam parses a boolean form field. Checkbox style values ("on",
// "yes") count as true.
func ParseBoolParam(values url.Values, key string, defaultValue bool) bool {
	raw := strings.ToLower(ParseStringParam(values, key))
	if raw == "" {
		return defaultValue
	}
	switch raw {
	case "on", "yes":
		return true
	}

	value, err := strconv.ParseBool(raw)
	if err != nil {
		return defaultValue
	}
	return value
}

// ParseSection returns the requested AJAX section, or "" for a full page.
func ParseSection(values url.Values) string {
	return ParseStringParam(values, FieldAjaxSection)
}

// ParseExportFormat validates the export format, defaulting to csv.
func ParseExportFormat(values url.Values, allowed []string) (string, error) {
	format := strings.ToLower(ParseStringParam(values, FieldFormat))
	if format == "" {
		return "csv", nil
	}

	v := NewValidator().OneOf(FieldFormat, format, allowed)
	if v.HasErrors() {
		return "", apperrors.NewValidationError(apperrors.ErrUnknownFormat, "Unsupported export format", map[string]any{
			"errors": v.Errors().Errors,
		})
	}
	return format, nil
}
