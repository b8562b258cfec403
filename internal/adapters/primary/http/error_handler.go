package http

import (
	"errors"
	"log/slog"
	"net/http"

	apperrors "github.com/lorrc/task-analytics/internal/core/errors"
	"github.com/lorrc/task-analytics/internal/infrastructure/logging"
)

// ErrorResponse is the standard JSON error response format
type ErrorResponse struct {
	Error   string         `json:"error"`
	Code    string         `json:"code,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// ValidationErrorResponse includes field-level validation errors
type ValidationErrorResponse struct {
	Error  string              `json:"error"`
	Code   string              `json:"code"`
	Fields map[string][]string `json:"fields,omitempty"`
}

// ErrorHandler provides centralized error handling with logging
type ErrorHandler struct {
	logger *slog.Logger
}

// NewErrorHandler creates a new error handler with the given logger
func NewErrorHandler(logger *slog.Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// Handle processes an error and writes the appropriate HTTP response
func (h *ErrorHandler) Handle(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		h.logError(r, appErr.StatusCode, appErr.Err)
		WriteJSON(w, appErr.StatusCode, ErrorResponse{
			Error:   appErr.Message,
			Code:    appErr.Code,
			Details: appErr.Details,
		})
		return
	}

	var validationErrs *apperrors.ValidationErrors
	if errors.As(err, &validationErrs) {
		h.logError(r, http.StatusUnprocessableEntity, err)
		WriteJSON(w, http.StatusUnprocessableEntity, ValidationErrorResponse{
			Error:  "Validation failed",
			Code:   "VALIDATION_ERROR",
			Fields: validationErrs.Errors,
		})
		return
	}

	statusCode, response := h.mapDomainError(err)
	h.logError(r, statusCode, err)
	WriteJSON(w, statusCode, response)
}

// mapDomainError converts domain errors to HTTP status codes and responses
func (h *ErrorHandler) mapDomainError(err error) (int, ErrorResponse) {
	switch {
	case errors.Is(err, apperrors.ErrUnknownReport):
		return http.StatusNotFound, ErrorResponse{
			Error: "Report not found",
			Code:  "REPORT_NOT_FOUND",
		}
	case errors.Is(err, apperrors.ErrUnknownSection),
		errors.Is(err, apperrors.ErrNotExportable):
		return http.StatusNotFound, ErrorResponse{
			Error: "Section not found",
			Code:  "SECTION_NOT_FOUND",
		}
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound, ErrorResponse{
			Error: "Resource not found",
			Code:  "NOT_FOUND",
		}

	case errors.Is(err, apperrors.ErrUnknownFormat),
		errors.Is(err, apperrors.ErrBadRequest):
		return http.StatusBadRequest, ErrorResponse{
			Error: err.Error(),
			Code:  "BAD_REQUEST",
		}

	default:
		return http.StatusInternalServerError, ErrorResponse{
			Error: "An unexpected error occurred",
			Code:  "INTERNAL_ERROR",
		}
	}
}

// logError logs the error with appropriate context
func (h *ErrorHandler) logError(r *http.Request, statusCode int, err error) {
	logger := logging.LoggerFromContext(r.Context(), h.logger)
	msg := "<nil>"
	if err != nil {
		msg = err.Error()
	}
	attrs := []any{
		"method", r.Method,
		"path", r.URL.Path,
		"status_code", statusCode,
		"error", msg,
	}

	switch {
	case statusCode >= 500:
		logger.Error("server error", attrs...)
	case statusCode >= 400:
		logger.Warn("client error", attrs...)
	default:
		logger.Info("request error", attrs...)
	}
}

// HandleError Helper function to handle errors inline in handlers
// Usage: if HandleError(w, r, err, h.errorHandler) { return }
func HandleError(w http.ResponseWriter, r *http.Request, err error, handler *ErrorHandler) bool {
	if err != nil {
		handler.Handle(w, r, err)
		return true
	}
	return false
}

// NotFound renders the JSON 404 for unmatched routes.
func (h *ErrorHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.Handle(w, r, apperrors.NewNotFoundError(apperrors.ErrNotFound, "Page not found"))
}
