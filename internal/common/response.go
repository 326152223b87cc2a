package common

import (
	"errors"
	"net/http"
	"strings"

	"invoptimizer/internal/apperror"
	"invoptimizer/pkg/logger"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
)

// ErrorBody is the payload inside ErrorResponse.
type ErrorBody struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// CreateErrorResponse creates a standardized error response
func CreateErrorResponse(code, message string, details map[string]any) *ErrorResponse {
	return &ErrorResponse{Error: ErrorBody{Code: code, Message: message, Details: details}}
}

// SendError writes err as an ErrorResponse. Internal causes are logged, never sent.
func SendError(c echo.Context, err error) error {
	if appErr, ok := apperror.As(err); ok {
		status := appErr.HTTPStatus
		if status == 0 {
			status = http.StatusInternalServerError
		}
		if status >= http.StatusInternalServerError {
			logger.FromContext(c.Request().Context()).Errorw("request failed",
				"code", appErr.Code, "error", err)
		}
		return c.JSON(status, CreateErrorResponse(appErr.Code, appErr.Message, appErr.Details))
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return c.JSON(http.StatusNotFound, CreateErrorResponse(apperror.CodeNotFound, "Resource not found", nil))
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		return c.JSON(httpErr.Code, CreateErrorResponse(codeFor(httpErr.Code), messageOf(httpErr), nil))
	}

	logger.FromContext(c.Request().Context()).Errorw("request failed", "error", err)
	return c.JSON(http.StatusInternalServerError, CreateErrorResponse(apperror.CodeInternal, "Internal server error", nil))
}

// SendValidationError sends a validation error response
func SendValidationError(c echo.Context, field, message string) error {
	return SendError(c, apperror.NewFieldValidation(field, message))
}

// HTTPErrorHandler routes errors returned by handlers and middleware through SendError.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	if sendErr := SendError(c, err); sendErr != nil {
		logger.FromContext(c.Request().Context()).Errorw("failed to write error response", "error", sendErr)
	}
}

// codeFor turns a status into an upper snake case code, e.g. METHOD_NOT_ALLOWED.
func codeFor(status int) string {
	return strings.ToUpper(strings.ReplaceAll(http.StatusText(status), " ", "_"))
}

func messageOf(httpErr *echo.HTTPError) string {
	if msg, ok := httpErr.Message.(string); ok {
		return msg
	}
	return http.StatusText(httpErr.Code)
}
