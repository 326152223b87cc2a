package handlers

import (
	"invoptimizer/internal/apperror"

	"github.com/labstack/echo/v4"
)

// bindAndValidate binds the request into req and runs the registered validator.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return apperror.NewValidation("Invalid request format").WithCause(err)
	}
	return c.Validate(req)
}
