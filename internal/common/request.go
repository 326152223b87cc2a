package common

import (
	"strconv"
	"strings"

	"invoptimizer/internal/apperror"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	DefaultPageLimit = 50
	MaxPageLimit     = 1000
	maxOffset        = 1000000
)

// ValidateUUID parses idStr, naming fieldName in the error.
func ValidateUUID(idStr, fieldName string) (uuid.UUID, error) {
	idStr = strings.TrimSpace(idStr)
	if idStr == "" {
		return uuid.Nil, apperror.NewFieldValidation(fieldName, fieldName+" is required")
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, apperror.NewFieldValidation(fieldName, fieldName+" must be a valid UUID")
	}
	return id, nil
}

// ParamUUID reads the named path parameter as a UUID.
func ParamUUID(c echo.Context, name string) (uuid.UUID, error) {
	return ValidateUUID(c.Param(name), name)
}

// OptionalQueryUUID reads the named query parameter; absent means nil.
func OptionalQueryUUID(c echo.Context, name string) (*uuid.UUID, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	id, err := ValidateUUID(raw, name)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// Pagination reads limit and offset query parameters.
func Pagination(c echo.Context) (limit, offset int, err error) {
	if limit, err = queryInt(c, "limit"); err != nil {
		return 0, 0, err
	}
	if offset, err = queryInt(c, "offset"); err != nil {
		return 0, 0, err
	}
	return ValidatePaginationParams(limit, offset)
}

// ValidatePaginationParams clamps limit to [1, MaxPageLimit] and rejects absurd offsets.
func ValidatePaginationParams(limit, offset int) (int, int, error) {
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	if offset < 0 {
		offset = 0
	}
	if offset > maxOffset {
		return 0, 0, apperror.NewFieldValidation("offset", "offset cannot exceed 1,000,000")
	}
	return limit, offset, nil
}

func queryInt(c echo.Context, name string) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperror.NewFieldValidation(name, name+" must be an integer")
	}
	return v, nil
}
