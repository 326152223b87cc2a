package services

import (
	"errors"
	"fmt"
	"testing"

	"invoptimizer/internal/apperror"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestTranslate(t *testing.T) {
	existing := apperror.NewInsufficientStock("p", "l", 3)

	tests := []struct {
		name string
		err  error
		want *apperror.AppError
	}{
		{name: "no rows", err: fmt.Errorf("get: %w", pgx.ErrNoRows), want: apperror.ErrNotFound},
		{name: "unique violation", err: &pgconn.PgError{Code: "23505"}, want: apperror.ErrConflict},
		{name: "foreign key violation", err: &pgconn.PgError{Code: "23503"}, want: apperror.ErrConflict},
		{name: "app error passes through", err: existing, want: apperror.ErrInsufficientStock},
		{name: "anything else", err: errors.New("boom"), want: &apperror.AppError{Code: apperror.CodeInternal}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, translate(tt.err, "location", "id"), tt.want)
		})
	}

	assert.NoError(t, translate(nil, "location", "id"))
	assert.Same(t, existing, translate(existing, "location", "id"))
}
