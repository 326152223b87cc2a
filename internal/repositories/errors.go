package repositories

import (
	"errors"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
)

var (
	// ErrStaleStatus means the row no longer had the status the update was guarded on.
	ErrStaleStatus = errors.New("transfer status changed concurrently")
	// ErrInsufficientStock means the source location holds less than the transfer quantity.
	ErrInsufficientStock = errors.New("insufficient stock at source location")
)

// notFound reports an empty single-row result as pgx.ErrNoRows, whichever scanner produced it.
func notFound(err error) error {
	if pgxscan.NotFound(err) {
		return pgx.ErrNoRows
	}
	return err
}
