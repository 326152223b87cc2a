package repositories

import (
	"context"
	"fmt"

	"invoptimizer/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type TransferRepository interface {
	Create(ctx context.Context, transfer *models.Transfer) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Transfer, error)
	List(ctx context.Context, filter models.TransferFilter) ([]*models.Transfer, error)
	All(ctx context.Context) ([]*models.Transfer, error)
	// UpdateStatus persists transfer.Status and CompletedDate if the stored status is still from.
	UpdateStatus(ctx context.Context, transfer *models.Transfer, from models.TransferStatus) error
	// Complete marks an in-transit transfer completed and moves its quantity between
	// the two locations in a single transaction.
	Complete(ctx context.Context, transfer *models.Transfer) error
}

type transferRepo struct {
	db      DBTX
	builder squirrel.StatementBuilderType
}

func NewTransferRepository(db DBTX) TransferRepository {
	return &transferRepo{
		db:      db,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

const transferColumns = `id, product_id, from_location_id, to_location_id, quantity, status, initiated_date, completed_date`

func scanTransfer(row pgx.Row) (*models.Transfer, error) {
	t := &models.Transfer{}
	var status string
	err := row.Scan(&t.ID, &t.ProductID, &t.FromLocationID, &t.ToLocationID, &t.Quantity,
		&status, &t.InitiatedDate, &t.CompletedDate)
	if err != nil {
		return nil, err
	}
	t.Status = models.TransferStatus(status)
	return t, nil
}

func (r *transferRepo) Create(ctx context.Context, transfer *models.Transfer) error {
	query := `
		INSERT INTO transfers (id, product_id, from_location_id, to_location_id, quantity, status, initiated_date, completed_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.Exec(ctx, query, transfer.ID, transfer.ProductID, transfer.FromLocationID, transfer.ToLocationID,
		transfer.Quantity, string(transfer.Status), transfer.InitiatedDate, transfer.CompletedDate)
	return err
}

func (r *transferRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Transfer, error) {
	query := `SELECT ` + transferColumns + ` FROM transfers WHERE id = $1`
	return scanTransfer(r.db.QueryRow(ctx, query, id))
}

func (r *transferRepo) List(ctx context.Context, filter models.TransferFilter) ([]*models.Transfer, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultListLimit
	}
	q := r.filtered(filter).
		Limit(uint64(filter.Limit)).
		Offset(uint64(filter.Offset))
	return r.selectTransfers(ctx, q)
}

// All reads every transfer without LIMIT or OFFSET.
func (r *transferRepo) All(ctx context.Context) ([]*models.Transfer, error) {
	return r.selectTransfers(ctx, r.filtered(models.TransferFilter{}))
}

func (r *transferRepo) filtered(filter models.TransferFilter) squirrel.SelectBuilder {
	q := r.builder.Select(transferColumns).
		From("transfers").
		OrderBy("initiated_date DESC", "id ASC")
	if filter.Status != nil {
		q = q.Where(squirrel.Eq{"status": string(*filter.Status)})
	}
	if filter.ProductID != nil {
		q = q.Where(squirrel.Eq{"product_id": filter.ProductID.String()})
	}
	if filter.LocationID != nil {
		id := filter.LocationID.String()
		q = q.Where(squirrel.Or{
			squirrel.Eq{"from_location_id": id},
			squirrel.Eq{"to_location_id": id},
		})
	}
	return q
}

func (r *transferRepo) selectTransfers(ctx context.Context, q squirrel.SelectBuilder) ([]*models.Transfer, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transfers []*models.Transfer
	for rows.Next() {
		t, err := scanTransfer(rows)
		if err != nil {
			return nil, err
		}
		transfers = append(transfers, t)
	}
	return transfers, rows.Err()
}

func (r *transferRepo) UpdateStatus(ctx context.Context, transfer *models.Transfer, from models.TransferStatus) error {
	query := `
		UPDATE transfers
		SET status = $1, completed_date = $2
		WHERE id = $3 AND status = $4
	`
	tag, err := r.db.Exec(ctx, query, string(transfer.Status), transfer.CompletedDate, transfer.ID, string(from))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrStaleStatus
	}
	return nil
}

func (r *transferRepo) Complete(ctx context.Context, transfer *models.Transfer) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	if err := completeInTx(ctx, tx, transfer); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}

func completeInTx(ctx context.Context, tx pgx.Tx, transfer *models.Transfer) error {
	tag, err := tx.Exec(ctx, `
		UPDATE transfers
		SET status = $1, completed_date = $2
		WHERE id = $3 AND status = $4
	`, string(models.TransferCompleted), transfer.CompletedDate, transfer.ID, string(models.TransferInTransit))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrStaleStatus
	}

	tag, err = tx.Exec(ctx, `
		UPDATE inventory_items
		SET quantity = quantity - $1, last_updated = NOW()
		WHERE location_id = $2 AND product_id = $3 AND quantity >= $1
	`, transfer.Quantity, transfer.FromLocationID, transfer.ProductID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrInsufficientStock
	}

	// New destination rows get thresholds that classify the delivered quantity as normal.
	_, err = tx.Exec(ctx, `
		INSERT INTO inventory_items (id, product_id, location_id, quantity, min_threshold, max_threshold, last_restocked, last_updated)
		VALUES ($1, $2, $3, $4, 0, $4, NOW(), NOW())
		ON CONFLICT (product_id, location_id)
		DO UPDATE SET quantity = inventory_items.quantity + EXCLUDED.quantity, last_restocked = NOW(), last_updated = NOW()
	`, uuid.New(), transfer.ProductID, transfer.ToLocationID, transfer.Quantity)
	return err
}
