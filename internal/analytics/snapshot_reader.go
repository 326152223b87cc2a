package analytics

import (
	"context"
	"fmt"

	"invoptimizer/internal/repositories"

	"github.com/jackc/pgx/v5"
)

// SnapshotReader loads every entity set the aggregations need as one Snapshot.
type SnapshotReader interface {
	ReadSnapshot(ctx context.Context) (*Snapshot, error)
}

// Repositories reads a Snapshot from its repositories one after another. The
// result is only as consistent as the connection they share.
type Repositories struct {
	Locations repositories.LocationRepository
	Products  repositories.ProductRepository
	Items     repositories.InventoryRepository
	Transfers repositories.TransferRepository
}

func (r Repositories) ReadSnapshot(ctx context.Context) (*Snapshot, error) {
	snap := &Snapshot{}
	var err error
	if snap.Locations, err = r.Locations.All(ctx); err != nil {
		return nil, fmt.Errorf("read locations: %w", err)
	}
	if snap.Products, err = r.Products.All(ctx); err != nil {
		return nil, fmt.Errorf("read products: %w", err)
	}
	if snap.Items, err = r.Items.All(ctx); err != nil {
		return nil, fmt.Errorf("read inventory: %w", err)
	}
	if snap.Transfers, err = r.Transfers.All(ctx); err != nil {
		return nil, fmt.Errorf("read transfers: %w", err)
	}
	return snap, nil
}

// TxBeginner opens transactions. *pgxpool.Pool satisfies it.
type TxBeginner interface {
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

// snapshotTxOptions pin every read of one Snapshot to the same database view.
var snapshotTxOptions = pgx.TxOptions{
	IsoLevel:   pgx.RepeatableRead,
	AccessMode: pgx.ReadOnly,
}

type txSnapshotReader struct {
	db TxBeginner
}

// NewTxSnapshotReader reads each Snapshot inside one read-only repeatable-read
// transaction, so a transfer completing mid-read is seen either fully or not at all.
func NewTxSnapshotReader(db TxBeginner) SnapshotReader {
	return &txSnapshotReader{db: db}
}

func (r *txSnapshotReader) ReadSnapshot(ctx context.Context) (*Snapshot, error) {
	tx, err := r.db.BeginTx(ctx, snapshotTxOptions)
	if err != nil {
		return nil, fmt.Errorf("begin snapshot: %w", err)
	}

	snap, err := Repositories{
		Locations: repositories.NewLocationRepository(tx),
		Products:  repositories.NewProductRepository(tx),
		Items:     repositories.NewInventoryRepository(tx),
		Transfers: repositories.NewTransferRepository(tx),
	}.ReadSnapshot(ctx)
	if err != nil {
		_ = tx.Rollback(ctx)
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("end snapshot: %w", err)
	}
	return snap, nil
}
