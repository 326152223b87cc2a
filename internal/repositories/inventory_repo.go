package repositories

import (
	"context"
	"errors"
	"fmt"

	"invoptimizer/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const defaultListLimit = 50

type InventoryRepository interface {
	Create(ctx context.Context, item *models.InventoryItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error)
	GetByLocationAndProduct(ctx context.Context, locationID, productID uuid.UUID) (*models.InventoryItem, error)
	Update(ctx context.Context, item *models.InventoryItem) error
	Delete(ctx context.Context, id uuid.UUID) error
	// AdjustQuantity adds delta to the item's quantity unless the result would be negative,
	// in which case it returns ErrInsufficientStock.
	AdjustQuantity(ctx context.Context, id uuid.UUID, delta int) (*models.InventoryItem, error)
	List(ctx context.Context, filter models.InventoryFilter) ([]*models.InventoryItem, error)
	// All and AllAtLevel read without LIMIT or OFFSET.
	All(ctx context.Context) ([]*models.InventoryItem, error)
	AllAtLevel(ctx context.Context, level models.StockLevel) ([]*models.InventoryItem, error)
}

type inventoryRepo struct {
	db      DBTX
	builder squirrel.StatementBuilderType
}

func NewInventoryRepository(db DBTX) InventoryRepository {
	return &inventoryRepo{
		db:      db,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

const inventoryColumns = `id, product_id, location_id, quantity, min_threshold, max_threshold, last_restocked, last_updated`

func (r *inventoryRepo) Create(ctx context.Context, item *models.InventoryItem) error {
	query := `
		INSERT INTO inventory_items (id, product_id, location_id, quantity, min_threshold, max_threshold, last_restocked, last_updated)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
	`
	_, err := r.db.Exec(ctx, query, item.ID, item.ProductID, item.LocationID, item.Quantity,
		item.MinThreshold, item.MaxThreshold, item.LastRestocked)
	return err
}

func (r *inventoryRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error) {
	query := `SELECT ` + inventoryColumns + ` FROM inventory_items WHERE id = $1`
	return r.get(ctx, query, id)
}

func (r *inventoryRepo) GetByLocationAndProduct(ctx context.Context, locationID, productID uuid.UUID) (*models.InventoryItem, error) {
	query := `SELECT ` + inventoryColumns + ` FROM inventory_items WHERE location_id = $1 AND product_id = $2`
	return r.get(ctx, query, locationID, productID)
}

func (r *inventoryRepo) Update(ctx context.Context, item *models.InventoryItem) error {
	query := `
		UPDATE inventory_items
		SET quantity = $1, min_threshold = $2, max_threshold = $3, last_restocked = $4, last_updated = NOW()
		WHERE id = $5
	`
	tag, err := r.db.Exec(ctx, query, item.Quantity, item.MinThreshold, item.MaxThreshold, item.LastRestocked, item.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *inventoryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM inventory_items WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *inventoryRepo) AdjustQuantity(ctx context.Context, id uuid.UUID, delta int) (*models.InventoryItem, error) {
	query := `
		UPDATE inventory_items
		SET quantity = quantity + $1,
			last_restocked = CASE WHEN $1 > 0 THEN NOW() ELSE last_restocked END,
			last_updated = NOW()
		WHERE id = $2 AND quantity + $1 >= 0
		RETURNING ` + inventoryColumns
	item, err := r.get(ctx, query, delta, id)
	if !errors.Is(err, pgx.ErrNoRows) {
		return item, err
	}

	// No row updated: either the item is gone or the guard rejected the change.
	if _, getErr := r.GetByID(ctx, id); getErr != nil {
		return nil, getErr
	}
	return nil, ErrInsufficientStock
}

func (r *inventoryRepo) List(ctx context.Context, filter models.InventoryFilter) ([]*models.InventoryItem, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultListLimit
	}
	q, err := r.filtered(filter)
	if err != nil {
		return nil, err
	}
	return r.selectItems(ctx, q.Limit(uint64(filter.Limit)).Offset(uint64(filter.Offset)))
}

func (r *inventoryRepo) All(ctx context.Context) ([]*models.InventoryItem, error) {
	q, err := r.filtered(models.InventoryFilter{})
	if err != nil {
		return nil, err
	}
	return r.selectItems(ctx, q)
}

func (r *inventoryRepo) AllAtLevel(ctx context.Context, level models.StockLevel) ([]*models.InventoryItem, error) {
	q, err := r.filtered(models.InventoryFilter{Level: &level})
	if err != nil {
		return nil, err
	}
	return r.selectItems(ctx, q)
}

// filtered builds the ordered, filtered select; Limit and Offset are left to the caller.
func (r *inventoryRepo) filtered(filter models.InventoryFilter) (squirrel.SelectBuilder, error) {
	q := r.builder.Select(inventoryColumns).
		From("inventory_items").
		OrderBy("last_updated DESC", "id ASC")
	// uuid.UUID is an array type that squirrel would expand into an IN list.
	if filter.LocationID != nil {
		q = q.Where(squirrel.Eq{"location_id": filter.LocationID.String()})
	}
	if filter.ProductID != nil {
		q = q.Where(squirrel.Eq{"product_id": filter.ProductID.String()})
	}
	if filter.Level != nil {
		switch *filter.Level {
		case models.StockLevelLow:
			q = q.Where("quantity < min_threshold")
		case models.StockLevelOver:
			q = q.Where("quantity > max_threshold")
		case models.StockLevelNormal:
			q = q.Where("quantity BETWEEN min_threshold AND max_threshold")
		default:
			return q, fmt.Errorf("unknown stock level %q", *filter.Level)
		}
	}
	return q, nil
}

func (r *inventoryRepo) selectItems(ctx context.Context, q squirrel.SelectBuilder) ([]*models.InventoryItem, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []*models.InventoryItem
	if err := pgxscan.Select(ctx, r.db, &items, query, args...); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *inventoryRepo) get(ctx context.Context, query string, args ...any) (*models.InventoryItem, error) {
	item := &models.InventoryItem{}
	if err := pgxscan.Get(ctx, r.db, item, query, args...); err != nil {
		return nil, notFound(err)
	}
	return item, nil
}
