package repositories

import (
	"context"

	"invoptimizer/internal/models"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	GetBySKU(ctx context.Context, sku string) (*models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*models.Product, error)
	All(ctx context.Context) ([]*models.Product, error)
}

type productRepo struct {
	db DBTX
}

func NewProductRepository(db DBTX) ProductRepository {
	return &productRepo{db: db}
}

const productColumns = `id, name, sku, description, category_id, unit_cost, selling_price, image_url, created_at, updated_at`
const productOrder = ` FROM products ORDER BY name ASC, id ASC`

func (r *productRepo) Create(ctx context.Context, product *models.Product) error {
	query := `
		INSERT INTO products (id, name, sku, description, category_id, unit_cost, selling_price, image_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, product.ID, product.Name, product.SKU, product.Description, product.CategoryID,
		product.UnitCost, product.SellingPrice, product.ImageURL)
	return err
}

func (r *productRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	return r.get(ctx, query, id)
}

func (r *productRepo) GetBySKU(ctx context.Context, sku string) (*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE sku = $1`
	return r.get(ctx, query, sku)
}

func (r *productRepo) Update(ctx context.Context, product *models.Product) error {
	query := `
		UPDATE products
		SET name = $1, sku = $2, description = $3, category_id = $4, unit_cost = $5,
			selling_price = $6, image_url = $7, updated_at = NOW()
		WHERE id = $8
	`
	tag, err := r.db.Exec(ctx, query, product.Name, product.SKU, product.Description, product.CategoryID,
		product.UnitCost, product.SellingPrice, product.ImageURL, product.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *productRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *productRepo) List(ctx context.Context, limit, offset int) ([]*models.Product, error) {
	query := `SELECT ` + productColumns + productOrder + ` LIMIT $1 OFFSET $2`
	var products []*models.Product
	if err := pgxscan.Select(ctx, r.db, &products, query, limit, offset); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *productRepo) All(ctx context.Context) ([]*models.Product, error) {
	var products []*models.Product
	if err := pgxscan.Select(ctx, r.db, &products, `SELECT `+productColumns+productOrder); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *productRepo) get(ctx context.Context, query string, args ...any) (*models.Product, error) {
	product := &models.Product{}
	if err := pgxscan.Get(ctx, r.db, product, query, args...); err != nil {
		return nil, notFound(err)
	}
	return product, nil
}
