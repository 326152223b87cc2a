package testhelpers

import (
	"context"
	"os"
	"testing"

	"invoptimizer/internal/models"
	"invoptimizer/pkg/database"
	"invoptimizer/pkg/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// TestDB holds the database connection for integration tests.
type TestDB struct {
	Pool    *pgxpool.Pool
	Cleanup func()
}

// SetupTestDB connects to TEST_DATABASE_URL and applies the schema. The test is
// skipped when the variable is unset or in short mode.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := database.NewPool(ctx, dsn, database.PoolConfig{MaxConns: 4}, logger.Nop())
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}
	if err := database.EnsureSchema(ctx, pool); err != nil {
		pool.Close()
		t.Fatalf("failed to apply schema: %v", err)
	}

	return &TestDB{
		Pool: pool,
		Cleanup: func() {
			_, _ = pool.Exec(context.Background(),
				`TRUNCATE transfers, inventory_items, products, categories, locations`)
			pool.Close()
		},
	}
}

// SeedLocation inserts l as-is.
func (db *TestDB) SeedLocation(t *testing.T, l *models.Location) {
	t.Helper()
	_, err := db.Pool.Exec(context.Background(),
		`INSERT INTO locations (id, name, address, city, state, zip_code) VALUES ($1, $2, $3, $4, $5, $6)`,
		l.ID, l.Name, l.Address, l.City, l.State, l.ZipCode)
	if err != nil {
		t.Fatalf("failed to seed location: %v", err)
	}
}

// SeedProduct inserts p as-is.
func (db *TestDB) SeedProduct(t *testing.T, p *models.Product) {
	t.Helper()
	_, err := db.Pool.Exec(context.Background(),
		`INSERT INTO products (id, name, sku, unit_cost, selling_price) VALUES ($1, $2, $3, $4, $5)`,
		p.ID, p.Name, p.SKU, p.UnitCost, p.SellingPrice)
	if err != nil {
		t.Fatalf("failed to seed product: %v", err)
	}
}

// SeedItem inserts item as-is.
func (db *TestDB) SeedItem(t *testing.T, item *models.InventoryItem) {
	t.Helper()
	_, err := db.Pool.Exec(context.Background(),
		`INSERT INTO inventory_items (id, product_id, location_id, quantity, min_threshold, max_threshold)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		item.ID, item.ProductID, item.LocationID, item.Quantity, item.MinThreshold, item.MaxThreshold)
	if err != nil {
		t.Fatalf("failed to seed inventory item: %v", err)
	}
}
