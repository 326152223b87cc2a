// Package analytics computes the dashboard's derived figures from inventory snapshots.
//
// The functions in this package are pure: they read the slices they are given and
// allocate new results, so they can be called concurrently on shared snapshots.
package analytics

import (
	"invoptimizer/internal/apperror"
	"invoptimizer/internal/models"

	"github.com/google/uuid"
)

// Snapshot is a point-in-time copy of every entity the dashboard is derived from.
type Snapshot struct {
	Locations []*models.Location
	Products  []*models.Product
	Items     []*models.InventoryItem
	Transfers []*models.Transfer
}

// Summarize validates the snapshot and counts the dashboard headline figures.
// Any inconsistency aborts with a validation error and no partial summary.
func Summarize(items []*models.InventoryItem, transfers []*models.Transfer, locations []*models.Location, products []*models.Product) (models.InventorySummary, error) {
	locationIDs, err := indexLocations(locations)
	if err != nil {
		return models.InventorySummary{}, err
	}
	productIDs, err := indexProducts(products)
	if err != nil {
		return models.InventorySummary{}, err
	}
	if err := validateItems(items, productIDs, locationIDs); err != nil {
		return models.InventorySummary{}, err
	}
	if err := validateTransfers(transfers, productIDs, locationIDs); err != nil {
		return models.InventorySummary{}, err
	}

	summary := models.InventorySummary{
		TotalProducts:  len(productIDs),
		TotalLocations: len(locationIDs),
	}
	for _, item := range items {
		if item.IsLowStock() {
			summary.LowStockItems++
		}
		if item.IsOverStock() {
			summary.OverStockItems++
		}
	}
	for _, t := range transfers {
		if t.Status == models.TransferPending {
			summary.PendingTransfers++
		}
	}
	return summary, nil
}

// Summarize runs Summarize over the snapshot's sets.
func (s *Snapshot) Summarize() (models.InventorySummary, error) {
	return Summarize(s.Items, s.Transfers, s.Locations, s.Products)
}

func indexLocations(locations []*models.Location) (map[uuid.UUID]*models.Location, error) {
	index := make(map[uuid.UUID]*models.Location, len(locations))
	for _, l := range locations {
		if _, dup := index[l.ID]; dup {
			return nil, apperror.NewValidation("duplicate location id").WithDetail("location_id", l.ID)
		}
		index[l.ID] = l
	}
	return index, nil
}

func indexProducts(products []*models.Product) (map[uuid.UUID]*models.Product, error) {
	index := make(map[uuid.UUID]*models.Product, len(products))
	skus := make(map[string]uuid.UUID, len(products))
	for _, p := range products {
		if _, dup := index[p.ID]; dup {
			return nil, apperror.NewValidation("duplicate product id").WithDetail("product_id", p.ID)
		}
		if other, dup := skus[p.SKU]; dup {
			return nil, apperror.NewValidation("duplicate product sku").
				WithDetail("sku", p.SKU).
				WithDetail("product_id", p.ID).
				WithDetail("conflicts_with", other)
		}
		index[p.ID] = p
		skus[p.SKU] = p.ID
	}
	return index, nil
}

type itemKey struct {
	productID  uuid.UUID
	locationID uuid.UUID
}

func validateItems(items []*models.InventoryItem, products map[uuid.UUID]*models.Product, locations map[uuid.UUID]*models.Location) error {
	seen := make(map[itemKey]struct{}, len(items))
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return err
		}
		if _, ok := products[item.ProductID]; !ok {
			return apperror.NewValidation("inventory item references an unknown product").
				WithDetail("item_id", item.ID).
				WithDetail("product_id", item.ProductID)
		}
		if _, ok := locations[item.LocationID]; !ok {
			return apperror.NewValidation("inventory item references an unknown location").
				WithDetail("item_id", item.ID).
				WithDetail("location_id", item.LocationID)
		}
		key := itemKey{productID: item.ProductID, locationID: item.LocationID}
		if _, dup := seen[key]; dup {
			return apperror.NewValidation("more than one inventory item for the same product and location").
				WithDetail("product_id", item.ProductID).
				WithDetail("location_id", item.LocationID)
		}
		seen[key] = struct{}{}
	}
	return nil
}

func validateTransfers(transfers []*models.Transfer, products map[uuid.UUID]*models.Product, locations map[uuid.UUID]*models.Location) error {
	for _, t := range transfers {
		if err := t.Validate(); err != nil {
			return err
		}
		if _, ok := products[t.ProductID]; !ok {
			return apperror.NewValidation("transfer references an unknown product").
				WithDetail("transfer_id", t.ID).
				WithDetail("product_id", t.ProductID)
		}
		for _, id := range []uuid.UUID{t.FromLocationID, t.ToLocationID} {
			if _, ok := locations[id]; !ok {
				return apperror.NewValidation("transfer references an unknown location").
					WithDetail("transfer_id", t.ID).
					WithDetail("location_id", id)
			}
		}
	}
	return nil
}
