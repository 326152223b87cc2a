package analytics

import (
	"bytes"
	"slices"

	"invoptimizer/internal/apperror"
	"invoptimizer/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockValue values each location's inventory at product unit cost,
// highest value first and ties by location id.
func StockValue(items []*models.InventoryItem, products []*models.Product, locations []*models.Location) ([]models.LocationStockValue, error) {
	locationIndex, err := indexLocations(locations)
	if err != nil {
		return nil, err
	}
	productIndex, err := indexProducts(products)
	if err != nil {
		return nil, err
	}

	type acc struct {
		quantity int
		value    decimal.Decimal
	}
	totals := make(map[uuid.UUID]*acc, len(locations))
	for _, l := range locations {
		totals[l.ID] = &acc{value: decimal.Zero}
	}

	for _, item := range items {
		product, ok := productIndex[item.ProductID]
		if !ok {
			return nil, apperror.NewValidation("inventory item references an unknown product").
				WithDetail("item_id", item.ID).
				WithDetail("product_id", item.ProductID)
		}
		if _, ok := locationIndex[item.LocationID]; !ok {
			return nil, apperror.NewValidation("inventory item references an unknown location").
				WithDetail("item_id", item.ID).
				WithDetail("location_id", item.LocationID)
		}
		a := totals[item.LocationID]
		a.quantity += item.Quantity
		a.value = a.value.Add(product.UnitCost.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	values := make([]models.LocationStockValue, 0, len(locations))
	for _, l := range locations {
		a := totals[l.ID]
		values = append(values, models.LocationStockValue{
			LocationID:   l.ID,
			LocationName: l.Name,
			Quantity:     a.quantity,
			Value:        a.value,
		})
	}

	slices.SortFunc(values, func(a, b models.LocationStockValue) int {
		if c := b.Value.Cmp(a.Value); c != 0 {
			return c
		}
		return bytes.Compare(a.LocationID[:], b.LocationID[:])
	})
	return values, nil
}
