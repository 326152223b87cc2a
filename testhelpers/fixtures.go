package testhelpers

import (
	"time"

	"invoptimizer/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Epoch is a fixed instant fixtures are dated from.
var Epoch = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func Location(name string) *models.Location {
	return &models.Location{
		ID:        uuid.New(),
		Name:      name,
		Address:   "1 Test Way",
		City:      "Springfield",
		State:     "IL",
		ZipCode:   "62701",
		CreatedAt: Epoch,
		UpdatedAt: Epoch,
	}
}

func Product(name, sku string, unitCost string) *models.Product {
	return &models.Product{
		ID:           uuid.New(),
		Name:         name,
		SKU:          sku,
		UnitCost:     decimal.RequireFromString(unitCost),
		SellingPrice: decimal.RequireFromString(unitCost).Mul(decimal.NewFromInt(2)),
		CreatedAt:    Epoch,
		UpdatedAt:    Epoch,
	}
}

func Item(product *models.Product, location *models.Location, quantity, minThreshold, maxThreshold int) *models.InventoryItem {
	return &models.InventoryItem{
		ID:           uuid.New(),
		ProductID:    product.ID,
		LocationID:   location.ID,
		Quantity:     quantity,
		MinThreshold: minThreshold,
		MaxThreshold: maxThreshold,
		LastUpdated:  Epoch,
	}
}

// Transfer returns a transfer in status. Completed transfers get a completed date
// one day after initiation.
func Transfer(product *models.Product, from, to *models.Location, quantity int, status models.TransferStatus) *models.Transfer {
	t := models.NewTransfer(product.ID, from.ID, to.ID, quantity, Epoch)
	t.Status = status
	if status == models.TransferCompleted {
		done := Epoch.Add(24 * time.Hour)
		t.CompletedDate = &done
	}
	return t
}
