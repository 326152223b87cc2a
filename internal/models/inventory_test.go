package models

import (
	"testing"

	"invoptimizer/internal/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestInventoryItem_StockLevel(t *testing.T) {
	tests := []struct {
		name     string
		quantity int
		want     StockLevel
	}{
		{"below min", 2, StockLevelLow},
		{"at min", 5, StockLevelNormal},
		{"at max", 20, StockLevelNormal},
		{"above max", 21, StockLevelOver},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := &InventoryItem{Quantity: tt.quantity, MinThreshold: 5, MaxThreshold: 20}
			assert.Equal(t, tt.want, item.StockLevel())
		})
	}
}

func TestInventoryItem_Validate(t *testing.T) {
	assert.NoError(t, (&InventoryItem{Quantity: 0, MinThreshold: 0, MaxThreshold: 0}).Validate())
	assert.ErrorIs(t, (&InventoryItem{Quantity: -1, MaxThreshold: 10}).Validate(), apperror.ErrValidation)
	assert.ErrorIs(t, (&InventoryItem{Quantity: 3, MinThreshold: 10, MaxThreshold: 5}).Validate(), apperror.ErrValidation)
	assert.ErrorIs(t, (&InventoryItem{Quantity: 3, MinThreshold: -1, MaxThreshold: 5}).Validate(), apperror.ErrValidation)
}

func TestProduct_Validate(t *testing.T) {
	p := &Product{
		ID:           uuid.New(),
		Name:         "Premium Notebook",
		SKU:          "NB-001",
		UnitCost:     decimal.RequireFromString("3.20"),
		SellingPrice: decimal.RequireFromString("7.99"),
	}
	assert.NoError(t, p.Validate())

	p.UnitCost = decimal.RequireFromString("-0.01")
	assert.ErrorIs(t, p.Validate(), apperror.ErrValidation)

	p.UnitCost = decimal.Zero
	p.SKU = "  "
	assert.ErrorIs(t, p.Validate(), apperror.ErrValidation)
}

func TestLocation_Validate(t *testing.T) {
	assert.NoError(t, (&Location{Name: "Warehouse A"}).Validate())
	assert.ErrorIs(t, (&Location{Name: ""}).Validate(), apperror.ErrValidation)
}
