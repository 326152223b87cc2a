package models

import (
	"time"

	"invoptimizer/internal/apperror"

	"github.com/google/uuid"
)

// StockLevel classifies an item's quantity against its thresholds.
type StockLevel string

const (
	StockLevelLow    StockLevel = "low"
	StockLevelNormal StockLevel = "normal"
	StockLevelOver   StockLevel = "over"
)

// InventoryItem is the stock of one product at one location.
// (ProductID, LocationID) is unique.
type InventoryItem struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	ProductID     uuid.UUID  `json:"product_id" db:"product_id"`
	LocationID    uuid.UUID  `json:"location_id" db:"location_id"`
	Quantity      int        `json:"quantity" db:"quantity"`
	MinThreshold  int        `json:"min_threshold" db:"min_threshold"`
	MaxThreshold  int        `json:"max_threshold" db:"max_threshold"`
	LastRestocked *time.Time `json:"last_restocked,omitempty" db:"last_restocked"`
	LastUpdated   time.Time  `json:"last_updated" db:"last_updated"`
}

// IsLowStock reports quantity strictly below the minimum threshold.
func (i *InventoryItem) IsLowStock() bool {
	return i.Quantity < i.MinThreshold
}

// IsOverStock reports quantity strictly above the maximum threshold.
func (i *InventoryItem) IsOverStock() bool {
	return i.Quantity > i.MaxThreshold
}

func (l StockLevel) Valid() bool {
	switch l {
	case StockLevelLow, StockLevelNormal, StockLevelOver:
		return true
	}
	return false
}

func (i *InventoryItem) StockLevel() StockLevel {
	switch {
	case i.IsLowStock():
		return StockLevelLow
	case i.IsOverStock():
		return StockLevelOver
	default:
		return StockLevelNormal
	}
}

// Validate checks quantity and threshold invariants.
func (i *InventoryItem) Validate() error {
	if i.Quantity < 0 {
		return apperror.NewFieldValidation("quantity", "quantity cannot be negative").
			WithDetail("item_id", i.ID)
	}
	if i.MinThreshold < 0 {
		return apperror.NewFieldValidation("min_threshold", "min_threshold cannot be negative").
			WithDetail("item_id", i.ID)
	}
	if i.MinThreshold > i.MaxThreshold {
		return apperror.NewFieldValidation("min_threshold", "min_threshold exceeds max_threshold").
			WithDetail("item_id", i.ID).
			WithDetail("min_threshold", i.MinThreshold).
			WithDetail("max_threshold", i.MaxThreshold)
	}
	return nil
}

// InventoryFilter narrows inventory listings. Nil fields match every item.
type InventoryFilter struct {
	LocationID *uuid.UUID
	ProductID  *uuid.UUID
	Level      *StockLevel
	Limit      int
	Offset     int
}
