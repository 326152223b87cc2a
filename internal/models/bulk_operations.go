package models

import (
	"time"

	"github.com/google/uuid"
)

type BulkStatus string

const (
	BulkCompleted BulkStatus = "completed"
	BulkPartial   BulkStatus = "partial"
	BulkFailed    BulkStatus = "failed"
)

// BulkOperationResult reports the per-item outcome of a bulk request.
type BulkOperationResult struct {
	OperationID    string               `json:"operation_id"`
	Status         BulkStatus           `json:"status"`
	TotalItems     int                  `json:"total_items"`
	ProcessedItems int                  `json:"processed_items"`
	FailedItems    int                  `json:"failed_items"`
	StartTime      time.Time            `json:"start_time"`
	CompletionTime time.Time            `json:"completion_time"`
	Errors         []BulkOperationError `json:"errors,omitempty"`
}

type BulkOperationError struct {
	ItemIndex int    `json:"item_index"`
	Code      string `json:"code"`
	Error     string `json:"error"`
}

// Finish sets Status from the item counts.
func (r *BulkOperationResult) Finish(at time.Time) {
	r.CompletionTime = at
	switch {
	case r.FailedItems == 0:
		r.Status = BulkCompleted
	case r.ProcessedItems == 0:
		r.Status = BulkFailed
	default:
		r.Status = BulkPartial
	}
}

// InventoryAdjustment changes the stock of one product at one location by a signed amount.
type InventoryAdjustment struct {
	LocationID     uuid.UUID `json:"location_id" validate:"required"`
	ProductID      uuid.UUID `json:"product_id" validate:"required"`
	QuantityChange int       `json:"quantity_change" validate:"ne=0"`
	Reason         string    `json:"reason" validate:"required,max=255"`
}

// InventoryBulkAdjust applies adjustments independently; one failing does not stop the rest.
type InventoryBulkAdjust struct {
	Adjustments []InventoryAdjustment `json:"adjustments" validate:"required,min=1,max=500,dive"`
}
