package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type ActivityType string

const (
	ActivityTransferInitiated ActivityType = "transfer_initiated"
	ActivityTransferInTransit ActivityType = "transfer_in_transit"
	ActivityTransferCompleted ActivityType = "transfer_completed"
	ActivityTransferCancelled ActivityType = "transfer_cancelled"
	ActivityInventoryUpdate   ActivityType = "inventory_update"
	ActivityLowStockAlert     ActivityType = "low_stock_alert"
	ActivityOverStockAlert    ActivityType = "over_stock_alert"
)

type ActivityStatus string

const (
	ActivityPending   ActivityStatus = "pending"
	ActivityInTransit ActivityStatus = "in_transit"
	ActivityCompleted ActivityStatus = "completed"
	ActivityAlert     ActivityStatus = "alert"
	ActivityCancelled ActivityStatus = "cancelled"
)

// Activity is one entry of the dashboard's recent activity feed.
type Activity struct {
	ID          string         `json:"id"`
	Type        ActivityType   `json:"type"`
	Description string         `json:"description"`
	Status      ActivityStatus `json:"status"`
	Timestamp   time.Time      `json:"timestamp"`
	ProductID   uuid.UUID      `json:"product_id"`
	LocationID  *uuid.UUID     `json:"location_id,omitempty"`
}

// MarshalJSON adds the resolved badge so clients need no status table of their own.
func (a Activity) MarshalJSON() ([]byte, error) {
	type alias Activity
	return json.Marshal(struct {
		alias
		Badge DisplayMeta `json:"badge"`
	}{alias: alias(a), Badge: a.Status.Display()})
}
