package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InventorySummary holds the headline counts shown on the dashboard.
// It is always derived from a snapshot, never stored.
type InventorySummary struct {
	TotalProducts    int `json:"total_products"`
	TotalLocations   int `json:"total_locations"`
	LowStockItems    int `json:"low_stock_items"`
	OverStockItems   int `json:"over_stock_items"`
	PendingTransfers int `json:"pending_transfers"`
}

// LocationShare is one location's share of total inventory quantity.
type LocationShare struct {
	LocationID   uuid.UUID `json:"location_id"`
	LocationName string    `json:"location_name"`
	Quantity     int       `json:"quantity"`
	Percentage   int       `json:"percentage"`
}

// LocationStockValue is the inventory at one location valued at unit cost.
type LocationStockValue struct {
	LocationID   uuid.UUID       `json:"location_id"`
	LocationName string          `json:"location_name"`
	Quantity     int             `json:"quantity"`
	Value        decimal.Decimal `json:"value"`
}

// Dashboard bundles everything the overview page renders.
type Dashboard struct {
	Summary      InventorySummary `json:"summary"`
	Distribution []LocationShare  `json:"distribution"`
	GeneratedAt  time.Time        `json:"generated_at"`
}
