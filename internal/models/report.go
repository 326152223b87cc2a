package models

import "time"

// DashboardReport is the document exported to object storage.
type DashboardReport struct {
	GeneratedAt  time.Time            `json:"generated_at"`
	Summary      InventorySummary     `json:"summary"`
	Distribution []LocationShare      `json:"distribution"`
	StockValues  []LocationStockValue `json:"stock_values"`
	Activity     []Activity           `json:"activity"`
}

// Report points at a stored DashboardReport.
type Report struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"last_modified"`
	URL          string    `json:"url,omitempty"`
}
