package jobs

import (
	"context"
	"slices"
	"strings"

	"invoptimizer/internal/models"
	"invoptimizer/internal/repositories"
	"invoptimizer/pkg/logger"

	"github.com/google/uuid"
)

type InventoryAlertService struct {
	inventoryRepo repositories.InventoryRepository
	productRepo   repositories.ProductRepository
	locationRepo  repositories.LocationRepository
	log           *logger.Logger
}

// InventoryAlert is an item whose quantity sits outside its own thresholds.
type InventoryAlert struct {
	ItemID       uuid.UUID         `json:"item_id"`
	Level        models.StockLevel `json:"level"`
	LocationID   uuid.UUID         `json:"location_id"`
	LocationName string            `json:"location_name"`
	ProductID    uuid.UUID         `json:"product_id"`
	ProductName  string            `json:"product_name"`
	SKU          string            `json:"sku"`
	CurrentStock int               `json:"current_stock"`
	MinThreshold int               `json:"min_threshold"`
	MaxThreshold int               `json:"max_threshold"`
}

func NewInventoryAlertService(
	inventoryRepo repositories.InventoryRepository,
	productRepo repositories.ProductRepository,
	locationRepo repositories.LocationRepository,
	log *logger.Logger,
) *InventoryAlertService {
	return &InventoryAlertService{
		inventoryRepo: inventoryRepo,
		productRepo:   productRepo,
		locationRepo:  locationRepo,
		log:           log.WithComponent("inventory-alerts"),
	}
}

// CheckStockLevels returns every low and over stock item, low first, then by
// location and product name.
func (a *InventoryAlertService) CheckStockLevels(ctx context.Context) ([]InventoryAlert, error) {
	var flagged []*models.InventoryItem
	for _, level := range []models.StockLevel{models.StockLevelLow, models.StockLevelOver} {
		items, err := a.inventoryRepo.AllAtLevel(ctx, level)
		if err != nil {
			a.log.Errorw("failed to list inventory", "level", level, "error", err)
			return nil, err
		}
		flagged = append(flagged, items...)
	}
	if len(flagged) == 0 {
		return nil, nil
	}

	products, err := a.productRepo.All(ctx)
	if err != nil {
		return nil, err
	}
	locations, err := a.locationRepo.All(ctx)
	if err != nil {
		return nil, err
	}
	productByID := make(map[uuid.UUID]*models.Product, len(products))
	for _, p := range products {
		productByID[p.ID] = p
	}
	locationNames := make(map[uuid.UUID]string, len(locations))
	for _, l := range locations {
		locationNames[l.ID] = l.Name
	}

	alerts := make([]InventoryAlert, 0, len(flagged))
	for _, item := range flagged {
		alert := InventoryAlert{
			ItemID:       item.ID,
			Level:        item.StockLevel(),
			LocationID:   item.LocationID,
			LocationName: locationNames[item.LocationID],
			ProductID:    item.ProductID,
			CurrentStock: item.Quantity,
			MinThreshold: item.MinThreshold,
			MaxThreshold: item.MaxThreshold,
		}
		if p, ok := productByID[item.ProductID]; ok {
			alert.ProductName = p.Name
			alert.SKU = p.SKU
		}
		alerts = append(alerts, alert)
	}

	slices.SortFunc(alerts, func(x, y InventoryAlert) int {
		if x.Level != y.Level {
			if x.Level == models.StockLevelLow {
				return -1
			}
			return 1
		}
		if c := strings.Compare(x.LocationName, y.LocationName); c != 0 {
			return c
		}
		return strings.Compare(x.ProductName, y.ProductName)
	})
	return alerts, nil
}

func (a *InventoryAlertService) LogStockAlerts(alerts []InventoryAlert) {
	if len(alerts) == 0 {
		a.log.Info("no stock alerts")
		return
	}

	for _, alert := range alerts {
		a.log.Warnw("stock outside thresholds",
			"level", alert.Level,
			"product", alert.ProductName,
			"sku", alert.SKU,
			"location", alert.LocationName,
			"quantity", alert.CurrentStock,
			"min_threshold", alert.MinThreshold,
			"max_threshold", alert.MaxThreshold)
	}
}

// ScheduledStockCheck is the scheduler entry point.
func (a *InventoryAlertService) ScheduledStockCheck(ctx context.Context) error {
	alerts, err := a.CheckStockLevels(ctx)
	if err != nil {
		a.log.Errorw("scheduled stock check failed", "error", err)
		return err
	}
	a.LogStockAlerts(alerts)
	return nil
}
