package analytics

import (
	"fmt"
	"slices"
	"strings"

	"invoptimizer/internal/models"

	"github.com/google/uuid"
)

const DefaultActivityLimit = 10

// RecentActivity builds the dashboard activity feed, newest first.
// Transfers contribute their current lifecycle event and items outside their
// thresholds contribute a stock alert.
func RecentActivity(transfers []*models.Transfer, items []*models.InventoryItem, products []*models.Product, locations []*models.Location, limit int) []models.Activity {
	if limit <= 0 {
		limit = DefaultActivityLimit
	}

	productNames := make(map[uuid.UUID]string, len(products))
	for _, p := range products {
		productNames[p.ID] = p.Name
	}
	locationNames := make(map[uuid.UUID]string, len(locations))
	for _, l := range locations {
		locationNames[l.ID] = l.Name
	}
	nameOf := func(names map[uuid.UUID]string, id uuid.UUID) string {
		if n, ok := names[id]; ok {
			return n
		}
		return id.String()
	}

	feed := make([]models.Activity, 0, len(transfers)+len(items))
	for _, t := range transfers {
		product := nameOf(productNames, t.ProductID)
		from := nameOf(locationNames, t.FromLocationID)
		to := nameOf(locationNames, t.ToLocationID)

		a := models.Activity{
			ID:        "transfer:" + t.ID.String(),
			ProductID: t.ProductID,
			Timestamp: t.InitiatedDate,
		}
		switch t.Status {
		case models.TransferCompleted:
			a.Type = models.ActivityTransferCompleted
			a.Status = models.ActivityCompleted
			a.Description = fmt.Sprintf("Transfer of %d units of %q from %s to %s completed", t.Quantity, product, from, to)
			if t.CompletedDate != nil {
				a.Timestamp = *t.CompletedDate
			}
		case models.TransferCancelled:
			a.Type = models.ActivityTransferCancelled
			a.Status = models.ActivityCancelled
			a.Description = fmt.Sprintf("Transfer of %d units of %q from %s to %s cancelled", t.Quantity, product, from, to)
		case models.TransferInTransit:
			a.Type = models.ActivityTransferInTransit
			a.Status = models.ActivityInTransit
			a.Description = fmt.Sprintf("Transfer of %d units of %q from %s to %s in transit", t.Quantity, product, from, to)
		default:
			a.Type = models.ActivityTransferInitiated
			a.Status = models.ActivityPending
			a.Description = fmt.Sprintf("Transfer of %d units of %q from %s to %s", t.Quantity, product, from, to)
		}
		feed = append(feed, a)
	}

	for _, item := range items {
		level := item.StockLevel()
		if level == models.StockLevelNormal {
			continue
		}
		locationID := item.LocationID
		a := models.Activity{
			ID:         "stock:" + item.ID.String(),
			Status:     models.ActivityAlert,
			Timestamp:  item.LastUpdated,
			ProductID:  item.ProductID,
			LocationID: &locationID,
		}
		product := nameOf(productNames, item.ProductID)
		location := nameOf(locationNames, item.LocationID)
		if level == models.StockLevelLow {
			a.Type = models.ActivityLowStockAlert
			a.Description = fmt.Sprintf("Low stock alert for %q at %s (%d units remaining)", product, location, item.Quantity)
		} else {
			a.Type = models.ActivityOverStockAlert
			a.Description = fmt.Sprintf("Over stock alert for %q at %s (%d units, max %d)", product, location, item.Quantity, item.MaxThreshold)
		}
		feed = append(feed, a)
	}

	slices.SortFunc(feed, func(a, b models.Activity) int {
		if c := b.Timestamp.Compare(a.Timestamp); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})

	if len(feed) > limit {
		feed = feed[:limit]
	}
	return feed
}
