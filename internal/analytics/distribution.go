package analytics

import (
	"bytes"
	"math"
	"slices"

	"invoptimizer/internal/apperror"
	"invoptimizer/internal/models"

	"github.com/google/uuid"
)

// Distribution returns each location's share of total quantity, rounded to the
// nearest whole percent, highest share first and ties by location id.
//
// Every location appears, including those holding nothing. When the total is zero
// the all-zero distribution is returned together with a DivisionUndefined error;
// callers that only need the figures may log it and carry on.
func Distribution(items []*models.InventoryItem, locations []*models.Location) ([]models.LocationShare, error) {
	index, err := indexLocations(locations)
	if err != nil {
		return nil, err
	}

	quantities := make(map[uuid.UUID]int, len(locations))
	total := 0
	for _, item := range items {
		if _, ok := index[item.LocationID]; !ok {
			return nil, apperror.NewValidation("inventory item references an unknown location").
				WithDetail("item_id", item.ID).
				WithDetail("location_id", item.LocationID)
		}
		if item.Quantity < 0 {
			return nil, apperror.NewFieldValidation("quantity", "quantity cannot be negative").
				WithDetail("item_id", item.ID)
		}
		quantities[item.LocationID] += item.Quantity
		total += item.Quantity
	}

	shares := make([]models.LocationShare, 0, len(locations))
	for _, l := range locations {
		share := models.LocationShare{
			LocationID:   l.ID,
			LocationName: l.Name,
			Quantity:     quantities[l.ID],
		}
		if total > 0 {
			share.Percentage = percentOf(share.Quantity, total)
		}
		shares = append(shares, share)
	}

	slices.SortFunc(shares, func(a, b models.LocationShare) int {
		if a.Percentage != b.Percentage {
			return b.Percentage - a.Percentage
		}
		return bytes.Compare(a.LocationID[:], b.LocationID[:])
	})

	if total == 0 {
		return shares, apperror.NewDivisionUndefined("total inventory across all locations is zero").
			WithDetail("locations", len(locations))
	}
	return shares, nil
}

// Distribution runs Distribution over the snapshot's items and locations.
func (s *Snapshot) Distribution() ([]models.LocationShare, error) {
	return Distribution(s.Items, s.Locations)
}

func percentOf(part, total int) int {
	return int(math.Round(float64(part) * 100 / float64(total)))
}
