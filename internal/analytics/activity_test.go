package analytics

import (
	"testing"
	"time"

	"invoptimizer/internal/models"
	"invoptimizer/testhelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecentActivity_NewestFirst(t *testing.T) {
	f := newFixture()

	pending := testhelpers.Transfer(f.widget, f.north, f.south, 5, models.TransferPending)
	pending.InitiatedDate = testhelpers.Epoch.Add(2 * time.Hour)
	completed := testhelpers.Transfer(f.bolt, f.south, f.north, 8, models.TransferCompleted) // completes Epoch+24h
	low := testhelpers.Item(f.widget, f.north, 1, 5, 20)
	low.LastUpdated = testhelpers.Epoch.Add(time.Hour)
	normal := testhelpers.Item(f.bolt, f.north, 10, 5, 20)

	feed := RecentActivity(
		[]*models.Transfer{pending, completed},
		[]*models.InventoryItem{low, normal},
		f.products(), f.locations(), 10,
	)
	require.Len(t, feed, 3, "normal items produce no entry")

	assert.Equal(t, models.ActivityTransferCompleted, feed[0].Type)
	assert.Equal(t, models.ActivityCompleted, feed[0].Status)
	assert.Equal(t, `Transfer of 8 units of "Bolt" from South to North completed`, feed[0].Description)

	assert.Equal(t, models.ActivityTransferInitiated, feed[1].Type)
	assert.Equal(t, models.ActivityPending, feed[1].Status)

	assert.Equal(t, models.ActivityLowStockAlert, feed[2].Type)
	assert.Equal(t, models.ActivityAlert, feed[2].Status)
	require.NotNil(t, feed[2].LocationID)
	assert.Equal(t, f.north.ID, *feed[2].LocationID)
	assert.Contains(t, feed[2].Description, "1 units remaining")
}

func TestRecentActivity_InTransitIsNotInitiated(t *testing.T) {
	f := newFixture()
	dispatched := testhelpers.Transfer(f.widget, f.north, f.south, 20, models.TransferInTransit)

	feed := RecentActivity([]*models.Transfer{dispatched}, nil, f.products(), f.locations(), 0)
	require.Len(t, feed, 1)

	assert.Equal(t, models.ActivityTransferInTransit, feed[0].Type)
	assert.Equal(t, models.ActivityInTransit, feed[0].Status)
	assert.Equal(t, `Transfer of 20 units of "Widget" from North to South in transit`, feed[0].Description)
	assert.Equal(t, models.BadgeInfo, feed[0].Status.Display().Variant)
}

func TestRecentActivity_OverStockAndCancelled(t *testing.T) {
	f := newFixture()
	cancelled := testhelpers.Transfer(f.widget, f.north, f.south, 2, models.TransferCancelled)
	over := testhelpers.Item(f.bolt, f.south, 90, 5, 20)

	feed := RecentActivity([]*models.Transfer{cancelled}, []*models.InventoryItem{over}, f.products(), f.locations(), 0)
	require.Len(t, feed, 2)

	types := []models.ActivityType{feed[0].Type, feed[1].Type}
	assert.ElementsMatch(t, []models.ActivityType{models.ActivityTransferCancelled, models.ActivityOverStockAlert}, types)
}

func TestRecentActivity_Limit(t *testing.T) {
	f := newFixture()
	var transfers []*models.Transfer
	for i := 0; i < 15; i++ {
		tr := testhelpers.Transfer(f.widget, f.north, f.south, 1, models.TransferPending)
		tr.InitiatedDate = testhelpers.Epoch.Add(time.Duration(i) * time.Minute)
		transfers = append(transfers, tr)
	}

	assert.Len(t, RecentActivity(transfers, nil, f.products(), f.locations(), 0), DefaultActivityLimit)

	feed := RecentActivity(transfers, nil, f.products(), f.locations(), 3)
	require.Len(t, feed, 3)
	assert.Equal(t, transfers[14].ProductID, feed[0].ProductID)
	assert.Equal(t, testhelpers.Epoch.Add(14*time.Minute), feed[0].Timestamp)
}

func TestRecentActivity_UnknownNamesFallBackToIDs(t *testing.T) {
	f := newFixture()
	tr := testhelpers.Transfer(f.widget, f.north, f.south, 1, models.TransferPending)

	feed := RecentActivity([]*models.Transfer{tr}, nil, nil, nil, 5)
	require.Len(t, feed, 1)
	assert.Contains(t, feed[0].Description, f.widget.ID.String())
	assert.Contains(t, feed[0].Description, f.north.ID.String())
}
