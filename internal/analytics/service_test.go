package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"invoptimizer/internal/apperror"
	"invoptimizer/internal/models"
	"invoptimizer/pkg/logger"
	"invoptimizer/testhelpers"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type AnalyticsServiceTestSuite struct {
	suite.Suite
	locationRepo  *testhelpers.MockLocationRepository
	productRepo   *testhelpers.MockProductRepository
	inventoryRepo *testhelpers.MockInventoryRepository
	transferRepo  *testhelpers.MockTransferRepository
	cache         *testhelpers.MockCacheService
	service       *AnalyticsService
	ctx           context.Context
	f             fixture
}

func (s *AnalyticsServiceTestSuite) SetupTest() {
	s.locationRepo = new(testhelpers.MockLocationRepository)
	s.productRepo = new(testhelpers.MockProductRepository)
	s.inventoryRepo = new(testhelpers.MockInventoryRepository)
	s.transferRepo = new(testhelpers.MockTransferRepository)
	s.cache = new(testhelpers.MockCacheService)
	s.service = NewAnalyticsService(s.repositories(), s.cache, time.Minute, logger.Nop())
	s.service.now = func() time.Time { return testhelpers.Epoch }
	s.ctx = context.Background()
	s.f = newFixture()
}

func (s *AnalyticsServiceTestSuite) repositories() Repositories {
	return Repositories{
		Locations: s.locationRepo,
		Products:  s.productRepo,
		Items:     s.inventoryRepo,
		Transfers: s.transferRepo,
	}
}

func (s *AnalyticsServiceTestSuite) TearDownTest() {
	s.service.Wait()
	s.locationRepo.AssertExpectations(s.T())
	s.productRepo.AssertExpectations(s.T())
	s.inventoryRepo.AssertExpectations(s.T())
	s.transferRepo.AssertExpectations(s.T())
	s.cache.AssertExpectations(s.T())
}

func (s *AnalyticsServiceTestSuite) expectSnapshot(items []*models.InventoryItem, transfers []*models.Transfer) {
	s.locationRepo.On("All", mock.Anything).Return(s.f.locations(), nil)
	s.productRepo.On("All", mock.Anything).Return(s.f.products(), nil)
	s.inventoryRepo.On("All", mock.Anything).Return(items, nil)
	s.transferRepo.On("All", mock.Anything).Return(transfers, nil)
}

func (s *AnalyticsServiceTestSuite) TestDashboard_CacheHit() {
	cached := &models.Dashboard{Summary: models.InventorySummary{TotalLocations: 9}}
	s.cache.On("GetDashboard", s.ctx).Return(cached, nil)

	d, err := s.service.Dashboard(s.ctx)
	s.Require().NoError(err)
	s.Same(cached, d)
	s.locationRepo.AssertNotCalled(s.T(), "All", mock.Anything)
}

func (s *AnalyticsServiceTestSuite) TestDashboard_CacheMissComputesAndStores() {
	s.cache.On("GetDashboard", s.ctx).Return(nil, nil)
	s.expectSnapshot(
		[]*models.InventoryItem{
			testhelpers.Item(s.f.widget, s.f.north, 30, 5, 50),
			testhelpers.Item(s.f.widget, s.f.south, 70, 5, 50),
		},
		[]*models.Transfer{testhelpers.Transfer(s.f.widget, s.f.north, s.f.south, 5, models.TransferPending)},
	)
	s.cache.On("SetDashboard", mock.Anything, mock.AnythingOfType("*models.Dashboard"), time.Minute).Return(nil)

	d, err := s.service.Dashboard(s.ctx)
	s.Require().NoError(err)
	s.Equal(models.InventorySummary{
		TotalProducts:    2,
		TotalLocations:   2,
		OverStockItems:   1,
		PendingTransfers: 1,
	}, d.Summary)
	s.Require().Len(d.Distribution, 2)
	s.Equal(s.f.south.ID, d.Distribution[0].LocationID)
	s.Equal(testhelpers.Epoch, d.GeneratedAt)
	s.Same(d, s.service.Latest())
}

func (s *AnalyticsServiceTestSuite) TestDashboard_CacheErrorFallsBackToCompute() {
	s.cache.On("GetDashboard", s.ctx).Return(nil, errors.New("connection refused"))
	s.expectSnapshot(nil, nil)
	s.cache.On("SetDashboard", mock.Anything, mock.Anything, time.Minute).Return(errors.New("connection refused"))

	d, err := s.service.Dashboard(s.ctx)
	s.Require().NoError(err, "zero inventory is not fatal")
	for _, share := range d.Distribution {
		s.Zero(share.Percentage)
	}
}

func (s *AnalyticsServiceTestSuite) TestDashboard_InvalidSnapshot() {
	s.cache.On("GetDashboard", s.ctx).Return(nil, nil)
	s.expectSnapshot([]*models.InventoryItem{testhelpers.Item(s.f.widget, s.f.north, 1, 10, 5)}, nil)

	_, err := s.service.Dashboard(s.ctx)
	s.ErrorIs(err, apperror.ErrValidation)
	s.cache.AssertNotCalled(s.T(), "SetDashboard", mock.Anything, mock.Anything, mock.Anything)
}

func (s *AnalyticsServiceTestSuite) TestLoad_PropagatesRepositoryError() {
	s.locationRepo.On("All", mock.Anything).Return(s.f.locations(), nil)
	s.productRepo.On("All", mock.Anything).Return(nil, errors.New("timeout"))

	_, err := s.service.Load(s.ctx)
	s.EqualError(err, "read products: timeout")
	s.inventoryRepo.AssertNotCalled(s.T(), "All", mock.Anything)
	s.transferRepo.AssertNotCalled(s.T(), "All", mock.Anything)
}

func (s *AnalyticsServiceTestSuite) TestNotifyChange_InvalidatesAndRecomputes() {
	s.cache.On("InvalidateDashboard", s.ctx).Return(nil)
	s.expectSnapshot([]*models.InventoryItem{testhelpers.Item(s.f.bolt, s.f.north, 1, 5, 10)}, nil)
	s.cache.On("SetDashboard", mock.Anything, mock.Anything, time.Minute).Return(nil)

	s.service.NotifyChange(s.ctx)
	s.service.Wait()

	latest := s.service.Latest()
	s.Require().NotNil(latest)
	s.Equal(1, latest.Summary.LowStockItems)
}

func (s *AnalyticsServiceTestSuite) TestActivityAndStockValues() {
	s.expectSnapshot(
		[]*models.InventoryItem{testhelpers.Item(s.f.widget, s.f.north, 2, 0, 10)},
		[]*models.Transfer{testhelpers.Transfer(s.f.widget, s.f.north, s.f.south, 1, models.TransferInTransit)},
	)

	feed, err := s.service.Activity(s.ctx, 5)
	s.Require().NoError(err)
	s.Len(feed, 1)

	values, err := s.service.StockValues(s.ctx)
	s.Require().NoError(err)
	s.Equal(s.f.north.ID, values[0].LocationID)
	s.Equal("5", values[0].Value.String())
}

func (s *AnalyticsServiceTestSuite) TestWithoutCache() {
	service := NewAnalyticsService(s.repositories(), nil, time.Minute, logger.Nop())
	s.expectSnapshot(nil, nil)

	s.Require().NoError(service.Refresh(s.ctx))
	s.NotNil(service.Latest())
}

func TestAnalyticsServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AnalyticsServiceTestSuite))
}
