package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"invoptimizer/internal/apperror"
	"invoptimizer/internal/models"
	"invoptimizer/internal/repositories"
	"invoptimizer/pkg/logger"
	"invoptimizer/testhelpers"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type InventoryServiceTestSuite struct {
	suite.Suite
	mockInventoryRepo *testhelpers.MockInventoryRepository
	mockProductRepo   *testhelpers.MockProductRepository
	mockLocationRepo  *testhelpers.MockLocationRepository
	mockCache         *testhelpers.MockCacheService
	mockNotifier      *testhelpers.MockNotifier
	service           *inventoryService

	product  *models.Product
	location *models.Location
}

func (suite *InventoryServiceTestSuite) SetupTest() {
	suite.mockInventoryRepo = &testhelpers.MockInventoryRepository{}
	suite.mockProductRepo = &testhelpers.MockProductRepository{}
	suite.mockLocationRepo = &testhelpers.MockLocationRepository{}
	suite.mockCache = &testhelpers.MockCacheService{}
	suite.mockNotifier = &testhelpers.MockNotifier{}
	suite.service = NewInventoryService(
		suite.mockInventoryRepo,
		suite.mockProductRepo,
		suite.mockLocationRepo,
		suite.mockCache,
		suite.mockNotifier,
		logger.Nop(),
	).(*inventoryService)
	suite.service.now = func() time.Time { return testhelpers.Epoch }

	suite.product = testhelpers.Product("Widget", "WID-001", "2.50")
	suite.location = testhelpers.Location("North")
}

func (suite *InventoryServiceTestSuite) TearDownTest() {
	suite.mockInventoryRepo.AssertExpectations(suite.T())
	suite.mockProductRepo.AssertExpectations(suite.T())
	suite.mockLocationRepo.AssertExpectations(suite.T())
	suite.mockCache.AssertExpectations(suite.T())
	suite.mockNotifier.AssertExpectations(suite.T())
}

func TestInventoryServiceTestSuite(t *testing.T) {
	suite.Run(t, new(InventoryServiceTestSuite))
}

func (suite *InventoryServiceTestSuite) expectReferences() {
	suite.mockProductRepo.On("GetByID", mock.Anything, suite.product.ID).Return(suite.product, nil).Once()
	suite.mockLocationRepo.On("GetByID", mock.Anything, suite.location.ID).Return(suite.location, nil).Once()
}

func (suite *InventoryServiceTestSuite) TestCreate_Success() {
	item := &models.InventoryItem{ProductID: suite.product.ID, LocationID: suite.location.ID, Quantity: 12, MinThreshold: 5, MaxThreshold: 50}

	suite.expectReferences()
	suite.mockInventoryRepo.On("GetByLocationAndProduct", mock.Anything, suite.location.ID, suite.product.ID).Return(nil, pgx.ErrNoRows).Once()
	suite.mockInventoryRepo.On("Create", mock.Anything, item).Return(nil).Once()
	suite.mockNotifier.On("NotifyChange", mock.Anything).Once()

	err := suite.service.Create(context.Background(), item)

	assert.NoError(suite.T(), err)
	assert.NotEqual(suite.T(), uuid.Nil, item.ID)
	suite.Require().NotNil(item.LastRestocked)
	assert.Equal(suite.T(), testhelpers.Epoch, *item.LastRestocked)
}

func (suite *InventoryServiceTestSuite) TestCreate_ThresholdsInverted() {
	item := &models.InventoryItem{ProductID: suite.product.ID, LocationID: suite.location.ID, Quantity: 1, MinThreshold: 10, MaxThreshold: 5}

	err := suite.service.Create(context.Background(), item)

	appErr, ok := apperror.As(err)
	suite.Require().True(ok)
	assert.Equal(suite.T(), "min_threshold", appErr.Details["field"])
}

func (suite *InventoryServiceTestSuite) TestCreate_PairAlreadyStocked() {
	existing := testhelpers.Item(suite.product, suite.location, 3, 0, 10)
	item := &models.InventoryItem{ProductID: suite.product.ID, LocationID: suite.location.ID, Quantity: 1, MaxThreshold: 10}

	suite.expectReferences()
	suite.mockInventoryRepo.On("GetByLocationAndProduct", mock.Anything, suite.location.ID, suite.product.ID).Return(existing, nil).Once()

	err := suite.service.Create(context.Background(), item)

	assert.ErrorIs(suite.T(), err, apperror.ErrConflict)
}

func (suite *InventoryServiceTestSuite) TestCreate_UnknownLocation() {
	item := &models.InventoryItem{ProductID: suite.product.ID, LocationID: suite.location.ID, MaxThreshold: 10}

	suite.mockProductRepo.On("GetByID", mock.Anything, suite.product.ID).Return(suite.product, nil).Once()
	suite.mockLocationRepo.On("GetByID", mock.Anything, suite.location.ID).Return(nil, pgx.ErrNoRows).Once()

	err := suite.service.Create(context.Background(), item)

	appErr, ok := apperror.As(err)
	suite.Require().True(ok)
	assert.Equal(suite.T(), apperror.CodeValidation, appErr.Code)
	assert.Equal(suite.T(), "location_id", appErr.Details["field"])
}

func (suite *InventoryServiceTestSuite) TestGetByID_CacheHit() {
	cached := testhelpers.Item(suite.product, suite.location, 3, 0, 10)
	suite.mockCache.On("GetInventory", mock.Anything, cached.ID).Return(cached, nil).Once()

	item, err := suite.service.GetByID(context.Background(), cached.ID)

	assert.NoError(suite.T(), err)
	assert.Same(suite.T(), cached, item)
}

func (suite *InventoryServiceTestSuite) TestGetByID_CacheMissStoresItem() {
	stored := testhelpers.Item(suite.product, suite.location, 3, 0, 10)
	suite.mockCache.On("GetInventory", mock.Anything, stored.ID).Return(nil, errors.New("redis down")).Once()
	suite.mockInventoryRepo.On("GetByID", mock.Anything, stored.ID).Return(stored, nil).Once()
	suite.mockCache.On("SetInventory", mock.Anything, stored, inventoryCacheTTL).Return(nil).Once()

	item, err := suite.service.GetByID(context.Background(), stored.ID)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), stored, item)
}

func (suite *InventoryServiceTestSuite) TestUpdate_RestockStampsDate() {
	existing := testhelpers.Item(suite.product, suite.location, 3, 0, 10)
	update := &models.InventoryItem{ID: existing.ID, Quantity: 8, MinThreshold: 2, MaxThreshold: 20}

	suite.mockInventoryRepo.On("GetByID", mock.Anything, existing.ID).Return(existing, nil).Once()
	suite.mockInventoryRepo.On("Update", mock.Anything, update).Return(nil).Once()
	suite.mockCache.On("DeleteInventory", mock.Anything, existing.ID).Return(nil).Once()
	suite.mockNotifier.On("NotifyChange", mock.Anything).Once()

	err := suite.service.Update(context.Background(), update)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), suite.product.ID, update.ProductID)
	assert.Equal(suite.T(), suite.location.ID, update.LocationID)
	suite.Require().NotNil(update.LastRestocked)
	assert.Equal(suite.T(), testhelpers.Epoch, *update.LastRestocked)
}

func (suite *InventoryServiceTestSuite) TestAdjustStock_Applies() {
	current := testhelpers.Item(suite.product, suite.location, 10, 0, 50)
	adjusted := *current
	adjusted.Quantity = 4

	suite.mockInventoryRepo.On("GetByID", mock.Anything, current.ID).Return(current, nil).Once()
	suite.mockInventoryRepo.On("AdjustQuantity", mock.Anything, current.ID, -6).Return(&adjusted, nil).Once()
	suite.mockCache.On("DeleteInventory", mock.Anything, current.ID).Return(nil).Once()
	suite.mockNotifier.On("NotifyChange", mock.Anything).Once()

	item, err := suite.service.AdjustStock(context.Background(), current.ID, -6)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 4, item.Quantity)
}

func (suite *InventoryServiceTestSuite) TestAdjustStock_NeverBelowZero() {
	current := testhelpers.Item(suite.product, suite.location, 3, 0, 50)

	suite.mockInventoryRepo.On("GetByID", mock.Anything, current.ID).Return(current, nil).Once()
	suite.mockInventoryRepo.On("AdjustQuantity", mock.Anything, current.ID, -5).Return(nil, repositories.ErrInsufficientStock).Once()

	_, err := suite.service.AdjustStock(context.Background(), current.ID, -5)

	assert.ErrorIs(suite.T(), err, apperror.ErrInsufficientStock)
	appErr, _ := apperror.As(err)
	assert.Equal(suite.T(), 5, appErr.Details["requested"])
	suite.mockNotifier.AssertNotCalled(suite.T(), "NotifyChange", mock.Anything)
}

func (suite *InventoryServiceTestSuite) TestAdjustStock_ZeroChange() {
	_, err := suite.service.AdjustStock(context.Background(), uuid.New(), 0)

	assert.ErrorIs(suite.T(), err, apperror.ErrValidation)
}

func (suite *InventoryServiceTestSuite) TestList_UnknownLevel() {
	level := models.StockLevel("critical")

	_, err := suite.service.List(context.Background(), models.InventoryFilter{Level: &level})

	assert.ErrorIs(suite.T(), err, apperror.ErrValidation)
}

func (suite *InventoryServiceTestSuite) TestBulkAdjustStock_PartialFailure() {
	existing := testhelpers.Item(suite.product, suite.location, 10, 0, 50)
	other := testhelpers.Location("South")

	bulk := &models.InventoryBulkAdjust{Adjustments: []models.InventoryAdjustment{
		{LocationID: suite.location.ID, ProductID: suite.product.ID, QuantityChange: 5},
		{LocationID: other.ID, ProductID: suite.product.ID, QuantityChange: -2},
		{LocationID: other.ID, ProductID: suite.product.ID, QuantityChange: 0},
	}}

	suite.mockInventoryRepo.On("GetByLocationAndProduct", mock.Anything, suite.location.ID, suite.product.ID).Return(existing, nil).Once()
	adjusted := *existing
	adjusted.Quantity = 15
	suite.mockInventoryRepo.On("AdjustQuantity", mock.Anything, existing.ID, 5).Return(&adjusted, nil).Once()
	suite.mockCache.On("DeleteInventory", mock.Anything, existing.ID).Return(nil).Once()
	suite.mockInventoryRepo.On("GetByLocationAndProduct", mock.Anything, other.ID, suite.product.ID).Return(nil, pgx.ErrNoRows).Once()
	suite.mockNotifier.On("NotifyChange", mock.Anything).Once()

	result, err := suite.service.BulkAdjustStock(context.Background(), bulk)

	suite.Require().NoError(err)
	assert.Equal(suite.T(), models.BulkPartial, result.Status)
	assert.Equal(suite.T(), 3, result.TotalItems)
	assert.Equal(suite.T(), 1, result.ProcessedItems)
	assert.Equal(suite.T(), 2, result.FailedItems)
	suite.Require().Len(result.Errors, 2)
	assert.Equal(suite.T(), 1, result.Errors[0].ItemIndex)
	assert.Equal(suite.T(), apperror.CodeInsufficientStock, result.Errors[0].Code)
	assert.Equal(suite.T(), apperror.CodeValidation, result.Errors[1].Code)
}

func (suite *InventoryServiceTestSuite) TestBulkAdjustStock_CreatesMissingPair() {
	bulk := &models.InventoryBulkAdjust{Adjustments: []models.InventoryAdjustment{
		{LocationID: suite.location.ID, ProductID: suite.product.ID, QuantityChange: 7, Reason: "initial count"},
	}}

	suite.mockInventoryRepo.On("GetByLocationAndProduct", mock.Anything, suite.location.ID, suite.product.ID).Return(nil, pgx.ErrNoRows).Once()
	suite.expectReferences()
	suite.mockInventoryRepo.On("Create", mock.Anything, mock.MatchedBy(func(item *models.InventoryItem) bool {
		return item.Quantity == 7 && item.MinThreshold == 0 && item.MaxThreshold == 7 && item.LastRestocked != nil
	})).Return(nil).Once()
	suite.mockNotifier.On("NotifyChange", mock.Anything).Once()

	result, err := suite.service.BulkAdjustStock(context.Background(), bulk)

	suite.Require().NoError(err)
	assert.Equal(suite.T(), models.BulkCompleted, result.Status)
	assert.Empty(suite.T(), result.Errors)
}
