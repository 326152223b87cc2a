package services

import (
	"context"
	"testing"

	"invoptimizer/internal/apperror"
	"invoptimizer/internal/models"
	"invoptimizer/pkg/logger"
	"invoptimizer/testhelpers"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type LocationServiceTestSuite struct {
	suite.Suite
	mockLocationRepo *testhelpers.MockLocationRepository
	mockNotifier     *testhelpers.MockNotifier
	service          LocationService
}

func (suite *LocationServiceTestSuite) SetupTest() {
	suite.mockLocationRepo = &testhelpers.MockLocationRepository{}
	suite.mockNotifier = &testhelpers.MockNotifier{}
	suite.service = NewLocationService(suite.mockLocationRepo, suite.mockNotifier, logger.Nop())
}

func (suite *LocationServiceTestSuite) TearDownTest() {
	suite.mockLocationRepo.AssertExpectations(suite.T())
	suite.mockNotifier.AssertExpectations(suite.T())
}

func TestLocationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LocationServiceTestSuite))
}

func (suite *LocationServiceTestSuite) TestCreate_AssignsIDAndNotifies() {
	location := &models.Location{Name: "North Warehouse", City: "Springfield"}
	suite.mockLocationRepo.On("Create", mock.Anything, location).Return(nil).Once()
	suite.mockNotifier.On("NotifyChange", mock.Anything).Once()

	err := suite.service.Create(context.Background(), location)

	assert.NoError(suite.T(), err)
	assert.NotEqual(suite.T(), uuid.Nil, location.ID)
}

func (suite *LocationServiceTestSuite) TestCreate_NameRequired() {
	err := suite.service.Create(context.Background(), &models.Location{Name: " "})

	assert.ErrorIs(suite.T(), err, apperror.ErrValidation)
	suite.mockLocationRepo.AssertNotCalled(suite.T(), "Create", mock.Anything, mock.Anything)
}

func (suite *LocationServiceTestSuite) TestGetByID_NotFound() {
	id := uuid.New()
	suite.mockLocationRepo.On("GetByID", mock.Anything, id).Return(nil, pgx.ErrNoRows).Once()

	_, err := suite.service.GetByID(context.Background(), id)

	assert.ErrorIs(suite.T(), err, apperror.ErrNotFound)
	assert.Equal(suite.T(), 404, apperror.HTTPStatus(err))
}

func (suite *LocationServiceTestSuite) TestUpdate_NotifiesOnSuccess() {
	location := &models.Location{ID: uuid.New(), Name: "Renamed"}
	suite.mockLocationRepo.On("Update", mock.Anything, location).Return(nil).Once()
	suite.mockNotifier.On("NotifyChange", mock.Anything).Once()

	assert.NoError(suite.T(), suite.service.Update(context.Background(), location))
}

func (suite *LocationServiceTestSuite) TestDelete_MissingDoesNotNotify() {
	id := uuid.New()
	suite.mockLocationRepo.On("Delete", mock.Anything, id).Return(pgx.ErrNoRows).Once()

	err := suite.service.Delete(context.Background(), id)

	assert.ErrorIs(suite.T(), err, apperror.ErrNotFound)
	suite.mockNotifier.AssertNotCalled(suite.T(), "NotifyChange", mock.Anything)
}

func (suite *LocationServiceTestSuite) TestList() {
	locations := []*models.Location{{ID: uuid.New(), Name: "A"}}
	suite.mockLocationRepo.On("List", mock.Anything, 20, 0).Return(locations, nil).Once()

	got, err := suite.service.List(context.Background(), 20, 0)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), locations, got)
}
