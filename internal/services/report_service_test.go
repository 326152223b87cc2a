package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"invoptimizer/internal/apperror"
	"invoptimizer/internal/models"
	"invoptimizer/pkg/logger"
	"invoptimizer/testhelpers"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type MockMinioService struct {
	mock.Mock
	uploaded []byte
}

func (m *MockMinioService) UploadObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, contentType string) error {
	body, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	m.uploaded = body
	args := m.Called(ctx, bucketName, objectName, objectSize, contentType)
	return args.Error(0)
}

func (m *MockMinioService) GetPresignedURL(ctx context.Context, bucketName, objectName string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, bucketName, objectName, expiry)
	return args.String(0), args.Error(1)
}

func (m *MockMinioService) ListObjects(ctx context.Context, bucketName, prefix string) ([]ObjectInfo, error) {
	args := m.Called(ctx, bucketName, prefix)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ObjectInfo), args.Error(1)
}

func (m *MockMinioService) DeleteObject(ctx context.Context, bucketName, objectName string) error {
	args := m.Called(ctx, bucketName, objectName)
	return args.Error(0)
}

func (m *MockMinioService) EnsureBucketExists(ctx context.Context, bucketName string) error {
	args := m.Called(ctx, bucketName)
	return args.Error(0)
}

type MockDashboardSource struct {
	mock.Mock
}

func (m *MockDashboardSource) Dashboard(ctx context.Context) (*models.Dashboard, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Dashboard), args.Error(1)
}

func (m *MockDashboardSource) StockValues(ctx context.Context) ([]models.LocationStockValue, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.LocationStockValue), args.Error(1)
}

func (m *MockDashboardSource) Activity(ctx context.Context, limit int) ([]models.Activity, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Activity), args.Error(1)
}

type ReportServiceTestSuite struct {
	suite.Suite
	mockSource *MockDashboardSource
	mockMinio  *MockMinioService
	service    *reportService
}

func (suite *ReportServiceTestSuite) SetupTest() {
	suite.mockSource = &MockDashboardSource{}
	suite.mockMinio = &MockMinioService{}
	suite.service = NewReportService(suite.mockSource, suite.mockMinio, "reports", logger.Nop()).(*reportService)
	suite.service.now = func() time.Time { return testhelpers.Epoch }
}

func (suite *ReportServiceTestSuite) TearDownTest() {
	suite.mockSource.AssertExpectations(suite.T())
	suite.mockMinio.AssertExpectations(suite.T())
}

func (suite *ReportServiceTestSuite) TestDelete_RemovesUnderPrefix() {
	suite.mockMinio.On("DeleteObject", mock.Anything, "reports", "dashboard/20240301T090000.000Z.json").Return(nil).Once()

	err := suite.service.Delete(context.Background(), "20240301T090000.000Z.json")

	suite.Require().NoError(err)
}

func (suite *ReportServiceTestSuite) TestDelete_RejectsPaths() {
	for _, name := range []string{"", "../secrets.json", "report.txt"} {
		err := suite.service.Delete(context.Background(), name)

		assert.ErrorIs(suite.T(), err, apperror.ErrValidation, name)
	}
	suite.mockMinio.AssertNotCalled(suite.T(), "DeleteObject", mock.Anything, mock.Anything, mock.Anything)
}

func TestReportServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReportServiceTestSuite))
}

func (suite *ReportServiceTestSuite) TestGenerate_UploadsJSONReport() {
	locationID := uuid.New()
	dashboard := &models.Dashboard{
		Summary:      models.InventorySummary{TotalLocations: 1, LowStockItems: 2},
		Distribution: []models.LocationShare{{LocationID: locationID, LocationName: "North", Quantity: 5, Percentage: 100}},
	}
	values := []models.LocationStockValue{{LocationID: locationID, LocationName: "North", Quantity: 5, Value: decimal.RequireFromString("12.5")}}
	key := "dashboard/20240301T090000.000Z.json"

	suite.mockSource.On("Dashboard", mock.Anything).Return(dashboard, nil).Once()
	suite.mockSource.On("StockValues", mock.Anything).Return(values, nil).Once()
	suite.mockSource.On("Activity", mock.Anything, reportActivity).Return([]models.Activity{}, nil).Once()
	suite.mockMinio.On("UploadObject", mock.Anything, "reports", key, mock.AnythingOfType("int64"), "application/json").Return(nil).Once()
	suite.mockMinio.On("GetPresignedURL", mock.Anything, "reports", key, reportURLExpiry).Return("https://minio.local/reports/"+key, nil).Once()

	report, err := suite.service.Generate(context.Background())

	suite.Require().NoError(err)
	assert.Equal(suite.T(), key, report.Key)
	assert.Equal(suite.T(), int64(len(suite.mockMinio.uploaded)), report.Size)
	assert.Equal(suite.T(), "https://minio.local/reports/"+key, report.URL)

	var stored models.DashboardReport
	suite.Require().NoError(json.Unmarshal(suite.mockMinio.uploaded, &stored))
	assert.Equal(suite.T(), 2, stored.Summary.LowStockItems)
	suite.Require().Len(stored.StockValues, 1)
	assert.Equal(suite.T(), "12.5", stored.StockValues[0].Value.String())
}

func (suite *ReportServiceTestSuite) TestGenerate_SourceFailureUploadsNothing() {
	suite.mockSource.On("Dashboard", mock.Anything).Return(nil, errors.New("database unavailable")).Once()
	suite.mockSource.On("StockValues", mock.Anything).Return(nil, nil).Maybe()
	suite.mockSource.On("Activity", mock.Anything, reportActivity).Return(nil, nil).Maybe()

	_, err := suite.service.Generate(context.Background())

	assert.EqualError(suite.T(), err, "database unavailable")
	suite.mockMinio.AssertNotCalled(suite.T(), "UploadObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReportServiceTestSuite) TestList_NewestFirst() {
	older := ObjectInfo{Key: "dashboard/a.json", Size: 10, LastModified: testhelpers.Epoch}
	newer := ObjectInfo{Key: "dashboard/b.json", Size: 20, LastModified: testhelpers.Epoch.Add(time.Hour)}

	suite.mockMinio.On("ListObjects", mock.Anything, "reports", reportPrefix).Return([]ObjectInfo{older, newer}, nil).Once()
	suite.mockMinio.On("GetPresignedURL", mock.Anything, "reports", newer.Key, reportURLExpiry).Return("url-b", nil).Once()
	suite.mockMinio.On("GetPresignedURL", mock.Anything, "reports", older.Key, reportURLExpiry).Return("url-a", nil).Once()

	reports, err := suite.service.List(context.Background())

	suite.Require().NoError(err)
	suite.Require().Len(reports, 2)
	assert.Equal(suite.T(), newer.Key, reports[0].Key)
	assert.Equal(suite.T(), "url-b", reports[0].URL)
	assert.Equal(suite.T(), "url-a", reports[1].URL)
}
