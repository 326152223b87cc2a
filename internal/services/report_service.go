package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"

	"invoptimizer/internal/apperror"
	"invoptimizer/internal/models"
	"invoptimizer/pkg/logger"

	"golang.org/x/sync/errgroup"
)

const (
	reportPrefix      = "dashboard/"
	reportURLExpiry   = 24 * time.Hour
	reportContentType = "application/json"
	reportActivity    = 50
)

// DashboardSource supplies the figures a report is built from.
type DashboardSource interface {
	Dashboard(ctx context.Context) (*models.Dashboard, error)
	StockValues(ctx context.Context) ([]models.LocationStockValue, error)
	Activity(ctx context.Context, limit int) ([]models.Activity, error)
}

type ReportService interface {
	// Generate stores a snapshot of the dashboard and returns where to fetch it.
	Generate(ctx context.Context) (*models.Report, error)
	// List returns stored reports, newest first.
	List(ctx context.Context) ([]models.Report, error)
	// Delete removes the report with the given file name, e.g. "20240301T090000.000Z.json".
	Delete(ctx context.Context, name string) error
}

type reportService struct {
	source       DashboardSource
	minioService MinioService
	bucket       string
	log          *logger.Logger
	now          func() time.Time
}

func NewReportService(source DashboardSource, minioService MinioService, bucket string, log *logger.Logger) ReportService {
	return &reportService{
		source:       source,
		minioService: minioService,
		bucket:       bucket,
		log:          log.WithComponent("report-service"),
		now:          time.Now,
	}
}

func (s *reportService) Generate(ctx context.Context) (*models.Report, error) {
	report := models.DashboardReport{GeneratedAt: s.now().UTC()}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		dashboard, err := s.source.Dashboard(gctx)
		if err != nil {
			return err
		}
		report.Summary = dashboard.Summary
		report.Distribution = dashboard.Distribution
		return nil
	})
	g.Go(func() (err error) {
		report.StockValues, err = s.source.StockValues(gctx)
		return err
	})
	g.Go(func() (err error) {
		report.Activity, err = s.source.Activity(gctx, reportActivity)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	body, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("encode report: %w", err))
	}

	key := reportPrefix + report.GeneratedAt.Format("20060102T150405.000Z") + ".json"
	if err := s.minioService.UploadObject(ctx, s.bucket, key, bytes.NewReader(body), int64(len(body)), reportContentType); err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("upload report: %w", err))
	}

	url, err := s.minioService.GetPresignedURL(ctx, s.bucket, key, reportURLExpiry)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("presign report: %w", err))
	}

	s.log.Infow("dashboard report stored", "bucket", s.bucket, "key", key, "bytes", len(body))
	return &models.Report{
		Key:          key,
		Size:         int64(len(body)),
		LastModified: report.GeneratedAt,
		URL:          url,
	}, nil
}

func (s *reportService) List(ctx context.Context) ([]models.Report, error) {
	objects, err := s.minioService.ListObjects(ctx, s.bucket, reportPrefix)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("list reports: %w", err))
	}

	slices.SortFunc(objects, func(a, b ObjectInfo) int {
		return b.LastModified.Compare(a.LastModified)
	})

	reports := make([]models.Report, 0, len(objects))
	for _, obj := range objects {
		url, err := s.minioService.GetPresignedURL(ctx, s.bucket, obj.Key, reportURLExpiry)
		if err != nil {
			return nil, apperror.NewInternal(fmt.Errorf("presign report: %w", err))
		}
		reports = append(reports, models.Report{
			Key:          obj.Key,
			Size:         obj.Size,
			LastModified: obj.LastModified,
			URL:          url,
		})
	}
	return reports, nil
}

func (s *reportService) Delete(ctx context.Context, name string) error {
	if name == "" || strings.Contains(name, "/") || !strings.HasSuffix(name, ".json") {
		return apperror.NewFieldValidation("name", "report name must be a file name ending in .json")
	}

	key := reportPrefix + name
	if err := s.minioService.DeleteObject(ctx, s.bucket, key); err != nil {
		return apperror.NewInternal(fmt.Errorf("delete report: %w", err))
	}
	s.log.Infow("dashboard report deleted", "bucket", s.bucket, "key", key)
	return nil
}
