package analytics

import (
	"context"
	"errors"
	"time"

	"invoptimizer/internal/apperror"
	"invoptimizer/internal/caching"
	"invoptimizer/internal/models"
	"invoptimizer/pkg/logger"
)

// AnalyticsService serves the dashboard figures from the cache, recomputing them
// from a fresh snapshot on a miss or after a change.
type AnalyticsService struct {
	reader       SnapshotReader
	cacheService caching.CacheService
	cacheTTL     time.Duration
	log          *logger.Logger
	now          func() time.Time
	refresher    *Refresher
}

// NewAnalyticsService wires the service. cacheService may be nil, in which case
// every request recomputes.
func NewAnalyticsService(
	reader SnapshotReader,
	cacheService caching.CacheService,
	cacheTTL time.Duration,
	log *logger.Logger,
) *AnalyticsService {
	s := &AnalyticsService{
		reader:       reader,
		cacheService: cacheService,
		cacheTTL:     cacheTTL,
		log:          log.WithComponent("analytics"),
		now:          time.Now,
	}
	s.refresher = NewRefresher(s.Compute, s.storeDashboard, log)
	return s
}

// Load reads every entity set into one Snapshot.
func (a *AnalyticsService) Load(ctx context.Context) (*Snapshot, error) {
	return a.reader.ReadSnapshot(ctx)
}

// Compute derives a fresh dashboard. A zero inventory total is logged and yields an
// all-zero distribution rather than an error.
func (a *AnalyticsService) Compute(ctx context.Context) (*models.Dashboard, error) {
	snap, err := a.Load(ctx)
	if err != nil {
		return nil, err
	}

	summary, err := snap.Summarize()
	if err != nil {
		return nil, err
	}

	distribution, err := snap.Distribution()
	if err != nil {
		if !errors.Is(err, apperror.ErrDivisionUndefined) {
			return nil, err
		}
		a.log.Warnw("inventory distribution undefined", "reason", err.Error())
	}

	return &models.Dashboard{
		Summary:      summary,
		Distribution: distribution,
		GeneratedAt:  a.now().UTC(),
	}, nil
}

// Dashboard returns the cached dashboard or computes, caches and returns a new one.
func (a *AnalyticsService) Dashboard(ctx context.Context) (*models.Dashboard, error) {
	if a.cacheService != nil {
		cached, err := a.cacheService.GetDashboard(ctx)
		if err != nil {
			a.log.Warnw("dashboard cache read failed", "error", err)
		} else if cached != nil {
			return cached, nil
		}
	}

	dashboard, err := a.refresher.Refresh(ctx)
	if errors.Is(err, ErrSuperseded) {
		// A newer refresh is running; answer from what this request can see.
		return a.Compute(ctx)
	}
	return dashboard, err
}

// Activity returns up to limit feed entries, newest first.
func (a *AnalyticsService) Activity(ctx context.Context, limit int) ([]models.Activity, error) {
	snap, err := a.Load(ctx)
	if err != nil {
		return nil, err
	}
	return RecentActivity(snap.Transfers, snap.Items, snap.Products, snap.Locations, limit), nil
}

func (a *AnalyticsService) StockValues(ctx context.Context) ([]models.LocationStockValue, error) {
	snap, err := a.Load(ctx)
	if err != nil {
		return nil, err
	}
	return StockValue(snap.Items, snap.Products, snap.Locations)
}

// Refresh recomputes and republishes the dashboard. Being superseded is not an error.
func (a *AnalyticsService) Refresh(ctx context.Context) error {
	_, err := a.refresher.Refresh(ctx)
	if errors.Is(err, ErrSuperseded) {
		return nil
	}
	return err
}

// NotifyChange drops the cached dashboard and recomputes it in the background.
func (a *AnalyticsService) NotifyChange(ctx context.Context) {
	if a.cacheService != nil {
		if err := a.cacheService.InvalidateDashboard(ctx); err != nil {
			a.log.Warnw("dashboard cache invalidation failed", "error", err)
		}
	}
	a.refresher.Trigger(ctx)
}

// Latest returns the last dashboard computed by this process, if any.
func (a *AnalyticsService) Latest() *models.Dashboard {
	return a.refresher.Latest()
}

// Wait blocks until background refreshes have finished.
func (a *AnalyticsService) Wait() {
	a.refresher.Wait()
}

func (a *AnalyticsService) storeDashboard(dashboard *models.Dashboard) {
	if a.cacheService == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := a.cacheService.SetDashboard(ctx, dashboard, a.cacheTTL); err != nil {
		a.log.Warnw("dashboard cache write failed", "error", err)
	}
}
