package background

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"invoptimizer/internal/jobs"
	"invoptimizer/internal/models"
	"invoptimizer/pkg/logger"

	"github.com/go-co-op/gocron/v2"
)

const (
	JobSummaryRefresh = "summary-refresh"
	JobInventoryAlert = "inventory-alerts"
	JobReportExport   = "report-export"
)

// DashboardRefresher recomputes and republishes the dashboard figures.
type DashboardRefresher interface {
	Refresh(ctx context.Context) error
}

// ReportGenerator stores a dashboard report.
type ReportGenerator interface {
	Generate(ctx context.Context) (*models.Report, error)
}

// Intervals sets how often each built-in job runs. A zero ReportExport disables the export job.
type Intervals struct {
	SummaryRefresh time.Duration
	AlertCheck     time.Duration
	ReportExport   time.Duration
}

// JobStatus describes one registered job.
type JobStatus struct {
	Name    string     `json:"name"`
	LastRun *time.Time `json:"last_run,omitempty"`
	NextRun *time.Time `json:"next_run,omitempty"`
}

// JobScheduler runs the periodic dashboard refresh, stock alerts and report export.
type JobScheduler struct {
	scheduler gocron.Scheduler
	refresher DashboardRefresher
	alertSvc  *jobs.InventoryAlertService
	reports   ReportGenerator
	log       *logger.Logger

	ctx    context.Context
	cancel context.CancelFunc

	jobs map[string]gocron.Job
	mu   sync.RWMutex
}

// NewJobScheduler registers the built-in jobs. reports may be nil.
func NewJobScheduler(
	refresher DashboardRefresher,
	alertSvc *jobs.InventoryAlertService,
	reports ReportGenerator,
	intervals Intervals,
	log *logger.Logger,
) (*JobScheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	js := &JobScheduler{
		scheduler: scheduler,
		refresher: refresher,
		alertSvc:  alertSvc,
		reports:   reports,
		log:       log.WithComponent("scheduler"),
		ctx:       ctx,
		cancel:    cancel,
		jobs:      make(map[string]gocron.Job),
	}

	if err := js.registerJobs(intervals); err != nil {
		cancel()
		_ = scheduler.Shutdown()
		return nil, err
	}
	return js, nil
}

func (js *JobScheduler) Start() {
	js.log.Infow("starting background job scheduler", "jobs", len(js.jobs))
	js.scheduler.Start()
}

// Stop cancels running jobs and waits for them to return.
func (js *JobScheduler) Stop() error {
	js.log.Info("stopping background job scheduler")
	js.cancel()
	return js.scheduler.Shutdown()
}

func (js *JobScheduler) registerJobs(intervals Intervals) error {
	// A slow refresh is rescheduled rather than stacked.
	if err := js.add(JobSummaryRefresh, intervals.SummaryRefresh, js.refreshSummary,
		gocron.WithSingletonMode(gocron.LimitModeReschedule)); err != nil {
		return err
	}
	if err := js.add(JobInventoryAlert, intervals.AlertCheck, js.alertSvc.ScheduledStockCheck,
		gocron.WithSingletonMode(gocron.LimitModeReschedule)); err != nil {
		return err
	}
	if js.reports != nil && intervals.ReportExport > 0 {
		if err := js.add(JobReportExport, intervals.ReportExport, js.exportReport,
			gocron.WithSingletonMode(gocron.LimitModeReschedule)); err != nil {
			return err
		}
	}

	js.log.Infow("registered background jobs", "count", len(js.jobs))
	return nil
}

func (js *JobScheduler) add(name string, interval time.Duration, task func(context.Context) error, opts ...gocron.JobOption) error {
	if interval <= 0 {
		return fmt.Errorf("job %s: interval must be positive, got %s", name, interval)
	}

	opts = append(opts, gocron.WithName(name))
	job, err := js.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(task, js.ctx),
		opts...,
	)
	if err != nil {
		return fmt.Errorf("job %s: %w", name, err)
	}

	js.mu.Lock()
	js.jobs[name] = job
	js.mu.Unlock()
	return nil
}

func (js *JobScheduler) refreshSummary(ctx context.Context) error {
	start := time.Now()
	if err := js.refresher.Refresh(ctx); err != nil {
		js.log.Errorw("summary refresh failed", "error", err)
		return err
	}
	js.log.Debugw("summary refreshed", "took", time.Since(start))
	return nil
}

func (js *JobScheduler) exportReport(ctx context.Context) error {
	report, err := js.reports.Generate(ctx)
	if err != nil {
		js.log.Errorw("report export failed", "error", err)
		return err
	}
	js.log.Infow("report exported", "key", report.Key, "bytes", report.Size)
	return nil
}

// AddJob adds a custom job running task every interval.
func (js *JobScheduler) AddJob(name string, interval time.Duration, task func(context.Context) error) error {
	js.mu.RLock()
	_, exists := js.jobs[name]
	js.mu.RUnlock()
	if exists {
		return fmt.Errorf("job %s already registered", name)
	}

	if err := js.add(name, interval, task); err != nil {
		return err
	}
	js.log.Infow("added custom job", "name", name, "interval", interval)
	return nil
}

// RemoveJob removes a job. Removing an unknown job is a no-op.
func (js *JobScheduler) RemoveJob(name string) error {
	js.mu.Lock()
	defer js.mu.Unlock()

	job, exists := js.jobs[name]
	if !exists {
		return nil
	}
	delete(js.jobs, name)
	return js.scheduler.RemoveJob(job.ID())
}

// RunNow runs a registered job immediately, outside its schedule.
func (js *JobScheduler) RunNow(name string) error {
	js.mu.RLock()
	job, exists := js.jobs[name]
	js.mu.RUnlock()
	if !exists {
		return fmt.Errorf("job %s not found", name)
	}
	return job.RunNow()
}

// GetJobStatus lists registered jobs by name.
func (js *JobScheduler) GetJobStatus() []JobStatus {
	js.mu.RLock()
	defer js.mu.RUnlock()

	statuses := make([]JobStatus, 0, len(js.jobs))
	for name, job := range js.jobs {
		status := JobStatus{Name: name}
		if last, err := job.LastRun(); err == nil && !last.IsZero() {
			status.LastRun = &last
		}
		if next, err := job.NextRun(); err == nil && !next.IsZero() {
			status.NextRun = &next
		}
		statuses = append(statuses, status)
	}
	slices.SortFunc(statuses, func(a, b JobStatus) int {
		switch {
		case a.Name < b.Name:
			return -1
		case a.Name > b.Name:
			return 1
		}
		return 0
	})
	return statuses
}
