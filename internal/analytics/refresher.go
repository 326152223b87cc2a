package analytics

import (
	"context"
	"errors"
	"sync"

	"invoptimizer/internal/models"
	"invoptimizer/pkg/logger"
)

// ErrSuperseded is returned by a refresh that a newer refresh replaced before it finished.
var ErrSuperseded = errors.New("dashboard refresh superseded by a newer request")

// ComputeFunc builds a dashboard. It must return promptly once ctx is cancelled.
type ComputeFunc func(ctx context.Context) (*models.Dashboard, error)

// Refresher recomputes the dashboard with latest-wins semantics. Starting a refresh
// cancels the one in flight, and only the newest successful result is published.
type Refresher struct {
	compute ComputeFunc
	publish func(*models.Dashboard)
	log     *logger.Logger

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
	latest *models.Dashboard

	// publishMu serialises publish calls outside mu; publishedGen is the newest
	// generation handed to publish.
	publishMu    sync.Mutex
	publishedGen uint64

	wg sync.WaitGroup
}

// NewRefresher returns a Refresher. publish may be nil.
func NewRefresher(compute ComputeFunc, publish func(*models.Dashboard), log *logger.Logger) *Refresher {
	return &Refresher{
		compute: compute,
		publish: publish,
		log:     log.WithComponent("dashboard-refresher"),
	}
}

// Refresh computes a dashboard synchronously, superseding any refresh in flight.
func (r *Refresher) Refresh(ctx context.Context) (*models.Dashboard, error) {
	r.mu.Lock()
	if r.cancel != nil {
		r.cancel()
	}
	r.gen++
	gen := r.gen
	runCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.mu.Unlock()
	defer cancel()

	dashboard, err := r.compute(runCtx)

	r.mu.Lock()
	if gen != r.gen {
		r.mu.Unlock()
		return nil, ErrSuperseded
	}
	r.cancel = nil
	if err != nil {
		r.mu.Unlock()
		return nil, err
	}
	r.latest = dashboard
	r.mu.Unlock()

	r.publishNewest(gen, dashboard)
	return dashboard, nil
}

// publishNewest hands dashboard to publish unless a newer generation already went out.
func (r *Refresher) publishNewest(gen uint64, dashboard *models.Dashboard) {
	if r.publish == nil {
		return
	}
	r.publishMu.Lock()
	defer r.publishMu.Unlock()
	if gen <= r.publishedGen {
		return
	}
	r.publishedGen = gen
	r.publish(dashboard)
}

// Trigger starts a refresh in the background. The refresh outlives ctx's cancellation
// but keeps its values.
func (r *Refresher) Trigger(ctx context.Context) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		_, err := r.Refresh(context.WithoutCancel(ctx))
		switch {
		case err == nil, errors.Is(err, ErrSuperseded):
		default:
			r.log.Errorw("background dashboard refresh failed", "error", err)
		}
	}()
}

// Latest returns the most recently published dashboard, or nil before the first.
func (r *Refresher) Latest() *models.Dashboard {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.latest
}

// Wait blocks until every triggered refresh has returned.
func (r *Refresher) Wait() {
	r.wg.Wait()
}
