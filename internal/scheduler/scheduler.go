// Package scheduler drives periodic update checks over all tracked
// applications. Each pass partitions the apps across a fixed set of
// workers; a worker runs its checks strictly one after another, waiting
// out the pacer's minimum delay between cascades, so the remote sources
// see a bounded request rate per worker. Partitioning by package name
// guarantees at most one in-flight check per application.
package scheduler

import (
	"context"
	"errors"
	"hash/fnv"
	"log/slog"
	"sync"
	"time"

	"apptrack/internal/models"
	"apptrack/internal/ratelimit"
	"apptrack/internal/storage"
)

// Checker resolves one application's update state. Satisfied by
// *check.Resolver.
type Checker interface {
	Check(ctx context.Context, app *models.InstalledApp) models.CheckResult
}

// ErrCheckInProgress is returned by CheckNow when a cascade for the same
// package is already running.
var ErrCheckInProgress = errors.New("check already in progress for this package")

// Scheduler periodically dispatches update checks.
type Scheduler struct {
	store    storage.Store
	checker  Checker
	interval time.Duration
	workers  int
	pacers   []ratelimit.Pacer

	inFlight sync.Map // package name -> struct{}
}

// New creates a scheduler. Each worker gets its own pacer so the
// per-worker minimum delay holds regardless of how apps are distributed.
func New(store storage.Store, checker Checker, cfg models.CheckerConfig) *Scheduler {
	pacers := make([]ratelimit.Pacer, cfg.Workers)
	for i := range pacers {
		pacers[i] = ratelimit.NewTokenPacer(cfg.RequestDelay)
	}
	return &Scheduler{
		store:    store,
		checker:  checker,
		interval: cfg.Interval,
		workers:  cfg.Workers,
		pacers:   pacers,
	}
}

// Run executes one pass immediately, then one per interval until ctx is
// cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	s.runPass(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runPass(ctx)
		}
	}
}

// runPass checks every eligible tracked application once.
func (s *Scheduler) runPass(ctx context.Context) {
	apps, err := s.store.Apps(ctx)
	if err != nil {
		slog.Error("Failed to list apps for check pass", "error", err)
		return
	}

	// Fatal records stopped auto-checking; they come back only when the
	// user re-registers or triggers a manual check.
	eligible := apps[:0]
	for _, app := range apps {
		if !app.FatalError {
			eligible = append(eligible, app)
		}
	}
	if len(eligible) == 0 {
		return
	}

	slog.Info("Starting check pass", "apps", len(eligible), "workers", s.workers)

	buckets := make([][]*models.InstalledApp, s.workers)
	for _, app := range eligible {
		i := bucketFor(app.PackageName, s.workers)
		buckets[i] = append(buckets[i], app)
	}

	var wg sync.WaitGroup
	for i, bucket := range buckets {
		if len(bucket) == 0 {
			continue
		}
		wg.Add(1)
		go func(pacer ratelimit.Pacer, bucket []*models.InstalledApp) {
			defer wg.Done()
			for _, app := range bucket {
				if err := pacer.Wait(ctx); err != nil {
					return
				}
				if _, ok := s.checkOne(ctx, app); !ok {
					slog.Debug("Skipping app with check in flight", "package", app.PackageName)
				}
			}
		}(s.pacers[i], bucket)
	}
	wg.Wait()
}

// CheckNow runs a single check cascade outside the schedule, for the HTTP
// trigger. It fails fast when a cascade for the package is already in
// flight; the record is not safe for concurrent mutation.
func (s *Scheduler) CheckNow(ctx context.Context, packageName string) (*models.InstalledApp, models.CheckResult, error) {
	app, err := s.store.GetApp(ctx, packageName)
	if err != nil {
		return nil, models.CheckResult{}, err
	}

	result, ok := s.checkOne(ctx, app)
	if !ok {
		return nil, models.CheckResult{}, ErrCheckInProgress
	}
	return app, result, nil
}

// checkOne runs the cascade for app unless one is already in flight for
// the same package.
func (s *Scheduler) checkOne(ctx context.Context, app *models.InstalledApp) (models.CheckResult, bool) {
	if _, loaded := s.inFlight.LoadOrStore(app.PackageName, struct{}{}); loaded {
		return models.CheckResult{}, false
	}
	defer s.inFlight.Delete(app.PackageName)

	return s.checker.Check(ctx, app), true
}

// bucketFor assigns a package to one of n workers by name hash, keeping
// the assignment stable across passes.
func bucketFor(packageName string, n int) int {
	h := fnv.New32a()
	h.Write([]byte(packageName))
	return int(h.Sum32() % uint32(n))
}
