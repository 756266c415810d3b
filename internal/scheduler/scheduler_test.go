package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"apptrack/internal/models"
	"apptrack/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubChecker records which packages were checked and can block to keep a
// check in flight.
type stubChecker struct {
	mu      sync.Mutex
	checked []string
	block   chan struct{}
	result  models.CheckResult
}

func (c *stubChecker) Check(ctx context.Context, app *models.InstalledApp) models.CheckResult {
	c.mu.Lock()
	c.checked = append(c.checked, app.PackageName)
	c.mu.Unlock()
	if c.block != nil {
		<-c.block
	}
	return c.result
}

func (c *stubChecker) packages() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.checked...)
}

func seedStore(t *testing.T, apps ...*models.InstalledApp) storage.Store {
	t.Helper()
	store, err := storage.NewMemoryStore(storage.Config{})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	for _, app := range apps {
		require.NoError(t, store.SaveApp(context.Background(), app))
	}
	return store
}

func testConfig(workers int) models.CheckerConfig {
	return models.CheckerConfig{
		Interval:     time.Hour,
		RequestDelay: 0,
		FetchTimeout: time.Second,
		UserAgent:    "test",
		Workers:      workers,
	}
}

func TestRunPassChecksAllEligibleApps(t *testing.T) {
	store := seedStore(t,
		models.NewInstalledApp("com.a", "1.0", "A", false),
		models.NewInstalledApp("com.b", "1.0", "B", false),
		models.NewInstalledApp("com.c", "1.0", "C", false),
	)
	checker := &stubChecker{result: models.CheckResult{Status: models.CheckSuccess}}
	sched := New(store, checker, testConfig(2))

	sched.runPass(context.Background())

	assert.ElementsMatch(t, []string{"com.a", "com.b", "com.c"}, checker.packages())
}

func TestRunPassSkipsFatalApps(t *testing.T) {
	dead := models.NewInstalledApp("com.dead", "1.0", "Dead", false)
	dead.FatalError = true
	store := seedStore(t,
		dead,
		models.NewInstalledApp("com.live", "1.0", "Live", false),
	)
	checker := &stubChecker{}
	sched := New(store, checker, testConfig(2))

	sched.runPass(context.Background())

	assert.Equal(t, []string{"com.live"}, checker.packages())
}

func TestBucketForIsStableAndBounded(t *testing.T) {
	packages := []string{"com.a", "com.b", "com.example.app", "org.other.pkg"}
	for _, pkg := range packages {
		first := bucketFor(pkg, 4)
		assert.GreaterOrEqual(t, first, 0)
		assert.Less(t, first, 4)
		// Same input, same worker, every time.
		assert.Equal(t, first, bucketFor(pkg, 4))
	}
}

func TestCheckNowUnknownPackage(t *testing.T) {
	store := seedStore(t)
	sched := New(store, &stubChecker{}, testConfig(1))

	_, _, err := sched.CheckNow(context.Background(), "com.missing")
	assert.ErrorIs(t, err, storage.ErrAppNotFound)
}

func TestCheckNowReturnsResult(t *testing.T) {
	store := seedStore(t, models.NewInstalledApp("com.a", "1.0", "A", false))
	checker := &stubChecker{result: models.CheckResult{Status: models.CheckUpdated, Message: "1.1"}}
	sched := New(store, checker, testConfig(1))

	app, result, err := sched.CheckNow(context.Background(), "com.a")
	require.NoError(t, err)
	assert.Equal(t, "com.a", app.PackageName)
	assert.Equal(t, models.CheckUpdated, result.Status)
}

func TestCheckNowRejectsConcurrentCheck(t *testing.T) {
	store := seedStore(t, models.NewInstalledApp("com.a", "1.0", "A", false))
	checker := &stubChecker{block: make(chan struct{})}
	sched := New(store, checker, testConfig(1))

	started := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		close(started)
		sched.CheckNow(context.Background(), "com.a")
	}()

	<-started
	// Wait for the first check to actually be in flight.
	require.Eventually(t, func() bool {
		return len(checker.packages()) == 1
	}, time.Second, 5*time.Millisecond)

	_, _, err := sched.CheckNow(context.Background(), "com.a")
	assert.ErrorIs(t, err, ErrCheckInProgress)

	close(checker.block)
	<-done
}

func TestRunStopsOnContextCancel(t *testing.T) {
	store := seedStore(t)
	sched := New(store, &stubChecker{}, testConfig(1))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sched.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop after cancellation")
	}
}
