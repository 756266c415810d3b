package check

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"apptrack/internal/models"
	"apptrack/internal/source"
	"apptrack/internal/storage"
)

// Resolver runs the cascade for one application: fetch, extract, classify,
// commit. It never returns an error; every fault resolves to a CheckResult.
//
// Cascade policy:
//   - Success/Updated at any stage halts immediately; later sources are
//     never consulted
//   - a fatal Error advances to the next source; the staged record
//     mutations are persisted only at the terminal stage, so the store's
//     UpdateApp runs exactly once per completed cascade
//   - a network or transport error aborts the whole cascade without
//     committing anything: a transient failure must not poison the record,
//     and the next scheduled pass retries from the primary source
type Resolver struct {
	fetcher  source.Fetcher
	store    storage.Store
	notifier Notifier
	cascade  []source.Spec
	now      func() time.Time
}

// Option configures optional Resolver behavior.
type Option func(*Resolver)

// WithCascade overrides the default source order.
func WithCascade(cascade []source.Spec) Option {
	return func(r *Resolver) { r.cascade = cascade }
}

// WithClock overrides the commit timestamp source.
func WithClock(now func() time.Time) Option {
	return func(r *Resolver) { r.now = now }
}

// NewResolver creates a resolver over the default cascade.
func NewResolver(fetcher source.Fetcher, store storage.Store, notifier Notifier, opts ...Option) *Resolver {
	r := &Resolver{
		fetcher:  fetcher,
		store:    store,
		notifier: notifier,
		cascade:  source.DefaultCascade(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// staged accumulates record mutations across cascade stages. Nothing
// touches the record or the store until the terminal stage commits.
type staged struct {
	latest    string
	latestSet bool
	fatal     bool
}

// Check runs the full cascade for app and returns the terminal outcome.
// The record's CurrentlyChecking flag is set for the duration of the check
// and always cleared before returning, whatever the outcome. The caller
// must guarantee at most one in-flight check per package; the record is
// mutated in place.
func (r *Resolver) Check(ctx context.Context, app *models.InstalledApp) models.CheckResult {
	defer func() { app.CurrentlyChecking = false }()

	var st staged
	var result models.CheckResult

	for i, spec := range r.cascade {
		app.CurrentlyChecking = true
		result = r.checkSource(ctx, spec, app, &st)

		switch result.Status {
		case models.CheckNetworkError:
			// Transient. Leave the record untouched so the next
			// scheduled pass retries the same cascade from the top.
			slog.Warn("Check aborted by transient failure",
				"package", app.PackageName, "source", spec.ID, "message", result.Message)
			r.notifier.AppChecked(app, result)
			return result

		case models.CheckSuccess, models.CheckUpdated:
			r.commit(ctx, app, st)
			r.notifier.AppChecked(app, result)
			return result

		case models.CheckError:
			if i == len(r.cascade)-1 {
				break // terminal stage, commit below
			}
			slog.Debug("Source failed, advancing cascade",
				"package", app.PackageName, "source", spec.ID, "message", result.Message)
			continue
		}
	}

	// Every source failed fatally. Persist the failure so automatic
	// checks stop for this app.
	r.commit(ctx, app, st)
	r.notifier.AppChecked(app, result)
	return result
}

// checkSource runs fetch+extract+classify against one source and stages
// the record mutations the outcome implies.
func (r *Resolver) checkSource(ctx context.Context, spec source.Spec, app *models.InstalledApp, st *staged) models.CheckResult {
	fetched := r.fetcher.Fetch(ctx, spec, app.PackageName)

	switch fetched.Status {
	case models.FetchNetworkError, models.FetchTransportError:
		return models.CheckResult{Status: models.CheckNetworkError, Message: fetched.Message, Source: spec.ID}

	case models.FetchNotFound:
		// The listing is gone for good. Record the message where the
		// version would go so the user sees why checks stopped.
		st.latest = fetched.Message
		st.latestSet = true
		st.fatal = true
		return models.CheckResult{Status: models.CheckError, Message: fetched.Message, Source: spec.ID}
	}

	candidate, found := spec.Extract(fetched.Body)
	if !found {
		if spec.Unavailable(fetched.Body) {
			msg := fmt.Sprintf("package no longer available on %s", spec.ID)
			st.latest = msg
			st.latestSet = true
			st.fatal = true
			return models.CheckResult{Status: models.CheckError, Message: msg, Source: spec.ID}
		}
		// Pattern not found: the page format may have changed. Keep any
		// previously known version, stop auto-checking.
		slog.Debug("No version matched on page", "package", app.PackageName, "source", spec.ID)
		st.fatal = true
		return models.CheckResult{
			Status:  models.CheckError,
			Message: fmt.Sprintf("no version found on %s", spec.ID),
			Source:  spec.ID,
		}
	}

	slog.Debug("Version candidate extracted",
		"package", app.PackageName, "source", spec.ID, "candidate", candidate)

	// Whatever the candidate is, record it for user visibility.
	st.latest = candidate
	st.latestSet = true

	status := Classify(candidate, app.Version)
	switch status {
	case models.CheckError:
		st.fatal = true
		return models.CheckResult{
			Status:  models.CheckError,
			Message: fmt.Sprintf("not a version number: %q", candidate),
			Source:  spec.ID,
		}
	case models.CheckUpdated:
		st.fatal = false
		if models.IsApparentDowngrade(app.Version, candidate) {
			slog.Warn("Advertised version sorts below installed version",
				"package", app.PackageName, "installed", app.Version, "advertised", candidate)
		}
		return models.CheckResult{Status: models.CheckUpdated, Message: candidate, Source: spec.ID}
	default:
		st.fatal = false
		return models.CheckResult{Status: models.CheckSuccess, Message: candidate, Source: spec.ID}
	}
}

// commit applies the staged mutations and forwards the record to the
// store. This is the sole point where a cascade becomes visible outside
// the resolver.
func (r *Resolver) commit(ctx context.Context, app *models.InstalledApp, st staged) {
	if st.latestSet {
		app.LatestVersion = st.latest
	}
	app.FatalError = st.fatal
	now := r.now()
	app.LastCheck = &now

	if err := r.store.UpdateApp(ctx, app); err != nil {
		slog.Error("Failed to persist check outcome",
			"package", app.PackageName, "error", err)
	}
}
