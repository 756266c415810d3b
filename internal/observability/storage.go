package observability

import (
	"context"
	"time"

	"apptrack/internal/models"
	"apptrack/internal/storage"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// InstrumentedStore wraps a storage.Store implementation with
// OpenTelemetry tracing and metrics instrumentation.
type InstrumentedStore struct {
	inner    storage.Store
	tracer   trace.Tracer
	duration metric.Float64Histogram
	errors   metric.Int64Counter
}

// NewInstrumentedStore creates a store wrapper that records trace spans,
// operation latency histograms, and error counters for every store method
// call.
func NewInstrumentedStore(inner storage.Store) (*InstrumentedStore, error) {
	tracer := otel.Tracer("apptrack/storage")
	meter := otel.Meter("apptrack/storage")

	duration, err := meter.Float64Histogram(
		"storage.operation.duration",
		metric.WithDescription("Duration of storage operations in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	errCounter, err := meter.Int64Counter(
		"storage.operation.errors",
		metric.WithDescription("Number of storage operation errors"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	return &InstrumentedStore{
		inner:    inner,
		tracer:   tracer,
		duration: duration,
		errors:   errCounter,
	}, nil
}

func (s *InstrumentedStore) startSpan(ctx context.Context, operation string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	ctx, span := s.tracer.Start(ctx, "storage."+operation,
		trace.WithAttributes(append([]attribute.KeyValue{
			attribute.String("storage.operation", operation),
		}, attrs...)...),
	)
	return ctx, span
}

func (s *InstrumentedStore) record(ctx context.Context, span trace.Span, operation string, start time.Time, err error) {
	elapsed := time.Since(start).Seconds()
	attrs := metric.WithAttributes(attribute.String("operation", operation))

	s.duration.Record(ctx, elapsed, attrs)
	if err != nil {
		s.errors.Add(ctx, 1, attrs)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// Apps returns all tracked application records.
func (s *InstrumentedStore) Apps(ctx context.Context) ([]*models.InstalledApp, error) {
	ctx, span := s.startSpan(ctx, "Apps")
	start := time.Now()
	apps, err := s.inner.Apps(ctx)
	s.record(ctx, span, "Apps", start, err)
	return apps, err
}

// GetApp retrieves a record by its package name.
func (s *InstrumentedStore) GetApp(ctx context.Context, packageName string) (*models.InstalledApp, error) {
	ctx, span := s.startSpan(ctx, "GetApp", attribute.String("app.package", packageName))
	start := time.Now()
	app, err := s.inner.GetApp(ctx, packageName)
	s.record(ctx, span, "GetApp", start, err)
	return app, err
}

// SaveApp stores or replaces a record.
func (s *InstrumentedStore) SaveApp(ctx context.Context, app *models.InstalledApp) error {
	ctx, span := s.startSpan(ctx, "SaveApp", attribute.String("app.package", app.PackageName))
	start := time.Now()
	err := s.inner.SaveApp(ctx, app)
	s.record(ctx, span, "SaveApp", start, err)
	return err
}

// UpdateApp commits a check outcome onto an existing record.
func (s *InstrumentedStore) UpdateApp(ctx context.Context, app *models.InstalledApp) error {
	ctx, span := s.startSpan(ctx, "UpdateApp", attribute.String("app.package", app.PackageName))
	start := time.Now()
	err := s.inner.UpdateApp(ctx, app)
	s.record(ctx, span, "UpdateApp", start, err)
	return err
}

// DeleteApp stops tracking a package.
func (s *InstrumentedStore) DeleteApp(ctx context.Context, packageName string) error {
	ctx, span := s.startSpan(ctx, "DeleteApp", attribute.String("app.package", packageName))
	start := time.Now()
	err := s.inner.DeleteApp(ctx, packageName)
	s.record(ctx, span, "DeleteApp", start, err)
	return err
}

// Close closes the underlying store.
func (s *InstrumentedStore) Close() error {
	return s.inner.Close()
}
