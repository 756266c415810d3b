package observability

import (
	"context"

	"apptrack/internal/models"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// CheckMetrics counts check cascade outcomes per source and status. It
// implements the check notifier contract so it can sit alongside the other
// listeners without the resolver knowing about metrics.
type CheckMetrics struct {
	checks  metric.Int64Counter
	updates metric.Int64Counter
}

// NewCheckMetrics creates the check outcome instruments.
func NewCheckMetrics() (*CheckMetrics, error) {
	meter := otel.Meter("apptrack/check")

	checks, err := meter.Int64Counter(
		"check.cascades",
		metric.WithDescription("Number of completed check cascades"),
		metric.WithUnit("{check}"),
	)
	if err != nil {
		return nil, err
	}

	updates, err := meter.Int64Counter(
		"check.updates_found",
		metric.WithDescription("Number of checks that discovered a new version"),
		metric.WithUnit("{update}"),
	)
	if err != nil {
		return nil, err
	}

	return &CheckMetrics{checks: checks, updates: updates}, nil
}

// AppChecked records one terminal cascade outcome.
func (m *CheckMetrics) AppChecked(app *models.InstalledApp, result models.CheckResult) {
	attrs := metric.WithAttributes(
		attribute.String("status", result.Status.String()),
		attribute.String("source", result.Source),
		attribute.Bool("system_app", app.SystemApp),
	)
	m.checks.Add(context.Background(), 1, attrs)

	if result.Status == models.CheckUpdated {
		m.updates.Add(context.Background(), 1, attrs)
	}
}
