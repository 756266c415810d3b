package check

import (
	"log/slog"

	"apptrack/internal/models"
)

// Notifier receives the terminal outcome of every check cascade, exactly
// once per check. Delivery ordering across listeners is the caller's
// concern.
type Notifier interface {
	AppChecked(app *models.InstalledApp, result models.CheckResult)
}

// LogNotifier reports check outcomes to the structured log.
type LogNotifier struct{}

func (LogNotifier) AppChecked(app *models.InstalledApp, result models.CheckResult) {
	slog.Info("App checked",
		"package", app.PackageName,
		"status", result.Status.String(),
		"source", result.Source,
		"message", result.Message)
}

// MultiNotifier fans a check outcome out to several listeners in order.
type MultiNotifier []Notifier

func (m MultiNotifier) AppChecked(app *models.InstalledApp, result models.CheckResult) {
	for _, n := range m {
		n.AppChecked(app, result)
	}
}
