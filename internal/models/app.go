// Package models defines the core data structures for the apptrack service.
// This file defines the tracked-application record and its ordering rules.
//
// Design Decisions:
// - Package name is the sole identity: two records with the same package
//   name are the same application, whatever the other fields say
// - LatestVersion is a plain string where "" means "never successfully
//   checked"; extraction always yields a non-empty trimmed token, so the
//   empty string cannot collide with a real version
// - CurrentlyChecking is transient and never serialized or persisted
package models

import (
	"sort"
	"strings"
	"time"
)

// InstalledApp is the per-application tracked state. One record exists for
// every package discovered on the device being tracked.
type InstalledApp struct {
	PackageName   string     `json:"package_name"`             // Unique package identifier (e.g. com.example.app)
	DisplayName   string     `json:"display_name"`             // Human-readable application name
	Version       string     `json:"version"`                  // Currently installed version
	LatestVersion string     `json:"latest_version,omitempty"` // Latest advertised version, "" until first successful check
	FatalError    bool       `json:"fatal_error"`              // True when automatic checks should stop for this app
	LastCheck     *time.Time `json:"last_check,omitempty"`     // When the last committed check completed
	SystemApp     bool       `json:"system_app"`               // Fixed at creation, system packages sort last

	// CurrentlyChecking is set for the duration of a check cascade and is
	// never persisted; restored records always start with it false.
	CurrentlyChecking bool `json:"-"`
}

// NewInstalledApp creates a record for a freshly discovered application.
func NewInstalledApp(packageName, version, displayName string, systemApp bool) *InstalledApp {
	return &InstalledApp{
		PackageName: packageName,
		DisplayName: displayName,
		Version:     version,
		SystemApp:   systemApp,
	}
}

// IsUpdateAvailable reports whether a newer version is known for this app.
// It is true iff both version fields are set, the last check did not end in
// a fatal error, and the two versions differ.
func (a *InstalledApp) IsUpdateAvailable() bool {
	if a.Version == "" || a.LatestVersion == "" {
		return false
	}
	if a.FatalError {
		return false
	}
	return a.Version != a.LatestVersion
}

// Equal treats two records as the same application when their package names
// match. Two applications with the same package name cannot coexist on a
// device, so identity ignores every other field.
func (a *InstalledApp) Equal(other *InstalledApp) bool {
	if other == nil {
		return false
	}
	return a.PackageName == other.PackageName
}

// CompareByName orders records alphabetically by display name. Display
// names are not unique; callers must not rely on this producing a total
// order over distinct applications.
func (a *InstalledApp) CompareByName(b *InstalledApp) int {
	return strings.Compare(a.DisplayName, b.DisplayName)
}

// CompareByUpdate orders records by check outcome: never-checked records
// first, then records with pending updates, then up-to-date records, with
// fatal-error records at the bottom of the checked group. Ties fall back
// to alphabetical order.
func (a *InstalledApp) CompareByUpdate(b *InstalledApp) int {
	// One of the records was never checked.
	switch {
	case a.LatestVersion == "" && b.LatestVersion != "":
		return -1
	case a.LatestVersion != "" && b.LatestVersion == "":
		return 1
	case a.LatestVersion == "":
		return a.CompareByName(b)
	}

	// One of the records carries a fatal error.
	switch {
	case a.FatalError && !b.FatalError:
		return 1
	case !a.FatalError && b.FatalError:
		return -1
	case a.FatalError:
		return a.CompareByName(b)
	}

	// Both were checked without errors.
	aCurrent := a.Version == a.LatestVersion
	bCurrent := b.Version == b.LatestVersion
	switch {
	case aCurrent && !bCurrent:
		return 1
	case !aCurrent && bCurrent:
		return -1
	}
	return a.CompareByName(b)
}

// CompareBySystemAndUpdate orders user applications before system
// applications, then applies CompareByUpdate within each group.
func (a *InstalledApp) CompareBySystemAndUpdate(b *InstalledApp) int {
	switch {
	case !a.SystemApp && b.SystemApp:
		return -1
	case a.SystemApp && !b.SystemApp:
		return 1
	}
	return a.CompareByUpdate(b)
}

// Sort orders for the list API and tests.
const (
	SortAlphabetical = "alphabetical"
	SortUpdate       = "update"
	SortSystemUpdate = "system_update"
)

// SortApps sorts records in place according to the named order. Unknown
// orders fall back to alphabetical.
func SortApps(apps []*InstalledApp, order string) {
	var less func(i, j int) bool
	switch order {
	case SortUpdate:
		less = func(i, j int) bool { return apps[i].CompareByUpdate(apps[j]) < 0 }
	case SortSystemUpdate:
		less = func(i, j int) bool { return apps[i].CompareBySystemAndUpdate(apps[j]) < 0 }
	default:
		less = func(i, j int) bool { return apps[i].CompareByName(apps[j]) < 0 }
	}
	sort.SliceStable(apps, less)
}
