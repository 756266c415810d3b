// Package models - version string comparison helpers.
//
// Design Decisions:
// - Store pages advertise arbitrary version strings, so the update decision
//   itself is plain string inequality; semver ordering is advisory only
// - Semver parsing is attempted leniently (coerced) so common forms like
//   "1.2" still order numerically
package models

import (
	"strings"

	"github.com/Masterminds/semver/v3"
)

// CompareVersions orders two version strings. When both parse as (possibly
// partial) semantic versions, semver precedence applies; otherwise the
// comparison falls back to lexicographic order.
//
// Returns -1 if a < b, 0 if equal, +1 if a > b.
func CompareVersions(a, b string) int {
	av, aerr := semver.NewVersion(strings.TrimSpace(a))
	bv, berr := semver.NewVersion(strings.TrimSpace(b))
	if aerr == nil && berr == nil {
		return av.Compare(bv)
	}
	return strings.Compare(a, b)
}

// IsApparentDowngrade reports whether an advertised version orders below
// the installed one. Sources occasionally serve stale pages; the resolver
// still records the advertised version but logs the anomaly.
func IsApparentDowngrade(installed, advertised string) bool {
	if installed == "" || advertised == "" {
		return false
	}
	return CompareVersions(advertised, installed) < 0
}
