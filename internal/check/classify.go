// Package check implements the update-check cascade: classifying extracted
// version candidates and resolving the multi-source lookup for one
// application record.
package check

import (
	"regexp"

	"apptrack/internal/models"
)

// versionShapePattern decides whether extracted text is a version token or
// a marketing phrase. Store pages answer with strings like "Varies with
// device" where a version belongs; those must not be mistaken for one.
// The rule: reject any string containing a space unless that space is
// directly followed by "(", so "1.2 (beta)" passes and "Varies with
// device" does not. Deliberately kept byte-for-byte compatible with the
// observed page formats rather than generalized.
var versionShapePattern = regexp.MustCompile(`^([^ ]| \()*$`)

// IsVersionToken reports whether candidate has the shape of a version
// string.
func IsVersionToken(candidate string) bool {
	return versionShapePattern.MatchString(candidate)
}

// Classify resolves an extracted candidate against the installed version.
// Non-version candidates classify as CheckError: the advertised text is
// assumed stable and unparseable, so re-polling it is pointless. A valid
// candidate is CheckUpdated when it differs from the installed version and
// CheckSuccess when the app is already current.
func Classify(candidate, installedVersion string) models.CheckStatus {
	if !IsVersionToken(candidate) {
		return models.CheckError
	}
	if candidate != installedVersion {
		return models.CheckUpdated
	}
	return models.CheckSuccess
}
