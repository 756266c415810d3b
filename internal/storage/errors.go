package storage

import "errors"

// ErrAppNotFound is returned when a package name has no tracked record.
var ErrAppNotFound = errors.New("application not found")
