// Package models - check pipeline outcome types.
// Fetch and check outcomes are tagged values consumed exhaustively at each
// site; fatality is derived from the status rather than carried as a
// separate flag.
package models

// FetchStatus classifies the outcome of a single page fetch.
type FetchStatus int

const (
	// FetchSuccess means the page body was retrieved in full.
	FetchSuccess FetchStatus = iota

	// FetchNotFound means the source reported the package absent (HTTP
	// 404). This source will never succeed for this package.
	FetchNotFound

	// FetchNetworkError means host resolution or connectivity failed.
	// Transient: the record must be left untouched and retried later.
	FetchNetworkError

	// FetchTransportError covers every other I/O failure, including the
	// read timeout.
	FetchTransportError
)

// String returns a log-friendly name for the status.
func (s FetchStatus) String() string {
	switch s {
	case FetchSuccess:
		return "success"
	case FetchNotFound:
		return "not_found"
	case FetchNetworkError:
		return "network_error"
	case FetchTransportError:
		return "transport_error"
	default:
		return "unknown"
	}
}

// Fatal reports whether this outcome means the source will never succeed
// for the package. A delisted page does not come back.
func (s FetchStatus) Fatal() bool {
	return s == FetchNotFound
}

// FetchResult is the classified outcome of one HTTP GET against a source.
type FetchResult struct {
	Status  FetchStatus
	Body    string // Full page text, set only on FetchSuccess
	Message string // Human-readable error text for the failure statuses
}

// CheckStatus classifies the outcome of a full check cascade, as reported
// to the scheduler, the notification listeners, and the HTTP surface.
type CheckStatus int

const (
	// CheckSuccess means the latest advertised version matches the
	// installed one.
	CheckSuccess CheckStatus = iota

	// CheckUpdated means a different version is advertised by the source.
	CheckUpdated

	// CheckError means the check failed fatally for this source or the
	// extracted text was not a version; automatic retries stop.
	CheckError

	// CheckNetworkError means the check failed transiently and will be
	// retried on the next scheduled pass.
	CheckNetworkError
)

// String returns a log-friendly name for the status.
func (s CheckStatus) String() string {
	switch s {
	case CheckSuccess:
		return "success"
	case CheckUpdated:
		return "updated"
	case CheckError:
		return "error"
	case CheckNetworkError:
		return "network_error"
	default:
		return "unknown"
	}
}

// CheckResult is the terminal outcome of one check cascade. Message holds
// the newly advertised version for CheckUpdated and forwarded error text
// otherwise.
type CheckResult struct {
	Status  CheckStatus `json:"status"`
	Message string      `json:"message,omitempty"`
	Source  string      `json:"source,omitempty"` // Identifier of the source that produced the terminal outcome
}
