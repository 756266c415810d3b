package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"

	"apptrack/internal/models"

	"github.com/hashicorp/go-retryablehttp"
)

// bodyChunkSize bounds each read while draining a response body. Malformed
// responses cannot force a single oversized allocation; the full text is
// still accumulated and returned.
const bodyChunkSize = 2048

// Fetcher retrieves a source page for a package and classifies the outcome.
// Implementations never return an error; every fault becomes a FetchResult.
type Fetcher interface {
	Fetch(ctx context.Context, spec Spec, packageName string) models.FetchResult
}

// HTTPFetcher is the production Fetcher. It issues a single GET per call
// with a browser User-Agent and a hard read timeout.
type HTTPFetcher struct {
	client    *retryablehttp.Client
	userAgent string
}

// NewHTTPFetcher creates a fetcher configured from the checker settings.
func NewHTTPFetcher(cfg models.CheckerConfig) *HTTPFetcher {
	client := retryablehttp.NewClient()
	client.Logger = nil
	// Retry policy lives in the resolver cascade, not in the transport.
	client.RetryMax = 0
	client.HTTPClient.Timeout = cfg.FetchTimeout

	return &HTTPFetcher{
		client:    client,
		userAgent: cfg.UserAgent,
	}
}

// Fetch performs one GET against the spec's URL with the package name
// substituted in. Outcome classification:
//   - HTTP 404: FetchNotFound, the listing is gone and will not reappear
//   - DNS/host resolution failure: FetchNetworkError, retry later
//   - anything else that fails: FetchTransportError with the fault text
func (f *HTTPFetcher) Fetch(ctx context.Context, spec Spec, packageName string) models.FetchResult {
	url := spec.URL(packageName)
	slog.Debug("Requesting source page", "source", spec.ID, "url", url)

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return models.FetchResult{
			Status:  models.FetchTransportError,
			Message: fmt.Sprintf("invalid request for %s: %v", url, err),
		}
	}
	req.Header.Set("User-Agent", f.userAgent)
	if spec.Cookie != "" {
		req.Header.Set("Cookie", spec.Cookie)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		if isHostResolutionError(err) {
			return models.FetchResult{
				Status:  models.FetchNetworkError,
				Message: fmt.Sprintf("host unreachable: %v", err),
			}
		}
		return models.FetchResult{
			Status:  models.FetchTransportError,
			Message: fmt.Sprintf("%s could not be retrieved: %v", url, err),
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return models.FetchResult{
			Status:  models.FetchNotFound,
			Message: "no data found for this package",
		}
	}
	if resp.StatusCode != http.StatusOK {
		return models.FetchResult{
			Status:  models.FetchTransportError,
			Message: fmt.Sprintf("unexpected status %d from %s", resp.StatusCode, url),
		}
	}

	body, err := readAll(resp.Body)
	if err != nil {
		return models.FetchResult{
			Status:  models.FetchTransportError,
			Message: fmt.Sprintf("reading %s: %v", url, err),
		}
	}

	return models.FetchResult{Status: models.FetchSuccess, Body: body}
}

// readAll drains r in bodyChunkSize chunks and returns the full text.
func readAll(r io.Reader) (string, error) {
	var sb strings.Builder
	buf := make([]byte, bodyChunkSize)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			sb.Write(buf[:n])
		}
		if err == io.EOF {
			return sb.String(), nil
		}
		if err != nil {
			return "", err
		}
	}
}

// isHostResolutionError distinguishes "the host does not resolve" from
// other transport faults. Resolution failures are connectivity problems,
// not application problems, and must not poison the record.
func isHostResolutionError(err error) bool {
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr)
}
