package integrations

import (
	"errors"
	"net/http"
	"time"
)

const (
	httpTimeout = 30 * time.Second

	// downloadTimeout bounds one shared download across all its attempts.
	downloadTimeout = 2 * time.Minute

	// maxResponseSize caps registry documents. Packages with thousands of
	// versions publish package roots of well over 10MB.
	maxResponseSize = 50 * 1024 * 1024

	cacheKeyType = "registry"
)

var (
	// ErrNotFound is returned when a package or resource doesn't exist in the registry.
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork is returned for HTTP failures (timeouts, connection errors, 5xx responses).
	ErrNetwork = errors.New("network error")
)

// NewHTTPClient creates an HTTP client with a standard timeout for registry requests.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: httpTimeout}
}

// IsTransportError reports whether err came from the registry transport
// rather than from the caller's context.
func IsTransportError(err error) bool {
	return errors.Is(err, ErrNetwork) || errors.Is(err, ErrNotFound)
}
