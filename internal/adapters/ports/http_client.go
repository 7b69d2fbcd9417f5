package ports

import "net/http"

// HTTPClient is a minimal HTTP client interface for making requests
// The NVP transport depends on it so tests can substitute a mock
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}
