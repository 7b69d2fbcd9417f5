package ports

import "context"

// NVPTransport posts an encoded NVP request to the gateway.
// Implementations own connection pooling, TLS and timeouts.
type NVPTransport interface {
	// Post sends body as application/x-www-form-urlencoded to endpoint and
	// returns the raw response body.
	// Returns error on network failure, timeout, or non-2xx status.
	Post(ctx context.Context, endpoint, body string) ([]byte, error)
}
