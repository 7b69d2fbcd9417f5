package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/kevin07696/paypal-nvp/internal/adapters/ports"
	pkghttp "github.com/kevin07696/paypal-nvp/pkg/http"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// maxResponseBytes caps how much of a gateway reply is read
const maxResponseBytes = 1 << 20

// ErrCircuitOpen is returned while the gateway circuit breaker rejects requests
var ErrCircuitOpen = errors.New("paypal gateway circuit breaker is open")

// Config contains configuration for the HTTPS NVP transport
type Config struct {
	// HTTP client timeout for the whole round trip
	Timeout time.Duration

	// TLS configuration; host name verification is always on
	VerifyPeer bool
	CAFile     string

	// Circuit breaker: open after MaxFailures consecutive failures,
	// probe again after OpenTimeout
	MaxFailures uint32
	OpenTimeout time.Duration
}

// DefaultConfig returns default configuration for the NVP transport
func DefaultConfig() *Config {
	return &Config{
		Timeout:     45 * time.Second,
		VerifyPeer:  true,
		MaxFailures: 5,
		OpenTimeout: 30 * time.Second,
	}
}

// HTTPSTransport posts form-encoded NVP requests over HTTPS
type HTTPSTransport struct {
	httpClient  ports.HTTPClient
	breaker     *gobreaker.CircuitBreaker
	logger      *zap.Logger
	diagnostics *zap.Logger
}

var _ ports.NVPTransport = (*HTTPSTransport)(nil)

// New creates an HTTPS transport with a tuned client built from cfg.
// diagnostics receives transport errors and raw response bodies; nil disables it.
func New(cfg *Config, logger, diagnostics *zap.Logger) (*HTTPSTransport, error) {
	clientCfg := pkghttp.GatewayClientConfig()
	clientCfg.VerifyPeer = cfg.VerifyPeer
	clientCfg.CAFile = cfg.CAFile

	httpClient, err := pkghttp.NewHTTPClient(clientCfg, cfg.Timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP client: %w", err)
	}

	return NewWithClient(httpClient, cfg, logger, diagnostics), nil
}

// NewWithClient creates a transport around an existing client (tests, custom proxies)
func NewWithClient(httpClient ports.HTTPClient, cfg *Config, logger, diagnostics *zap.Logger) *HTTPSTransport {
	if logger == nil {
		logger = zap.NewNop()
	}
	if diagnostics == nil {
		diagnostics = zap.NewNop()
	}

	maxFailures := cfg.MaxFailures
	if maxFailures == 0 {
		maxFailures = 5
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "paypal-nvp",
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		IsSuccessful: func(err error) bool {
			// A cancelled caller says nothing about gateway health
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return &HTTPSTransport{
		httpClient:  httpClient,
		breaker:     breaker,
		logger:      logger,
		diagnostics: diagnostics,
	}
}

// Post sends body to endpoint and returns the raw response body
func (t *HTTPSTransport) Post(ctx context.Context, endpoint, body string) ([]byte, error) {
	startTime := time.Now()

	result, err := t.breaker.Execute(func() (interface{}, error) {
		return t.post(ctx, endpoint, body)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			t.logger.Warn("Circuit breaker is open, rejecting PayPal request",
				zap.String("circuit_state", t.breaker.State().String()),
			)
			err = fmt.Errorf("%w: %v", ErrCircuitOpen, err)
		}
		t.diagnostics.Error("PayPal transport error",
			zap.String("endpoint", endpoint),
			zap.Duration("elapsed", time.Since(startTime)),
			zap.Error(err),
		)
		return nil, err
	}

	respBody := result.([]byte)
	t.diagnostics.Info("PayPal response",
		zap.String("endpoint", endpoint),
		zap.Duration("elapsed", time.Since(startTime)),
		zap.String("response_body", string(respBody)),
	)
	return respBody, nil
}

func (t *HTTPSTransport) post(ctx context.Context, endpoint, body string) ([]byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	httpResp, err := t.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	t.logger.Debug("Received PayPal HTTP response",
		zap.Int("status_code", httpResp.StatusCode),
		zap.Int("body_length", len(respBody)),
	)

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected HTTP status %d", httpResp.StatusCode)
	}

	return respBody, nil
}

// Healthy reports an error while the circuit breaker is open
func (t *HTTPSTransport) Healthy(ctx context.Context) error {
	if t.breaker.State() == gobreaker.StateOpen {
		return ErrCircuitOpen
	}
	return nil
}
