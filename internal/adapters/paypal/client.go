package paypal

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/kevin07696/paypal-nvp/internal/adapters/ports"
	"github.com/kevin07696/paypal-nvp/pkg/observability"
	"go.uber.org/zap"
)

// NVP endpoints
const (
	LiveURL    = "https://api-3t.paypal.com/nvp"
	SandboxURL = "https://api-3t.sandbox.paypal.com/nvp"
)

// Credentials are the merchant's API signature credentials
type Credentials struct {
	Username  string
	Password  string
	Signature string
}

// Config contains the per-merchant settings of a client
type Config struct {
	Credentials Credentials

	// Sandbox selects the sandbox endpoints
	Sandbox bool

	// Endpoint overrides the sandbox/live NVP URL (tests, proxies)
	Endpoint string
}

// apiFamily describes what differs between the classic and Express Checkout APIs
type apiFamily struct {
	name       string
	registry   *Registry
	liveURL    string
	sandboxURL string

	// countryField is the ship-to country field name
	countryField string

	// paymentRequestBucket stores order totals and addresses as PAYMENTREQUEST_0_ fields
	paymentRequestBucket bool

	// addressOverride sends ADDROVERRIDE=1 with a shipping address
	addressOverride bool
}

var (
	classicAPI = &apiFamily{
		name:         "classic",
		registry:     ClassicRegistry(),
		liveURL:      LiveURL,
		sandboxURL:   SandboxURL,
		countryField: "shiptocountry",
	}

	expressCheckoutAPI = &apiFamily{
		name:                 "express_checkout",
		registry:             ExpressCheckoutRegistry(),
		liveURL:              LiveURL,
		sandboxURL:           SandboxURL,
		countryField:         "shiptocountrycode",
		paymentRequestBucket: true,
		addressOverride:      true,
	}
)

// client holds what every request of one API family shares
type client struct {
	api       *apiFamily
	config    Config
	transport ports.NVPTransport
	logger    *zap.Logger
}

func newClient(api *apiFamily, cfg Config, transport ports.NVPTransport, logger *zap.Logger) *client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &client{
		api:       api,
		config:    cfg,
		transport: transport,
		logger:    logger.With(zap.String("api", api.name)),
	}
}

// Endpoint returns the NVP URL requests are posted to
func (c *client) Endpoint() string {
	if c.config.Endpoint != "" {
		return c.config.Endpoint
	}
	if c.config.Sandbox {
		return c.api.sandboxURL
	}
	return c.api.liveURL
}

// send posts the encoded request and parses the reply. Transport failures are
// not returned: they produce the synthetic connection-failure response.
func (c *client) send(ctx context.Context, r *Request) *Response {
	method, _ := r.fields.get("method")
	endpoint := c.Endpoint()
	logger := c.logger.With(
		zap.String("request_id", uuid.NewString()),
		zap.String("method", method),
	)

	logger.Info("Sending PayPal NVP request",
		zap.String("endpoint", endpoint),
		zap.Int("line_items", len(r.lineItems)),
		zap.Int("shipping_options", len(r.shippingOptions)),
	)

	startTime := time.Now()
	body, err := c.transport.Post(ctx, endpoint, r.Encode())
	elapsed := time.Since(startTime)
	if err != nil {
		logger.Error("PayPal NVP transport failed",
			zap.Error(err),
			zap.Duration("elapsed", elapsed),
		)
		observability.RecordNVPTransportError(c.api.name, method)
		body = nil
	}

	resp := ParseResponse(string(body))
	observability.RecordNVPRequest(c.api.name, method, resp.Status, elapsed)

	fields := []zap.Field{
		zap.String("ack", resp.Status),
		zap.String("correlation_id", resp.CorrelationID),
		zap.Int("errors", len(resp.Errors)),
		zap.Int("warnings", len(resp.Warnings)),
		zap.Duration("elapsed", elapsed),
	}
	if resp.IsSuccess() {
		logger.Info("Received PayPal NVP response", fields...)
	} else {
		if first, ok := resp.FirstError(); ok {
			fields = append(fields,
				zap.String("error_code", first.ErrorCode),
				zap.String("short_message", first.ShortMessage),
			)
		}
		logger.Warn("PayPal NVP request failed", fields...)
	}

	return resp
}
