package callback

import (
	"context"
	"errors"
	"net/http"

	"github.com/kevin07696/paypal-nvp/internal/adapters/paypal"
	nvperrors "github.com/kevin07696/paypal-nvp/pkg/errors"
	"github.com/kevin07696/paypal-nvp/pkg/observability"
	"go.uber.org/zap"
)

// Callback outcomes recorded in metrics
const (
	outcomeOptions   = "options"
	outcomeNoOptions = "no_options"
	outcomeRejected  = "rejected"
)

// maxCallbackBytes caps the size of a callback form
const maxCallbackBytes = 64 << 10

// ShippingOptionsProvider decides which shipping options to offer for the
// address in a callback. An empty result tells PayPal the address cannot be shipped to.
type ShippingOptionsProvider interface {
	ShippingOptions(ctx context.Context, req *paypal.CallbackRequest) ([]paypal.ShippingOption, error)
}

// ShippingOptionsFunc adapts a function to ShippingOptionsProvider
type ShippingOptionsFunc func(ctx context.Context, req *paypal.CallbackRequest) ([]paypal.ShippingOption, error)

func (f ShippingOptionsFunc) ShippingOptions(ctx context.Context, req *paypal.CallbackRequest) ([]paypal.ShippingOption, error) {
	return f(ctx, req)
}

// CallbackHandler answers the Express Checkout instant update callback.
// PayPal posts the buyer's address; the handler replies with shipping options.
type CallbackHandler struct {
	client   *paypal.ExpressCheckoutClient
	provider ShippingOptionsProvider
	logger   *zap.Logger
}

// NewCallbackHandler creates a new callback handler
func NewCallbackHandler(client *paypal.ExpressCheckoutClient, provider ShippingOptionsProvider, logger *zap.Logger) *CallbackHandler {
	return &CallbackHandler{
		client:   client,
		provider: provider,
		logger:   logger,
	}
}

// ServeHTTP handles POST /paypal/callback
func (h *CallbackHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		observability.RecordCallback(outcomeRejected)
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxCallbackBytes)
	if err := r.ParseForm(); err != nil {
		observability.RecordCallback(outcomeRejected)
		h.logger.Warn("failed to parse PayPal callback", zap.Error(err))
		http.Error(w, "invalid callback request", http.StatusBadRequest)
		return
	}

	req := paypal.ParseCallbackRequest(r.PostForm)
	if req.Method() != paypal.MethodCallbackRequest {
		observability.RecordCallback(outcomeRejected)
		h.logger.Warn("unexpected callback method", zap.String("method", req.Method()))
		http.Error(w, "invalid callback request", http.StatusBadRequest)
		return
	}

	address := req.ShippingAddress()
	h.logger.Info("received PayPal callback",
		zap.String("token", req.Token()),
		zap.String("currency_code", req.CurrencyCode()),
		zap.String("ship_to_country", address.CountryCode),
		zap.Int("line_items", len(req.LineItems())),
	)

	options, err := h.provider.ShippingOptions(r.Context(), req)
	if err != nil {
		// PayPal still needs an answer; no options means "cannot ship"
		h.logger.Error("failed to compute shipping options",
			zap.Error(err),
			zap.String("token", req.Token()),
		)
		options = nil
	}

	body, count := h.buildResponse(req, options)

	outcome := outcomeOptions
	if count == 0 {
		outcome = outcomeNoOptions
	}
	observability.RecordCallback(outcome)

	h.logger.Info("answered PayPal callback",
		zap.String("token", req.Token()),
		zap.Int("shipping_options", count),
	)

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(body))
}

// buildResponse encodes the callback response, skipping options that fail validation
func (h *CallbackHandler) buildResponse(req *paypal.CallbackRequest, options []paypal.ShippingOption) (string, int) {
	resp := h.client.NewRequest()

	if currency := req.CurrencyCode(); currency != "" {
		if err := resp.SetField("currencycode", currency); err != nil {
			h.logger.Error("failed to set currency code", zap.Error(err))
		}
	}

	count := 0
	for _, option := range options {
		if err := resp.AddShippingOption(option); err != nil {
			var validationErr *nvperrors.ValidationError
			if errors.As(err, &validationErr) {
				h.logger.Warn("skipping invalid shipping option",
					zap.String("field", validationErr.Field),
					zap.String("reason", validationErr.Message),
				)
				continue
			}
			h.logger.Error("failed to add shipping option", zap.Error(err))
			continue
		}
		count++
	}

	return resp.CallbackResponse(), count
}
