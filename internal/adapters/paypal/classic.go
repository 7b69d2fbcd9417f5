package paypal

import (
	"context"

	"github.com/google/uuid"
	"github.com/kevin07696/paypal-nvp/internal/adapters/ports"
	"go.uber.org/zap"
)

// Classic transaction methods
const (
	MethodDoAuthorization   = "DoAuthorization"
	MethodDoCapture         = "DoCapture"
	MethodDoReauthorization = "DoReauthorization"
	MethodRefundTransaction = "RefundTransaction"
	MethodDoVoid            = "DoVoid"
)

// CompleteType values for DoCapture
const (
	CompleteTypeComplete    = "Complete"
	CompleteTypeNotComplete = "NotComplete"
)

// RefundType values for RefundTransaction
const (
	RefundTypeFull            = "Full"
	RefundTypePartial         = "Partial"
	RefundTypeExternalDispute = "ExternalDispute"
	RefundTypeOther           = "Other"
)

// ClassicClient sends classic authorization/capture/refund/void requests.
// It is safe for concurrent use; each NewRequest call returns an independent builder.
type ClassicClient struct {
	*client
}

// NewClassicClient creates a new classic API client
func NewClassicClient(cfg Config, transport ports.NVPTransport, logger *zap.Logger) *ClassicClient {
	return &ClassicClient{client: newClient(classicAPI, cfg, transport, logger)}
}

// NewRequest starts a new classic request
func (c *ClassicClient) NewRequest() *ClassicRequest {
	return &ClassicRequest{
		Request: newRequest(c.api, c.config.Credentials),
		client:  c.client,
	}
}

// ClassicRequest builds one classic API call
type ClassicRequest struct {
	*Request
	client *client
}

// SetMessageSubmissionID sets MSGSUBID to a fresh UUID so PayPal can detect a
// resubmitted capture, refund or authorization. Returns the generated ID.
func (r *ClassicRequest) SetMessageSubmissionID() (string, error) {
	id := uuid.NewString()
	if err := r.SetField("msgsubid", id); err != nil {
		return "", err
	}
	return id, nil
}

// Authorize authorizes an order transaction
func (r *ClassicRequest) Authorize(ctx context.Context, transactionID, amount string) (*Response, error) {
	if err := r.setNonEmpty([]namedValue{
		{"transactionid", transactionID},
		{"amt", amount},
	}); err != nil {
		return nil, err
	}
	return r.call(ctx, MethodDoAuthorization)
}

// Capture captures an authorization. completeType defaults to Complete.
func (r *ClassicRequest) Capture(ctx context.Context, authorizationID, amount, completeType string) (*Response, error) {
	if completeType == "" {
		completeType = CompleteTypeComplete
	}
	if err := r.setNonEmpty([]namedValue{
		{"authorizationid", authorizationID},
		{"amt", amount},
		{"completetype", completeType},
	}); err != nil {
		return nil, err
	}
	return r.call(ctx, MethodDoCapture)
}

// Reauthorize reauthorizes an existing authorization
func (r *ClassicRequest) Reauthorize(ctx context.Context, authorizationID, amount string) (*Response, error) {
	if err := r.setNonEmpty([]namedValue{
		{"authorizationid", authorizationID},
		{"amt", amount},
	}); err != nil {
		return nil, err
	}
	return r.call(ctx, MethodDoReauthorization)
}

// Refund refunds a captured transaction. refundType defaults to Full;
// amount is only required for Partial refunds.
func (r *ClassicRequest) Refund(ctx context.Context, transactionID, refundType, amount string) (*Response, error) {
	if refundType == "" {
		refundType = RefundTypeFull
	}
	if err := r.setNonEmpty([]namedValue{
		{"transactionid", transactionID},
		{"refundtype", refundType},
		{"amt", amount},
	}); err != nil {
		return nil, err
	}
	return r.call(ctx, MethodRefundTransaction)
}

// Void voids an authorization
func (r *ClassicRequest) Void(ctx context.Context, authorizationID string) (*Response, error) {
	if err := r.setNonEmpty([]namedValue{{"authorizationid", authorizationID}}); err != nil {
		return nil, err
	}
	return r.call(ctx, MethodDoVoid)
}

func (r *ClassicRequest) call(ctx context.Context, method string) (*Response, error) {
	if err := r.SetField("method", method); err != nil {
		return nil, err
	}
	return r.client.send(ctx, r.Request), nil
}
