package paypal

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/kevin07696/paypal-nvp/internal/adapters/ports"
	nvperrors "github.com/kevin07696/paypal-nvp/pkg/errors"
	"go.uber.org/zap"
)

// Express Checkout methods
const (
	MethodSetExpressCheckout        = "SetExpressCheckout"
	MethodGetExpressCheckoutDetails = "GetExpressCheckoutDetails"
	MethodDoExpressCheckoutPayment  = "DoExpressCheckoutPayment"
	MethodCallbackResponse          = "CallbackResponse"
	MethodCallbackRequest           = "CallbackRequest"
)

// Express Checkout buyer login pages
const (
	LiveLoginURL    = "https://www.paypal.com/cgi-bin/webscr"
	SandboxLoginURL = "https://www.sandbox.paypal.com/cgi-bin/webscr"
)

// Callback defaults sent by SetExpressCheckout when a callback URL is given
const (
	CallbackVersion = "104"
	CallbackTimeout = "6"

	// The placeholder shipping option PayPal shows until the callback answers
	fallbackShippingOptionName = "Unable to ship"
)

const (
	defaultItemCategory    = "Physical"
	defaultCurrencyCode    = "USD"
	maxShippingOptionField = 50
)

// LineItem is one order line (L_PAYMENTREQUEST_0_<FIELD><n>)
type LineItem struct {
	Number      string // SKU
	Name        string
	Description string
	Quantity    int
	Amount      string
	TaxAmount   string
	ItemURL     string // Optional
	Category    string // Defaults to Physical
}

func (l LineItem) values() []namedValue {
	category := l.Category
	if category == "" {
		category = defaultItemCategory
	}
	out := []namedValue{
		{"number", l.Number},
		{"name", l.Name},
		{"desc", l.Description},
		{"qty", strconv.Itoa(l.Quantity)},
		{"amt", l.Amount},
		{"taxamt", l.TaxAmount},
	}
	if l.ItemURL != "" {
		out = append(out, namedValue{"itemurl", l.ItemURL})
	}
	return append(out, namedValue{"itemcategory", category})
}

// ShippingOption is one shipping choice offered in a callback (L_<FIELD><n>)
type ShippingOption struct {
	Name      string // Internal name, max 50 characters
	Label     string // Buyer-facing label, max 50 characters
	Amount    string
	IsDefault bool
	TaxAmount string // Optional
}

func (o ShippingOption) values() []namedValue {
	out := []namedValue{
		{"shippingoptionname", o.Name},
		{"shippingoptionlabel", o.Label},
		{"shippingoptionamount", o.Amount},
		{"shippingoptionisdefault", strconv.FormatBool(o.IsDefault)},
	}
	if o.TaxAmount != "" {
		out = append(out, namedValue{"taxamt", o.TaxAmount})
	}
	return out
}

func (o ShippingOption) validate() error {
	if utf8.RuneCountInString(o.Name) > maxShippingOptionField {
		return nvperrors.NewValidationError("shippingoptionname",
			fmt.Sprintf("shipping option name cannot exceed %d characters", maxShippingOptionField))
	}
	if utf8.RuneCountInString(o.Label) > maxShippingOptionField {
		return nvperrors.NewValidationError("shippingoptionlabel",
			fmt.Sprintf("shipping option label cannot exceed %d characters", maxShippingOptionField))
	}
	return nil
}

// ExpressCheckoutClient sends Express Checkout requests.
// It is safe for concurrent use; each NewRequest call returns an independent builder.
type ExpressCheckoutClient struct {
	*client
}

// NewExpressCheckoutClient creates a new Express Checkout client
func NewExpressCheckoutClient(cfg Config, transport ports.NVPTransport, logger *zap.Logger) *ExpressCheckoutClient {
	return &ExpressCheckoutClient{client: newClient(expressCheckoutAPI, cfg, transport, logger)}
}

// NewRequest starts a new Express Checkout request
func (c *ExpressCheckoutClient) NewRequest() *ExpressCheckoutRequest {
	return &ExpressCheckoutRequest{
		Request: newRequest(c.api, c.config.Credentials),
		client:  c.client,
	}
}

// LoginURL returns the page the buyer is redirected to for a SetExpressCheckout token
func (c *ExpressCheckoutClient) LoginURL(token string) string {
	base := LiveLoginURL
	if c.config.Sandbox {
		base = SandboxLoginURL
	}
	return base + "?cmd=_express-checkout&token=" + url.QueryEscape(token)
}

// ExpressCheckoutRequest builds one Express Checkout call
type ExpressCheckoutRequest struct {
	*Request
	client *client
}

// SetPaymentField sets a PAYMENTREQUEST_0_<NAME> field. name is the bare
// order field, e.g. "amt" or "shiptoname".
func (r *ExpressCheckoutRequest) SetPaymentField(name, value string) error {
	name = strings.ToLower(name)
	if r.validate && !r.api.registry.IsRecognized("paymentrequest_0_"+name) {
		return nvperrors.NewUnknownFieldError(name, r.api.registry.Name())
	}
	r.paymentFields.set(name, value)
	return nil
}

// SetPaymentFields sets several payment request fields, all or none
func (r *ExpressCheckoutRequest) SetPaymentFields(fields map[string]string) error {
	names := sortedKeys(fields)
	if r.validate {
		for _, name := range names {
			if !r.api.registry.IsRecognized("paymentrequest_0_" + name) {
				return nvperrors.NewUnknownFieldError(strings.ToLower(name), r.api.registry.Name())
			}
		}
	}
	for _, name := range names {
		r.paymentFields.set(strings.ToLower(name), fields[name])
	}
	return nil
}

// UnsetPaymentField removes a payment request field. Missing fields are ignored.
func (r *ExpressCheckoutRequest) UnsetPaymentField(name string) {
	r.paymentFields.unset(strings.ToLower(name))
}

// PaymentField returns the current value of a payment request field
func (r *ExpressCheckoutRequest) PaymentField(name string) (string, bool) {
	return r.paymentFields.get(strings.ToLower(name))
}

// AddLineItem appends an order line
func (r *ExpressCheckoutRequest) AddLineItem(item LineItem) {
	r.lineItems = append(r.lineItems, item)
}

// AddShippingOption appends a shipping option for the callback response.
// Returns *errors.ValidationError when the name or label exceeds 50 characters.
func (r *ExpressCheckoutRequest) AddShippingOption(option ShippingOption) error {
	if err := option.validate(); err != nil {
		return err
	}
	r.shippingOptions = append(r.shippingOptions, option)
	return nil
}

// CallbackResponse encodes the answer to a PayPal callback request.
// Credentials and VERSION are not sent; CURRENCYCODE defaults to USD and
// NO_SHIPPING_OPTION_DETAILS=1 is sent when no shipping option was added.
func (r *ExpressCheckoutRequest) CallbackResponse() string {
	r.fields.set("method", MethodCallbackResponse)
	if len(r.shippingOptions) == 0 {
		r.fields.set("no_shipping_option_details", "1")
	} else {
		r.fields.unset("no_shipping_option_details")
	}
	if currency, _ := r.fields.get("currencycode"); currency == "" {
		r.fields.set("currencycode", defaultCurrencyCode)
	}
	r.fields.unset("version")

	return r.Encode()
}

// SetExpressCheckoutParams are the arguments of SetExpressCheckout.
// Empty values are not sent.
type SetExpressCheckoutParams struct {
	Amount      string // PAYMENTREQUEST_0_AMT
	ReturnURL   string
	CancelURL   string
	CallbackURL string // Enables the shipping-option callback
	MaxAmount   string // Only sent with a callback URL
}

// SetExpressCheckout starts a checkout and returns the token used to redirect the buyer
func (r *ExpressCheckoutRequest) SetExpressCheckout(ctx context.Context, params SetExpressCheckoutParams) (*Response, error) {
	if params.Amount != "" {
		if err := r.SetPaymentField("amt", params.Amount); err != nil {
			return nil, err
		}
	}

	fields := []namedValue{
		{"returnurl", params.ReturnURL},
		{"cancelurl", params.CancelURL},
	}

	// The fallback option is replaced by whatever the callback URL returns
	if params.CallbackURL != "" {
		fields = append(fields,
			namedValue{"callback", params.CallbackURL},
			namedValue{"callbackversion", CallbackVersion},
			namedValue{"callbacktimeout", CallbackTimeout},
		)
		if len(r.shippingOptions) == 0 {
			fields = append(fields,
				namedValue{"l_shippingoptionisdefault0", "1"},
				namedValue{"l_shippingoptionname0", fallbackShippingOptionName},
				namedValue{"l_shippingoptionamount0", "0"},
			)
		}
		fields = append(fields, namedValue{"maxamt", params.MaxAmount})
	}

	if err := r.setNonEmpty(fields); err != nil {
		return nil, err
	}
	return r.call(ctx, MethodSetExpressCheckout)
}

// GetExpressCheckoutDetails fetches buyer and shipping details once the buyer returns from PayPal
func (r *ExpressCheckoutRequest) GetExpressCheckoutDetails(ctx context.Context, token string) (*Response, error) {
	if err := r.setNonEmpty([]namedValue{{"token", token}}); err != nil {
		return nil, err
	}
	return r.call(ctx, MethodGetExpressCheckoutDetails)
}

// DoExpressCheckoutPayment completes the checkout
func (r *ExpressCheckoutRequest) DoExpressCheckoutPayment(ctx context.Context, token, payerID string) (*Response, error) {
	if err := r.setNonEmpty([]namedValue{{"token", token}, {"payerid", payerID}}); err != nil {
		return nil, err
	}
	return r.call(ctx, MethodDoExpressCheckoutPayment)
}

func (r *ExpressCheckoutRequest) call(ctx context.Context, method string) (*Response, error) {
	if err := r.SetField("method", method); err != nil {
		return nil, err
	}
	return r.client.send(ctx, r.Request), nil
}
