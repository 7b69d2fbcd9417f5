package paypal

import (
	"maps"
	"net/url"
	"slices"
	"strconv"
	"strings"

	nvperrors "github.com/kevin07696/paypal-nvp/pkg/errors"
)

// Wire prefixes for the repeated buckets
const (
	lineItemPrefix       = "L_PAYMENTREQUEST_0_"
	paymentFieldPrefix   = "PAYMENTREQUEST_0_"
	shippingOptionPrefix = "L_"
)

// APIVersion is sent as VERSION on every request
const APIVersion = "104"

// Request accumulates the name/value pairs of one NVP call.
// A Request is not safe for concurrent use.
type Request struct {
	api         *apiFamily
	credentials Credentials
	validate    bool

	fields          *fieldSet
	paymentFields   *fieldSet
	customFields    *fieldSet
	lineItems       []LineItem
	shippingOptions []ShippingOption
}

func newRequest(api *apiFamily, credentials Credentials) *Request {
	r := &Request{
		api:           api,
		credentials:   credentials,
		validate:      true,
		fields:        newFieldSet(),
		paymentFields: newFieldSet(),
		customFields:  newFieldSet(),
	}
	r.fields.set("version", APIVersion)
	return r
}

// SkipValidation turns registry checks off (true) or back on (false)
func (r *Request) SkipValidation(skip bool) {
	r.validate = !skip
}

// SetField sets a top-level field.
// Returns *errors.UnknownFieldError if the active API does not define the field.
func (r *Request) SetField(name, value string) error {
	name = strings.ToLower(name)
	if r.validate && !r.api.registry.IsRecognized(name) {
		return nvperrors.NewUnknownFieldError(name, r.api.registry.Name())
	}
	r.fields.set(name, value)
	return nil
}

// SetFields sets several top-level fields. Every name is checked before any
// is applied, so a failure leaves the request unchanged.
func (r *Request) SetFields(fields map[string]string) error {
	names := sortedKeys(fields)
	if r.validate {
		for _, name := range names {
			if !r.api.registry.IsRecognized(name) {
				return nvperrors.NewUnknownFieldError(strings.ToLower(name), r.api.registry.Name())
			}
		}
	}
	for _, name := range names {
		r.fields.set(strings.ToLower(name), fields[name])
	}
	return nil
}

// UnsetField removes a top-level field. Missing fields are ignored.
func (r *Request) UnsetField(name string) {
	r.fields.unset(strings.ToLower(name))
}

// Field returns the current value of a top-level field
func (r *Request) Field(name string) (string, bool) {
	return r.fields.get(strings.ToLower(name))
}

// SetCustomField sets a field that is sent verbatim: no validation, no upper-casing
func (r *Request) SetCustomField(name, value string) {
	r.customFields.set(name, value)
}

// AddShippingAddress validates and stores a ship-to address.
// Returns *errors.ValidationError when a length limit is exceeded.
func (r *Request) AddShippingAddress(address ShippingAddress) error {
	values, err := address.fields(r.api.countryField)
	if err != nil {
		return err
	}

	target := r.fields
	if r.api.paymentRequestBucket {
		target = r.paymentFields
	}
	target.unset("shiptostreet2")
	target.unset("shiptophonenum")
	for _, nv := range values {
		target.set(nv.name, nv.value)
	}

	if r.api.addressOverride {
		return r.SetField("addroverride", "1")
	}
	return nil
}

// Order carries the order totals. Empty values are not sent.
type Order struct {
	ItemAmount     string
	ShippingAmount string
	TaxAmount      string
	InvoiceNumber  string
}

// AddOrder merges the non-empty order totals into the request
func (r *Request) AddOrder(order Order) {
	target := r.fields
	if r.api.paymentRequestBucket {
		target = r.paymentFields
	}
	for _, nv := range []namedValue{
		{"itemamt", order.ItemAmount},
		{"shippingamt", order.ShippingAmount},
		{"taxamt", order.TaxAmount},
		{"invnum", order.InvoiceNumber},
	} {
		if nv.value != "" {
			target.set(nv.name, nv.value)
		}
	}
}

// setNonEmpty sets each field with a non-empty value through SetField
func (r *Request) setNonEmpty(values []namedValue) error {
	for _, nv := range values {
		if nv.value == "" {
			continue
		}
		if err := r.SetField(nv.name, nv.value); err != nil {
			return err
		}
	}
	return nil
}

func sortedKeys(m map[string]string) []string {
	return slices.Sorted(maps.Keys(m))
}

// Encode serializes the request into the NVP wire format:
// top-level fields and credentials, line items, payment request fields,
// shipping options, then custom fields.
func (r *Request) Encode() string {
	var b strings.Builder
	write := func(key, value string) {
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(key)
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(value))
	}

	r.fields.each(func(key, value string) {
		write(strings.ToUpper(key), value)
	})
	if method, _ := r.fields.get("method"); method != MethodCallbackResponse {
		write("USER", r.credentials.Username)
		write("PWD", r.credentials.Password)
		write("SIGNATURE", r.credentials.Signature)
	}

	for i, item := range r.lineItems {
		index := strconv.Itoa(i)
		for _, nv := range item.values() {
			write(lineItemPrefix+strings.ToUpper(nv.name)+index, nv.value)
		}
	}

	r.paymentFields.each(func(key, value string) {
		write(paymentFieldPrefix+strings.ToUpper(key), value)
	})

	for i, option := range r.shippingOptions {
		index := strconv.Itoa(i)
		for _, nv := range option.values() {
			write(shippingOptionPrefix+strings.ToUpper(nv.name)+index, nv.value)
		}
	}

	r.customFields.each(write)

	return b.String()
}
