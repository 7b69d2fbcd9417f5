package paypal

import (
	"errors"
	"net/url"
	"strings"
	"testing"

	nvperrors "github.com/kevin07696/paypal-nvp/pkg/errors"
	"github.com/kevin07696/paypal-nvp/test/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testCredentials = Credentials{Username: "user", Password: "pwd", Signature: "sig"}

func newTestExpressCheckoutClient(transport *mocks.MockNVPTransport) *ExpressCheckoutClient {
	return NewExpressCheckoutClient(Config{Credentials: testCredentials, Sandbox: true}, transport, zap.NewNop())
}

func newTestClassicClient(transport *mocks.MockNVPTransport) *ClassicClient {
	return NewClassicClient(Config{Credentials: testCredentials, Sandbox: true}, transport, zap.NewNop())
}

func TestSetField_RoundTripsValues(t *testing.T) {
	names := []string{"returnurl", "token", "noshipping", "PaymentRequest_0_Desc", "l_surveychoice2", "l_paymentrequest_0_name3"}
	values := []string{"", "plain", "a&b=c", "100% + tax", "ümlaut", "line\nbreak", "slash/and?query#frag"}

	for _, name := range names {
		for _, value := range values {
			req := newTestExpressCheckoutClient(nil).NewRequest()
			require.NoError(t, req.SetField(name, value))

			decoded, err := url.ParseQuery(req.Encode())
			require.NoError(t, err)
			assert.Equal(t, []string{value}, decoded[strings.ToUpper(name)], "field %s", name)
		}
	}
}

func TestSetField_UnknownField(t *testing.T) {
	req := newTestExpressCheckoutClient(nil).NewRequest()

	for _, name := range []string{"bogus", "authorizationid", "paymentrequest_x_amt", "l_shippingoptionname"} {
		err := req.SetField(name, "v")
		require.Error(t, err, name)
		assert.True(t, errors.Is(err, nvperrors.ErrUnknownField))

		var unknown *nvperrors.UnknownFieldError
		require.True(t, errors.As(err, &unknown))
		assert.Equal(t, strings.ToLower(name), unknown.Field)
		assert.Equal(t, "ExpressCheckout", unknown.Registry)
	}

	_, ok := req.Field("bogus")
	assert.False(t, ok, "a rejected field is not stored")
}

func TestSetField_SkipValidation(t *testing.T) {
	req := newTestClassicClient(nil).NewRequest()
	req.SkipValidation(true)

	require.NoError(t, req.SetField("anything_goes", "1"))
	assert.Contains(t, req.Encode(), "ANYTHING_GOES=1")

	req.SkipValidation(false)
	assert.ErrorIs(t, req.SetField("still_bogus", "1"), nvperrors.ErrUnknownField)
}

func TestSetFields_IsAtomic(t *testing.T) {
	req := newTestExpressCheckoutClient(nil).NewRequest()

	err := req.SetFields(map[string]string{
		"returnurl": "https://shop.example.com/return",
		"cancelurl": "https://shop.example.com/cancel",
		"bogus":     "x",
	})
	require.ErrorIs(t, err, nvperrors.ErrUnknownField)

	_, ok := req.Field("returnurl")
	assert.False(t, ok, "no field is applied when one is rejected")

	require.NoError(t, req.SetFields(map[string]string{
		"ReturnURL": "r",
		"cancelurl": "c",
	}))
	// Applied in sorted key order
	assert.Equal(t, "VERSION=104&RETURNURL=r&CANCELURL=c&USER=user&PWD=pwd&SIGNATURE=sig", req.Encode())
}

func TestSetField_OverwriteKeepsPosition(t *testing.T) {
	req := newTestExpressCheckoutClient(nil).NewRequest()
	require.NoError(t, req.SetField("returnurl", "a"))
	require.NoError(t, req.SetField("cancelurl", "b"))
	require.NoError(t, req.SetField("RETURNURL", "c"))

	assert.Equal(t, "VERSION=104&RETURNURL=c&CANCELURL=b&USER=user&PWD=pwd&SIGNATURE=sig", req.Encode())
}

func TestUnsetField(t *testing.T) {
	req := newTestExpressCheckoutClient(nil).NewRequest()
	require.NoError(t, req.SetField("token", "EC-1"))

	req.UnsetField("TOKEN")
	req.UnsetField("never_set")

	_, ok := req.Field("token")
	assert.False(t, ok)
	assert.NotContains(t, req.Encode(), "TOKEN")
}

func TestEncode_BucketOrder(t *testing.T) {
	req := newTestExpressCheckoutClient(nil).NewRequest()
	require.NoError(t, req.SetField("returnurl", "https://shop.example.com/return"))
	req.AddLineItem(LineItem{
		Number:      "SKU1",
		Name:        "Widget",
		Description: "Blue widget",
		Quantity:    2,
		Amount:      "5.00",
		TaxAmount:   "0.50",
	})
	require.NoError(t, req.SetPaymentField("amt", "11.00"))
	require.NoError(t, req.AddShippingOption(ShippingOption{Name: "Ground", Label: "Ground", Amount: "0.00", IsDefault: true}))
	req.SetCustomField("x_Custom", "a b")

	want := "VERSION=104&RETURNURL=https%3A%2F%2Fshop.example.com%2Freturn" +
		"&USER=user&PWD=pwd&SIGNATURE=sig" +
		"&L_PAYMENTREQUEST_0_NUMBER0=SKU1&L_PAYMENTREQUEST_0_NAME0=Widget&L_PAYMENTREQUEST_0_DESC0=Blue+widget" +
		"&L_PAYMENTREQUEST_0_QTY0=2&L_PAYMENTREQUEST_0_AMT0=5.00&L_PAYMENTREQUEST_0_TAXAMT0=0.50" +
		"&L_PAYMENTREQUEST_0_ITEMCATEGORY0=Physical" +
		"&PAYMENTREQUEST_0_AMT=11.00" +
		"&L_SHIPPINGOPTIONNAME0=Ground&L_SHIPPINGOPTIONLABEL0=Ground&L_SHIPPINGOPTIONAMOUNT0=0.00&L_SHIPPINGOPTIONISDEFAULT0=true" +
		"&x_Custom=a+b"
	assert.Equal(t, want, req.Encode())
}

func TestEncode_LineItemIndexes(t *testing.T) {
	req := newTestExpressCheckoutClient(nil).NewRequest()
	req.AddLineItem(LineItem{Number: "A", Quantity: 1, ItemURL: "https://shop.example.com/a", Category: "Digital"})
	req.AddLineItem(LineItem{Number: "B", Quantity: 3})

	decoded, err := url.ParseQuery(req.Encode())
	require.NoError(t, err)

	assert.Equal(t, "A", decoded.Get("L_PAYMENTREQUEST_0_NUMBER0"))
	assert.Equal(t, "https://shop.example.com/a", decoded.Get("L_PAYMENTREQUEST_0_ITEMURL0"))
	assert.Equal(t, "Digital", decoded.Get("L_PAYMENTREQUEST_0_ITEMCATEGORY0"))
	assert.Equal(t, "B", decoded.Get("L_PAYMENTREQUEST_0_NUMBER1"))
	assert.Equal(t, "3", decoded.Get("L_PAYMENTREQUEST_0_QTY1"))
	assert.Equal(t, "Physical", decoded.Get("L_PAYMENTREQUEST_0_ITEMCATEGORY1"))
	assert.NotContains(t, decoded, "L_PAYMENTREQUEST_0_ITEMURL1", "empty item URL is omitted")
}

func TestEncode_NoTrailingSeparator(t *testing.T) {
	req := newTestExpressCheckoutClient(nil).NewRequest()
	encoded := req.Encode()

	assert.False(t, strings.HasSuffix(encoded, "&"))
	assert.False(t, strings.HasPrefix(encoded, "&"))
	assert.NotContains(t, encoded, "&&")
}

func TestAddOrder(t *testing.T) {
	t.Run("express checkout uses payment fields", func(t *testing.T) {
		req := newTestExpressCheckoutClient(nil).NewRequest()
		req.AddOrder(Order{ItemAmount: "10.00", TaxAmount: "0.80", InvoiceNumber: "INV-1"})

		assert.Equal(t, "VERSION=104&USER=user&PWD=pwd&SIGNATURE=sig"+
			"&PAYMENTREQUEST_0_ITEMAMT=10.00&PAYMENTREQUEST_0_TAXAMT=0.80&PAYMENTREQUEST_0_INVNUM=INV-1",
			req.Encode())
	})

	t.Run("classic uses top-level fields", func(t *testing.T) {
		req := newTestClassicClient(nil).NewRequest()
		req.AddOrder(Order{ShippingAmount: "4.00"})

		assert.Equal(t, "VERSION=104&SHIPPINGAMT=4.00&USER=user&PWD=pwd&SIGNATURE=sig", req.Encode())
	})
}

func TestCallbackResponse(t *testing.T) {
	t.Run("no shipping options", func(t *testing.T) {
		req := newTestExpressCheckoutClient(nil).NewRequest()
		encoded := req.CallbackResponse()

		assert.Contains(t, encoded, "NO_SHIPPING_OPTION_DETAILS=1")
		assert.NotContains(t, encoded, "L_SHIPPINGOPTIONNAME")
		assert.NotContains(t, encoded, "VERSION=")
		assert.NotContains(t, encoded, "USER=")
		assert.NotContains(t, encoded, "PWD=")
		assert.NotContains(t, encoded, "SIGNATURE=")
		assert.Equal(t, "METHOD=CallbackResponse&NO_SHIPPING_OPTION_DETAILS=1&CURRENCYCODE=USD", encoded)
	})

	t.Run("shipping options in insertion order", func(t *testing.T) {
		req := newTestExpressCheckoutClient(nil).NewRequest()
		require.NoError(t, req.SetField("currencycode", "GBP"))
		for _, name := range []string{"Ground", "Express", "Overnight"} {
			require.NoError(t, req.AddShippingOption(ShippingOption{Name: name, Label: name, Amount: "1.00"}))
		}

		encoded := req.CallbackResponse()
		assert.NotContains(t, encoded, "NO_SHIPPING_OPTION_DETAILS")
		assert.Contains(t, encoded, "CURRENCYCODE=GBP")

		decoded, err := url.ParseQuery(encoded)
		require.NoError(t, err)
		assert.Equal(t, "Ground", decoded.Get("L_SHIPPINGOPTIONNAME0"))
		assert.Equal(t, "Express", decoded.Get("L_SHIPPINGOPTIONNAME1"))
		assert.Equal(t, "Overnight", decoded.Get("L_SHIPPINGOPTIONNAME2"))
		assert.NotContains(t, decoded, "L_SHIPPINGOPTIONNAME3")
		assert.Equal(t, "false", decoded.Get("L_SHIPPINGOPTIONISDEFAULT0"))
	})

	t.Run("rebuilding after adding an option drops the no-options flag", func(t *testing.T) {
		req := newTestExpressCheckoutClient(nil).NewRequest()
		assert.Contains(t, req.CallbackResponse(), "NO_SHIPPING_OPTION_DETAILS=1")

		require.NoError(t, req.AddShippingOption(ShippingOption{Name: "Ground", Label: "Ground", Amount: "1.00"}))
		assert.NotContains(t, req.CallbackResponse(), "NO_SHIPPING_OPTION_DETAILS")
	})
}
