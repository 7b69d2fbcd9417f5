package paypal

import (
	"context"
	"errors"
	"strings"
	"testing"

	nvperrors "github.com/kevin07696/paypal-nvp/pkg/errors"
	"github.com/kevin07696/paypal-nvp/test/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const setExpressCheckoutSuccess = "TOKEN=EC-8PL12345AB678901C&TIMESTAMP=2026%2d10%2d18T10%3a00%3a00Z&CORRELATIONID=5f1a2b3c4d5e6&ACK=Success&VERSION=104&BUILD=55555"

func TestSetExpressCheckout_WithCallback(t *testing.T) {
	transport := mocks.NewMockNVPTransport(setExpressCheckoutSuccess)
	req := newTestExpressCheckoutClient(transport).NewRequest()

	resp, err := req.SetExpressCheckout(context.Background(), SetExpressCheckoutParams{
		Amount:      "19.95",
		ReturnURL:   "https://shop.example/return",
		CancelURL:   "https://shop.example/cancel",
		CallbackURL: "https://shop.example/callback",
		MaxAmount:   "25.00",
	})
	require.NoError(t, err)
	require.NotNil(t, resp)

	call, ok := transport.LastCall()
	require.True(t, ok)
	assert.Equal(t, SandboxURL, call.Endpoint)
	assert.Equal(t, "VERSION=104"+
		"&RETURNURL=https%3A%2F%2Fshop.example%2Freturn"+
		"&CANCELURL=https%3A%2F%2Fshop.example%2Fcancel"+
		"&CALLBACK=https%3A%2F%2Fshop.example%2Fcallback"+
		"&CALLBACKVERSION=104&CALLBACKTIMEOUT=6"+
		"&L_SHIPPINGOPTIONISDEFAULT0=1&L_SHIPPINGOPTIONNAME0=Unable+to+ship&L_SHIPPINGOPTIONAMOUNT0=0"+
		"&MAXAMT=25.00&METHOD=SetExpressCheckout"+
		"&USER=user&PWD=pwd&SIGNATURE=sig"+
		"&PAYMENTREQUEST_0_AMT=19.95",
		call.Body)

	assert.True(t, resp.IsSuccess())
	assert.Equal(t, "EC-8PL12345AB678901C", resp.Token())
	assert.Equal(t, "5f1a2b3c4d5e6", resp.CorrelationID)
	assert.Equal(t, "2026-10-18T10:00:00Z", resp.Timestamp)
	assert.Equal(t, "104", resp.Version())
	assert.Equal(t, "55555", resp.Build())
}

func TestSetExpressCheckout_WithoutCallback(t *testing.T) {
	transport := mocks.NewMockNVPTransport(setExpressCheckoutSuccess)
	req := newTestExpressCheckoutClient(transport).NewRequest()

	_, err := req.SetExpressCheckout(context.Background(), SetExpressCheckoutParams{
		Amount:    "10.00",
		ReturnURL: "r",
		CancelURL: "c",
		MaxAmount: "25.00",
	})
	require.NoError(t, err)

	call, _ := transport.LastCall()
	assert.Equal(t, "VERSION=104&RETURNURL=r&CANCELURL=c&METHOD=SetExpressCheckout&USER=user&PWD=pwd&SIGNATURE=sig&PAYMENTREQUEST_0_AMT=10.00", call.Body)
	assert.NotContains(t, call.Body, "MAXAMT", "max amount only travels with a callback")
}

func TestSetExpressCheckout_FallbackOnlyWithoutOptions(t *testing.T) {
	transport := mocks.NewMockNVPTransport(setExpressCheckoutSuccess)
	req := newTestExpressCheckoutClient(transport).NewRequest()
	require.NoError(t, req.AddShippingOption(ShippingOption{
		Name:      "Ground",
		Label:     "3-5 days",
		Amount:    "5.00",
		IsDefault: true,
	}))

	_, err := req.SetExpressCheckout(context.Background(), SetExpressCheckoutParams{
		ReturnURL:   "r",
		CancelURL:   "c",
		CallbackURL: "cb",
	})
	require.NoError(t, err)

	call, _ := transport.LastCall()
	assert.NotContains(t, call.Body, "Unable+to+ship")
	assert.Equal(t, 1, strings.Count(call.Body, "L_SHIPPINGOPTIONISDEFAULT0="))
	assert.True(t, strings.HasSuffix(call.Body,
		"&L_SHIPPINGOPTIONNAME0=Ground&L_SHIPPINGOPTIONLABEL0=3-5+days&L_SHIPPINGOPTIONAMOUNT0=5.00&L_SHIPPINGOPTIONISDEFAULT0=true"),
		call.Body)
}

func TestGetExpressCheckoutDetails(t *testing.T) {
	transport := mocks.NewMockNVPTransport("ACK=Success&TOKEN=EC-1&PAYERID=PAYER1&EMAIL=buyer%40example.com&PAYMENTREQUEST_0_AMT=19.95")
	req := newTestExpressCheckoutClient(transport).NewRequest()

	resp, err := req.GetExpressCheckoutDetails(context.Background(), "EC-1")
	require.NoError(t, err)

	call, _ := transport.LastCall()
	assert.Equal(t, "VERSION=104&TOKEN=EC-1&METHOD=GetExpressCheckoutDetails&USER=user&PWD=pwd&SIGNATURE=sig", call.Body)
	assert.Equal(t, "PAYER1", resp.Get("PayerID"))
	assert.Equal(t, "buyer@example.com", resp.Get("email"))

	amount, err := resp.Decimal("PAYMENTREQUEST_0_AMT")
	require.NoError(t, err)
	assert.Equal(t, "19.95", amount.StringFixed(2))
}

func TestDoExpressCheckoutPayment(t *testing.T) {
	transport := mocks.NewMockNVPTransport("ACK=Success&PAYMENTINFO_0_TRANSACTIONID=8AB12345CD678901E&PAYMENTINFO_0_PAYMENTSTATUS=Completed")
	req := newTestExpressCheckoutClient(transport).NewRequest()
	require.NoError(t, req.SetPaymentFields(map[string]string{"amt": "19.95", "currencycode": "USD", "paymentaction": "Sale"}))

	resp, err := req.DoExpressCheckoutPayment(context.Background(), "EC-1", "PAYER1")
	require.NoError(t, err)

	call, _ := transport.LastCall()
	assert.Equal(t, "VERSION=104&TOKEN=EC-1&PAYERID=PAYER1&METHOD=DoExpressCheckoutPayment&USER=user&PWD=pwd&SIGNATURE=sig"+
		"&PAYMENTREQUEST_0_AMT=19.95&PAYMENTREQUEST_0_CURRENCYCODE=USD&PAYMENTREQUEST_0_PAYMENTACTION=Sale",
		call.Body)
	assert.Equal(t, "Completed", resp.Get("paymentinfo_0_paymentstatus"))
}

func TestSend_TransportErrorYieldsConnectionFailure(t *testing.T) {
	transport := &mocks.MockNVPTransport{
		PostFunc: func(ctx context.Context, endpoint, body string) ([]byte, error) {
			return nil, errors.New("dial tcp: connection refused")
		},
	}
	req := newTestExpressCheckoutClient(transport).NewRequest()

	resp, err := req.GetExpressCheckoutDetails(context.Background(), "EC-1")
	require.NoError(t, err)

	assert.Equal(t, AckFailure, resp.Status)
	assert.False(t, resp.IsSuccess())
	assert.Equal(t, map[int]Message{0: {
		ErrorCode:    "0",
		ShortMessage: "Error connecting to PayPal",
		LongMessage:  "Error connecting to PayPal",
	}}, resp.Errors)
	assert.Empty(t, resp.Warnings)
}

func TestSend_LogsWithoutCredentials(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	transport := mocks.NewMockNVPTransport("ACK=Failure&L_ERRORCODE0=10411&L_SHORTMESSAGE0=Expired&L_SEVERITYCODE0=Error")
	client := NewExpressCheckoutClient(Config{Credentials: testCredentials}, transport, zap.New(core))

	_, err := client.NewRequest().GetExpressCheckoutDetails(context.Background(), "EC-1")
	require.NoError(t, err)

	require.Equal(t, 1, logs.FilterMessage("Sending PayPal NVP request").Len())
	failed := logs.FilterMessage("PayPal NVP request failed").All()
	require.Len(t, failed, 1)

	fields := failed[0].ContextMap()
	assert.Equal(t, "express_checkout", fields["api"])
	assert.Equal(t, "GetExpressCheckoutDetails", fields["method"])
	assert.Equal(t, "10411", fields["error_code"])

	for _, entry := range logs.All() {
		for _, value := range entry.ContextMap() {
			if s, ok := value.(string); ok {
				assert.NotContains(t, s, "pwd")
				assert.NotContains(t, s, "sig")
			}
		}
	}
}

func TestEndpoint(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{"sandbox", Config{Sandbox: true}, SandboxURL},
		{"live", Config{}, LiveURL},
		{"override wins", Config{Sandbox: true, Endpoint: "http://127.0.0.1:9999/nvp"}, "http://127.0.0.1:9999/nvp"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transport := mocks.NewMockNVPTransport("ACK=Success")
			express := NewExpressCheckoutClient(tt.cfg, transport, nil)
			classic := NewClassicClient(tt.cfg, transport, nil)

			assert.Equal(t, tt.want, express.Endpoint())
			assert.Equal(t, tt.want, classic.Endpoint())

			_, err := express.NewRequest().GetExpressCheckoutDetails(context.Background(), "EC-1")
			require.NoError(t, err)
			call, _ := transport.LastCall()
			assert.Equal(t, tt.want, call.Endpoint)
		})
	}
}

func TestLoginURL(t *testing.T) {
	sandbox := NewExpressCheckoutClient(Config{Sandbox: true}, nil, nil)
	live := NewExpressCheckoutClient(Config{}, nil, nil)

	assert.Equal(t, "https://www.sandbox.paypal.com/cgi-bin/webscr?cmd=_express-checkout&token=EC-1", sandbox.LoginURL("EC-1"))
	assert.Equal(t, "https://www.paypal.com/cgi-bin/webscr?cmd=_express-checkout&token=EC-1", live.LoginURL("EC-1"))
	assert.Equal(t, "https://www.paypal.com/cgi-bin/webscr?cmd=_express-checkout&token=a%26b", live.LoginURL("a&b"))
}

func TestAddShippingOption_Limits(t *testing.T) {
	tests := []struct {
		name      string
		option    ShippingOption
		wantField string
	}{
		{"name at limit", ShippingOption{Name: strings.Repeat("n", 50)}, ""},
		{"label at limit", ShippingOption{Label: strings.Repeat("l", 50)}, ""},
		{"multibyte name at limit", ShippingOption{Name: strings.Repeat("ü", 50)}, ""},
		{"name over limit", ShippingOption{Name: strings.Repeat("n", 51)}, "shippingoptionname"},
		{"label over limit", ShippingOption{Label: strings.Repeat("l", 51)}, "shippingoptionlabel"},
		{"multibyte label over limit", ShippingOption{Label: strings.Repeat("ü", 51)}, "shippingoptionlabel"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := newTestExpressCheckoutClient(nil).NewRequest()
			err := req.AddShippingOption(tt.option)

			if tt.wantField == "" {
				require.NoError(t, err)
				assert.Contains(t, req.Encode(), "L_SHIPPINGOPTIONNAME0=")
				return
			}

			var validationErr *nvperrors.ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, tt.wantField, validationErr.Field)
			assert.NotContains(t, req.Encode(), "L_SHIPPINGOPTION", "rejected option is not stored")
		})
	}
}

func TestShippingOption_TaxAmount(t *testing.T) {
	req := newTestExpressCheckoutClient(nil).NewRequest()
	require.NoError(t, req.AddShippingOption(ShippingOption{Name: "Ground", Amount: "5.00"}))
	require.NoError(t, req.AddShippingOption(ShippingOption{Name: "Air", Amount: "9.00", TaxAmount: "0.72"}))

	encoded := req.CallbackResponse()
	assert.Contains(t, encoded, "L_SHIPPINGOPTIONISDEFAULT0=false&L_SHIPPINGOPTIONNAME1=Air")
	assert.True(t, strings.HasSuffix(encoded, "L_SHIPPINGOPTIONISDEFAULT1=false&L_TAXAMT1=0.72"), encoded)
	assert.NotContains(t, encoded, "L_TAXAMT0")
}

func TestSetPaymentField(t *testing.T) {
	t.Run("unknown payment field", func(t *testing.T) {
		req := newTestExpressCheckoutClient(nil).NewRequest()
		err := req.SetPaymentField("bogus", "1")
		assert.ErrorIs(t, err, nvperrors.ErrUnknownField)
		_, ok := req.PaymentField("bogus")
		assert.False(t, ok)
	})

	t.Run("skip validation", func(t *testing.T) {
		req := newTestExpressCheckoutClient(nil).NewRequest()
		req.SkipValidation(true)
		require.NoError(t, req.SetPaymentField("bogus", "1"))
		assert.Contains(t, req.Encode(), "PAYMENTREQUEST_0_BOGUS=1")
	})

	t.Run("case insensitive", func(t *testing.T) {
		req := newTestExpressCheckoutClient(nil).NewRequest()
		require.NoError(t, req.SetPaymentField("ShipToName", "Jane"))
		v, ok := req.PaymentField("shiptoname")
		assert.True(t, ok)
		assert.Equal(t, "Jane", v)
	})

	t.Run("set many is all or nothing", func(t *testing.T) {
		req := newTestExpressCheckoutClient(nil).NewRequest()
		err := req.SetPaymentFields(map[string]string{"amt": "1.00", "bogus": "x"})
		assert.ErrorIs(t, err, nvperrors.ErrUnknownField)
		_, ok := req.PaymentField("amt")
		assert.False(t, ok)
	})

	t.Run("unset", func(t *testing.T) {
		req := newTestExpressCheckoutClient(nil).NewRequest()
		require.NoError(t, req.SetPaymentField("amt", "1.00"))
		req.UnsetPaymentField("AMT")
		req.UnsetPaymentField("desc")
		assert.NotContains(t, req.Encode(), "PAYMENTREQUEST_0_")
	})
}
