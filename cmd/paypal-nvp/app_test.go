package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/kevin07696/paypal-nvp/internal/adapters/paypal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "", want: ""},
		{in: "10", want: "10.00"},
		{in: "19.9", want: "19.90"},
		{in: "0.005", want: "0.01"},
		{in: "-1", wantErr: true},
		{in: "ten", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseAmount("amount", tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPrintResponse_Text(t *testing.T) {
	resp := paypal.ParseResponse("ACK=Failure&CORRELATIONID=abc&TOKEN=EC-1" +
		"&L_ERRORCODE0=10410&L_SHORTMESSAGE0=Invalid+token&L_LONGMESSAGE0=Invalid+token.&L_SEVERITYCODE0=Error")

	var buf bytes.Buffer
	require.NoError(t, printResponse(&buf, resp, false))

	out := buf.String()
	assert.Contains(t, out, "ACK:            Failure\n")
	assert.Contains(t, out, "Correlation ID: abc\n")
	assert.Contains(t, out, "Errors:\n  [10410] Invalid token (Invalid token.)\n")
	assert.NotContains(t, out, "Warnings:")
	assert.Contains(t, out, "token")
}

func TestPrintResponse_JSON(t *testing.T) {
	resp := paypal.ParseResponse("ACK=SuccessWithWarning&TOKEN=EC-1&L_ERRORCODE0=11607&L_SHORTMESSAGE0=Duplicate")

	var buf bytes.Buffer
	require.NoError(t, printResponse(&buf, resp, true))

	var out responseOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, "SuccessWithWarning", out.Ack)
	assert.Empty(t, out.Errors)
	require.Len(t, out.Warnings, 1)
	assert.Equal(t, "11607", out.Warnings[0].ErrorCode)
	assert.Equal(t, "EC-1", out.Fields["token"])
}
