package observability

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name       string
		check      HealthCheck
		wantCode   int
		wantStatus string
	}{
		{"healthy", func(ctx context.Context) error { return nil }, http.StatusOK, "healthy"},
		{"unhealthy", func(ctx context.Context) error { return errors.New("circuit open") }, http.StatusServiceUnavailable, "unhealthy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := NewHealthChecker()
			checker.Register("paypal_gateway", tt.check)

			mux := http.NewServeMux()
			RegisterHandlers(mux, checker)

			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var status HealthStatus
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
			assert.Equal(t, tt.wantStatus, status.Status)
			assert.Contains(t, status.Checks["paypal_gateway"], tt.wantStatus)
		})
	}
}

func TestRegisterHandlers_ReadyAndMetrics(t *testing.T) {
	mux := http.NewServeMux()
	RegisterHandlers(mux, nil)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ready", rec.Body.String())

	RecordNVPRequest("classic", "DoVoid", "Success", 120*time.Millisecond)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `paypal_nvp_requests_total{ack="Success",api="classic",method="DoVoid"}`)
}

func TestRecordMetrics(t *testing.T) {
	before := testutil.ToFloat64(callbacksTotal.WithLabelValues("rejected"))
	RecordCallback("rejected")
	assert.Equal(t, before+1, testutil.ToFloat64(callbacksTotal.WithLabelValues("rejected")))

	before = testutil.ToFloat64(nvpRequestsTotal.WithLabelValues("express_checkout", "SetExpressCheckout", "unknown"))
	RecordNVPRequest("express_checkout", "SetExpressCheckout", "", time.Second)
	assert.Equal(t, before+1, testutil.ToFloat64(nvpRequestsTotal.WithLabelValues("express_checkout", "SetExpressCheckout", "unknown")))

	before = testutil.ToFloat64(nvpTransportErrorsTotal.WithLabelValues("classic", "DoCapture"))
	RecordNVPTransportError("classic", "DoCapture")
	assert.Equal(t, before+1, testutil.ToFloat64(nvpTransportErrorsTotal.WithLabelValues("classic", "DoCapture")))
}
