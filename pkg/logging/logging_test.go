package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "production info", cfg: Config{Level: "info"}},
		{name: "development debug", cfg: Config{Level: "debug", Development: true}},
		{name: "invalid level", cfg: Config{Level: "loud"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, logger)
		})
	}
}

func TestNewDiagnosticSink_Disabled(t *testing.T) {
	logger, closeFn, err := NewDiagnosticSink("")
	require.NoError(t, err)
	assert.NoError(t, closeFn())

	// Nop logger accepts writes
	logger.Info("ignored")
}

func TestNewDiagnosticSink_Appends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "paypal.log")

	for i := 0; i < 2; i++ {
		logger, closeFn, err := NewDiagnosticSink(path)
		require.NoError(t, err)
		logger.Info("PayPal response", zap.String("body", "ACK=Success"))
		require.NoError(t, logger.Sync())
		require.NoError(t, closeFn())
	}

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Len(t, lines, 2)
	assert.Contains(t, lines[1], `"body":"ACK=Success"`)
}
