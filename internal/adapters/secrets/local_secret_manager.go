package secrets

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kevin07696/paypal-nvp/internal/adapters/ports"
	"go.uber.org/zap"
)

// localSecretManager implements SecretManagerAdapter using local filesystem
// WARNING: This is for development only. Use AWS Secrets Manager or Vault in production.
type localSecretManager struct {
	basePath string
	logger   *zap.Logger
}

// NewLocalSecretManager creates a new local filesystem secret manager.
// Paths are resolved relative to basePath; an empty basePath uses them as given.
func NewLocalSecretManager(basePath string, logger *zap.Logger) ports.SecretManagerAdapter {
	return &localSecretManager{
		basePath: basePath,
		logger:   logger,
	}
}

// GetSecret reads the whole file as the secret value
func (m *localSecretManager) GetSecret(ctx context.Context, secretPath string) (*ports.Secret, error) {
	filePath := filepath.Join(m.basePath, secretPath)

	m.logger.Debug("Reading secret from filesystem",
		zap.String("path", filePath),
	)

	info, err := os.Stat(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("secret not found: %s", secretPath)
		}
		return nil, fmt.Errorf("failed to stat secret: %w", err)
	}
	if info.Mode().Perm()&0o077 != 0 {
		m.logger.Warn("Secret file is readable by group or others",
			zap.String("path", filePath),
			zap.String("mode", info.Mode().Perm().String()),
		)
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read secret: %w", err)
	}

	return &ports.Secret{
		Value:     string(data),
		Version:   "v1",
		CreatedAt: info.ModTime().UTC().Format("2006-01-02T15:04:05Z"),
	}, nil
}
