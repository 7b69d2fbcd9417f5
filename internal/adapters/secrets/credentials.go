package secrets

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kevin07696/paypal-nvp/internal/adapters/paypal"
	"github.com/kevin07696/paypal-nvp/internal/adapters/ports"
	"github.com/kevin07696/paypal-nvp/internal/config"
	"go.uber.org/zap"
)

// credentialDocument is the JSON layout of a stored credential secret
type credentialDocument struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	Signature string `json:"signature"`
}

// ParseCredentials decodes a {"username","password","signature"} secret
func ParseCredentials(secret *ports.Secret) (paypal.Credentials, error) {
	var doc credentialDocument
	if err := json.Unmarshal([]byte(strings.TrimSpace(secret.Value)), &doc); err != nil {
		return paypal.Credentials{}, fmt.Errorf("failed to decode credential secret: %w", err)
	}

	var missing []string
	if doc.Username == "" {
		missing = append(missing, "username")
	}
	if doc.Password == "" {
		missing = append(missing, "password")
	}
	if doc.Signature == "" {
		missing = append(missing, "signature")
	}
	if len(missing) > 0 {
		return paypal.Credentials{}, fmt.Errorf("credential secret is missing %s", strings.Join(missing, ", "))
	}

	return paypal.Credentials{
		Username:  doc.Username,
		Password:  doc.Password,
		Signature: doc.Signature,
	}, nil
}

// NewSecretManager selects the adapter for the configured backend.
// Returns nil for the env backend, which needs no secret store.
func NewSecretManager(ctx context.Context, cfg config.SecretsConfig, logger *zap.Logger) (ports.SecretManagerAdapter, error) {
	switch cfg.Backend {
	case config.SecretsBackendEnv:
		return nil, nil

	case config.SecretsBackendFile:
		logger.Warn("Using local file credentials - NOT FOR PRODUCTION")
		return NewLocalSecretManager("", logger), nil

	case config.SecretsBackendAWS:
		awsCfg := DefaultAWSSecretsManagerConfig(cfg.AWSRegion)
		awsCfg.Profile = cfg.AWSProfile
		awsCfg.Endpoint = cfg.AWSEndpoint
		return NewAWSSecretsManagerAdapter(ctx, awsCfg, logger)

	case config.SecretsBackendVault:
		vaultCfg := DefaultVaultConfig(cfg.VaultAddress)
		vaultCfg.Token = cfg.VaultToken
		vaultCfg.Namespace = cfg.VaultNamespace
		vaultCfg.MountPath = cfg.VaultMount
		if cfg.VaultRoleID != "" {
			vaultCfg.AuthMethod = "approle"
			vaultCfg.RoleID = cfg.VaultRoleID
			vaultCfg.SecretID = cfg.VaultSecretID
		}
		return NewVaultAdapter(ctx, vaultCfg, logger)

	default:
		return nil, fmt.Errorf("unknown secrets backend: %s", cfg.Backend)
	}
}

// LoadCredentials returns the API credentials for cfg: straight from the
// environment for the env backend, otherwise from the configured secret store.
func LoadCredentials(ctx context.Context, cfg *config.Config, logger *zap.Logger) (paypal.Credentials, error) {
	if cfg.Secrets.Backend == config.SecretsBackendEnv {
		return paypal.Credentials{
			Username:  cfg.Credentials.Username,
			Password:  cfg.Credentials.Password,
			Signature: cfg.Credentials.Signature,
		}, nil
	}

	manager, err := NewSecretManager(ctx, cfg.Secrets, logger)
	if err != nil {
		return paypal.Credentials{}, fmt.Errorf("failed to initialize secret manager: %w", err)
	}
	return FetchCredentials(ctx, manager, cfg.Secrets.Path)
}

// FetchCredentials reads and decodes the credential secret at path
func FetchCredentials(ctx context.Context, manager ports.SecretManagerAdapter, path string) (paypal.Credentials, error) {
	secret, err := manager.GetSecret(ctx, path)
	if err != nil {
		return paypal.Credentials{}, err
	}
	return ParseCredentials(secret)
}
