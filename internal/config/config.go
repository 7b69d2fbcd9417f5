package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Secret backends
const (
	SecretsBackendEnv   = "env"
	SecretsBackendFile  = "file"
	SecretsBackendAWS   = "aws"
	SecretsBackendVault = "vault"
)

// Config holds all application configuration
type Config struct {
	Server      ServerConfig
	Gateway     GatewayConfig
	Credentials CredentialsConfig
	Secrets     SecretsConfig
	Logger      LoggerConfig
}

// ServerConfig holds callback server configuration
type ServerConfig struct {
	Port            int
	Host            string
	MetricsPort     int
	RateLimitPerSec float64 // Callback requests per second per client IP
	RateLimitBurst  int

	ShippingOptions string // Flat rate options, "Name:Amount[:Label],..."
	ShipCountries   string // Comma separated country codes served; empty serves all
}

// GatewayConfig holds PayPal NVP gateway configuration
type GatewayConfig struct {
	Sandbox    bool   // Use the sandbox endpoints
	Endpoint   string // Overrides the sandbox/live NVP URL
	VerifyPeer bool   // Verify the gateway certificate chain (host name is always verified)
	CAFile     string // Optional PEM bundle
	Timeout    int    // Request timeout in seconds (default: 45)
	LogFile    string // Diagnostic log of transport errors and raw responses; empty disables it
}

// CredentialsConfig holds API signature credentials read from the environment
type CredentialsConfig struct {
	Username  string
	Password  string
	Signature string
}

// SecretsConfig selects where credentials come from when not in the environment
type SecretsConfig struct {
	Backend string // env, file, aws, vault
	Path    string // Secret path/name, or file path for the file backend

	AWSRegion   string
	AWSProfile  string
	AWSEndpoint string // Custom endpoint (LocalStack)

	VaultAddress   string
	VaultToken     string
	VaultMount     string // KV v2 mount (default: secret)
	VaultNamespace string
	VaultRoleID    string
	VaultSecretID  string
}

// LoggerConfig holds logging configuration
type LoggerConfig struct {
	Level       string // debug, info, warn, error
	Development bool
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnvAsInt("SERVER_PORT", 8080),
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			MetricsPort:     getEnvAsInt("METRICS_PORT", 9090),
			RateLimitPerSec: getEnvAsFloat("CALLBACK_RATE_LIMIT", 20),
			RateLimitBurst:  getEnvAsInt("CALLBACK_RATE_BURST", 40),
			ShippingOptions: getEnv("CALLBACK_SHIPPING_OPTIONS", ""),
			ShipCountries:   getEnv("CALLBACK_SHIP_COUNTRIES", ""),
		},
		Gateway: GatewayConfig{
			Sandbox:    getEnvAsBool("PAYPAL_SANDBOX", true),
			Endpoint:   getEnv("PAYPAL_ENDPOINT", ""),
			VerifyPeer: getEnvAsBool("PAYPAL_VERIFY_PEER", true),
			CAFile:     getEnv("PAYPAL_CA_FILE", ""),
			Timeout:    getEnvAsInt("PAYPAL_TIMEOUT", 45),
			LogFile:    getEnv("PAYPAL_LOG_FILE", ""),
		},
		Credentials: CredentialsConfig{
			Username:  getEnv("PAYPAL_API_USERNAME", ""),
			Password:  getEnv("PAYPAL_API_PASSWORD", ""),
			Signature: getEnv("PAYPAL_API_SIGNATURE", ""),
		},
		Secrets: SecretsConfig{
			Backend:        getEnv("PAYPAL_SECRETS_BACKEND", SecretsBackendEnv),
			Path:           getEnv("PAYPAL_SECRET_PATH", ""),
			AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
			AWSProfile:     getEnv("AWS_PROFILE", ""),
			AWSEndpoint:    getEnv("AWS_ENDPOINT_URL", ""),
			VaultAddress:   getEnv("VAULT_ADDR", ""),
			VaultToken:     getEnv("VAULT_TOKEN", ""),
			VaultMount:     getEnv("VAULT_MOUNT", "secret"),
			VaultNamespace: getEnv("VAULT_NAMESPACE", ""),
			VaultRoleID:    getEnv("VAULT_ROLE_ID", ""),
			VaultSecretID:  getEnv("VAULT_SECRET_ID", ""),
		},
		Logger: LoggerConfig{
			Level:       getEnv("LOG_LEVEL", "info"),
			Development: getEnvAsBool("LOG_DEVELOPMENT", false),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks required fields for the selected secrets backend
func (c *Config) Validate() error {
	if c.Gateway.Timeout <= 0 {
		return fmt.Errorf("PAYPAL_TIMEOUT must be positive, got %d", c.Gateway.Timeout)
	}

	switch c.Secrets.Backend {
	case SecretsBackendEnv:
		if c.Credentials.Username == "" {
			return fmt.Errorf("PAYPAL_API_USERNAME is required")
		}
		if c.Credentials.Password == "" {
			return fmt.Errorf("PAYPAL_API_PASSWORD is required")
		}
		if c.Credentials.Signature == "" {
			return fmt.Errorf("PAYPAL_API_SIGNATURE is required")
		}
	case SecretsBackendFile, SecretsBackendAWS:
		if c.Secrets.Path == "" {
			return fmt.Errorf("PAYPAL_SECRET_PATH is required for the %s backend", c.Secrets.Backend)
		}
	case SecretsBackendVault:
		if c.Secrets.Path == "" {
			return fmt.Errorf("PAYPAL_SECRET_PATH is required for the vault backend")
		}
		if c.Secrets.VaultAddress == "" {
			return fmt.Errorf("VAULT_ADDR is required for the vault backend")
		}
	default:
		return fmt.Errorf("unknown PAYPAL_SECRETS_BACKEND %q (want env, file, aws or vault)", c.Secrets.Backend)
	}

	return nil
}

// RequestTimeout returns the gateway timeout as a duration
func (g GatewayConfig) RequestTimeout() time.Duration {
	return time.Duration(g.Timeout) * time.Second
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
