package ports

import (
	"context"
)

// Secret represents a retrieved secret with metadata
type Secret struct {
	Value     string            // The secret value (JSON credential document)
	Version   string            // Secret version identifier
	Metadata  map[string]string // Additional secret metadata
	CreatedAt string            // When this version was created
}

// SecretManagerAdapter defines the port for retrieving API credentials from a secret store
// Supports multiple backends: environment, local files, AWS Secrets Manager, HashiCorp Vault
type SecretManagerAdapter interface {
	// GetSecret retrieves a secret by its path/name
	// Path format depends on implementation:
	//   - AWS: "paypal-nvp/merchants/{merchant}/api"
	//   - Vault: "paypal-nvp/merchants/{merchant}" (KV v2, mount configured separately)
	//   - File: path relative to the configured base directory
	// Returns error if:
	//   - Secret does not exist
	//   - Insufficient permissions
	//   - Network communication fails
	GetSecret(ctx context.Context, path string) (*Secret, error)
}
