package awssecrets

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager/types"
	dserrors "github.com/systmms/awsconf/internal/errors"
	"github.com/systmms/awsconf/pkg/awscfg"
)

// ClientFactory builds Secrets Manager clients
type ClientFactory struct {
	config           awscfg.Config
	endpointOverride string
}

// NewClientFactory creates a client factory. A non-empty endpointOverride
// replaces the regional endpoint; the region is still used for signing.
func NewClientFactory(config awscfg.Config, endpointOverride string) *ClientFactory {
	return &ClientFactory{config: config, endpointOverride: endpointOverride}
}

// NewClient builds a client
func (f *ClientFactory) NewClient(ctx context.Context) (*secretsmanager.Client, error) {
	if err := awscfg.ValidateEndpoint(ConfigPrefix+".endpointOverride", f.endpointOverride); err != nil {
		return nil, err
	}

	cfg, err := f.config.SDKConfig(ctx)
	if err != nil {
		return nil, err
	}

	return secretsmanager.NewFromConfig(cfg, func(o *secretsmanager.Options) {
		if f.endpointOverride != "" {
			o.BaseEndpoint = aws.String(f.endpointOverride)
		}
	}), nil
}

// GetSecretValueAPI is the subset of the Secrets Manager client used by Store
type GetSecretValueAPI interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// SecretStore fetches raw secret payloads by name or ARN
type SecretStore interface {
	GetSecretValue(ctx context.Context, id string) ([]byte, error)
}

// SecretNotFoundError is returned when an identifier does not resolve
type SecretNotFoundError struct {
	ID  string
	Err error
}

func (e *SecretNotFoundError) Error() string {
	return fmt.Sprintf("AWS secret '%s' not found: %v", e.ID, e.Err)
}

func (e *SecretNotFoundError) Unwrap() error {
	return e.Err
}

// Store is a SecretStore backed by Secrets Manager
type Store struct {
	client GetSecretValueAPI
}

// NewStore wraps a Secrets Manager client
func NewStore(client GetSecretValueAPI) *Store {
	return &Store{client: client}
}

// GetSecretValue returns the secret string (or binary payload). The caller
// owns the returned slice.
func (s *Store) GetSecretValue(ctx context.Context, id string) ([]byte, error) {
	if id == "" {
		return nil, dserrors.ConfigError{
			Field:   "awsName",
			Message: "no secret 'awsName' specified. Must be either a name or an ARN",
		}
	}

	result, err := s.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(id),
	})
	if err != nil {
		var notFound *types.ResourceNotFoundException
		if errors.As(err, &notFound) {
			return nil, &SecretNotFoundError{ID: id, Err: err}
		}
		return nil, fmt.Errorf("failed to read AWS secret '%s': %w", id, err)
	}

	switch {
	case result.SecretString != nil:
		return []byte(*result.SecretString), nil
	case result.SecretBinary != nil:
		return append([]byte(nil), result.SecretBinary...), nil
	default:
		return nil, fmt.Errorf("AWS secret '%s' has no value", id)
	}
}
