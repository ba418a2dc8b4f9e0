package credentials

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
)

// ChainProvider tries each provider in order and returns the first
// credentials that resolve. Failures fall through to the next provider.
type ChainProvider struct {
	providers []aws.CredentialsProvider
}

// NewChainProvider creates a chain over providers, in the given order
func NewChainProvider(providers ...aws.CredentialsProvider) *ChainProvider {
	return &ChainProvider{providers: append([]aws.CredentialsProvider(nil), providers...)}
}

// Providers returns the chained providers in resolution order
func (c *ChainProvider) Providers() []aws.CredentialsProvider {
	return append([]aws.CredentialsProvider(nil), c.providers...)
}

// Retrieve implements aws.CredentialsProvider
func (c *ChainProvider) Retrieve(ctx context.Context) (aws.Credentials, error) {
	var errs []error
	for i, p := range c.providers {
		creds, err := p.Retrieve(ctx)
		if err == nil && creds.HasKeys() {
			return creds, nil
		}
		if err == nil {
			err = fmt.Errorf("no access key returned")
		}
		errs = append(errs, fmt.Errorf("provider %d (%T): %w", i, p, err))
	}
	return aws.Credentials{}, fmt.Errorf("no credentials provider in the chain could resolve credentials: %w", errors.Join(errs...))
}

// EnvProvider reads static credentials from the standard AWS environment
// variables
type EnvProvider struct{}

// Retrieve implements aws.CredentialsProvider
func (EnvProvider) Retrieve(context.Context) (aws.Credentials, error) {
	env, err := config.NewEnvConfig()
	if err != nil {
		return aws.Credentials{}, fmt.Errorf("failed to read AWS environment: %w", err)
	}
	if !env.Credentials.HasKeys() {
		return aws.Credentials{}, fmt.Errorf("AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY are not set")
	}
	creds := env.Credentials
	creds.Source = "EnvProvider"
	return creds, nil
}

// ProfileProvider resolves credentials from a named profile in the shared
// AWS config and credentials files
type ProfileProvider struct {
	profile string

	mu       sync.Mutex
	resolved aws.CredentialsProvider
}

// NewProfileProvider creates a profile provider. An empty name means "default".
func NewProfileProvider(profile string) *ProfileProvider {
	if profile == "" {
		profile = DefaultProfileName
	}
	return &ProfileProvider{profile: profile}
}

// Profile returns the profile name
func (p *ProfileProvider) Profile() string {
	return p.profile
}

// Retrieve implements aws.CredentialsProvider
func (p *ProfileProvider) Retrieve(ctx context.Context) (aws.Credentials, error) {
	provider, err := p.load(ctx)
	if err != nil {
		return aws.Credentials{}, err
	}
	return provider.Retrieve(ctx)
}

func (p *ProfileProvider) load(ctx context.Context) (aws.CredentialsProvider, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.resolved != nil {
		return p.resolved, nil
	}

	cfg, err := config.LoadDefaultConfig(ctx, config.WithSharedConfigProfile(p.profile))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS profile '%s': %w", p.profile, err)
	}
	if cfg.Credentials == nil {
		return nil, fmt.Errorf("AWS profile '%s' has no credentials", p.profile)
	}
	p.resolved = cfg.Credentials
	return p.resolved, nil
}

// DefaultChainProvider delegates to the SDK default credentials chain
type DefaultChainProvider struct {
	mu       sync.Mutex
	resolved aws.CredentialsProvider
}

// Retrieve implements aws.CredentialsProvider
func (d *DefaultChainProvider) Retrieve(ctx context.Context) (aws.Credentials, error) {
	d.mu.Lock()
	if d.resolved == nil {
		cfg, err := config.LoadDefaultConfig(ctx)
		if err != nil {
			d.mu.Unlock()
			return aws.Credentials{}, fmt.Errorf("failed to load AWS default config: %w", err)
		}
		if cfg.Credentials == nil {
			d.mu.Unlock()
			return aws.Credentials{}, fmt.Errorf("AWS default chain has no credentials")
		}
		d.resolved = cfg.Credentials
	}
	provider := d.resolved
	d.mu.Unlock()

	return provider.Retrieve(ctx)
}
