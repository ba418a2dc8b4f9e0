// Package awscfg builds the shared AWS configuration (default region and
// credentials source) that every service client factory consumes.
package awscfg

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	dserrors "github.com/systmms/awsconf/internal/errors"
	"github.com/systmms/awsconf/pkg/configtree"
	"github.com/systmms/awsconf/pkg/credentials"
)

// ConfigPrefix is the configuration tree path of the AWS settings
const ConfigPrefix = "aws"

// Config is the effective AWS configuration. It is created once and shared
// read-only.
type Config struct {
	DefaultRegion string
	Credentials   aws.CredentialsProvider
}

// Factory holds the declarative aws settings
type Factory struct {
	DefaultRegion string
	Credentials   credentials.Factory
}

type settings struct {
	DefaultRegion string         `mapstructure:"defaultRegion"`
	Credentials   map[string]any `mapstructure:"credentials"`
}

// Parse reads the aws section of the tree
func Parse(tree configtree.Tree) (Factory, error) {
	return ParseAt(tree, ConfigPrefix)
}

// ParseAt reads AWS settings from an arbitrary tree path
func ParseAt(tree configtree.Tree, path string) (Factory, error) {
	var s settings
	if err := tree.Decode(path, &s); err != nil {
		return Factory{}, dserrors.ConfigError{
			Field:   path,
			Message: fmt.Sprintf("invalid AWS configuration: %v", err),
		}
	}

	creds, err := credentials.ParseFactory(s.Credentials)
	if err != nil {
		return Factory{}, err
	}

	return Factory{DefaultRegion: s.DefaultRegion, Credentials: creds}, nil
}

// Create resolves the credentials source. Configuration errors are returned
// here, before any client is built.
func (f Factory) Create(ctx context.Context, registry *credentials.Registry) (Config, error) {
	credsFactory := f.Credentials
	if credsFactory == nil {
		credsFactory = credentials.ChainFromRegistry{}
	}

	provider, err := credsFactory.Create(ctx, credentials.Inputs{
		Registry: registry,
		Region:   f.DefaultRegion,
	})
	if err != nil {
		return Config{}, err
	}

	return Config{DefaultRegion: f.DefaultRegion, Credentials: provider}, nil
}

// SDKConfig returns an aws.Config for building service clients. The region
// falls back to the SDK's own resolution (AWS_REGION, shared config) when no
// default region is configured.
func (c Config) SDKConfig(ctx context.Context) (aws.Config, error) {
	var opts []func(*config.LoadOptions) error
	if c.DefaultRegion != "" {
		opts = append(opts, config.WithRegion(c.DefaultRegion))
	}
	if c.Credentials != nil {
		opts = append(opts, config.WithCredentialsProvider(c.Credentials))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return cfg, nil
}

// Identity is the caller identity reported by STS
type Identity struct {
	Account string
	ARN     string
	UserID  string
}

// STSAPI is the subset of the STS client used by CallerIdentity
type STSAPI interface {
	GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
}

// CallerIdentity asks STS who the configured credentials belong to. A nil
// client builds one from the config.
func (c Config) CallerIdentity(ctx context.Context, client STSAPI) (Identity, error) {
	if client == nil {
		cfg, err := c.SDKConfig(ctx)
		if err != nil {
			return Identity{}, err
		}
		client = sts.NewFromConfig(cfg)
	}

	out, err := client.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return Identity{}, dserrors.ProviderError("sts", "GetCallerIdentity", err)
	}

	return Identity{
		Account: aws.ToString(out.Account),
		ARN:     aws.ToString(out.Arn),
		UserID:  aws.ToString(out.UserId),
	}, nil
}
