// Package s3client builds S3 clients from the shared AWS configuration and
// the awss3 configuration section.
package s3client

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	dserrors "github.com/systmms/awsconf/internal/errors"
	"github.com/systmms/awsconf/pkg/awscfg"
	"github.com/systmms/awsconf/pkg/configtree"
)

// ConfigPrefix is the configuration tree path of the S3 settings
const ConfigPrefix = "awss3"

// TypeDefault is the only client factory type
const TypeDefault = "default"

// Settings is the declarative awss3 section
type Settings struct {
	Type             string `mapstructure:"type"`
	EndpointOverride string `mapstructure:"endpointOverride"`
	ForcePathStyle   bool   `mapstructure:"forcePathStyle"`
}

// Parse reads and validates the awss3 section
func Parse(tree configtree.Tree) (Settings, error) {
	var s Settings
	if err := tree.Decode(ConfigPrefix, &s); err != nil {
		return Settings{}, dserrors.ConfigError{
			Field:   ConfigPrefix,
			Message: fmt.Sprintf("invalid S3 configuration: %v", err),
		}
	}
	if s.Type == "" {
		s.Type = TypeDefault
	}
	if s.Type != TypeDefault {
		return Settings{}, dserrors.ConfigError{
			Field:      ConfigPrefix + ".type",
			Value:      s.Type,
			Message:    "unknown S3 client factory type",
			Suggestion: "Known types: " + TypeDefault,
		}
	}
	if err := awscfg.ValidateEndpoint(ConfigPrefix+".endpointOverride", s.EndpointOverride); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Factory produces S3 clients sharing one AWS configuration
type Factory struct {
	config   awscfg.Config
	settings Settings
}

// NewFactory creates a client factory
func NewFactory(config awscfg.Config, settings Settings) *Factory {
	return &Factory{config: config, settings: settings}
}

// NewClient builds a client with the configured defaults
func (f *Factory) NewClient(ctx context.Context) (*s3.Client, error) {
	return f.NewBuilder().Build(ctx)
}

// NewBuilder starts a builder allowing per-client overrides
func (f *Factory) NewBuilder() *Builder {
	return &Builder{
		config:           f.config,
		endpointOverride: f.settings.EndpointOverride,
		forcePathStyle:   f.settings.ForcePathStyle,
	}
}

// Builder configures a single S3 client
type Builder struct {
	config           awscfg.Config
	region           string
	endpointOverride string
	forcePathStyle   bool
}

// Region overrides the default region for this client
func (b *Builder) Region(region string) *Builder {
	b.region = region
	return b
}

// EndpointOverride points this client at a specific endpoint
func (b *Builder) EndpointOverride(endpoint string) *Builder {
	b.endpointOverride = endpoint
	return b
}

// ForcePathStyle toggles path-style addressing, needed by most S3 emulators
func (b *Builder) ForcePathStyle(enabled bool) *Builder {
	b.forcePathStyle = enabled
	return b
}

// Build creates the client. An endpoint override replaces the regional
// endpoint; the region is still set for request signing.
func (b *Builder) Build(ctx context.Context) (*s3.Client, error) {
	if err := awscfg.ValidateEndpoint("endpointOverride", b.endpointOverride); err != nil {
		return nil, err
	}

	cfg, err := b.config.SDKConfig(ctx)
	if err != nil {
		return nil, err
	}

	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if b.region != "" {
			o.Region = b.region
		}
		if b.endpointOverride != "" {
			o.BaseEndpoint = aws.String(b.endpointOverride)
		}
		o.UsePathStyle = b.forcePathStyle
	}), nil
}
