package config

import (
	"context"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/systmms/awsconf/internal/logging"
	"github.com/systmms/awsconf/pkg/awscfg"
	"github.com/systmms/awsconf/pkg/awssecrets"
	"github.com/systmms/awsconf/pkg/configtree"
	"github.com/systmms/awsconf/pkg/credentials"
	"github.com/systmms/awsconf/pkg/s3client"
)

// DefaultEnvPrefix is the environment variable prefix read by the env loader
const DefaultEnvPrefix = "AWSCONF_"

// shared profile credentials sit between the environment and container sources
const profileOrder = credentials.EnvOrder + 5

// Config holds the runtime configuration of the CLI: where configuration
// comes from and the collaborators used to reach AWS. Zero-valued
// collaborators fall back to the real SDK clients.
type Config struct {
	Paths      []string
	Properties []string
	EnvPrefix  string
	Logger     *logging.Logger
	Metrics    *prometheus.Registry

	// Registry supplies fallback credentials. DefaultRegistry when nil.
	Registry *credentials.Registry
	// Environ replaces os.Environ for the env loader
	Environ func() []string

	StoreFactory awssecrets.StoreFactory
	STS          awscfg.STSAPI
	S3           s3client.ListBucketsAPI

	tree configtree.Tree
}

// DefaultRegistry registers the standard credentials sources in their usual
// order: environment, shared profile, container and instance role.
func DefaultRegistry() *credentials.Registry {
	registry := credentials.NewRegistry().
		AddEnvProvider(credentials.EnvOrder)

	profile := os.Getenv("AWS_PROFILE")
	if profile == "" {
		profile = credentials.DefaultProfileName
	}
	registry.AddProfileProvider(profile, profileOrder)

	if os.Getenv("AWS_CONTAINER_CREDENTIALS_RELATIVE_URI") != "" || os.Getenv("AWS_CONTAINER_CREDENTIALS_FULL_URI") != "" {
		registry.AddContainerProvider(credentials.ContainerOrder)
	}
	return registry.AddInstanceProvider(credentials.InstanceOrder)
}

func (c *Config) logger() *logging.Logger {
	if c.Logger == nil {
		c.Logger = logging.Discard()
	}
	return c.Logger
}

func (c *Config) registry() *credentials.Registry {
	if c.Registry == nil {
		c.Registry = DefaultRegistry()
	}
	return c.Registry
}

// Pipeline builds the configuration pipeline: files, environment, property
// overrides and finally AWS secrets.
func (c *Config) Pipeline() (*configtree.Pipeline, error) {
	props, err := configtree.ParseProperties(c.Properties)
	if err != nil {
		return nil, err
	}

	prefix := c.EnvPrefix
	if prefix == "" {
		prefix = DefaultEnvPrefix
	}

	opts := []awssecrets.Option{awssecrets.WithLogger(c.logger())}
	if c.StoreFactory != nil {
		opts = append(opts, awssecrets.WithStoreFactory(c.StoreFactory))
	}
	if c.Metrics != nil {
		opts = append(opts, awssecrets.WithMetrics(awssecrets.NewMetrics(c.Metrics)))
	}

	return configtree.NewPipeline(c.logger(),
		configtree.FileLoader{Paths: c.Paths},
		configtree.EnvLoader{Prefix: strings.ToUpper(prefix), Environ: c.Environ},
		configtree.PropertiesLoader{Properties: props},
		awssecrets.NewLoader(c.registry(), opts...),
	), nil
}

// Load runs the pipeline once and caches the resulting tree
func (c *Config) Load(ctx context.Context) (configtree.Tree, error) {
	if c.tree != nil {
		return c.tree, nil
	}

	pipeline, err := c.Pipeline()
	if err != nil {
		return nil, err
	}
	tree, err := pipeline.Load(ctx)
	if err != nil {
		return nil, err
	}

	c.logger().Debug("Configuration loaded from %d file(s)", len(c.Paths))
	c.tree = tree
	return tree, nil
}

// AWS resolves the effective AWS configuration from the loaded tree
func (c *Config) AWS(ctx context.Context) (awscfg.Config, error) {
	tree, err := c.Load(ctx)
	if err != nil {
		return awscfg.Config{}, err
	}
	factory, err := awscfg.Parse(tree)
	if err != nil {
		return awscfg.Config{}, err
	}
	return factory.Create(ctx, c.registry())
}

// SecretStore builds the secret store configured by the awssecrets section
func (c *Config) SecretStore(ctx context.Context) (awssecrets.SecretStore, error) {
	tree, err := c.Load(ctx)
	if err != nil {
		return nil, err
	}
	settings, err := awssecrets.Parse(tree)
	if err != nil {
		return nil, err
	}
	awsCfg, err := c.AWS(ctx)
	if err != nil {
		return nil, err
	}

	factory := c.StoreFactory
	if factory == nil {
		factory = awssecrets.DefaultStoreFactory
	}
	return factory(ctx, awsCfg, settings.EndpointOverride)
}

// S3Client returns the configured bucket lister
func (c *Config) S3Client(ctx context.Context) (s3client.ListBucketsAPI, error) {
	if c.S3 != nil {
		return c.S3, nil
	}

	tree, err := c.Load(ctx)
	if err != nil {
		return nil, err
	}
	settings, err := s3client.Parse(tree)
	if err != nil {
		return nil, err
	}
	awsCfg, err := c.AWS(ctx)
	if err != nil {
		return nil, err
	}
	return s3client.NewFactory(awsCfg, settings).NewClient(ctx)
}
