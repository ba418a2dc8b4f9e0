package awssecrets

import (
	"context"
	"errors"
	"fmt"

	dserrors "github.com/systmms/awsconf/internal/errors"
	"github.com/systmms/awsconf/internal/logging"
	"github.com/systmms/awsconf/pkg/awscfg"
	"github.com/systmms/awsconf/pkg/configtree"
	"github.com/systmms/awsconf/pkg/credentials"
)

// LoaderOrder places the secrets loader after property overrides
const LoaderOrder = configtree.PropertiesOrder + 100

// StoreFactory builds the secret store used for one load
type StoreFactory func(ctx context.Context, cfg awscfg.Config, endpointOverride string) (SecretStore, error)

// DefaultStoreFactory builds a Store on a real Secrets Manager client
func DefaultStoreFactory(ctx context.Context, cfg awscfg.Config, endpointOverride string) (SecretStore, error) {
	client, err := NewClientFactory(cfg, endpointOverride).NewClient(ctx)
	if err != nil {
		return nil, err
	}
	return NewStore(client), nil
}

// Loader is a configtree.Loader that merges secrets into the tree
type Loader struct {
	registry     *credentials.Registry
	transformers Transformers
	storeFactory StoreFactory
	metrics      *Metrics
	logger       *logging.Logger
}

// Option configures a Loader
type Option func(*Loader)

// WithTransformers replaces the transformer registry
func WithTransformers(t Transformers) Option {
	return func(l *Loader) {
		l.transformers = t
	}
}

// WithStoreFactory replaces how the secret store is built
func WithStoreFactory(f StoreFactory) Option {
	return func(l *Loader) {
		l.storeFactory = f
	}
}

// WithMetrics enables metrics
func WithMetrics(m *Metrics) Option {
	return func(l *Loader) {
		l.metrics = m
	}
}

// WithLogger sets the logger
func WithLogger(logger *logging.Logger) Option {
	return func(l *Loader) {
		l.logger = logger
	}
}

// NewLoader creates a secrets loader. The registry supplies credentials when
// the aws section does not declare explicit ones.
func NewLoader(registry *credentials.Registry, opts ...Option) *Loader {
	l := &Loader{
		registry:     registry,
		storeFactory: DefaultStoreFactory,
		logger:       logging.Discard(),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.transformers == nil {
		l.transformers = DefaultTransformers(l.logger)
	}
	return l
}

// Order implements configtree.Loader
func (l *Loader) Order() int {
	return LoaderOrder
}

// UpdateConfiguration reads the aws and awssecrets sections from tree and
// merges every declared secret into it, in declaration order. A tree that
// declares no secrets is returned as is.
func (l *Loader) UpdateConfiguration(ctx context.Context, tree configtree.Tree) (configtree.Tree, error) {
	settings, err := Parse(tree)
	if err != nil {
		return nil, err
	}
	if settings.IsEmpty() {
		l.logger.Debug("No AWS secrets declared")
		return tree, nil
	}

	// Fail on bad transformer names before touching AWS
	for _, d := range settings.Secrets {
		if _, err := d.transformer(l.transformers); err != nil {
			l.metrics.recordFailed(d.ID, "config")
			return nil, err
		}
	}

	factory, err := awscfg.Parse(tree)
	if err != nil {
		return nil, err
	}
	cfg, err := factory.Create(ctx, l.registry)
	if err != nil {
		return nil, err
	}

	store, err := l.storeFactory(ctx, cfg, settings.EndpointOverride)
	if err != nil {
		return nil, fmt.Errorf("failed to create Secrets Manager client: %w", err)
	}

	for _, d := range settings.Secrets {
		props, err := d.Properties(ctx, store, l.transformers)
		if err != nil {
			l.metrics.recordFailed(d.ID, failureReason(err))
			return nil, err
		}

		tree = configtree.MergeProperties(tree, props)
		l.metrics.recordMerged(d.ID, len(props))
		l.logger.Debug("Merged AWS secret %s into '%s': %v", d.ID, d.MergePath, sortedKeys(props))
	}

	return tree, nil
}

func failureReason(err error) string {
	var notFound *SecretNotFoundError
	switch {
	case errors.As(err, &notFound):
		return "not_found"
	case dserrors.IsConfigError(err):
		return "config"
	default:
		return "fetch"
	}
}
