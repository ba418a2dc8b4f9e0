package configtree

import (
	"context"
	"fmt"
	"sort"

	"github.com/systmms/awsconf/internal/logging"
)

// Standard loader orders. Extension loaders that must see the fully merged
// file, environment and property configuration use an order above
// PropertiesOrder.
const (
	FileOrder       = 100
	EnvOrder        = 200
	PropertiesOrder = 300
)

// Loader contributes to the configuration tree. Implementations receive the
// tree built by all lower-ordered loaders and return the tree to hand on.
type Loader interface {
	Order() int
	UpdateConfiguration(ctx context.Context, tree Tree) (Tree, error)
}

// Pipeline folds a set of loaders over an initially empty tree
type Pipeline struct {
	loaders []Loader
	logger  *logging.Logger
}

// NewPipeline creates a pipeline with the given loaders
func NewPipeline(logger *logging.Logger, loaders ...Loader) *Pipeline {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Pipeline{
		loaders: append([]Loader(nil), loaders...),
		logger:  logger,
	}
}

// Add registers another loader
func (p *Pipeline) Add(l Loader) *Pipeline {
	p.loaders = append(p.loaders, l)
	return p
}

// Load runs every loader in ascending order. Loaders sharing an order run in
// registration order.
func (p *Pipeline) Load(ctx context.Context) (Tree, error) {
	ordered := append([]Loader(nil), p.loaders...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Order() < ordered[j].Order()
	})

	tree := New()
	for _, l := range ordered {
		p.logger.Debug("Running configuration loader %T (order %d)", l, l.Order())

		next, err := l.UpdateConfiguration(ctx, tree)
		if err != nil {
			return nil, fmt.Errorf("configuration loader %T failed: %w", l, err)
		}
		if next == nil {
			next = New()
		}
		tree = next
	}
	return tree, nil
}
