package configtree

import (
	"context"
	"strings"

	dserrors "github.com/systmms/awsconf/internal/errors"
)

// PropertiesLoader applies explicit dotted-path overrides
type PropertiesLoader struct {
	Properties map[string]string
}

// Order implements Loader
func (l PropertiesLoader) Order() int {
	return PropertiesOrder
}

// UpdateConfiguration implements Loader
func (l PropertiesLoader) UpdateConfiguration(_ context.Context, tree Tree) (Tree, error) {
	if len(l.Properties) == 0 {
		return tree, nil
	}
	return MergeProperties(tree, l.Properties), nil
}

// ParseProperties parses "key.path=value" pairs
func ParseProperties(pairs []string) (map[string]string, error) {
	props := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, dserrors.ConfigError{
				Field:      "set",
				Value:      pair,
				Message:    "property override must have the form key.path=value",
				Suggestion: "Example: --set aws.defaultRegion=us-east-1",
			}
		}
		props[key] = value
	}
	return props, nil
}
