package configtree

import (
	"context"
	"os"

	dserrors "github.com/systmms/awsconf/internal/errors"
	"gopkg.in/yaml.v3"
)

// FileLoader merges YAML files into the tree. Later files override earlier
// ones.
type FileLoader struct {
	Paths []string
}

// Order implements Loader
func (l FileLoader) Order() int {
	return FileOrder
}

// UpdateConfiguration implements Loader
func (l FileLoader) UpdateConfiguration(_ context.Context, tree Tree) (Tree, error) {
	for _, path := range l.Paths {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, dserrors.ConfigError{
					Field:      "config",
					Value:      path,
					Message:    "configuration file not found",
					Suggestion: "Check the --config path",
				}
			}
			return nil, dserrors.UserError{
				Message:    "Failed to read configuration file",
				Details:    err.Error(),
				Suggestion: "Check file permissions and path",
				Err:        err,
			}
		}

		var doc map[string]any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, dserrors.ConfigError{
				Field:      "config",
				Value:      path,
				Message:    "invalid YAML syntax in configuration file: " + err.Error(),
				Suggestion: "Check for indentation errors, missing quotes, or invalid characters",
			}
		}

		tree = DeepMerge(tree, doc)
	}
	return tree, nil
}
