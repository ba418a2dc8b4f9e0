package awssecrets

import (
	"fmt"
	"sort"
	"strconv"

	dserrors "github.com/systmms/awsconf/internal/errors"
	"github.com/systmms/awsconf/pkg/configtree"
)

// ConfigPrefix is the configuration tree path of the secrets settings
const ConfigPrefix = "awssecrets"

// Descriptor declares one secret to merge
type Descriptor struct {
	// ID is the map key, or the list index for list entries
	ID              string `mapstructure:"-"`
	AWSName         string `mapstructure:"awsName"`
	MergePath       string `mapstructure:"mergePath"`
	JSONTransformer string `mapstructure:"jsonTransformer"`
}

// Settings is the awssecrets section
type Settings struct {
	EndpointOverride string
	Secrets          []Descriptor
}

// IsEmpty reports whether no secrets are declared
func (s Settings) IsEmpty() bool {
	return len(s.Secrets) == 0
}

var (
	sectionKeys    = []string{"endpointOverride", "secrets"}
	descriptorKeys = []string{"awsName", "mergePath", "jsonTransformer"}
)

// Parse reads the awssecrets section. A map of secrets is ordered by key.
func Parse(tree configtree.Tree) (Settings, error) {
	node, ok := tree.Get(ConfigPrefix)
	if !ok || node == nil {
		return Settings{}, nil
	}
	if section := tree.Section(ConfigPrefix); section != nil {
		node = canonicalSection(section)
	}
	if err := validateSettings(node); err != nil {
		return Settings{}, err
	}

	section, _ := node.(map[string]any)
	var s Settings
	if endpoint, ok := section["endpointOverride"].(string); ok {
		s.EndpointOverride = endpoint
	}

	switch secrets := section["secrets"].(type) {
	case nil:
	case []any:
		for i, item := range secrets {
			d, err := decodeDescriptor(strconv.Itoa(i), item)
			if err != nil {
				return Settings{}, err
			}
			s.Secrets = append(s.Secrets, d)
		}
	case map[string]any:
		ids := make([]string, 0, len(secrets))
		for id := range secrets {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			d, err := decodeDescriptor(id, secrets[id])
			if err != nil {
				return Settings{}, err
			}
			s.Secrets = append(s.Secrets, d)
		}
	}

	return s, nil
}

// canonicalSection respells keys that environment overrides lower-cased
func canonicalSection(section map[string]any) map[string]any {
	out := configtree.CanonicalKeys(section, sectionKeys...)
	switch secrets := out["secrets"].(type) {
	case []any:
		list := make([]any, len(secrets))
		for i, item := range secrets {
			list[i] = canonicalDescriptor(item)
		}
		out["secrets"] = list
	case map[string]any:
		byID := make(map[string]any, len(secrets))
		for id, item := range secrets {
			byID[id] = canonicalDescriptor(item)
		}
		out["secrets"] = byID
	}
	return out
}

func canonicalDescriptor(item any) any {
	if m, ok := item.(map[string]any); ok {
		return configtree.CanonicalKeys(m, descriptorKeys...)
	}
	return item
}

func decodeDescriptor(id string, node any) (Descriptor, error) {
	var d Descriptor
	if err := configtree.DecodeNode(node, &d); err != nil {
		return Descriptor{}, dserrors.ConfigError{
			Field:   ConfigPrefix + ".secrets." + id,
			Message: fmt.Sprintf("invalid secret declaration: %v", err),
		}
	}
	d.ID = id
	return d, nil
}
