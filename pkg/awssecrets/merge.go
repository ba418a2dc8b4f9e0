package awssecrets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/awnumar/memguard"
	dserrors "github.com/systmms/awsconf/internal/errors"
	"github.com/systmms/awsconf/pkg/configtree"
)

// Apply fetches the secret, runs its transformer and merges the result into
// tree. The returned tree is the one to hand to the next descriptor.
func (d Descriptor) Apply(ctx context.Context, store SecretStore, transformers Transformers, tree configtree.Tree) (configtree.Tree, error) {
	props, err := d.Properties(ctx, store, transformers)
	if err != nil {
		return nil, err
	}
	return configtree.MergeProperties(tree, props), nil
}

// Properties fetches the secret and returns the flattened property map
// without touching any tree
func (d Descriptor) Properties(ctx context.Context, store SecretStore, transformers Transformers) (map[string]string, error) {
	transformer, err := d.transformer(transformers)
	if err != nil {
		return nil, err
	}

	raw, err := store.GetSecretValue(ctx, d.AWSName)
	if err != nil {
		return nil, err
	}
	defer memguard.WipeBytes(raw)

	secret, err := parseSecret(d.AWSName, raw)
	if err != nil {
		return nil, err
	}

	if transformer != nil {
		secret, err = transformer.Transform(secret)
		if err != nil {
			return nil, fmt.Errorf("transformer '%s' failed for AWS secret '%s': %w", d.JSONTransformer, d.AWSName, err)
		}
	}

	return flatten(d.MergePath, secret), nil
}

// transformer looks up the descriptor's transformer. No name means none.
func (d Descriptor) transformer(transformers Transformers) (Transformer, error) {
	if d.JSONTransformer == "" {
		return nil, nil
	}
	t, ok := transformers[d.JSONTransformer]
	if !ok {
		return nil, dserrors.ConfigError{
			Field:      ConfigPrefix + ".secrets." + d.ID + ".jsonTransformer",
			Value:      d.JSONTransformer,
			Message:    "unknown JSON transformer",
			Suggestion: fmt.Sprintf("Known transformers: %v", transformers.Names()),
		}
	}
	return t, nil
}

func parseSecret(name string, raw []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, dserrors.ConfigError{
			Field:   ConfigPrefix,
			Message: fmt.Sprintf("AWS secret '%s' is not valid JSON: %v", name, err),
		}
	}

	obj, ok := v.(map[string]any)
	if !ok {
		return nil, dserrors.ConfigError{
			Field:   ConfigPrefix,
			Message: fmt.Sprintf("AWS secret '%s' is not a JSON object: %s", name, jsonKind(v)),
		}
	}
	return obj, nil
}

// flatten writes each top-level field as a text leaf under mergePath
func flatten(mergePath string, secret map[string]any) map[string]string {
	props := make(map[string]string, len(secret))
	for k, v := range secret {
		key := k
		if mergePath != "" {
			key = mergePath + "." + k
		}
		props[key] = textValue(v)
	}
	return props
}

// textValue renders a JSON value as property text. Objects and arrays are
// kept as compact JSON.
func textValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return val.String()
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprintf("%v", val)
		}
		return string(b)
	}
}

func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case []any:
		return "array"
	case string:
		return "string"
	case json.Number:
		return "number"
	case bool:
		return "boolean"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// sortedKeys is used for deterministic logging of merged property names
func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
