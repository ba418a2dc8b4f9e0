package configtree

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-viper/mapstructure/v2"
)

// Tree is the mutable configuration tree.
type Tree map[string]any

// New returns an empty tree
func New() Tree {
	return Tree{}
}

// Get returns the node at a dot-delimited path. The empty path is the root.
func (t Tree) Get(path string) (any, bool) {
	if path == "" {
		return map[string]any(t), true
	}

	var current any = map[string]any(t)
	for _, part := range strings.Split(path, ".") {
		m, ok := asMap(current)
		if !ok {
			return nil, false
		}
		current, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// Section returns the map node at path, or nil when the path is absent or
// is not a map.
func (t Tree) Section(path string) map[string]any {
	node, ok := t.Get(path)
	if !ok {
		return nil
	}
	m, _ := asMap(node)
	return m
}

// Decode decodes the node at path into out. An absent path leaves out untouched.
func (t Tree) Decode(path string, out any) error {
	node, ok := t.Get(path)
	if !ok || node == nil {
		return nil
	}
	return DecodeNode(node, out)
}

// DecodeNode decodes a single node into out using mapstructure tags. Keys
// match tags ignoring case and underscores, as environment overrides spell them.
func DecodeNode(node any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		ErrorUnused:      false,
		MatchName: func(mapKey, fieldName string) bool {
			return normalizeKey(mapKey) == normalizeKey(fieldName)
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create decoder: %w", err)
	}
	return decoder.Decode(node)
}

// Clone returns a deep copy of the tree
func (t Tree) Clone() Tree {
	if t == nil {
		return nil
	}
	return Tree(cloneMap(t))
}

// MergeProperties writes each dotted key as a leaf value into the tree,
// last write wins. Intermediate nodes that are not maps are replaced by
// maps, sibling keys are preserved. The returned tree must be used in place
// of the input, which may be modified.
func MergeProperties(t Tree, props map[string]string) Tree {
	if t == nil {
		t = New()
	}

	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		setLeaf(t, strings.Split(key, "."), props[key])
	}
	return t
}

// DeepMerge overlays src onto dst. Maps merge recursively, everything else
// (scalars and lists) replaces the existing value.
func DeepMerge(dst Tree, src map[string]any) Tree {
	if dst == nil {
		dst = New()
	}
	mergeMaps(dst, src)
	return dst
}

func mergeMaps(dst, src map[string]any) {
	for k, sv := range src {
		srcMap, srcIsMap := asMap(sv)
		dstMap, dstIsMap := asMap(dst[k])
		if srcIsMap && dstIsMap {
			mergeMaps(dstMap, srcMap)
			continue
		}
		if srcIsMap {
			dst[k] = cloneMap(srcMap)
			continue
		}
		dst[k] = cloneValue(sv)
	}
}

func setLeaf(root map[string]any, path []string, value any) {
	node := root
	for _, part := range path[:len(path)-1] {
		child, ok := asMap(node[part])
		if !ok {
			child = map[string]any{}
			node[part] = child
		}
		node = child
	}
	node[path[len(path)-1]] = value
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case Tree:
		return map[string]any(m), true
	default:
		return nil, false
	}
}

func cloneMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch tv := v.(type) {
	case map[string]any:
		return cloneMap(tv)
	case Tree:
		return cloneMap(tv)
	case []any:
		out := make([]any, len(tv))
		for i, item := range tv {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}
