package configtree

import (
	"context"
	"os"
	"sort"
	"strings"
)

// EnvLoader maps prefixed environment variables onto the tree.
//
// PREFIX_AWS__DEFAULTREGION=us-west-2 writes aws.defaultRegion: each "__"
// separates a path segment, and segments are matched case-insensitively
// (ignoring single underscores) against keys already in the tree. Unmatched
// segments are lower-cased.
type EnvLoader struct {
	Prefix string

	// Environ defaults to os.Environ
	Environ func() []string
}

// Order implements Loader
func (l EnvLoader) Order() int {
	return EnvOrder
}

// UpdateConfiguration implements Loader
func (l EnvLoader) UpdateConfiguration(_ context.Context, tree Tree) (Tree, error) {
	if l.Prefix == "" {
		return tree, nil
	}
	if tree == nil {
		tree = New()
	}

	environ := l.Environ
	if environ == nil {
		environ = os.Environ
	}

	vars := environ()
	sort.Strings(vars)

	props := make(map[string]string)
	for _, kv := range vars {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(name, l.Prefix) {
			continue
		}
		rest := strings.TrimPrefix(name, l.Prefix)
		if rest == "" {
			continue
		}
		props[resolvePath(tree, strings.Split(rest, "__"))] = value
	}

	return MergeProperties(tree, props), nil
}

func resolvePath(tree Tree, segments []string) string {
	resolved := make([]string, 0, len(segments))
	node, _ := asMap(tree)
	for _, seg := range segments {
		key := matchKey(node, seg)
		resolved = append(resolved, key)
		if node != nil {
			node, _ = asMap(node[key])
		}
	}
	return strings.Join(resolved, ".")
}

func matchKey(node map[string]any, segment string) string {
	want := normalizeKey(segment)
	// deterministic choice when several keys normalize the same
	keys := make([]string, 0, len(node))
	for k := range node {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if normalizeKey(k) == want {
			return k
		}
	}
	return strings.ToLower(segment)
}

func normalizeKey(k string) string {
	return strings.ToLower(strings.ReplaceAll(k, "_", ""))
}
