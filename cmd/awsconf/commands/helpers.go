package commands

import (
	"sort"
	"strings"
)

const redacted = "[REDACTED]"

// sensitiveKeys are matched case-insensitively against leaf key names
var sensitiveKeys = []string{"password", "secret", "token", "accesskey", "apikey", "privatekey"}

func isSensitiveKey(key string) bool {
	k := strings.ToLower(strings.ReplaceAll(key, "_", ""))
	for _, s := range sensitiveKeys {
		if strings.Contains(k, s) {
			return true
		}
	}
	return false
}

// redactNode returns a copy of node with sensitive scalar leaves replaced
func redactNode(key string, node any) any {
	switch v := node.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, child := range v {
			out[k] = redactNode(k, child)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, child := range v {
			out[i] = redactNode(key, child)
		}
		return out
	default:
		if v != nil && isSensitiveKey(key) {
			return redacted
		}
		return v
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
