package configtree

// CanonicalKeys returns a shallow copy of node whose keys are renamed to the
// matching spelling in known. Keys match ignoring case and underscores, so
// AWS__CREDENTIALS__ACCESS_KEY lands on accessKey. Unknown keys are kept as is.
func CanonicalKeys(node map[string]any, known ...string) map[string]any {
	if node == nil {
		return nil
	}
	canonical := make(map[string]string, len(known))
	for _, k := range known {
		canonical[normalizeKey(k)] = k
	}

	out := make(map[string]any, len(node))
	for k, v := range node {
		if _, ok := canonical[normalizeKey(k)]; !ok {
			out[k] = v
		}
	}
	for k, v := range node {
		name, ok := canonical[normalizeKey(k)]
		if !ok {
			continue
		}
		// exact spellings win over respelled ones
		if _, taken := out[name]; taken && k != name {
			continue
		}
		out[name] = v
	}
	return out
}
