// Package testutil provides shared test helpers: configuration file
// builders, log capture and leak assertions.
package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/systmms/awsconf/pkg/configtree"
	"gopkg.in/yaml.v3"
)

// TestConfigBuilder builds a configuration file for tests.
//
// Example usage:
//
//	path := NewTestConfig(t).
//	    WithExplicitCredentials("us-east-1", "AKIAEXAMPLE", "secret").
//	    WithSecret("db", "prod/rds", "jdbc.main", "rds-to-hikari-datasource").
//	    Write()
type TestConfigBuilder struct {
	t       *testing.T
	tree    configtree.Tree
	tempDir string
}

// NewTestConfig creates an empty builder
func NewTestConfig(t *testing.T) *TestConfigBuilder {
	t.Helper()

	return &TestConfigBuilder{
		t:       t,
		tree:    configtree.New(),
		tempDir: t.TempDir(),
	}
}

// WithValue sets a leaf at a dotted path
func (b *TestConfigBuilder) WithValue(path string, value any) *TestConfigBuilder {
	b.set(path, value)
	return b
}

// WithExplicitCredentials configures aws.defaultRegion and static keys
func (b *TestConfigBuilder) WithExplicitCredentials(region, accessKey, secretKey string) *TestConfigBuilder {
	if region != "" {
		b.set("aws.defaultRegion", region)
	}
	b.set("aws.credentials.accessKey", accessKey)
	b.set("aws.credentials.secretKey", secretKey)
	return b
}

// WithSecret declares a secret under awssecrets.secrets.<id>
func (b *TestConfigBuilder) WithSecret(id, awsName, mergePath, transformer string) *TestConfigBuilder {
	prefix := "awssecrets.secrets." + id + "."
	b.set(prefix+"awsName", awsName)
	if mergePath != "" {
		b.set(prefix+"mergePath", mergePath)
	}
	if transformer != "" {
		b.set(prefix+"jsonTransformer", transformer)
	}
	return b
}

// WithSecretsEndpoint sets awssecrets.endpointOverride
func (b *TestConfigBuilder) WithSecretsEndpoint(endpoint string) *TestConfigBuilder {
	b.set("awssecrets.endpointOverride", endpoint)
	return b
}

// Build returns a copy of the tree built so far
func (b *TestConfigBuilder) Build() configtree.Tree {
	return b.tree.Clone()
}

// Write writes the tree as YAML into a temp dir and returns the path
func (b *TestConfigBuilder) Write() string {
	b.t.Helper()

	data, err := yaml.Marshal(map[string]any(b.tree))
	if err != nil {
		b.t.Fatalf("Failed to marshal test config: %v", err)
	}
	path := filepath.Join(b.tempDir, "awsconf.yaml")
	if err := os.WriteFile(path, data, 0600); err != nil {
		b.t.Fatalf("Failed to write test config: %v", err)
	}
	return path
}

func (b *TestConfigBuilder) set(path string, value any) {
	var node map[string]any = b.tree
	parts := strings.Split(path, ".")
	for _, part := range parts[:len(parts)-1] {
		child, ok := node[part].(map[string]any)
		if !ok {
			child = map[string]any{}
			node[part] = child
		}
		node = child
	}
	node[parts[len(parts)-1]] = value
}

// WriteTestConfig writes raw YAML to a temp file and returns its path
func WriteTestConfig(t *testing.T, yamlContent string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "awsconf.yaml")
	if err := os.WriteFile(path, []byte(yamlContent), 0600); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}
	return path
}
