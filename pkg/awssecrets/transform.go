package awssecrets

import (
	"sort"
	"strings"

	"github.com/systmms/awsconf/internal/logging"
)

// RDSTransformerName is the registered name of the RDS secret transformer
const RDSTransformerName = "rds-to-hikari-datasource"

// Transformer reshapes a parsed secret before it is flattened into the tree
type Transformer interface {
	Transform(secret map[string]any) (map[string]any, error)
}

// TransformerFunc adapts a function to Transformer
type TransformerFunc func(secret map[string]any) (map[string]any, error)

// Transform calls f
func (f TransformerFunc) Transform(secret map[string]any) (map[string]any, error) {
	return f(secret)
}

// Transformers is a registry of transformers keyed by name
type Transformers map[string]Transformer

// Names returns the registered names in sorted order
func (t Transformers) Names() []string {
	names := make([]string, 0, len(t))
	for name := range t {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultTransformers returns the built-in transformers
func DefaultTransformers(logger *logging.Logger) Transformers {
	return Transformers{
		RDSTransformerName: &RDSToDataSource{Logger: logger},
	}
}

// RDSToDataSource turns an RDS-managed secret into connection pool settings:
// username, password and a jdbcUrl of the form
// jdbc:{engine}://{host}[:{port}][/{dbname}].
type RDSToDataSource struct {
	Logger *logging.Logger
}

// Transform implements Transformer. A secret without engine or host produces
// no jdbcUrl and a warning.
func (r *RDSToDataSource) Transform(secret map[string]any) (map[string]any, error) {
	out := make(map[string]any, 3)

	if v, ok := secret["username"]; ok {
		out["username"] = textValue(v)
	}
	if v, ok := secret["password"]; ok {
		out["password"] = textValue(v)
	}
	if url, ok := r.jdbcURL(secret); ok {
		out["jdbcUrl"] = url
	}

	return out, nil
}

func (r *RDSToDataSource) jdbcURL(secret map[string]any) (string, bool) {
	engine, ok := field(secret, "engine")
	if !ok {
		r.Logger.Warn("AWS RDS secret must have 'engine' specified")
		return "", false
	}
	host, ok := field(secret, "host")
	if !ok {
		r.Logger.Warn("AWS RDS secret must have 'host' specified")
		return "", false
	}

	var b strings.Builder
	b.WriteString("jdbc:")
	b.WriteString(textValue(engine))
	b.WriteString("://")
	b.WriteString(textValue(host))

	if port, ok := field(secret, "port"); ok {
		b.WriteString(":")
		b.WriteString(textValue(port))
	}
	if db, ok := field(secret, "dbname"); ok {
		b.WriteString("/")
		b.WriteString(textValue(db))
	}

	return b.String(), true
}

// field returns a secret value, treating null and empty strings as absent
func field(secret map[string]any, key string) (any, bool) {
	v, ok := secret[key]
	if !ok || v == nil || v == "" {
		return nil, false
	}
	return v, true
}
