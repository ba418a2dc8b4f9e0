package awssecrets_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/systmms/awsconf/internal/logging"
	"github.com/systmms/awsconf/pkg/awssecrets"
)

func TestRDSToDataSource(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		secret   map[string]any
		want     map[string]any
		wantWarn string
	}{
		{
			name: "full secret",
			secret: map[string]any{
				"engine": "fakedb", "host": "h", "port": "7890", "dbname": "mydb",
				"username": "u", "password": "p",
			},
			want: map[string]any{"username": "u", "password": "p", "jdbcUrl": "jdbc:fakedb://h:7890/mydb"},
		},
		{
			name:   "numeric port",
			secret: map[string]any{"engine": "postgres", "host": "db.local", "port": json.Number("5432")},
			want:   map[string]any{"jdbcUrl": "jdbc:postgres://db.local:5432"},
		},
		{
			name:   "no port",
			secret: map[string]any{"engine": "fakedb", "host": "h", "dbname": "mydb", "username": "u", "password": "p"},
			want:   map[string]any{"username": "u", "password": "p", "jdbcUrl": "jdbc:fakedb://h/mydb"},
		},
		{
			name:   "no dbname",
			secret: map[string]any{"engine": "fakedb", "host": "h", "port": "7890", "username": "u", "password": "p"},
			want:   map[string]any{"username": "u", "password": "p", "jdbcUrl": "jdbc:fakedb://h:7890"},
		},
		{
			name:     "no engine",
			secret:   map[string]any{"host": "h", "port": "7890", "dbname": "mydb", "username": "u", "password": "p"},
			want:     map[string]any{"username": "u", "password": "p"},
			wantWarn: "'engine'",
		},
		{
			name:     "no host",
			secret:   map[string]any{"engine": "fakedb", "port": "7890", "username": "u", "password": "p"},
			want:     map[string]any{"username": "u", "password": "p"},
			wantWarn: "'host'",
		},
		{
			name:     "null engine",
			secret:   map[string]any{"engine": nil, "host": "h", "username": "u"},
			want:     map[string]any{"username": "u"},
			wantWarn: "'engine'",
		},
		{
			name:     "null host",
			secret:   map[string]any{"engine": "postgres", "host": nil, "port": "5432"},
			want:     map[string]any{},
			wantWarn: "'host'",
		},
		{
			name:   "null port and dbname",
			secret: map[string]any{"engine": "postgres", "host": "h", "port": nil, "dbname": nil},
			want:   map[string]any{"jdbcUrl": "jdbc:postgres://h"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			transformer := &awssecrets.RDSToDataSource{Logger: logging.NewWithWriter(&buf, false, true)}

			got, err := transformer.Transform(tt.secret)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			if tt.wantWarn != "" {
				assert.Contains(t, buf.String(), "⚠")
				assert.Contains(t, buf.String(), tt.wantWarn)
			} else {
				assert.Empty(t, buf.String())
			}
		})
	}
}

func TestRDSToDataSourceNilLogger(t *testing.T) {
	t.Parallel()

	got, err := (&awssecrets.RDSToDataSource{}).Transform(map[string]any{"username": "u"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"username": "u"}, got)
}

func TestTransformersNames(t *testing.T) {
	t.Parallel()

	transformers := awssecrets.DefaultTransformers(logging.Discard())
	transformers["upper"] = awssecrets.TransformerFunc(func(s map[string]any) (map[string]any, error) {
		return s, nil
	})

	assert.Equal(t, []string{"rds-to-hikari-datasource", "upper"}, transformers.Names())
}
