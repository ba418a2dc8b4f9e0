package awssecrets_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	dserrors "github.com/systmms/awsconf/internal/errors"
	"github.com/systmms/awsconf/pkg/awssecrets"
	"github.com/systmms/awsconf/pkg/configtree"
)

func TestParseSettings(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		tree    configtree.Tree
		want    awssecrets.Settings
		wantErr string
	}{
		{
			name: "absent section",
			tree: configtree.Tree{"app": "x"},
			want: awssecrets.Settings{},
		},
		{
			name: "list of secrets",
			tree: configtree.Tree{"awssecrets": map[string]any{
				"endpointOverride": "http://localhost:4566",
				"secrets": []any{
					map[string]any{"awsName": "one", "mergePath": "a"},
					map[string]any{"awsName": "two", "jsonTransformer": "rds-to-hikari-datasource"},
				},
			}},
			want: awssecrets.Settings{
				EndpointOverride: "http://localhost:4566",
				Secrets: []awssecrets.Descriptor{
					{ID: "0", AWSName: "one", MergePath: "a"},
					{ID: "1", AWSName: "two", JSONTransformer: "rds-to-hikari-datasource"},
				},
			},
		},
		{
			name: "map of secrets sorted by id",
			tree: configtree.Tree{"awssecrets": map[string]any{
				"secrets": map[string]any{
					"zeta":  map[string]any{"awsName": "z"},
					"alpha": map[string]any{"awsName": "a", "mergePath": "jdbc.main"},
				},
			}},
			want: awssecrets.Settings{
				Secrets: []awssecrets.Descriptor{
					{ID: "alpha", AWSName: "a", MergePath: "jdbc.main"},
					{ID: "zeta", AWSName: "z"},
				},
			},
		},
		{
			name: "keys spelled by environment overrides",
			tree: configtree.Tree{"awssecrets": map[string]any{
				"endpoint_override": "http://localhost:4566",
				"secrets": map[string]any{
					"db": map[string]any{"aws_name": "prod/db", "mergepath": "jdbc.main", "JSON_TRANSFORMER": "rds-to-hikari-datasource"},
				},
			}},
			want: awssecrets.Settings{
				EndpointOverride: "http://localhost:4566",
				Secrets: []awssecrets.Descriptor{
					{ID: "db", AWSName: "prod/db", MergePath: "jdbc.main", JSONTransformer: "rds-to-hikari-datasource"},
				},
			},
		},
		{
			name: "missing awsName",
			tree: configtree.Tree{"awssecrets": map[string]any{
				"secrets": []any{map[string]any{"mergePath": "a"}},
			}},
			wantErr: "awsName",
		},
		{
			name: "unknown descriptor key",
			tree: configtree.Tree{"awssecrets": map[string]any{
				"secrets": map[string]any{"db": map[string]any{"awsName": "a", "transformer": "x"}},
			}},
			wantErr: "transformer",
		},
		{
			name: "relative endpoint",
			tree: configtree.Tree{"awssecrets": map[string]any{
				"endpointOverride": "localhost:4566",
			}},
			wantErr: "endpointOverride",
		},
		{
			name:    "section is not an object",
			tree:    configtree.Tree{"awssecrets": "yes"},
			wantErr: "invalid secrets configuration",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := awssecrets.Parse(tt.tree)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.True(t, dserrors.IsConfigError(err))
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseSettingsFromEnvironment(t *testing.T) {
	t.Parallel()

	tree, err := configtree.EnvLoader{
		Prefix: "AWSCONF_",
		Environ: func() []string {
			return []string{
				"AWSCONF_AWSSECRETS__ENDPOINT_OVERRIDE=http://localhost:4566",
				"AWSCONF_AWSSECRETS__SECRETS__DB__AWS_NAME=prod/db",
				"AWSCONF_AWSSECRETS__SECRETS__DB__MERGE_PATH=jdbc.main",
			}
		},
	}.UpdateConfiguration(context.Background(), configtree.New())
	require.NoError(t, err)

	got, err := awssecrets.Parse(tree)
	require.NoError(t, err)
	assert.Equal(t, awssecrets.Settings{
		EndpointOverride: "http://localhost:4566",
		Secrets:          []awssecrets.Descriptor{{ID: "db", AWSName: "prod/db", MergePath: "jdbc.main"}},
	}, got)
}
