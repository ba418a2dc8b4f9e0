package s3client_test

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	dserrors "github.com/systmms/awsconf/internal/errors"
	"github.com/systmms/awsconf/pkg/awscfg"
	"github.com/systmms/awsconf/pkg/configtree"
	"github.com/systmms/awsconf/pkg/s3client"
	"github.com/systmms/awsconf/tests/fakes"
)

func testConfig(region string) awscfg.Config {
	return awscfg.Config{
		DefaultRegion: region,
		Credentials:   fakes.NewFakeCredentialsProvider("AKIA", "s"),
	}
}

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		tree    configtree.Tree
		want    s3client.Settings
		wantErr string
	}{
		{
			name: "absent section defaults",
			tree: configtree.Tree{},
			want: s3client.Settings{Type: "default"},
		},
		{
			name: "endpoint override",
			tree: configtree.Tree{"awss3": map[string]any{"endpointOverride": "http://localhost:4566", "forcePathStyle": "true"}},
			want: s3client.Settings{Type: "default", EndpointOverride: "http://localhost:4566", ForcePathStyle: true},
		},
		{
			name:    "unknown type",
			tree:    configtree.Tree{"awss3": map[string]any{"type": "minio"}},
			wantErr: "unknown S3 client factory type",
		},
		{
			name:    "relative endpoint",
			tree:    configtree.Tree{"awss3": map[string]any{"endpointOverride": "localhost:4566"}},
			wantErr: "absolute http(s) URL",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := s3client.Parse(tt.tree)
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

func TestEndpointOverrideKeepsRegion(t *testing.T) {
	t.Parallel()

	factory := s3client.NewFactory(testConfig("us-west-2"), s3client.Settings{
		EndpointOverride: "http://localhost:4566",
		ForcePathStyle:   true,
	})

	client, err := factory.NewClient(context.Background())
	require.NoError(t, err)

	opts := client.Options()
	assert.Equal(t, "http://localhost:4566", aws.ToString(opts.BaseEndpoint))
	assert.Equal(t, "us-west-2", opts.Region)
	assert.True(t, opts.UsePathStyle)
}

func TestNoOverrideUsesDefaultRegion(t *testing.T) {
	t.Parallel()

	client, err := s3client.NewFactory(testConfig("eu-west-1"), s3client.Settings{}).NewClient(context.Background())
	require.NoError(t, err)

	opts := client.Options()
	assert.Nil(t, opts.BaseEndpoint)
	assert.Equal(t, "eu-west-1", opts.Region)
}

func TestBuilderOverrides(t *testing.T) {
	t.Parallel()

	client, err := s3client.NewFactory(testConfig("eu-west-1"), s3client.Settings{}).
		NewBuilder().
		Region("ap-northeast-1").
		EndpointOverride("https://s3.example.test").
		Build(context.Background())
	require.NoError(t, err)

	opts := client.Options()
	assert.Equal(t, "ap-northeast-1", opts.Region)
	assert.Equal(t, "https://s3.example.test", aws.ToString(opts.BaseEndpoint))
}

func TestBuilderRejectsBadEndpoint(t *testing.T) {
	t.Parallel()

	_, err := s3client.NewFactory(testConfig("eu-west-1"), s3client.Settings{}).
		NewBuilder().
		EndpointOverride("not a url").
		Build(context.Background())
	require.Error(t, err)
}
