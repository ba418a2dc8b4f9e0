package s3client_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/systmms/awsconf/pkg/s3client"
	"github.com/systmms/awsconf/tests/fakes"
)

func TestListBuckets(t *testing.T) {
	t.Parallel()

	client := &fakes.FakeS3Client{Buckets: []string{"logs", "assets", "backups"}, PageSize: 2}

	names, err := s3client.ListBuckets(context.Background(), client)
	require.NoError(t, err)
	assert.Equal(t, []string{"assets", "backups", "logs"}, names)
}

func TestListBucketsError(t *testing.T) {
	t.Parallel()

	boom := errors.New("AccessDenied: nope")
	_, err := s3client.ListBuckets(context.Background(), &fakes.FakeS3Client{Err: boom})

	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "s3:ListAllMyBuckets")
}
