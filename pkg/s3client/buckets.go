package s3client

import (
	"context"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	dserrors "github.com/systmms/awsconf/internal/errors"
)

// ListBucketsAPI is the subset of the S3 client used by ListBuckets
type ListBucketsAPI interface {
	ListBuckets(ctx context.Context, params *s3.ListBucketsInput, optFns ...func(*s3.Options)) (*s3.ListBucketsOutput, error)
}

// ListBuckets returns the names of all buckets visible to the client, sorted
func ListBuckets(ctx context.Context, client ListBucketsAPI) ([]string, error) {
	var names []string
	paginator := s3.NewListBucketsPaginator(client, &s3.ListBucketsInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, dserrors.ProviderError("s3", "ListBuckets", err)
		}
		for _, b := range page.Buckets {
			names = append(names, aws.ToString(b.Name))
		}
	}
	sort.Strings(names)
	return names, nil
}
