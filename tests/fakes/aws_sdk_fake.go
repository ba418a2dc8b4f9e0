package fakes

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager/types"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// FakeSecretsManagerClient is a fake of the GetSecretValue subset of the
// Secrets Manager client
type FakeSecretsManagerClient struct {
	// Secrets maps secret names (or ARNs) to their data
	Secrets map[string]*SecretData
	// Errors maps secret names to errors to return
	Errors map[string]error
	// GetSecretValueFunc allows custom behavior for GetSecretValue
	GetSecretValueFunc func(ctx context.Context, params *secretsmanager.GetSecretValueInput) (*secretsmanager.GetSecretValueOutput, error)

	mu    sync.Mutex
	calls []string
}

// SecretData holds the data for a fake secret
type SecretData struct {
	SecretString  *string
	SecretBinary  []byte
	VersionId     *string
	VersionStages []string
	CreatedDate   *time.Time
}

// NewFakeSecretsManagerClient creates a new fake Secrets Manager client
func NewFakeSecretsManagerClient() *FakeSecretsManagerClient {
	return &FakeSecretsManagerClient{
		Secrets: make(map[string]*SecretData),
		Errors:  make(map[string]error),
	}
}

// AddSecretString adds a string secret to the fake client
func (f *FakeSecretsManagerClient) AddSecretString(name, value string) *FakeSecretsManagerClient {
	now := time.Now()
	f.Secrets[name] = &SecretData{
		SecretString:  aws.String(value),
		VersionId:     aws.String("v1-abc123"),
		VersionStages: []string{"AWSCURRENT"},
		CreatedDate:   &now,
	}
	return f
}

// AddSecretBinary adds a binary secret to the fake client
func (f *FakeSecretsManagerClient) AddSecretBinary(name string, value []byte) *FakeSecretsManagerClient {
	now := time.Now()
	f.Secrets[name] = &SecretData{
		SecretBinary:  value,
		VersionId:     aws.String("v1-abc123"),
		VersionStages: []string{"AWSCURRENT"},
		CreatedDate:   &now,
	}
	return f
}

// AddError configures the fake to return an error for a specific secret
func (f *FakeSecretsManagerClient) AddError(name string, err error) *FakeSecretsManagerClient {
	f.Errors[name] = err
	return f
}

// Calls returns the secret ids requested so far, in order
func (f *FakeSecretsManagerClient) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// GetSecretValue fakes the GetSecretValue operation
func (f *FakeSecretsManagerClient) GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	secretName := aws.ToString(params.SecretId)

	f.mu.Lock()
	f.calls = append(f.calls, secretName)
	f.mu.Unlock()

	if f.GetSecretValueFunc != nil {
		return f.GetSecretValueFunc(ctx, params)
	}

	if err, exists := f.Errors[secretName]; exists {
		return nil, err
	}

	data, exists := f.Secrets[secretName]
	if !exists {
		return nil, &types.ResourceNotFoundException{
			Message: aws.String(fmt.Sprintf("Secrets Manager can't find the specified secret: %s", secretName)),
		}
	}

	return &secretsmanager.GetSecretValueOutput{
		ARN:           aws.String(fmt.Sprintf("arn:aws:secretsmanager:us-east-1:123456789012:secret:%s", secretName)),
		Name:          params.SecretId,
		SecretString:  data.SecretString,
		SecretBinary:  data.SecretBinary,
		VersionId:     data.VersionId,
		VersionStages: data.VersionStages,
		CreatedDate:   data.CreatedDate,
	}, nil
}

// FakeS3Client fakes the ListBuckets subset of the S3 client. Buckets are
// returned in pages of PageSize (all at once when zero).
type FakeS3Client struct {
	Buckets  []string
	PageSize int
	Err      error
}

// ListBuckets fakes the ListBuckets operation
func (f *FakeS3Client) ListBuckets(_ context.Context, params *s3.ListBucketsInput, _ ...func(*s3.Options)) (*s3.ListBucketsOutput, error) {
	if f.Err != nil {
		return nil, f.Err
	}

	start := 0
	if params.ContinuationToken != nil {
		if _, err := fmt.Sscanf(*params.ContinuationToken, "%d", &start); err != nil {
			return nil, err
		}
	}
	end := len(f.Buckets)
	if f.PageSize > 0 && start+f.PageSize < end {
		end = start + f.PageSize
	}

	out := &s3.ListBucketsOutput{}
	for _, name := range f.Buckets[start:end] {
		out.Buckets = append(out.Buckets, s3types.Bucket{Name: aws.String(name)})
	}
	if end < len(f.Buckets) {
		out.ContinuationToken = aws.String(fmt.Sprintf("%d", end))
	}
	return out, nil
}

// FakeSTSClient fakes GetCallerIdentity
type FakeSTSClient struct {
	Account string
	ARN     string
	UserID  string
	Err     error
}

// GetCallerIdentity fakes the GetCallerIdentity operation
func (f *FakeSTSClient) GetCallerIdentity(_ context.Context, _ *sts.GetCallerIdentityInput, _ ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	return &sts.GetCallerIdentityOutput{
		Account: aws.String(f.Account),
		Arn:     aws.String(f.ARN),
		UserId:  aws.String(f.UserID),
	}, nil
}
