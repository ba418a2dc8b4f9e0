package fakes

import (
	"context"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
)

// FakeCredentialsProvider is an aws.CredentialsProvider returning fixed
// credentials or a fixed error, and counting calls.
//
// Example usage:
//
//	p := fakes.NewFakeCredentialsProvider("AKIA...", "secret")
//	failing := fakes.FailingCredentialsProvider(errors.New("no imds"))
type FakeCredentialsProvider struct {
	Credentials aws.Credentials
	Err         error

	// Trace, when set, receives Name on every Retrieve call
	Trace *CallTrace
	Name  string

	mu    sync.Mutex
	calls int
}

// NewFakeCredentialsProvider returns a provider resolving the given keys
func NewFakeCredentialsProvider(accessKey, secretKey string) *FakeCredentialsProvider {
	return &FakeCredentialsProvider{
		Credentials: aws.Credentials{
			AccessKeyID:     accessKey,
			SecretAccessKey: secretKey,
			Source:          "FakeCredentialsProvider",
		},
	}
}

// FailingCredentialsProvider returns a provider that always fails with err
func FailingCredentialsProvider(err error) *FakeCredentialsProvider {
	return &FakeCredentialsProvider{Err: err}
}

// Named sets the name recorded into a CallTrace
func (f *FakeCredentialsProvider) Named(name string, trace *CallTrace) *FakeCredentialsProvider {
	f.Name = name
	f.Trace = trace
	return f
}

// Retrieve implements aws.CredentialsProvider
func (f *FakeCredentialsProvider) Retrieve(context.Context) (aws.Credentials, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	if f.Trace != nil {
		f.Trace.Record(f.Name)
	}
	if f.Err != nil {
		return aws.Credentials{}, f.Err
	}
	return f.Credentials, nil
}

// Calls returns the number of Retrieve calls
func (f *FakeCredentialsProvider) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// CallTrace records the order in which fakes are invoked
type CallTrace struct {
	mu    sync.Mutex
	names []string
}

// Record appends a name
func (c *CallTrace) Record(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.names = append(c.names, name)
}

// Names returns the recorded names in call order
func (c *CallTrace) Names() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.names...)
}
