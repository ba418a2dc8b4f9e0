package credentials

import (
	"context"
	"fmt"
	"os"
	"reflect"
	"sort"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials/ec2rolecreds"
	"github.com/aws/aws-sdk-go-v2/credentials/endpointcreds"
	dserrors "github.com/systmms/awsconf/internal/errors"
)

// Standard orders for the built-in fallback sources
const (
	DefaultChainOrder = 10
	EnvOrder          = DefaultChainOrder + 10
	InstanceOrder     = EnvOrder + 10
	ContainerOrder    = InstanceOrder + 10
)

// containerCredentialsHost is the ECS task metadata endpoint used with
// AWS_CONTAINER_CREDENTIALS_RELATIVE_URI
const containerCredentialsHost = "http://169.254.170.2"

// OrderedProvider is a fallback credentials source with its priority.
// Lower orders are tried first.
type OrderedProvider struct {
	Order    int
	Provider aws.CredentialsProvider
}

// Registry is the set of fallback credentials sources. Membership is by
// *OrderedProvider identity; equal orders are allowed.
type Registry struct {
	mu        sync.Mutex
	providers []*OrderedProvider
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{}
}

// Add registers an ordered provider. Adding the same pointer twice is a
// no-op, as is adding nil or an entry without a provider.
func (r *Registry) Add(p *OrderedProvider) *Registry {
	if p == nil || isNilProvider(p.Provider) {
		return r
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.providers {
		if existing == p {
			return r
		}
	}
	r.providers = append(r.providers, p)
	return r
}

// AddProvider registers provider with the given order
func (r *Registry) AddProvider(provider aws.CredentialsProvider, order int) *Registry {
	return r.Add(&OrderedProvider{Order: order, Provider: provider})
}

// AddDefaultChain registers the SDK default credentials chain (environment,
// shared files, web identity, ECS, EC2)
func (r *Registry) AddDefaultChain() *Registry {
	return r.AddProvider(&DefaultChainProvider{}, DefaultChainOrder)
}

// AddEnvProvider registers a source reading AWS_ACCESS_KEY_ID,
// AWS_SECRET_ACCESS_KEY and AWS_SESSION_TOKEN. This is what AWS Lambda
// exposes to functions.
func (r *Registry) AddEnvProvider(order int) *Registry {
	return r.AddProvider(EnvProvider{}, order)
}

// AddProfileProvider registers a source reading a shared config profile
func (r *Registry) AddProfileProvider(profile string, order int) *Registry {
	return r.AddProvider(NewProfileProvider(profile), order)
}

// AddInstanceProvider registers the EC2 instance metadata role source
func (r *Registry) AddInstanceProvider(order int) *Registry {
	return r.AddProvider(ec2rolecreds.New(), order)
}

// AddContainerProvider registers the ECS container credentials source. It
// reads AWS_CONTAINER_CREDENTIALS_FULL_URI or
// AWS_CONTAINER_CREDENTIALS_RELATIVE_URI when credentials are retrieved.
func (r *Registry) AddContainerProvider(order int) *Registry {
	return r.AddProvider(aws.CredentialsProviderFunc(retrieveContainerCredentials), order)
}

// Len returns the number of registered sources
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.providers)
}

// Sorted returns the registered sources in ascending order
func (r *Registry) Sorted() []*OrderedProvider {
	r.mu.Lock()
	sorted := append([]*OrderedProvider(nil), r.providers...)
	r.mu.Unlock()

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Order < sorted[j].Order
	})
	return sorted
}

// Resolve returns the effective fallback credentials source: the provider
// itself when exactly one is registered, a ChainProvider otherwise.
func (r *Registry) Resolve() (aws.CredentialsProvider, error) {
	sorted := r.Sorted()

	switch len(sorted) {
	case 0:
		return nil, dserrors.ConfigError{
			Field:      "aws.credentials",
			Message:    "no credentials providers registered and no explicit credentials configured",
			Suggestion: "Set aws.credentials (explicit keys or a profile) or register a fallback credentials provider",
		}
	case 1:
		return sorted[0].Provider, nil
	}

	providers := make([]aws.CredentialsProvider, len(sorted))
	for i, op := range sorted {
		providers[i] = op.Provider
	}
	return NewChainProvider(providers...), nil
}

func isNilProvider(p aws.CredentialsProvider) bool {
	if p == nil {
		return true
	}
	v := reflect.ValueOf(p)
	switch v.Kind() {
	case reflect.Pointer, reflect.Func, reflect.Map, reflect.Interface:
		return v.IsNil()
	}
	return false
}

func retrieveContainerCredentials(ctx context.Context) (aws.Credentials, error) {
	endpoint := os.Getenv("AWS_CONTAINER_CREDENTIALS_FULL_URI")
	if endpoint == "" {
		if rel := os.Getenv("AWS_CONTAINER_CREDENTIALS_RELATIVE_URI"); rel != "" {
			endpoint = containerCredentialsHost + rel
		}
	}
	if endpoint == "" {
		return aws.Credentials{}, fmt.Errorf("container credentials endpoint not set")
	}

	return endpointcreds.New(endpoint, func(o *endpointcreds.Options) {
		o.AuthorizationToken = os.Getenv("AWS_CONTAINER_AUTHORIZATION_TOKEN")
	}).Retrieve(ctx)
}
