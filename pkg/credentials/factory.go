package credentials

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscreds "github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/credentials/stscreds"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	dserrors "github.com/systmms/awsconf/internal/errors"
	"github.com/systmms/awsconf/pkg/configtree"
)

// DefaultProfileName is used when a profile factory has no profile set
const DefaultProfileName = "default"

// Factory type discriminators
const (
	TypeExplicit   = "explicit"
	TypeProfile    = "profile"
	TypeChain      = "chain"
	TypeAssumeRole = "assumeRole"
)

var knownTypes = []string{TypeExplicit, TypeProfile, TypeChain, TypeAssumeRole}

// configKeys are the canonical spellings of aws.credentials keys
var configKeys = []string{
	"type", "accessKey", "secretKey", "sessionToken", "profile",
	"roleArn", "sessionName", "externalId", "durationSeconds", "source",
}

// Inputs carries what a Factory may need besides its own configuration
type Inputs struct {
	Registry *Registry
	Region   string
}

// Factory produces a credentials source from declarative configuration.
// The set of implementations is closed: Explicit, Profile, ChainFromRegistry
// and AssumeRole.
type Factory interface {
	Type() string
	Create(ctx context.Context, in Inputs) (aws.CredentialsProvider, error)
	isFactory()
}

// Explicit configures static access key credentials
type Explicit struct {
	AccessKey    string `mapstructure:"accessKey"`
	SecretKey    string `mapstructure:"secretKey"`
	SessionToken string `mapstructure:"sessionToken"`
}

// Profile configures credentials from a shared config profile
type Profile struct {
	Profile string `mapstructure:"profile"`
}

// ChainFromRegistry resolves credentials from the fallback Registry
type ChainFromRegistry struct{}

// AssumeRole assumes an IAM role using credentials from Source
type AssumeRole struct {
	RoleARN         string  `mapstructure:"roleArn"`
	SessionName     string  `mapstructure:"sessionName"`
	ExternalID      string  `mapstructure:"externalId"`
	DurationSeconds int     `mapstructure:"durationSeconds"`
	Source          Factory `mapstructure:"-"`
}

func (Explicit) isFactory()          {}
func (Profile) isFactory()           {}
func (ChainFromRegistry) isFactory() {}
func (AssumeRole) isFactory()        {}

// Type implements Factory
func (Explicit) Type() string { return TypeExplicit }

// Type implements Factory
func (Profile) Type() string { return TypeProfile }

// Type implements Factory
func (ChainFromRegistry) Type() string { return TypeChain }

// Type implements Factory
func (AssumeRole) Type() string { return TypeAssumeRole }

// Validate checks that both keys are present
func (e Explicit) Validate() error {
	switch {
	case e.AccessKey == "" && e.SecretKey == "":
		return dserrors.ConfigError{
			Field:   "aws.credentials",
			Message: "'accessKey' and 'secretKey' are not set",
		}
	case e.AccessKey == "":
		return dserrors.ConfigError{
			Field:      "aws.credentials.accessKey",
			Message:    "'secretKey' is set, but 'accessKey' is not",
			Suggestion: "Explicit credentials need both accessKey and secretKey",
		}
	case e.SecretKey == "":
		return dserrors.ConfigError{
			Field:      "aws.credentials.secretKey",
			Message:    "'accessKey' is set, but 'secretKey' is not",
			Suggestion: "Explicit credentials need both accessKey and secretKey",
		}
	}
	return nil
}

// Create implements Factory
func (e Explicit) Create(context.Context, Inputs) (aws.CredentialsProvider, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return awscreds.NewStaticCredentialsProvider(e.AccessKey, e.SecretKey, e.SessionToken), nil
}

// Create implements Factory
func (p Profile) Create(context.Context, Inputs) (aws.CredentialsProvider, error) {
	return NewProfileProvider(p.Profile), nil
}

// Create implements Factory
func (ChainFromRegistry) Create(_ context.Context, in Inputs) (aws.CredentialsProvider, error) {
	registry := in.Registry
	if registry == nil {
		registry = NewRegistry()
	}
	return registry.Resolve()
}

// Validate checks the role configuration
func (a AssumeRole) Validate() error {
	if a.RoleARN == "" {
		return dserrors.ConfigError{
			Field:      "aws.credentials.roleArn",
			Message:    "roleArn is required for assumeRole credentials",
			Suggestion: "Provide the ARN of the role to assume",
		}
	}
	if a.DurationSeconds < 0 {
		return dserrors.ConfigError{
			Field:   "aws.credentials.durationSeconds",
			Value:   a.DurationSeconds,
			Message: "durationSeconds must not be negative",
		}
	}
	return nil
}

// Create implements Factory
func (a AssumeRole) Create(ctx context.Context, in Inputs) (aws.CredentialsProvider, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}
	if in.Region == "" {
		return nil, dserrors.ConfigError{
			Field:      "aws.defaultRegion",
			Message:    "assumeRole credentials need a region to reach STS",
			Suggestion: "Set aws.defaultRegion",
		}
	}

	source := a.Source
	if source == nil {
		source = ChainFromRegistry{}
	}
	base, err := source.Create(ctx, in)
	if err != nil {
		return nil, err
	}

	client := sts.NewFromConfig(aws.Config{Region: in.Region, Credentials: base})
	provider := stscreds.NewAssumeRoleProvider(client, a.RoleARN, func(o *stscreds.AssumeRoleOptions) {
		if a.SessionName != "" {
			o.RoleSessionName = a.SessionName
		}
		if a.ExternalID != "" {
			o.ExternalID = aws.String(a.ExternalID)
		}
		if a.DurationSeconds > 0 {
			o.Duration = time.Duration(a.DurationSeconds) * time.Second
		}
	})
	return aws.NewCredentialsCache(provider), nil
}

// ParseFactory selects the Factory described by an aws.credentials node.
// A missing node selects ChainFromRegistry. A node without a type but with
// accessKey or secretKey is treated as explicit.
func ParseFactory(node map[string]any) (Factory, error) {
	if len(node) == 0 {
		return ChainFromRegistry{}, nil
	}
	node = configtree.CanonicalKeys(node, configKeys...)

	typ, _ := node["type"].(string)
	if typ == "" {
		_, hasAccess := node["accessKey"]
		_, hasSecret := node["secretKey"]
		if hasAccess || hasSecret {
			typ = TypeExplicit
		} else {
			typ = TypeChain
		}
	}

	switch typ {
	case TypeExplicit:
		var f Explicit
		if err := decode(node, &f); err != nil {
			return nil, err
		}
		if err := f.Validate(); err != nil {
			return nil, err
		}
		return f, nil

	case TypeProfile:
		var f Profile
		if err := decode(node, &f); err != nil {
			return nil, err
		}
		return f, nil

	case TypeChain:
		return ChainFromRegistry{}, nil

	case TypeAssumeRole:
		var f AssumeRole
		if err := decode(node, &f); err != nil {
			return nil, err
		}
		if src, ok := node["source"].(map[string]any); ok {
			src = configtree.CanonicalKeys(src, configKeys...)
			if t, _ := src["type"].(string); t == TypeAssumeRole {
				return nil, dserrors.ConfigError{
					Field:   "aws.credentials.source.type",
					Value:   t,
					Message: "assumeRole source cannot itself be assumeRole",
				}
			}
			source, err := ParseFactory(src)
			if err != nil {
				return nil, err
			}
			f.Source = source
		}
		if err := f.Validate(); err != nil {
			return nil, err
		}
		return f, nil

	default:
		return nil, dserrors.ConfigError{
			Field:      "aws.credentials.type",
			Value:      typ,
			Message:    "unknown credentials type",
			Suggestion: fmt.Sprintf("Known types: %s", strings.Join(knownTypes, ", ")),
		}
	}
}

func decode(node map[string]any, out any) error {
	if err := configtree.DecodeNode(node, out); err != nil {
		return dserrors.ConfigError{
			Field:   "aws.credentials",
			Message: fmt.Sprintf("invalid credentials configuration: %v", err),
		}
	}
	return nil
}
