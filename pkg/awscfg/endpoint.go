package awscfg

import (
	"strings"

	dserrors "github.com/systmms/awsconf/internal/errors"
)

// ValidateEndpoint checks a service endpoint override. Empty means no
// override.
func ValidateEndpoint(field, endpoint string) error {
	if endpoint == "" {
		return nil
	}
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		return dserrors.ConfigError{
			Field:      field,
			Value:      endpoint,
			Message:    "endpoint override must be an absolute http(s) URL",
			Suggestion: "Example: http://localhost:4566",
		}
	}
	return nil
}
