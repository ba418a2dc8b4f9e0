package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/systmms/awsconf/internal/errors"
)

// TestUserErrorFormatting verifies UserError displays properly
func TestUserErrorFormatting(t *testing.T) {
	t.Parallel()

	err := errors.UserError{
		Message:    "Operation failed",
		Details:    "Connection timeout",
		Suggestion: "Check network connectivity",
	}

	errMsg := err.Error()

	assert.Contains(t, errMsg, "Operation failed")
	assert.Contains(t, errMsg, "Connection timeout")
	assert.Contains(t, errMsg, "Check network connectivity")
	assert.Contains(t, errMsg, "💡")
}

// TestConfigErrorFormatting verifies ConfigError displays with context
func TestConfigErrorFormatting(t *testing.T) {
	t.Parallel()

	err := errors.ConfigError{
		Field:      "awssecrets.secrets[0].jsonTransformer",
		Value:      "nope",
		Message:    "unknown transformer",
		Suggestion: "Known transformers: rds-to-hikari-datasource",
	}

	errMsg := err.Error()

	assert.Contains(t, errMsg, "awssecrets.secrets[0].jsonTransformer")
	assert.Contains(t, errMsg, "nope")
	assert.Contains(t, errMsg, "unknown transformer")
	assert.Contains(t, errMsg, "rds-to-hikari-datasource")
}

func TestIsConfigError(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("bootstrap: %w", errors.ConfigError{Message: "bad"})
	assert.True(t, errors.IsConfigError(wrapped))
	assert.True(t, errors.IsConfigError(&errors.ConfigError{Message: "bad"}))
	assert.False(t, errors.IsConfigError(stderrors.New("plain")))
}

// TestProviderErrorSuggestions verifies AWS-specific suggestions
func TestProviderErrorSuggestions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		service    string
		err        error
		suggestion string
	}{
		{
			name:       "secretsmanager not found",
			service:    "secretsmanager",
			err:        stderrors.New("ResourceNotFoundException: no such secret"),
			suggestion: "Verify the secret name and region",
		},
		{
			name:       "secretsmanager access denied",
			service:    "secretsmanager",
			err:        stderrors.New("AccessDeniedException"),
			suggestion: "secretsmanager:GetSecretValue",
		},
		{
			name:       "sts expired token",
			service:    "sts",
			err:        stderrors.New("ExpiredToken: token expired"),
			suggestion: "session token has expired",
		},
		{
			name:       "generic connection refused",
			service:    "s3",
			err:        stderrors.New("dial tcp: connection refused"),
			suggestion: "endpointOverride",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := errors.ProviderError(tt.service, "test", tt.err)
			assert.Contains(t, err.Error(), tt.suggestion)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestSimplifyError(t *testing.T) {
	t.Parallel()

	assert.Nil(t, errors.SimplifyError(nil))

	yamlErr := fmt.Errorf("load: %w", stderrors.New("yaml: line 3: mapping values are not allowed"))
	simplified := errors.SimplifyError(yamlErr)
	assert.True(t, errors.IsConfigError(simplified))

	ce := errors.ConfigError{Message: "keep"}
	assert.Equal(t, ce, errors.SimplifyError(ce))

	plain := stderrors.New("something else")
	assert.Equal(t, plain, errors.SimplifyError(plain))
}
