package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	dserrors "github.com/systmms/awsconf/internal/errors"
)

// AssertNoSecretLeak verifies that none of the secret values appear in output
// and that at least one [REDACTED] marker does.
//
// Example usage:
//
//	AssertNoSecretLeak(t, out.String(), []string{"s3cret", "AKIAEXAMPLE"})
func AssertNoSecretLeak(t *testing.T, output string, secrets []string) {
	t.Helper()

	for _, secret := range secrets {
		assert.NotContains(t, output, secret,
			"Secret %q should be redacted, but appears in output", secret)
	}

	assert.Contains(t, output, "[REDACTED]",
		"Expected at least one [REDACTED] marker in output")
}

// AssertConfigError verifies err is a configuration error mentioning substr
func AssertConfigError(t *testing.T, err error, substr string) {
	t.Helper()

	if !assert.Error(t, err, "Expected a configuration error containing %q", substr) {
		return
	}
	assert.True(t, dserrors.IsConfigError(err), "Expected a ConfigError, got %T: %v", err, err)
	assert.Contains(t, err.Error(), substr)
}
