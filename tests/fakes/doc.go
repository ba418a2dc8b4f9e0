// Package fakes provides test doubles for the AWS SDK interfaces used by
// awsconf.
//
// Fakes are manually implemented (not generated) to provide precise control
// over test behavior.
//
// Usage:
//
//	sm := fakes.NewFakeSecretsManagerClient().
//	    AddSecretString("prod/db", `{"username":"u","password":"p"}`)
//	store := awssecrets.NewStore(sm)
//	// Test the secrets pipeline...
package fakes
