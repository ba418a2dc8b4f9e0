package awssecrets_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/secretsmanager/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	dserrors "github.com/systmms/awsconf/internal/errors"
	"github.com/systmms/awsconf/internal/logging"
	"github.com/systmms/awsconf/pkg/awssecrets"
	"github.com/systmms/awsconf/pkg/configtree"
	"github.com/systmms/awsconf/tests/fakes"
)

func storeWith(secrets map[string]string) *awssecrets.Store {
	client := fakes.NewFakeSecretsManagerClient()
	for name, value := range secrets {
		client.AddSecretString(name, value)
	}
	return awssecrets.NewStore(client)
}

func TestApplyMergesUnderPath(t *testing.T) {
	t.Parallel()

	store := storeWith(map[string]string{"app/db": `{"user":"admin","pass":"s3cret"}`})
	tree := configtree.Tree{
		"db": map[string]any{"pool": map[string]any{"size": 5, "user": "default"}},
	}

	d := awssecrets.Descriptor{ID: "db", AWSName: "app/db", MergePath: "db.pool"}
	got, err := d.Apply(context.Background(), store, nil, tree)
	require.NoError(t, err)

	assert.Equal(t, configtree.Tree{
		"db": map[string]any{"pool": map[string]any{"size": 5, "user": "admin", "pass": "s3cret"}},
	}, got)
}

func TestApplyEmptyMergePathWritesRoot(t *testing.T) {
	t.Parallel()

	store := storeWith(map[string]string{"flat": `{"a":"1","b":"2"}`})

	got, err := awssecrets.Descriptor{AWSName: "flat"}.Apply(context.Background(), store, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, configtree.Tree{"a": "1", "b": "2"}, got)
}

func TestPropertiesValueText(t *testing.T) {
	t.Parallel()

	store := storeWith(map[string]string{
		"mixed": `{"port":7890,"ratio":0.25,"big":12345678901234567890,"on":true,"off":false,"none":null,"nested":{"k":"v"},"list":[1,"a"]}`,
	})

	props, err := awssecrets.Descriptor{AWSName: "mixed", MergePath: "x"}.Properties(context.Background(), store, nil)
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"x.port":   "7890",
		"x.ratio":  "0.25",
		"x.big":    "12345678901234567890",
		"x.on":     "true",
		"x.off":    "false",
		"x.none":   "",
		"x.nested": `{"k":"v"}`,
		"x.list":   `[1,"a"]`,
	}, props)
}

func TestApplyRejectsNonObjects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		payload string
		kind    string
	}{
		{name: "array", payload: `[1,2,3]`, kind: "array"},
		{name: "string", payload: `"hello"`, kind: "string"},
		{name: "number", payload: `42`, kind: "number"},
		{name: "null", payload: `null`, kind: "null"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			store := storeWith(map[string]string{"bad/secret": tt.payload})
			_, err := awssecrets.Descriptor{AWSName: "bad/secret"}.Apply(context.Background(), store, nil, configtree.New())

			require.Error(t, err)
			assert.True(t, dserrors.IsConfigError(err))
			assert.Contains(t, err.Error(), "'bad/secret'")
			assert.Contains(t, err.Error(), "not a JSON object: "+tt.kind)
		})
	}
}

func TestApplyRejectsInvalidJSON(t *testing.T) {
	t.Parallel()

	store := storeWith(map[string]string{"broken": `{"a":`})
	_, err := awssecrets.Descriptor{AWSName: "broken"}.Apply(context.Background(), store, nil, configtree.New())

	require.Error(t, err)
	assert.True(t, dserrors.IsConfigError(err))
	assert.Contains(t, err.Error(), "'broken' is not valid JSON")
}

func TestApplyUnknownTransformer(t *testing.T) {
	t.Parallel()

	client := fakes.NewFakeSecretsManagerClient().AddSecretString("s", `{}`)
	d := awssecrets.Descriptor{ID: "main", AWSName: "s", JSONTransformer: "nope"}

	_, err := d.Apply(context.Background(), awssecrets.NewStore(client), awssecrets.DefaultTransformers(logging.Discard()), configtree.New())

	require.Error(t, err)
	assert.True(t, dserrors.IsConfigError(err))
	assert.Contains(t, err.Error(), "nope")
	assert.Contains(t, err.Error(), "rds-to-hikari-datasource")
	assert.Empty(t, client.Calls(), "secret must not be fetched for an unknown transformer")
}

func TestApplyWithTransformer(t *testing.T) {
	t.Parallel()

	store := storeWith(map[string]string{
		"rds": `{"engine":"fakedb","host":"h","port":7890,"dbname":"mydb","username":"u","password":"p"}`,
	})
	d := awssecrets.Descriptor{AWSName: "rds", MergePath: "jdbc.main", JSONTransformer: awssecrets.RDSTransformerName}

	got, err := d.Apply(context.Background(), store, awssecrets.DefaultTransformers(logging.Discard()), configtree.New())
	require.NoError(t, err)

	assert.Equal(t, configtree.Tree{
		"jdbc": map[string]any{"main": map[string]any{
			"username": "u",
			"password": "p",
			"jdbcUrl":  "jdbc:fakedb://h:7890/mydb",
		}},
	}, got)
}

func TestApplyTransformerError(t *testing.T) {
	t.Parallel()

	store := storeWith(map[string]string{"s": `{"a":"b"}`})
	boom := errors.New("boom")
	transformers := awssecrets.Transformers{
		"fail": awssecrets.TransformerFunc(func(map[string]any) (map[string]any, error) { return nil, boom }),
	}

	_, err := awssecrets.Descriptor{AWSName: "s", JSONTransformer: "fail"}.Apply(context.Background(), store, transformers, configtree.New())
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "transformer 'fail'")
}

func TestApplySecretNotFound(t *testing.T) {
	t.Parallel()

	store := storeWith(nil)
	_, err := awssecrets.Descriptor{AWSName: "missing/secret"}.Apply(context.Background(), store, nil, configtree.New())

	var notFound *awssecrets.SecretNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "missing/secret", notFound.ID)

	var rnf *types.ResourceNotFoundException
	assert.ErrorAs(t, err, &rnf)
	assert.False(t, dserrors.IsConfigError(err))
	assert.True(t, strings.Contains(err.Error(), "missing/secret"))
}
