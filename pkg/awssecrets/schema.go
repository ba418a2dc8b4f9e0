package awssecrets

import (
	"fmt"
	"strings"

	dserrors "github.com/systmms/awsconf/internal/errors"
	"github.com/xeipuuv/gojsonschema"
)

const settingsSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "endpointOverride": { "type": "string", "pattern": "^https?://" },
    "secrets": {
      "oneOf": [
        { "type": "array", "items": { "$ref": "#/definitions/secret" } },
        { "type": "object", "additionalProperties": { "$ref": "#/definitions/secret" } }
      ]
    }
  },
  "definitions": {
    "secret": {
      "type": "object",
      "properties": {
        "awsName": { "type": "string", "minLength": 1 },
        "mergePath": { "type": "string" },
        "jsonTransformer": { "type": "string", "minLength": 1 }
      },
      "required": ["awsName"],
      "additionalProperties": false
    }
  }
}`

var schemaLoader = gojsonschema.NewStringLoader(settingsSchema)

// validateSettings checks the raw awssecrets node against the schema
func validateSettings(node any) error {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewGoLoader(node))
	if err != nil {
		return dserrors.ConfigError{
			Field:   ConfigPrefix,
			Message: fmt.Sprintf("schema validation error: %v", err),
		}
	}

	if !result.Valid() {
		var errorMessages []string
		for _, desc := range result.Errors() {
			errorMessages = append(errorMessages, desc.String())
		}
		return dserrors.ConfigError{
			Field:      ConfigPrefix,
			Message:    fmt.Sprintf("invalid secrets configuration:\n  - %s", strings.Join(errorMessages, "\n  - ")),
			Suggestion: "Each secret needs a non-empty 'awsName' and may set 'mergePath' and 'jsonTransformer'",
		}
	}
	return nil
}
