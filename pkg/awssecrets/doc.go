// Package awssecrets merges secrets stored in AWS Secrets Manager into the
// application configuration tree at startup.
//
// Secrets are declared under the awssecrets section, either as a list or as
// a map keyed by an id:
//
//	awssecrets:
//	  endpointOverride: http://localhost:4566   # optional
//	  secrets:
//	    db:
//	      awsName: prod/rds/main                 # name or ARN
//	      mergePath: jdbc.main                   # empty merges at the root
//	      jsonTransformer: rds-to-hikari-datasource
//
// Each secret must be a JSON object. After the optional transformer runs, its
// top-level fields are written as string leaves under mergePath, exactly like
// property overrides: last write wins per leaf, siblings are kept. Nested
// objects and arrays are written as compact JSON text; transformers are
// expected to flatten anything that needs structure.
//
// The Loader runs after files, environment and property overrides, so secret
// values override file defaults. It reads its own settings directly from the
// partially merged tree and builds a Secrets Manager client for that one
// call; when no secrets are declared no client is built at all.
package awssecrets
