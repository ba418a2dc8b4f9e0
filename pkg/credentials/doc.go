// Package credentials resolves the single AWS credentials source used by
// every client the application builds.
//
// Resolution order:
//
//  1. Explicit access key and secret key from configuration (an optional
//     session token makes them session credentials). Always wins.
//  2. Otherwise the Registry of fallback sources contributed by the
//     application. One source is used as is; several are chained in
//     ascending Order and the first one that resolves wins.
//  3. No explicit keys and an empty registry is a configuration error at
//     startup.
//
// Sources registered with the same Order are tried in registration order.
// Callers should not depend on that; it is an implementation detail.
package credentials
