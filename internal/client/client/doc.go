// Package client contains the remote gateway of the homelights CLI.
//
// # Overview
//
// The package provides:
//  1. A transport contract (see the Client interface) describing every call
//     the session store makes against the home-automation backend.
//  2. An HTTP implementation (see HTTPClient) with a single entry point,
//     Request, that attaches the bearer token, encodes the payload as query
//     parameters for GET and as a JSON body otherwise, and turns error
//     responses into typed errors. Thin helpers on top (Login, GetDevices,
//     ControlLight, ...) unwrap the response envelopes.
//  3. Local persistence bootstrap utilities (InitDatabase, RunMigrations) for
//     the CLI, wiring an SQLite database and applying embedded goose migrations.
//
// # Error Handling
//
// Failures are exposed as sentinel errors that callers match with errors.Is:
//
//   - ErrUnavailable: no response was received.
//   - ErrValidation: the body listed per-field errors (*ValidationError).
//   - ErrOperation: the body carried a single message (*ResponseError).
//   - ErrUnauthorized: a *ResponseError with status 401.
//
// Concurrency & Contexts
//
// HTTPClient is safe for concurrent use. All operations accept a
// context.Context; no timeout is imposed beyond what the caller sets.
package client
