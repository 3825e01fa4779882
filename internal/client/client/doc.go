// Package client talks to the remote ledger and identity service on behalf of
// the wallet CLI.
//
// # Overview
//
// Client is the transport-agnostic collaborator contract: login, enrollment,
// second-factor verification, transfers, history, search and profile calls.
// LedgerClient implements it over one of two transports:
//
//   - NewHTTPClient: JSON over REST, paths under /api (see package api).
//   - NewGRPCClient: the same JSON bodies over gRPC with the "json" content
//     subtype, plus a request-id interceptor.
//
// # Error Handling
//
// Every failure is reported as one of the sentinel errors in errors.go and
// should be matched with errors.Is. The error code in the response body wins;
// when it is missing the transport status decides (401/403 and
// Unauthenticated mean ErrSessionInvalid, 5xx and connection failures mean
// ErrUnavailable, and so on). Nothing is retried here.
//
// # Concurrency & Contexts
//
// LedgerClient is safe for concurrent use. All calls honor ctx cancellation.
package client
