// Package client is the API gateway of covy.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic contract (see the Client interface) covering the
//     remote endpoints the client consumes: users, CV profiles and cover
//     letters, plus a health Ping.
//  2. A concrete HTTP+JSON implementation (see HTTPClient) built around a
//     single Request primitive. Every domain operation is a thin typed
//     wrapper with a fixed method and path.
//
// # Error Handling
//
// A non-success status becomes an *APIError whose message prefers the
// server's "detail" field, then the first 100 characters of the raw body,
// then "HTTP error! status: N". Network failures become a *TransportError
// that wraps the original error. Both are logged before they are returned
// and can be matched with errors.Is against ErrUnavailable, ErrNotFound and
// ErrBadRequest.
//
// Concurrency & Contexts
//
// HTTPClient is safe for concurrent use. All operations accept a
// context.Context and honor cancellation; each request is additionally
// bounded by the configured timeout.
package client
