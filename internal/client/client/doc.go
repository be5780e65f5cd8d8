// Package client contains the client-side infrastructure of catvote.
//
// # Overview
//
// The package provides:
//  1. The remote vote service contract (see the Client interface): Ping,
//     FetchImages, FetchVotes and SubmitVote.
//  2. A REST implementation (see HTTPClient) for The Cat API style service.
//     It injects the x-api-key header, decodes numeric or string ids and maps
//     failures to sentinel errors.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations) opening the
//     SQLite database and applying the embedded goose migrations.
//
// # Error Handling
//
// Failures are wrapped around sentinel errors that callers match with
// errors.Is: ErrTransport when the service cannot be reached and ErrService
// for non-success statuses or unusable bodies. Context cancellation stays
// visible through the wrap chain.
//
// # Concurrency & Contexts
//
// HTTPClient is safe for concurrent use. Every call accepts a context.Context
// and honours cancellation; request timeouts come from the configured
// http.Client.
package client
