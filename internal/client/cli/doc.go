// Package cli provides the interactive catvote command-line client.
//
// It wires configuration, local storage, the remote vote service and the
// voting coordinator behind a small REPL. Votes are debounced per image,
// applied optimistically and reported back as their state changes.
//
// Key features:
//   - gallery listing with each image's voting state
//   - up/down votes, retry of failed votes, per-image status
//   - anonymous identity management (whoami, newid, resetid)
//   - online/offline tracking with a refresh when the service comes back
//   - a local mirror of the last known votes, shown before the first fetch
//
// The REPL is started via App.Run(ctx, in), which blocks until the user
// exits or ctx is cancelled.
package cli
