// Package session holds the client's bearer token.
//
// A Store owns exactly one token slot backed by a durable Backend, so a
// login survives process restarts. The composition root opens the Store
// once and hands it to the API client (read-only, through AuthHeader) and
// to the command router (which decides on login, logout and expiry).
//
// Backends:
//
//   - FileBackend: a single 0600 file, written atomically
//   - BadgerBackend: one key in an embedded Badger database
//   - MemoryBackend: process-local, for tests and ephemeral runs
//
// A Sealer can encrypt the persisted token with a passphrase-derived key.
package session
