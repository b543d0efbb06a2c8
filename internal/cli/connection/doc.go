// Package connection owns the long-lived objects every command shares:
// the configuration, the session Store and the API client built on it.
//
// The Store is opened lazily, so commands that never talk to the backend
// do not touch session storage. Reconfigure swaps the configuration and
// rebuilds the client, which the REPL uses when the config file changes.
package connection
