// Package command defines the moneygrowth command tree on urfave/cli/v2.
//
// Every command reaches the backend through the Runtime stored in the
// App metadata: one session Store and one API client per process, shared
// by all lines of an interactive session. Protected command groups install
// RequireSession as their Before hook so a logged-out user gets a local
// error instead of a 401.
//
// Output goes through rt.render, which honours --output: table mode uses a
// command-specific view, json and yaml encode the underlying value.
package command
