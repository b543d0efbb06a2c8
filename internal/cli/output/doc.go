// Package output renders command results.
//
// Every command hands its result to a Formatter: table for people, JSON
// or YAML for scripts. Money goes through Money, advisor text through
// Markdown, and long backend calls show a Spinner on interactive
// terminals only.
package output
