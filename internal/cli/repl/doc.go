// Package repl runs moneygrowth interactively.
//
// Each line is split shell-style and handed to an Executor, which runs it
// through the same command tree as single-command mode. The prompt shows
// whether a session is active, history is kept across runs, and a line
// ending in "?" lists the commands that complete it.
package repl
