package repl

import (
	"slices"
	"strings"
)

// Builtins are handled by the REPL itself.
var Builtins = []string{"exit", "quit", "help", "history"}

// Completer suggests command paths such as "budget latest".
type Completer struct {
	commands []string
}

// NewCompleter creates a Completer over the given command paths plus the
// REPL builtins.
func NewCompleter(paths []string) *Completer {
	cmds := slices.Concat(paths, Builtins)
	slices.Sort(cmds)
	return &Completer{commands: slices.Compact(cmds)}
}

// Complete returns every command path starting with prefix, in order.
// Runs of spaces in prefix are treated as one.
func (c *Completer) Complete(prefix string) []string {
	prefix = strings.Join(strings.Fields(prefix), " ") + trailingSpace(prefix)
	var suggestions []string
	for _, cmd := range c.commands {
		if strings.HasPrefix(cmd, prefix) {
			suggestions = append(suggestions, cmd)
		}
	}
	return suggestions
}

func trailingSpace(s string) string {
	if strings.TrimSpace(s) != "" && strings.HasSuffix(s, " ") {
		return " "
	}
	return ""
}
