package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
)

// DefaultWidth is the wrap width when the terminal width is unknown.
const DefaultWidth = 80

// Markdown renders text through glamour. Styled output is used on
// terminals and plain output otherwise; when rendering fails the raw text
// is written.
func Markdown(w io.Writer, text string, width int) error {
	if width <= 0 {
		width = DefaultWidth
	}
	style := "notty"
	if IsTerminal(w) {
		style = "dark"
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err == nil {
		var out string
		if out, err = r.Render(text); err == nil {
			_, err = io.WriteString(w, out)
			return err
		}
	}

	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	_, werr := fmt.Fprint(w, text)
	return werr
}
