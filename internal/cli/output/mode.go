// Package output renders command results for terminals, pipes and scripts.
//
// The same data can be written as styled text (interactive terminal),
// markdown (piped, agent-friendly) or JSON. ModeAuto picks text on a TTY
// and markdown otherwise.
package output

import (
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// OutputMode selects how a Renderer formats output.
type OutputMode string

// Supported output modes.
const (
	ModeAuto     OutputMode = "auto"
	ModeText     OutputMode = "text"
	ModeMarkdown OutputMode = "markdown"
	ModeJSON     OutputMode = "json"
)

// Mode parses a configured output format. Unknown values fall back to ModeAuto.
func Mode(s string) OutputMode {
	switch OutputMode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeText:
		return ModeText
	case ModeMarkdown:
		return ModeMarkdown
	case ModeJSON:
		return ModeJSON
	default:
		return ModeAuto
	}
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd())) //nolint:gosec // fd fits in int
}

// Resolve returns the concrete mode for m given whether output is a TTY.
func (m OutputMode) Resolve(isTTY bool) OutputMode {
	if m != ModeAuto && m != "" {
		return m
	}
	if isTTY {
		return ModeText
	}
	return ModeMarkdown
}
