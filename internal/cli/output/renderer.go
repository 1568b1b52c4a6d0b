package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
)

// Renderer writes command output in the mode chosen for the session.
type Renderer struct {
	out    io.Writer
	errOut io.Writer
	mode   OutputMode
	isTTY  bool
	styles *Styles
}

// NewRenderer creates a renderer, detecting whether out is a terminal.
func NewRenderer(out, errOut io.Writer, mode OutputMode) *Renderer {
	return NewRendererWithTTY(out, errOut, IsTerminal(out), mode)
}

// NewRendererWithTTY creates a renderer with an explicit TTY state.
// Colors are used only on a TTY, and never when NO_COLOR or CLICOLOR=0
// is set.
func NewRendererWithTTY(out, errOut io.Writer, isTTY bool, mode OutputMode) *Renderer {
	styles := PlainStyles()
	if isTTY && !termenv.EnvNoColor() {
		styles = DefaultStyles()
	}
	return &Renderer{
		out:    out,
		errOut: errOut,
		mode:   mode,
		isTTY:  isTTY,
		styles: styles,
	}
}

// Mode returns the configured mode, which may be ModeAuto.
func (r *Renderer) Mode() OutputMode { return r.mode }

// EffectiveMode returns the mode actually used for output.
func (r *Renderer) EffectiveMode() OutputMode { return r.mode.Resolve(r.isTTY) }

// IsTTY reports whether output goes to a terminal.
func (r *Renderer) IsTTY() bool { return r.isTTY }

// Styles returns the active style set.
func (r *Renderer) Styles() *Styles { return r.styles }

// Writer returns the stdout writer.
func (r *Renderer) Writer() io.Writer { return r.out }

// ErrWriter returns the stderr writer.
func (r *Renderer) ErrWriter() io.Writer { return r.errOut }

// Println writes a line to stdout.
func (r *Renderer) Println(a ...any) {
	_, _ = fmt.Fprintln(r.out, a...)
}

// Printf writes formatted output to stdout.
func (r *Renderer) Printf(format string, a ...any) {
	_, _ = fmt.Fprintf(r.out, format, a...)
}

// Header writes a level 1 or 2 heading appropriate for the effective mode.
func (r *Renderer) Header(level int, text string) {
	if r.EffectiveMode() == ModeMarkdown {
		r.Println(FormatHeader(level, text))
		r.Println("")
		return
	}
	style := r.styles.Header2
	if level <= 1 {
		style = r.styles.Header1
	}
	r.Println(style.Render(text))
}

// Success writes a success message to stdout.
func (r *Renderer) Success(msg string) {
	r.Println(r.styles.Success.Render(r.prefix("✓ ") + msg))
}

// Muted writes a de-emphasized message to stdout.
func (r *Renderer) Muted(msg string) {
	r.Println(r.styles.Muted.Render(msg))
}

// Warning writes a warning to stderr.
func (r *Renderer) Warning(msg string) {
	_, _ = fmt.Fprintln(r.errOut, r.styles.Warning.Render(r.prefix("! ")+msg))
}

// Error writes an error message to stderr.
func (r *Renderer) Error(msg string) {
	_, _ = fmt.Fprintln(r.errOut, r.styles.Error.Render(r.prefix("✗ ")+msg))
}

// StatusLine writes "label: value" with the value styled by status
// (success, warning, error, or anything else for plain).
func (r *Renderer) StatusLine(label, status, value string) {
	if r.EffectiveMode() == ModeMarkdown {
		r.Println(FormatKeyValue(label, value))
		return
	}
	style := r.styles.Bold
	switch status {
	case "success":
		style = r.styles.Success
	case "warning":
		style = r.styles.Warning
	case "error":
		style = r.styles.Error
	}
	r.Printf("%s %s\n", r.styles.Muted.Render(label+":"), style.Render(value))
}

// JSON writes v as indented JSON to stdout.
func (r *Renderer) JSON(v any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// prefix returns the symbol prefix on terminals and nothing elsewhere.
func (r *Renderer) prefix(symbol string) string {
	if r.isTTY {
		return symbol
	}
	return ""
}

// FormatHeader returns a markdown heading.
func FormatHeader(level int, text string) string {
	if level < 1 {
		level = 1
	}
	return strings.Repeat("#", level) + " " + text
}

// FormatKeyValue returns a markdown bullet of the form "- **key:** value".
func FormatKeyValue(key, value string) string {
	return fmt.Sprintf("- **%s:** %s", key, value)
}

// FormatCodeBlock wraps content in a fenced code block.
func FormatCodeBlock(lang, content string) string {
	return "```" + lang + "\n" + strings.TrimRight(content, "\n") + "\n```"
}
