package commands

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/leapstack-labs/bookcatalog/internal/cli/output"
	"github.com/leapstack-labs/bookcatalog/pkg/core"
	"github.com/spf13/cobra"
)

// lineReader is the part of *readline.Instance the shell uses.
type lineReader interface {
	Readline() (string, error)
	SetPrompt(prompt string)
	Close() error
}

// errFormCancelled is returned when the user aborts a form with ^C or EOF.
var errFormCancelled = errors.New("cancelled")

// shell is an interactive catalog session.
type shell struct {
	cmdCtx *CommandContext
	rl     lineReader
	prompt string
	out    io.Writer
	errOut io.Writer
}

// NewShellCommand creates the shell command.
func NewShellCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Manage the catalog interactively",
		Long: `Start an interactive session for adding, editing, searching and
deleting books.

Forms ask for one field at a time and ask again when a value is rejected.
Type help for commands, quit to exit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runShell(cmd)
		},
	}
}

func runShell(cmd *cobra.Command) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	historyFile := cmdCtx.Cfg.Shell.HistoryFile
	if historyFile != "" {
		if err := os.MkdirAll(filepath.Dir(historyFile), 0750); err != nil {
			cmdCtx.Logger.Warn("history disabled", slog.Any("error", err))
			historyFile = ""
		}
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          cmdCtx.Cfg.Shell.Prompt,
		HistoryFile:     historyFile,
		AutoComplete:    newShellCompleter(),
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
		Stdin:           io.NopCloser(cmd.InOrStdin()),
		Stdout:          cmd.OutOrStdout(),
		Stderr:          cmd.ErrOrStderr(),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize shell: %w", err)
	}

	sh := newShell(cmdCtx, rl, cmd.OutOrStdout(), cmd.ErrOrStderr())
	defer func() { _ = rl.Close() }()

	_, _ = fmt.Fprintf(sh.out, "bookcatalog shell (database: %s)\n", cmdCtx.Store.Path())
	_, _ = fmt.Fprintln(sh.out, "Type help for commands, quit to exit")
	_, _ = fmt.Fprintln(sh.out)

	return sh.run()
}

func newShell(cmdCtx *CommandContext, rl lineReader, out, errOut io.Writer) *shell {
	prompt := cmdCtx.Cfg.Shell.Prompt
	if prompt == "" {
		prompt = "bookcatalog> "
	}
	return &shell{cmdCtx: cmdCtx, rl: rl, prompt: prompt, out: out, errOut: errOut}
}

// run reads commands until quit or EOF.
func (s *shell) run() error {
	for {
		s.rl.SetPrompt(s.prompt)
		line, err := s.rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if quit := s.dispatch(line); quit {
			return nil
		}
	}
}

// dispatch runs one command line and reports whether the shell should exit.
func (s *shell) dispatch(line string) bool {
	fields := strings.Fields(line)
	name := strings.ToLower(fields[0])
	args := fields[1:]

	var err error
	switch name {
	case "quit", "exit", ".quit", ".exit":
		return true
	case "help", "?", ".help":
		printShellHelp(s.out)
	case "list", "ls":
		err = s.list()
	case "show":
		err = s.withCode(args, s.show)
	case "add", "new":
		err = s.add()
	case "edit", "update":
		err = s.withCode(args, s.edit)
	case "delete", "rm":
		err = s.withCode(args, s.delete)
	case "search", "find":
		err = s.search(args)
	case "count":
		err = s.count()
	default:
		_, _ = fmt.Fprintf(s.errOut, "Unknown command: %s (type help for commands)\n", name)
	}

	if errors.Is(err, errFormCancelled) {
		_, _ = fmt.Fprintln(s.out, "Cancelled")
	} else if err != nil {
		_, _ = fmt.Fprintf(s.errOut, "Error: %v\n", err)
	}
	return false
}

func (s *shell) renderer() *output.Renderer {
	return output.NewRendererWithTTY(s.out, s.errOut, s.cmdCtx.Renderer.IsTTY(), output.ModeText)
}

func (s *shell) withCode(args []string, fn func(code int64) error) error {
	if len(args) != 1 {
		return errors.New("expected exactly one book code")
	}
	code, err := parseCode(args[0])
	if err != nil {
		return err
	}
	return fn(code)
}

func (s *shell) list() error {
	books, err := s.cmdCtx.Store.List(s.cmdCtx.Ctx)
	if err != nil {
		return err
	}
	return s.renderer().Books("", books)
}

func (s *shell) show(code int64) error {
	book, found, err := s.cmdCtx.Store.GetByCode(s.cmdCtx.Ctx, code)
	if err != nil {
		return err
	}
	if !found {
		return &errNotFound{code: code}
	}
	return s.renderer().Book(book)
}

func (s *shell) search(args []string) error {
	by := searchByTitle
	if len(args) > 0 {
		switch strings.ToLower(args[0]) {
		case searchByTitle, searchByAuthor:
			by = strings.ToLower(args[0])
			args = args[1:]
		}
	}
	books, err := searchBooks(s.cmdCtx.Ctx, s.cmdCtx.Store, by, strings.Join(args, " "))
	if err != nil {
		return err
	}
	return s.renderer().Books("", books)
}

func (s *shell) count() error {
	n, err := s.cmdCtx.Store.Count(s.cmdCtx.Ctx)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(s.out, output.TotalLine(n))
	return nil
}

func (s *shell) add() error {
	book, err := core.NewBook()
	if err != nil {
		return err
	}
	if err := s.fillForm(book, false); err != nil {
		return err
	}
	code, err := s.cmdCtx.Store.Create(s.cmdCtx.Ctx, book)
	if err != nil {
		return err
	}
	s.renderer().Success(fmt.Sprintf("Added book %d: %s", code, book.Title()))
	return nil
}

func (s *shell) edit(code int64) error {
	book, found, err := s.cmdCtx.Store.GetByCode(s.cmdCtx.Ctx, code)
	if err != nil {
		return err
	}
	if !found {
		return &errNotFound{code: code}
	}
	if err := s.fillForm(book, true); err != nil {
		return err
	}
	updated, err := s.cmdCtx.Store.Update(s.cmdCtx.Ctx, book)
	if err != nil {
		return err
	}
	if !updated {
		return &errNotFound{code: code}
	}
	s.renderer().Success(fmt.Sprintf("Updated book %d", code))
	return nil
}

func (s *shell) delete(code int64) error {
	book, found, err := s.cmdCtx.Store.GetByCode(s.cmdCtx.Ctx, code)
	if err != nil {
		return err
	}
	if !found {
		return &errNotFound{code: code}
	}

	answer, err := s.ask(fmt.Sprintf("Delete %q by %s? [y/N]: ", book.Title(), book.Author()))
	if err != nil {
		return err
	}
	if a := strings.ToLower(strings.TrimSpace(answer)); a != "y" && a != "yes" {
		return errFormCancelled
	}

	deleted, err := s.cmdCtx.Store.Delete(s.cmdCtx.Ctx, code)
	if err != nil {
		return err
	}
	if !deleted {
		return &errNotFound{code: code}
	}
	s.renderer().Success(fmt.Sprintf("Deleted book %d", code))
	return nil
}

// formField binds one prompt to a setter and the current value.
type formField struct {
	label   string
	current func(*core.Book) string
	set     func(*core.Book, string) error
}

var bookForm = []formField{
	{label: "Title", current: (*core.Book).Title, set: (*core.Book).SetTitle},
	{label: "Author", current: (*core.Book).Author, set: (*core.Book).SetAuthor},
	{label: "Genre", current: (*core.Book).Genre, set: (*core.Book).SetGenre},
	{label: "Publisher", current: (*core.Book).Publisher, set: (*core.Book).SetPublisher},
	{
		label: "Year",
		current: func(b *core.Book) string {
			if b.PublicationYear() == 0 {
				return ""
			}
			return strconv.Itoa(b.PublicationYear())
		},
		set: func(b *core.Book, v string) error {
			year, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				return &core.FieldError{Field: core.FieldPublicationYear, Reason: "must be a whole number"}
			}
			return b.SetPublicationYear(year)
		},
	},
}

// fillForm prompts for every field, asking again until the setter accepts
// the value. When editing, an empty answer keeps the current value.
func (s *shell) fillForm(book *core.Book, editing bool) error {
	for _, f := range bookForm {
		for {
			prompt := f.label + ": "
			if editing {
				prompt = fmt.Sprintf("%s [%s]: ", f.label, f.current(book))
			}
			answer, err := s.ask(prompt)
			if err != nil {
				return err
			}
			if editing && strings.TrimSpace(answer) == "" {
				break
			}
			if err := f.set(book, answer); err != nil {
				_, _ = fmt.Fprintf(s.errOut, "  %v\n", err)
				continue
			}
			break
		}
	}
	return nil
}

// ask reads one answer with the given prompt. ^C and EOF cancel the form.
func (s *shell) ask(prompt string) (string, error) {
	s.rl.SetPrompt(prompt)
	defer s.rl.SetPrompt(s.prompt)

	line, err := s.rl.Readline()
	if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
		return "", errFormCancelled
	}
	return line, err
}

func printShellHelp(w io.Writer) {
	help := `
Commands:
  list                          List all books
  show <code>                   Show one book
  add                           Add a book (prompts for each field)
  edit <code>                   Edit a book (empty answer keeps a value)
  delete <code>                 Delete a book after confirmation
  search [title|author] <term>  Find books; empty term lists all
  count                         Show the number of books
  help                          Show this help message
  quit / exit                   Leave the shell

Tips:
  - Press Ctrl-C inside a form to cancel it
  - Use arrow keys to navigate history
  - Tab completes command names
`
	_, _ = fmt.Fprintln(w, help)
}

// newShellCompleter creates a readline completer for shell commands.
func newShellCompleter() *readline.PrefixCompleter {
	return readline.NewPrefixCompleter(
		readline.PcItem("list"),
		readline.PcItem("show"),
		readline.PcItem("add"),
		readline.PcItem("edit"),
		readline.PcItem("delete"),
		readline.PcItem("search",
			readline.PcItem(searchByTitle),
			readline.PcItem(searchByAuthor),
		),
		readline.PcItem("count"),
		readline.PcItem("help"),
		readline.PcItem("quit"),
		readline.PcItem("exit"),
	)
}
