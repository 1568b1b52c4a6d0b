// Package tui implements the full-screen catalog browser.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/leapstack-labs/bookcatalog/pkg/core"
)

// Catalog is the subset of the store the browser needs.
type Catalog interface {
	List(ctx context.Context) ([]*core.Book, error)
	SearchByTitle(ctx context.Context, term string) ([]*core.Book, error)
	SearchByAuthor(ctx context.Context, term string) ([]*core.Book, error)
	Count(ctx context.Context) (int, error)
	Delete(ctx context.Context, code int64) (bool, error)
}

// SearchField selects which column a search matches.
type SearchField int

const (
	SearchTitle SearchField = iota
	SearchAuthor
)

func (f SearchField) String() string {
	if f == SearchAuthor {
		return "author"
	}
	return "title"
}

type mode int

const (
	modeBrowse mode = iota
	modeSearch
	modeConfirm
)

// booksLoadedMsg carries the result of a query. seq identifies the query
// so that results of superseded searches are dropped.
type booksLoadedMsg struct {
	seq   int
	books []*core.Book
	total int
	err   error
}

type bookDeletedMsg struct {
	code    int64
	deleted bool
	err     error
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	baseStyle   = lipgloss.NewStyle().BorderStyle(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("240"))
)

// Model is the bubbletea model of the browser.
type Model struct {
	ctx     context.Context
	catalog Catalog

	table   table.Model
	input   textinput.Model
	mode    mode
	field   SearchField
	books   []*core.Book
	total   int
	seq     int
	status  string
	err     error
	pending *core.Book
}

// New creates a browser over catalog.
func New(ctx context.Context, catalog Catalog) Model {
	columns := []table.Column{
		{Title: "Code", Width: 6},
		{Title: "Title", Width: 30},
		{Title: "Author", Width: 22},
		{Title: "Genre", Width: 14},
		{Title: "Publisher", Width: 18},
		{Title: "Year", Width: 6},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(styles)

	ti := textinput.New()
	ti.Placeholder = "search"
	ti.CharLimit = 200
	ti.Width = 40

	return Model{
		ctx:     ctx,
		catalog: catalog,
		table:   t,
		input:   ti,
	}
}

// Init loads the full list.
func (m Model) Init() tea.Cmd {
	return m.query()
}

// reload starts a new query, superseding any still in flight.
func (m *Model) reload() tea.Cmd {
	m.seq++
	return m.query()
}

// query loads books for the current search settings.
func (m Model) query() tea.Cmd {
	seq, ctx, catalog := m.seq, m.ctx, m.catalog
	field, term := m.field, strings.TrimSpace(m.input.Value())

	return func() tea.Msg {
		var books []*core.Book
		var err error
		switch {
		case term == "":
			books, err = catalog.List(ctx)
		case field == SearchAuthor:
			books, err = catalog.SearchByAuthor(ctx, term)
		default:
			books, err = catalog.SearchByTitle(ctx, term)
		}
		if err != nil {
			return booksLoadedMsg{seq: seq, err: err}
		}
		total, err := catalog.Count(ctx)
		return booksLoadedMsg{seq: seq, books: books, total: total, err: err}
	}
}

func (m Model) remove(code int64) tea.Cmd {
	ctx, catalog := m.ctx, m.catalog
	return func() tea.Msg {
		deleted, err := catalog.Delete(ctx, code)
		return bookDeletedMsg{code: code, deleted: deleted, err: err}
	}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case booksLoadedMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		m.err = msg.err
		if msg.err == nil {
			m.books = msg.books
			m.total = msg.total
			m.table.SetRows(toRows(msg.books))
			if m.table.Cursor() >= len(msg.books) {
				m.table.SetCursor(max(len(msg.books)-1, 0))
			}
		}
		return m, nil

	case catalogChangedMsg:
		cmd := m.reload()
		return m, cmd

	case bookDeletedMsg:
		switch {
		case msg.err != nil:
			m.err = msg.err
		case msg.deleted:
			m.status = fmt.Sprintf("Deleted book %d", msg.code)
		default:
			m.status = fmt.Sprintf("Book %d was already gone", msg.code)
		}
		cmd := m.reload()
		return m, cmd

	case tea.KeyMsg:
		switch m.mode {
		case modeSearch:
			return m.updateSearch(msg)
		case modeConfirm:
			return m.updateConfirm(msg)
		default:
			return m.updateBrowse(msg)
		}
	}
	return m, nil
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "/":
		m.mode = modeSearch
		m.table.Blur()
		return m, m.input.Focus()
	case "tab":
		m.field = toggle(m.field)
		cmd := m.reload()
		return m, cmd
	case "r":
		m.status = ""
		cmd := m.reload()
		return m, cmd
	case "d", "delete":
		book := m.selected()
		if book == nil {
			return m, nil
		}
		m.pending = book
		m.mode = modeConfirm
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "enter":
		m.mode = modeBrowse
		m.input.Blur()
		m.table.Focus()
		return m, nil
	case "esc":
		m.mode = modeBrowse
		m.input.Blur()
		m.input.SetValue("")
		m.table.Focus()
		cmd := m.reload()
		return m, cmd
	case "tab":
		m.field = toggle(m.field)
		cmd := m.reload()
		return m, cmd
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() == before {
		return m, cmd
	}
	load := m.reload()
	return m, tea.Batch(cmd, load)
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	book := m.pending
	m.pending = nil
	m.mode = modeBrowse

	switch msg.String() {
	case "y", "Y":
		return m, m.remove(book.Code())
	case "ctrl+c":
		return m, tea.Quit
	default:
		m.status = "Delete cancelled"
		return m, nil
	}
}

// selected returns the book under the cursor, or nil when the table is empty.
func (m Model) selected() *core.Book {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.books) {
		return nil
	}
	return m.books[i]
}

// View renders the browser.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Book Catalog"))
	b.WriteString("\n\n")

	searchLine := fmt.Sprintf("Search by %s: ", m.field)
	if m.mode == modeSearch {
		b.WriteString(searchLine + m.input.View())
	} else if v := m.input.Value(); v != "" {
		b.WriteString(searchLine + strconv.Quote(v))
	} else {
		b.WriteString(statusStyle.Render(searchLine + "(none)"))
	}
	b.WriteString("\n")

	b.WriteString(baseStyle.Render(m.table.View()))
	b.WriteString("\n")

	switch {
	case m.mode == modeConfirm && m.pending != nil:
		b.WriteString(promptStyle.Render(fmt.Sprintf("Delete %q by %s? (y/N)", m.pending.Title(), m.pending.Author())))
	case m.err != nil:
		b.WriteString(errorStyle.Render("Error: " + m.err.Error()))
	default:
		b.WriteString(statusStyle.Render(m.statusLine()))
	}
	b.WriteString("\n")
	b.WriteString(statusStyle.Render("/ search  tab title/author  d delete  r reload  q quit"))
	b.WriteString("\n")
	return b.String()
}

// statusLine reports how many books are shown out of the total.
func (m Model) statusLine() string {
	line := fmt.Sprintf("%d shown, %d total", len(m.books), m.total)
	if m.status != "" {
		line = m.status + " | " + line
	}
	return line
}

func toggle(f SearchField) SearchField {
	if f == SearchTitle {
		return SearchAuthor
	}
	return SearchTitle
}

func toRows(books []*core.Book) []table.Row {
	rows := make([]table.Row, 0, len(books))
	for _, b := range books {
		rows = append(rows, table.Row{
			strconv.FormatInt(b.Code(), 10),
			b.Title(),
			b.Author(),
			b.Genre(),
			b.Publisher(),
			strconv.Itoa(b.PublicationYear()),
		})
	}
	return rows
}

// Options configures Run.
type Options struct {
	// WatchPath, when set, is a database file whose changes by other
	// processes trigger a reload.
	WatchPath string
	Logger    *slog.Logger
	Program   []tea.ProgramOption
}

// Run starts the browser on the terminal and blocks until the user quits.
func Run(ctx context.Context, catalog Catalog, opts Options) error {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	programOpts := append([]tea.ProgramOption{tea.WithContext(ctx), tea.WithAltScreen()}, opts.Program...)
	p := tea.NewProgram(New(ctx, catalog), programOpts...)

	if opts.WatchPath != "" {
		stop, err := watchCatalog(ctx, opts.WatchPath, func() { p.Send(catalogChangedMsg{}) })
		if err != nil {
			logger.Warn("live reload disabled", slog.String("path", opts.WatchPath), slog.Any("error", err))
		} else {
			defer func() { _ = stop() }()
			logger.Debug("watching catalog", slog.String("path", opts.WatchPath))
		}
	}

	_, err := p.Run()
	return err
}
