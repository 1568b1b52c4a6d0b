package tui

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/cursor"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/leapstack-labs/bookcatalog/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCatalog is an in-memory Catalog.
type fakeCatalog struct {
	books   map[int64]*core.Book
	listErr error
}

func newFakeCatalog(t *testing.T, entries ...[2]string) *fakeCatalog {
	t.Helper()
	f := &fakeCatalog{books: map[int64]*core.Book{}}
	for i, e := range entries {
		b, err := core.NewBook(
			core.WithCode(int64(i+1)),
			core.WithTitle(e[0]),
			core.WithAuthor(e[1]),
			core.WithGenre("Fiction"),
			core.WithPublisher("Ace"),
			core.WithPublicationYear(2000),
		)
		require.NoError(t, err)
		f.books[b.Code()] = b
	}
	return f
}

func (f *fakeCatalog) filter(match func(*core.Book) bool) []*core.Book {
	out := []*core.Book{}
	for _, b := range f.books {
		if match(b) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title() < out[j].Title() })
	return out
}

func (f *fakeCatalog) List(context.Context) ([]*core.Book, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.filter(func(*core.Book) bool { return true }), nil
}

func (f *fakeCatalog) SearchByTitle(_ context.Context, term string) ([]*core.Book, error) {
	return f.filter(func(b *core.Book) bool {
		return strings.Contains(strings.ToLower(b.Title()), strings.ToLower(term))
	}), nil
}

func (f *fakeCatalog) SearchByAuthor(_ context.Context, term string) ([]*core.Book, error) {
	return f.filter(func(b *core.Book) bool {
		return strings.Contains(strings.ToLower(b.Author()), strings.ToLower(term))
	}), nil
}

func (f *fakeCatalog) Count(context.Context) (int, error) {
	return len(f.books), nil
}

func (f *fakeCatalog) Delete(_ context.Context, code int64) (bool, error) {
	if _, ok := f.books[code]; !ok {
		return false, nil
	}
	delete(f.books, code)
	return true, nil
}

// drive feeds msg to the model and then runs every returned command,
// feeding their messages back, until no data messages remain.
func drive(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(Model)
	return settle(t, m, cmd)
}

func settle(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	if cmd == nil {
		return m
	}
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		for _, c := range msg {
			m = settle(t, m, c)
		}
		return m
	case booksLoadedMsg, bookDeletedMsg:
		return drive(t, m, msg)
	default:
		// Cursor blinks and other UI-only messages are not needed here.
		return m
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	for _, r := range text {
		m = drive(t, m, key(string(r)))
	}
	return m
}

func titles(m Model) []string {
	out := make([]string, 0, len(m.books))
	for _, b := range m.books {
		out = append(out, b.Title())
	}
	return out
}

func start(t *testing.T, catalog Catalog) Model {
	t.Helper()
	m := New(context.Background(), catalog)
	// A static cursor keeps blink timers out of the command chain.
	_ = m.input.Cursor.SetMode(cursor.CursorStatic)
	return settle(t, m, m.Init())
}

func TestBrowse_InitialLoad(t *testing.T) {
	m := start(t, newFakeCatalog(t, [2]string{"Zebra", "Z"}, [2]string{"Apple", "A"}))

	assert.Equal(t, []string{"Apple", "Zebra"}, titles(m))
	assert.Equal(t, 2, m.total)
	view := m.View()
	assert.Contains(t, view, "Apple")
	assert.Contains(t, view, "2 shown, 2 total")
}

func TestBrowse_LiveSearch(t *testing.T) {
	m := start(t, newFakeCatalog(t,
		[2]string{"Apple Pie", "Jane Baker"},
		[2]string{"Pineapple", "John Smith"},
		[2]string{"Dune", "Frank Herbert"},
	))

	m = drive(t, m, key("/"))
	assert.Equal(t, modeSearch, m.mode)

	m = typeText(t, m, "app")
	assert.Equal(t, []string{"Apple Pie", "Pineapple"}, titles(m))
	assert.Contains(t, m.View(), "2 shown, 3 total")

	// Switch to author search with the same term.
	m = drive(t, m, key("tab"))
	assert.Equal(t, SearchAuthor, m.field)
	assert.Empty(t, titles(m))

	m = drive(t, m, key("esc"))
	assert.Equal(t, modeBrowse, m.mode)
	assert.Equal(t, "", m.input.Value())
	assert.Len(t, m.books, 3)
}

func TestBrowse_EnterKeepsFilter(t *testing.T) {
	m := start(t, newFakeCatalog(t, [2]string{"Dune", "Herbert"}, [2]string{"Emma", "Austen"}))

	m = drive(t, m, key("/"))
	m = typeText(t, m, "du")
	m = drive(t, m, key("enter"))

	assert.Equal(t, modeBrowse, m.mode)
	assert.Equal(t, []string{"Dune"}, titles(m))
	assert.Contains(t, m.View(), `"du"`)
}

func TestBrowse_SearchTrimsTerm(t *testing.T) {
	m := start(t, newFakeCatalog(t, [2]string{"Dune", "Herbert"}, [2]string{"Emma", "Austen"}))

	m = drive(t, m, key("/"))
	m = typeText(t, m, " dune ")
	assert.Equal(t, []string{"Dune"}, titles(m))

	m = drive(t, m, key("tab"))
	assert.Empty(t, titles(m))
}

func TestBrowse_StaleResultsDropped(t *testing.T) {
	m := start(t, newFakeCatalog(t, [2]string{"Dune", "Herbert"}))

	stale := booksLoadedMsg{seq: m.seq - 1, books: nil, total: 99}
	next, _ := m.Update(stale)
	m = next.(Model)
	assert.Equal(t, 1, m.total)
	assert.Len(t, m.books, 1)
}

func TestBrowse_DeleteWithConfirmation(t *testing.T) {
	catalog := newFakeCatalog(t, [2]string{"Apple", "A"}, [2]string{"Mango", "M"})
	m := start(t, catalog)

	// Declining keeps the book.
	m = drive(t, m, key("d"))
	assert.Equal(t, modeConfirm, m.mode)
	assert.Contains(t, m.View(), `Delete "Apple" by A?`)
	m = drive(t, m, key("n"))
	assert.Equal(t, modeBrowse, m.mode)
	assert.Len(t, catalog.books, 2)
	assert.Contains(t, m.View(), "Delete cancelled")

	// Confirming deletes the selected row and reloads.
	m = drive(t, m, key("down"))
	m = drive(t, m, key("d"))
	m = drive(t, m, key("y"))
	assert.Len(t, catalog.books, 1)
	assert.Equal(t, []string{"Apple"}, titles(m))
	assert.Contains(t, m.View(), "Deleted book 2")
	assert.Contains(t, m.View(), "1 shown, 1 total")
}

func TestBrowse_DeleteOnEmptyTable(t *testing.T) {
	m := start(t, newFakeCatalog(t))
	m = drive(t, m, key("d"))
	assert.Equal(t, modeBrowse, m.mode)
}

func TestBrowse_LoadError(t *testing.T) {
	catalog := newFakeCatalog(t)
	catalog.listErr = errors.New("list books: storage error: disk I/O error")

	m := start(t, catalog)
	assert.Contains(t, m.View(), "Error: list books: storage error")
}

func TestBrowse_Quit(t *testing.T) {
	m := start(t, newFakeCatalog(t))
	_, cmd := m.Update(key("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestBrowse_ReloadsOnCatalogChange(t *testing.T) {
	catalog := newFakeCatalog(t, [2]string{"Dune", "Herbert"})
	m := start(t, catalog)

	extra, err := core.NewBook(
		core.WithCode(9),
		core.WithTitle("Emma"),
		core.WithAuthor("Austen"),
		core.WithGenre("Novel"),
		core.WithPublisher("Murray"),
		core.WithPublicationYear(1815),
	)
	require.NoError(t, err)
	catalog.books[9] = extra

	m = drive(t, m, catalogChangedMsg{})
	assert.Equal(t, []string{"Dune", "Emma"}, titles(m))
	assert.Equal(t, 2, m.total)
}
