package tui

import (
	"context"
	"fmt"
	"sort"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"mynote-cli/internal/api"
	"mynote-cli/internal/model"
	"mynote-cli/internal/mutate"
	"mynote-cli/internal/nav"
	"mynote-cli/internal/store"
)

type view int

const (
	viewCategories view = iota
	viewNotes
	viewDetail
)

type modalKind int

const (
	modalNone modalKind = iota
	modalRename
	modalDelete
)

type (
	refreshedMsg struct{ err error }
	detailMsg    struct {
		noteID int64
		err    error
	}
	mutateDoneMsg struct{ err error }
)

type categoryItem struct{ category model.Category }

func (it categoryItem) FilterValue() string { return it.category.Name }
func (it categoryItem) Title() string       { return it.category.Name }
func (it categoryItem) Description() string {
	return fmt.Sprintf("%d notes", it.category.NoteCount)
}

type noteItem struct{ note model.NoteSummary }

func (it noteItem) FilterValue() string { return it.note.Title }
func (it noteItem) Title() string       { return it.note.Title }
func (it noteItem) Description() string {
	return fmt.Sprintf("#%d  updated %s", it.note.UserSeqNo, it.note.UpdatedAt.Format("2006-01-02 15:04"))
}

type appModel struct {
	store     *store.Store
	client    *api.Client
	refresher *nav.Refresher
	userID    int64

	width  int
	height int

	view view

	categoriesList list.Model
	notesList      list.Model

	selectedCategoryID int64
	openNoteID         int64
	detailScroll       int

	modal modalKind
	input textinput.Model

	// pending blocks a second mutation while one is still in flight, so a
	// rollback never lands on top of a newer optimistic value.
	pending bool
	status  string
	errText string
}

func newAppModel(st *store.Store, client *api.Client, refresher *nav.Refresher, userID int64) appModel {
	m := appModel{
		store:     st,
		client:    client,
		refresher: refresher,
		userID:    userID,
		view:      viewCategories,
		// Init fires the first refresh; the guard covers it from the start.
		pending: true,
	}

	m.categoriesList = newList("Categories")
	m.notesList = newList("Notes")
	m.input = textinput.New()
	m.input.CharLimit = 200

	m.refreshCategories()
	return m
}

func newList(title string) list.Model {
	l := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	l.Title = title
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	// ESC is "back" here, not quit.
	l.KeyMap.Quit.SetKeys("q")
	return l
}

func (m appModel) Init() tea.Cmd { return m.refreshCmd() }

func (m *appModel) refreshCmd() tea.Cmd {
	refresher, userID := m.refresher, m.userID
	return func() tea.Msg {
		err := refresher.Refresh(context.Background(), nav.Options{
			UserID: userID,
			Nav:    true,
			Toc:    true,
		})
		return refreshedMsg{err: err}
	}
}

func (m *appModel) fetchDetailCmd(seqNo int64) tea.Cmd {
	refresher := m.refresher
	return func() tea.Msg {
		detail, err := refresher.FetchDetail(context.Background(), seqNo)
		return detailMsg{noteID: detail.ID, err: err}
	}
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeLists()
		return m, nil

	case refreshedMsg:
		m.pending = false
		if msg.err != nil {
			m.errText = msg.err.Error()
			return m, nil
		}
		m.errText = ""
		m.status = ""
		m.refreshCategories()
		if m.view == viewNotes {
			m.refreshNotes()
		}
		return m, nil

	case detailMsg:
		m.pending = false
		if msg.err != nil {
			m.errText = msg.err.Error()
			return m, nil
		}
		m.errText = ""
		m.openNoteID = msg.noteID
		m.detailScroll = 0
		m.view = viewDetail
		return m, nil

	case mutateDoneMsg:
		m.pending = false
		switch {
		case mutate.Skipped(msg.err):
			m.status = "nothing to do"
		case msg.err != nil:
			// The store already rolled back; surface why.
			m.errText = msg.err.Error()
		default:
			m.errText = ""
			m.status = ""
		}
		m.refreshCategories()
		if m.view == viewNotes || m.view == viewDetail {
			m.refreshNotes()
		}
		return m, nil

	case tea.KeyMsg:
		if m.modal != modalNone {
			return m.updateModal(msg)
		}
		return m.updateKeys(msg)
	}

	return m.updateLists(msg)
}

func (m appModel) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "r":
		if m.pending {
			return m, nil
		}
		m.pending = true
		m.status = "refreshing…"
		return m, m.refreshCmd()

	case "esc", "backspace":
		switch m.view {
		case viewDetail:
			m.view = viewNotes
			m.store.SetSelectedNoteID(0)
		case viewNotes:
			m.view = viewCategories
			m.store.SetSelectedCategoryID(0)
			m.refreshCategories()
		}
		return m, nil

	case "enter":
		switch m.view {
		case viewCategories:
			if it, ok := m.categoriesList.SelectedItem().(categoryItem); ok {
				m.selectedCategoryID = it.category.ID
				m.store.SetSelectedCategoryID(it.category.ID)
				m.view = viewNotes
				m.refreshNotes()
			}
			return m, nil
		case viewNotes:
			if it, ok := m.notesList.SelectedItem().(noteItem); ok && !m.pending {
				m.pending = true
				m.status = "loading…"
				m.store.SetSelectedNoteID(it.note.ID)
				return m, m.fetchDetailCmd(it.note.UserSeqNo)
			}
			return m, nil
		}

	case "e":
		// Rename the selected category or note.
		if m.pending || m.view == viewDetail {
			return m, nil
		}
		switch m.view {
		case viewCategories:
			if it, ok := m.categoriesList.SelectedItem().(categoryItem); ok {
				m.openModal(modalRename, it.category.Name)
			}
		case viewNotes:
			if it, ok := m.notesList.SelectedItem().(noteItem); ok {
				m.openModal(modalRename, it.note.Title)
			}
		}
		return m, nil

	case "d":
		if m.pending || m.view == viewDetail {
			return m, nil
		}
		if m.view == viewCategories {
			if _, ok := m.categoriesList.SelectedItem().(categoryItem); !ok {
				return m, nil
			}
		} else if _, ok := m.notesList.SelectedItem().(noteItem); !ok {
			return m, nil
		}
		m.modal = modalDelete
		return m, nil

	case "j", "down":
		if m.view == viewDetail {
			m.detailScroll++
			return m, nil
		}
	case "k", "up":
		if m.view == viewDetail {
			if m.detailScroll > 0 {
				m.detailScroll--
			}
			return m, nil
		}
	}

	return m.updateLists(msg)
}

func (m appModel) updateModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.modal = modalNone
		m.input.Blur()
		return m, nil

	case "enter":
		switch m.modal {
		case modalRename:
			value := m.input.Value()
			m.modal = modalNone
			m.input.Blur()
			return m.startRename(value)
		case modalDelete:
			m.modal = modalNone
			return m.startDelete()
		}
		return m, nil
	}

	if m.modal == modalRename {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m appModel) startRename(value string) (tea.Model, tea.Cmd) {
	st, client := m.store, m.client
	ctx := context.Background()

	switch m.view {
	case viewCategories:
		it, ok := m.categoriesList.SelectedItem().(categoryItem)
		if !ok {
			return m, nil
		}
		m.pending = true
		id := it.category.ID
		return m, func() tea.Msg {
			return mutateDoneMsg{err: mutate.RenameCategory(ctx, st, client, id, value)}
		}

	case viewNotes:
		it, ok := m.notesList.SelectedItem().(noteItem)
		if !ok {
			return m, nil
		}
		m.pending = true
		categoryID, seqNo := m.selectedCategoryID, it.note.UserSeqNo
		return m, func() tea.Msg {
			return mutateDoneMsg{err: mutate.RenameNoteTitle(ctx, st, client, categoryID, seqNo, value)}
		}
	}
	return m, nil
}

func (m appModel) startDelete() (tea.Model, tea.Cmd) {
	st, client := m.store, m.client
	ctx := context.Background()

	switch m.view {
	case viewCategories:
		it, ok := m.categoriesList.SelectedItem().(categoryItem)
		if !ok {
			return m, nil
		}
		m.pending = true
		id := it.category.ID
		return m, func() tea.Msg {
			return mutateDoneMsg{err: mutate.DeleteCategory(ctx, st, client, id)}
		}

	case viewNotes:
		it, ok := m.notesList.SelectedItem().(noteItem)
		if !ok {
			return m, nil
		}
		m.pending = true
		seqNo := it.note.UserSeqNo
		return m, func() tea.Msg {
			return mutateDoneMsg{err: mutate.DeleteNote(ctx, st, client, seqNo)}
		}
	}
	return m, nil
}

func (m *appModel) openModal(kind modalKind, initial string) {
	m.modal = kind
	m.input.SetValue(initial)
	m.input.CursorEnd()
	m.input.Focus()
}

func (m appModel) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case viewCategories:
		m.categoriesList, cmd = m.categoriesList.Update(msg)
	case viewNotes:
		m.notesList, cmd = m.notesList.Update(msg)
	}
	return m, cmd
}

func (m *appModel) resizeLists() {
	h := m.height - 3
	if h < 1 {
		h = 1
	}
	m.categoriesList.SetSize(m.width, h)
	m.notesList.SetSize(m.width, h)
}

func (m *appModel) refreshCategories() {
	cats := m.store.Categories()
	sorted := make([]model.Category, 0, len(cats))
	for _, c := range cats {
		sorted = append(sorted, c)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	items := make([]list.Item, 0, len(sorted))
	for _, c := range sorted {
		items = append(items, categoryItem{category: c})
	}
	m.categoriesList.SetItems(items)
}

func (m *appModel) refreshNotes() {
	notes := append([]model.NoteSummary(nil), m.store.NotesByCategory()[m.selectedCategoryID]...)
	sort.Slice(notes, func(i, j int) bool { return notes[i].UserSeqNo < notes[j].UserSeqNo })

	items := make([]list.Item, 0, len(notes))
	for _, n := range notes {
		items = append(items, noteItem{note: n})
	}
	m.notesList.SetItems(items)

	if name := m.categoryName(); name != "" {
		m.notesList.Title = "Notes · " + name
	}
}

func (m *appModel) categoryName() string {
	if c, ok := m.store.Categories()[m.selectedCategoryID]; ok {
		return c.Name
	}
	return ""
}
