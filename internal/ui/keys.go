package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

const (
	seekStep   = 5.0
	volumeStep = 10.0
)

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.Type == tea.KeyCtrlC {
		return tea.Quit
	}

	switch m.mode {
	case modeSearch:
		return m.handleSearchKey(msg)
	case modeCreatePlaylist:
		return m.handleCreateKey(msg)
	case modeChoosePlaylist:
		return m.handleChooseKey(msg)
	}

	switch msg.String() {
	case "q":
		return tea.Quit

	case " ":
		if err := m.ctrl.TogglePlay(); err != nil {
			m.setStatus(err.Error(), true)
		}
	case "n":
		if err := m.ctrl.Next(); err != nil {
			m.setStatus(err.Error(), true)
		}
	case "p":
		if err := m.ctrl.Prev(); err != nil {
			m.setStatus(err.Error(), true)
		}
	case "right":
		m.ctrl.Seek(m.state.Progress.Percent + seekStep)
	case "left":
		m.ctrl.Seek(m.state.Progress.Percent - seekStep)
	case "+", "=":
		m.ctrl.SetVolume(m.state.Volume*100 + volumeStep)
	case "-":
		m.ctrl.SetVolume(m.state.Volume*100 - volumeStep)
	case "m":
		m.ctrl.ToggleMute()

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.rows())-1 {
			m.cursor++
		}
	case "enter":
		m.playSelected()

	case "/":
		m.switchView(ViewHome)
		m.mode = modeSearch
		return m.startInput(m.state.Query)

	case "1":
		m.switchView(ViewHome)
	case "2":
		return fetchFavorites(m.lib)
	case "3":
		return fetchAllPlaylistSongs(m.lib)
	case "4":
		m.switchView(ViewArtists)
	case "r":
		if m.folder != "" {
			return scanFolder(m.scanner, m.folder, false)
		}

	case "f":
		if r, ok := m.selectedRow(); ok && m.view != ViewFavorites {
			return addFavorite(m.lib, r.ref)
		}
	case "x":
		if r, ok := m.selectedRow(); ok && m.view == ViewFavorites {
			return removeFavorite(m.lib, r.ref.Name)
		}
	case "c":
		m.mode = modeCreatePlaylist
		return m.startInput("")
	case "a":
		if r, ok := m.selectedRow(); ok {
			ref := r.ref
			m.selected = &ref
			return fetchPlaylists(m.lib)
		}
	}

	m.state = m.ctrl.State()
	return nil
}

func (m *Model) playSelected() {
	r, ok := m.selectedRow()
	if !ok {
		return
	}
	var err error
	if r.index >= 0 {
		err = m.ctrl.Load(r.index)
	} else {
		err = m.ctrl.PlayReference(r.ref)
	}
	if err != nil {
		m.setStatus(err.Error(), true)
	}
}

// startInput focuses the shared text field with an initial value.
func (m *Model) startInput(value string) tea.Cmd {
	m.input.SetValue(value)
	m.input.CursorEnd()
	return m.input.Focus()
}

// stopInput clears and blurs the text field and returns to normal mode.
func (m *Model) stopInput() {
	m.mode = modeNormal
	m.input.Reset()
	m.input.Blur()
}

// editInput passes a key to the text field and reports whether its value
// changed.
func (m *Model) editInput(msg tea.KeyMsg) (bool, tea.Cmd) {
	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m.input.Value() != before, cmd
}

// handleSearchKey edits the query live. Enter keeps the filter, Esc clears it.
func (m *Model) handleSearchKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEnter:
		m.mode = modeNormal
		m.input.Blur()
		return nil
	case tea.KeyEsc:
		m.stopInput()
		m.search("")
		return nil
	}

	changed, cmd := m.editInput(msg)
	if changed {
		m.search(m.input.Value())
	}
	return cmd
}

func (m *Model) search(query string) {
	m.ctrl.Search(query)
	m.state = m.ctrl.State()
	m.cursor = 0
}

// handleCreateKey collects a playlist name. A blank name closes the dialog
// without creating anything.
func (m *Model) handleCreateKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEnter:
		name := strings.TrimSpace(m.input.Value())
		m.stopInput()
		if name == "" {
			return nil
		}
		return createPlaylist(m.lib, name)
	case tea.KeyEsc:
		m.stopInput()
		return nil
	}

	_, cmd := m.editInput(msg)
	return cmd
}

func (m *Model) handleChooseKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "up", "k":
		if m.chooseCursor > 0 {
			m.chooseCursor--
		}
	case "down", "j":
		if m.chooseCursor < len(m.playlists)-1 {
			m.chooseCursor++
		}
	case "c":
		m.mode = modeCreatePlaylist
		return m.startInput("")
	case "enter":
		m.mode = modeNormal
		if m.selected == nil || len(m.playlists) == 0 {
			return nil
		}
		ref := *m.selected
		m.selected = nil
		return addToPlaylist(m.lib, m.playlists[m.chooseCursor], ref)
	case "esc", "q":
		m.mode = modeNormal
		m.selected = nil
	}
	return nil
}
