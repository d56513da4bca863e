package ui

import (
	"fmt"
	"strings"

	"musicify/internal/player"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

const (
	progressWidth = 30
	minNameWidth  = 16
	// room for the cursor prefix and the caption column
	rowChrome = 20
)

// View implements tea.Model.
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Musicify"))
	b.WriteString(captionStyle.Render("  " + m.view.String()))
	b.WriteString("\n")

	switch m.mode {
	case modeCreatePlaylist:
		b.WriteString(m.renderCreateModal())
	case modeChoosePlaylist:
		b.WriteString(m.renderChooseModal())
	default:
		b.WriteString(m.renderList())
	}

	b.WriteString("\n")
	b.WriteString(m.renderPlayerBar())
	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	return b.String()
}

func (m *Model) renderList() string {
	var b strings.Builder

	if m.mode == modeSearch || m.state.Query != "" {
		b.WriteString(hintStyle.Render("search: ") + m.searchText() + "\n")
	}

	rows := m.rows()
	if len(rows) == 0 {
		b.WriteString(captionStyle.Render(m.emptyText()) + "\n")
		return b.String()
	}

	switch m.view {
	case ViewHome:
		mix, recent := player.SplitGrid(m.state.Visible())
		b.WriteString(sectionStyle.Render("Mix") + "\n")
		for i, e := range mix {
			b.WriteString(m.renderRow(i, row{ref: e.Track, index: e.Index}) + "\n")
		}
		if len(recent) > 0 {
			b.WriteString(sectionStyle.Render("Recent") + "\n")
			for i, e := range recent {
				b.WriteString(m.renderRow(i+len(mix), row{ref: e.Track, index: e.Index}) + "\n")
			}
		}
	case ViewArtists:
		last := ""
		for i, r := range rows {
			if r.artist != last || i == 0 {
				b.WriteString(artistStyle.Render(r.artist) + "\n")
				last = r.artist
			}
			b.WriteString(m.renderRow(i, r) + "\n")
		}
	default:
		for i, r := range rows {
			b.WriteString(m.renderRow(i, r) + "\n")
		}
	}
	return b.String()
}

func (m *Model) renderRow(i int, r row) string {
	prefix := "  "
	style := itemStyle
	current := m.state.IsCurrent(r.ref.Name)
	if current {
		style = currentStyle
	}
	if i == m.cursor {
		prefix = "> "
		if !current {
			style = cursorStyle
		}
	}

	caption := r.caption
	if m.view == ViewHome {
		caption = fmt.Sprintf("Track %d", r.index+1)
	}
	return prefix + style.Render(m.fitName(r.ref.Name)) + "  " + captionStyle.Render(caption)
}

// fitName truncates wide names to the terminal. Before the first resize the
// width is unknown and names are left whole.
func (m *Model) fitName(name string) string {
	if m.width == 0 {
		return name
	}
	return runewidth.Truncate(name, max(minNameWidth, m.width-rowChrome), "…")
}

func (m *Model) emptyText() string {
	switch m.view {
	case ViewFavorites:
		return "No liked songs yet. Press f on a track to like it."
	case ViewPlaylists:
		return "No playlist songs yet. Press a on a track to add it."
	default:
		if m.state.Query != "" {
			return "No tracks match."
		}
		return "No tracks loaded."
	}
}

func (m *Model) searchText() string {
	if m.mode == modeSearch {
		return m.input.View()
	}
	return m.state.Query
}

func (m *Model) renderPlayerBar() string {
	nowPlaying := captionStyle.Render("Nothing playing")
	if m.state.Current != nil {
		nowPlaying = currentStyle.Render("♪ " + m.state.Current.Name)
	}

	icon := "▶"
	if m.state.Status == player.Playing {
		icon = "⏸"
	}

	filled := int(m.state.Progress.Percent / 100 * progressWidth)
	filled = max(0, min(progressWidth, filled))
	bar := strings.Repeat("━", filled) + strings.Repeat("─", progressWidth-filled)

	volume := fmt.Sprintf("vol %3.0f%%", m.state.Volume*100)
	if m.state.Muted {
		volume = "muted"
	}

	line := lipgloss.JoinHorizontal(lipgloss.Top,
		icon+" ",
		m.state.Progress.Elapsed+" ",
		lipgloss.NewStyle().Foreground(accent).Render(bar),
		" "+m.state.Progress.Duration,
		"   "+volume,
	)
	return barStyle.Render(nowPlaying + "\n" + line)
}

func (m *Model) renderStatus() string {
	if m.status != "" {
		if m.statusError {
			return errorStyle.Render(m.status) + "\n"
		}
		return hintStyle.Render(m.status) + "\n"
	}
	return hintStyle.Render("space play/pause · n/p next/prev · ←/→ seek · +/- volume · m mute · / search · f like · x unlike · a add to playlist · c new playlist · 1-4 views · q quit") + "\n"
}

func (m *Model) renderCreateModal() string {
	body := titleStyle.Render("Create New Playlist") + "\n\n" +
		"Name: " + m.input.View() + "\n\n" +
		hintStyle.Render("enter create · esc cancel")
	return modalStyle.Render(body) + "\n"
}

func (m *Model) renderChooseModal() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Add to Playlist"))
	if m.selected != nil {
		b.WriteString("\n" + captionStyle.Render(m.selected.Name))
	}
	b.WriteString("\n\n")
	if len(m.playlists) == 0 {
		b.WriteString(captionStyle.Render("No playlists yet.") + "\n")
	}
	for i, p := range m.playlists {
		prefix, style := "  ", itemStyle
		if i == m.chooseCursor {
			prefix, style = "> ", cursorStyle
		}
		b.WriteString(prefix + style.Render(p.DisplayName()) + "\n")
	}
	b.WriteString("\n" + hintStyle.Render("↑↓ choose · enter add · c new playlist · esc cancel"))
	return modalStyle.Render(b.String()) + "\n"
}
