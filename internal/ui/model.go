// Package ui is the terminal front end: grids of tracks, favorites,
// playlists and artists, driven by the player controller's events.
package ui

import (
	"context"
	"time"

	"musicify/internal/player"
	"musicify/pkg/models"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
)

// View selects what the main area lists.
type View int

const (
	ViewHome View = iota
	ViewFavorites
	ViewPlaylists
	ViewArtists
)

func (v View) String() string {
	switch v {
	case ViewFavorites:
		return "Liked Songs"
	case ViewPlaylists:
		return "My Playlists"
	case ViewArtists:
		return "Artists"
	default:
		return "Home"
	}
}

type mode int

const (
	modeNormal mode = iota
	modeSearch
	modeCreatePlaylist
	modeChoosePlaylist
)

// Scanner lists the audio files in a folder.
type Scanner interface {
	Scan(ctx context.Context, root string) ([]models.TrackRef, error)
}

// Options wires the model to the rest of the client.
type Options struct {
	Controller   *player.Controller
	Library      *player.Library
	Scanner      Scanner
	Folder       string
	TickInterval time.Duration
	Logger       *logrus.Logger
}

// RescanMsg asks the model to re-read the folder, keeping playback going.
// The library watcher sends it through tea.Program.Send.
type RescanMsg struct{}

// Model is the bubbletea model for the player.
type Model struct {
	ctrl    *player.Controller
	lib     *player.Library
	scanner Scanner
	folder  string
	tickDur time.Duration
	logger  *logrus.Logger
	events  <-chan player.Event

	state     player.State
	view      View
	mode      mode
	cursor    int
	favorites []models.Favorite
	songs     []models.PlaylistSong
	playlists []models.Playlist

	input        textinput.Model
	chooseCursor int
	selected     *models.TrackRef

	status      string
	statusError bool
	width       int
	height      int
}

// New builds the model and subscribes to controller events.
func New(opts Options) *Model {
	if opts.TickInterval <= 0 {
		opts.TickInterval = 250 * time.Millisecond
	}
	input := textinput.New()
	input.Prompt = ""
	input.CharLimit = 256

	return &Model{
		input:   input,
		ctrl:    opts.Controller,
		lib:     opts.Library,
		scanner: opts.Scanner,
		folder:  opts.Folder,
		tickDur: opts.TickInterval,
		logger:  opts.Logger,
		events:  opts.Controller.Subscribe(),
		state:   opts.Controller.State(),
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{waitForEvent(m.events), tick(m.tickDur)}
	if m.folder != "" {
		cmds = append(cmds, scanFolder(m.scanner, m.folder, true))
	} else {
		m.setStatus("No folder selected. Pass a folder to play.", false)
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case eventMsg:
		m.state = msg.State
		m.clampCursor()
		return m, waitForEvent(m.events)

	case tickMsg:
		m.ctrl.Tick()
		m.state = m.ctrl.State()
		return m, tick(m.tickDur)

	case RescanMsg:
		return m, scanFolder(m.scanner, m.folder, false)

	case tracksMsg:
		return m, m.handleTracks(msg)

	case favoritesMsg:
		if msg.err != nil {
			m.setStatus(msg.err.Error(), true)
			return m, nil
		}
		m.favorites = msg.favorites
		m.switchView(ViewFavorites)
		return m, nil

	case playlistSongsMsg:
		if msg.err != nil {
			m.setStatus(msg.err.Error(), true)
			return m, nil
		}
		m.songs = msg.songs
		m.switchView(ViewPlaylists)
		return m, nil

	case playlistsMsg:
		if msg.err != nil {
			m.setStatus(msg.err.Error(), true)
			m.mode = modeNormal
			return m, nil
		}
		m.playlists = msg.playlists
		m.chooseCursor = 0
		m.mode = modeChoosePlaylist
		return m, nil

	case playlistCreatedMsg:
		switch {
		case msg.err != nil:
			m.setStatus(msg.err.Error(), true)
		case msg.created:
			m.setStatus("Playlist \""+msg.name+"\" created", false)
		}
		return m, nil

	case addedToPlaylistMsg:
		if msg.err != nil {
			m.setStatus(msg.err.Error(), true)
		} else {
			m.setStatus("Added \""+msg.track+"\" to "+msg.playlist, false)
		}
		return m, nil
	}

	// Cursor blink messages for the active text field.
	if m.mode == modeSearch || m.mode == modeCreatePlaylist {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleTracks(msg tracksMsg) tea.Cmd {
	if msg.err != nil {
		m.setStatus(msg.err.Error(), true)
		return nil
	}
	if !msg.initial {
		m.ctrl.SetTracks(msg.tracks)
		m.state = m.ctrl.State()
		return nil
	}
	if err := m.ctrl.LoadTracks(msg.tracks); err != nil {
		m.setStatus(err.Error(), true)
		m.state = m.ctrl.State()
		return nil
	}
	m.state = m.ctrl.State()
	m.switchView(ViewHome)
	return nil
}

func (m *Model) setStatus(text string, isError bool) {
	m.status = text
	m.statusError = isError
	if isError {
		m.logger.Warn(text)
	}
}

func (m *Model) switchView(v View) {
	m.view = v
	m.cursor = 0
}

// row is one selectable line of the current view.
type row struct {
	ref     models.TrackRef
	index   int // position in the active list, -1 outside the home view
	caption string
	artist  string
}

func (m *Model) rows() []row {
	switch m.view {
	case ViewFavorites:
		rows := make([]row, 0, len(m.favorites))
		for _, f := range m.favorites {
			rows = append(rows, row{ref: f.Ref(), index: -1, caption: "Liked Song"})
		}
		return rows
	case ViewPlaylists:
		rows := make([]row, 0, len(m.songs))
		for _, s := range m.songs {
			rows = append(rows, row{ref: s.Ref(), index: -1, caption: "Playlist Song"})
		}
		return rows
	case ViewArtists:
		var rows []row
		for _, g := range player.GroupByArtist(m.state.Tracks) {
			for _, t := range g.Tracks {
				rows = append(rows, row{ref: t, index: -1, caption: "Artist Track", artist: g.Artist})
			}
		}
		return rows
	default:
		entries := m.state.Visible()
		rows := make([]row, 0, len(entries))
		for _, e := range entries {
			rows = append(rows, row{ref: e.Track, index: e.Index})
		}
		return rows
	}
}

func (m *Model) clampCursor() {
	n := len(m.rows())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) selectedRow() (row, bool) {
	rows := m.rows()
	if m.cursor < 0 || m.cursor >= len(rows) {
		return row{}, false
	}
	return rows[m.cursor], true
}
