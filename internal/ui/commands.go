package ui

import (
	"context"
	"time"

	"musicify/internal/player"
	"musicify/pkg/models"

	tea "github.com/charmbracelet/bubbletea"
)

type (
	eventMsg player.Event
	tickMsg  time.Time

	tracksMsg struct {
		tracks  []models.TrackRef
		initial bool
		err     error
	}
	favoritesMsg struct {
		favorites []models.Favorite
		err       error
	}
	playlistSongsMsg struct {
		songs []models.PlaylistSong
		err   error
	}
	playlistsMsg struct {
		playlists []models.Playlist
		err       error
	}
	playlistCreatedMsg struct {
		name    string
		created bool
		err     error
	}
	addedToPlaylistMsg struct {
		track    string
		playlist string
		err      error
	}
)

func waitForEvent(ch <-chan player.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return eventMsg(ev)
	}
}

func tick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func scanFolder(scanner Scanner, root string, initial bool) tea.Cmd {
	return func() tea.Msg {
		tracks, err := scanner.Scan(context.Background(), root)
		return tracksMsg{tracks: tracks, initial: initial, err: err}
	}
}

func fetchFavorites(lib *player.Library) tea.Cmd {
	return func() tea.Msg {
		favorites, err := lib.Favorites(context.Background())
		return favoritesMsg{favorites: favorites, err: err}
	}
}

func addFavorite(lib *player.Library, ref models.TrackRef) tea.Cmd {
	return func() tea.Msg {
		favorites, err := lib.AddFavorite(context.Background(), ref)
		return favoritesMsg{favorites: favorites, err: err}
	}
}

func removeFavorite(lib *player.Library, name string) tea.Cmd {
	return func() tea.Msg {
		favorites, err := lib.RemoveFavorite(context.Background(), name)
		return favoritesMsg{favorites: favorites, err: err}
	}
}

func fetchAllPlaylistSongs(lib *player.Library) tea.Cmd {
	return func() tea.Msg {
		songs, err := lib.AllPlaylistSongs(context.Background())
		return playlistSongsMsg{songs: songs, err: err}
	}
}

func fetchPlaylists(lib *player.Library) tea.Cmd {
	return func() tea.Msg {
		playlists, err := lib.Playlists(context.Background())
		return playlistsMsg{playlists: playlists, err: err}
	}
}

func createPlaylist(lib *player.Library, name string) tea.Cmd {
	return func() tea.Msg {
		_, created, err := lib.CreatePlaylist(context.Background(), name)
		return playlistCreatedMsg{name: name, created: created, err: err}
	}
}

func addToPlaylist(lib *player.Library, playlist models.Playlist, ref models.TrackRef) tea.Cmd {
	return func() tea.Msg {
		err := lib.AddToPlaylist(context.Background(), playlist.ID, ref)
		return addedToPlaylistMsg{track: ref.Name, playlist: playlist.DisplayName(), err: err}
	}
}
