package player

import (
	"context"
	"fmt"
	"strings"

	"musicify/pkg/models"

	"github.com/sirupsen/logrus"
)

// API is the persistence surface the library actions call.
// *client.Client satisfies it.
type API interface {
	AddFavorite(ctx context.Context, ref models.TrackRef) (int64, error)
	ListFavorites(ctx context.Context) ([]models.Favorite, error)
	RemoveFavorite(ctx context.Context, name string) error
	CreatePlaylist(ctx context.Context, name string) (int64, error)
	ListPlaylists(ctx context.Context) ([]models.Playlist, error)
	AddSongToPlaylist(ctx context.Context, playlistID int64, ref models.TrackRef) (int64, error)
	ListPlaylistSongs(ctx context.Context, playlistID int64) ([]models.PlaylistSong, error)
	ListAllPlaylistSongs(ctx context.Context) ([]models.PlaylistSong, error)
}

// Library runs the user-level favorite and playlist actions. Mutations
// re-fetch the affected listing so the caller always renders fresh rows.
type Library struct {
	api    API
	logger *logrus.Logger
}

func NewLibrary(api API, logger *logrus.Logger) *Library {
	return &Library{api: api, logger: logger}
}

// AddFavorite stores ref and returns the refreshed favorites.
func (l *Library) AddFavorite(ctx context.Context, ref models.TrackRef) ([]models.Favorite, error) {
	if _, err := l.api.AddFavorite(ctx, ref); err != nil {
		return nil, err
	}
	l.logger.WithField("track", ref.Name).Info("Added to favorites")
	return l.Favorites(ctx)
}

// RemoveFavorite deletes every favorite named name and returns the refreshed list.
func (l *Library) RemoveFavorite(ctx context.Context, name string) ([]models.Favorite, error) {
	if err := l.api.RemoveFavorite(ctx, name); err != nil {
		return nil, err
	}
	l.logger.WithField("track", name).Info("Removed from favorites")
	return l.Favorites(ctx)
}

func (l *Library) Favorites(ctx context.Context) ([]models.Favorite, error) {
	return l.api.ListFavorites(ctx)
}

// CreatePlaylist creates a playlist from a trimmed name. A blank name is
// ignored and reports created=false.
func (l *Library) CreatePlaylist(ctx context.Context, name string) (id int64, created bool, err error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, false, nil
	}
	id, err = l.api.CreatePlaylist(ctx, name)
	if err != nil {
		return 0, false, err
	}
	l.logger.WithFields(logrus.Fields{"id": id, "name": name}).Info("Playlist created")
	return id, true, nil
}

// AddToPlaylist attaches ref to the playlist with the given id.
func (l *Library) AddToPlaylist(ctx context.Context, playlistID int64, ref models.TrackRef) error {
	if _, err := l.api.AddSongToPlaylist(ctx, playlistID, ref); err != nil {
		return fmt.Errorf("add %q to playlist %d: %w", ref.Name, playlistID, err)
	}
	return nil
}

func (l *Library) Playlists(ctx context.Context) ([]models.Playlist, error) {
	return l.api.ListPlaylists(ctx)
}

func (l *Library) PlaylistSongs(ctx context.Context, playlistID int64) ([]models.PlaylistSong, error) {
	return l.api.ListPlaylistSongs(ctx, playlistID)
}

// AllPlaylistSongs lists songs across every playlist, the "My Playlists" view.
func (l *Library) AllPlaylistSongs(ctx context.Context) ([]models.PlaylistSong, error) {
	return l.api.ListAllPlaylistSongs(ctx)
}
