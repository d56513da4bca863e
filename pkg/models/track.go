package models

import "time"

// TrackRef identifies playable audio. Path is either an ephemeral handle
// minted by the local library or an opaque string read back from the store.
type TrackRef struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// Favorite is a user-marked track reference. Name and Path are nullable
// because the API stores missing fields as NULL.
type Favorite struct {
	ID   int64   `json:"id"`
	Name *string `json:"name"`
	Path *string `json:"path"`
}

// Playlist represents a user-created playlist
type Playlist struct {
	ID   int64   `json:"id"`
	Name *string `json:"name"`
}

// PlaylistSong is a track reference attached to a playlist. PlaylistID is
// not checked against the playlists table.
type PlaylistSong struct {
	ID         int64   `json:"id"`
	PlaylistID *int64  `json:"playlist_id"`
	Name       *string `json:"name"`
	Path       *string `json:"path"`
}

// RecentPlay records a single "recently played" event.
type RecentPlay struct {
	ID       int64     `json:"id"`
	Name     *string   `json:"name"`
	Path     *string   `json:"path"`
	PlayedAt time.Time `json:"played_at"`
}

// CreatedResponse is returned by every insert endpoint.
type CreatedResponse struct {
	Success bool  `json:"success"`
	ID      int64 `json:"id"`
}

// SuccessResponse is returned by delete endpoints.
type SuccessResponse struct {
	Success bool `json:"success"`
}

// ErrorResponse carries the raw store error message.
type ErrorResponse struct {
	Error string `json:"error"`
}
