package server

import (
	"net/http"

	"musicify/pkg/models"
)

// handleCreatePlaylist inserts a playlist. Names are not validated or deduplicated.
func (ms *MusicServer) handleCreatePlaylist(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody(r)
	if err != nil {
		ms.respondWithError(w, r, http.StatusBadRequest, err)
		return
	}

	id, err := ms.store.CreatePlaylist(body.value("name"))
	if err != nil {
		ms.respondWithError(w, r, http.StatusInternalServerError, err)
		return
	}

	ms.logger.WithField("id", id).Debug("Playlist created")
	ms.respondJSON(w, models.CreatedResponse{Success: true, ID: id})
}

// handleGetPlaylists returns all playlists as JSON.
func (ms *MusicServer) handleGetPlaylists(w http.ResponseWriter, r *http.Request) {
	playlists, err := ms.store.GetPlaylists()
	if err != nil {
		ms.respondWithError(w, r, http.StatusInternalServerError, err)
		return
	}
	ms.respondJSON(w, playlists)
}

// handleAddPlaylistSong attaches a reference to a playlist. The playlist id
// is accepted as-is, existing or not; "5" lands under playlist 5 through
// the column's integer affinity.
func (ms *MusicServer) handleAddPlaylistSong(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody(r)
	if err != nil {
		ms.respondWithError(w, r, http.StatusBadRequest, err)
		return
	}

	id, err := ms.store.AddPlaylistSong(body.value("playlist_id"), body.value("name"), body.value("path"))
	if err != nil {
		ms.respondWithError(w, r, http.StatusInternalServerError, err)
		return
	}

	ms.respondJSON(w, models.CreatedResponse{Success: true, ID: id})
}

// handleGetPlaylistSongs returns the songs whose playlist_id matches the path parameter.
func (ms *MusicServer) handleGetPlaylistSongs(w http.ResponseWriter, r *http.Request) {
	songs, err := ms.store.GetPlaylistSongs(r.PathValue("playlist_id"))
	if err != nil {
		ms.respondWithError(w, r, http.StatusInternalServerError, err)
		return
	}
	ms.respondJSON(w, songs)
}

// handleGetAllPlaylistSongs returns every playlist song row.
func (ms *MusicServer) handleGetAllPlaylistSongs(w http.ResponseWriter, r *http.Request) {
	songs, err := ms.store.GetAllPlaylistSongs()
	if err != nil {
		ms.respondWithError(w, r, http.StatusInternalServerError, err)
		return
	}
	ms.respondJSON(w, songs)
}
