package server

import (
	"net/http"
	"strconv"

	"musicify/pkg/models"
)

const defaultRecentLimit = 20

// handleRecordPlay stores a "recently played" event.
func (ms *MusicServer) handleRecordPlay(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody(r)
	if err != nil {
		ms.respondWithError(w, r, http.StatusBadRequest, err)
		return
	}

	id, err := ms.store.RecordPlay(body.value("name"), body.value("path"), ms.now())
	if err != nil {
		ms.respondWithError(w, r, http.StatusInternalServerError, err)
		return
	}

	ms.respondJSON(w, models.CreatedResponse{Success: true, ID: id})
}

// handleGetRecentlyPlayed returns the newest events first. ?limit= defaults
// to 20; unparsable or non-positive values fall back to the default.
func (ms *MusicServer) handleGetRecentlyPlayed(w http.ResponseWriter, r *http.Request) {
	limit := defaultRecentLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	plays, err := ms.store.GetRecentlyPlayed(limit)
	if err != nil {
		ms.respondWithError(w, r, http.StatusInternalServerError, err)
		return
	}
	ms.respondJSON(w, plays)
}
