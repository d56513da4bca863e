package server

import (
	"net/http"

	"musicify/pkg/models"

	"github.com/sirupsen/logrus"
)

// handleAddFavorite inserts a favorite row and returns its id.
func (ms *MusicServer) handleAddFavorite(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody(r)
	if err != nil {
		ms.respondWithError(w, r, http.StatusBadRequest, err)
		return
	}

	id, err := ms.store.AddFavorite(body.value("name"), body.value("path"))
	if err != nil {
		ms.respondWithError(w, r, http.StatusInternalServerError, err)
		return
	}

	ms.logger.WithFields(logrus.Fields{"id": id, "name": body.value("name")}).Debug("Favorite added")
	ms.respondJSON(w, models.CreatedResponse{Success: true, ID: id})
}

// handleGetFavorites returns every favorite in insertion order.
func (ms *MusicServer) handleGetFavorites(w http.ResponseWriter, r *http.Request) {
	favorites, err := ms.store.GetFavorites()
	if err != nil {
		ms.respondWithError(w, r, http.StatusInternalServerError, err)
		return
	}
	ms.respondJSON(w, favorites)
}

// handleRemoveFavorite deletes all favorites with the given name. There is no
// not-found case: zero matches is still a success.
func (ms *MusicServer) handleRemoveFavorite(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	removed, err := ms.store.RemoveFavorite(name)
	if err != nil {
		ms.respondWithError(w, r, http.StatusInternalServerError, err)
		return
	}

	ms.logger.WithFields(logrus.Fields{"name": name, "removed": removed}).Debug("Favorites removed")
	ms.respondJSON(w, models.SuccessResponse{Success: true})
}
