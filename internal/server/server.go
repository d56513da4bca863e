package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"musicify/internal/config"
	"musicify/pkg/models"

	"github.com/sirupsen/logrus"
)

// Store is the persistence surface the HTTP handlers need. *database.Database
// satisfies it. Insert values arrive as decoded from the request: nil,
// string, int64, float64 or bool.
type Store interface {
	AddFavorite(name, path any) (int64, error)
	GetFavorites() ([]models.Favorite, error)
	RemoveFavorite(name string) (int64, error)
	CreatePlaylist(name any) (int64, error)
	GetPlaylists() ([]models.Playlist, error)
	AddPlaylistSong(playlistID, name, path any) (int64, error)
	GetPlaylistSongs(playlistID string) ([]models.PlaylistSong, error)
	GetAllPlaylistSongs() ([]models.PlaylistSong, error)
	RecordPlay(name, path any, playedAt time.Time) (int64, error)
	GetRecentlyPlayed(limit int) ([]models.RecentPlay, error)
	Ping(ctx context.Context) error
}

// MusicServer serves the favorites/playlists API.
type MusicServer struct {
	store      Store
	config     *config.Config
	logger     *logrus.Logger
	httpServer *http.Server
	now        func() time.Time
}

// NewMusicServer creates a new API server instance
func NewMusicServer(cfg *config.Config, store Store, logger *logrus.Logger) *MusicServer {
	return &MusicServer{
		store:  store,
		config: cfg,
		logger: logger,
		now:    time.Now,
	}
}

// Handler returns the routed API wrapped in the middleware chain.
func (ms *MusicServer) Handler() http.Handler {
	mux := http.NewServeMux()
	ms.setupRoutes(mux)

	var handler http.Handler = mux
	handler = ms.requestLoggingMiddleware(handler)
	handler = ms.requestIDMiddleware(handler)
	handler = ms.corsMiddleware(handler)
	handler = ms.panicRecoveryMiddleware(handler)
	return handler
}

func (ms *MusicServer) setupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", ms.handleHealthCheck)

	// Favorites
	mux.HandleFunc("POST /favorites", ms.handleAddFavorite)
	mux.HandleFunc("GET /favorites", ms.handleGetFavorites)
	mux.HandleFunc("DELETE /favorites/{name}", ms.handleRemoveFavorite)

	// Playlists
	mux.HandleFunc("POST /playlists", ms.handleCreatePlaylist)
	mux.HandleFunc("GET /playlists", ms.handleGetPlaylists)
	mux.HandleFunc("POST /playlist_songs", ms.handleAddPlaylistSong)
	mux.HandleFunc("GET /playlist_songs", ms.handleGetAllPlaylistSongs)
	mux.HandleFunc("GET /playlist_songs/{playlist_id}", ms.handleGetPlaylistSongs)

	// Recently played
	mux.HandleFunc("POST /recently_played", ms.handleRecordPlay)
	mux.HandleFunc("GET /recently_played", ms.handleGetRecentlyPlayed)
}

// Start listens on the configured address and blocks until the server stops.
// A clean Shutdown returns nil.
func (ms *MusicServer) Start() error {
	ms.httpServer = &http.Server{
		Addr:         ms.config.GetAddress(),
		Handler:      ms.Handler(),
		ReadTimeout:  time.Duration(ms.config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(ms.config.Server.WriteTimeout) * time.Second,
	}

	ms.logger.WithFields(logrus.Fields{
		"address": fmt.Sprintf("http://%s", ms.config.GetAddress()),
		"cors":    ms.config.Server.EnableCORS,
	}).Info("Musicify API starting")

	if err := ms.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (ms *MusicServer) Shutdown(ctx context.Context) error {
	ms.logger.Info("Shutting down API server...")
	if ms.httpServer == nil {
		return nil
	}
	if err := ms.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	ms.logger.Info("API server shutdown complete")
	return nil
}
