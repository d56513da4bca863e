// Package client talks to the Musicify persistence API over HTTP.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"musicify/pkg/models"

	"github.com/samber/lo"
)

// APIError is returned for any non-2xx response. Message carries the
// server's {"error": ...} text when present.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// Client is a thin JSON client for the persistence endpoints.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New returns a client rooted at baseURL (for example http://localhost:3000).
func New(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// WithHTTPClient swaps the underlying http.Client.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// AddFavorite stores a favorite reference and returns the new row id.
func (c *Client) AddFavorite(ctx context.Context, ref models.TrackRef) (int64, error) {
	var resp models.CreatedResponse
	body := map[string]*string{"name": lo.ToPtr(ref.Name), "path": lo.ToPtr(ref.Path)}
	if err := c.do(ctx, http.MethodPost, "/favorites", body, &resp); err != nil {
		return 0, fmt.Errorf("add favorite: %w", err)
	}
	return resp.ID, nil
}

// ListFavorites returns all favorites in insertion order.
func (c *Client) ListFavorites(ctx context.Context) ([]models.Favorite, error) {
	var favorites []models.Favorite
	if err := c.do(ctx, http.MethodGet, "/favorites", nil, &favorites); err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	return favorites, nil
}

// RemoveFavorite deletes every favorite whose name matches.
func (c *Client) RemoveFavorite(ctx context.Context, name string) error {
	if err := c.do(ctx, http.MethodDelete, "/favorites/"+url.PathEscape(name), nil, nil); err != nil {
		return fmt.Errorf("remove favorite: %w", err)
	}
	return nil
}

// CreatePlaylist creates a playlist and returns its id.
func (c *Client) CreatePlaylist(ctx context.Context, name string) (int64, error) {
	var resp models.CreatedResponse
	if err := c.do(ctx, http.MethodPost, "/playlists", map[string]string{"name": name}, &resp); err != nil {
		return 0, fmt.Errorf("create playlist: %w", err)
	}
	return resp.ID, nil
}

// ListPlaylists returns every playlist.
func (c *Client) ListPlaylists(ctx context.Context) ([]models.Playlist, error) {
	var playlists []models.Playlist
	if err := c.do(ctx, http.MethodGet, "/playlists", nil, &playlists); err != nil {
		return nil, fmt.Errorf("list playlists: %w", err)
	}
	return playlists, nil
}

// AddSongToPlaylist attaches ref to the playlist.
func (c *Client) AddSongToPlaylist(ctx context.Context, playlistID int64, ref models.TrackRef) (int64, error) {
	var resp models.CreatedResponse
	body := map[string]any{"playlist_id": playlistID, "name": ref.Name, "path": ref.Path}
	if err := c.do(ctx, http.MethodPost, "/playlist_songs", body, &resp); err != nil {
		return 0, fmt.Errorf("add playlist song: %w", err)
	}
	return resp.ID, nil
}

// ListPlaylistSongs returns the songs of one playlist.
func (c *Client) ListPlaylistSongs(ctx context.Context, playlistID int64) ([]models.PlaylistSong, error) {
	var songs []models.PlaylistSong
	path := "/playlist_songs/" + strconv.FormatInt(playlistID, 10)
	if err := c.do(ctx, http.MethodGet, path, nil, &songs); err != nil {
		return nil, fmt.Errorf("list playlist songs: %w", err)
	}
	return songs, nil
}

// ListAllPlaylistSongs returns songs across every playlist.
func (c *Client) ListAllPlaylistSongs(ctx context.Context) ([]models.PlaylistSong, error) {
	var songs []models.PlaylistSong
	if err := c.do(ctx, http.MethodGet, "/playlist_songs", nil, &songs); err != nil {
		return nil, fmt.Errorf("list all playlist songs: %w", err)
	}
	return songs, nil
}

// RecordPlay logs a "recently played" event.
func (c *Client) RecordPlay(ctx context.Context, ref models.TrackRef) error {
	body := map[string]string{"name": ref.Name, "path": ref.Path}
	if err := c.do(ctx, http.MethodPost, "/recently_played", body, nil); err != nil {
		return fmt.Errorf("record play: %w", err)
	}
	return nil
}

// RecentlyPlayed returns up to limit events, newest first.
func (c *Client) RecentlyPlayed(ctx context.Context, limit int) ([]models.RecentPlay, error) {
	var plays []models.RecentPlay
	path := "/recently_played?limit=" + strconv.Itoa(limit)
	if err := c.do(ctx, http.MethodGet, path, nil, &plays); err != nil {
		return nil, fmt.Errorf("recently played: %w", err)
	}
	return plays, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: resp.Status}
		var errResp models.ErrorResponse
		if json.NewDecoder(resp.Body).Decode(&errResp) == nil && errResp.Error != "" {
			apiErr.Message = errResp.Error
		}
		return apiErr
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
