package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"musicify/internal/config"
	"musicify/internal/database"
	"musicify/internal/logging"
	"musicify/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*MusicServer, http.Handler) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Database.Driver = "sqlite"
	cfg.Database.Path = filepath.Join(t.TempDir(), "api.db")

	db, err := database.NewDatabase(cfg.Database, logging.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ms := NewMusicServer(cfg, db, logging.Discard())
	return ms, ms.Handler()
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), "body: %s", rec.Body.String())
	return v
}

func TestFavoritesLifecycle(t *testing.T) {
	_, h := newTestServer(t)

	rec := do(t, h, http.MethodPost, "/favorites", `{"name":"Artist - Song.mp3","path":"blob:musicify/1"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	created := decode[models.CreatedResponse](t, rec)
	assert.True(t, created.Success)
	assert.Positive(t, created.ID)

	rec = do(t, h, http.MethodGet, "/favorites", "")
	require.Equal(t, http.StatusOK, rec.Code)
	favorites := decode[[]models.Favorite](t, rec)
	require.Len(t, favorites, 1)
	assert.Equal(t, created.ID, favorites[0].ID)
	assert.Equal(t, "Artist - Song.mp3", *favorites[0].Name)
	assert.Equal(t, "blob:musicify/1", *favorites[0].Path)

	rec = do(t, h, http.MethodDelete, "/favorites/"+url.PathEscape("Artist - Song.mp3"), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[models.SuccessResponse](t, rec).Success)

	rec = do(t, h, http.MethodGet, "/favorites", "")
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestRemoveFavoriteWithoutMatchSucceeds(t *testing.T) {
	_, h := newTestServer(t)

	rec := do(t, h, http.MethodDelete, "/favorites/nothing.mp3", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())
}

func TestFavoriteWithEmptyBodyStoresNulls(t *testing.T) {
	_, h := newTestServer(t)

	rec := do(t, h, http.MethodPost, "/favorites", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodGet, "/favorites", "")
	favorites := decode[[]models.Favorite](t, rec)
	require.Len(t, favorites, 1)
	assert.Nil(t, favorites[0].Name)
	assert.Nil(t, favorites[0].Path)
	assert.Contains(t, rec.Body.String(), `"name":null`)
}

func TestMalformedJSONIsBadRequest(t *testing.T) {
	_, h := newTestServer(t)

	for _, target := range []string{"/favorites", "/playlists", "/playlist_songs", "/recently_played"} {
		t.Run(target, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, target, `{"name":`)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.NotEmpty(t, decode[models.ErrorResponse](t, rec).Error)
		})
	}
}

func TestPlaylistsAndSongs(t *testing.T) {
	_, h := newTestServer(t)

	first := decode[models.CreatedResponse](t, do(t, h, http.MethodPost, "/playlists", `{"name":"Road Trip"}`))
	second := decode[models.CreatedResponse](t, do(t, h, http.MethodPost, "/playlists", `{"name":"Road Trip"}`))
	assert.NotEqual(t, first.ID, second.ID, "duplicate names are separate playlists")

	playlists := decode[[]models.Playlist](t, do(t, h, http.MethodGet, "/playlists", ""))
	assert.Len(t, playlists, 2)

	body := `{"playlist_id":` + jsonInt(first.ID) + `,"name":"a.mp3","path":"blob:musicify/a"}`
	rec := do(t, h, http.MethodPost, "/playlist_songs", body)
	require.Equal(t, http.StatusOK, rec.Code)
	do(t, h, http.MethodPost, "/playlist_songs", `{"playlist_id":`+jsonInt(second.ID)+`,"name":"b.mp3"}`)
	do(t, h, http.MethodPost, "/playlist_songs", `{"playlist_id":999,"name":"orphan.mp3"}`)

	songs := decode[[]models.PlaylistSong](t, do(t, h, http.MethodGet, "/playlist_songs/"+jsonInt(first.ID), ""))
	require.Len(t, songs, 1)
	assert.Equal(t, "a.mp3", *songs[0].Name)
	assert.Equal(t, first.ID, *songs[0].PlaylistID)

	orphans := decode[[]models.PlaylistSong](t, do(t, h, http.MethodGet, "/playlist_songs/999", ""))
	assert.Len(t, orphans, 1)

	all := decode[[]models.PlaylistSong](t, do(t, h, http.MethodGet, "/playlist_songs", ""))
	assert.Len(t, all, 3)

	rec = do(t, h, http.MethodGet, "/playlist_songs/abc", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestPlaylistSongStringIDIsStoredAsGiven(t *testing.T) {
	_, h := newTestServer(t)

	rec := do(t, h, http.MethodPost, "/playlist_songs", `{"playlist_id":"5","name":"a.mp3","path":"p"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	songs := decode[[]models.PlaylistSong](t, do(t, h, http.MethodGet, "/playlist_songs/5", ""))
	require.Len(t, songs, 1)
	require.NotNil(t, songs[0].PlaylistID)
	assert.Equal(t, int64(5), *songs[0].PlaylistID)
	assert.Equal(t, "a.mp3", *songs[0].Name)
}

func TestLooselyTypedBodiesAreNotRejected(t *testing.T) {
	_, h := newTestServer(t)

	tests := []struct {
		name, target, body string
	}{
		{"numeric favorite name", "/favorites", `{"name":42,"path":"p"}`},
		{"boolean path", "/favorites", `{"name":"a","path":true}`},
		{"object name", "/playlists", `{"name":{"x":1}}`},
		{"fractional playlist id", "/playlist_songs", `{"playlist_id":1.5,"name":"a"}`},
		{"non-numeric playlist id", "/playlist_songs", `{"playlist_id":"x","name":"a"}`},
		{"array body", "/recently_played", `[1,2]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, tt.target, tt.body)
			assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		})
	}

	favorites := decode[[]models.Favorite](t, do(t, h, http.MethodGet, "/favorites", ""))
	require.Len(t, favorites, 2)
	assert.Equal(t, "42", *favorites[0].Name)

	playlists := decode[[]models.Playlist](t, do(t, h, http.MethodGet, "/playlists", ""))
	require.Len(t, playlists, 1)
	assert.JSONEq(t, `{"x":1}`, *playlists[0].Name)

	rec := do(t, h, http.MethodPost, "/favorites", `{"name":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRecentlyPlayed(t *testing.T) {
	ms, h := newTestServer(t)
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	calls := 0
	ms.now = func() time.Time {
		calls++
		return base.Add(time.Duration(calls) * time.Minute)
	}

	for _, name := range []string{"one.mp3", "two.mp3", "three.mp3"} {
		rec := do(t, h, http.MethodPost, "/recently_played", `{"name":"`+name+`"}`)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	plays := decode[[]models.RecentPlay](t, do(t, h, http.MethodGet, "/recently_played?limit=2", ""))
	require.Len(t, plays, 2)
	assert.Equal(t, "three.mp3", *plays[0].Name)
	assert.Equal(t, "two.mp3", *plays[1].Name)
	assert.True(t, plays[0].PlayedAt.Equal(base.Add(3*time.Minute)))

	plays = decode[[]models.RecentPlay](t, do(t, h, http.MethodGet, "/recently_played?limit=bogus", ""))
	assert.Len(t, plays, 3)
}

func TestHealth(t *testing.T) {
	_, h := newTestServer(t)

	rec := do(t, h, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	health := decode[HealthStatus](t, rec)
	assert.Equal(t, "healthy", health.Status)
}

func TestCORS(t *testing.T) {
	_, h := newTestServer(t)

	rec := do(t, h, http.MethodGet, "/favorites", "")
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))

	req := httptest.NewRequest(http.MethodOptions, "/favorites", nil)
	req.Header.Set("Origin", "http://example.test")
	req.Header.Set("Access-Control-Request-Method", "POST")
	req.Header.Set("Access-Control-Request-Headers", "content-type")
	pre := httptest.NewRecorder()
	h.ServeHTTP(pre, req)

	assert.Equal(t, http.StatusNoContent, pre.Code)
	assert.Contains(t, pre.Header().Get("Access-Control-Allow-Methods"), "DELETE")
	assert.Equal(t, "content-type", pre.Header().Get("Access-Control-Allow-Headers"))
}

func TestCORSDisabled(t *testing.T) {
	ms, _ := newTestServer(t)
	ms.config.Server.EnableCORS = false
	h := ms.Handler()

	rec := do(t, h, http.MethodGet, "/favorites", "")
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

// failingStore returns the same error from every call.
type failingStore struct{ err error }

func (f failingStore) AddFavorite(_, _ any) (int64, error)      { return 0, f.err }
func (f failingStore) GetFavorites() ([]models.Favorite, error) { return nil, f.err }
func (f failingStore) RemoveFavorite(string) (int64, error)     { return 0, f.err }
func (f failingStore) CreatePlaylist(any) (int64, error)        { return 0, f.err }
func (f failingStore) GetPlaylists() ([]models.Playlist, error) { return nil, f.err }
func (f failingStore) GetPlaylistSongs(string) ([]models.PlaylistSong, error) {
	return nil, f.err
}
func (f failingStore) GetAllPlaylistSongs() ([]models.PlaylistSong, error) { return nil, f.err }
func (f failingStore) AddPlaylistSong(_, _, _ any) (int64, error) {
	return 0, f.err
}
func (f failingStore) RecordPlay(_, _ any, _ time.Time) (int64, error)    { return 0, f.err }
func (f failingStore) GetRecentlyPlayed(int) ([]models.RecentPlay, error) { return nil, f.err }
func (f failingStore) Ping(context.Context) error                         { return f.err }

func TestStoreErrorsSurfaceAs500(t *testing.T) {
	store := failingStore{err: errors.New("SQLITE_BUSY: database is locked")}
	h := NewMusicServer(config.DefaultConfig(), store, logging.Discard()).Handler()

	tests := []struct {
		method, target, body string
	}{
		{http.MethodPost, "/favorites", `{"name":"a"}`},
		{http.MethodGet, "/favorites", ""},
		{http.MethodDelete, "/favorites/a", ""},
		{http.MethodPost, "/playlists", `{"name":"p"}`},
		{http.MethodGet, "/playlists", ""},
		{http.MethodPost, "/playlist_songs", `{"playlist_id":1}`},
		{http.MethodGet, "/playlist_songs", ""},
		{http.MethodGet, "/playlist_songs/1", ""},
		{http.MethodPost, "/recently_played", `{"name":"a"}`},
		{http.MethodGet, "/recently_played", ""},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.target, func(t *testing.T) {
			rec := do(t, h, tt.method, tt.target, tt.body)
			assert.Equal(t, http.StatusInternalServerError, rec.Code)
			assert.JSONEq(t, `{"error":"SQLITE_BUSY: database is locked"}`, rec.Body.String())
		})
	}

	rec := do(t, h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestPanicRecovery(t *testing.T) {
	ms := NewMusicServer(config.DefaultConfig(), failingStore{}, logging.Discard())
	h := ms.panicRecoveryMiddleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := do(t, h, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"boom"}`, rec.Body.String())
}

func jsonInt(n int64) string {
	b, _ := json.Marshal(n)
	return string(b)
}
