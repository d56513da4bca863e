package database

import (
	"path/filepath"
	"strconv"
	"sync"
	"testing"
	"time"

	"musicify/internal/config"
	"musicify/internal/logging"
	"musicify/pkg/models"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDatabase(t *testing.T, driver string) *Database {
	t.Helper()
	cfg := config.DatabaseConfig{
		Driver:         driver,
		Path:           filepath.Join(t.TempDir(), "test.db"),
		MaxConnections: 5,
	}
	db, err := NewDatabase(cfg, logging.Discard())
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func forEachDriver(t *testing.T, fn func(t *testing.T, db *Database)) {
	for _, driver := range testDrivers {
		t.Run(driver, func(t *testing.T) {
			fn(t, newTestDatabase(t, driver))
		})
	}
}

func TestFavorites(t *testing.T) {
	forEachDriver(t, func(t *testing.T, db *Database) {
		id, err := db.AddFavorite("X", "p")
		require.NoError(t, err)
		assert.Positive(t, id)

		favorites, err := db.GetFavorites()
		require.NoError(t, err)
		require.Len(t, favorites, 1)
		assert.Equal(t, id, favorites[0].ID)
		assert.Equal(t, "X", *favorites[0].Name)
		assert.Equal(t, "p", *favorites[0].Path)
	})
}

func TestFavoritesInsertionOrder(t *testing.T) {
	forEachDriver(t, func(t *testing.T, db *Database) {
		for _, name := range []string{"c", "a", "b"} {
			_, err := db.AddFavorite(name, "/"+name)
			require.NoError(t, err)
		}

		favorites, err := db.GetFavorites()
		require.NoError(t, err)
		names := lo.Map(favorites, func(f models.Favorite, _ int) string { return *f.Name })
		assert.Equal(t, []string{"c", "a", "b"}, names)
	})
}

func TestRemoveFavoriteDeletesAllMatches(t *testing.T) {
	forEachDriver(t, func(t *testing.T, db *Database) {
		for i := 0; i < 3; i++ {
			_, err := db.AddFavorite("X", "p")
			require.NoError(t, err)
		}
		_, err := db.AddFavorite("Y", "q")
		require.NoError(t, err)

		removed, err := db.RemoveFavorite("X")
		require.NoError(t, err)
		assert.EqualValues(t, 3, removed)

		favorites, err := db.GetFavorites()
		require.NoError(t, err)
		require.Len(t, favorites, 1)
		assert.Equal(t, "Y", *favorites[0].Name)

		// Nothing left to match is still a success.
		removed, err = db.RemoveFavorite("X")
		require.NoError(t, err)
		assert.EqualValues(t, 0, removed)
	})
}

func TestFavoritesNullFields(t *testing.T) {
	forEachDriver(t, func(t *testing.T, db *Database) {
		_, err := db.AddFavorite(nil, nil)
		require.NoError(t, err)

		favorites, err := db.GetFavorites()
		require.NoError(t, err)
		require.Len(t, favorites, 1)
		assert.Nil(t, favorites[0].Name)
		assert.Nil(t, favorites[0].Path)
	})
}

func TestPlaylistsAllowDuplicates(t *testing.T) {
	forEachDriver(t, func(t *testing.T, db *Database) {
		first, err := db.CreatePlaylist("Road Trip")
		require.NoError(t, err)
		second, err := db.CreatePlaylist("Road Trip")
		require.NoError(t, err)
		assert.NotEqual(t, first, second)

		playlists, err := db.GetPlaylists()
		require.NoError(t, err)
		require.Len(t, playlists, 2)
		assert.Equal(t, "Road Trip", playlists[0].DisplayName())
		assert.Equal(t, "Road Trip", playlists[1].DisplayName())
	})
}

func TestPlaylistSongsWithoutPlaylist(t *testing.T) {
	forEachDriver(t, func(t *testing.T, db *Database) {
		id, err := db.AddPlaylistSong(int64(999), "Song", "p")
		require.NoError(t, err)

		songs, err := db.GetPlaylistSongs("999")
		require.NoError(t, err)
		require.Len(t, songs, 1)
		assert.Equal(t, id, songs[0].ID)
		assert.EqualValues(t, 999, *songs[0].PlaylistID)
		assert.Equal(t, "Song", *songs[0].Name)
	})
}

func TestValuesBindAsGiven(t *testing.T) {
	forEachDriver(t, func(t *testing.T, db *Database) {
		_, err := db.AddPlaylistSong("5", "a", "p")
		require.NoError(t, err)
		_, err = db.AddPlaylistSong("x", "b", "q")
		require.NoError(t, err)
		_, err = db.AddFavorite(int64(42), true)
		require.NoError(t, err)

		songs, err := db.GetPlaylistSongs("5")
		require.NoError(t, err)
		require.Len(t, songs, 1)
		assert.EqualValues(t, 5, *songs[0].PlaylistID)

		all, err := db.GetAllPlaylistSongs()
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Nil(t, all[1].PlaylistID, "text ids have no integer form")
		assert.Equal(t, "b", *all[1].Name)

		favorites, err := db.GetFavorites()
		require.NoError(t, err)
		require.Len(t, favorites, 1)
		assert.Equal(t, "42", *favorites[0].Name)
	})
}

func TestPlaylistSongsFilterByPlaylist(t *testing.T) {
	forEachDriver(t, func(t *testing.T, db *Database) {
		playlistID, err := db.CreatePlaylist("Mix")
		require.NoError(t, err)

		_, err = db.AddPlaylistSong(playlistID, "a", "/a")
		require.NoError(t, err)
		_, err = db.AddPlaylistSong(playlistID+1, "b", "/b")
		require.NoError(t, err)
		_, err = db.AddPlaylistSong(playlistID, "c", "/c")
		require.NoError(t, err)

		songs, err := db.GetPlaylistSongs(strconv.FormatInt(playlistID, 10))
		require.NoError(t, err)
		require.Len(t, songs, 2)
		assert.Equal(t, "a", *songs[0].Name)
		assert.Equal(t, "c", *songs[1].Name)

		empty, err := db.GetPlaylistSongs("not-a-number")
		require.NoError(t, err)
		assert.NotNil(t, empty)
		assert.Empty(t, empty)

		all, err := db.GetAllPlaylistSongs()
		require.NoError(t, err)
		assert.Len(t, all, 3)
	})
}

func TestRecentlyPlayed(t *testing.T) {
	forEachDriver(t, func(t *testing.T, db *Database) {
		base := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
		for i, name := range []string{"one", "two", "three"} {
			_, err := db.RecordPlay(name, "blob:"+name, base.Add(time.Duration(i)*time.Minute))
			require.NoError(t, err)
		}

		plays, err := db.GetRecentlyPlayed(2)
		require.NoError(t, err)
		require.Len(t, plays, 2)
		assert.Equal(t, "three", *plays[0].Name)
		assert.Equal(t, "two", *plays[1].Name)
		assert.True(t, plays[0].PlayedAt.Equal(base.Add(2*time.Minute)))
	})
}

func TestConcurrentDuplicateWrites(t *testing.T) {
	forEachDriver(t, func(t *testing.T, db *Database) {
		var wg sync.WaitGroup
		for i := 0; i < 2; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := db.AddFavorite("same", "p")
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		favorites, err := db.GetFavorites()
		require.NoError(t, err)
		assert.Len(t, favorites, 2)
	})
}

func TestEmptyListsAreNotNil(t *testing.T) {
	forEachDriver(t, func(t *testing.T, db *Database) {
		favorites, err := db.GetFavorites()
		require.NoError(t, err)
		assert.NotNil(t, favorites)

		playlists, err := db.GetPlaylists()
		require.NoError(t, err)
		assert.NotNil(t, playlists)
	})
}
