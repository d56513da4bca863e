package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"musicify/internal/config"
	"musicify/pkg/models"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

// Database wraps a *sql.DB with one helper per API operation. Every helper
// is a single statement; nothing here runs inside a transaction.
type Database struct {
	conn   *sql.DB
	logger *logrus.Logger

	insertFavoriteStmt     *sql.Stmt
	deleteFavoriteStmt     *sql.Stmt
	insertPlaylistStmt     *sql.Stmt
	insertPlaylistSongStmt *sql.Stmt
	playlistSongsStmt      *sql.Stmt
	insertRecentStmt       *sql.Stmt
}

// NewDatabase opens (or creates) the SQLite file named in cfg and ensures the
// schema exists. Caller should Close() it when finished.
func NewDatabase(cfg config.DatabaseConfig, logger *logrus.Logger) (*Database, error) {
	conn, err := sql.Open(cfg.Driver, dsn(cfg.Driver, cfg.Path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	conn.SetMaxOpenConns(cfg.MaxConnections)
	conn.SetMaxIdleConns(2)
	conn.SetConnMaxLifetime(15 * time.Minute)

	// foreign_keys stays at its default (off): playlist_songs must accept
	// playlist ids that do not exist.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA temp_store=memory;",
	}

	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			logger.WithError(err).WithField("pragma", pragma).Warn("Failed to set pragma")
		}
	}

	db := &Database{
		conn:   conn,
		logger: logger,
	}

	if err := db.createTables(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	if err := db.prepareStatements(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to prepare statements: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"db_path": cfg.Path,
		"driver":  cfg.Driver,
	}).Info("Database initialized successfully")
	return db, nil
}

func dsn(driver, path string) string {
	if driver == "sqlite" {
		return "file:" + path + "?_pragma=busy_timeout(5000)"
	}
	return path + "?_busy_timeout=5000&mode=rwc"
}

// createTables creates the schema if it does not already exist.
func (db *Database) createTables() error {
	favoritesTable := `
	CREATE TABLE IF NOT EXISTS favorites (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT,
		path TEXT
	);`

	playlistsTable := `
	CREATE TABLE IF NOT EXISTS playlists (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT
	);`

	playlistSongsTable := `
	CREATE TABLE IF NOT EXISTS playlist_songs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		playlist_id INTEGER,
		name TEXT,
		path TEXT,
		FOREIGN KEY(playlist_id) REFERENCES playlists(id)
	);`

	recentlyPlayedTable := `
	CREATE TABLE IF NOT EXISTS recently_played (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT,
		path TEXT,
		played_at INTEGER NOT NULL
	);`

	tables := []string{favoritesTable, playlistsTable, playlistSongsTable, recentlyPlayedTable}
	for _, table := range tables {
		if _, err := db.conn.Exec(table); err != nil {
			return err
		}
	}

	if _, err := db.conn.Exec("CREATE INDEX IF NOT EXISTS idx_playlist_songs_playlist ON playlist_songs(playlist_id);"); err != nil {
		return err
	}

	return nil
}

// prepareStatements prepares the write statements and the playlist lookup.
func (db *Database) prepareStatements() error {
	var err error

	db.insertFavoriteStmt, err = db.conn.Prepare(`INSERT INTO favorites (name, path) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert favorite statement: %w", err)
	}

	db.deleteFavoriteStmt, err = db.conn.Prepare(`DELETE FROM favorites WHERE name = ?`)
	if err != nil {
		return fmt.Errorf("failed to prepare delete favorite statement: %w", err)
	}

	db.insertPlaylistStmt, err = db.conn.Prepare(`INSERT INTO playlists (name) VALUES (?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert playlist statement: %w", err)
	}

	db.insertPlaylistSongStmt, err = db.conn.Prepare(`
		INSERT INTO playlist_songs (playlist_id, name, path) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert playlist song statement: %w", err)
	}

	db.playlistSongsStmt, err = db.conn.Prepare(`
		SELECT id, playlist_id, name, path FROM playlist_songs
		WHERE playlist_id = ?
		ORDER BY id`)
	if err != nil {
		return fmt.Errorf("failed to prepare playlist songs statement: %w", err)
	}

	db.insertRecentStmt, err = db.conn.Prepare(`
		INSERT INTO recently_played (name, path, played_at) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert recently played statement: %w", err)
	}

	return nil
}

// AddFavorite inserts a favorite row. Values are bound unchanged, so nil is
// stored as NULL and the column affinity decides the stored type.
func (db *Database) AddFavorite(name, path any) (int64, error) {
	result, err := db.insertFavoriteStmt.Exec(name, path)
	if err != nil {
		db.logger.WithError(err).Error("Failed to insert favorite")
		return 0, err
	}
	return result.LastInsertId()
}

// GetFavorites returns every favorite in insertion order.
func (db *Database) GetFavorites() ([]models.Favorite, error) {
	rows, err := db.conn.Query(`SELECT id, name, path FROM favorites ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	favorites := []models.Favorite{}
	for rows.Next() {
		var favorite models.Favorite
		var name, path sql.NullString
		if err := rows.Scan(&favorite.ID, &name, &path); err != nil {
			return nil, err
		}
		favorite.Name = nullStringPtr(name)
		favorite.Path = nullStringPtr(path)
		favorites = append(favorites, favorite)
	}
	return favorites, rows.Err()
}

// RemoveFavorite deletes every favorite whose name matches and reports how
// many rows went. Zero is not an error.
func (db *Database) RemoveFavorite(name string) (int64, error) {
	result, err := db.deleteFavoriteStmt.Exec(name)
	if err != nil {
		db.logger.WithError(err).WithField("name", name).Error("Failed to remove favorite")
		return 0, err
	}
	return result.RowsAffected()
}

// CreatePlaylist inserts a new playlist and returns its ID.
func (db *Database) CreatePlaylist(name any) (int64, error) {
	result, err := db.insertPlaylistStmt.Exec(name)
	if err != nil {
		db.logger.WithError(err).Error("Failed to create playlist")
		return 0, err
	}
	return result.LastInsertId()
}

// GetPlaylists returns all playlists in insertion order.
func (db *Database) GetPlaylists() ([]models.Playlist, error) {
	rows, err := db.conn.Query(`SELECT id, name FROM playlists ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	playlists := []models.Playlist{}
	for rows.Next() {
		var playlist models.Playlist
		var name sql.NullString
		if err := rows.Scan(&playlist.ID, &name); err != nil {
			return nil, err
		}
		playlist.Name = nullStringPtr(name)
		playlists = append(playlists, playlist)
	}
	return playlists, rows.Err()
}

// AddPlaylistSong attaches a reference to a playlist. The playlist id is not
// checked against the playlists table.
func (db *Database) AddPlaylistSong(playlistID, name, path any) (int64, error) {
	result, err := db.insertPlaylistSongStmt.Exec(playlistID, name, path)
	if err != nil {
		db.logger.WithError(err).Error("Failed to insert playlist song")
		return 0, err
	}
	return result.LastInsertId()
}

// GetPlaylistSongs returns the rows whose playlist_id equals the raw path
// parameter. Column affinity turns numeric text into an integer comparison;
// anything else simply matches nothing.
func (db *Database) GetPlaylistSongs(playlistID string) ([]models.PlaylistSong, error) {
	rows, err := db.playlistSongsStmt.Query(playlistID)
	if err != nil {
		db.logger.WithError(err).WithField("playlist_id", playlistID).Error("Failed to get playlist songs")
		return nil, err
	}
	defer rows.Close()
	return scanPlaylistSongRows(rows)
}

// GetAllPlaylistSongs returns every playlist song row regardless of playlist.
func (db *Database) GetAllPlaylistSongs() ([]models.PlaylistSong, error) {
	rows, err := db.conn.Query(`SELECT id, playlist_id, name, path FROM playlist_songs ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPlaylistSongRows(rows)
}

// RecordPlay appends a "recently played" event stamped with playedAt.
func (db *Database) RecordPlay(name, path any, playedAt time.Time) (int64, error) {
	result, err := db.insertRecentStmt.Exec(name, path, playedAt.UnixMilli())
	if err != nil {
		db.logger.WithError(err).Error("Failed to record play")
		return 0, err
	}
	return result.LastInsertId()
}

// GetRecentlyPlayed returns up to limit events, newest first.
func (db *Database) GetRecentlyPlayed(limit int) ([]models.RecentPlay, error) {
	rows, err := db.conn.Query(`
		SELECT id, name, path, played_at FROM recently_played
		ORDER BY id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	plays := []models.RecentPlay{}
	for rows.Next() {
		var play models.RecentPlay
		var name, path sql.NullString
		var playedAt int64
		if err := rows.Scan(&play.ID, &name, &path, &playedAt); err != nil {
			return nil, err
		}
		play.Name = nullStringPtr(name)
		play.Path = nullStringPtr(path)
		play.PlayedAt = time.UnixMilli(playedAt).UTC()
		plays = append(plays, play)
	}
	return plays, rows.Err()
}

// Ping checks that the store is reachable.
func (db *Database) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// Close closes the prepared statements and the underlying connection.
func (db *Database) Close() error {
	statements := []*sql.Stmt{
		db.insertFavoriteStmt,
		db.deleteFavoriteStmt,
		db.insertPlaylistStmt,
		db.insertPlaylistSongStmt,
		db.playlistSongsStmt,
		db.insertRecentStmt,
	}

	for _, stmt := range statements {
		if stmt != nil {
			if err := stmt.Close(); err != nil {
				db.logger.WithError(err).Error("Failed to close prepared statement")
			}
		}
	}

	if db.conn != nil {
		return db.conn.Close()
	}
	return nil
}

// scanPlaylistSongRows scans id, playlist_id, name, path result sets.
// Callers must have already deferred rows.Close().
func scanPlaylistSongRows(rows *sql.Rows) ([]models.PlaylistSong, error) {
	songs := []models.PlaylistSong{}
	for rows.Next() {
		var song models.PlaylistSong
		var playlistID any
		var name, path sql.NullString
		if err := rows.Scan(&song.ID, &playlistID, &name, &path); err != nil {
			return nil, err
		}
		song.PlaylistID = integerPtr(playlistID)
		song.Name = nullStringPtr(name)
		song.Path = nullStringPtr(path)
		songs = append(songs, song)
	}
	return songs, rows.Err()
}

func nullStringPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}

// integerPtr keeps integer playlist ids. Values the column could not
// coerce to an integer (text, reals) are reported as NULL.
func integerPtr(v any) *int64 {
	if n, ok := v.(int64); ok {
		return &n
	}
	return nil
}
