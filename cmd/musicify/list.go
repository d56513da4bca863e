package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"musicify/internal/library"
	"musicify/internal/logging"
	"musicify/pkg/models"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

var (
	recentLimit int

	favoritesCmd = &cobra.Command{
		Use:   "favorites",
		Short: "List liked songs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := apiClient()
			if err != nil {
				return err
			}
			favorites, err := api.ListFavorites(cmd.Context())
			if err != nil {
				return err
			}
			renderFavorites(os.Stdout, favorites)
			return nil
		},
	}

	favoritesAddCmd = &cobra.Command{
		Use:   "add <name> [path]",
		Short: "Like a song",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref := models.TrackRef{Name: args[0]}
			if len(args) == 2 {
				ref.Path = args[1]
			}
			api, err := apiClient()
			if err != nil {
				return err
			}
			id, err := api.AddFavorite(cmd.Context(), ref)
			if err != nil {
				return err
			}
			fmt.Printf("Added favorite %d\n", id)
			return nil
		},
	}

	favoritesRemoveCmd = &cobra.Command{
		Use:   "remove <name>",
		Short: "Unlike every favorite with this name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := apiClient()
			if err != nil {
				return err
			}
			return api.RemoveFavorite(cmd.Context(), args[0])
		},
	}

	playlistsCmd = &cobra.Command{
		Use:   "playlists",
		Short: "List playlists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := apiClient()
			if err != nil {
				return err
			}
			playlists, err := api.ListPlaylists(cmd.Context())
			if err != nil {
				return err
			}
			renderPlaylists(os.Stdout, playlists)
			return nil
		},
	}

	playlistsCreateCmd = &cobra.Command{
		Use:   "create <name>",
		Short: "Create a playlist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := apiClient()
			if err != nil {
				return err
			}
			id, err := api.CreatePlaylist(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Created playlist %d\n", id)
			return nil
		},
	}

	playlistsAddCmd = &cobra.Command{
		Use:   "add <playlist_id> <name> [path]",
		Short: "Add a song to a playlist",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			playlistID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid playlist id %q", args[0])
			}
			ref := models.TrackRef{Name: args[1]}
			if len(args) == 3 {
				ref.Path = args[2]
			}
			api, err := apiClient()
			if err != nil {
				return err
			}
			id, err := api.AddSongToPlaylist(cmd.Context(), playlistID, ref)
			if err != nil {
				return err
			}
			fmt.Printf("Added song %d to playlist %d\n", id, playlistID)
			return nil
		},
	}

	songsCmd = &cobra.Command{
		Use:   "songs [playlist_id]",
		Short: "List playlist songs, for one playlist or all of them",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := apiClient()
			if err != nil {
				return err
			}
			var songs []models.PlaylistSong
			if len(args) == 1 {
				playlistID, perr := strconv.ParseInt(args[0], 10, 64)
				if perr != nil {
					return fmt.Errorf("invalid playlist id %q", args[0])
				}
				songs, err = api.ListPlaylistSongs(cmd.Context(), playlistID)
			} else {
				songs, err = api.ListAllPlaylistSongs(cmd.Context())
			}
			if err != nil {
				return err
			}
			renderSongs(os.Stdout, songs)
			return nil
		},
	}

	recentCmd = &cobra.Command{
		Use:   "recent",
		Short: "List recently played tracks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := apiClient()
			if err != nil {
				return err
			}
			plays, err := api.RecentlyPlayed(cmd.Context(), recentLimit)
			if err != nil {
				return err
			}
			renderRecent(os.Stdout, plays, time.Now())
			return nil
		},
	}

	tracksCmd = &cobra.Command{
		Use:   "tracks <folder>",
		Short: "List the audio files in a folder with their tags",
		Args:  cobra.ExactArgs(1),
		RunE:  runTracks,
	}
)

func init() {
	favoritesCmd.AddCommand(favoritesAddCmd, favoritesRemoveCmd)
	playlistsCmd.AddCommand(playlistsCreateCmd, playlistsAddCmd)
	recentCmd.Flags().IntVarP(&recentLimit, "limit", "n", 20, "number of plays to show")

	rootCmd.AddCommand(favoritesCmd, playlistsCmd, songsCmd, recentCmd, tracksCmd)
}

func runTracks(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := logging.Discard()

	registry := library.NewRegistry()
	scanner := library.NewScanner(registry, cfg.Player.SupportedFormats, logger)
	refs, err := scanner.Scan(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	infos := make([]library.TrackInfo, 0, len(refs))
	for _, ref := range refs {
		path, _ := registry.Resolve(ref.Path)
		info, err := library.Probe(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "skipping %s: %v\n", ref.Name, err)
			continue
		}
		infos = append(infos, info)
	}
	renderTracks(os.Stdout, infos)
	return nil
}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	return t
}

func renderFavorites(w io.Writer, favorites []models.Favorite) {
	t := newTable(w)
	t.AppendHeader(table.Row{"ID", "Name", "Path"})
	for _, f := range favorites {
		t.AppendRow(table.Row{f.ID, lo.FromPtr(f.Name), lo.FromPtr(f.Path)})
	}
	t.AppendFooter(table.Row{"", fmt.Sprintf("%d liked", len(favorites)), ""})
	t.Render()
}

func renderPlaylists(w io.Writer, playlists []models.Playlist) {
	t := newTable(w)
	t.AppendHeader(table.Row{"ID", "Name"})
	for _, p := range playlists {
		t.AppendRow(table.Row{p.ID, p.DisplayName()})
	}
	t.Render()
}

func renderSongs(w io.Writer, songs []models.PlaylistSong) {
	t := newTable(w)
	t.AppendHeader(table.Row{"ID", "Playlist", "Name", "Path"})
	for _, s := range songs {
		playlist := "-"
		if s.PlaylistID != nil {
			playlist = strconv.FormatInt(*s.PlaylistID, 10)
		}
		t.AppendRow(table.Row{s.ID, playlist, lo.FromPtr(s.Name), lo.FromPtr(s.Path)})
	}
	t.Render()
}

func renderRecent(w io.Writer, plays []models.RecentPlay, now time.Time) {
	t := newTable(w)
	t.AppendHeader(table.Row{"Name", "Played"})
	for _, p := range plays {
		t.AppendRow(table.Row{lo.FromPtr(p.Name), humanize.RelTime(p.PlayedAt, now, "ago", "from now")})
	}
	t.Render()
}

func renderTracks(w io.Writer, infos []library.TrackInfo) {
	t := newTable(w)
	t.AppendHeader(table.Row{"Title", "Artist", "Album", "Length", "Size"})
	var total uint64
	for _, info := range infos {
		length := "--:--"
		if info.Duration > 0 {
			length = formatDuration(info.Duration)
		}
		t.AppendRow(table.Row{info.Title, info.Artist, info.Album, length, humanize.Bytes(uint64(info.Size))})
		total += uint64(info.Size)
	}
	t.AppendFooter(table.Row{fmt.Sprintf("%d tracks", len(infos)), "", "", "", humanize.Bytes(total)})
	t.Render()
}

func formatDuration(d time.Duration) string {
	secs := int(d.Round(time.Second).Seconds())
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}
