package main

import (
	"fmt"
	"io"
	"time"

	"musicify/internal/client"
	"musicify/internal/library"
	"musicify/internal/logging"
	"musicify/internal/media"
	"musicify/internal/player"
	"musicify/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var playCmd = &cobra.Command{
	Use:   "play [folder]",
	Short: "Open the terminal player on a music folder",
	Long: `Open the terminal player. The folder defaults to player.library_path.
Favorites, playlists and play history go through the API at player.api_url.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func init() {
	rootCmd.AddCommand(playCmd)
}

func runPlay(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// The terminal belongs to the UI, so logs go to a file or nowhere.
	logCfg := cfg.Logging
	logCfg.File = cfg.Player.LogFile
	logger, err := logging.New(logCfg)
	if err != nil {
		return err
	}
	defer logging.Close(logger)
	if logCfg.File == "" {
		logger.SetOutput(io.Discard)
	}

	folder := cfg.Player.LibraryPath
	if len(args) == 1 {
		folder = args[0]
	}

	if !media.AudioAvailable {
		logger.Warn("Built without audio output, playback is disabled")
	}

	registry := library.NewRegistry()
	scanner := library.NewScanner(registry, cfg.Player.SupportedFormats, logger)
	element := media.NewElement(registry, logger)
	defer element.Close()

	api := client.New(cfg.Player.APIURL)
	recorder := player.NewRecorder(api, cfg.Player.RecordQueueSize, logger)
	go func() {
		for err := range recorder.Errors() {
			logger.WithError(err).Debug("Play history not recorded")
		}
	}()

	controller := player.NewController(element, recorder, logger)

	model := ui.New(ui.Options{
		Controller:   controller,
		Library:      player.NewLibrary(api, logger),
		Scanner:      scanner,
		Folder:       folder,
		TickInterval: time.Duration(cfg.Player.TickMillis) * time.Millisecond,
		Logger:       logger,
	})
	program := tea.NewProgram(model, tea.WithAltScreen())

	if folder != "" && cfg.Player.WatchForChanges {
		watcher, err := library.NewWatcher(scanner, folder, library.DefaultSettle, func() {
			program.Send(ui.RescanMsg{})
		}, logger)
		if err != nil {
			logger.WithError(err).Warn("Folder watching disabled")
		} else {
			defer watcher.Close()
		}
	}

	_, runErr := program.Run()

	controller.Close()
	recorder.Close()

	if runErr != nil {
		return fmt.Errorf("player exited: %w", runErr)
	}
	return nil
}
