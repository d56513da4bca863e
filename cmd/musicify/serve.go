package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"musicify/internal/database"
	"musicify/internal/logging"
	"musicify/internal/server"
	"musicify/internal/tunnel"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the favorites and playlists API",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer logging.Close(logger)

	db, err := database.NewDatabase(cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("error initializing database: %w", err)
	}
	defer db.Close()

	musicServer := server.NewMusicServer(cfg, db, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tunnelService, err := tunnel.NewService(cfg.Tunnel, logger)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- musicServer.Start()
	}()

	if err := tunnelService.Start(ctx, "http://"+cfg.GetAddress()); err != nil {
		logger.WithError(err).Warn("Tunnel unavailable, serving locally only")
	}

	select {
	case err := <-errCh:
		return err
	case <-tunnelService.Done():
		logger.Warn("Tunnel closed")
		<-ctx.Done()
	case <-ctx.Done():
	}

	logger.Info("Received shutdown signal")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := tunnelService.Stop(); err != nil {
		logger.WithError(err).Warn("Error stopping tunnel")
	}
	return musicServer.Shutdown(shutdownCtx)
}
