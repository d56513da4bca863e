package logging

import (
	"fmt"
	"io"
	"os"

	"musicify/internal/config"

	"github.com/sirupsen/logrus"
)

// New builds a logrus logger from the logging section of the config.
// When cfg.File is set, output is appended to that file instead of stderr.
func New(cfg config.LoggingConfig) (*logrus.Logger, error) {
	logger := logrus.New()

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	logger.SetLevel(level)

	switch cfg.Format {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	if cfg.File != "" {
		file, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		logger.SetOutput(file)
	}

	return logger, nil
}

// Close closes the log file opened by New, if any, and sends further output
// to io.Discard. Loggers writing to stdout or stderr are left alone.
func Close(logger *logrus.Logger) error {
	file, ok := logger.Out.(*os.File)
	if !ok || file == os.Stdout || file == os.Stderr {
		return nil
	}
	logger.SetOutput(io.Discard)
	return file.Close()
}

// Discard returns a logger that drops everything. Used by tests.
func Discard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
