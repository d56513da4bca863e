package library

import (
	"context"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"musicify/pkg/models"

	"github.com/dhowden/tag"
	"github.com/sirupsen/logrus"
)

// Scanner lists the audio files under a folder as track references.
type Scanner struct {
	registry         *Registry
	supportedFormats []string
	logger           *logrus.Logger
}

// NewScanner creates a scanner. supportedFormats are lowercase extensions
// including the dot.
func NewScanner(registry *Registry, supportedFormats []string, logger *logrus.Logger) *Scanner {
	return &Scanner{
		registry:         registry,
		supportedFormats: supportedFormats,
		logger:           logger,
	}
}

// Scan walks root recursively and returns one reference per audio file,
// sorted by path. Names are base file names; paths are registry handles.
// Hidden files and directories are skipped.
func (s *Scanner) Scan(ctx context.Context, root string) ([]models.TrackRef, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() && s.IsAudioFile(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.Sort(files)
	refs := make([]models.TrackRef, 0, len(files))
	for _, path := range files {
		refs = append(refs, models.TrackRef{
			Name: filepath.Base(path),
			Path: s.registry.Handle(path),
		})
	}

	s.logger.WithFields(logrus.Fields{
		"root":   root,
		"tracks": len(refs),
	}).Debug("Folder scanned")
	return refs, nil
}

// IsAudioFile reports whether path is audio: a configured extension, an
// audio/* MIME type, or, for files without an extension, content that the
// tag reader recognises.
func (s *Scanner) IsAudioFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != "" {
		if slices.Contains(s.supportedFormats, ext) {
			return true
		}
		return strings.HasPrefix(mime.TypeByExtension(ext), "audio/")
	}
	return sniffAudio(path)
}

func sniffAudio(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	_, fileType, err := tag.Identify(f)
	if err != nil {
		return false
	}
	switch fileType {
	case tag.MP3, tag.FLAC, tag.OGG, tag.M4A, tag.M4B, tag.ALAC:
		return true
	default:
		return false
	}
}
