// Package media is the speaker-backed playback element the player
// controller drives. Decoding is delegated to beep.
package media

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"
)

var (
	// ErrNoSource is returned by Play before a source has been set.
	ErrNoSource = errors.New("no source set")
	// ErrStaleHandle is returned for a handle the resolver no longer knows,
	// for example one persisted by an earlier session.
	ErrStaleHandle = errors.New("handle is no longer valid")
	// ErrUnsupportedFormat is returned for files beep cannot decode.
	ErrUnsupportedFormat = errors.New("unsupported audio format")
)

// Resolver maps ephemeral handles to files on disk.
// *library.Registry satisfies it.
type Resolver interface {
	IsHandle(src string) bool
	Resolve(handle string) (string, bool)
}

// resolveSource turns a source string into a file path. Handles go through
// the resolver; anything else is treated as a path.
func resolveSource(resolver Resolver, src string) (string, error) {
	if src == "" {
		return "", ErrNoSource
	}
	if resolver == nil || !resolver.IsHandle(src) {
		return src, nil
	}
	path, ok := resolver.Resolve(src)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrStaleHandle, src)
	}
	return path, nil
}

// openStream opens and decodes the file at path. The caller owns the
// returned streamer and must Close it.
func openStream(path string) (beep.StreamSeekCloser, beep.Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, beep.Format{}, err
	}

	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".wav":
		streamer, format, err = wav.Decode(f)
	case ".flac":
		streamer, format, err = flac.Decode(f)
	case ".ogg", ".oga":
		streamer, format, err = vorbis.Decode(f)
	default:
		f.Close()
		return nil, beep.Format{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
	if err != nil {
		f.Close()
		return nil, beep.Format{}, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return &fileStream{StreamSeekCloser: streamer, file: f}, format, nil
}

// fileStream closes the decoder and the file under it.
type fileStream struct {
	beep.StreamSeekCloser
	file *os.File
}

func (s *fileStream) Close() error {
	err := s.StreamSeekCloser.Close()
	// Some decoders already closed the file.
	if cerr := s.file.Close(); cerr != nil && !errors.Is(cerr, os.ErrClosed) && err == nil {
		err = cerr
	}
	return err
}
