//go:build !((linux && cgo) || windows || darwin)

package media

import (
	"errors"
	"math"

	"github.com/sirupsen/logrus"
)

// AudioAvailable indicates whether audio playback is supported in this build.
// Audio output on Linux requires cgo for the native sound library.
const AudioAvailable = false

// ErrAudioUnavailable is returned by SetSource in builds without audio output.
var ErrAudioUnavailable = errors.New("audio output requires a cgo build")

// Element is a silent stand-in that keeps volume and mute state but cannot
// bind a source.
type Element struct {
	logger *logrus.Logger
	gain   float64
	muted  bool
}

func NewElement(_ Resolver, logger *logrus.Logger) *Element {
	return &Element{logger: logger, gain: 1}
}

func (e *Element) SetSource(src string) error {
	e.logger.WithField("source", src).Warn("Audio output unavailable in this build")
	return ErrAudioUnavailable
}

func (e *Element) Source() string         { return "" }
func (e *Element) Play() error            { return ErrNoSource }
func (e *Element) Pause()                 {}
func (e *Element) Paused() bool           { return true }
func (e *Element) CurrentTime() float64   { return 0 }
func (e *Element) SetCurrentTime(float64) {}
func (e *Element) Duration() float64      { return math.NaN() }
func (e *Element) Volume() float64        { return e.gain }
func (e *Element) SetVolume(gain float64) { e.gain = math.Max(0, math.Min(1, gain)) }
func (e *Element) Muted() bool            { return e.muted }
func (e *Element) SetMuted(muted bool)    { e.muted = muted }
func (e *Element) Close() error           { return nil }
