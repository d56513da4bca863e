//go:build (linux && cgo) || windows || darwin

package media

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/sirupsen/logrus"
)

// AudioAvailable indicates whether audio playback is supported in this build.
const AudioAvailable = true

const outputRate = beep.SampleRate(44100)

var (
	speakerOnce sync.Once
	speakerErr  error
)

func initSpeaker() error {
	speakerOnce.Do(func() {
		speakerErr = speaker.Init(outputRate, outputRate.N(time.Second/10))
	})
	return speakerErr
}

// Element plays one source at a time through the system speaker. A fresh
// element is paused with no source, gain 1.0 and unmuted.
type Element struct {
	mu       sync.Mutex
	resolver Resolver
	logger   *logrus.Logger

	src      string
	streamer beep.StreamSeekCloser
	format   beep.Format
	ctrl     *beep.Ctrl
	volume   *effects.Volume
	queued   bool
	gen      int

	gain  float64
	muted bool
}

// NewElement creates a playback element. resolver may be nil when every
// source is a plain path.
func NewElement(resolver Resolver, logger *logrus.Logger) *Element {
	return &Element{resolver: resolver, logger: logger, gain: 1}
}

// SetSource stops the current source and binds a new one, paused at 0.
func (e *Element) SetSource(src string) error {
	path, err := resolveSource(e.resolver, src)
	if err != nil {
		return err
	}
	if err := initSpeaker(); err != nil {
		return err
	}
	streamer, format, err := openStream(path)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.stopLocked()
	e.src = src
	e.streamer = streamer
	e.format = format
	e.ctrl = &beep.Ctrl{Streamer: beep.Resample(4, format.SampleRate, outputRate, streamer), Paused: true}
	e.volume = &effects.Volume{Streamer: e.ctrl, Base: 2}
	e.applyVolumeLocked()
	e.queueLocked()

	e.logger.WithFields(logrus.Fields{
		"path":        path,
		"sample_rate": format.SampleRate,
		"channels":    format.NumChannels,
	}).Debug("Source loaded")
	return nil
}

// queueLocked hands the stream to the speaker. The end callback only marks
// the element as finished; there is no auto-advance.
func (e *Element) queueLocked() {
	e.gen++
	gen := e.gen
	e.queued = true
	speaker.Play(beep.Seq(e.volume, beep.Callback(func() {
		// The speaker lock is held here, so finish on another goroutine.
		go e.finished(gen)
	})))
}

func (e *Element) finished(gen int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if gen != e.gen {
		return
	}
	e.queued = false
	if e.ctrl != nil {
		speaker.Lock()
		e.ctrl.Paused = true
		speaker.Unlock()
	}
}

func (e *Element) Source() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.src
}

// Play resumes playback, restarting from the top after the end was reached.
func (e *Element) Play() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.ctrl == nil {
		return ErrNoSource
	}
	if !e.queued {
		speaker.Lock()
		err := e.streamer.Seek(0)
		speaker.Unlock()
		if err != nil {
			return err
		}
		e.queueLocked()
	}
	speaker.Lock()
	e.ctrl.Paused = false
	speaker.Unlock()
	return nil
}

func (e *Element) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.ctrl != nil {
		speaker.Lock()
		e.ctrl.Paused = true
		speaker.Unlock()
	}
}

func (e *Element) Paused() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.ctrl == nil || !e.queued {
		return true
	}
	speaker.Lock()
	defer speaker.Unlock()
	return e.ctrl.Paused
}

// CurrentTime returns the playback position in seconds.
func (e *Element) CurrentTime() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.streamer == nil {
		return 0
	}
	speaker.Lock()
	pos := e.streamer.Position()
	speaker.Unlock()
	return e.format.SampleRate.D(pos).Seconds()
}

// SetCurrentTime seeks to seconds, clamped to the stream.
func (e *Element) SetCurrentTime(seconds float64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.streamer == nil || math.IsNaN(seconds) {
		return
	}
	speaker.Lock()
	defer speaker.Unlock()

	n := e.format.SampleRate.N(time.Duration(seconds * float64(time.Second)))
	n = max(0, min(n, e.streamer.Len()-1))
	if err := e.streamer.Seek(n); err != nil {
		e.logger.WithError(err).Warn("Seek failed")
	}
}

// Duration returns the stream length in seconds, NaN without a source.
func (e *Element) Duration() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.streamer == nil {
		return math.NaN()
	}
	return e.format.SampleRate.D(e.streamer.Len()).Seconds()
}

func (e *Element) Volume() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.gain
}

// SetVolume sets a linear gain in [0, 1].
func (e *Element) SetVolume(gain float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.gain = math.Max(0, math.Min(1, gain))
	e.applyVolumeLocked()
}

func (e *Element) Muted() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.muted
}

func (e *Element) SetMuted(muted bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.muted = muted
	e.applyVolumeLocked()
}

// applyVolumeLocked maps the linear gain onto the exponential volume effect.
func (e *Element) applyVolumeLocked() {
	if e.volume == nil {
		return
	}
	speaker.Lock()
	defer speaker.Unlock()
	e.volume.Silent = e.muted || e.gain == 0
	if e.gain > 0 {
		e.volume.Volume = math.Log2(e.gain)
	}
}

// Close stops playback and releases the current source.
func (e *Element) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopLocked()
	return nil
}

func (e *Element) stopLocked() {
	if e.ctrl != nil {
		speaker.Clear()
	}
	if e.streamer != nil {
		if err := e.streamer.Close(); err != nil {
			e.logger.WithError(err).Debug("Closing previous source")
		}
	}
	e.gen++
	e.src = ""
	e.streamer = nil
	e.ctrl = nil
	e.volume = nil
	e.queued = false
}
