package player

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"musicify/pkg/models"

	"github.com/sirupsen/logrus"
)

var (
	// ErrNoAudioFiles is returned when a picked folder yields no playable tracks.
	ErrNoAudioFiles = errors.New("no audio files found")
	// ErrIndexOutOfRange is returned by Load for a position outside the active list.
	ErrIndexOutOfRange = errors.New("track index out of range")
)

// Media is the host playback primitive the controller drives. Duration
// returns NaN while it is unknown.
type Media interface {
	SetSource(path string) error
	Source() string
	Play() error
	Pause()
	Paused() bool
	CurrentTime() float64
	SetCurrentTime(seconds float64)
	Duration() float64
	Volume() float64
	SetVolume(gain float64)
	Muted() bool
	SetMuted(muted bool)
}

// PlayQueue accepts fire-and-forget "recently played" records.
type PlayQueue interface {
	Enqueue(ref models.TrackRef) bool
}

// Controller owns the now-playing state machine. All methods are safe for
// concurrent use; subscribers receive an Event after each transition.
type Controller struct {
	media    Media
	plays    PlayQueue
	logger   *logrus.Logger
	mutex    sync.RWMutex
	state    State
	closed   bool
	listener []chan Event
}

// NewController binds a controller to a media element. plays may be nil when
// nothing should be recorded.
func NewController(media Media, plays PlayQueue, logger *logrus.Logger) *Controller {
	return &Controller{
		media:  media,
		plays:  plays,
		logger: logger,
		state: State{
			Volume:   media.Volume(),
			Muted:    media.Muted(),
			Progress: computeProgress(0, math.NaN()),
		},
	}
}

// State returns a snapshot of the current state.
func (c *Controller) State() State {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.state
}

// SetTracks replaces the active list and clears the search query. Playback
// is left alone.
func (c *Controller) SetTracks(tracks []models.TrackRef) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.state.Tracks = tracks
	c.state.Query = ""
	c.state.Index = 0
	c.notify(EventTracks)
}

// LoadTracks replaces the active list and starts the first track.
func (c *Controller) LoadTracks(tracks []models.TrackRef) error {
	if len(tracks) == 0 {
		return ErrNoAudioFiles
	}
	c.SetTracks(tracks)
	return c.Load(0)
}

// Load binds the track at index and starts it. Loading the reference that is
// already bound and playing is a no-op.
func (c *Controller) Load(index int) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if index < 0 || index >= len(c.state.Tracks) {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	bound, err := c.bind(c.state.Tracks[index])
	if err != nil {
		return err
	}
	if bound {
		c.state.Index = index
	}
	return nil
}

// PlayReference plays a reference from outside the active list (a favorite,
// a playlist song, an artist view entry). The list index does not move.
func (c *Controller) PlayReference(ref models.TrackRef) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	_, err := c.bind(ref)
	return err
}

// bind must be called with the lock held. It reports whether a new source
// was bound.
func (c *Controller) bind(ref models.TrackRef) (bool, error) {
	if c.state.Current != nil && *c.state.Current == ref && !c.media.Paused() {
		return false, nil
	}

	if err := c.media.SetSource(ref.Path); err != nil {
		return false, fmt.Errorf("failed to load %q: %w", ref.Name, err)
	}
	if err := c.media.Play(); err != nil {
		return false, fmt.Errorf("failed to play %q: %w", ref.Name, err)
	}

	current := ref
	c.state.Current = &current
	c.state.Status = Playing
	c.state.Progress = computeProgress(c.media.CurrentTime(), c.media.Duration())

	c.logger.WithField("track", ref.Name).Debug("Now playing")
	if c.plays != nil {
		c.plays.Enqueue(ref)
	}
	c.notify(EventNowPlaying)
	return true, nil
}

// TogglePlay flips between playing and paused. It does nothing while idle.
func (c *Controller) TogglePlay() error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.state.Current == nil {
		return nil
	}

	if c.media.Paused() {
		if err := c.media.Play(); err != nil {
			return fmt.Errorf("failed to resume: %w", err)
		}
		c.state.Status = Playing
	} else {
		c.media.Pause()
		c.state.Status = Paused
	}
	c.notify(EventStatus)
	return nil
}

// Next advances through the active list with wraparound.
func (c *Controller) Next() error {
	return c.step(1)
}

// Prev retreats through the active list with wraparound.
func (c *Controller) Prev() error {
	return c.step(-1)
}

func (c *Controller) step(delta int) error {
	c.mutex.Lock()
	n := len(c.state.Tracks)
	if n == 0 {
		c.mutex.Unlock()
		return nil
	}
	c.state.Index = ((c.state.Index+delta)%n + n) % n
	index := c.state.Index
	c.mutex.Unlock()

	return c.Load(index)
}

// Seek moves the playback position to value percent (0-100) of the
// duration. It is ignored while the duration is unknown.
func (c *Controller) Seek(value float64) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	duration := c.media.Duration()
	if c.state.Current == nil || !known(duration) || duration <= 0 {
		return
	}
	value = math.Max(0, math.Min(100, value))
	c.media.SetCurrentTime(value / 100 * duration)
	c.state.Progress = computeProgress(c.media.CurrentTime(), duration)
	c.notify(EventProgress)
}

// Tick is the periodic time update. It recomputes the progress readout and
// picks up a track that stopped on its own.
func (c *Controller) Tick() Progress {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.state.Current != nil && c.state.Status == Playing && c.media.Paused() {
		c.state.Status = Paused
		c.notify(EventStatus)
	}
	c.state.Progress = computeProgress(c.media.CurrentTime(), c.media.Duration())
	c.notify(EventProgress)
	return c.state.Progress
}

// SetVolume maps a 0-100 control value linearly onto a 0.0-1.0 gain.
// The mute flag is not touched.
func (c *Controller) SetVolume(value float64) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	gain := math.Max(0, math.Min(100, value)) / 100
	c.media.SetVolume(gain)
	c.state.Volume = gain
	c.notify(EventVolume)
}

// ToggleMute flips the mute flag. The stored gain is kept.
func (c *Controller) ToggleMute() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	muted := !c.media.Muted()
	c.media.SetMuted(muted)
	c.state.Muted = muted
	c.notify(EventVolume)
}

// Search stores the query used to project the visible list. Clearing it
// brings back the full list in its original order.
func (c *Controller) Search(query string) []Entry {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.state.Query = query
	c.notify(EventTracks)
	return c.state.Visible()
}

// Subscribe adds a listener for state changes.
func (c *Controller) Subscribe() <-chan Event {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	ch := make(chan Event, 16)
	if c.closed {
		close(ch)
		return ch
	}
	c.listener = append(c.listener, ch)
	return ch
}

// Unsubscribe removes a listener and closes its channel.
func (c *Controller) Unsubscribe(ch <-chan Event) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	for i, listener := range c.listener {
		if listener == ch {
			close(listener)
			c.listener = append(c.listener[:i], c.listener[i+1:]...)
			break
		}
	}
}

// Close pauses playback and closes every subscriber channel.
func (c *Controller) Close() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	c.media.Pause()
	for _, listener := range c.listener {
		close(listener)
	}
	c.listener = nil
}

// notify must be called with the lock held. Slow subscribers miss events
// rather than block the controller.
func (c *Controller) notify(kind EventKind) {
	event := Event{Kind: kind, State: c.state}
	for _, listener := range c.listener {
		select {
		case listener <- event:
		default:
			c.logger.WithField("event", kind.String()).Debug("Dropping event for slow subscriber")
		}
	}
}
