package player

import (
	"context"
	"math"
	"sync"

	"musicify/pkg/models"
)

type fakeMedia struct {
	src      string
	paused   bool
	current  float64
	duration float64
	volume   float64
	muted    bool

	setSourceCalls int
	sourceErr      error
}

func newFakeMedia() *fakeMedia {
	return &fakeMedia{paused: true, duration: math.NaN(), volume: 1}
}

func (m *fakeMedia) SetSource(path string) error {
	if m.sourceErr != nil {
		return m.sourceErr
	}
	m.setSourceCalls++
	m.src = path
	m.current = 0
	m.duration = 200
	m.paused = true
	return nil
}

func (m *fakeMedia) Source() string                 { return m.src }
func (m *fakeMedia) Play() error                    { m.paused = false; return nil }
func (m *fakeMedia) Pause()                         { m.paused = true }
func (m *fakeMedia) Paused() bool                   { return m.paused }
func (m *fakeMedia) CurrentTime() float64           { return m.current }
func (m *fakeMedia) SetCurrentTime(seconds float64) { m.current = seconds }
func (m *fakeMedia) Duration() float64              { return m.duration }
func (m *fakeMedia) Volume() float64                { return m.volume }
func (m *fakeMedia) SetVolume(gain float64)         { m.volume = gain }
func (m *fakeMedia) Muted() bool                    { return m.muted }
func (m *fakeMedia) SetMuted(muted bool)            { m.muted = muted }

type fakeQueue struct {
	refs []models.TrackRef
}

func (q *fakeQueue) Enqueue(ref models.TrackRef) bool {
	q.refs = append(q.refs, ref)
	return true
}

type fakeSink struct {
	mutex sync.Mutex
	refs  []models.TrackRef
	err   error
	block chan struct{}
}

func (s *fakeSink) RecordPlay(_ context.Context, ref models.TrackRef) error {
	if s.block != nil {
		<-s.block
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.refs = append(s.refs, ref)
	return s.err
}

func (s *fakeSink) recorded() []models.TrackRef {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return append([]models.TrackRef(nil), s.refs...)
}

func tracks(names ...string) []models.TrackRef {
	refs := make([]models.TrackRef, len(names))
	for i, name := range names {
		refs[i] = models.TrackRef{Name: name, Path: "blob:musicify/" + name}
	}
	return refs
}
