package player

import (
	"context"
	"sync"

	"musicify/pkg/models"

	"github.com/sirupsen/logrus"
)

// PlaySink persists a "recently played" event. *client.Client satisfies it.
type PlaySink interface {
	RecordPlay(ctx context.Context, ref models.TrackRef) error
}

// Recorder ships play records to a PlaySink from a single background
// worker. Failures are logged and published on Errors, never returned to
// the caller that enqueued them.
type Recorder struct {
	sink   PlaySink
	logger *logrus.Logger
	queue  chan models.TrackRef
	errs   chan error
	mutex  sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewRecorder starts the worker. size bounds the queue.
func NewRecorder(sink PlaySink, size int, logger *logrus.Logger) *Recorder {
	if size < 1 {
		size = 1
	}
	r := &Recorder{
		sink:   sink,
		logger: logger,
		queue:  make(chan models.TrackRef, size),
		errs:   make(chan error, size),
	}
	r.wg.Add(1)
	go r.run()
	return r
}

// Enqueue schedules ref for recording without blocking. It reports false
// when the record was dropped because the queue is full or closed.
func (r *Recorder) Enqueue(ref models.TrackRef) bool {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	if r.closed {
		return false
	}
	select {
	case r.queue <- ref:
		return true
	default:
		r.logger.WithField("track", ref.Name).Warn("Play record queue full, dropping record")
		return false
	}
}

// Errors delivers recording failures. It is closed after Close returns.
func (r *Recorder) Errors() <-chan error {
	return r.errs
}

// Close stops accepting records and waits for queued ones to finish.
func (r *Recorder) Close() {
	r.mutex.Lock()
	if r.closed {
		r.mutex.Unlock()
		return
	}
	r.closed = true
	close(r.queue)
	r.mutex.Unlock()

	r.wg.Wait()
	close(r.errs)
}

func (r *Recorder) run() {
	defer r.wg.Done()

	for ref := range r.queue {
		err := r.sink.RecordPlay(context.Background(), ref)
		if err == nil {
			continue
		}
		r.logger.WithError(err).WithField("track", ref.Name).Error("Failed to record play")
		select {
		case r.errs <- err:
		default:
		}
	}
}
