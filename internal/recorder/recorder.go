// Package recorder writes session telemetry to the event store in the
// background so step checks never wait on the database.
package recorder

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/abhisek/trilogic/internal/store"
)

// DefaultBuffer is the number of events that may be queued before new ones
// are dropped.
const DefaultBuffer = 64

// appendTimeout bounds a single store append.
const appendTimeout = 5 * time.Second

type job struct {
	attempt *store.AttemptEventData
	session *store.SessionEventData
}

// Recorder queues events and appends them on one worker goroutine. It
// implements session.Sink.
type Recorder struct {
	repo    store.EventRepo
	pending chan job
	warn    io.Writer
	dropped atomic.Int64

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

// New starts a recorder over repo with room for buffer queued events.
// A buffer below 1 uses DefaultBuffer.
func New(repo store.EventRepo, buffer int) *Recorder {
	if buffer < 1 {
		buffer = DefaultBuffer
	}
	r := &Recorder{
		repo:    repo,
		pending: make(chan job, buffer),
		warn:    os.Stderr,
		done:    make(chan struct{}),
	}
	go r.processLoop()
	return r
}

// RecordAttempt queues a step check.
func (r *Recorder) RecordAttempt(e store.AttemptEventData) {
	r.enqueue(job{attempt: &e})
}

// RecordSession queues a session lifecycle event.
func (r *Recorder) RecordSession(e store.SessionEventData) {
	r.enqueue(job{session: &e})
}

// Dropped returns how many events were discarded because the queue was
// full or the recorder was closed.
func (r *Recorder) Dropped() int64 {
	return r.dropped.Load()
}

func (r *Recorder) enqueue(j job) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		r.dropped.Add(1)
		return
	}
	select {
	case r.pending <- j:
	default:
		// Queue full: drop rather than block the learner.
		r.dropped.Add(1)
	}
}

func (r *Recorder) processLoop() {
	defer close(r.done)
	for j := range r.pending {
		ctx, cancel := context.WithTimeout(context.Background(), appendTimeout)
		var err error
		switch {
		case j.attempt != nil:
			err = r.repo.AppendAttemptEvent(ctx, *j.attempt)
		case j.session != nil:
			err = r.repo.AppendSessionEvent(ctx, *j.session)
		}
		cancel()
		if err != nil {
			fmt.Fprintf(r.warn, "warning: failed to record event: %v\n", err)
		}
	}
}

// Close stops accepting events and waits for queued ones to be written.
// It is safe to call more than once.
func (r *Recorder) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		<-r.done
		return
	}
	r.closed = true
	close(r.pending)
	r.mu.Unlock()
	<-r.done
}
