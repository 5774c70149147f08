package recorder

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/trilogic/internal/session"
	"github.com/abhisek/trilogic/internal/store"
)

var _ session.Sink = (*Recorder)(nil)

const (
	timeout = 2 * time.Second
	tick    = 5 * time.Millisecond
)

type fakeRepo struct {
	mu       sync.Mutex
	attempts []store.AttemptEventData
	sessions []store.SessionEventData
	err      error
	block    chan struct{}
}

func (f *fakeRepo) AppendAttemptEvent(_ context.Context, e store.AttemptEventData) error {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.attempts = append(f.attempts, e)
	return nil
}

func (f *fakeRepo) AppendSessionEvent(_ context.Context, e store.SessionEventData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sessions = append(f.sessions, e)
	return nil
}

func (f *fakeRepo) QueryAttempts(context.Context, string, store.QueryOpts) ([]store.AttemptEvent, error) {
	return nil, nil
}

func (f *fakeRepo) StepAccuracy(context.Context, string) ([]store.StepStat, error) {
	return nil, nil
}

func (f *fakeRepo) ProblemSummaries(context.Context) ([]store.ProblemSummary, error) {
	return nil, nil
}

func TestRecorderDrainsOnClose(t *testing.T) {
	repo := &fakeRepo{}
	r := New(repo, 16)

	r.RecordSession(store.SessionEventData{SessionID: "s", Action: "start"})
	for i := 1; i <= 5; i++ {
		r.RecordAttempt(store.AttemptEventData{SessionID: "s", Step: i})
	}
	r.Close()

	require.Len(t, repo.attempts, 5)
	require.Len(t, repo.sessions, 1)
	for i, a := range repo.attempts {
		assert.Equal(t, i+1, a.Step, "attempts keep their order")
	}
	assert.Zero(t, r.Dropped())
}

func TestRecorderDropsWhenFull(t *testing.T) {
	repo := &fakeRepo{block: make(chan struct{})}
	r := New(repo, 1)

	// The worker takes the first event and blocks on it; the second fills
	// the queue; the rest are dropped.
	r.RecordAttempt(store.AttemptEventData{Step: 1})
	require.Eventually(t, func() bool { return len(r.pending) == 0 }, timeout, tick)
	r.RecordAttempt(store.AttemptEventData{Step: 2})
	r.RecordAttempt(store.AttemptEventData{Step: 3})
	r.RecordAttempt(store.AttemptEventData{Step: 4})

	assert.Equal(t, int64(2), r.Dropped())

	close(repo.block)
	r.Close()
	assert.Len(t, repo.attempts, 2)
}

func TestRecorderWarnsOnFailure(t *testing.T) {
	repo := &fakeRepo{err: errors.New("disk full")}
	r := New(repo, 4)
	var buf bytes.Buffer
	r.warn = &buf

	r.RecordSession(store.SessionEventData{Action: "start"})
	r.Close()

	assert.Contains(t, buf.String(), "warning: failed to record event: disk full")
}

func TestRecorderCloseTwiceAndRecordAfterClose(t *testing.T) {
	r := New(&fakeRepo{}, 0)
	assert.Equal(t, DefaultBuffer, cap(r.pending))

	r.Close()
	r.Close()

	r.RecordAttempt(store.AttemptEventData{})
	assert.Equal(t, int64(1), r.Dropped())
}
