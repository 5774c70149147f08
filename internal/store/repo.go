package store

import (
	"context"
	"encoding/json"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// SnapshotData captures a resumable attempt.
type SnapshotData struct {
	Version   int             `json:"version"`
	Mode      string          `json:"mode"`
	StartedAt time.Time       `json:"started_at"`
	Completed bool            `json:"completed,omitempty"`
	State     json.RawMessage `json:"state"`
}

// Snapshot represents a point-in-time capture of an attempt.
type Snapshot struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	SessionID string
	ProblemID string
	LearnerID string // empty for the local terminal user
	Data      SnapshotData
}

// SnapshotRepo manages attempt snapshots.
type SnapshotRepo interface {
	// Save stores a new snapshot.
	Save(ctx context.Context, snap *Snapshot) error

	// Latest returns the most recent snapshot, or nil if none exist.
	Latest(ctx context.Context) (*Snapshot, error)

	// LatestFor returns the most recent snapshot of a learner's attempts
	// at a problem, or nil.
	LatestFor(ctx context.Context, problemID, learnerID string) (*Snapshot, error)

	// Prune deletes all but the N most recent snapshots.
	Prune(ctx context.Context, keep int) error
}

// AttemptEventData captures one step check.
type AttemptEventData struct {
	SessionID      string
	ProblemID      string
	Mode           string
	Step           int
	Correct        bool
	MatchedVariant int
	TotalSteps     int
	TimeMs         int
	Submission     map[string]any
}

// AttemptEvent is a stored AttemptEventData with its ordering fields.
type AttemptEvent struct {
	Sequence  int64
	Timestamp time.Time
	AttemptEventData
}

// SessionEventData captures a session lifecycle event.
type SessionEventData struct {
	SessionID     string
	ProblemID     string
	Action        string // "start", "complete" or "abandon"
	StepsPassed   int
	TotalSteps    int
	Checks        int
	CorrectChecks int
	DurationSecs  int
}

// StepStat aggregates checks of a single step.
type StepStat struct {
	Step     int     `json:"step"`
	Attempts int     `json:"attempts"`
	Correct  int     `json:"correct"`
	Accuracy float64 `json:"accuracy"`
}

// ProblemSummary aggregates everything recorded for one problem.
type ProblemSummary struct {
	ProblemID   string    `json:"problem_id"`
	Attempts    int       `json:"attempts"`
	Correct     int       `json:"correct"`
	Accuracy    float64   `json:"accuracy"`
	Sessions    int       `json:"sessions"`
	Completions int       `json:"completions"`
	LastAttempt time.Time `json:"last_attempt"`
}

// EventRepo provides append and query access to domain events.
type EventRepo interface {
	// AppendAttemptEvent records a step check.
	AppendAttemptEvent(ctx context.Context, data AttemptEventData) error

	// AppendSessionEvent records a session start or end.
	AppendSessionEvent(ctx context.Context, data SessionEventData) error

	// QueryAttempts returns step checks in sequence order. An empty
	// problemID matches every problem.
	QueryAttempts(ctx context.Context, problemID string, opts QueryOpts) ([]AttemptEvent, error)

	// StepAccuracy returns per-step accuracy, ordered by step. An empty
	// problemID aggregates across problems.
	StepAccuracy(ctx context.Context, problemID string) ([]StepStat, error)

	// ProblemSummaries returns one summary per problem with recorded
	// activity, ordered by problem id.
	ProblemSummaries(ctx context.Context) ([]ProblemSummary, error)
}
