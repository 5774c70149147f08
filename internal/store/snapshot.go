package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// snapshotRepo implements SnapshotRepo with ent's SQL builder.
type snapshotRepo struct {
	drv *entsql.Driver
}

var snapshotColumns = []string{"id", "sequence", "timestamp", "session_id", "problem_id", "learner_id", "data"}

func (r *snapshotRepo) Save(ctx context.Context, snap *Snapshot) error {
	data, err := json.Marshal(snap.Data)
	if err != nil {
		return fmt.Errorf("marshal snapshot data: %w", err)
	}
	ts := snap.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	query, args := entsql.Dialect(r.drv.Dialect()).
		Insert(tableSnapshots).
		Columns("sequence", "timestamp", "session_id", "problem_id", "learner_id", "data").
		Values(snap.Sequence, ts, snap.SessionID, snap.ProblemID, snap.LearnerID, string(data)).
		Query()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

func (r *snapshotRepo) Latest(ctx context.Context) (*Snapshot, error) {
	return r.latest(ctx, nil)
}

func (r *snapshotRepo) LatestFor(ctx context.Context, problemID, learnerID string) (*Snapshot, error) {
	return r.latest(ctx, entsql.And(
		entsql.EQ("problem_id", problemID),
		entsql.EQ("learner_id", learnerID),
	))
}

func (r *snapshotRepo) latest(ctx context.Context, where *entsql.Predicate) (*Snapshot, error) {
	sel := entsql.Dialect(r.drv.Dialect()).
		Select(snapshotColumns...).
		From(entsql.Table(tableSnapshots))
	if where != nil {
		sel = sel.Where(where)
	}
	query, args := sel.
		OrderBy(entsql.Desc("timestamp"), entsql.Desc("id")).
		Limit(1).
		Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("query latest snapshot: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("query latest snapshot: %w", err)
		}
		return nil, nil
	}

	var (
		s    Snapshot
		data []byte
	)
	if err := rows.Scan(&s.ID, &s.Sequence, &s.Timestamp, &s.SessionID, &s.ProblemID, &s.LearnerID, &data); err != nil {
		return nil, fmt.Errorf("scan snapshot: %w", err)
	}
	if err := json.Unmarshal(data, &s.Data); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot data: %w", err)
	}
	return &s, nil
}

func (r *snapshotRepo) Prune(ctx context.Context, keep int) error {
	b := entsql.Dialect(r.drv.Dialect())

	// Find the ID threshold: get the Nth most recent snapshot.
	query, args := b.Select("id").
		From(entsql.Table(tableSnapshots)).
		OrderBy(entsql.Desc("timestamp"), entsql.Desc("id")).
		Offset(keep).
		Limit(1).
		Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return fmt.Errorf("query snapshots for prune: %w", err)
	}
	var threshold int
	found := rows.Next()
	if found {
		if err := rows.Scan(&threshold); err != nil {
			rows.Close()
			return fmt.Errorf("scan prune threshold: %w", err)
		}
	}
	rows.Close()
	if !found {
		return nil // fewer than keep snapshots exist
	}

	query, args = b.Delete(tableSnapshots).
		Where(entsql.LTE("id", threshold)).
		Query()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("prune snapshots: %w", err)
	}
	return nil
}
