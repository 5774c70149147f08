package store

import (
	"context"
	"fmt"
	"sync"

	entsql "entgo.io/ent/dialect/sql"
)

// sequenceCounter manages the global monotonic sequence number shared across
// all event types. Each event type lives in its own table, so per-table
// auto-increment IDs can't establish cross-type ordering. This shared
// counter assigns a single increasing sequence to every event regardless of
// type, enabling:
//
//   - Cross-type ordering (did the step check come before the session end?)
//   - Snapshot consistency (query all tables for sequence > snapshot.sequence)
//   - Append-only guarantees (events are never reordered)
//
// The mutex serializes within the process; the RETURNING clause makes the
// increment atomic at the database level.
type sequenceCounter struct {
	mu  sync.Mutex
	drv *entsql.Driver
}

// newSequenceCounter creates a counter and seeds its row. The table itself
// is created by migration.
func newSequenceCounter(ctx context.Context, drv *entsql.Driver) (*sequenceCounter, error) {
	query, args := entsql.Dialect(drv.Dialect()).
		Insert(tableGlobalSequence).
		Columns("id", "next_val").
		Values(1, 1).
		OnConflict(entsql.ConflictColumns("id"), entsql.DoNothing()).
		Query()
	if err := drv.Exec(ctx, query, args, nil); err != nil {
		return nil, fmt.Errorf("seed sequence: %w", err)
	}
	return &sequenceCounter{drv: drv}, nil
}

// Next atomically returns the next sequence number and increments the counter.
func (sc *sequenceCounter) Next(ctx context.Context) (int64, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	query, args := entsql.Dialect(sc.drv.Dialect()).
		Update(tableGlobalSequence).
		Add("next_val", 1).
		Where(entsql.EQ("id", 1)).
		Returning("next_val").
		Query()

	var rows entsql.Rows
	if err := sc.drv.Query(ctx, query, args, &rows); err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return 0, fmt.Errorf("next sequence: %w", err)
		}
		return 0, fmt.Errorf("next sequence: counter row missing")
	}
	var next int64
	if err := rows.Scan(&next); err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return next - 1, nil
}
