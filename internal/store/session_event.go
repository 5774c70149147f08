package store

import (
	"context"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

var sessionColumns = []string{
	"sequence", "timestamp", "session_id", "problem_id", "action",
	"steps_passed", "total_steps", "checks", "correct_checks", "duration_secs",
}

func (r *eventRepo) AppendSessionEvent(ctx context.Context, data SessionEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := entsql.Dialect(r.drv.Dialect()).
		Insert(tableSessionEvents).
		Columns(sessionColumns...).
		Values(
			seqNum, time.Now().UTC(), data.SessionID, data.ProblemID, data.Action,
			data.StepsPassed, data.TotalSteps, data.Checks, data.CorrectChecks, data.DurationSecs,
		).
		Query()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("save session event: %w", err)
	}
	return nil
}

// querySessionEvents returns every session event in sequence order.
func (r *eventRepo) querySessionEvents(ctx context.Context) ([]SessionEventData, error) {
	query, args := entsql.Dialect(r.drv.Dialect()).
		Select("session_id", "problem_id", "action", "steps_passed", "total_steps",
			"checks", "correct_checks", "duration_secs").
		From(entsql.Table(tableSessionEvents)).
		OrderBy(entsql.Asc("sequence")).
		Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("query session events: %w", err)
	}
	defer rows.Close()

	var out []SessionEventData
	for rows.Next() {
		var d SessionEventData
		if err := rows.Scan(&d.SessionID, &d.ProblemID, &d.Action, &d.StepsPassed,
			&d.TotalSteps, &d.Checks, &d.CorrectChecks, &d.DurationSecs); err != nil {
			return nil, fmt.Errorf("scan session event: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query session events: %w", err)
	}
	return out, nil
}
