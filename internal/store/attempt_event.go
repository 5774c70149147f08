package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// eventRepo implements EventRepo with ent's SQL builder.
type eventRepo struct {
	drv *entsql.Driver
	seq *sequenceCounter
}

var attemptColumns = []string{
	"sequence", "timestamp", "session_id", "problem_id", "mode", "step",
	"correct", "matched_variant", "total_steps", "time_ms", "submission",
}

func (r *eventRepo) AppendAttemptEvent(ctx context.Context, data AttemptEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	var submission any
	if data.Submission != nil {
		b, err := json.Marshal(data.Submission)
		if err != nil {
			return fmt.Errorf("marshal submission: %w", err)
		}
		submission = string(b)
	}

	query, args := entsql.Dialect(r.drv.Dialect()).
		Insert(tableAttemptEvents).
		Columns(attemptColumns...).
		Values(
			seqNum, time.Now().UTC(), data.SessionID, data.ProblemID, data.Mode, data.Step,
			data.Correct, data.MatchedVariant, data.TotalSteps, data.TimeMs, submission,
		).
		Query()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("save attempt event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryAttempts(ctx context.Context, problemID string, opts QueryOpts) ([]AttemptEvent, error) {
	sel := entsql.Dialect(r.drv.Dialect()).
		Select(attemptColumns...).
		From(entsql.Table(tableAttemptEvents))

	var preds []*entsql.Predicate
	if problemID != "" {
		preds = append(preds, entsql.EQ("problem_id", problemID))
	}
	if opts.After > 0 {
		preds = append(preds, entsql.GT("sequence", opts.After))
	}
	if opts.Before > 0 {
		preds = append(preds, entsql.LT("sequence", opts.Before))
	}
	if !opts.From.IsZero() {
		preds = append(preds, entsql.GTE("timestamp", opts.From))
	}
	if !opts.To.IsZero() {
		preds = append(preds, entsql.LTE("timestamp", opts.To))
	}
	if len(preds) > 0 {
		sel = sel.Where(entsql.And(preds...))
	}
	sel = sel.OrderBy(entsql.Asc("sequence"))
	if opts.Limit > 0 {
		sel = sel.Limit(opts.Limit)
	}

	query, args := sel.Query()
	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("query attempts: %w", err)
	}
	defer rows.Close()

	var out []AttemptEvent
	for rows.Next() {
		var (
			e          AttemptEvent
			submission []byte
		)
		if err := rows.Scan(
			&e.Sequence, &e.Timestamp, &e.SessionID, &e.ProblemID, &e.Mode, &e.Step,
			&e.Correct, &e.MatchedVariant, &e.TotalSteps, &e.TimeMs, &submission,
		); err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		if len(submission) > 0 {
			if err := json.Unmarshal(submission, &e.Submission); err != nil {
				return nil, fmt.Errorf("unmarshal submission: %w", err)
			}
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query attempts: %w", err)
	}
	return out, nil
}

func (r *eventRepo) StepAccuracy(ctx context.Context, problemID string) ([]StepStat, error) {
	events, err := r.QueryAttempts(ctx, problemID, QueryOpts{})
	if err != nil {
		return nil, fmt.Errorf("query step accuracy: %w", err)
	}

	byStep := make(map[int]*StepStat)
	for _, e := range events {
		st := byStep[e.Step]
		if st == nil {
			st = &StepStat{Step: e.Step}
			byStep[e.Step] = st
		}
		st.Attempts++
		if e.Correct {
			st.Correct++
		}
	}

	out := make([]StepStat, 0, len(byStep))
	for _, st := range byStep {
		st.Accuracy = float64(st.Correct) / float64(st.Attempts)
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Step < out[j].Step })
	return out, nil
}

func (r *eventRepo) ProblemSummaries(ctx context.Context) ([]ProblemSummary, error) {
	events, err := r.QueryAttempts(ctx, "", QueryOpts{})
	if err != nil {
		return nil, fmt.Errorf("query problem summaries: %w", err)
	}

	byProblem := make(map[string]*ProblemSummary)
	get := func(id string) *ProblemSummary {
		ps := byProblem[id]
		if ps == nil {
			ps = &ProblemSummary{ProblemID: id}
			byProblem[id] = ps
		}
		return ps
	}

	for _, e := range events {
		ps := get(e.ProblemID)
		ps.Attempts++
		if e.Correct {
			ps.Correct++
		}
		if e.Timestamp.After(ps.LastAttempt) {
			ps.LastAttempt = e.Timestamp
		}
	}

	sessions, err := r.querySessionEvents(ctx)
	if err != nil {
		return nil, err
	}
	for _, s := range sessions {
		ps := get(s.ProblemID)
		switch s.Action {
		case "start":
			ps.Sessions++
		case "complete":
			ps.Completions++
		}
	}

	out := make([]ProblemSummary, 0, len(byProblem))
	for _, ps := range byProblem {
		if ps.Attempts > 0 {
			ps.Accuracy = float64(ps.Correct) / float64(ps.Attempts)
		}
		out = append(out, *ps)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProblemID < out[j].ProblemID })
	return out, nil
}
