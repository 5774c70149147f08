package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	s, err := Open(DriverSQLite, dsn)
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenClose(t *testing.T) {
	s := openTestStore(t)
	if s.Driver() == nil {
		t.Fatal("expected non-nil driver")
	}
	if s.Dialect() != "sqlite3" {
		t.Errorf("dialect = %q, want sqlite3", s.Dialect())
	}
}

func TestParseDriver(t *testing.T) {
	tests := []struct {
		in      string
		want    Driver
		wantErr bool
	}{
		{"", DriverSQLite, false},
		{"sqlite", DriverSQLite, false},
		{"Postgres", DriverPostgres, false},
		{"pgx", DriverPostgres, false},
		{"mysql", "", true},
	}
	for _, tt := range tests {
		got, err := ParseDriver(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseDriver(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseDriver(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWithSQLitePragmas(t *testing.T) {
	got := withSQLitePragmas("trilogic.db")
	want := "trilogic.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"
	if got != want {
		t.Errorf("withSQLitePragmas = %q, want %q", got, want)
	}

	got = withSQLitePragmas("file:x?mode=memory&_pragma=busy_timeout(100)")
	want = "file:x?mode=memory&_pragma=busy_timeout(100)&_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"
	if got != want {
		t.Errorf("withSQLitePragmas = %q, want %q", got, want)
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// WAL mode falls back to "memory" for in-memory databases,
		// so we skip journal_mode here.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestSnapshotSaveAndLatest(t *testing.T) {
	s := openTestStore(t)
	repo := s.SnapshotRepo()
	ctx := context.Background()

	// No snapshot yet.
	snap, err := repo.Latest(ctx)
	if err != nil {
		t.Fatalf("latest (empty): %v", err)
	}
	if snap != nil {
		t.Fatal("expected nil snapshot when none exist")
	}

	now := time.Now().UTC().Truncate(time.Second)
	err = repo.Save(ctx, &Snapshot{
		Sequence:  42,
		Timestamp: now,
		SessionID: "s-1",
		ProblemID: "socrates",
		Data: SnapshotData{
			Version: 1,
			Mode:    "five-step",
			State:   []byte(`{"current":2}`),
		},
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	snap, err = repo.Latest(ctx)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if snap == nil {
		t.Fatal("expected non-nil snapshot")
	}
	if snap.Sequence != 42 {
		t.Errorf("sequence = %d, want 42", snap.Sequence)
	}
	if snap.ProblemID != "socrates" || snap.SessionID != "s-1" {
		t.Errorf("ids = %q/%q, want socrates/s-1", snap.ProblemID, snap.SessionID)
	}
	if snap.Data.Version != 1 || string(snap.Data.State) != `{"current":2}` {
		t.Errorf("data = %+v", snap.Data)
	}
}

func TestSnapshotLatestFor(t *testing.T) {
	s := openTestStore(t)
	repo := s.SnapshotRepo()
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)
	saves := []struct{ problem, learner string }{
		{"a", ""}, {"b", ""}, {"a", ""}, {"b", ""}, {"a", "bob"},
	}
	for i, sv := range saves {
		err := repo.Save(ctx, &Snapshot{
			Sequence:  int64(i + 1),
			Timestamp: base.Add(time.Duration(i) * time.Minute),
			SessionID: "s",
			ProblemID: sv.problem,
			LearnerID: sv.learner,
			Data:      SnapshotData{Version: i + 1},
		})
		if err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}

	snap, err := repo.LatestFor(ctx, "a", "")
	if err != nil {
		t.Fatalf("latest for a: %v", err)
	}
	if snap == nil || snap.Sequence != 3 {
		t.Errorf("latest for a = %+v, want sequence 3", snap)
	}

	snap, err = repo.LatestFor(ctx, "a", "bob")
	if err != nil {
		t.Fatalf("latest for a by bob: %v", err)
	}
	if snap == nil || snap.Sequence != 5 || snap.LearnerID != "bob" {
		t.Errorf("latest for a by bob = %+v, want sequence 5", snap)
	}

	snap, err = repo.LatestFor(ctx, "b", "bob")
	if err != nil {
		t.Fatalf("latest for b by bob: %v", err)
	}
	if snap != nil {
		t.Errorf("bob has no attempt at b, got %+v", snap)
	}

	snap, err = repo.LatestFor(ctx, "missing", "")
	if err != nil {
		t.Fatalf("latest for missing: %v", err)
	}
	if snap != nil {
		t.Errorf("expected nil snapshot, got %+v", snap)
	}
}

func TestSnapshotPrune(t *testing.T) {
	s := openTestStore(t)
	repo := s.SnapshotRepo()
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)
	for i := 0; i < 7; i++ {
		err := repo.Save(ctx, &Snapshot{
			Sequence:  int64(i + 1),
			Timestamp: base.Add(time.Duration(i) * time.Minute),
			SessionID: "s",
			ProblemID: "p",
			Data:      SnapshotData{Version: 1},
		})
		if err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}

	if err := repo.Prune(ctx, 5); err != nil {
		t.Fatalf("prune: %v", err)
	}

	var count int
	if err := s.DB().QueryRow("SELECT COUNT(*) FROM snapshots").Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 5 {
		t.Errorf("remaining snapshots = %d, want 5", count)
	}

	snap, err := repo.Latest(ctx)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if snap.Sequence != 7 {
		t.Errorf("latest sequence = %d, want 7", snap.Sequence)
	}

	// Prune with keep above the count is a no-op.
	if err := repo.Prune(ctx, 10); err != nil {
		t.Fatalf("prune: %v", err)
	}
}

func TestSequenceCounter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	var seqs []int64
	for i := 0; i < 5; i++ {
		seq, err := s.seq.Next(ctx)
		if err != nil {
			t.Fatalf("next %d: %v", i, err)
		}
		seqs = append(seqs, seq)
	}

	// Should be monotonically increasing starting from 1.
	for i, seq := range seqs {
		expected := int64(i + 1)
		if seq != expected {
			t.Errorf("seq[%d] = %d, want %d", i, seq, expected)
		}
	}

	// Seeding again must not reset the counter.
	if _, err := newSequenceCounter(ctx, s.Driver()); err != nil {
		t.Fatalf("reseed: %v", err)
	}
	seq, err := s.seq.Next(ctx)
	if err != nil {
		t.Fatalf("next after reseed: %v", err)
	}
	if seq != 6 {
		t.Errorf("seq after reseed = %d, want 6", seq)
	}
}

func TestAutoMigrationCreatesTables(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	for _, table := range []string{tableAttemptEvents, tableSessionEvents, tableSnapshots, tableGlobalSequence} {
		var name string
		err := db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %s: %v", table, err)
			continue
		}
		if name != table {
			t.Errorf("table name = %q, want %q", name, table)
		}
	}
}

func TestTablesFromSchema(t *testing.T) {
	tables, err := Tables()
	if err != nil {
		t.Fatalf("tables: %v", err)
	}
	if len(tables) != 4 {
		t.Fatalf("got %d tables, want 4", len(tables))
	}
	attempts := tables[0]
	for _, col := range []string{"id", "sequence", "timestamp", "session_id", "problem_id", "step", "correct", "submission"} {
		if !attempts.HasColumn(col) {
			t.Errorf("attempt_events missing column %q", col)
		}
	}
	seq, _ := attempts.Column("sequence")
	if !seq.Unique {
		t.Error("sequence column should be unique")
	}
	sub, _ := attempts.Column("submission")
	if !sub.Nullable {
		t.Error("submission column should be nullable")
	}
}
