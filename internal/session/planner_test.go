package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/abhisek/trilogic/internal/problem"
	"github.com/abhisek/trilogic/internal/store"
)

// mockEventRepo implements store.EventRepo for testing.
type mockEventRepo struct {
	summaries []store.ProblemSummary
	err       error
}

func (m *mockEventRepo) AppendAttemptEvent(_ context.Context, _ store.AttemptEventData) error {
	return nil
}
func (m *mockEventRepo) AppendSessionEvent(_ context.Context, _ store.SessionEventData) error {
	return nil
}
func (m *mockEventRepo) QueryAttempts(_ context.Context, _ string, _ store.QueryOpts) ([]store.AttemptEvent, error) {
	return nil, nil
}
func (m *mockEventRepo) StepAccuracy(_ context.Context, _ string) ([]store.StepStat, error) {
	return nil, nil
}
func (m *mockEventRepo) ProblemSummaries(_ context.Context) ([]store.ProblemSummary, error) {
	return m.summaries, m.err
}

func testBank(t *testing.T) *problem.Bank {
	t.Helper()
	bank, err := problem.Default()
	if err != nil {
		t.Fatalf("default bank: %v", err)
	}
	return bank
}

func TestBuildPlan_AllNew(t *testing.T) {
	bank := testBank(t)

	for _, planner := range []*DefaultPlanner{NewPlanner(nil), NewPlanner(&mockEventRepo{})} {
		plan, err := planner.BuildPlan(context.Background(), bank)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(plan.Slots) != bank.Len() {
			t.Errorf("Slots count = %d, want %d", len(plan.Slots), bank.Len())
		}
		for i, slot := range plan.Slots {
			if slot.Category != CategoryNew {
				t.Errorf("expected all new, got %s", slot.Category)
			}
			if slot.Problem.ID != bank.List()[i].ID {
				t.Errorf("slot %d = %s, want bank order", i, slot.Problem.ID)
			}
		}
	}
}

func TestBuildPlan_Mixed(t *testing.T) {
	bank := testBank(t)
	now := time.Now()
	repo := &mockEventRepo{summaries: []store.ProblemSummary{
		{ProblemID: "socrates", Attempts: 3, Correct: 3, Accuracy: 1, Sessions: 1, Completions: 1, LastAttempt: now.Add(-time.Hour)},
		{ProblemID: "penguins", Attempts: 2, Correct: 2, Accuracy: 1, Sessions: 1, Completions: 1, LastAttempt: now.Add(-48 * time.Hour)},
		{ProblemID: "whales", Attempts: 4, Correct: 1, Accuracy: 0.25, Sessions: 1},
		{ProblemID: "swans", Attempts: 4, Correct: 3, Accuracy: 0.75, Sessions: 2},
	}}

	plan, err := NewPlanner(repo).BuildPlan(context.Background(), bank)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []struct {
		id  string
		cat PlanCategory
	}{
		{"whales", CategoryRetry},
		{"swans", CategoryRetry},
		{"tama-purrs", CategoryNew},
		{"penguins", CategoryReview},
		{"socrates", CategoryReview},
	}
	if len(plan.Slots) != len(want) {
		t.Fatalf("Slots count = %d, want %d", len(plan.Slots), len(want))
	}
	for i, w := range want {
		got := plan.Slots[i]
		if got.Problem.ID != w.id || got.Category != w.cat {
			t.Errorf("slot %d = %s/%s, want %s/%s", i, got.Problem.ID, got.Category, w.id, w.cat)
		}
	}
	if plan.Slots[2].History != nil {
		t.Error("new problem should have no history")
	}
}

func TestBuildPlan_LowAccuracyCompletionIsRetry(t *testing.T) {
	h := &store.ProblemSummary{Attempts: 10, Correct: 3, Accuracy: 0.3, Sessions: 1, Completions: 1}
	if got := categorize(h); got != CategoryRetry {
		t.Errorf("categorize = %s, want %s", got, CategoryRetry)
	}
}

func TestBuildPlan_RepoError(t *testing.T) {
	repo := &mockEventRepo{err: errors.New("boom")}
	if _, err := NewPlanner(repo).BuildPlan(context.Background(), testBank(t)); err == nil {
		t.Fatal("expected error")
	}
}
