package session

import (
	"context"
	"sort"

	"github.com/abhisek/trilogic/internal/problem"
	"github.com/abhisek/trilogic/internal/store"
)

// Planner orders the problem bank for the learner.
type Planner interface {
	// BuildPlan creates a plan over every problem in bank.
	BuildPlan(ctx context.Context, bank *problem.Bank) (*Plan, error)
}

// DefaultPlanner puts unfinished problems first, then unseen ones, then
// finished ones for review.
type DefaultPlanner struct {
	EventRepo store.EventRepo
}

// NewPlanner creates a new DefaultPlanner. eventRepo may be nil, in which
// case every problem is new.
func NewPlanner(eventRepo store.EventRepo) *DefaultPlanner {
	return &DefaultPlanner{EventRepo: eventRepo}
}

// BuildPlan creates the plan.
func (p *DefaultPlanner) BuildPlan(ctx context.Context, bank *problem.Bank) (*Plan, error) {
	history := make(map[string]*store.ProblemSummary)
	if p.EventRepo != nil {
		summaries, err := p.EventRepo.ProblemSummaries(ctx)
		if err != nil {
			return nil, err
		}
		for i := range summaries {
			history[summaries[i].ProblemID] = &summaries[i]
		}
	}

	var retry, fresh, review []PlanSlot
	for _, prob := range bank.List() {
		h := history[prob.ID]
		slot := PlanSlot{Problem: prob, History: h, Category: categorize(h)}
		switch slot.Category {
		case CategoryRetry:
			retry = append(retry, slot)
		case CategoryNew:
			fresh = append(fresh, slot)
		default:
			review = append(review, slot)
		}
	}

	// Weakest retries first.
	sort.SliceStable(retry, func(i, j int) bool {
		return retry[i].History.Accuracy < retry[j].History.Accuracy
	})
	// Least recently practiced reviews first.
	sort.SliceStable(review, func(i, j int) bool {
		return review[i].History.LastAttempt.Before(review[j].History.LastAttempt)
	})

	slots := make([]PlanSlot, 0, bank.Len())
	slots = append(slots, retry...)
	slots = append(slots, fresh...)
	slots = append(slots, review...)
	return &Plan{Slots: slots}, nil
}

func categorize(h *store.ProblemSummary) PlanCategory {
	switch {
	case h == nil || (h.Sessions == 0 && h.Attempts == 0):
		return CategoryNew
	case h.Completions == 0:
		return CategoryRetry
	case h.Attempts > 0 && h.Accuracy < RetryAccuracy:
		return CategoryRetry
	}
	return CategoryReview
}
