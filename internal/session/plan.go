package session

import (
	"github.com/abhisek/trilogic/internal/problem"
	"github.com/abhisek/trilogic/internal/store"
)

// PlanCategory represents the reason a problem was suggested.
type PlanCategory string

const (
	CategoryRetry  PlanCategory = "retry"
	CategoryNew    PlanCategory = "new"
	CategoryReview PlanCategory = "review"
)

// PlanSlot is a single suggested problem with what is known about it.
type PlanSlot struct {
	Problem  *problem.Problem
	Category PlanCategory
	History  *store.ProblemSummary // nil when never attempted
}

// Plan is the ordered list of suggested problems.
type Plan struct {
	Slots []PlanSlot
}

// RetryAccuracy is the accuracy below which a completed problem is still
// suggested for retry.
const RetryAccuracy = 0.5
