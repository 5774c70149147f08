package http

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/abhisek/trilogic/internal/problem"
	"github.com/abhisek/trilogic/internal/store"
	"github.com/abhisek/trilogic/internal/validate"
)

// GET /problems
// The answer is never part of the listing.
func ListProblemsHandler(bank *problem.Bank) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, bank.List())
	}
}

// GET /problems/{problemID}
func GetProblemHandler(bank *problem.Bank) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := lookupProblem(w, r, bank)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

// POST /problems/{problemID}/steps/{step}/check
// Body is a validate.Submission; nothing is stored.
func CheckStepHandler(bank *problem.Bank) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := lookupProblem(w, r, bank)
		if !ok {
			return
		}
		step, err := stepParam(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if p.Mode == validate.ModeTwoStep && int(step) > 2 {
			writeError(w, http.StatusBadRequest, "two-step problems have steps 1 and 2 only")
			return
		}
		var sub validate.Submission
		if err := decodeBody(w, r, &sub); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, validate.Check(p.Mode, int(step), sub, sub.Registry(), p.Spec))
	}
}

type problemStats struct {
	ProblemID string           `json:"problem_id"`
	Steps     []store.StepStat `json:"steps"`
}

// GET /problems/{problemID}/stats
func ProblemStatsHandler(bank *problem.Bank, events store.EventRepo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := lookupProblem(w, r, bank)
		if !ok {
			return
		}
		if events == nil {
			writeError(w, http.StatusServiceUnavailable, "event store not configured")
			return
		}
		stats, err := events.StepAccuracy(r.Context(), p.ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, problemStats{ProblemID: p.ID, Steps: stats})
	}
}

// GET /stats
func StatsHandler(events store.EventRepo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if events == nil {
			writeError(w, http.StatusServiceUnavailable, "event store not configured")
			return
		}
		list, err := events.ProblemSummaries(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

func lookupProblem(w http.ResponseWriter, r *http.Request, bank *problem.Bank) (*problem.Problem, bool) {
	p, err := bank.Get(chi.URLParam(r, "problemID"))
	if errors.Is(err, problem.ErrNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return nil, false
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return nil, false
	}
	return p, true
}
