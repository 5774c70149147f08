package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/abhisek/trilogic/internal/auth"
	"github.com/abhisek/trilogic/internal/problem"
	"github.com/abhisek/trilogic/internal/session"
	"github.com/abhisek/trilogic/internal/validate"
)

var (
	// ErrSessionNotFound is returned for unknown session ids.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionTaken is returned when a session id is held by another learner.
	ErrSessionTaken = errors.New("session id already in use")
)

type entry struct {
	mu    sync.Mutex
	s     *session.Session
	owner string
}

// Registry holds the server-side sessions. Each session is guarded by its
// own lock; the map by another.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*entry
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*entry)}
}

// Add stores s under its id, owned by the learner in ctx. A live session
// of the same learner under that id is replaced; one owned by another
// learner is not.
func (reg *Registry) Add(ctx context.Context, s *session.Session) error {
	owner := auth.LearnerFrom(ctx)
	reg.mu.Lock()
	defer reg.mu.Unlock()
	if e, ok := reg.sessions[s.ID]; ok && e.owner != owner {
		return fmt.Errorf("%w: %q", ErrSessionTaken, s.ID)
	}
	reg.sessions[s.ID] = &entry{s: s, owner: owner}
	return nil
}

// Remove forgets a session.
func (reg *Registry) Remove(id string) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	delete(reg.sessions, id)
}

// Len returns the number of live sessions.
func (reg *Registry) Len() int {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return len(reg.sessions)
}

// With runs fn with exclusive access to the session. Sessions owned by
// another learner are reported as not found.
func (reg *Registry) With(ctx context.Context, id string, fn func(*session.Session) error) error {
	reg.mu.RLock()
	e, ok := reg.sessions[id]
	reg.mu.RUnlock()
	if !ok || e.owner != auth.LearnerFrom(ctx) {
		return fmt.Errorf("%w: %q", ErrSessionNotFound, id)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.s)
}

type sessionView struct {
	ID          string              `json:"id"`
	ProblemID   string              `json:"problem_id"`
	State       *session.StepsState `json:"state"`
	ElapsedSecs int                 `json:"elapsed_secs"`
	Outcome     *session.Outcome    `json:"outcome,omitempty"`
}

func viewOf(s *session.Session, out *session.Outcome) sessionView {
	return sessionView{
		ID:          s.ID,
		ProblemID:   s.Problem.ID,
		State:       s.State,
		ElapsedSecs: int(s.Elapsed().Seconds()),
		Outcome:     out,
	}
}

type createSessionRequest struct {
	ProblemID string `json:"problem_id"`
	Resume    bool   `json:"resume,omitempty"`
}

// POST /sessions {problem_id, resume}
// With resume set, the caller's latest stored snapshot of the problem is
// restored when it holds an unfinished attempt.
func CreateSessionHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createSessionRequest
		if err := decodeBody(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		p, err := d.Bank.Get(req.ProblemID)
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, problem.ErrNotFound) {
				status = http.StatusNotFound
			}
			writeError(w, status, err.Error())
			return
		}

		var s *session.Session
		if req.Resume && d.Snapshots != nil {
			snap, err := d.Snapshots.LatestFor(r.Context(), p.ID, auth.LearnerFrom(r.Context()))
			if err != nil {
				writeError(w, http.StatusInternalServerError, err.Error())
				return
			}
			if session.Resumable(snap) {
				s, err = session.Resume(snap, d.Bank, d.Sink)
				if err != nil {
					fmt.Fprintf(os.Stderr, "warning: cannot resume session %s: %v\n", snap.SessionID, err)
				}
			}
		}
		if s == nil {
			s = session.New(p, d.Sink)
		}
		if err := d.Sessions.Add(r.Context(), s); err != nil {
			writeSessionError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, viewOf(s, nil))
	}
}

// GET /sessions/{sessionID}
func GetSessionHandler(reg *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var view sessionView
		err := reg.With(r.Context(), chi.URLParam(r, "sessionID"), func(s *session.Session) error {
			view = viewOf(s, nil)
			return nil
		})
		if err != nil {
			writeSessionError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}

// PUT /sessions/{sessionID}/steps/{step}
// Body is a validate.Submission; only the fragment of the named step is
// taken from it.
func PutStepHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		step, err := stepParam(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		var sub validate.Submission
		if err := decodeBody(w, r, &sub); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		var view sessionView
		err = d.Sessions.With(r.Context(), chi.URLParam(r, "sessionID"), func(s *session.Session) error {
			if err := session.ApplySubmission(s.State, step, sub); err != nil {
				return err
			}
			saveSnapshot(r.Context(), d, s)
			view = viewOf(s, nil)
			return nil
		})
		if err != nil {
			writeSessionError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}

// POST /sessions/{sessionID}/advance
func AdvanceHandler(d Deps) http.HandlerFunc {
	return transitionHandler(d, (*session.Session).Advance)
}

// POST /sessions/{sessionID}/back
func BackHandler(d Deps) http.HandlerFunc {
	return transitionHandler(d, (*session.Session).Back)
}

func transitionHandler(d Deps, move func(*session.Session) session.Outcome) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var view sessionView
		err := d.Sessions.With(r.Context(), chi.URLParam(r, "sessionID"), func(s *session.Session) error {
			out := move(s)
			saveSnapshot(r.Context(), d, s)
			view = viewOf(s, &out)
			return nil
		})
		if err != nil {
			writeSessionError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}

// DELETE /sessions/{sessionID}
func AbandonSessionHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "sessionID")
		err := d.Sessions.With(r.Context(), id, func(s *session.Session) error {
			s.Abandon()
			return nil
		})
		if err != nil {
			writeSessionError(w, err)
			return
		}
		d.Sessions.Remove(id)
		w.WriteHeader(http.StatusNoContent)
	}
}

// GET /sessions/{sessionID}/summary
func SummaryHandler(reg *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var sum *session.SessionSummary
		err := reg.With(r.Context(), chi.URLParam(r, "sessionID"), func(s *session.Session) error {
			sum = session.BuildSummary(s)
			return nil
		})
		if err != nil {
			writeSessionError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, sum)
	}
}

// saveSnapshot stores the session for later resumption. Failures are only
// warned about.
func saveSnapshot(ctx context.Context, d Deps, s *session.Session) {
	if d.Snapshots == nil {
		return
	}
	snap, err := s.Snapshot()
	if err == nil {
		snap.LearnerID = auth.LearnerFrom(ctx)
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err = d.Snapshots.Save(ctx, snap)
		cancel()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to save snapshot: %v\n", err)
	}
}

func writeSessionError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrSessionNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeError(w, http.StatusConflict, err.Error())
}
