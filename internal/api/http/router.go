package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/abhisek/trilogic/internal/auth"
	"github.com/abhisek/trilogic/internal/problem"
	"github.com/abhisek/trilogic/internal/session"
	"github.com/abhisek/trilogic/internal/store"
)

// Deps are the collaborators the API serves from. Sink, Events and
// Snapshots may be nil. With Auth set, session routes require a bearer
// token and each session is visible only to the learner who started it.
type Deps struct {
	Bank      *problem.Bank
	Sessions  *Registry
	Sink      session.Sink
	Events    store.EventRepo
	Snapshots store.SnapshotRepo
	Auth      *auth.Service

	CORSOrigins    []string
	RequestTimeout time.Duration
}

// NewRouter mounts every route.
func NewRouter(d Deps) http.Handler {
	if d.Sessions == nil {
		d.Sessions = NewRegistry()
	}
	if d.RequestTimeout <= 0 {
		d.RequestTimeout = 30 * time.Second
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(d.RequestTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	r.Route("/problems", func(pr chi.Router) {
		pr.Get("/", ListProblemsHandler(d.Bank))
		pr.Route("/{problemID}", func(pr chi.Router) {
			pr.Get("/", GetProblemHandler(d.Bank))
			pr.Post("/steps/{step}/check", CheckStepHandler(d.Bank))
			pr.Get("/stats", ProblemStatsHandler(d.Bank, d.Events))
		})
	})

	r.Get("/stats", StatsHandler(d.Events))

	r.Route("/sessions", func(sr chi.Router) {
		if d.Auth != nil {
			sr.Use(d.Auth.Middleware(writeError))
		}
		sr.Post("/", CreateSessionHandler(d))
		sr.Route("/{sessionID}", func(sr chi.Router) {
			sr.Get("/", GetSessionHandler(d.Sessions))
			sr.Delete("/", AbandonSessionHandler(d))
			sr.Put("/steps/{step}", PutStepHandler(d))
			sr.Post("/advance", AdvanceHandler(d))
			sr.Post("/back", BackHandler(d))
			sr.Get("/summary", SummaryHandler(d.Sessions))
		})
	})

	return r
}
