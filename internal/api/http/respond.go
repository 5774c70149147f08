package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/abhisek/trilogic/internal/session"
)

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

// stepParam reads the {step} URL parameter.
func stepParam(r *http.Request) (session.Step, error) {
	n, err := strconv.Atoi(chi.URLParam(r, "step"))
	if err != nil {
		return 0, fmt.Errorf("invalid step %q", chi.URLParam(r, "step"))
	}
	return session.ParseStep(n)
}

// maxBody bounds request bodies; submissions are small.
const maxBody = 1 << 20

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid body: %w", err)
	}
	return nil
}
