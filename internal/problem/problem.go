// Package problem loads the problem bank: the arguments a learner works
// through, their option vocabulary and their canonical answers.
package problem

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/abhisek/trilogic/internal/answerspec"
	"github.com/abhisek/trilogic/internal/validate"
)

// ErrNotFound is returned when a problem id is not in the bank.
var ErrNotFound = errors.New("problem not found")

// Problem is one tutoring exercise.
type Problem struct {
	ID       string        `json:"id"`
	Title    string        `json:"title"`
	Argument string        `json:"argument"`
	Mode     validate.Mode `json:"mode"`
	Options  []string      `json:"options"`
	Tags     []string      `json:"tags,omitempty"`

	// Spec is the normalized canonical answer. It is never serialized so
	// listings cannot leak it.
	Spec *answerspec.Spec `json:"-"`

	// Source is the file the problem was loaded from.
	Source string `json:"-"`
}

// HasOption reports whether label is part of the problem's vocabulary.
func (p *Problem) HasOption(label string) bool {
	for _, o := range p.Options {
		if o == label {
			return true
		}
	}
	return false
}

// ValidationError describes every authoring problem found in a document.
type ValidationError struct {
	Source   string
	Problems []string
	Err      error
}

func (e *ValidationError) Error() string {
	msg := strings.Join(e.Problems, "; ")
	if e.Err != nil {
		if msg != "" {
			msg += "; "
		}
		msg += e.Err.Error()
	}
	return fmt.Sprintf("invalid problem document %s: %s", e.Source, msg)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// document is the stored form of a problem.
type document struct {
	ID       string          `json:"id"`
	Title    string          `json:"title"`
	Argument string          `json:"argument"`
	Mode     validate.Mode   `json:"mode"`
	Options  []string        `json:"options"`
	Tags     []string        `json:"tags"`
	Answer   json.RawMessage `json:"answer"`
}

// Bank is an immutable, ordered set of problems.
type Bank struct {
	problems []*Problem
	byID     map[string]*Problem
}

// NewBank builds a bank, rejecting duplicate ids.
func NewBank(problems []*Problem) (*Bank, error) {
	b := &Bank{byID: make(map[string]*Problem, len(problems))}
	var errs []string
	for _, p := range problems {
		if prev, ok := b.byID[p.ID]; ok {
			errs = append(errs, fmt.Sprintf("duplicate problem ID %q (%s and %s)", p.ID, prev.Source, p.Source))
			continue
		}
		b.byID[p.ID] = p
		b.problems = append(b.problems, p)
	}
	if len(errs) > 0 {
		return nil, &ValidationError{Source: "bank", Problems: errs}
	}
	sort.SliceStable(b.problems, func(i, j int) bool { return b.problems[i].ID < b.problems[j].ID })
	return b, nil
}

// Get returns the problem with the given id.
func (b *Bank) Get(id string) (*Problem, error) {
	p, ok := b.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return p, nil
}

// List returns every problem, ordered by id.
func (b *Bank) List() []*Problem {
	out := make([]*Problem, len(b.problems))
	copy(out, b.problems)
	return out
}

// Len returns the number of problems.
func (b *Bank) Len() int {
	return len(b.problems)
}
