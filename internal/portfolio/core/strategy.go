package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Strategy is one named way of producing records for a content category.
// Pure strategies do no I/O and still run after ctx is done.
type Strategy[T any] struct {
	Name string
	Run  func(ctx context.Context) ([]T, error)
	Pure bool
}

// Attempt records the outcome of one strategy or candidate.
type Attempt struct {
	Name  string
	Count int
	Err   error
}

// FirstNonEmpty runs strategies in order and returns the first non-empty
// result along with the winning strategy name. Strategy errors are collected
// and never returned; they only explain why a strategy was skipped.
func FirstNonEmpty[T any](ctx context.Context, strategies []Strategy[T]) ([]T, string, []Attempt) {
	attempts := make([]Attempt, 0, len(strategies))
	for _, s := range strategies {
		if s.Run == nil {
			continue
		}
		if err := ctx.Err(); err != nil && !s.Pure {
			attempts = append(attempts, Attempt{Name: s.Name, Err: err})
			continue
		}
		items, err := s.Run(ctx)
		attempts = append(attempts, Attempt{Name: s.Name, Count: len(items), Err: err})
		if err == nil && len(items) > 0 {
			return items, s.Name, attempts
		}
	}
	return nil, "", attempts
}

// Candidate is one source that may produce a value.
type Candidate[T any] struct {
	Name  string
	Fetch func(ctx context.Context) (T, error)
}

// ErrNoCandidates is returned by FirstSuccess when it was given nothing to try.
var ErrNoCandidates = errors.New("no candidates configured")

// ErrEmpty marks a candidate that answered but had nothing usable.
var ErrEmpty = errors.New("empty result")

// FirstSuccess tries each candidate exactly once, in order, and returns the
// first value produced without error.
func FirstSuccess[T any](ctx context.Context, candidates []Candidate[T]) (T, string, error) {
	var zero T
	if len(candidates) == 0 {
		return zero, "", ErrNoCandidates
	}
	failures := make([]string, 0, len(candidates))
	var lastErr error
	for _, c := range candidates {
		if c.Fetch == nil {
			continue
		}
		if err := ctx.Err(); err != nil {
			return zero, "", err
		}
		v, err := c.Fetch(ctx)
		if err == nil {
			return v, c.Name, nil
		}
		lastErr = err
		failures = append(failures, c.Name+": "+err.Error())
	}
	if lastErr == nil {
		return zero, "", ErrNoCandidates
	}
	return zero, "", fmt.Errorf("all candidates failed (%s): %w", strings.Join(failures, "; "), lastErr)
}
