package engine

import (
	"context"
	"sync"

	domain "github.com/donaldgifford/terrenos/pkg/types"
)

// Session owns one mutable filter state. Mutations and recomputations on the
// same session are serialised, so a recomputation never observes a state
// that is being changed.
type Session struct {
	mu    sync.Mutex
	eng   *Engine
	state domain.FilterState
}

// NewSession starts a session with every filter disabled.
func (eng *Engine) NewSession() *Session {
	return &Session{eng: eng, state: domain.DefaultFilterState()}
}

// State returns a copy of the current filter state.
func (s *Session) State() domain.FilterState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Update applies fn to the state and recomputes. If the resulting state is
// invalid the previous state is kept and the error returned.
func (s *Session) Update(ctx context.Context, fn func(*domain.FilterState)) (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state
	fn(&next)
	return s.commit(ctx, next)
}

// SelectRegion changes the region and resets the commune to all. The
// result's Communes lists the choices for the new region.
func (s *Session) SelectRegion(ctx context.Context, region domain.Selection) (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.commit(ctx, s.state.WithRegion(region))
}

// Clear restores the default state and recomputes.
func (s *Session) Clear(ctx context.Context) (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.commit(ctx, domain.DefaultFilterState())
}

// Recompute reruns the pipeline for the current state.
func (s *Session) Recompute(ctx context.Context) (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.eng.Recompute(ctx, s.state)
}

func (s *Session) commit(ctx context.Context, next domain.FilterState) (*Result, error) {
	res, err := s.eng.Recompute(ctx, next)
	if err != nil {
		return nil, err
	}
	s.state = next
	return res, nil
}
