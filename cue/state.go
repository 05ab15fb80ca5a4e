// Package cue holds the shared display state for the currently standing
// cue and the mapping from decoded OSC messages onto it.
package cue

import "sync"

// DisplayState is one consistent view of the cue display: the standing cue
// number, its description and its color. Values arrive independently, one
// field per OSC message, and unset fields keep their zero value.
type DisplayState struct {
	Cue         string
	Description string
	Color       Color
}

// Update is a single-field change to a DisplayState. The set of
// implementations is closed: exactly one per mapped OSC address.
type Update interface {
	apply(*DisplayState)
}

// CueUpdate replaces the cue number field.
type CueUpdate string

// DescriptionUpdate replaces the description field.
type DescriptionUpdate string

// ColorUpdate replaces the color field.
type ColorUpdate Color

func (u CueUpdate) apply(s *DisplayState)         { s.Cue = string(u) }
func (u DescriptionUpdate) apply(s *DisplayState) { s.Description = string(u) }
func (u ColorUpdate) apply(s *DisplayState)       { s.Color = Color(u) }

// State is a concurrency-safe cell holding the latest DisplayState. One
// writer applies updates while any number of readers take snapshots; a
// snapshot is always a complete past state, never a half-applied one.
type State struct {
	mu      sync.RWMutex
	current DisplayState
}

// NewState returns a State holding the zero DisplayState.
func NewState() *State {
	return &State{}
}

// Apply merges a single update into the state. A nil update is a no-op.
func (s *State) Apply(u Update) {
	if u == nil {
		return
	}
	s.mu.Lock()
	u.apply(&s.current)
	s.mu.Unlock()
}

// Snapshot returns a copy of the current state. The copy is detached:
// later updates never mutate it.
func (s *State) Snapshot() DisplayState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}
