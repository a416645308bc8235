package benchmark

import "sync"

// PhaseScope wraps a started phase and stops it exactly once, typically
// with defer:
//
//	scope := ctx.ScopePhase("parse")
//	defer scope.Close()
type PhaseScope struct {
	phase Phase
	once  sync.Once
}

// NewPhaseScope wraps phase into a scope. A nil phase yields an inert scope.
func NewPhaseScope(phase Phase) *PhaseScope {
	return &PhaseScope{phase: phase}
}

// Name returns the wrapped phase name, or "<none>".
func (s *PhaseScope) Name() string {
	if s == nil || s.phase == nil {
		return "<none>"
	}
	return s.phase.Name()
}

// StartPhase implements Phase.
func (s *PhaseScope) StartPhase(name string) Phase {
	if s == nil || s.phase == nil {
		return nil
	}
	return s.phase.StartPhase(name)
}

// StartPhaseThreadSafe implements Phase.
func (s *PhaseScope) StartPhaseThreadSafe(name string) Phase {
	if s == nil || s.phase == nil {
		return nil
	}
	return s.phase.StartPhaseThreadSafe(name)
}

// StopPhase stops the wrapped phase. Only the first call has an effect.
func (s *PhaseScope) StopPhase() {
	if s == nil || s.phase == nil {
		return
	}
	s.once.Do(s.phase.StopPhase)
}

// ScopePhase implements Phase.
func (s *PhaseScope) ScopePhase(name string) *PhaseScope {
	return NewPhaseScope(s.StartPhase(name))
}

// ScopePhaseThreadSafe implements Phase.
func (s *PhaseScope) ScopePhaseThreadSafe(name string) *PhaseScope {
	return NewPhaseScope(s.StartPhaseThreadSafe(name))
}

// Close stops the wrapped phase. It always returns nil.
func (s *PhaseScope) Close() error {
	s.StopPhase()
	return nil
}
