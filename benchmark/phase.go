package benchmark

// Phase is a named, measurable part of a benchmark. Phases nest: starting
// a phase inside another one creates (or reuses) a child phase with the
// same name.
type Phase interface {
	// Name returns the phase name.
	Name() string

	// StartPhase starts measuring the child phase with the given name.
	// The returned phase must only be used by the calling goroutine.
	StartPhase(name string) Phase

	// StartPhaseThreadSafe is StartPhase for phases shared between
	// goroutines. Every worker gets its own child, merged when the
	// benchmark finishes.
	StartPhaseThreadSafe(name string) Phase

	// StopPhase stops measuring the phase.
	StopPhase()

	// ScopePhase starts a child phase and wraps it into a scope that
	// stops it on Close.
	ScopePhase(name string) *PhaseScope

	// ScopePhaseThreadSafe is ScopePhase for phases shared between goroutines.
	ScopePhaseThreadSafe(name string) *PhaseScope
}
