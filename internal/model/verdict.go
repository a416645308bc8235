package model

// Verdict classifies how a phase changed between two runs.
type Verdict int

const (
	// VerdictUnchanged means the change stayed within the threshold.
	VerdictUnchanged Verdict = iota

	// VerdictImproved means the phase got faster by more than the threshold.
	VerdictImproved

	// VerdictRegressed means the phase got slower by more than the threshold.
	VerdictRegressed

	// VerdictAdded means the phase exists only in the newer run.
	VerdictAdded

	// VerdictRemoved means the phase exists only in the older run.
	VerdictRemoved
)

// DefaultThreshold is the relative change, in percent, below which a
// difference in time per operation is treated as noise.
const DefaultThreshold = 5.0

// String returns a human-readable representation of the verdict.
func (v Verdict) String() string {
	switch v {
	case VerdictUnchanged:
		return "UNCHANGED"
	case VerdictImproved:
		return "IMPROVED"
	case VerdictRegressed:
		return "REGRESSED"
	case VerdictAdded:
		return "ADDED"
	case VerdictRemoved:
		return "REMOVED"
	default:
		return "UNKNOWN"
	}
}

// Symbol returns a short marker used in tables.
func (v Verdict) Symbol() string {
	switch v {
	case VerdictImproved:
		return "+"
	case VerdictRegressed:
		return "-"
	case VerdictAdded:
		return "new"
	case VerdictRemoved:
		return "gone"
	default:
		return "="
	}
}

// classify returns the verdict for a change in percent. Negative changes
// mean less time per operation.
func classify(change, threshold float64) Verdict {
	switch {
	case change < -threshold:
		return VerdictImproved
	case change > threshold:
		return VerdictRegressed
	default:
		return VerdictUnchanged
	}
}
