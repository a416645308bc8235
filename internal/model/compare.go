package model

import "sort"

// PhaseDelta compares one phase across two runs.
type PhaseDelta struct {
	Name string `json:"name"`

	// Base and Target are the time per operation in nanoseconds. Zero when
	// the phase is missing from that run.
	Base   int64 `json:"base"`
	Target int64 `json:"target"`

	// Change is the relative change of Target against Base in percent.
	Change float64 `json:"change"`

	Verdict Verdict `json:"verdict"`
}

// Comparison is the phase-by-phase difference between two runs.
type Comparison struct {
	BaseID   string       `json:"base_id"`
	TargetID string       `json:"target_id"`
	Deltas   []PhaseDelta `json:"deltas"`
}

// Compare compares every phase of base and target. threshold is the
// relative change in percent that counts as a difference; values <= 0
// select DefaultThreshold. Deltas are sorted by phase name.
func Compare(base, target *Run, threshold float64) *Comparison {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}

	before := base.Phases()
	after := target.Phases()

	names := make([]string, 0, len(before)+len(after))
	for name := range before {
		names = append(names, name)
	}
	for name := range after {
		if _, ok := before[name]; !ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	c := &Comparison{BaseID: base.ID, TargetID: target.ID}
	for _, name := range names {
		b, inBase := before[name]
		t, inTarget := after[name]

		d := PhaseDelta{Name: name}
		switch {
		case !inBase:
			d.Target = t.TimePerOperation()
			d.Verdict = VerdictAdded
		case !inTarget:
			d.Base = b.TimePerOperation()
			d.Verdict = VerdictRemoved
		default:
			d.Base = b.TimePerOperation()
			d.Target = t.TimePerOperation()
			d.Change = relativeChange(d.Base, d.Target)
			d.Verdict = classify(d.Change, threshold)
		}
		c.Deltas = append(c.Deltas, d)
	}
	return c
}

// Count returns the number of deltas with the given verdict.
func (c *Comparison) Count(v Verdict) int {
	n := 0
	for _, d := range c.Deltas {
		if d.Verdict == v {
			n++
		}
	}
	return n
}

// HasRegressions reports whether any phase regressed.
func (c *Comparison) HasRegressions() bool {
	return c.Count(VerdictRegressed) > 0
}

// TimePerOperation returns the average time per operation, or the total
// time for phases that ran a single operation.
func (p PhaseResult) TimePerOperation() int64 {
	if p.TotalOperations > 1 {
		return p.AvgTime
	}
	return p.TotalTime
}

// relativeChange returns the change in percent. A base of zero yields
// 100 for any non-zero target so the result stays JSON-encodable.
func relativeChange(base, target int64) float64 {
	if base == 0 {
		if target == 0 {
			return 0
		}
		return 100
	}
	return float64(target-base) * 100 / float64(base)
}
