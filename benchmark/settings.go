package benchmark

import (
	"slices"
	"time"
)

// Default settings values.
const (
	// DefaultAttempts is the number of attempts each benchmark makes.
	// The best attempt (lowest total time) is reported.
	DefaultAttempts = 5

	// DefaultDuration is how long each launch runs when neither an
	// operation count nor infinite mode is requested.
	DefaultDuration = 5 * time.Second
)

// Params holds the x, y, z input parameters of a launch.
// Unused parameters are -1.
type Params struct {
	X int `json:"x"`
	Y int `json:"y"`
	Z int `json:"z"`
}

// PCPair is one producers/consumers combination.
type PCPair struct {
	Producers int `json:"producers"`
	Consumers int `json:"consumers"`
}

// LatencyParams configures the HDR latency histogram.
// Lowest and Highest are in nanoseconds; Significant is the number of
// significant decimal digits (1..5).
type LatencyParams struct {
	Lowest      int64 `json:"lowest"`
	Highest     int64 `json:"highest"`
	Significant int   `json:"significant"`
}

// Valid reports whether the parameters describe a usable histogram.
func (l LatencyParams) Valid() bool {
	return l.Lowest >= 1 && l.Highest >= 2*l.Lowest && l.Significant >= 1 && l.Significant <= 5
}

// Selector produces the next value of a range. current starts at from and
// is owned by the selector; returning a value outside [from, to] ends the
// range.
type Selector func(from, to int, current *int) int

// Multiply returns a selector that yields from, from*factor, from*factor^2...
func Multiply(factor int) Selector {
	return func(_, _ int, current *int) int {
		result := *current
		*current *= factor
		return result
	}
}

// Step returns a selector that yields from, from+step, from+2*step...
func Step(step int) Selector {
	return func(_, _ int, current *int) int {
		result := *current
		*current += step
		return result
	}
}

// Settings describes how a benchmark is launched: attempts, run limit,
// thread and producer/consumer plans, input parameters and latency
// histogram configuration.
type Settings struct {
	attempts    int
	infinite    bool
	duration    time.Duration
	operations  int64
	threads     []int
	pc          []PCPair
	params      []Params
	latency     LatencyParams
	latencyAuto bool
}

// SettingsOption configures Settings.
type SettingsOption func(*Settings)

// NewSettings creates Settings with default values (5 attempts, 5 seconds
// per launch) and applies the given options in order.
func NewSettings(opts ...SettingsOption) *Settings {
	s := &Settings{
		attempts: DefaultAttempts,
		duration: DefaultDuration,
	}
	return s.Apply(opts...)
}

// Apply applies options to s and returns it.
func (s *Settings) Apply(opts ...SettingsOption) *Settings {
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Clone returns a deep copy of s.
func (s *Settings) Clone() *Settings {
	c := *s
	c.threads = slices.Clone(s.threads)
	c.pc = slices.Clone(s.pc)
	c.params = slices.Clone(s.params)
	return &c
}

// Attempts returns the number of attempts.
func (s *Settings) Attempts() int { return s.attempts }

// Infinite reports whether launches run until canceled.
func (s *Settings) Infinite() bool { return s.infinite }

// Duration returns the run duration of a launch, or 0 when the launch is
// limited by operations or runs infinitely.
func (s *Settings) Duration() time.Duration { return s.duration }

// Operations returns the operation limit of a launch, or 0 when the launch
// is limited by duration or runs infinitely.
func (s *Settings) Operations() int64 { return s.operations }

// Threads returns the thread counts to launch with.
func (s *Settings) Threads() []int { return slices.Clone(s.threads) }

// PC returns the producers/consumers combinations to launch with.
func (s *Settings) PC() []PCPair { return slices.Clone(s.pc) }

// Params returns the input parameters to launch with.
func (s *Settings) Params() []Params { return slices.Clone(s.params) }

// Latency returns the latency histogram parameters.
func (s *Settings) Latency() LatencyParams { return s.latency }

// LatencyAuto reports whether every operation records its latency.
func (s *Settings) LatencyAuto() bool { return s.latencyAuto }

// WithAttempts sets the number of attempts. Values <= 0 select the default.
func WithAttempts(attempts int) SettingsOption {
	return func(s *Settings) {
		if attempts <= 0 {
			attempts = DefaultAttempts
		}
		s.attempts = attempts
	}
}

// WithInfinite makes launches run until they are canceled or the
// benchmark stops producing.
func WithInfinite() SettingsOption {
	return func(s *Settings) {
		s.infinite = true
		s.duration = 0
		s.operations = 0
	}
}

// WithDuration limits each launch by wall time. Values <= 0 select the default.
func WithDuration(d time.Duration) SettingsOption {
	return func(s *Settings) {
		if d <= 0 {
			d = DefaultDuration
		}
		s.infinite = false
		s.duration = d
		s.operations = 0
	}
}

// WithOperations limits each launch to a number of operations.
// Values <= 0 select a single operation.
func WithOperations(operations int64) SettingsOption {
	return func(s *Settings) {
		if operations <= 0 {
			operations = 1
		}
		s.infinite = false
		s.duration = 0
		s.operations = operations
	}
}

// WithThreads adds a thread count to the plan.
func WithThreads(threads int) SettingsOption {
	return func(s *Settings) {
		if threads > 0 {
			s.threads = append(s.threads, threads)
		}
	}
}

// WithThreadsRange adds every thread count in [from, to].
func WithThreadsRange(from, to int) SettingsOption {
	return func(s *Settings) {
		if from <= 0 || to <= 0 {
			return
		}
		from, to = ordered(from, to)
		for i := from; i <= to; i++ {
			s.threads = append(s.threads, i)
		}
	}
}

// WithThreadsSelector adds the thread counts yielded by selector in [from, to].
func WithThreadsSelector(from, to int, selector Selector) SettingsOption {
	return func(s *Settings) {
		if from <= 0 || to <= 0 || selector == nil {
			return
		}
		s.threads = append(s.threads, selectRange(from, to, selector)...)
	}
}

// WithoutThreads clears the thread plan, e.g. before replacing it.
func WithoutThreads() SettingsOption {
	return func(s *Settings) {
		s.threads = nil
	}
}

// WithPC adds a producers/consumers combination.
func WithPC(producers, consumers int) SettingsOption {
	return func(s *Settings) {
		if producers > 0 && consumers > 0 {
			s.pc = append(s.pc, PCPair{Producers: producers, Consumers: consumers})
		}
	}
}

// WithPCRange adds every producers/consumers combination of the two ranges.
func WithPCRange(producersFrom, producersTo, consumersFrom, consumersTo int) SettingsOption {
	return func(s *Settings) {
		if producersFrom <= 0 || producersTo <= 0 || consumersFrom <= 0 || consumersTo <= 0 {
			return
		}
		producersFrom, producersTo = ordered(producersFrom, producersTo)
		consumersFrom, consumersTo = ordered(consumersFrom, consumersTo)
		for p := producersFrom; p <= producersTo; p++ {
			for c := consumersFrom; c <= consumersTo; c++ {
				s.pc = append(s.pc, PCPair{Producers: p, Consumers: c})
			}
		}
	}
}

// WithPCSelector adds every combination of the values yielded by the two selectors.
func WithPCSelector(producersFrom, producersTo int, producersSelector Selector, consumersFrom, consumersTo int, consumersSelector Selector) SettingsOption {
	return func(s *Settings) {
		if producersFrom <= 0 || producersTo <= 0 || consumersFrom <= 0 || consumersTo <= 0 ||
			producersSelector == nil || consumersSelector == nil {
			return
		}
		for _, p := range selectRange(producersFrom, producersTo, producersSelector) {
			for _, c := range selectRange(consumersFrom, consumersTo, consumersSelector) {
				s.pc = append(s.pc, PCPair{Producers: p, Consumers: c})
			}
		}
	}
}

// WithParam adds a single input parameter.
func WithParam(x int) SettingsOption {
	return func(s *Settings) {
		if x >= 0 {
			s.params = append(s.params, Params{X: x, Y: -1, Z: -1})
		}
	}
}

// WithParamRange adds every single parameter in [from, to].
func WithParamRange(from, to int) SettingsOption {
	return func(s *Settings) {
		if from < 0 || to < 0 {
			return
		}
		from, to = ordered(from, to)
		for x := from; x <= to; x++ {
			s.params = append(s.params, Params{X: x, Y: -1, Z: -1})
		}
	}
}

// WithParamSelector adds the single parameters yielded by selector.
func WithParamSelector(from, to int, selector Selector) SettingsOption {
	return func(s *Settings) {
		if from < 0 || to < 0 || selector == nil {
			return
		}
		for _, x := range selectRange(from, to, selector) {
			s.params = append(s.params, Params{X: x, Y: -1, Z: -1})
		}
	}
}

// WithPair adds a pair of input parameters.
func WithPair(x, y int) SettingsOption {
	return func(s *Settings) {
		if x >= 0 && y >= 0 {
			s.params = append(s.params, Params{X: x, Y: y, Z: -1})
		}
	}
}

// WithPairRange adds every pair of the two ranges.
func WithPairRange(xFrom, xTo, yFrom, yTo int) SettingsOption {
	return func(s *Settings) {
		if xFrom < 0 || xTo < 0 || yFrom < 0 || yTo < 0 {
			return
		}
		xFrom, xTo = ordered(xFrom, xTo)
		yFrom, yTo = ordered(yFrom, yTo)
		for x := xFrom; x <= xTo; x++ {
			for y := yFrom; y <= yTo; y++ {
				s.params = append(s.params, Params{X: x, Y: y, Z: -1})
			}
		}
	}
}

// WithPairSelector adds every pair of the values yielded by the two selectors.
func WithPairSelector(xFrom, xTo int, xSelector Selector, yFrom, yTo int, ySelector Selector) SettingsOption {
	return func(s *Settings) {
		if xFrom < 0 || xTo < 0 || yFrom < 0 || yTo < 0 || xSelector == nil || ySelector == nil {
			return
		}
		for _, x := range selectRange(xFrom, xTo, xSelector) {
			for _, y := range selectRange(yFrom, yTo, ySelector) {
				s.params = append(s.params, Params{X: x, Y: y, Z: -1})
			}
		}
	}
}

// WithTriple adds a triple of input parameters.
func WithTriple(x, y, z int) SettingsOption {
	return func(s *Settings) {
		if x >= 0 && y >= 0 && z >= 0 {
			s.params = append(s.params, Params{X: x, Y: y, Z: z})
		}
	}
}

// WithTripleRange adds every triple of the three ranges.
func WithTripleRange(xFrom, xTo, yFrom, yTo, zFrom, zTo int) SettingsOption {
	return func(s *Settings) {
		if xFrom < 0 || xTo < 0 || yFrom < 0 || yTo < 0 || zFrom < 0 || zTo < 0 {
			return
		}
		xFrom, xTo = ordered(xFrom, xTo)
		yFrom, yTo = ordered(yFrom, yTo)
		zFrom, zTo = ordered(zFrom, zTo)
		for x := xFrom; x <= xTo; x++ {
			for y := yFrom; y <= yTo; y++ {
				for z := zFrom; z <= zTo; z++ {
					s.params = append(s.params, Params{X: x, Y: y, Z: z})
				}
			}
		}
	}
}

// WithTripleSelector adds every triple of the values yielded by the three selectors.
func WithTripleSelector(xFrom, xTo int, xSelector Selector, yFrom, yTo int, ySelector Selector, zFrom, zTo int, zSelector Selector) SettingsOption {
	return func(s *Settings) {
		if xFrom < 0 || xTo < 0 || yFrom < 0 || yTo < 0 || zFrom < 0 || zTo < 0 ||
			xSelector == nil || ySelector == nil || zSelector == nil {
			return
		}
		for _, x := range selectRange(xFrom, xTo, xSelector) {
			for _, y := range selectRange(yFrom, yTo, ySelector) {
				for _, z := range selectRange(zFrom, zTo, zSelector) {
					s.params = append(s.params, Params{X: x, Y: y, Z: z})
				}
			}
		}
	}
}

// WithLatency configures the latency histogram. When automatic is true
// every operation records its own latency; otherwise the benchmark calls
// PhaseMetrics.AddLatency itself.
func WithLatency(lowest, highest int64, significant int, automatic bool) SettingsOption {
	return func(s *Settings) {
		s.latency = LatencyParams{Lowest: lowest, Highest: highest, Significant: significant}
		s.latencyAuto = automatic
	}
}

func ordered(from, to int) (int, int) {
	if from > to {
		return to, from
	}
	return from, to
}

// selectRange collects the values of selector that fall inside [from, to].
// The selector is restarted from from on every call. The range also ends at
// the first repeated value, so Multiply from 0, Multiply(1) and Step(0)
// yield a single value.
func selectRange(from, to int, selector Selector) []int {
	from, to = ordered(from, to)
	var values []int
	seen := make(map[int]struct{})
	current := from
	for result := selector(from, to, &current); result >= from && result <= to; result = selector(from, to, &current) {
		if _, ok := seen[result]; ok {
			break
		}
		seen[result] = struct{}{}
		values = append(values, result)
	}
	return values
}
