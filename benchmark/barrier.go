package benchmark

import "sync"

// Barrier blocks goroutines until a fixed number of them arrived. It is
// reusable: once released, the next Wait starts a new generation.
type Barrier struct {
	mu         sync.Mutex
	cond       *sync.Cond
	threads    int
	counter    int
	generation uint64
}

// NewBarrier creates a barrier for threads goroutines. It panics if
// threads is not positive.
func NewBarrier(threads int) *Barrier {
	if threads <= 0 {
		panic("benchmark: barrier threads count must be positive")
	}
	b := &Barrier{threads: threads, counter: threads}
	b.cond = sync.NewCond(&b.mu)
	return b
}

// Wait blocks until all goroutines of the current generation arrived.
// It returns true for exactly one goroutine of every generation: the
// last one to arrive.
func (b *Barrier) Wait() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	generation := b.generation
	b.counter--
	if b.counter == 0 {
		b.generation++
		b.counter = b.threads
		b.cond.Broadcast()
		return true
	}

	for generation == b.generation {
		b.cond.Wait()
	}
	return false
}
