package benchmark

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestBarrier(t *testing.T) {
	t.Parallel()

	t.Run("exactly one goroutine is last per generation", func(t *testing.T) {
		t.Parallel()

		const threads = 8
		const generations = 5

		barrier := NewBarrier(threads)
		var last atomic.Int32
		var passed atomic.Int32
		var wg sync.WaitGroup
		for range threads {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for range generations {
					if barrier.Wait() {
						last.Add(1)
					}
					passed.Add(1)
				}
			}()
		}
		wg.Wait()

		if got := last.Load(); got != generations {
			t.Errorf("expected %d last arrivals, got %d", generations, got)
		}
		if got := passed.Load(); got != threads*generations {
			t.Errorf("expected %d passes, got %d", threads*generations, got)
		}
	})

	t.Run("single thread never blocks", func(t *testing.T) {
		t.Parallel()
		barrier := NewBarrier(1)
		if !barrier.Wait() || !barrier.Wait() {
			t.Error("expected the only goroutine to be last")
		}
	})

	t.Run("non-positive threads panic", func(t *testing.T) {
		t.Parallel()
		defer func() {
			if recover() == nil {
				t.Error("expected panic")
			}
		}()
		NewBarrier(0)
	})
}
