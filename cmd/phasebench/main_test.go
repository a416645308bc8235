package main

import (
	"context"
	"math/rand/v2"
	"slices"
	"sync"
	"testing"

	"go.uber.org/goleak"

	"github.com/phasebench/phasebench/benchmark"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestRegisteredBenchmarks(t *testing.T) {
	t.Parallel()

	seen := make(map[string]bool)
	for _, b := range benchmark.Default().Benchmarks() {
		if seen[b.Name()] {
			t.Errorf("benchmark %q registered twice", b.Name())
		}
		seen[b.Name()] = true
	}

	for _, name := range []string{
		"sleep", "atomic.Int64.Add()", "copy", "sort.Quick", "slices.Sort",
		"list.List.PushBack()", "spsc.chan", "mpmc.mutex", "counter.mutex",
		"executor.ScopeBenchmark()",
	} {
		if !seen[name] {
			t.Errorf("expected benchmark %q to be registered", name)
		}
	}
}

func TestSorts(t *testing.T) {
	t.Parallel()

	sorts := map[string]func([]int){
		"selection": selectionSort,
		"bubble":    bubbleSort,
		"insertion": insertionSort,
		"shell":     shellSort,
		"merge":     mergeSort,
		"quick":     quickSort,
		"radix":     radixSort,
	}

	rng := rand.New(rand.NewPCG(7, 7)) //nolint:gosec // test input
	inputs := [][]int{nil, {1}, {2, 1}, {3, 3, 1, 3}}
	random := make([]int, 1000)
	for i := range random {
		random[i] = rng.IntN(500)
	}
	inputs = append(inputs, random)

	for name, fn := range sorts {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			for _, input := range inputs {
				got := slices.Clone(input)
				fn(got)
				if !slices.IsSorted(got) {
					t.Errorf("expected sorted output, got %v", got)
				}
				if !slices.Equal(got, slices.Sorted(slices.Values(input))) {
					t.Errorf("expected the same items after sorting %v", input)
				}
			}
		})
	}
}

func TestQueues(t *testing.T) {
	t.Parallel()

	queues := map[string]queue{
		"chan":  make(channelQueue, 2),
		"mutex": newLockQueue(2),
	}

	for name, q := range queues {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			if _, ok := q.tryDequeue(); ok {
				t.Error("expected an empty queue")
			}
			for _, v := range []int{1, 2} {
				if !q.tryEnqueue(v) {
					t.Fatalf("expected %d to be enqueued", v)
				}
			}
			if q.tryEnqueue(3) {
				t.Error("expected a full queue to reject items")
			}
			for _, expected := range []int{1, 2} {
				if v, ok := q.tryDequeue(); !ok || v != expected {
					t.Errorf("expected %d, got %d (ok=%v)", expected, v, ok)
				}
			}
		})
	}
}

func TestQueueRunnerStops(t *testing.T) {
	t.Parallel()

	testCases := map[string]*benchmark.Settings{
		"items exhausted": benchmark.NewSettings(benchmark.WithAttempts(1),
			benchmark.WithInfinite(), benchmark.WithPC(2, 2)),
		"producer limit": benchmark.NewSettings(benchmark.WithAttempts(1),
			benchmark.WithOperations(10), benchmark.WithPC(1, 1)),
	}

	for name, settings := range testCases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			launcher := benchmark.NewLauncher()
			launcher.AddBenchmark(benchmark.NewPC("queue",
				&queueRunner{newQueue: newMutexQueue, limit: 100}, settings))
			if err := launcher.Launch(context.Background(), ""); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !launcher.Benchmarks()[0].Launched() {
				t.Error("expected the benchmark to be launched")
			}
		})
	}
}

// recordingQueue remembers every value taken from the wrapped queue.
type recordingQueue struct {
	queue
	mu    sync.Mutex
	taken []int
}

func (q *recordingQueue) tryDequeue() (int, bool) {
	v, ok := q.queue.tryDequeue()
	if ok {
		q.mu.Lock()
		q.taken = append(q.taken, v)
		q.mu.Unlock()
	}
	return v, ok
}

func TestQueueRunnerDeliversEveryItemOnce(t *testing.T) {
	t.Parallel()

	const limit = 5000

	queues := map[string]func() queue{
		"channel": func() queue { return make(channelQueue, 16) },
		"mutex":   func() queue { return newLockQueue(16) },
	}

	for name, newQueue := range queues {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			var recorder *recordingQueue
			runner := &queueRunner{
				newQueue: func() queue {
					recorder = &recordingQueue{queue: newQueue()}
					return recorder
				},
				limit: limit,
			}

			launcher := benchmark.NewLauncher()
			launcher.AddBenchmark(benchmark.NewPC("queue", runner,
				benchmark.NewSettings(benchmark.WithAttempts(1), benchmark.WithInfinite(), benchmark.WithPC(4, 4))))
			if err := launcher.Launch(context.Background(), ""); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			taken := slices.Clone(recorder.taken)
			slices.Sort(taken)
			if len(taken) != limit {
				t.Fatalf("expected %d items, got %d", limit, len(taken))
			}
			for i, v := range taken {
				if v != i+1 {
					t.Fatalf("expected item %d at position %d, got %d", i+1, i, v)
				}
			}
		})
	}
}

func TestExampleRunners(t *testing.T) {
	t.Parallel()

	launcher := benchmark.NewLauncher()
	launcher.AddBenchmark(benchmark.New("copy", &memoryCopy{},
		benchmark.NewSettings(benchmark.WithAttempts(1), benchmark.WithOperations(5),
			benchmark.WithParamSelector(chunkSizeFrom, chunkSizeTo, benchmark.Multiply(4)))))
	launcher.AddBenchmark(benchmark.New("executor", &executorRunner{},
		benchmark.NewSettings(benchmark.WithAttempts(1), benchmark.WithOperations(5))))
	launcher.AddBenchmark(benchmark.NewThreads("counter", &atomicCounter{},
		benchmark.NewSettings(benchmark.WithAttempts(1), benchmark.WithOperations(5), benchmark.WithThreads(2))))

	if err := launcher.Launch(context.Background(), ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, b := range launcher.Benchmarks() {
		if len(b.Phases()) == 0 {
			t.Errorf("%s: expected phases", b.Name())
		}
	}

	// 1 KiB, 4 KiB, 16 KiB and 64 KiB chunks, 5 copies each.
	var copied int64
	for _, phase := range launcher.Benchmarks()[0].Phases() {
		copied += phase.Metrics().TotalBytes()
	}
	if expected := int64(5 * (1024 + 4096 + 16384 + 65536)); copied != expected {
		t.Errorf("expected %d bytes copied, got %d", expected, copied)
	}
}
