package main

import (
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/phasebench/phasebench/benchmark"
)

const (
	queueBoundSize = 65536
	itemsToProduce = 1000000
)

// queue is a bounded queue with non-blocking operations.
type queue interface {
	tryEnqueue(v int) bool
	tryDequeue() (int, bool)
}

type channelQueue chan int

func (q channelQueue) tryEnqueue(v int) bool {
	select {
	case q <- v:
		return true
	default:
		return false
	}
}

func (q channelQueue) tryDequeue() (int, bool) {
	select {
	case v := <-q:
		return v, true
	default:
		return 0, false
	}
}

// lockQueue is a ring buffer guarded by a mutex.
type lockQueue struct {
	mu    sync.Mutex
	items []int
	head  int
	size  int
}

func newLockQueue(capacity int) *lockQueue {
	return &lockQueue{items: make([]int, capacity)}
}

func (q *lockQueue) tryEnqueue(v int) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.size == len(q.items) {
		return false
	}
	q.items[(q.head+q.size)%len(q.items)] = v
	q.size++
	return true
}

func (q *lockQueue) tryDequeue() (int, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.size == 0 {
		return 0, false
	}
	v := q.items[q.head]
	q.head = (q.head + 1) % len(q.items)
	q.size--
	return v, true
}

// queueRunner pushes items 1..limit through a queue. Every item is claimed
// by exactly one producer and consumers drain the queue before stopping.
type queueRunner struct {
	newQueue func() queue
	limit    int64

	queue    queue
	count    atomic.Int64
	received atomic.Int64
}

func (r *queueRunner) Initialize(*benchmark.ContextPC) {
	r.queue = r.newQueue()
	r.count.Store(1)
	r.received.Store(0)
}

func (r *queueRunner) Cleanup(*benchmark.ContextPC) { r.queue = nil }

// claimed returns the number of items handed out to producers.
func (r *queueRunner) claimed() int64 {
	return min(r.count.Load()-1, r.limit)
}

func (r *queueRunner) RunProducer(ctx *benchmark.ContextPC) {
	n := r.count.Add(1) - 1
	if n > r.limit {
		ctx.StopProduce()
		return
	}
	for !r.queue.tryEnqueue(int(n)) {
		if ctx.Canceled() {
			return
		}
		runtime.Gosched()
	}
	ctx.Metrics().AddItems(1)
}

func (r *queueRunner) RunConsumer(ctx *benchmark.ContextPC) {
	if _, ok := r.queue.tryDequeue(); ok {
		r.received.Add(1)
		ctx.Metrics().AddItems(1)
		return
	}
	// Claimed items may still be on their way into the queue.
	if ctx.ProduceStopped() && r.received.Load() == r.claimed() {
		ctx.StopConsume()
	}
}

func newChannelQueue() queue { return make(channelQueue, queueBoundSize) }
func newMutexQueue() queue   { return newLockQueue(queueBoundSize) }

func init() {
	spsc := func() *benchmark.Settings {
		return benchmark.NewSettings(benchmark.WithInfinite(), benchmark.WithPC(1, 1))
	}
	mpmc := func() *benchmark.Settings {
		return benchmark.NewSettings(benchmark.WithInfinite(),
			benchmark.WithPCSelector(1, 8, benchmark.Multiply(2), 1, 8, benchmark.Multiply(2)))
	}

	benchmark.Register(benchmark.NewPC("spsc.chan",
		&queueRunner{newQueue: newChannelQueue, limit: itemsToProduce}, spsc()))
	benchmark.Register(benchmark.NewPC("spsc.mutex",
		&queueRunner{newQueue: newMutexQueue, limit: itemsToProduce}, spsc()))

	// The multi-producer plans are only built when a launch needs them.
	benchmark.RegisterBuilder(func() benchmark.Benchmark {
		return benchmark.NewPC("mpmc.chan",
			&queueRunner{newQueue: newChannelQueue, limit: itemsToProduce}, mpmc())
	})
	benchmark.RegisterBuilder(func() benchmark.Benchmark {
		return benchmark.NewPC("mpmc.mutex",
			&queueRunner{newQueue: newMutexQueue, limit: itemsToProduce}, mpmc())
	})
}
