package main

import (
	"sync/atomic"

	"github.com/phasebench/phasebench/benchmark"
)

type atomicInt32 struct {
	x    atomic.Int32
	y, z int32
}

func (a *atomicInt32) Initialize(*benchmark.Context) {
	a.x.Store(0)
	a.y, a.z = 0, 1
}

func (a *atomicInt32) Cleanup(*benchmark.Context) {}

type atomicInt64 struct {
	x    atomic.Int64
	y, z int64
}

func (a *atomicInt64) Initialize(*benchmark.Context) {
	a.x.Store(0)
	a.y, a.z = 0, 1
}

func (a *atomicInt64) Cleanup(*benchmark.Context) {}

type cas32 struct{ atomicInt32 }

func (a *cas32) Run(*benchmark.Context) { a.x.CompareAndSwap(a.y, a.z) }

type add32 struct{ atomicInt32 }

func (a *add32) Run(*benchmark.Context) { a.x.Add(a.z) }

type cas64 struct{ atomicInt64 }

func (a *cas64) Run(*benchmark.Context) { a.x.CompareAndSwap(a.y, a.z) }

type add64 struct{ atomicInt64 }

func (a *add64) Run(*benchmark.Context) { a.x.Add(a.z) }

func init() {
	benchmark.Register(benchmark.New("atomic.Int32.CompareAndSwap()", &cas32{}, nil))
	benchmark.Register(benchmark.New("atomic.Int64.CompareAndSwap()", &cas64{}, nil))
	benchmark.Register(benchmark.New("atomic.Int32.Add()", &add32{}, nil))
	benchmark.Register(benchmark.New("atomic.Int64.Add()", &add64{}, nil))
}
