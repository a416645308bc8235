package main

import (
	"time"

	"github.com/phasebench/phasebench/benchmark"
)

// sleepInterval is how long every operation of the sleep benchmark sleeps.
const sleepInterval = 10 * time.Millisecond

func init() {
	settings := benchmark.NewSettings(
		benchmark.WithLatency(1, int64(time.Second), 5, true),
	)
	benchmark.Register(benchmark.NewFunc("sleep", func(*benchmark.Context) {
		time.Sleep(sleepInterval)
	}, settings))
}
