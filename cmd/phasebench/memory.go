package main

import (
	"github.com/phasebench/phasebench/benchmark"
)

const (
	chunkSizeFrom = 1024
	chunkSizeTo   = 65536
)

// chunkSettings launches once per chunk size from 1 KiB to 64 KiB,
// doubling every step.
func chunkSettings() *benchmark.Settings {
	return benchmark.NewSettings(
		benchmark.WithParamSelector(chunkSizeFrom, chunkSizeTo, benchmark.Multiply(2)),
	)
}

// memoryCopy copies a prepared buffer into a scratch buffer.
type memoryCopy struct {
	source []byte
	target []byte
}

func (m *memoryCopy) Initialize(*benchmark.Context) {
	m.source = make([]byte, chunkSizeTo)
	for i := range m.source {
		m.source[i] = byte(i)
	}
	m.target = make([]byte, chunkSizeTo)
}

func (m *memoryCopy) Cleanup(*benchmark.Context) {
	m.source, m.target = nil, nil
}

func (m *memoryCopy) Run(ctx *benchmark.Context) {
	size := ctx.X()
	copy(m.target[:size], m.source[:size])
	ctx.Metrics().AddBytes(int64(size))
	ctx.Metrics().SetCustomUint64("CRC", uint64(m.target[0]))
}

// memoryMove copies overlapping halves of one buffer.
type memoryMove struct {
	buffer []byte
}

func (m *memoryMove) Initialize(*benchmark.Context) { m.buffer = make([]byte, chunkSizeTo) }
func (m *memoryMove) Cleanup(*benchmark.Context)    { m.buffer = nil }

func (m *memoryMove) Run(ctx *benchmark.Context) {
	size := ctx.X()
	copy(m.buffer, m.buffer[size/4:size/4+size/2])
	copy(m.buffer[size/2:], m.buffer[size/4:size/4+size/2])
	ctx.Metrics().AddBytes(int64(size))
	ctx.Metrics().SetCustomUint64("CRC", uint64(m.buffer[0]))
}

func init() {
	benchmark.Register(benchmark.New("copy", &memoryCopy{}, chunkSettings()))
	benchmark.Register(benchmark.New("copy.overlapping", &memoryMove{}, chunkSettings()))
}
