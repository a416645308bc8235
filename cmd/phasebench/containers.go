package main

import (
	"container/list"

	"github.com/phasebench/phasebench/benchmark"
)

type listPushBack struct{ l *list.List }

func (c *listPushBack) Initialize(*benchmark.Context) { c.l = list.New() }
func (c *listPushBack) Cleanup(*benchmark.Context)    { c.l = nil }
func (c *listPushBack) Run(*benchmark.Context)        { c.l.PushBack(0) }

type sliceAppend struct{ s []int }

func (c *sliceAppend) Initialize(*benchmark.Context) { c.s = nil }
func (c *sliceAppend) Cleanup(*benchmark.Context)    { c.s = nil }
func (c *sliceAppend) Run(*benchmark.Context)        { c.s = append(c.s, 0) }

type mapInsert struct {
	m    map[int]int
	next int
}

func (c *mapInsert) Initialize(*benchmark.Context) { c.m, c.next = make(map[int]int), 0 }
func (c *mapInsert) Cleanup(*benchmark.Context)    { c.m = nil }

func (c *mapInsert) Run(*benchmark.Context) {
	c.m[c.next] = 0
	c.next++
}

func init() {
	benchmark.Register(benchmark.New("list.List.PushBack()", &listPushBack{}, nil))
	benchmark.Register(benchmark.New("[]int.append()", &sliceAppend{}, nil))
	benchmark.Register(benchmark.New("map[int]int.insert()", &mapInsert{}, nil))
}
