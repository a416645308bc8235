package main

import (
	"math/rand/v2"
	"slices"

	"github.com/phasebench/phasebench/benchmark"
)

const (
	slowSortSize = 10000
	fastSortSize = 1000000
)

// sortRunner fills a slice of ctx.X() random items on every operation and
// sorts it with fn.
type sortRunner struct {
	items []int
	rng   *rand.Rand
	fn    func([]int)
}

func (s *sortRunner) Initialize(ctx *benchmark.Context) {
	s.items = make([]int, ctx.X())
	s.rng = rand.New(rand.NewPCG(1, 2)) //nolint:gosec // benchmark input
}

func (s *sortRunner) Cleanup(*benchmark.Context) { s.items = nil }

func (s *sortRunner) Run(ctx *benchmark.Context) {
	for i := range s.items {
		s.items[i] = s.rng.Int()
	}
	s.fn(s.items)
	ctx.Metrics().AddItems(int64(len(s.items)))
}

func selectionSort(items []int) {
	for i := range items {
		lowest := i
		for j := i + 1; j < len(items); j++ {
			if items[j] < items[lowest] {
				lowest = j
			}
		}
		items[i], items[lowest] = items[lowest], items[i]
	}
}

func bubbleSort(items []int) {
	for i := range items {
		bound := len(items) - i
		for j := 1; j < bound; j++ {
			if items[j] < items[j-1] {
				items[j], items[j-1] = items[j-1], items[j]
			}
		}
	}
}

func insertionSort(items []int) {
	for i := 1; i < len(items); i++ {
		v := items[i]
		j := i
		for ; j > 0 && items[j-1] > v; j-- {
			items[j] = items[j-1]
		}
		items[j] = v
	}
}

func shellSort(items []int) {
	for gap := len(items) / 2; gap > 0; gap /= 2 {
		for i := gap; i < len(items); i++ {
			v := items[i]
			j := i
			for ; j >= gap && items[j-gap] > v; j -= gap {
				items[j] = items[j-gap]
			}
			items[j] = v
		}
	}
}

func mergeSort(items []int) {
	scratch := make([]int, len(items))
	var sortRange func(lo, hi int)
	sortRange = func(lo, hi int) {
		if hi-lo < 2 {
			return
		}
		mid := lo + (hi-lo)/2
		sortRange(lo, mid)
		sortRange(mid, hi)

		i, j, k := lo, mid, lo
		for i < mid && j < hi {
			if items[j] < items[i] {
				scratch[k] = items[j]
				j++
			} else {
				scratch[k] = items[i]
				i++
			}
			k++
		}
		k += copy(scratch[k:], items[i:mid])
		copy(scratch[k:], items[j:hi])
		copy(items[lo:hi], scratch[lo:hi])
	}
	sortRange(0, len(items))
}

func quickSort(items []int) {
	for len(items) > 1 {
		pivot := items[len(items)/2]
		i, j := 0, len(items)-1
		for i <= j {
			for items[i] < pivot {
				i++
			}
			for items[j] > pivot {
				j--
			}
			if i <= j {
				items[i], items[j] = items[j], items[i]
				i++
				j--
			}
		}
		// Recurse into the smaller part to bound the stack depth.
		if j+1 < len(items)-i {
			quickSort(items[:j+1])
			items = items[i:]
		} else {
			quickSort(items[i:])
			items = items[:j+1]
		}
	}
}

// radixSort sorts non-negative items by bytes, least significant first.
func radixSort(items []int) {
	scratch := make([]int, len(items))
	for shift := 0; shift < 64; shift += 8 {
		var counts [257]int
		for _, v := range items {
			counts[(v>>shift)&0xff+1]++
		}
		for i := 1; i < len(counts); i++ {
			counts[i] += counts[i-1]
		}
		for _, v := range items {
			b := (v >> shift) & 0xff
			scratch[counts[b]] = v
			counts[b]++
		}
		items, scratch = scratch, items
	}
}

func init() {
	sorts := []struct {
		name string
		size int
		fn   func([]int)
	}{
		{name: "sort.Selection", size: slowSortSize, fn: selectionSort},
		{name: "sort.Bubble", size: slowSortSize, fn: bubbleSort},
		{name: "sort.Insertion", size: slowSortSize, fn: insertionSort},
		{name: "sort.Shell", size: slowSortSize, fn: shellSort},
		{name: "sort.Merge", size: fastSortSize, fn: mergeSort},
		{name: "sort.Quick", size: fastSortSize, fn: quickSort},
		{name: "sort.Radix", size: fastSortSize, fn: radixSort},
		{name: "slices.Sort", size: fastSortSize, fn: slices.Sort[[]int]},
	}
	for _, s := range sorts {
		settings := benchmark.NewSettings(benchmark.WithParam(s.size))
		benchmark.Register(benchmark.New(s.name, &sortRunner{fn: s.fn}, settings))
	}
}
