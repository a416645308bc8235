package system

import (
	"math"
	"math/bits"
	"runtime"
	"time"

	"github.com/klauspost/cpuid/v2"
)

// start anchors Timestamp to the monotonic clock reading taken at process start.
var start = time.Now()

// CPUArchitecture returns the CPU brand string, or the Go architecture name
// when the brand cannot be detected.
func CPUArchitecture() string {
	if cpuid.CPU.BrandName != "" {
		return cpuid.CPU.BrandName
	}
	return runtime.GOARCH
}

// CPULogicalCores returns the number of logical cores (hardware threads).
func CPULogicalCores() int {
	if cpuid.CPU.LogicalCores > 0 {
		return cpuid.CPU.LogicalCores
	}
	return runtime.NumCPU()
}

// CPUPhysicalCores returns the number of physical cores.
// It falls back to the logical core count when CPUID does not expose it.
func CPUPhysicalCores() int {
	if cpuid.CPU.PhysicalCores > 0 {
		return cpuid.CPU.PhysicalCores
	}
	return CPULogicalCores()
}

// CPUTotalCores returns the number of cores available to this process.
func CPUTotalCores() int {
	return runtime.NumCPU()
}

// CPUClockSpeed returns the base clock speed in Hz, or 0 if unknown.
func CPUClockSpeed() int64 {
	if cpuid.CPU.Hz > 0 {
		return cpuid.CPU.Hz
	}
	return cpuid.CPU.BoostFreq
}

// CPUHyperThreading reports whether simultaneous multithreading is enabled.
func CPUHyperThreading() bool {
	if cpuid.CPU.ThreadsPerCore > 1 {
		return true
	}
	return CPULogicalCores() != CPUPhysicalCores()
}

// RAMTotal returns the total amount of physical memory in bytes.
func RAMTotal() int64 {
	total, _ := memory()
	return total
}

// RAMFree returns the amount of free physical memory in bytes.
func RAMFree() int64 {
	_, free := memory()
	return free
}

// Timestamp returns a monotonic timestamp in nanoseconds.
// Only differences between two timestamps are meaningful.
func Timestamp() int64 {
	return int64(time.Since(start))
}

// MulDiv64 calculates operand * multiplier / divider with a 128-bit
// intermediate product. A zero divider yields 0 and a quotient that does
// not fit into 64 bits saturates at math.MaxUint64.
func MulDiv64(operand, multiplier, divider uint64) uint64 {
	if divider == 0 {
		return 0
	}
	hi, lo := bits.Mul64(operand, multiplier)
	if hi >= divider {
		return math.MaxUint64
	}
	quo, _ := bits.Div64(hi, lo, divider)
	return quo
}
