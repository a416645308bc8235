package report

import (
	"fmt"
	"strings"
)

// SeparatorWidth is the width of console section separators.
const SeparatorWidth = 79

// Separator returns a separator line of ch.
func Separator(ch byte) string {
	return strings.Repeat(string(ch), SeparatorWidth)
}

// ClockSpeed formats a frequency in Hz, e.g. "3.600 GHz".
func ClockSpeed(hertz int64) string {
	switch abs := absInt(hertz); {
	case abs >= 1_000_000_000:
		return decimal(hertz, 1_000_000_000, 1_000_000, "GHz")
	case abs >= 1_000_000:
		return decimal(hertz, 1_000_000, 1_000, "MHz")
	case abs >= 1_000:
		return decimal(hertz, 1_000, 1, "kHz")
	default:
		return fmt.Sprintf("%d Hz", hertz)
	}
}

const (
	kib = 1 << 10
	mib = 1 << 20
	gib = 1 << 30
	tib = 1 << 40
)

// DataSize formats a byte count with binary units, e.g. "1.500 KiB".
func DataSize(bytes int64) string {
	switch abs := absInt(bytes); {
	case abs >= tib:
		return binary(bytes, tib, "TiB")
	case abs >= gib:
		return binary(bytes, gib, "GiB")
	case abs >= mib:
		return binary(bytes, mib, "MiB")
	case abs >= kib:
		return binary(bytes, kib, "KiB")
	default:
		return fmt.Sprintf("%d bytes", bytes)
	}
}

const (
	microsecond = int64(1_000)
	millisecond = 1_000 * microsecond
	second      = 1_000 * millisecond
	minute      = 60 * second
	hour        = 60 * minute
)

// TimePeriod formats a duration in nanoseconds, e.g. "12.345 ms" or
// "1:02:03.004 h".
func TimePeriod(nanoseconds int64) string {
	abs := absInt(nanoseconds)
	switch {
	case abs >= hour:
		return fmt.Sprintf("%d:%02d:%02d.%03d h", nanoseconds/hour,
			abs%hour/minute, abs%minute/second, abs%second/millisecond)
	case abs >= minute:
		return fmt.Sprintf("%d:%02d.%03d m", nanoseconds/minute,
			abs%minute/second, abs%second/millisecond)
	case abs >= second:
		return decimal(nanoseconds, second, millisecond, "s")
	case abs >= millisecond:
		return decimal(nanoseconds, millisecond, microsecond, "ms")
	case abs >= microsecond:
		return decimal(nanoseconds, microsecond, 1, "mcs")
	default:
		return fmt.Sprintf("%d ns", nanoseconds)
	}
}

// decimal prints value/unit with three decimals of fraction units.
func decimal(value, unit, fraction int64, suffix string) string {
	return fmt.Sprintf("%d.%03d %s", value/unit, absInt(value%unit)/fraction, suffix)
}

// binary prints value/unit with three decimals of the binary remainder.
func binary(value, unit int64, suffix string) string {
	return fmt.Sprintf("%d.%03d %s", value/unit, absInt(value%unit)*1000/unit, suffix)
}

func absInt(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
