package system

import (
	"math"
	"testing"
	"time"
)

func TestMulDiv64(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		operand    uint64
		multiplier uint64
		divider    uint64
		want       uint64
	}{
		{name: "simple", operand: 10, multiplier: 1000000000, divider: 5, want: 2000000000},
		{name: "zero divider", operand: 10, multiplier: 10, divider: 0, want: 0},
		{name: "128-bit intermediate", operand: math.MaxUint64, multiplier: 1000000000, divider: 1000000000, want: math.MaxUint64},
		{name: "large operands", operand: 1 << 40, multiplier: 1 << 40, divider: 1 << 30, want: 1 << 50},
		{name: "overflow saturates", operand: math.MaxUint64, multiplier: 2, divider: 1, want: math.MaxUint64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := MulDiv64(tt.operand, tt.multiplier, tt.divider); got != tt.want {
				t.Errorf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestTimestampIsMonotonic(t *testing.T) {
	t.Parallel()

	first := Timestamp()
	second := Timestamp()
	if second < first {
		t.Errorf("expected %d >= %d", second, first)
	}
}

func TestUnixTimestamp(t *testing.T) {
	t.Parallel()

	before := time.Now().Unix()
	got := UnixTimestamp()
	after := time.Now().Unix()
	if got < before || got > after {
		t.Errorf("expected a unix timestamp between %d and %d, got %d", before, after, got)
	}
}

func TestCores(t *testing.T) {
	t.Parallel()

	if CPULogicalCores() <= 0 {
		t.Errorf("expected positive logical cores, got %d", CPULogicalCores())
	}
	if CPUPhysicalCores() <= 0 {
		t.Errorf("expected positive physical cores, got %d", CPUPhysicalCores())
	}
	if CPUTotalCores() <= 0 {
		t.Errorf("expected positive total cores, got %d", CPUTotalCores())
	}
	if CPUArchitecture() == "" {
		t.Error("expected non-empty CPU architecture")
	}
}

func TestEnvironment(t *testing.T) {
	t.Parallel()

	t.Run("process bits are exclusive", func(t *testing.T) {
		t.Parallel()
		if Is32BitProcess() == Is64BitProcess() {
			t.Error("expected exactly one of Is32BitProcess and Is64BitProcess")
		}
	})

	t.Run("64-bit process implies 64-bit OS", func(t *testing.T) {
		t.Parallel()
		if Is64BitProcess() && !Is64BitOS() {
			t.Error("expected 64-bit OS for a 64-bit process")
		}
	})

	t.Run("endianness is exclusive", func(t *testing.T) {
		t.Parallel()
		if IsBigEndian() == IsLittleEndian() {
			t.Error("expected exactly one byte order")
		}
	})

	t.Run("debug and release are exclusive", func(t *testing.T) {
		t.Parallel()
		if IsDebug() == IsRelease() {
			t.Error("expected exactly one of IsDebug and IsRelease")
		}
	})

	t.Run("line endings", func(t *testing.T) {
		t.Parallel()
		if UnixEndLine() != "\n" {
			t.Errorf("expected \\n, got %q", UnixEndLine())
		}
		if WindowsEndLine() != "\r\n" {
			t.Errorf("expected \\r\\n, got %q", WindowsEndLine())
		}
	})

	t.Run("os version", func(t *testing.T) {
		t.Parallel()
		if OSVersion() == "" {
			t.Error("expected non-empty OS version")
		}
	})
}

func TestSnapshot(t *testing.T) {
	t.Parallel()

	info := Snapshot()
	if info.ProcessBits != 32 && info.ProcessBits != 64 {
		t.Errorf("expected 32 or 64 process bits, got %d", info.ProcessBits)
	}
	if info.RAMFree > info.RAMTotal {
		t.Errorf("expected free RAM %d <= total RAM %d", info.RAMFree, info.RAMTotal)
	}
	if got := info.Configuration(); got != "debug" && got != "release" {
		t.Errorf("expected debug or release, got %q", got)
	}
}
