package system

import (
	"encoding/binary"
	"math/bits"
	"runtime"
	"runtime/debug"
	"strings"
	"time"
)

// Is32BitOS reports whether the operating system is 32-bit.
func Is32BitOS() bool {
	return !Is64BitOS()
}

// Is64BitOS reports whether the operating system is 64-bit.
// A 64-bit process implies a 64-bit OS; otherwise the kernel is asked.
func Is64BitOS() bool {
	if Is64BitProcess() {
		return true
	}
	return osIs64Bit()
}

// Is32BitProcess reports whether the current process is 32-bit.
func Is32BitProcess() bool {
	return bits.UintSize == 32
}

// Is64BitProcess reports whether the current process is 64-bit.
func Is64BitProcess() bool {
	return bits.UintSize == 64
}

// IsDebug reports whether the binary was built for debugging, that is with
// the race detector or with optimizations disabled.
func IsDebug() bool {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return false
	}
	for _, setting := range info.Settings {
		switch setting.Key {
		case "-race":
			if setting.Value == "true" {
				return true
			}
		case "-gcflags":
			if strings.Contains(setting.Value, "-N") {
				return true
			}
		}
	}
	return false
}

// IsRelease reports whether the binary was built with optimizations.
func IsRelease() bool {
	return !IsDebug()
}

// IsBigEndian reports whether the host is big-endian.
func IsBigEndian() bool {
	var buf [2]byte
	binary.NativeEndian.PutUint16(buf[:], 1)
	return buf[0] == 0
}

// IsLittleEndian reports whether the host is little-endian.
func IsLittleEndian() bool {
	return !IsBigEndian()
}

// OSVersion returns a human readable operating system version.
func OSVersion() string {
	if v := osVersion(); v != "" {
		return v
	}
	return runtime.GOOS
}

// EndLine returns the line terminator of the host platform.
func EndLine() string {
	if runtime.GOOS == "windows" {
		return WindowsEndLine()
	}
	return UnixEndLine()
}

// UnixEndLine returns the Unix line terminator.
func UnixEndLine() string {
	return "\n"
}

// WindowsEndLine returns the Windows line terminator.
func WindowsEndLine() string {
	return "\r\n"
}

// Now returns the current wall clock time.
func Now() time.Time {
	return time.Now()
}

// UnixTimestamp returns the current wall clock time in seconds since the
// Unix epoch. Timestamp is the monotonic clock used for measuring.
func UnixTimestamp() int64 {
	return Now().Unix()
}
