//go:build linux

package system

import (
	"strings"

	"golang.org/x/sys/unix"
)

func memory() (total, free int64) {
	var info unix.Sysinfo_t
	if err := unix.Sysinfo(&info); err != nil {
		return 0, 0
	}
	unit := uint64(info.Unit)
	if unit == 0 {
		unit = 1
	}
	return int64(uint64(info.Totalram) * unit), int64(uint64(info.Freeram) * unit)
}

func uname() (unix.Utsname, bool) {
	var u unix.Utsname
	if err := unix.Uname(&u); err != nil {
		return u, false
	}
	return u, true
}

func osVersion() string {
	u, ok := uname()
	if !ok {
		return ""
	}
	parts := []string{
		unix.ByteSliceToString(u.Sysname[:]),
		unix.ByteSliceToString(u.Release[:]),
		unix.ByteSliceToString(u.Version[:]),
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

func osIs64Bit() bool {
	u, ok := uname()
	if !ok {
		return false
	}
	machine := unix.ByteSliceToString(u.Machine[:])
	return strings.Contains(machine, "64") || machine == "s390x"
}
