//go:build !linux

package system

func memory() (total, free int64) {
	return 0, 0
}

func osVersion() string {
	return ""
}

func osIs64Bit() bool {
	return false
}
