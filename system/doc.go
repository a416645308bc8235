// Package system reports facts about the host a benchmark runs on.
//
// CPU details come from CPUID where the architecture supports it, memory
// and kernel details from the operating system. Every function degrades to
// a zero value (or the Go runtime's view) when the information is not
// available on the current platform, so reporters never have to handle
// errors for host details.
package system
