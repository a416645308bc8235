package system

import "time"

// Info is a snapshot of the host and build environment.
type Info struct {
	CPUArchitecture   string    `json:"cpu_architecture"`
	CPULogicalCores   int       `json:"cpu_logical_cores"`
	CPUPhysicalCores  int       `json:"cpu_physical_cores"`
	CPUClockSpeed     int64     `json:"cpu_clock_speed"`
	CPUHyperThreading bool      `json:"cpu_hyperthreading"`
	RAMTotal          int64     `json:"ram_total"`
	RAMFree           int64     `json:"ram_free"`
	OSVersion         string    `json:"os_version"`
	OSBits            int       `json:"os_bits"`
	ProcessBits       int       `json:"process_bits"`
	Debug             bool      `json:"process_debug"`
	Timestamp         time.Time `json:"timestamp"`
}

// Snapshot collects the current host information.
func Snapshot() Info {
	osBits, processBits := 32, 32
	if Is64BitOS() {
		osBits = 64
	}
	if Is64BitProcess() {
		processBits = 64
	}
	return Info{
		CPUArchitecture:   CPUArchitecture(),
		CPULogicalCores:   CPULogicalCores(),
		CPUPhysicalCores:  CPUPhysicalCores(),
		CPUClockSpeed:     CPUClockSpeed(),
		CPUHyperThreading: CPUHyperThreading(),
		RAMTotal:          RAMTotal(),
		RAMFree:           RAMFree(),
		OSVersion:         OSVersion(),
		OSBits:            osBits,
		ProcessBits:       processBits,
		Debug:             IsDebug(),
		Timestamp:         Now(),
	}
}

// Configuration returns "debug" or "release".
func (i Info) Configuration() string {
	if i.Debug {
		return "debug"
	}
	return "release"
}
