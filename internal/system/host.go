package system

import (
	"os"
	"runtime"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

// HostStats is a point-in-time view of the machine and this process.
type HostStats struct {
	LogicalCPUs   int
	PhysicalCPUs  int
	TotalMemory   uint64
	AvailMemory   uint64
	ProcessRSS    uint64
	MemoryPercent float64
}

// ReadHostStats collects what is available; fields it cannot read stay
// zero.
func ReadHostStats() HostStats {
	var s HostStats
	if n, err := cpu.Counts(true); err == nil {
		s.LogicalCPUs = n
	}
	if n, err := cpu.Counts(false); err == nil {
		s.PhysicalCPUs = n
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		s.TotalMemory = vm.Total
		s.AvailMemory = vm.Available
		s.MemoryPercent = vm.UsedPercent
	}
	if p, err := process.NewProcess(int32(os.Getpid())); err == nil {
		if mi, err := p.MemoryInfo(); err == nil {
			s.ProcessRSS = mi.RSS
		}
	}
	return s
}

// DefaultWorkers sizes the raster pool: one worker per logical CPU, capped
// so that in-flight frames of frameBytes each use at most a quarter of the
// available memory.
func DefaultWorkers(frameBytes int) int {
	return workersFor(ReadHostStats(), frameBytes)
}

func workersFor(s HostStats, frameBytes int) int {
	n := s.LogicalCPUs
	if n <= 0 {
		n = runtime.NumCPU()
	}
	if frameBytes > 0 && s.AvailMemory > 0 {
		// Each worker holds a frame being drawn plus one queued for the sink.
		limit := int(s.AvailMemory / 4 / uint64(2*frameBytes))
		if limit < n {
			n = limit
		}
	}
	if n < 1 {
		n = 1
	}
	return n
}
