package stats

import (
	"math"
	"os"

	"github.com/shirou/gopsutil/v4/process"
)

// ProcessStats contains resource usage of the running engine
type ProcessStats struct {
	CPU float64
	MEM float64 // in MB
}

// Sampler reads resource usage for a process
type Sampler interface {
	Sample() (ProcessStats, error)
}

type sampler struct {
	proc *process.Process
}

// NewSampler creates a sampler for the current process
func NewSampler() Sampler {
	return newSampler(os.Getpid())
}

func newSampler(pid int) Sampler {
	if pid <= 0 || pid > math.MaxInt32 {
		return &sampler{}
	}

	proc, err := process.NewProcess(int32(pid)) // #nosec G115 -- PID range checked above
	if err != nil {
		return &sampler{}
	}

	return &sampler{proc: proc}
}

func (s *sampler) Sample() (ProcessStats, error) {
	if s.proc == nil {
		return ProcessStats{}, nil
	}

	stats := ProcessStats{}

	cpuPercent, err := s.proc.CPUPercent()
	if err == nil {
		stats.CPU = cpuPercent
	}

	memInfo, err := s.proc.MemoryInfo()
	if err != nil {
		return stats, err
	}

	stats.MEM = float64(memInfo.RSS) / 1024 / 1024

	return stats, nil
}
