package telemetry

import (
	"fmt"
	"os"

	"github.com/shirou/gopsutil/v3/process"
)

// MemorySampler reads the resident set size of the current process.
type MemorySampler struct {
	proc *process.Process
	last float64
}

// NewMemorySampler attaches to the running process.
func NewMemorySampler() (*MemorySampler, error) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil, fmt.Errorf("attaching to process: %w", err)
	}
	return &MemorySampler{proc: proc}, nil
}

// RSSMB samples resident memory in megabytes. On a read failure the
// previous sample is returned together with the error.
func (m *MemorySampler) RSSMB() (float64, error) {
	if m == nil {
		return 0, nil
	}
	info, err := m.proc.MemoryInfo()
	if err != nil {
		return m.last, fmt.Errorf("reading memory info: %w", err)
	}
	m.last = float64(info.RSS) / (1024 * 1024)
	return m.last, nil
}

// Last returns the most recent successful sample.
func (m *MemorySampler) Last() float64 {
	if m == nil {
		return 0
	}
	return m.last
}
