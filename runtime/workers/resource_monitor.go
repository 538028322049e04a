package workers

import (
	"context"
	"log/slog"
	"sentiment-lab/contract"
	"time"

	"github.com/shirou/gopsutil/process"
)

var _ contract.Worker = (*ResourceMonitorWorker)(nil)

// ResourceMonitorWorker logs memory and CPU of the watched processes at a
// fixed interval, the classifier itself and the scoring specialist if any.
type ResourceMonitorWorker struct {
	log      *slog.Logger
	interval time.Duration
	pids     map[string]int32
}

func NewResourceMonitorWorker(log *slog.Logger, interval time.Duration, pids map[string]int32) *ResourceMonitorWorker {
	return &ResourceMonitorWorker{log: log, interval: interval, pids: pids}
}

func (w *ResourceMonitorWorker) Run(ctx context.Context) error {
	processes := make(map[string]*process.Process, len(w.pids))
	for name, pid := range w.pids {
		p, err := process.NewProcess(pid)
		if err != nil {
			w.log.Debug("Process not monitored", "name", name, "pid", pid, "error", err)
			continue
		}
		processes[name] = p
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			for name, p := range processes {
				rss, cpu, err := ProcessStats(p)
				if err != nil {
					w.log.Debug("Failed to collect process stats", "name", name, "error", err)
					continue
				}
				w.log.Debug("Process stats", "name", name, "pid", p.Pid, "rss_mb", rss/1024/1024, "cpu_percent", cpu)
			}
		}
	}
}

// ProcessStats returns the resident memory in bytes and the CPU usage of p.
func ProcessStats(p *process.Process) (uint64, float64, error) {
	memInfo, err := p.MemoryInfo()
	if err != nil {
		return 0, 0, err
	}
	cpuPercent, err := p.CPUPercent()
	if err != nil {
		return 0, 0, err
	}
	return memInfo.RSS, cpuPercent, nil
}
