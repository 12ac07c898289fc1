package monitor

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/process"
	"golang.org/x/time/rate"
)

// MemorySample captures the process and system memory state at one
// probe tick. Model ensembles over large pools are memory-heavy, so the
// probe makes growth visible during long runs.
type MemorySample struct {
	ProcessRSSBytes   uint64  `json:"process_rss_bytes"`
	SystemUsedBytes   uint64  `json:"system_used_bytes"`
	SystemTotalBytes  uint64  `json:"system_total_bytes"`
	SystemUsedPercent float64 `json:"system_used_percent"`
}

const highUsagePercent = 90.0

// MemoryProbe periodically samples memory usage and logs it. Warnings
// about high system usage are throttled so a long run under pressure
// does not flood the log.
type MemoryProbe struct {
	interval time.Duration
	logger   *slog.Logger
	proc     *process.Process

	warn   rate.Sometimes
	cancel context.CancelFunc
	done   chan struct{}
}

// NewMemoryProbe builds a probe bound to the current process.
func NewMemoryProbe(interval time.Duration, logger *slog.Logger) (*MemoryProbe, error) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil, err
	}
	return &MemoryProbe{
		interval: interval,
		logger:   logger,
		proc:     proc,
		warn:     rate.Sometimes{First: 1, Interval: time.Minute},
		done:     make(chan struct{}),
	}, nil
}

// Sample takes one measurement.
func (p *MemoryProbe) Sample() (*MemorySample, error) {
	memInfo, err := p.proc.MemoryInfo()
	if err != nil {
		return nil, err
	}
	v, err := mem.VirtualMemory()
	if err != nil {
		return nil, err
	}
	return &MemorySample{
		ProcessRSSBytes:   memInfo.RSS,
		SystemUsedBytes:   v.Used,
		SystemTotalBytes:  v.Total,
		SystemUsedPercent: v.UsedPercent,
	}, nil
}

// Start launches the probe loop. Stop must be called to shut it down.
func (p *MemoryProbe) Start(ctx context.Context) {
	ctx, p.cancel = context.WithCancel(ctx)
	go p.loop(ctx)
}

// Stop terminates the probe loop and waits for it to exit.
func (p *MemoryProbe) Stop() {
	if p.cancel != nil {
		p.cancel()
		<-p.done
	}
}

func (p *MemoryProbe) loop(ctx context.Context) {
	defer close(p.done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sample, err := p.Sample()
			if err != nil {
				p.logger.Warn("memory probe failed", "error", err)
				continue
			}
			p.logger.Debug("memory",
				"rss_mb", sample.ProcessRSSBytes/(1<<20),
				"system_used_percent", sample.SystemUsedPercent,
			)
			if sample.SystemUsedPercent >= highUsagePercent {
				p.warn.Do(func() {
					p.logger.Warn("system memory nearly exhausted",
						"system_used_percent", sample.SystemUsedPercent,
						"rss_mb", sample.ProcessRSSBytes/(1<<20),
					)
				})
			}
		}
	}
}
