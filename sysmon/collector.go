// Package sysmon polls OS counters, persists them to a relational table, and
// exposes the live values as JSON over HTTP.
package sysmon

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/mem"
	gopsnet "github.com/shirou/gopsutil/v4/net"
	"github.com/shirou/gopsutil/v4/process"
)

const bytesPerMB = 1024 * 1024

// Snapshot is one sample of the machine's counters. Byte counters are
// reported in megabytes, matching the stored schema.
type Snapshot struct {
	Time           time.Time `json:"time"`
	CPUPercent     float64   `json:"cpu_percent"`
	MemoryUsedMB   float64   `json:"memory_used_mb"`
	MemoryPercent  float64   `json:"memory_percent"`
	DiskUsedMB     float64   `json:"disk_used_mb"`
	DiskPercent    float64   `json:"disk_percent"`
	BytesSentMB    float64   `json:"bytes_sent_mb"`
	BytesRecvMB    float64   `json:"bytes_recv_mb"`
	BatteryPercent *float64  `json:"battery_percent,omitempty"`
	BatteryPlugged *bool     `json:"battery_plugged,omitempty"`
}

// ProcessInfo is one row of the top-processes listing.
type ProcessInfo struct {
	PID        int32   `json:"pid"`
	Name       string  `json:"name"`
	CPUPercent float64 `json:"cpu_percent"`
	MemPercent float32 `json:"mem_percent"`
}

// Collector samples OS counters through gopsutil.
type Collector struct {
	diskPath    string
	cpuInterval time.Duration
	now         func() time.Time
}

// NewCollector builds a collector. cpuInterval is the window passed to the
// CPU sampler; zero means an instantaneous reading.
func NewCollector(diskPath string, cpuInterval time.Duration) *Collector {
	if diskPath == "" {
		diskPath = "/"
	}
	return &Collector{
		diskPath:    diskPath,
		cpuInterval: cpuInterval,
		now:         time.Now,
	}
}

// Collect takes one snapshot. Battery fields stay nil: gopsutil exposes no
// portable battery source, and the schema keeps the columns nullable.
func (c *Collector) Collect(ctx context.Context) (Snapshot, error) {
	cpuPercents, err := cpu.PercentWithContext(ctx, c.cpuInterval, false)
	if err != nil {
		return Snapshot{}, fmt.Errorf("sample cpu: %w", err)
	}
	var cpuPercent float64
	if len(cpuPercents) > 0 {
		cpuPercent = cpuPercents[0]
	}

	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("sample memory: %w", err)
	}

	du, err := disk.UsageWithContext(ctx, c.diskPath)
	if err != nil {
		return Snapshot{}, fmt.Errorf("sample disk: %w", err)
	}

	ioCounters, err := gopsnet.IOCountersWithContext(ctx, false)
	if err != nil {
		return Snapshot{}, fmt.Errorf("sample network: %w", err)
	}
	var sent, recv uint64
	if len(ioCounters) > 0 {
		sent = ioCounters[0].BytesSent
		recv = ioCounters[0].BytesRecv
	}

	return Snapshot{
		Time:          c.now().UTC(),
		CPUPercent:    cpuPercent,
		MemoryUsedMB:  float64(vm.Used) / bytesPerMB,
		MemoryPercent: vm.UsedPercent,
		DiskUsedMB:    float64(du.Used) / bytesPerMB,
		DiskPercent:   du.UsedPercent,
		BytesSentMB:   float64(sent) / bytesPerMB,
		BytesRecvMB:   float64(recv) / bytesPerMB,
	}, nil
}

// TopProcesses returns the n processes using the most CPU right now.
func (c *Collector) TopProcesses(ctx context.Context, n int) ([]ProcessInfo, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("list processes: %w", err)
	}

	infos := make([]ProcessInfo, 0, len(procs))
	for _, p := range procs {
		name, err := p.NameWithContext(ctx)
		if err != nil {
			continue
		}
		cpuPct, err := p.CPUPercentWithContext(ctx)
		if err != nil {
			continue
		}
		memPct, err := p.MemoryPercentWithContext(ctx)
		if err != nil {
			memPct = 0
		}
		infos = append(infos, ProcessInfo{
			PID:        p.Pid,
			Name:       name,
			CPUPercent: cpuPct,
			MemPercent: memPct,
		})
	}

	sort.Slice(infos, func(i, j int) bool { return infos[i].CPUPercent > infos[j].CPUPercent })
	if n > 0 && len(infos) > n {
		infos = infos[:n]
	}
	return infos, nil
}
